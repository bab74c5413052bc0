package ezoterika

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/ezoterika/content"
)

// Feed is the state of the home page listing.
type Feed struct {
	Page       Page
	Category   Category
	Query      string
	Categories []Category
}

func (a *App) handleHome(c echo.Context) error {
	category := ParseCategory(c.QueryParam("category"))
	query := strings.TrimSpace(c.QueryParam("q"))
	posts, err := a.Cache.ListPosts(category)
	if err != nil {
		return err
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	feed := Feed{
		Page:       Paginate(Search(posts, query), page, a.Config.PostsPerPage),
		Category:   category,
		Query:      query,
		Categories: Categories,
	}
	if c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == "feed" {
		return Render(c, a.Views.FeedPartial(feed))
	}
	return Render(c, a.Views.Home(feed, a.Config.URL))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.GetPost(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	if err := a.Store.IncrementViews(post.ID); err != nil {
		c.Logger().Warnf("count view of %s: %v", post.ID, err)
	} else {
		post.Views++
	}
	posts, err := a.Cache.ListPosts(post.Category)
	if err != nil {
		return err
	}
	article := BuildArticle(post, a.Media)
	article.Related = RelatedPosts(post, posts, 3)
	return Render(c, a.Views.Post(article, a.Config.URL))
}

type blocksResponse struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Blocks []content.Block `json:"blocks"`
}

// handlePostBlocks returns the parsed blocks of a published post. With
// visible=1 the leading block that restates the header is left out.
func (a *App) handlePostBlocks(c echo.Context) error {
	post, err := a.Cache.GetPost(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "post not found"})
		}
		return err
	}
	blocks := post.Blocks()
	if c.QueryParam("visible") == "1" {
		blocks = content.Visible(blocks, post.Title, post.PreviewText)
	}
	if blocks == nil {
		blocks = []content.Block{}
	}
	return c.JSON(http.StatusOK, blocksResponse{ID: post.ID, Title: post.Title, Blocks: blocks})
}

func (a *App) handleMedia(c echo.Context) error {
	rc, info, err := a.Media.Open(c.Request().Context(), c.Param("*"))
	if err != nil {
		if errors.Is(err, ErrMediaNotFound) || errors.Is(err, ErrBadMediaName) {
			return echo.ErrNotFound
		}
		return err
	}
	defer rc.Close()
	if info.Size > 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(info.Size, 10))
	}
	return c.Stream(http.StatusOK, info.ContentType, rc)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")
	sb.WriteString("Disallow: /admin/\n")
	sb.WriteString("Disallow: /api/\n")
	sb.WriteString("\nSitemap: " + strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml\n")
	return c.String(http.StatusOK, sb.String())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
