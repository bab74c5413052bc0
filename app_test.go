package ezoterika

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/ezoterika/content"
)

func text(format string, args ...any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	})
}

func stubViews() ViewFuncs {
	feedText := func(feed Feed) string {
		var titles []string
		for _, p := range feed.Page.Posts {
			titles = append(titles, p.Title)
		}
		return fmt.Sprintf("page=%d/%d posts=%s", feed.Page.Number, feed.Page.Pages, strings.Join(titles, ","))
	}
	return ViewFuncs{
		Home:        func(feed Feed, siteURL string) templ.Component { return text("home %s", feedText(feed)) },
		FeedPartial: func(feed Feed) templ.Component { return text("partial %s", feedText(feed)) },
		Post: func(a Article, siteURL string) templ.Component {
			return text("post %s views=%d blocks=%d contents=%d", a.Post.Title, a.Post.Views, len(a.Blocks), len(a.Contents))
		},
		AdminLogin: func(showError bool, csrfToken string) templ.Component { return text("login error=%v", showError) },
		AdminDashboard: func(posts []Post, message string, csrfToken string) templ.Component {
			return text("dashboard msg=%s posts=%d", message, len(posts))
		},
		Editor: func(form EditorForm, csrfToken string) templ.Component {
			var titles []string
			for _, b := range form.Blocks {
				titles = append(titles, string(b.Kind)+":"+b.Title)
			}
			return text("editor id=%s blocks=%d error=%s titles=%s", form.ID, len(form.Blocks), form.Error, strings.Join(titles, "|"))
		},
		AdminMedia: func(media []Media, csrfToken string) templ.Component {
			var names []string
			for _, m := range media {
				names = append(names, m.Name)
			}
			return text("media %s", strings.Join(names, ","))
		},
		NotFound:    func() templ.Component { return text("not found") },
		ServerError: func() templ.Component { return text("server error") },
	}
}

type testApp struct {
	*App
	t       *testing.T
	cookies map[string]*http.Cookie
}

func newTestApp(t *testing.T, opts ...func(*SiteConfig)) *testApp {
	t.Helper()
	dir := t.TempDir()
	cfg := SiteConfig{
		URL:           "http://example.com",
		AdminPassword: "secret",
		SessionSecret: "0123456789abcdef0123456789abcdef",
		DatabasePath:  filepath.Join(dir, "test.db"),
		MediaDir:      filepath.Join(dir, "media"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	a := New(cfg, stubViews())
	a.Echo.Logger.SetOutput(io.Discard)
	require.NoError(t, a.Init())
	t.Cleanup(func() { a.Close() })
	return &testApp{App: a, t: t, cookies: map[string]*http.Cookie{}}
}

func (ta *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	ta.t.Helper()
	for _, c := range ta.cookies {
		req.AddCookie(c)
	}
	if c, ok := ta.cookies["_csrf"]; ok {
		req.Header.Set("X-CSRF-Token", c.Value)
	}
	rec := httptest.NewRecorder()
	ta.Echo.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		ta.cookies[c.Name] = c
	}
	return rec
}

func (ta *testApp) get(path string) *httptest.ResponseRecorder {
	return ta.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (ta *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ta.do(req)
}

func (ta *testApp) login() {
	ta.t.Helper()
	ta.get("/admin/")
	rec := ta.postForm("/admin/login/", url.Values{"password": {"secret"}})
	require.Equal(ta.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.Contains(ta.t, ta.cookies, sessionName)
}

func (ta *testApp) savePost(p Post) Post {
	ta.t.Helper()
	saved, err := ta.Store.SavePost(p)
	require.NoError(ta.t, err)
	ta.Cache.Invalidate()
	return saved
}

func editorForm(fields map[string]string) url.Values {
	form := url.Values{
		"category":      {"tarot"},
		"accessibility": {"all"},
		"published":     {"1"},
	}
	for k, v := range fields {
		form.Set(k, v)
	}
	return form
}

func TestHomeListsPublishedPosts(t *testing.T) {
	ta := newTestApp(t)
	ta.savePost(Post{Title: "Moon", Content: "## Moon", Published: true, CreatedAt: day(2), Category: CategoryTarot})
	ta.savePost(Post{Title: "Sun", Content: "## Sun", Published: true, CreatedAt: day(1), Category: CategoryAstrology})
	ta.savePost(Post{Title: "Draft", Content: "## Draft", CreatedAt: day(3)})

	rec := ta.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "home page=1/1 posts=Moon,Sun", rec.Body.String())

	rec = ta.get("/?category=astrology")
	assert.Equal(t, "home page=1/1 posts=Sun", rec.Body.String())

	rec = ta.get("/?q=mO")
	assert.Equal(t, "home page=1/1 posts=Moon", rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/?partial=feed&category=bogus", nil)
	req.Header.Set("HX-Request", "true")
	rec = ta.do(req)
	assert.Equal(t, "partial page=1/1 posts=Moon,Sun", rec.Body.String(), "unknown categories show everything")
}

func TestHomePagination(t *testing.T) {
	ta := newTestApp(t, func(c *SiteConfig) { c.PostsPerPage = 2 })
	for i := 1; i <= 5; i++ {
		ta.savePost(Post{Title: fmt.Sprintf("P%d", i), Content: "x", Published: true, CreatedAt: day(i)})
	}
	assert.Equal(t, "home page=2/3 posts=P3,P2", ta.get("/?page=2").Body.String())
	assert.Equal(t, "home page=3/3 posts=P1", ta.get("/?page=99").Body.String())
}

func TestPostPageCountsViews(t *testing.T) {
	ta := newTestApp(t)
	p := ta.savePost(Post{
		Title:       "Moon",
		PreviewText: "Night",
		Content:     "## Moon\n\nNight\n\n---\n\n## Phases\n\nWaxing\n\n---\n\n## Tides\n\nHigh",
		Published:   true,
	})

	rec := ta.get(p.Link())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "post Moon views=1 blocks=2 contents=2", rec.Body.String(), "the header block is elided")

	ta.get(p.Link())
	got, err := ta.Store.GetPost(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
}

func TestPostNotFound(t *testing.T) {
	ta := newTestApp(t)
	draft := ta.savePost(Post{Title: "Draft", Content: "x"})

	for _, path := range []string{"/posts/missing/", draft.Link()} {
		rec := ta.get(path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "not found", rec.Body.String(), path)
	}
}

func TestPostBlocksAPI(t *testing.T) {
	ta := newTestApp(t)
	p := ta.savePost(Post{
		Title:       "Moon",
		PreviewText: "Night",
		Content:     "## Moon\n\nNight\n\n---\n\n[🎵 chant.mp3](audio/chant.mp3)",
		Published:   true,
	})

	rec := ta.get("/api/posts/" + p.ID + "/blocks/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"`+p.ID+`","title":"Moon","blocks":[
		{"type":"section","title":"Moon","description":"Night"},
		{"type":"pdf","files":[{"name":"chant.mp3","size":0,"type":"audio/mpeg"}]}
	]}`, rec.Body.String())

	rec = ta.get("/api/posts/" + p.ID + "/blocks/?visible=1")
	assert.JSONEq(t, `{"id":"`+p.ID+`","title":"Moon","blocks":[
		{"type":"pdf","files":[{"name":"chant.mp3","size":0,"type":"audio/mpeg"}]}
	]}`, rec.Body.String())

	rec = ta.get("/api/posts/missing/blocks/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeedsAndRobots(t *testing.T) {
	ta := newTestApp(t)
	p := ta.savePost(Post{
		Title:     "Moon",
		Content:   "## Moon\n\n---\n\n[🎵 chant.mp3](audio/chant.mp3)",
		Published: true,
		Category:  CategoryTarot,
	})
	postURL := "http://example.com/posts/" + p.ID + "/"

	rec := ta.get("/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<link>"+postURL+"</link>")
	assert.Contains(t, rec.Body.String(), `<enclosure url="http://example.com/media/audio/chant.mp3" length="0" type="audio/mpeg">`)
	assert.Contains(t, rec.Body.String(), "<category>tarot</category>")

	rec = ta.get("/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<loc>"+postURL+"</loc>")

	rec = ta.get("/robots.txt")
	assert.Contains(t, rec.Body.String(), "Sitemap: http://example.com/sitemap.xml")
}

func TestAdminRequiresLogin(t *testing.T) {
	ta := newTestApp(t)
	for _, path := range []string{"/admin/new/", "/admin/media/", "/admin/post/x/"} {
		rec := ta.get(path)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/admin/", rec.Header().Get("Location"), path)
	}
	assert.Equal(t, "login error=false", ta.get("/admin/").Body.String())
}

func TestLoginLimit(t *testing.T) {
	ta := newTestApp(t)
	ta.get("/admin/")
	for i := 0; i < 5; i++ {
		rec := ta.postForm("/admin/login/", url.Values{"password": {"wrong"}})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "login error=true", rec.Body.String())
	}
	rec := ta.postForm("/admin/login/", url.Values{"password": {"secret"}})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestLoginRejectsMissingCSRF(t *testing.T) {
	ta := newTestApp(t)
	rec := ta.postForm("/admin/login/", url.Values{"password": {"secret"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEditorNew(t *testing.T) {
	ta := newTestApp(t)
	ta.login()
	assert.Equal(t, "editor id= blocks=1 error= titles=section:", ta.get("/admin/new/").Body.String())
}

func TestEditorSaveCreatesPost(t *testing.T) {
	ta := newTestApp(t)
	ta.login()

	rec := ta.postForm("/admin/save/", editorForm(map[string]string{
		"blocks.0.type":        "section",
		"blocks.0.title":       "<b>Moon</b> rising",
		"blocks.0.description": "<p>Night <i>sky</i></p><p>Second</p>",
		"blocks.1.type":        "text",
		"blocks.1.title":       "<ul><li>one</li><li>two</li></ul>",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "dashboard msg=saved posts=1", rec.Body.String())

	posts, err := ta.Store.ListAllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	p := posts[0]
	assert.Equal(t, "**Moon** rising", p.Title)
	assert.Equal(t, "Night *sky*\n\nSecond", p.PreviewText)
	assert.Equal(t, "## **Moon** rising\n\nNight *sky*\n\nSecond\n\n---\n\n- one\n- two", p.Content)
	assert.Equal(t, CategoryTarot, p.Category)
	assert.True(t, p.Published)

	rec = ta.get(p.Link())
	assert.Equal(t, http.StatusOK, rec.Code, "saving invalidates the cache")
}

func TestEditorOperationsReRender(t *testing.T) {
	ta := newTestApp(t)
	ta.login()

	base := map[string]string{
		"blocks.0.type":  "section",
		"blocks.0.title": "A",
		"blocks.1.type":  "text",
		"blocks.1.title": "B",
	}
	cases := []struct {
		op   string
		want string
	}{
		{"add", "titles=section:A|text:B|section:"},
		{"remove:0", "titles=text:B"},
		{"up:1", "titles=text:B|section:A"},
		{"down:0", "titles=text:B|section:A"},
		{"down:1", "titles=section:A|text:B"},
		{"remove:9", "titles=section:A|text:B"},
	}
	for _, c := range cases {
		fields := map[string]string{"op": c.op}
		for k, v := range base {
			fields[k] = v
		}
		rec := ta.postForm("/admin/save/", editorForm(fields))
		require.Equal(t, http.StatusOK, rec.Code, c.op)
		assert.True(t, strings.HasSuffix(rec.Body.String(), c.want), "op %s: got %q", c.op, rec.Body.String())
	}
	posts, err := ta.Store.ListAllPosts()
	require.NoError(t, err)
	assert.Empty(t, posts, "operations never save")
}

func TestEditorValidation(t *testing.T) {
	ta := newTestApp(t)
	ta.login()

	cases := []struct {
		name   string
		fields map[string]string
		want   string
	}{
		{"empty", map[string]string{"blocks.0.type": "section"}, "error=Add at least one block with content."},
		{"no title", map[string]string{"blocks.0.type": "section", "blocks.0.description": "Body"}, "error=Add a title to one of the blocks."},
		{"bad category", map[string]string{"blocks.0.type": "section", "blocks.0.title": "T", "category": "cooking"}, "error=Choose a category."},
		{"long title", map[string]string{"blocks.0.type": "section", "blocks.0.title": strings.Repeat("x", 256)}, "error=The title is too long."},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := ta.postForm("/admin/save/", editorForm(c.fields))
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), c.want)
		})
	}
}

func TestEditorTooLarge(t *testing.T) {
	ta := newTestApp(t, func(c *SiteConfig) { c.MaxContentSize = 100 })
	ta.login()
	rec := ta.postForm("/admin/save/", editorForm(map[string]string{
		"blocks.0.type":        "section",
		"blocks.0.title":       "T",
		"blocks.0.description": strings.Repeat("word ", 50),
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "error=The article is too large.")
}

func TestEditorEditAndUnchangedSave(t *testing.T) {
	ta := newTestApp(t)
	ta.login()
	p := ta.savePost(Post{
		Title:         "Moon",
		PreviewText:   "Night **sky**",
		Content:       "## Moon\n\nNight **sky**\n\n---\n\n[🎵 chant.mp3](audio/chant.mp3)",
		Category:      CategoryTarot,
		Accessibility: AccessAll,
		Published:     true,
	})

	rec := ta.get("/admin/post/" + p.ID + "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "editor id="+p.ID+" blocks=2 error= titles=section:<p>Moon</p>|audio:", rec.Body.String())

	rec = ta.postForm("/admin/save/", editorForm(map[string]string{
		"id":                   p.ID,
		"blocks.0.type":        "section",
		"blocks.0.title":       "<p>Moon</p>",
		"blocks.0.description": "<p>Night <b>sky</b></p>",
		"blocks.1.type":        "audio",
		"blocks.1.files":       `[{"name":"chant.mp3","size":0,"type":"audio/mpeg"}]`,
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "dashboard msg=unchanged posts=1", rec.Body.String())

	rec = ta.get("/admin/post/missing/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditorUpdateKeepsID(t *testing.T) {
	ta := newTestApp(t)
	ta.login()
	p := ta.savePost(Post{Title: "Old", PreviewText: "Old", Content: "## Old", Category: CategoryTarot, Published: true})

	rec := ta.postForm("/admin/save/", editorForm(map[string]string{
		"id":             p.ID,
		"blocks.0.type":  "section",
		"blocks.0.title": "New",
	}))
	require.Equal(t, "dashboard msg=saved posts=1", rec.Body.String())
	got, err := ta.Store.GetPost(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "## New", got.Content)
	assert.Equal(t, "New", got.PreviewText, "the preview falls back to the title")
}

func multipartRequest(t *testing.T, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for key, data := range files {
		field, name, _ := strings.Cut(key, "@")
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/admin/save/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func fakeMP3() []byte {
	data := []byte("ID3\x03\x00\x00\x00\x00\x00\x0a")
	return append(data, make([]byte, 512)...)
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x / 8), uint8(y / 4), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestEditorAudioUpload(t *testing.T) {
	ta := newTestApp(t)
	ta.login()

	req := multipartRequest(t, map[string]string{
		"category":       "meditation",
		"accessibility":  "all",
		"published":      "1",
		"blocks.0.type":  "section",
		"blocks.0.title": "Chants",
		"blocks.1.type":  "audio",
	}, map[string][]byte{"blocks.1.audio@Evening Chant.mp3": fakeMP3()})
	rec := ta.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	posts, err := ta.Store.ListAllPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "## Chants\n\n---\n\n[🎵 evening-chant.mp3](audio/evening-chant.mp3)", posts[0].Content)

	_, err = os.Stat(filepath.Join(ta.Config.MediaDir, "audio", "evening-chant.mp3"))
	assert.NoError(t, err)

	rec = ta.get("/media/audio/evening-chant.mp3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, fakeMP3(), rec.Body.Bytes())

	assert.Equal(t, "media audio/evening-chant.mp3", ta.get("/admin/media/").Body.String())

	// A second upload with the same name gets a counter.
	req = multipartRequest(t, map[string]string{
		"category":       "meditation",
		"accessibility":  "all",
		"blocks.0.type":  "audio",
		"blocks.1.type":  "section",
		"blocks.1.title": "More",
	}, map[string][]byte{"blocks.0.audio@evening chant.mp3": fakeMP3()})
	require.Equal(t, http.StatusOK, ta.do(req).Code)
	ok, err := ta.Store.MediaExists("audio/evening-chant-2.mp3")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEditorRejectsNonAudio(t *testing.T) {
	ta := newTestApp(t)
	ta.login()
	req := multipartRequest(t, map[string]string{
		"category":       "tarot",
		"accessibility":  "all",
		"blocks.0.type":  "section",
		"blocks.0.title": "T",
		"blocks.1.type":  "audio",
	}, map[string][]byte{"blocks.1.audio@notes.mp3": []byte("just some text, not audio")})
	rec := ta.do(req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "notes.mp3 is not an audio file")
}

func TestEditorImageUpload(t *testing.T) {
	t.Run("inline", func(t *testing.T) {
		ta := newTestApp(t)
		ta.login()
		req := multipartRequest(t, map[string]string{
			"category":       "tarot",
			"accessibility":  "all",
			"published":      "1",
			"blocks.0.type":  "section",
			"blocks.0.title": "Card",
		}, map[string][]byte{"blocks.0.upload@card.png": testPNG(t, 40, 30)})
		require.Equal(t, http.StatusOK, ta.do(req).Code)
		posts, err := ta.Store.ListAllPosts()
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.True(t, strings.HasPrefix(posts[0].PreviewImage, "data:image/jpeg;base64,"))
		assert.Contains(t, posts[0].Content, "![](data:image/jpeg;base64,")
	})

	t.Run("stored", func(t *testing.T) {
		ta := newTestApp(t, func(c *SiteConfig) { c.InlineImageLimit = 1 })
		ta.login()
		req := multipartRequest(t, map[string]string{
			"category":               "tarot",
			"accessibility":          "all",
			"blocks.0.type":          "image",
			"blocks.0.image_caption": "Big card",
			"blocks.1.type":          "section",
			"blocks.1.title":         "Card",
		}, map[string][]byte{"blocks.0.upload@Big Card.png": testPNG(t, 1600, 600)})
		require.Equal(t, http.StatusOK, ta.do(req).Code)

		media, err := ta.Store.ListMedia()
		require.NoError(t, err)
		require.Len(t, media, 1)
		assert.Equal(t, "images/big-card.jpg", media[0].Name)
		assert.Equal(t, 800, media[0].Width)
		assert.Equal(t, 300, media[0].Height)

		posts, err := ta.Store.ListAllPosts()
		require.NoError(t, err)
		assert.Equal(t, "/media/images/big-card.jpg", posts[0].PreviewImage)
		assert.True(t, strings.HasPrefix(posts[0].Content, "![Big card](/media/images/big-card.jpg)"))

		req = httptest.NewRequest(http.MethodDelete, "/admin/media/?name=images/big-card.jpg", nil)
		rec := ta.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "media ", rec.Body.String())
		assert.Equal(t, http.StatusNotFound, ta.get("/media/images/big-card.jpg").Code)
	})
}

func TestAdminDeletePost(t *testing.T) {
	ta := newTestApp(t)
	ta.login()
	p := ta.savePost(Post{Title: "Doomed", Content: "## Doomed", Published: true})

	rec := ta.do(httptest.NewRequest(http.MethodDelete, "/admin/post/"+p.ID+"/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dashboard msg=deleted posts=0", rec.Body.String())
	assert.Equal(t, http.StatusNotFound, ta.get(p.Link()).Code)
}

func TestMediaRejectsTraversal(t *testing.T) {
	ta := newTestApp(t)
	rec := ta.get("/media/..%2f..%2ftest.db")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStoredBlocksConvertEditorHTML(t *testing.T) {
	blocks := storedBlocks(content.Blocks{
		{Kind: content.KindPDF, Title: "<p>x</p>"},
		{Kind: content.KindSection, Title: "<h1>Big</h1>", Body: "<div>a</div><div>b</div>", ImageCaption: "  cap "},
	})
	assert.Equal(t, content.KindAudio, blocks[0].Kind)
	assert.Equal(t, "# Big", blocks[1].Title)
	assert.Equal(t, "a\n\nb", blocks[1].Body)
	assert.Equal(t, "cap", blocks[1].ImageCaption)
}

func TestOptions(t *testing.T) {
	dir := t.TempDir()
	media, err := NewLocalMediaStore(filepath.Join(dir, "elsewhere"))
	require.NoError(t, err)
	a := New(SiteConfig{
		AdminPassword: "secret",
		SessionSecret: "0123456789abcdef0123456789abcdef",
		DatabasePath:  filepath.Join(dir, "test.db"),
	}, stubViews(),
		WithMediaStore(media),
		WithCustomRoutes(func(a *App) {
			a.Echo.GET("/ping/", func(c echo.Context) error {
				return c.String(http.StatusOK, "pong")
			})
		}),
	)
	a.Echo.Logger.SetOutput(io.Discard)
	require.NoError(t, a.Init())
	t.Cleanup(func() { a.Close() })

	assert.Same(t, media, a.Media)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping/", nil))
	assert.Equal(t, "pong", rec.Body.String())
}

func TestInitRequiresSecrets(t *testing.T) {
	a := New(SiteConfig{DatabasePath: filepath.Join(t.TempDir(), "test.db")}, stubViews())
	assert.ErrorContains(t, a.Init(), "AdminPassword is required")
}
