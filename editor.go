package ezoterika

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/eringen/ezoterika/content"
	"github.com/eringen/ezoterika/richtext"
)

// maxEditorBlocks bounds the block indexes accepted from a form.
const maxEditorBlocks = 500

// EditorForm is the state of the block editor. Block titles and bodies
// hold editor HTML.
type EditorForm struct {
	ID            string
	Category      Category
	Accessibility Accessibility
	Published     bool
	Blocks        content.Blocks
	Error         string
}

// postInput is the post metadata checked before a save.
type postInput struct {
	Title         string        `validate:"required,max=255"`
	Category      Category      `validate:"required,oneof=esoterics astrology tarot numerology meditation spirituality other"`
	Accessibility Accessibility `validate:"required,oneof=all subscribers my_subscribers"`
}

var reBlockField = regexp.MustCompile(`^blocks\.(\d+)\.([a-z_]+)$`)

// decodeEditorForm reads the editor state from submitted form values.
// Fields are named blocks.N.<field>; attachments already on a block are
// carried in blocks.N.files as JSON.
func decodeEditorForm(form url.Values) (EditorForm, error) {
	f := EditorForm{
		ID:            strings.TrimSpace(form.Get("id")),
		Category:      Category(form.Get("category")),
		Accessibility: Accessibility(form.Get("accessibility")),
		Published:     form.Get("published") != "",
	}
	n := blockCount(form)
	if n == 0 {
		f.Blocks = content.New()
		return f, nil
	}
	f.Blocks = make(content.Blocks, n)
	for i := range f.Blocks {
		f.Blocks[i].Kind = content.KindSection
	}
	for key, vals := range form {
		m := reBlockField.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		i, err := strconv.Atoi(m[1])
		if err != nil || i >= n {
			continue
		}
		if m[2] == "files" {
			var files []content.Attachment
			if strings.TrimSpace(vals[0]) != "" {
				if err := json.Unmarshal([]byte(vals[0]), &files); err != nil {
					return f, fmt.Errorf("block %d: bad attachment list: %w", i, err)
				}
			}
			f.Blocks.SetAttachments(i, files)
			continue
		}
		f.Blocks.Update(i, content.Field(m[2]), vals[0])
	}
	return f, nil
}

func blockCount(form url.Values) int {
	n := 0
	for key := range form {
		m := reBlockField.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		i, err := strconv.Atoi(m[1])
		if err != nil || i >= maxEditorBlocks {
			continue
		}
		n = max(n, i+1)
	}
	return n
}

// applyBlockOp performs an editor operation: "add", "remove:N", "up:N"
// or "down:N". It reports whether op named a known operation.
func applyBlockOp(bs *content.Blocks, op string) bool {
	if op == "add" {
		bs.Add()
		return true
	}
	name, arg, ok := strings.Cut(op, ":")
	if !ok {
		return false
	}
	i, err := strconv.Atoi(arg)
	if err != nil {
		return false
	}
	switch name {
	case "remove":
		bs.Remove(i)
	case "up":
		bs.Move(i, content.Up)
	case "down":
		bs.Move(i, content.Down)
	default:
		return false
	}
	return true
}

// storedBlocks converts editor blocks to the stored dialect.
func storedBlocks(bs content.Blocks) []content.Block {
	out := make([]content.Block, len(bs))
	for i, b := range bs {
		b.Kind = b.Kind.Canonical()
		b.Title = richtext.ToMarkdown(b.Title)
		b.Body = richtext.ToMarkdown(b.Body)
		b.ImageCaption = strings.TrimSpace(b.ImageCaption)
		b.ImageDescription = strings.TrimSpace(b.ImageDescription)
		out[i] = b
	}
	return out
}

// editorBlocks rehydrates stored blocks for the editor.
func editorBlocks(stored []content.Block) content.Blocks {
	if len(stored) == 0 {
		return content.New()
	}
	out := make(content.Blocks, len(stored))
	for i, b := range stored {
		b.Kind = b.Kind.Canonical()
		if b.Kind == content.KindText && b.Title == "" {
			b.Title, b.Body = b.Body, ""
		}
		b.Title = richtext.ToHTML(b.Title)
		b.Body = richtext.ToHTML(b.Body)
		out[i] = b
	}
	return out
}

func (a *App) handleEditorNew(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return a.renderEditor(c, http.StatusOK, EditorForm{
		Category:      CategoryOther,
		Accessibility: AccessAll,
		Published:     true,
		Blocks:        content.New(),
	})
}

func (a *App) handleEditorEdit(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post, err := a.Store.GetPostAny(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	return a.renderEditor(c, http.StatusOK, EditorForm{
		ID:            post.ID,
		Category:      post.Category,
		Accessibility: post.Accessibility,
		Published:     post.Published,
		Blocks:        editorBlocks(post.Blocks()),
	})
}

func (a *App) handleEditorSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	req := c.Request()
	if err := req.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	form, err := decodeEditorForm(req.PostForm)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if op := c.FormValue("op"); op != "" {
		applyBlockOp(&form.Blocks, op)
		return a.renderEditor(c, http.StatusOK, form)
	}
	if req.MultipartForm != nil {
		if err := a.attachUploads(c, &form, req.MultipartForm); err != nil {
			form.Error = err.Error()
			return a.renderEditor(c, http.StatusUnprocessableEntity, form)
		}
	}

	blocks := storedBlocks(form.Blocks)
	if err := content.Validate(blocks, a.Config.MaxContentSize); err != nil {
		form.Error = draftMessage(err)
		return a.renderEditor(c, http.StatusUnprocessableEntity, form)
	}
	sum := content.Summarize(blocks)
	input := postInput{Title: sum.Title, Category: form.Category, Accessibility: form.Accessibility}
	if err := a.validate.Struct(input); err != nil {
		form.Error = inputMessage(err)
		return a.renderEditor(c, http.StatusUnprocessableEntity, form)
	}

	post := Post{
		ID:            form.ID,
		Title:         sum.Title,
		PreviewText:   sum.Preview,
		PreviewImage:  sum.Image,
		Content:       content.Serialize(blocks),
		Category:      form.Category,
		Accessibility: form.Accessibility,
		Published:     form.Published,
	}
	if post.ID != "" {
		existing, err := a.Store.GetPostAny(post.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return echo.ErrNotFound
			}
			return err
		}
		if unchanged(existing, post) {
			return a.renderAdminDashboard(c, "unchanged")
		}
		post.CreatedAt = existing.CreatedAt
	}
	if _, err := a.Store.SavePost(post); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "saved")
}

// attachUploads stores the files submitted for each block. Image blocks
// take blocks.N.upload; audio blocks take any number of blocks.N.audio.
func (a *App) attachUploads(c echo.Context, form *EditorForm, mf *multipart.Form) error {
	ctx := c.Request().Context()
	for i := range form.Blocks {
		b := &form.Blocks[i]
		prefix := "blocks." + strconv.Itoa(i) + "."
		if b.Kind == content.KindSection || b.Kind == content.KindImage {
			if fhs := mf.File[prefix+"upload"]; len(fhs) > 0 {
				src, err := fhs[0].Open()
				if err != nil {
					return err
				}
				img, err := a.storeImage(ctx, src, fhs[0].Size, fhs[0].Filename)
				src.Close()
				if err != nil {
					return err
				}
				b.Image = img
			}
		}
		if b.Kind.HasAttachments() {
			for _, fh := range mf.File[prefix+"audio"] {
				src, err := fh.Open()
				if err != nil {
					return err
				}
				att, err := a.storeAudio(ctx, src, fh.Size, fh.Filename)
				src.Close()
				if err != nil {
					return err
				}
				b.Attachments = append(b.Attachments, att)
			}
		}
	}
	return nil
}

func unchanged(old, next Post) bool {
	return old.Content == next.Content &&
		old.Title == next.Title &&
		old.PreviewText == next.PreviewText &&
		old.PreviewImage == next.PreviewImage &&
		old.Category == next.Category &&
		old.Accessibility == next.Accessibility &&
		old.Published == next.Published
}

func draftMessage(err error) string {
	switch {
	case errors.Is(err, content.ErrNoContent):
		return "Add at least one block with content."
	case errors.Is(err, content.ErrNoTitle):
		return "Add a title to one of the blocks."
	case errors.Is(err, content.ErrTooLarge):
		return "The article is too large. Remove some images or text."
	}
	return err.Error()
}

func inputMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Title":
		if fe.Tag() == "max" {
			return "The title is too long."
		}
		return "Add a title to one of the blocks."
	case "Category":
		return "Choose a category."
	case "Accessibility":
		return "Choose who can read the post."
	}
	return err.Error()
}

func (a *App) renderEditor(c echo.Context, code int, form EditorForm) error {
	return RenderStatus(c, code, a.Views.Editor(form, CsrfToken(c)))
}
