package views

import (
	"encoding/json"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/ezoterika"
	"github.com/eringen/ezoterika/content"
	"github.com/eringen/ezoterika/richtext"
)

var kindLabels = map[content.Kind]string{
	content.KindSection: "Раздел",
	content.KindText:    "Текст",
	content.KindImage:   "Изображение",
	content.KindAudio:   "Аудио",
}

var formatButtons = []struct{ cmd, label string }{
	{"bold", "B"},
	{"italic", "I"},
	{"underline", "U"},
	{"createLink", "Ссылка"},
	{"h1", "H1"},
	{"h2", "H2"},
	{"h3", "H3"},
	{"insertUnorderedList", "•"},
}

func (s *site) editor(form ezoterika.EditorForm, csrfToken string) templ.Component {
	title := "Новая публикация"
	if form.ID != "" {
		title = "Редактирование"
	}
	return s.layout(ezoterika.PageMeta{Title: title}, "", true, func(w *writer) {
		w.raw(`<section class="editor"><h1>`)
		w.text(title)
		w.raw(`</h1><a href="/admin/">Назад</a>`)
		if form.Error != "" {
			w.raw(`<p class="editor-error" role="alert">`)
			w.text(form.Error)
			w.raw(`</p>`)
		}
		w.raw(`<form data-block-editor method="post" action="/admin/save/" enctype="multipart/form-data">`)
		csrfInput(w, csrfToken)
		w.raw(`<input type="hidden" name="id"`)
		w.attr("value", form.ID)
		w.raw(">")

		w.raw(`<div class="editor-meta"><label>Категория <select name="category">`)
		for _, c := range ezoterika.Categories {
			option(w, string(c), c.Label(), form.Category == c)
		}
		w.raw(`</select></label><label>Доступ <select name="accessibility">`)
		for _, a := range ezoterika.Accessibilities {
			option(w, string(a), a.Label(), form.Accessibility == a)
		}
		w.raw(`</select></label><label><input type="checkbox" name="published" value="1"`)
		if form.Published {
			w.raw(" checked")
		}
		w.raw(`> Опубликовать</label></div>`)

		w.raw(`<div class="toolbar" role="toolbar">`)
		for _, b := range formatButtons {
			w.raw(`<button type="button"`)
			w.attr("data-format", b.cmd)
			w.raw(">")
			w.text(b.label)
			w.raw(`</button>`)
		}
		w.raw(`</div>`)

		for i, b := range form.Blocks {
			editorBlock(w, i, len(form.Blocks), b)
		}

		w.raw(`<div class="editor-actions"><button type="submit" name="op" value="add">Добавить блок</button>`)
		w.raw(`<button type="submit" class="primary">Сохранить</button></div>`)
		w.raw(`</form></section>`)
	})
}

func option(w *writer, value, label string, selected bool) {
	w.raw(`<option`)
	w.attr("value", value)
	if selected {
		w.raw(" selected")
	}
	w.raw(">")
	w.text(label)
	w.raw(`</option>`)
}

func editorBlock(w *writer, i, n int, b content.Block) {
	prefix := "blocks." + strconv.Itoa(i) + "."
	kind := b.Kind.Canonical()
	w.raw(`<fieldset class="editor-block"`)
	w.attr("data-index", strconv.Itoa(i))
	w.raw(`><legend><select data-kind`)
	w.attr("name", prefix+string(content.FieldKind))
	w.raw(">")
	for _, k := range content.Kinds {
		option(w, string(k), kindLabels[k], kind == k)
	}
	w.raw(`</select></legend>`)

	w.raw(`<div class="block-ops">`)
	if i > 0 {
		opButton(w, "up:"+strconv.Itoa(i), "↑")
	}
	if i < n-1 {
		opButton(w, "down:"+strconv.Itoa(i), "↓")
	}
	if n > 1 {
		opButton(w, "remove:"+strconv.Itoa(i), "Удалить")
	}
	w.raw(`</div>`)

	// Every field travels as a hidden input so switching kinds keeps it.
	hidden(w, prefix+string(content.FieldTitle), b.Title)
	hidden(w, prefix+string(content.FieldBody), b.Body)
	hidden(w, prefix+string(content.FieldImage), b.Image)
	files, _ := json.Marshal(b.Attachments)
	if len(b.Attachments) == 0 {
		files = []byte("[]")
	}
	hidden(w, prefix+"files", string(files))

	switch kind {
	case content.KindSection:
		richField(w, prefix+string(content.FieldTitle), "Заголовок", b.Title)
		richField(w, prefix+string(content.FieldBody), "Текст", b.Body)
		imageFields(w, prefix, b)
	case content.KindText:
		richField(w, prefix+string(content.FieldTitle), "Текст", b.Title)
		captionFields(w, prefix, b, false)
	case content.KindImage:
		imageFields(w, prefix, b)
	case content.KindAudio:
		captionFields(w, prefix, b, false)
		if len(b.Attachments) > 0 {
			w.raw(`<ul class="files">`)
			for _, f := range b.Attachments {
				w.raw(`<li>`)
				w.text(f.Name)
				if size := fileSize(f.Size); size != "" {
					w.text(" (" + size + ")")
				}
				w.raw(`</li>`)
			}
			w.raw(`</ul>`)
		}
		w.raw(`<label>Аудиофайлы <input type="file" multiple accept="audio/*"`)
		w.attr("name", prefix+"audio")
		w.raw(`></label>`)
	}
	w.raw(`</fieldset>`)
}

func opButton(w *writer, op, label string) {
	w.raw(`<button type="submit" name="op"`)
	w.attr("value", op)
	w.raw(">")
	w.text(label)
	w.raw(`</button>`)
}

func hidden(w *writer, name, value string) {
	w.raw(`<input type="hidden"`)
	w.attr("name", name)
	w.attr("value", value)
	w.raw(">")
}

// richField is a contenteditable area; editor.js copies its HTML into the
// hidden input of the same name.
func richField(w *writer, name, label, value string) {
	w.raw(`<div class="rich-field"><span class="label">`)
	w.text(label)
	w.raw(`</span><div contenteditable="true"`)
	w.attr("data-field", name)
	w.raw(">")
	w.raw(editorHTML(value))
	w.raw(`</div></div>`)
}

func imageFields(w *writer, prefix string, b content.Block) {
	if src := imageSrc(b.Image); src != "" {
		w.raw(`<img class="editor-image" alt="" src="` + src + `">`)
	}
	w.raw(`<label>Изображение <input type="file" accept="image/*"`)
	w.attr("name", prefix+"upload")
	w.raw(`></label>`)
	captionFields(w, prefix, b, true)
}

// captionFields renders the caption inputs, or carries them hidden for
// kinds that do not show an image.
func captionFields(w *writer, prefix string, b content.Block, visible bool) {
	caption := prefix + string(content.FieldImageCaption)
	description := prefix + string(content.FieldImageDescription)
	if !visible {
		hidden(w, caption, b.ImageCaption)
		hidden(w, description, b.ImageDescription)
		return
	}
	w.raw(`<label>Подпись <input type="text"`)
	w.attr("name", caption)
	w.attr("value", b.ImageCaption)
	w.raw(`></label><label>Описание <input type="text"`)
	w.attr("name", description)
	w.attr("value", b.ImageDescription)
	w.raw(`></label>`)
}

// editorHTML passes submitted HTML through the codec so only the markup
// the dialect knows reaches the page.
func editorHTML(s string) string {
	return richtext.ToHTML(richtext.ToMarkdown(s))
}
