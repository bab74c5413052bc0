package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	convertTo, parseTitle, parsePreview, parseVisible = "markdown", "", "", false
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConvertToMarkdown(t *testing.T) {
	out, err := run(t, "<h2>Title</h2><p>Some <b>bold</b> text</p>", "convert", "--to", "markdown")
	require.NoError(t, err)
	assert.Equal(t, "## Title\n\nSome **bold** text\n", out)
}

func TestConvertToHTML(t *testing.T) {
	out, err := run(t, "- one\n- two", "convert", "--to", "html")
	require.NoError(t, err)
	assert.Equal(t, "<ul><li>one</li><li>two</li></ul>\n", out)
}

func TestConvertUnknownTarget(t *testing.T) {
	_, err := run(t, "x", "convert", "--to", "pdf")
	assert.ErrorContains(t, err, "unknown target")
}

func TestParseAndSerialize(t *testing.T) {
	stored := "## Moon\n\nNight sky\n\n---\n\n[🎵 chant.mp3](audio/chant.mp3)"

	out, err := run(t, stored, "parse")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type":"section","title":"Moon","description":"Night sky"},
		{"type":"pdf","files":[{"name":"chant.mp3","size":0,"type":"audio/mpeg"}]}
	]`, out)

	out, err = run(t, out, "serialize")
	require.NoError(t, err)
	assert.Equal(t, stored+"\n", out)
}

func TestParseVisible(t *testing.T) {
	out, err := run(t, "## Moon\n\nNight sky\n\n---\n\n## Stars\n\nMore", "parse", "--visible", "--title", "Moon", "--preview", "Night sky")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"section","title":"Stars","description":"More"}]`, out)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "ezoterika dev\n", out)
}
