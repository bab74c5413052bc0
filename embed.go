package ezoterika

import "embed"

// EmbeddedAssets contains static assets shipped with the engine:
// editor.js (block editor behaviour) and content.css (article layout).
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
