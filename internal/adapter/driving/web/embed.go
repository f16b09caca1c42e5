package web

import "embed"

// StaticFS holds the embedded client assets (app.js, style.css).
//
//go:embed static/*
var StaticFS embed.FS
