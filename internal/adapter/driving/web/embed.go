package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet, busy indicator and
// copy button script).
//
//go:embed static/*
var StaticFS embed.FS
