// Package web holds the page templates and the stylesheet compiled into the
// server binary.
package web

import "embed"

// TemplatesFS embeds the base layout and one template per page.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the stylesheet served under /static/.
//
//go:embed static/*
var StaticFS embed.FS
