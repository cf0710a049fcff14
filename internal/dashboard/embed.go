package dashboard

import "embed"

// static contains the stylesheet and the event script served under /static/.
//
//go:embed static/*
var static embed.FS

// templates contains the page and view-fragment templates.
//
//go:embed templates/*
var templates embed.FS
