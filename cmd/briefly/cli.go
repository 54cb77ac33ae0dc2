package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/briefly"
	"github.com/fwojciec/briefly/digest"
	"github.com/fwojciec/briefly/htmltomarkdown"
	brieflyhttp "github.com/fwojciec/briefly/http"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Pipeline  *briefly.Pipeline
	Converter *htmltomarkdown.Converter
	Bookmarks briefly.BookmarkService
	Digest    *digest.Runner
	Server    *brieflyhttp.Server

	// Addr is the listen address resolved from the config file.
	Addr string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB       string `help:"Path to the SQLite database" env:"BRIEFLY_DB" type:"path"`
	Config   string `help:"Path to a YAML config file" env:"BRIEFLY_CONFIG" type:"path"`
	Browser  bool   `help:"Always load pages in headless Chrome (same as --render=always)"`
	Render   string `help:"When to load pages in headless Chrome: auto, never or always" env:"BRIEFLY_RENDER"`
	Verbose  bool   `short:"v" help:"Log each step to stderr"`
	Provider string `help:"Language model provider (gemini or openai)"`
	Model    string `help:"Language model name"`

	Extract   ExtractCmd   `cmd:"" help:"Extract the readable article from a page"`
	Summarize SummarizeCmd `cmd:"" help:"Summarize the article on a page"`
	Ask       AskCmd       `cmd:"" help:"Ask a question about the article on a page"`
	Pin       PinCmd       `cmd:"" help:"Pin or unpin a site"`
	Read      ReadCmd      `cmd:"" help:"Add a page to the reading list, or remove it"`
	Bookmarks BookmarksCmd `cmd:"" help:"List pinned sites and the reading list"`
	Export    ExportCmd    `cmd:"" help:"Export bookmarks as XBEL"`
	Import    ImportCmd    `cmd:"" help:"Import bookmarks from an XBEL file"`
	Digest    DigestCmd    `cmd:"" help:"Summarize every page on the reading list"`
	Serve     ServeCmd     `cmd:"" help:"Serve the local HTTP API"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL    string `arg:"" help:"Page URL"`
	Format string `short:"f" enum:"text,html,markdown,json" default:"text" help:"Output format (text, html, markdown, json)"`
	Engine string `short:"e" help:"Extraction engine (readability, trafilatura or go-readability)"`
	Out    string `short:"o" type:"path" help:"Write the article as markdown with frontmatter to this file"`
}

// SummarizeCmd is the "summarize" subcommand.
type SummarizeCmd struct {
	URL      string `arg:"" help:"Page URL"`
	Thoughts bool   `help:"Print the model's progress notes"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	URL      string `arg:"" help:"Page URL"`
	Question string `arg:"" help:"Question about the article"`
}

// PinCmd is the "pin" subcommand.
type PinCmd struct {
	URL   string `arg:"" help:"Site URL"`
	Title string `help:"Title to show, defaults to the site name"`
}

// ReadCmd is the "read" subcommand.
type ReadCmd struct {
	URL   string `arg:"" help:"Page URL"`
	Title string `help:"Title to show, defaults to the site name"`
}

// BookmarksCmd is the "bookmarks" subcommand.
type BookmarksCmd struct {
	Kind string `short:"k" enum:"pinned,reading,all" default:"all" help:"Which list to show (pinned, reading, all)"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Kind string `short:"k" enum:"pinned,reading,all" default:"all" help:"Which list to export (pinned, reading, all)"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"XBEL file"`
}

// DigestCmd is the "digest" subcommand.
type DigestCmd struct {
	Concurrency int    `short:"c" default:"4" help:"Pages processed at once"`
	Out         string `short:"o" type:"path" help:"Directory to write summaries to as markdown"`
	Clear       bool   `help:"Remove summarized pages from the reading list"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address, defaults to 127.0.0.1:8765"`
}

// kindFilter returns the bookmark kind selected by a --kind flag, or nil
// for all kinds.
func kindFilter(kind string) *briefly.BookmarkKind {
	if kind == "" || kind == "all" {
		return nil
	}
	k := briefly.BookmarkKind(kind)
	return &k
}
