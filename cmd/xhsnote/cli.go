package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/xhsnote"
	"github.com/fwojciec/xhsnote/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Pipeline *pipeline.Pipeline
	Images   xhsnote.ImageStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Log pipeline stages to stderr"`
	Store   string `enum:"fs,sqlite,memory" default:"fs" help:"Image store backend (fs, sqlite, memory)"`
	Dir     string `name:"image-dir" env:"XHSNOTE_IMAGE_DIR" default:"xiaohongshu_images" help:"Directory for the fs image store"`
	DB      string `name:"image-db" env:"XHSNOTE_IMAGE_DB" help:"Database path for the sqlite image store (default ~/.xhsnote/images.db)"`

	// Serverless is set by hosting platforms without a writable filesystem.
	Serverless bool `env:"VERCEL" hidden:"" help:"Force the memory image store"`

	Extract ExtractCmd `cmd:"" help:"Extract a note record from share text, a URL or an HTML fragment"`
	Image   ImageCmd   `cmd:"" help:"Write a stored image to stdout or a file"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	ShareText    string        `arg:"" name:"share-text" help:"Share text, note URL, short link or HTML fragment"`
	NoSaveImages bool          `help:"Skip downloading note images"`
	Presets      string        `env:"XHSNOTE_PRESETS" type:"existingfile" help:"YAML file replacing the built-in presets"`
	Render       bool          `help:"Render the note page in a headless browser"`
	BrowserBin   string        `env:"XHSNOTE_BROWSER_BIN" help:"Chrome binary used with --render"`
	Extractor    string        `enum:"trafilatura,readability" default:"trafilatura" help:"Article extractor used when no body is found (trafilatura, readability)"`
	Timeout      time.Duration `default:"10s" help:"Timeout for resolving and fetching"`
	Concurrency  int           `short:"c" default:"4" help:"Concurrent image downloads"`
}

// ImageCmd is the "image" subcommand.
type ImageCmd struct {
	Key string `arg:"" help:"Image key or stored reference"`
	Out string `short:"o" help:"Write the image to this file instead of stdout"`
}
