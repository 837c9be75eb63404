package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/rhinodoc"
	"github.com/fwojciec/rhinodoc/fs"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Version  string
	Store    rhinodoc.CorpusStore
	Builds   rhinodoc.BuildHistory
	Query    rhinodoc.QueryService
	Examples *fs.ExampleStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Docs         string `short:"d" env:"RHINODOC_DOCS" default:"docs" help:"Corpus directory (fs and sqlite stores)"`
	Store        string `env:"RHINODOC_STORE" enum:"fs,sqlite,postgres,s3" default:"fs" help:"Corpus backend (fs, sqlite, postgres, s3)"`
	RhinoVersion string `name:"rhino-version" env:"RHINODOC_VERSION" default:"8" help:"RhinoCommon version to build or query"`
	CacheSize    int    `env:"RHINODOC_CACHE_SIZE" default:"100" help:"Namespace shards kept in memory"`
	ExamplesDir  string `name:"examples-dir" env:"RHINODOC_EXAMPLES" help:"Examples directory (default <docs>/examples)"`
	Verbose      bool   `short:"v" help:"Log at debug level"`

	Build      BuildCmd      `cmd:"" help:"Build a corpus from a RhinoCommon XML documentation file"`
	Search     SearchCmd     `cmd:"" help:"Search class and method names"`
	Class      ClassCmd      `cmd:"" help:"Show the full record of a class"`
	Examples   ExamplesCmd   `cmd:"" help:"Show usage examples for a class"`
	Namespaces NamespacesCmd `cmd:"" help:"List the namespaces of the corpus"`
	Builds     BuildsCmd     `cmd:"" help:"List recorded corpus builds"`
	AddExample AddExampleCmd `cmd:"" name:"add-example" help:"Add a usage example for a class"`
	Serve      ServeCmd      `cmd:"" help:"Serve the corpus over MCP on stdio"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	XML     string `required:"" type:"existingfile" help:"Path to RhinoCommon.xml"`
	Root    string `default:"Rhino." help:"Qualified-name prefix of documented types"`
	BaseURL string `name:"base-url" default:"https://mcneel-apidocs.herokuapp.com/api/rhinocommon/" help:"Prefix of class documentation links"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query     string `arg:"" help:"Name fragment to look for"`
	Namespace string `short:"n" help:"Restrict the search to one namespace id"`
}

// ClassCmd is the "class" subcommand.
type ClassCmd struct {
	Name      string `arg:"" help:"Class name, e.g. Brep"`
	Namespace string `short:"n" help:"Namespace to try first"`
}

// ExamplesCmd is the "examples" subcommand.
type ExamplesCmd struct {
	Name string `arg:"" help:"Class name"`
}

// NamespacesCmd is the "namespaces" subcommand.
type NamespacesCmd struct{}

// BuildsCmd is the "builds" subcommand.
type BuildsCmd struct {
	All bool `help:"Show builds of every version"`
}

// AddExampleCmd is the "add-example" subcommand.
type AddExampleCmd struct {
	Class       string `arg:"" help:"Class name"`
	File        string `arg:"" help:"File holding the example code, or - for stdin"`
	Title       string `short:"t" required:"" help:"Example title"`
	Description string `help:"Example description"`
	Language    string `default:"csharp" help:"Language of the code"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct{}
