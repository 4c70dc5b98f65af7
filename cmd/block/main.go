// Command block is the command-line front end of the block language toolchain.
//
// Usage:
//
//	block parse <file> [--json]    Print the syntax tree
//	block fmt   <file> [--write]   Print the file in canonical form
//	block check <file>             Report every parse and compile error
//	block build <file> [-o out]    Print the generated instructions
//	block repl                     Start an interactive session
//	block version                  Show version information
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"block-lang/internal/ast"
	"block-lang/internal/codegen"
	"block-lang/internal/config"
	"block-lang/internal/diag"
	"block-lang/internal/ir"
	"block-lang/internal/parser"
	"block-lang/internal/types"
)

const version = "0.1.0"

// errReported is returned by commands whose failures have already been printed.
var errReported = errors.New("errors were reported")

// Context carries what every command needs.
type Context struct {
	Config *config.Config
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
	Color  bool
}

// CLI represents the command-line interface
var CLI struct {
	Config  string     `help:"Configuration file path" default:"block.yaml" type:"path"`
	Verbose bool       `help:"Enable debug logging" short:"v"`
	Parse   ParseCmd   `cmd:"" help:"Parse a file and print its syntax tree"`
	Fmt     FmtCmd     `cmd:"" help:"Print a file in canonical form"`
	Check   CheckCmd   `cmd:"" help:"Parse and compile a file, reporting every error"`
	Build   BuildCmd   `cmd:"" help:"Compile a file and print its instructions"`
	Repl    ReplCmd    `cmd:"" help:"Start an interactive session"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("block"),
		kong.Description("Parser, formatter and code generator for the block language."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := cfg.LogLevel()
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	app := &Context{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Color:  cfg.ColorEnabled(!color.NoColor),
	}

	if err := ctx.Run(app); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// parse parses source, reporting a syntax error if there is one.
func (c *Context) parse(name, source string) (*ast.File, bool) {
	file, err := parser.New(source, parser.WithIndentStep(c.Config.Parser.IndentStep)).ParseFile()
	if err != nil {
		c.report(name, source, []diag.Diagnostic{reportOf(err)})
		return nil, false
	}
	c.Logger.Debug("parsed", "file", name, "statements", len(file.Body))
	return file, true
}

// compile parses and lowers source, reporting every error found.
func (c *Context) compile(name, source string) (*ir.Module, bool) {
	file, ok := c.parse(name, source)
	if !ok {
		return nil, false
	}
	module, errs := codegen.Generate(file, types.Annotate(file),
		codegen.WithLogger(c.Logger),
		codegen.WithPointerBits(c.Config.Target.PointerBits),
	)
	if len(errs) > 0 {
		diags := make([]diag.Diagnostic, len(errs))
		for i, err := range errs {
			diags[i] = err.Report()
		}
		c.report(name, source, diags)
		return module, false
	}
	return module, true
}

func (c *Context) report(name, source string, diags []diag.Diagnostic) {
	if c.Config.Output.Format == "json" {
		if err := printJSON(c.Stdout, map[string]interface{}{
			"file":        name,
			"diagnostics": diagsToSlice(source, diags),
		}); err != nil {
			c.Logger.Error("writing diagnostics", "error", err)
		}
		return
	}
	r := &renderer{w: c.Stderr, name: name, source: source, color: c.Color}
	for _, d := range diags {
		r.render(d)
	}
}

func reportOf(err error) diag.Diagnostic {
	var perr *parser.Error
	if errors.As(err, &perr) {
		return perr.Report()
	}
	return diag.Diagnostic{Code: "E0000", Severity: diag.Bug, Message: err.Error()}
}
