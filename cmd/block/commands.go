package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"

	"block-lang/internal/ast"
)

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// ParseCmd prints the syntax tree of a file.
type ParseCmd struct {
	File string `arg:"" help:"Source file" type:"existingfile"`
	JSON bool   `help:"Print the tree as JSON, spans and expression ids included"`
}

// Run executes the parse command. Without --json the tree is printed as YAML, without
// positions.
func (cmd *ParseCmd) Run(ctx *Context) error {
	source, err := readSource(cmd.File)
	if err != nil {
		return err
	}
	file, ok := ctx.parse(cmd.File, source)
	if !ok {
		return errReported
	}
	if cmd.JSON || ctx.Config.Output.Format == "json" {
		return printJSON(ctx.Stdout, ast.NodeToMap(file))
	}
	out, err := yaml.Marshal(ast.Shape(file))
	if err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	_, err = ctx.Stdout.Write(out)
	return err
}

// FmtCmd rewrites a file in canonical form.
type FmtCmd struct {
	File  string `arg:"" help:"Source file" type:"existingfile"`
	Write bool   `help:"Write the result back to the file instead of printing it" short:"w"`
}

func (cmd *FmtCmd) Run(ctx *Context) error {
	source, err := readSource(cmd.File)
	if err != nil {
		return err
	}
	file, ok := ctx.parse(cmd.File, source)
	if !ok {
		return errReported
	}
	formatted := (&ast.Printer{IndentStep: ctx.Config.Parser.IndentStep}).Print(file)

	if !cmd.Write {
		_, err := fmt.Fprint(ctx.Stdout, formatted)
		return err
	}
	if formatted == source {
		ctx.Logger.Debug("already formatted", "file", cmd.File)
		return nil
	}
	info, err := os.Stat(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", cmd.File, err)
	}
	if err := os.WriteFile(cmd.File, []byte(formatted), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.File, err)
	}
	ctx.Logger.Info("formatted", "file", cmd.File)
	return nil
}

// CheckCmd reports every error in a file without printing the generated code.
type CheckCmd struct {
	File string `arg:"" help:"Source file" type:"existingfile"`
}

func (cmd *CheckCmd) Run(ctx *Context) error {
	source, err := readSource(cmd.File)
	if err != nil {
		return err
	}
	module, ok := ctx.compile(cmd.File, source)
	if !ok {
		return errReported
	}
	fmt.Fprintf(ctx.Stdout, "%s %s: %d function(s)\n",
		paint(ctx.Color, color.FgGreen, color.Bold).Sprint("ok"), cmd.File, len(module.Functions))
	return nil
}

// BuildCmd prints the instructions generated for a file.
type BuildCmd struct {
	File   string `arg:"" help:"Source file" type:"existingfile"`
	Output string `help:"Write the instructions to this file" short:"o" type:"path"`
}

func (cmd *BuildCmd) Run(ctx *Context) error {
	source, err := readSource(cmd.File)
	if err != nil {
		return err
	}
	module, ok := ctx.compile(cmd.File, source)
	if !ok {
		return errReported
	}
	text := module.String()
	if cmd.Output == "" {
		_, err := fmt.Fprint(ctx.Stdout, text)
		return err
	}
	if err := os.WriteFile(cmd.Output, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.Output, err)
	}
	ctx.Logger.Info("wrote instructions", "file", cmd.Output, "functions", len(module.Functions))
	return nil
}

// ReplCmd starts an interactive session.
type ReplCmd struct{}

func (cmd *ReplCmd) Run(ctx *Context) error {
	return runRepl(ctx)
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintf(ctx.Stdout, "block v%s\n", version)
	return nil
}
