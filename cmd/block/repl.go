package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"block-lang/internal/ast"
	"block-lang/internal/token"
)

// blockDepth returns how a line changes the number of open blocks.
func blockDepth(line string) int {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0
	}
	switch token.LookupIdent(fields[0]) {
	case token.KW_FUNCTION, token.KW_RECORD, token.KW_WHILE, token.KW_FOR, token.KW_IF:
		return 1
	case token.KW_ENDFUNCTION, token.KW_ENDRECORD, token.KW_ENDWHILE, token.KW_NEXT, token.KW_ENDIF:
		return -1
	}
	return 0
}

// session holds what earlier entries declared, so that later entries can construct the
// records they introduced.
type session struct {
	records strings.Builder
}

// eval compiles one entry and prints its canonical form followed by its instructions.
func (s *session) eval(ctx *Context, entry string) {
	source := s.records.String() + entry
	module, ok := ctx.compile("<repl>", source)
	if !ok {
		return
	}
	file, _ := ctx.parse("<repl>", entry)
	printer := &ast.Printer{IndentStep: ctx.Config.Parser.IndentStep}
	gray := paint(ctx.Color, color.FgHiBlack)
	for _, st := range file.Body {
		if r, ok := st.(*ast.RecordDecl); ok {
			s.records.WriteString(printer.Print(r))
		}
		fmt.Fprint(ctx.Stdout, printer.Print(st))
	}
	for _, fn := range module.Functions {
		fmt.Fprint(ctx.Stdout, gray.Sprint(fn.String()))
	}
}

// ---- repl command ----

func runRepl(ctx *Context) error {
	// Determine history file path (~/.block_history)
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".block_history")
	}

	green := paint(ctx.Color, color.FgGreen)
	gray := paint(ctx.Color, color.FgHiBlack)
	prompt, more := green.Sprint("block> "), gray.Sprint("...    ")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("readline init failed: %w", err)
	}
	defer rl.Close()

	ctx.Stdout, ctx.Stderr = rl.Stdout(), rl.Stderr()
	fmt.Fprintf(ctx.Stdout, "%s %s\n\n",
		paint(ctx.Color, color.FgCyan, color.Bold).Sprintf("block v%s", version),
		gray.Sprint("(type 'exit' or Ctrl+D to quit)"))

	var (
		s           session
		accumulated strings.Builder
		depth       int
	)
	for {
		if depth > 0 {
			rl.SetPrompt(more)
		} else {
			rl.SetPrompt(prompt)
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if depth > 0 {
					accumulated.Reset()
					depth = 0
					continue
				}
				fmt.Fprintf(ctx.Stdout, "%s\n", gray.Sprint("(use 'exit' or Ctrl+D to quit)"))
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(ctx.Stdout)
				return nil
			}
			return err
		}

		if depth == 0 && strings.TrimSpace(line) == "exit" {
			return nil
		}

		depth += blockDepth(line)
		accumulated.WriteString(line)
		accumulated.WriteString("\n")
		if depth > 0 {
			continue
		}
		depth = 0

		entry := accumulated.String()
		accumulated.Reset()
		if strings.TrimSpace(entry) == "" {
			continue
		}
		s.eval(ctx, entry)
	}
}
