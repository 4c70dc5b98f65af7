// Package parser implements the syntax analysis for block-lang.
// It works directly on the source text through an Input cursor: recursive descent for
// statements and indented blocks, Pratt parsing for expressions.
package parser

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"block-lang/internal/ast"
	"block-lang/internal/span"
	"block-lang/internal/token"
)

// ============================================================
// Parser
// ============================================================

// Parser turns source text into a syntax tree. It stops at the first error.
type Parser struct {
	in     *Input
	step   int
	nextID ast.ExprID
}

// Option configures a Parser.
type Option func(*Parser)

// WithIndentStep sets how many indentation units a nested block adds.
func WithIndentStep(step int) Option {
	return func(p *Parser) {
		if step > 0 {
			p.step = step
		}
	}
}

// New creates a parser for source.
func New(source string, opts ...Option) *Parser {
	p := &Parser{in: NewInput(source), step: ast.DefaultIndentStep}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses a whole source file.
func Parse(source string, opts ...Option) (*ast.File, error) {
	return New(source, opts...).ParseFile()
}

// ParseFile parses the entire input. The returned error is always an *Error.
func (p *Parser) ParseFile() (*ast.File, error) {
	if !utf8.ValidString(p.in.Rest()) {
		at := invalidUTF8At(p.in.Rest())
		return nil, UnexpectedToken(span.NewIndex(at, at+1), "the source is not valid UTF-8")
	}
	rec := p.in.StartRecording()
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &ast.File{NodeBase: ast.NodeBase{Span: p.in.FinishRecording(rec)}, Body: body}, nil
}

func invalidUTF8At(s string) int {
	for i := 0; i < len(s); {
		r, w := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && w == 1 {
			return i
		}
		i += w
	}
	return len(s)
}

func (p *Parser) id() ast.ExprID {
	p.nextID++
	return p.nextID
}

// ============================================================
// Blocks
// ============================================================

// skipBlankLines consumes lines holding nothing but whitespace.
func (p *Parser) skipBlankLines() {
	for {
		c := *p.in
		c.SkipWhitespace()
		if c.IsEmpty() {
			*p.in = c
			return
		}
		if !c.PeekToken('\n') {
			return
		}
		c.consume(1)
		*p.in = c
	}
}

// parseBody parses statements at the current indentation. With no terminators it runs
// to the end of input; otherwise it stops in front of a line holding one of them at the
// enclosing block's indentation.
func (p *Parser) parseBody(terminators ...token.Kind) ([]ast.Stmt, error) {
	body := []ast.Stmt{}
	for {
		p.skipBlankLines()
		if p.in.IsEmpty() {
			if len(terminators) == 0 {
				return body, nil
			}
			return nil, UnexpectedEndOfInput(p.in.Here())
		}
		if len(terminators) > 0 && p.atTerminator(terminators) {
			return body, nil
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
}

// atTerminator looks ahead for a closing keyword at the enclosing indentation.
func (p *Parser) atTerminator(terminators []token.Kind) bool {
	c := *p.in
	n, width := c.indentRun()
	if width != c.Indent()-p.step {
		return false
	}
	c.consume(n)
	kind := token.LookupIdent(peekWord(&c))
	for _, t := range terminators {
		if kind == t {
			return true
		}
	}
	return false
}

// block parses a nested body closed by one of terminators.
func (p *Parser) block(terminators ...token.Kind) ([]ast.Stmt, error) {
	var body []ast.Stmt
	err := p.in.Indented(p.step, func() error {
		var err error
		body, err = p.parseBody(terminators...)
		return err
	})
	return body, err
}

// closer consumes the indentation and keyword of a block's closing line.
func (p *Parser) closer(kind token.Kind) error {
	if err := p.in.AdvanceIndent(); err != nil {
		return err
	}
	return p.keyword(kind)
}

// endOfLine consumes trailing whitespace and the line break, which may be missing on
// the last line.
func (p *Parser) endOfLine() error {
	p.in.SkipWhitespace()
	if p.in.IsEmpty() {
		return nil
	}
	return p.in.AdvanceWhitespaceAndNewLine()
}

// ============================================================
// Words
// ============================================================

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func readWord(in *Input) string {
	return in.EatUntilOrEnd(func(r rune) bool { return !isIdentContinue(r) })
}

func peekWord(in *Input) string {
	c := *in
	return readWord(&c)
}

// keyword consumes the keyword kind as a whole word.
func (p *Parser) keyword(kind token.Kind) error {
	p.in.SkipWhitespace()
	if p.in.IsEmpty() {
		return UnexpectedEndOfInput(p.in.Here())
	}
	start := p.in.Position().Index
	word := peekWord(p.in)
	if word != kind.String() {
		if word == "" {
			r, _ := p.in.PeekChar()
			return UnexpectedToken(p.in.charSpan(), "expected `%s`, found %s", kind, describe(string(r)))
		}
		return UnexpectedToken(span.NewIndex(start, start+len(word)), "expected `%s`, found `%s`", kind, word)
	}
	readWord(p.in)
	return nil
}

// parseIdent consumes a name. Keywords are not names.
func (p *Parser) parseIdent() (string, span.Span, error) {
	p.in.SkipWhitespace()
	rec := p.in.StartRecording()
	r, ok := p.in.PeekChar()
	if !ok {
		return "", span.Span{}, UnexpectedEndOfInput(p.in.Here())
	}
	if !isIdentStart(r) {
		return "", span.Span{}, InvalidIdent(p.in.charSpan(), "expected a name, found %s", describe(string(r)))
	}
	word := readWord(p.in)
	s := p.in.FinishRecording(rec)
	if kind := token.LookupIdent(word); kind.IsKeyword() {
		return "", span.Span{}, InvalidIdent(s.IndexOnly(), "`%s` is a keyword and cannot be used as a name", word)
	}
	return word, s, nil
}

// ============================================================
// Statement parsing
// ============================================================

// parseStmt parses one statement, starting at its indentation and ending after its last
// line break.
func (p *Parser) parseStmt() (ast.Stmt, error) {
	if err := p.in.AdvanceIndent(); err != nil {
		return nil, err
	}
	rec := p.in.StartRecording()

	var (
		stmt ast.Stmt
		err  error
	)
	word := peekWord(p.in)
	switch token.LookupIdent(word) {
	case token.KW_FUNCTION:
		stmt, err = p.parseFuncDecl(rec)
	case token.KW_RECORD:
		stmt, err = p.parseRecordDecl(rec)
	case token.KW_WHILE:
		stmt, err = p.parseWhileStmt(rec)
	case token.KW_FOR:
		stmt, err = p.parseForStmt(rec)
	case token.KW_IF:
		stmt, err = p.parseIfStmt(rec)
	case token.KW_RETURN:
		stmt, err = p.parseReturnStmt(rec)
	case token.KW_ENDFUNCTION, token.KW_ENDRECORD, token.KW_ENDWHILE, token.KW_NEXT,
		token.KW_ELSE, token.KW_ENDIF, token.KW_THEN, token.KW_TO, token.KW_OF:
		start := p.in.Position().Index
		return nil, UnexpectedToken(span.NewIndex(start, start+len(word)),
			"`%s` cannot start a statement here", word)
	default:
		stmt, err = p.parseSimpleStmt(rec)
	}
	if err != nil {
		return nil, err
	}
	if err := p.endOfLine(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func stmtBase(s span.Span) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Span: s}}
}

// parseSimpleStmt parses an expression statement or an assignment.
func (p *Parser) parseSimpleStmt(rec Recording) (ast.Stmt, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	c := *p.in
	c.SkipWhitespace()
	if !c.StartsWith("=") || c.StartsWith("==") {
		return &ast.ExprStmt{StmtBase: stmtBase(p.in.FinishRecording(rec)), Expr: expr}, nil
	}
	target, ok := expr.(*ast.IdentExpr)
	if !ok {
		return nil, ExprError(expr.GetSpan().IndexOnly(), "only a name can be assigned to")
	}
	*p.in = c
	if _, err := p.in.ParseToken("="); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.AssignStmt{StmtBase: stmtBase(p.in.FinishRecording(rec)), Name: target.Name, Value: value}, nil
}

// parseReturnStmt parses: return [expr]
func (p *Parser) parseReturnStmt(rec Recording) (*ast.ReturnStmt, error) {
	if err := p.keyword(token.KW_RETURN); err != nil {
		return nil, err
	}
	c := *p.in
	c.SkipWhitespace()
	if c.IsEmpty() || c.PeekToken('\n') {
		return &ast.ReturnStmt{StmtBase: stmtBase(p.in.FinishRecording(rec))}, nil
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{StmtBase: stmtBase(p.in.FinishRecording(rec)), Value: value}, nil
}

// parseWhileStmt parses: while expr NEWLINE body endwhile
func (p *Parser) parseWhileStmt(rec Recording) (*ast.WhileStmt, error) {
	if err := p.keyword(token.KW_WHILE); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.endOfLine(); err != nil {
		return nil, err
	}
	body, err := p.block(token.KW_ENDWHILE)
	if err != nil {
		return nil, err
	}
	if err := p.closer(token.KW_ENDWHILE); err != nil {
		return nil, err
	}
	return &ast.WhileStmt{StmtBase: stmtBase(p.in.FinishRecording(rec)), Condition: cond, Body: body}, nil
}

// parseForStmt parses: for v = from to to NEWLINE body next v
func (p *Parser) parseForStmt(rec Recording) (*ast.ForStmt, error) {
	if err := p.keyword(token.KW_FOR); err != nil {
		return nil, err
	}
	name, _, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	p.in.SkipWhitespace()
	if _, err := p.in.ParseToken("="); err != nil {
		return nil, err
	}
	from, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.keyword(token.KW_TO); err != nil {
		return nil, err
	}
	to, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.endOfLine(); err != nil {
		return nil, err
	}
	body, err := p.block(token.KW_NEXT)
	if err != nil {
		return nil, err
	}
	if err := p.closer(token.KW_NEXT); err != nil {
		return nil, err
	}
	next, nextSpan, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if next != name {
		return nil, InvalidIdent(nextSpan.IndexOnly(), "this loop counts `%s`, so it must end with `next %s`", name, name)
	}
	return &ast.ForStmt{
		StmtBase: stmtBase(p.in.FinishRecording(rec)),
		Var:      name,
		From:     from,
		To:       to,
		Body:     body,
	}, nil
}

// parseIfStmt parses: if expr then NEWLINE body [else NEWLINE body] endif
func (p *Parser) parseIfStmt(rec Recording) (*ast.IfStmt, error) {
	if err := p.keyword(token.KW_IF); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.keyword(token.KW_THEN); err != nil {
		return nil, err
	}
	if err := p.endOfLine(); err != nil {
		return nil, err
	}
	then, err := p.block(token.KW_ELSE, token.KW_ENDIF)
	if err != nil {
		return nil, err
	}
	if err := p.in.AdvanceIndent(); err != nil {
		return nil, err
	}

	stmt := &ast.IfStmt{Condition: cond, Then: then}
	if token.LookupIdent(peekWord(p.in)) == token.KW_ELSE {
		readWord(p.in)
		if err := p.endOfLine(); err != nil {
			return nil, err
		}
		els, err := p.block(token.KW_ENDIF)
		if err != nil {
			return nil, err
		}
		stmt.Else = els
		if err := p.in.AdvanceIndent(); err != nil {
			return nil, err
		}
	}
	if err := p.keyword(token.KW_ENDIF); err != nil {
		return nil, err
	}
	stmt.StmtBase = stmtBase(p.in.FinishRecording(rec))
	return stmt, nil
}

// ============================================================
// Declaration parsing
// ============================================================

// parseFuncDecl parses: function IDENT ( params ) NEWLINE body endfunction
func (p *Parser) parseFuncDecl(rec Recording) (*ast.FuncDecl, error) {
	if err := p.keyword(token.KW_FUNCTION); err != nil {
		return nil, err
	}
	name, _, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if err := p.endOfLine(); err != nil {
		return nil, err
	}
	body, err := p.block(token.KW_ENDFUNCTION)
	if err != nil {
		return nil, err
	}
	if err := p.closer(token.KW_ENDFUNCTION); err != nil {
		return nil, err
	}
	return &ast.FuncDecl{StmtBase: stmtBase(p.in.FinishRecording(rec)), Name: name, Params: params, Body: body}, nil
}

// parseParamList parses: ( ident, ident, ... )
func (p *Parser) parseParamList() ([]string, error) {
	p.in.SkipWhitespace()
	open := p.in.charSpan()
	if _, err := p.in.ParseToken("("); err != nil {
		return nil, err
	}
	params := []string{}
	p.in.SkipWhitespace()
	if !p.in.PeekToken(')') {
		seen := map[string]bool{}
		names, err := DelimitedList(p.in, func(*Input) (string, error) {
			name, s, err := p.parseIdent()
			if err != nil {
				return "", err
			}
			if seen[name] {
				return "", InvalidIdent(s.IndexOnly(), "parameter `%s` is declared twice", name)
			}
			seen[name] = true
			return name, nil
		}, ')', ",")
		if err != nil {
			return nil, p.unclosed(open, err)
		}
		params = names
	}
	return params, p.closeBracket(open, ')')
}

// parseRecordDecl parses: record IDENT NEWLINE { IDENT of IDENT NEWLINE } endrecord
func (p *Parser) parseRecordDecl(rec Recording) (*ast.RecordDecl, error) {
	if err := p.keyword(token.KW_RECORD); err != nil {
		return nil, err
	}
	name, _, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if err := p.endOfLine(); err != nil {
		return nil, err
	}

	fields := []ast.RecordField{}
	err = p.in.Indented(p.step, func() error {
		seen := map[string]bool{}
		for {
			p.skipBlankLines()
			if p.in.IsEmpty() {
				return UnexpectedEndOfInput(p.in.Here())
			}
			if p.atTerminator([]token.Kind{token.KW_ENDRECORD}) {
				return nil
			}
			field, err := p.parseRecordField()
			if err != nil {
				return err
			}
			if seen[field.Name] {
				return InvalidIdent(field.Span.IndexOnly(), "field `%s` is declared twice", field.Name)
			}
			seen[field.Name] = true
			fields = append(fields, field)
		}
	})
	if err != nil {
		return nil, err
	}
	if err := p.closer(token.KW_ENDRECORD); err != nil {
		return nil, err
	}
	return &ast.RecordDecl{StmtBase: stmtBase(p.in.FinishRecording(rec)), Name: name, Fields: fields}, nil
}

// parseRecordField parses one `name of Type` line.
func (p *Parser) parseRecordField() (ast.RecordField, error) {
	if err := p.in.AdvanceIndent(); err != nil {
		return ast.RecordField{}, err
	}
	rec := p.in.StartRecording()
	name, _, err := p.parseIdent()
	if err != nil {
		return ast.RecordField{}, err
	}
	if err := p.keyword(token.KW_OF); err != nil {
		return ast.RecordField{}, err
	}
	typ, _, err := p.parseIdent()
	if err != nil {
		return ast.RecordField{}, err
	}
	field := ast.RecordField{Span: p.in.FinishRecording(rec), Name: name, Type: typ}
	return field, p.endOfLine()
}

// ============================================================
// Brackets
// ============================================================

// closeBracket consumes the closing bracket for the one opened at open.
func (p *Parser) closeBracket(open span.IndexSpan, closing rune) error {
	p.in.SkipWhitespace()
	if p.in.IsEmpty() || p.in.PeekToken('\n') {
		here := p.in.Here()
		return MismatchedBrackets(open, &here)
	}
	_, err := p.in.ParseToken(string(closing))
	return err
}

// unclosed turns a failure that ran into the end of the line inside brackets into a
// bracket mismatch for the bracket opened at open.
func (p *Parser) unclosed(open span.IndexSpan, err error) error {
	var perr *Error
	if !errors.As(err, &perr) {
		return err
	}
	atLineEnd := p.in.IsEmpty() || p.in.PeekToken('\n')
	if perr.Kind == KindUnexpectedEndOfInput || (perr.Kind == KindUnexpectedToken && atLineEnd) {
		here := p.in.Here()
		return MismatchedBrackets(open, &here)
	}
	return err
}
