package parser

import (
	"strconv"

	"block-lang/internal/ast"
	"block-lang/internal/span"
	"block-lang/internal/token"
)

// ============================================================
// Binding power (precedence) levels
// ============================================================

const (
	bpNone       = 0
	bpComparison = 30 // == != < <= > >=
	bpAdditive   = 50 // + -
	bpMultiply   = 60 // * /
	bpPrefix     = 70 // + - !
	bpPostfix    = 80 // () .
)

// infixBP returns the left binding power for an infix operator.
func infixBP(kind token.Kind) int {
	switch {
	case kind.IsComparison():
		return bpComparison
	case kind == token.PLUS, kind == token.MINUS:
		return bpAdditive
	case kind == token.STAR, kind == token.SLASH:
		return bpMultiply
	default:
		return bpNone
	}
}

func (p *Parser) exprBase(start, end span.Position) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: span.New(start, end)}, ExprID: p.id()}
}

// ============================================================
// Expression parsing (Pratt / precedence climbing)
// ============================================================

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseExprBP(bpNone)
}

// parseExprBP parses an expression whose operators bind tighter than minBP. An
// expression never spans lines, and whitespace after it is left for the caller.
func (p *Parser) parseExprBP(minBP int) (ast.Expr, error) {
	left, err := p.nud()
	if err != nil {
		return nil, err
	}
	for {
		next, err := p.led(left, minBP)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return left, nil
		}
		left = next
	}
}

// nud handles prefix (null denotation) parsing.
func (p *Parser) nud() (ast.Expr, error) {
	p.in.SkipWhitespace()
	start := p.in.Position()
	r, ok := p.in.PeekChar()
	if !ok {
		return nil, UnexpectedEndOfInput(p.in.Here())
	}

	if op, ok := token.MatchPrefix(p.in.Rest()); ok {
		p.in.consume(len(op.String()))
		operand, err := p.parseExprBP(bpPrefix)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{
			ExprBase: p.exprBase(start, operand.GetSpan().End),
			Op:       op,
			Operand:  operand,
		}, nil
	}

	switch {
	case r >= '0' && r <= '9':
		return p.parseIntLiteral()
	case r == '"':
		return p.parseStringLiteral()
	case r == '(':
		return p.parseGroup()
	case r == '[':
		return p.parseListLiteral()
	case isIdentStart(r):
		return p.parseName()
	case r == '\n':
		return nil, UnexpectedToken(p.in.charSpan(), "expected an expression before the end of the line")
	default:
		return nil, UnexpectedToken(p.in.charSpan(), "expected an expression, found %s", describe(string(r)))
	}
}

// led handles infix/postfix (left denotation) parsing. It returns nil when no operator
// continues left. It looks past whitespace on a copy of the input so that trailing
// whitespace stays unconsumed when nothing follows.
func (p *Parser) led(left ast.Expr, minBP int) (ast.Expr, error) {
	c := *p.in
	c.SkipWhitespace()

	if op, ok := token.MatchBinary(c.Rest()); ok {
		bp := infixBP(op)
		if bp <= minBP {
			return nil, nil
		}
		*p.in = c
		p.in.consume(len(op.String()))
		right, err := p.parseExprBP(bp)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{
			ExprBase: p.exprBase(left.GetSpan().Start, right.GetSpan().End),
			Op:       op,
			Left:     left,
			Right:    right,
		}, nil
	}

	if bpPostfix <= minBP {
		return nil, nil
	}
	switch {
	case c.PeekToken('('):
		*p.in = c
		return p.parseCallExpr(left)
	case c.PeekToken('.'):
		*p.in = c
		return p.parseFieldExpr(left)
	default:
		return nil, nil
	}
}

// ============================================================
// Primary expressions
// ============================================================

func (p *Parser) parseIntLiteral() (*ast.IntLiteral, error) {
	start := p.in.Position()
	digits := p.in.EatUntilOrEnd(func(r rune) bool { return r < '0' || r > '9' })
	s := span.New(start, p.in.Position())
	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil, ExprError(s.IndexOnly(), "integer literal %s does not fit in 64 bits", digits)
	}
	return &ast.IntLiteral{ExprBase: p.exprBase(s.Start, s.End), Value: value}, nil
}

// parseStringLiteral parses "...". Strings have no escapes and end on the same line.
func (p *Parser) parseStringLiteral() (*ast.StringLiteral, error) {
	start := p.in.Position()
	open := p.in.charSpan()
	p.in.consume(len(`"`))
	value, err := p.in.EatUntil(func(r rune) bool { return r == '"' || r == '\n' })
	if err != nil {
		return nil, err
	}
	if p.in.PeekToken('\n') {
		return nil, UnexpectedToken(open, "this string is not closed before the end of the line")
	}
	if _, err := p.in.ParseToken(`"`); err != nil {
		return nil, err
	}
	return &ast.StringLiteral{ExprBase: p.exprBase(start, p.in.Position()), Value: value}, nil
}

// parseGroup parses ( expr ). Parentheses only group; they add no node.
func (p *Parser) parseGroup() (ast.Expr, error) {
	open := p.in.charSpan()
	p.in.consume(len("("))
	inner, err := p.parseExpr()
	if err != nil {
		return nil, p.unclosed(open, err)
	}
	if err := p.closeBracket(open, ')'); err != nil {
		return nil, err
	}
	return inner, nil
}

// parseListLiteral parses: [ expr, expr, ... ]
func (p *Parser) parseListLiteral() (*ast.ListLiteral, error) {
	start := p.in.Position()
	open := p.in.charSpan()
	p.in.consume(len("["))
	elems, err := p.parseExprList(open, ']')
	if err != nil {
		return nil, err
	}
	return &ast.ListLiteral{ExprBase: p.exprBase(start, p.in.Position()), Elements: elems}, nil
}

// parseExprList parses the comma separated expressions after an opening bracket and the
// closing bracket itself.
func (p *Parser) parseExprList(open span.IndexSpan, closing rune) ([]ast.Expr, error) {
	elems := []ast.Expr{}
	p.in.SkipWhitespace()
	if !p.in.PeekToken(closing) {
		list, err := DelimitedList(p.in, func(*Input) (ast.Expr, error) { return p.parseExpr() }, closing, ",")
		if err != nil {
			return nil, p.unclosed(open, err)
		}
		elems = list
	}
	return elems, p.closeBracket(open, closing)
}

// parseName parses an identifier, a boolean literal, or a constructor.
func (p *Parser) parseName() (ast.Expr, error) {
	start := p.in.Position()
	word := readWord(p.in)
	s := span.New(start, p.in.Position())

	switch kind := token.LookupIdent(word); {
	case kind == token.KW_TRUE, kind == token.KW_FALSE:
		return &ast.BoolLiteral{ExprBase: p.exprBase(s.Start, s.End), Value: kind == token.KW_TRUE}, nil
	case kind.IsKeyword():
		return nil, InvalidIdent(s.IndexOnly(), "`%s` is a keyword and cannot be used as a name", word)
	}

	c := *p.in
	c.SkipWhitespace()
	if c.PeekToken('{') {
		*p.in = c
		return p.parseConstructor(word, start)
	}
	return &ast.IdentExpr{ExprBase: p.exprBase(s.Start, s.End), Name: word}, nil
}

// parseConstructor parses: Name { field: expr, ... }
func (p *Parser) parseConstructor(record string, start span.Position) (*ast.ConstructorExpr, error) {
	open := p.in.charSpan()
	p.in.consume(len("{"))
	fields := []ast.FieldInit{}
	p.in.SkipWhitespace()
	if !p.in.PeekToken('}') {
		seen := map[string]bool{}
		list, err := DelimitedList(p.in, func(*Input) (ast.FieldInit, error) {
			f, err := p.parseFieldInit()
			if err != nil {
				return f, err
			}
			if seen[f.Name] {
				return f, ExprError(f.Span.IndexOnly(), "field `%s` is given more than once", f.Name)
			}
			seen[f.Name] = true
			return f, nil
		}, '}', ",")
		if err != nil {
			return nil, p.unclosed(open, err)
		}
		fields = list
	}
	if err := p.closeBracket(open, '}'); err != nil {
		return nil, err
	}
	return &ast.ConstructorExpr{ExprBase: p.exprBase(start, p.in.Position()), Record: record, Fields: fields}, nil
}

// parseFieldInit parses: name: expr
func (p *Parser) parseFieldInit() (ast.FieldInit, error) {
	p.in.SkipWhitespace()
	rec := p.in.StartRecording()
	name, _, err := p.parseIdent()
	if err != nil {
		return ast.FieldInit{}, err
	}
	p.in.SkipWhitespace()
	if _, err := p.in.ParseToken(":"); err != nil {
		return ast.FieldInit{}, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return ast.FieldInit{}, err
	}
	return ast.FieldInit{Span: p.in.FinishRecording(rec), Name: name, Value: value}, nil
}

// ============================================================
// Postfix expressions
// ============================================================

// parseCallExpr parses: callee ( args )
func (p *Parser) parseCallExpr(callee ast.Expr) (*ast.CallExpr, error) {
	open := p.in.charSpan()
	p.in.consume(len("("))
	args, err := p.parseExprList(open, ')')
	if err != nil {
		return nil, err
	}
	return &ast.CallExpr{
		ExprBase: p.exprBase(callee.GetSpan().Start, p.in.Position()),
		Callee:   callee,
		Args:     args,
	}, nil
}

// parseFieldExpr parses: object . name
func (p *Parser) parseFieldExpr(object ast.Expr) (*ast.FieldExpr, error) {
	p.in.consume(len("."))
	name, _, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	return &ast.FieldExpr{
		ExprBase: p.exprBase(object.GetSpan().Start, p.in.Position()),
		Object:   object,
		Field:    name,
	}, nil
}
