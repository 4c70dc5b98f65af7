// Package token defines the operators and reserved words of block-lang.
package token

import (
	"fmt"
	"strings"
)

// Kind represents an operator or a keyword.
type Kind int

const (
	ILLEGAL Kind = iota

	// Operators
	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /
	BANG  // !

	EQ  // ==
	NEQ // !=
	LT  // <
	LTE // <=
	GT  // >
	GTE // >=

	// Keywords
	KW_FUNCTION
	KW_ENDFUNCTION
	KW_RECORD
	KW_ENDRECORD
	KW_OF
	KW_WHILE
	KW_ENDWHILE
	KW_FOR
	KW_TO
	KW_NEXT
	KW_IF
	KW_THEN
	KW_ELSE
	KW_ENDIF
	KW_RETURN
	KW_TRUE
	KW_FALSE
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",

	PLUS:  "+",
	MINUS: "-",
	STAR:  "*",
	SLASH: "/",
	BANG:  "!",
	EQ:    "==",
	NEQ:   "!=",
	LT:    "<",
	LTE:   "<=",
	GT:    ">",
	GTE:   ">=",

	KW_FUNCTION:    "function",
	KW_ENDFUNCTION: "endfunction",
	KW_RECORD:      "record",
	KW_ENDRECORD:   "endrecord",
	KW_OF:          "of",
	KW_WHILE:       "while",
	KW_ENDWHILE:    "endwhile",
	KW_FOR:         "for",
	KW_TO:          "to",
	KW_NEXT:        "next",
	KW_IF:          "if",
	KW_THEN:        "then",
	KW_ELSE:        "else",
	KW_ENDIF:       "endif",
	KW_RETURN:      "return",
	KW_TRUE:        "True",
	KW_FALSE:       "False",
}

// String returns the source spelling for a kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= KW_FUNCTION && k <= KW_FALSE
}

// IsComparison returns true for the operators producing a boolean.
func (k Kind) IsComparison() bool {
	return k >= EQ && k <= GTE
}

var keywords = map[string]Kind{
	"function":    KW_FUNCTION,
	"endfunction": KW_ENDFUNCTION,
	"record":      KW_RECORD,
	"endrecord":   KW_ENDRECORD,
	"of":          KW_OF,
	"while":       KW_WHILE,
	"endwhile":    KW_ENDWHILE,
	"for":         KW_FOR,
	"to":          KW_TO,
	"next":        KW_NEXT,
	"if":          KW_IF,
	"then":        KW_THEN,
	"else":        KW_ELSE,
	"endif":       KW_ENDIF,
	"return":      KW_RETURN,
	"True":        KW_TRUE,
	"False":       KW_FALSE,
}

// LookupIdent returns the keyword Kind for ident, or ILLEGAL if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return ILLEGAL
}

// binaryOps is ordered so that two-character spellings are tried before their prefixes.
var binaryOps = []Kind{EQ, NEQ, LTE, GTE, LT, GT, PLUS, MINUS, STAR, SLASH}

// MatchBinary returns the binary operator spelled at the start of s.
func MatchBinary(s string) (Kind, bool) {
	for _, k := range binaryOps {
		if strings.HasPrefix(s, kindNames[k]) {
			return k, true
		}
	}
	return ILLEGAL, false
}

// MatchPrefix returns the prefix operator spelled at the start of s.
func MatchPrefix(s string) (Kind, bool) {
	switch {
	case strings.HasPrefix(s, "!="):
		return ILLEGAL, false
	case strings.HasPrefix(s, "+"):
		return PLUS, true
	case strings.HasPrefix(s, "-"):
		return MINUS, true
	case strings.HasPrefix(s, "!"):
		return BANG, true
	default:
		return ILLEGAL, false
	}
}
