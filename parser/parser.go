package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Parse reads an entire SPL source and returns its AST.  Input is NFC
// normalized first so identifiers compare by their canonical form.
func Parse(input io.Reader) (*Lexer, *File, error) {
	raw, err := io.ReadAll(input)
	if err != nil {
		return nil, nil, err
	}
	lexer := NewLexer(norm.NFC.Reader(strings.NewReader(string(raw))))
	p := NewLLParser(lexer)
	file := &File{}
	if err := p.Parse(file); err != nil {
		return lexer, nil, err
	}
	return lexer, file, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(input string) (*File, error) {
	_, file, err := Parse(strings.NewReader(input))
	return file, err
}

// ParseExpression parses a single standalone expression.
func ParseExpression(input string) (Expr, error) {
	p := NewLLParser(NewLexer(norm.NFC.Reader(strings.NewReader(input))))
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if p.lexErr != nil {
		return nil, p.lexErr
	}
	if p.PeekToken() != eof {
		return nil, fmt.Errorf("unexpected %s after expression", TokenString(p.PeekToken()))
	}
	return expr, nil
}
