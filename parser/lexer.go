package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"unicode"

	"github.com/panyam/splcheck/decl"
)

// Lexer structure
type Lexer struct {
	lookaheadRunes  []rune
	lookaheadWidths []int
	reader          *bufio.Reader
	buf             bytes.Buffer // Temporary buffer for scanned text
	pos             int          // Current byte offset from the beginning of the input
	lastError       error

	// Position tracking for the current token
	tokenStart Location
	tokenText  string // Raw text of the current token

	// Set when a line break separates the current token from the previous one
	newlineBefore bool

	// Current line and column (rune-based) in the input
	line int
	col  int
}

// NewLexer creates a new lexer instance
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
		pos:    0,
		line:   1,
		col:    1,
	}
}

// Error is called by the parser (or lexer itself) on an error.
func (l *Lexer) Error(s string) {
	l.lastError = fmt.Errorf("Error at Line %d, Col %d near '%s': %s", l.tokenStart.Line, l.tokenStart.Col, l.tokenText, s)
	slog.Debug("lexer error", "error", l.lastError)
}

// LastError returns the most recent error reported by the lexer or parser.
func (l *Lexer) LastError() error {
	return l.lastError
}

// Pos returns the start location of the most recently lexed token.
func (l *Lexer) Pos() Location {
	return l.tokenStart
}

// End returns the current location, ie just after the most recent token.
func (l *Lexer) End() Location {
	return Location{Pos: l.pos, Line: l.line, Col: l.col}
}

// NewlineBefore reports whether the most recent token started on a later
// line than the token before it.
func (l *Lexer) NewlineBefore() bool {
	return l.newlineBefore
}

// Text returns the raw text of the most recently lexed token.
func (l *Lexer) Text() string {
	return l.tokenText
}

// --- Rune Reading Helpers (with line/col tracking) ---
func (l *Lexer) read() (r rune, width int) {
	if l.peek() == eof {
		return eof, 0
	}
	r, width = l.lookaheadRunes[0], l.lookaheadWidths[0]
	l.lookaheadRunes, l.lookaheadWidths = l.lookaheadRunes[1:], l.lookaheadWidths[1:]
	l.updatePosition(r, width)
	return r, width
}

func (l *Lexer) updatePosition(r rune, width int) {
	l.pos += width
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) peekN(nthchar int) rune {
	l.ensureLookAhead(nthchar + 1)
	if nthchar >= len(l.lookaheadRunes) {
		return eof
	}
	return l.lookaheadRunes[nthchar]
}

func (l *Lexer) peek() rune {
	return l.peekN(0)
}

func (l *Lexer) ensureLookAhead(numchars int) int {
	for len(l.lookaheadRunes) < numchars {
		r, width, err := l.reader.ReadRune()
		if err != nil {
			break
		}
		l.lookaheadRunes = append(l.lookaheadRunes, r)
		l.lookaheadWidths = append(l.lookaheadWidths, width)
	}
	return len(l.lookaheadRunes)
}

// hasPrefix checks whether the upcoming runes match prefix and consumes them if asked.
func (l *Lexer) hasPrefix(prefix string, consume bool) bool {
	runes := []rune(prefix)
	if l.ensureLookAhead(len(runes)) < len(runes) {
		return false
	}
	for i, r := range runes {
		if l.lookaheadRunes[i] != r {
			return false
		}
	}
	if consume {
		for range runes {
			l.read()
		}
	}
	return true
}

func (l *Lexer) readTill(stop rune, skip bool) (foundeof bool) {
	for {
		r := l.peek()
		if r == eof {
			return true
		}
		if r == stop {
			if skip {
				// Found the stop character, but skip it
				l.read()
			}
			return false
		}
		// Not the stop character, so consume it
		l.read()
	}
}

// --- Scanning Functions ---
func (l *Lexer) skipWhitespace() bool {
	for {
		firstChar := l.peek()
		if firstChar == eof {
			return true
		}
		if unicode.IsSpace(firstChar) {
			l.read()
		} else if firstChar == '#' || l.hasPrefix("//", false) {
			l.readTill('\n', true)
		} else if l.hasPrefix("/*", true) {
			expectSlash := false
			for {
				nextCh, _ := l.read()
				if nextCh == eof {
					l.Error("unterminated block comment")
					return true
				}
				if expectSlash && nextCh == '/' {
					break // done with comment
				}
				expectSlash = nextCh == '*'
			}
		} else {
			// Not whitespace or comment, so stop
			return false
		}
	}
}

func (l *Lexer) scanIdentifierOrKeyword() (tok int, text string) {
	l.buf.Reset()
	for r := l.peek(); r != eof && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'); r = l.peek() {
		l.read()
		l.buf.WriteRune(r)
	}
	text = l.buf.String()
	if kw, ok := keywords[text]; ok {
		return kw, text
	}
	return IDENTIFIER, text
}

func (l *Lexer) scanNumber() (tok int, text string) {
	l.buf.Reset()
	isReal := false
	hasDecimal := false
	for r := l.peek(); r != eof; r = l.peek() {
		if unicode.IsDigit(r) {
			l.read()
			l.buf.WriteRune(r)
		} else if r == '.' && !hasDecimal {
			// "0...10" is a range, not a real
			if !unicode.IsDigit(l.peekN(1)) {
				break
			}
			l.read()
			hasDecimal, isReal = true, true
			l.buf.WriteRune(r)
		} else if r == 'e' || r == 'E' {
			next := l.peekN(1)
			skip := 1
			if next == '+' || next == '-' {
				next = l.peekN(2)
				skip = 2
			}
			if !unicode.IsDigit(next) {
				break
			}
			for range skip {
				ch, _ := l.read()
				l.buf.WriteRune(ch)
			}
			for unicode.IsDigit(l.peek()) {
				ch, _ := l.read()
				l.buf.WriteRune(ch)
			}
			isReal = true
			break
		} else {
			break
		}
	}
	text = l.buf.String()
	if isReal {
		return REAL_LITERAL, text
	}
	return INT_LITERAL, text
}

func (l *Lexer) scanString() (ok bool, content string) {
	l.buf.Reset()
	l.read() // Consume opening '"'
	for {
		r, _ := l.read()
		if r == eof || r == '\n' {
			l.Error("unterminated string literal")
			return false, ""
		}
		if r == '"' {
			break
		}
		if r == '\\' {
			esc, _ := l.read()
			switch esc {
			case eof:
				l.Error("unterminated string literal after escape")
				return false, ""
			case 'n':
				l.buf.WriteRune('\n')
			case 't':
				l.buf.WriteRune('\t')
			case '\\':
				l.buf.WriteRune('\\')
			case '"':
				l.buf.WriteRune('"')
			default:
				l.Error(fmt.Sprintf("invalid escape sequence \\%c", esc))
				return false, ""
			}
		} else {
			l.buf.WriteRune(r)
		}
	}
	return true, l.buf.String()
}

// operators in longest-match-first order
var operators = []struct {
	text string
	tok  int
}{
	{"...", ELLIPSIS},
	{"**", POW},
	{"==", EQ},
	{"!=", NEQ},
	{"<>", NEQ},
	{"<=", LTE},
	{">=", GTE},
	{"+=", PLUS_ASSIGN},
	{"-=", MINUS_ASSIGN},
	{"*=", MUL_ASSIGN},
	{"/=", DIV_ASSIGN},
	{"(", LPAREN},
	{")", RPAREN},
	{",", COMMA},
	{":", COLON},
	{";", SEMICOLON},
	{".", DOT},
	{"?", QUESTION},
	{"=", ASSIGN},
	{"<", LT},
	{">", GT},
	{"+", PLUS},
	{"-", MINUS},
	{"*", MUL},
	{"/", DIV},
	{"%", MOD},
	{"~", TILDE},
}

func newNodeInfo(start, stop Location) NodeInfo {
	return NodeInfo{StartPos: start, StopPos: stop}
}

func newLiteralExpr(kind decl.LiteralKind, value any, info NodeInfo) *LiteralExpr {
	return &LiteralExpr{ExprBase: ExprBase{NodeInfo: info}, Kind: kind, Value: value}
}

// Lex is the main lexing function called by the parser.
func (l *Lexer) Lex(lval *SPLSymType) int {
	*lval = SPLSymType{}
	startLine := l.line
	atEOF := l.skipWhitespace()
	l.newlineBefore = l.line > startLine
	if atEOF {
		l.tokenStart = l.End()
		l.tokenText = ""
		return eof
	}

	l.tokenStart = l.End()
	l.tokenText = ""

	r := l.peek()
	if r == eof {
		return eof
	}
	start := l.tokenStart

	if unicode.IsLetter(r) || r == '_' {
		tok, text := l.scanIdentifierOrKeyword()
		l.tokenText = text
		info := newNodeInfo(start, l.End())
		lval.node = &TokenNode{NodeInfo: info, Text: text}
		lval.sval = text
		switch tok {
		case IDENTIFIER:
			lval.ident = &IdentifierExpr{ExprBase: ExprBase{NodeInfo: info}, Name: text}
		case BOOL_LITERAL:
			lval.expr = newLiteralExpr(decl.BoolLiteral, text == "true", info)
		case INF:
			lval.expr = newLiteralExpr(decl.InfLiteral, nil, info)
		}
		return tok
	}

	if unicode.IsDigit(r) || (r == '.' && unicode.IsDigit(l.peekN(1))) {
		numTok, numText := l.scanNumber()
		l.tokenText = numText
		info := newNodeInfo(start, l.End())
		lval.node = &TokenNode{NodeInfo: info, Text: numText}
		if numTok == INT_LITERAL {
			intVal, err := strconv.ParseInt(numText, 10, 64)
			if err != nil {
				l.Error(fmt.Sprintf("Invalid integer: %s", numText))
				return eof
			}
			lval.expr = newLiteralExpr(decl.IntLiteral, intVal, info)
		} else {
			realVal, err := strconv.ParseFloat(numText, 64)
			if err != nil {
				l.Error(fmt.Sprintf("Invalid real: %s", numText))
				return eof
			}
			lval.expr = newLiteralExpr(decl.RealLiteral, realVal, info)
		}
		return numTok
	}

	if r == '"' {
		ok, content := l.scanString()
		if !ok {
			return eof
		}
		l.tokenText = strconv.Quote(content)
		info := newNodeInfo(start, l.End())
		lval.node = &TokenNode{NodeInfo: info, Text: l.tokenText}
		lval.expr = newLiteralExpr(decl.StringLiteral, content, info)
		return STRING_LITERAL
	}

	// Operators and Punctuation
	for _, op := range operators {
		if l.hasPrefix(op.text, true) {
			l.tokenText = op.text
			lval.sval = op.text
			lval.node = &TokenNode{NodeInfo: newNodeInfo(start, l.End()), Text: op.text}
			return op.tok
		}
	}

	l.tokenText = string(r)
	l.Error(fmt.Sprintf("unexpected character '%c'", r))
	return eof // Indicate an error that should halt parsing
}
