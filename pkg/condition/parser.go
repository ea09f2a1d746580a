package condition

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a syntax error in a condition expression together
// with the byte offset and token where parsing stopped.
type ParseError struct {
	Expr   string
	Offset int
	Token  string
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("parse error at offset %d near %q: %s", e.Offset, e.Token, e.Msg)
	}
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Msg)
}

// functionNames is the closed set of built-in functions. Anything else
// called as a function is a parse error; identifier resolution for @refs
// is deferred to evaluation time.
var functionNames = map[string]bool{
	"count":    true,
	"selected": true,
	"any":      true,
	"all":      true,
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokRef           // @identifier
	tokIdent
	tokNumber
	tokString
	tokAnd    // &&
	tokOr     // ||
	tokNot    // !
	tokCmp    // == != >= <= > <
	tokLParen // (
	tokRParen // )
	tokComma  // ,
)

type token struct {
	kind tokenKind
	text string // literal text; for tokRef the id without '@'
	num  float64
	pos  int
}

// Parse turns a when-clause expression into its AST. Precedence from
// loosest to tightest: ||, &&, !, comparisons, primary values. Barewords
// are implicit string literals so option names need no quoting.
func Parse(expr string) (Node, error) {
	p := &parser{expr: expr}
	if err := p.lex(); err != nil {
		return nil, err
	}
	if len(p.tokens) == 1 { // just EOF
		return nil, &ParseError{Expr: expr, Msg: "empty condition expression"}
	}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tk := p.peek(); tk.kind != tokEOF {
		return nil, p.errorf(tk, "unexpected trailing input")
	}
	return n, nil
}

type parser struct {
	expr   string
	tokens []token
	next   int
}

func (p *parser) errorf(tk token, format string, args ...any) *ParseError {
	return &ParseError{
		Expr:   p.expr,
		Offset: tk.pos,
		Token:  tk.text,
		Msg:    fmt.Sprintf(format, args...),
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *parser) lex() error {
	s := p.expr
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '@':
			start := i
			i++
			for i < len(s) && isIdentChar(s[i]) {
				i++
			}
			if i == start+1 {
				return &ParseError{Expr: s, Offset: start, Token: "@", Msg: "expected identifier after '@'"}
			}
			p.tokens = append(p.tokens, token{kind: tokRef, text: s[start+1 : i], pos: start})

		case isIdentStart(c):
			start := i
			for i < len(s) && isIdentChar(s[i]) {
				i++
			}
			p.tokens = append(p.tokens, token{kind: tokIdent, text: s[start:i], pos: start})

		case c >= '0' && c <= '9', c == '-' && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9':
			start := i
			if c == '-' {
				i++
			}
			for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
				i++
			}
			text := s[start:i]
			num, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return &ParseError{Expr: s, Offset: start, Token: text, Msg: "malformed number"}
			}
			p.tokens = append(p.tokens, token{kind: tokNumber, text: text, num: num, pos: start})

		case c == '"' || c == '\'':
			start := i
			end := strings.IndexByte(s[i+1:], c)
			if end < 0 {
				return &ParseError{Expr: s, Offset: start, Token: s[start:], Msg: "unterminated string literal"}
			}
			p.tokens = append(p.tokens, token{kind: tokString, text: s[i+1 : i+1+end], pos: start})
			i += end + 2

		case c == '(':
			p.tokens = append(p.tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			p.tokens = append(p.tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == ',':
			p.tokens = append(p.tokens, token{kind: tokComma, text: ",", pos: i})
			i++

		case c == '&':
			if i+1 >= len(s) || s[i+1] != '&' {
				return &ParseError{Expr: s, Offset: i, Token: "&", Msg: "unknown operator (did you mean '&&'?)"}
			}
			p.tokens = append(p.tokens, token{kind: tokAnd, text: "&&", pos: i})
			i += 2
		case c == '|':
			if i+1 >= len(s) || s[i+1] != '|' {
				return &ParseError{Expr: s, Offset: i, Token: "|", Msg: "unknown operator (did you mean '||'?)"}
			}
			p.tokens = append(p.tokens, token{kind: tokOr, text: "||", pos: i})
			i += 2

		case c == '!':
			if i+1 < len(s) && s[i+1] == '=' {
				p.tokens = append(p.tokens, token{kind: tokCmp, text: "!=", pos: i})
				i += 2
			} else {
				p.tokens = append(p.tokens, token{kind: tokNot, text: "!", pos: i})
				i++
			}
		case c == '=':
			if i+1 >= len(s) || s[i+1] != '=' {
				return &ParseError{Expr: s, Offset: i, Token: "=", Msg: "unknown operator (did you mean '=='?)"}
			}
			p.tokens = append(p.tokens, token{kind: tokCmp, text: "==", pos: i})
			i += 2
		case c == '>', c == '<':
			if i+1 < len(s) && s[i+1] == '=' {
				p.tokens = append(p.tokens, token{kind: tokCmp, text: s[i : i+2], pos: i})
				i += 2
			} else {
				p.tokens = append(p.tokens, token{kind: tokCmp, text: s[i : i+1], pos: i})
				i++
			}

		default:
			return &ParseError{Expr: s, Offset: i, Token: s[i : i+1], Msg: "unexpected character"}
		}
	}
	p.tokens = append(p.tokens, token{kind: tokEOF, pos: len(s)})
	return nil
}

func (p *parser) peek() token {
	return p.tokens[p.next]
}

func (p *parser) advance() token {
	tk := p.tokens[p.next]
	if tk.kind != tokEOF {
		p.next++
	}
	return tk
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Node, error) {
	if p.peek().kind == tokNot {
		p.advance()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{Expr: inner}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokCmp {
		return left, nil
	}
	opTok := p.advance()
	var op CompareOp
	switch opTok.text {
	case "==":
		op = OpEq
	case "!=":
		op = OpNe
	case ">":
		op = OpGt
	case "<":
		op = OpLt
	case ">=":
		op = OpGe
	case "<=":
		op = OpLe
	}
	right, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &Compare{Op: op, Left: left, Right: right}, nil
}

func (p *parser) parseValue() (Node, error) {
	tk := p.advance()
	switch tk.kind {
	case tokRef:
		return &Ref{ID: tk.text}, nil
	case tokNumber:
		return &Num{Value: tk.num}, nil
	case tokString:
		return &Str{Value: tk.text}, nil

	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.advance(); closing.kind != tokRParen {
			return nil, p.errorf(closing, "expected ')'")
		}
		return inner, nil

	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(tk)
		}
		if functionNames[tk.text] {
			return nil, p.errorf(tk, "expected '(' after function %q", tk.text)
		}
		// Bareword: implicit string literal.
		return &Str{Value: tk.text}, nil

	case tokEOF:
		return nil, p.errorf(tk, "unexpected end of expression")
	default:
		return nil, p.errorf(tk, "unexpected token")
	}
}

func (p *parser) parseCall(name token) (Node, error) {
	if !functionNames[name.text] {
		return nil, p.errorf(name, "unknown function %q (recognized: count, selected, any, all)", name.text)
	}
	p.advance() // consume '('

	var args []Node
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.advance()
		}
	}
	if closing := p.advance(); closing.kind != tokRParen {
		return nil, p.errorf(closing, "expected ')' to close %s(...)", name.text)
	}

	switch name.text {
	case "count":
		if len(args) != 1 {
			return nil, p.errorf(name, "count() expects exactly 1 argument, got %d", len(args))
		}
		ref, ok := args[0].(*Ref)
		if !ok {
			return nil, p.errorf(name, "count() expects a @field reference")
		}
		return &Count{ID: ref.ID}, nil

	case "selected":
		if len(args) != 2 {
			return nil, p.errorf(name, "selected() expects exactly 2 arguments, got %d", len(args))
		}
		ref, ok := args[0].(*Ref)
		if !ok {
			return nil, p.errorf(name, "selected() expects a @field reference as its first argument")
		}
		return &Selected{ID: ref.ID, Value: args[1]}, nil

	case "any":
		if len(args) == 0 {
			return nil, p.errorf(name, "any() expects at least 1 argument")
		}
		return &Any{Args: args}, nil

	case "all":
		if len(args) == 0 {
			return nil, p.errorf(name, "all() expects at least 1 argument")
		}
		return &All{Args: args}, nil
	}
	return nil, p.errorf(name, "unknown function %q", name.text) // unreachable
}
