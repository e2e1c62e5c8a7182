// Package visibility compiles the small expression language used to show or
// hide wizard steps based on earlier answers.
//
// Supported forms:
//   - presence checks: `notes`
//   - comparisons: `kind == "Peso"`, `kind != 'Fuerza'`, `weeks >= 8`
//   - composition: `a && (b || !c)`
//
// Against a multi-select answer `==` tests membership and `!=` its absence.
// Ordering operators need a number literal and are false when the answer is
// not numeric.
package visibility

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ErrSyntax wraps every compile failure.
var ErrSyntax = errors.New("visibility: syntax error")

// Rule is a compiled expression.
type Rule struct {
	src    string
	root   node
	fields []string
}

// Compile parses src. An empty expression compiles to a rule that always
// matches.
func Compile(src string) (*Rule, error) {
	trimmed := strings.TrimSpace(src)
	rule := &Rule{src: trimmed}
	if trimmed == "" {
		return rule, nil
	}
	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens, seen: map[string]struct{}{}}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, p.tokens[p.pos].raw)
	}
	rule.root = root
	rule.fields = p.fields
	return rule, nil
}

// String returns the trimmed source.
func (r *Rule) String() string { return r.src }

// Fields lists the answer names the rule reads, in first-use order.
func (r *Rule) Fields() []string {
	return append([]string(nil), r.fields...)
}

// Eval reports whether values satisfy the rule.
func (r *Rule) Eval(values map[string]any) bool {
	if r == nil || r.root == nil {
		return true
	}
	return r.root.eval(values)
}

var cache sync.Map

// Match compiles src once per process and evaluates it.
func Match(src string, values map[string]any) (bool, error) {
	if cached, ok := cache.Load(src); ok {
		return cached.(*Rule).Eval(values), nil
	}
	rule, err := Compile(src)
	if err != nil {
		return false, err
	}
	cache.Store(src, rule)
	return rule.Eval(values), nil
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokNumber
	tokOp
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(input); {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokLParen, raw: "("})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokRParen, raw: ")"})
			i++
		case ch == '&' || ch == '|':
			if i+1 >= len(input) || input[i+1] != ch {
				return nil, fmt.Errorf("%w: use %c%c", ErrSyntax, ch, ch)
			}
			kind := tokAnd
			if ch == '|' {
				kind = tokOr
			}
			tokens = append(tokens, token{kind: kind, raw: input[i : i+2]})
			i += 2
		case ch == '=' || ch == '!' || ch == '<' || ch == '>':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{kind: tokOp, raw: input[i : i+2]})
				i += 2
				continue
			}
			switch ch {
			case '=':
				return nil, fmt.Errorf("%w: use == for equality", ErrSyntax)
			case '!':
				tokens = append(tokens, token{kind: tokNot, raw: "!"})
			default:
				tokens = append(tokens, token{kind: tokOp, raw: string(ch)})
			}
			i++
		case ch == '"' || ch == '\'':
			end := strings.IndexByte(input[i+1:], ch)
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated string", ErrSyntax)
			}
			tokens = append(tokens, token{kind: tokString, raw: input[i+1 : i+1+end]})
			i += end + 2
		case ch == '-' || ch == '.' || isDigit(ch):
			start := i
			i++
			for i < len(input) && (isDigit(input[i]) || input[i] == '.') {
				i++
			}
			raw := input[start:i]
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrSyntax, raw)
			}
			tokens = append(tokens, token{kind: tokNumber, raw: raw})
		case isIdentStart(ch):
			start := i
			for i < len(input) && (isIdentStart(input[i]) || isDigit(input[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, raw: input[start:i]})
		default:
			return nil, fmt.Errorf("%w: unexpected character %q", ErrSyntax, ch)
		}
	}
	return tokens, nil
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

type parser struct {
	tokens []token
	pos    int
	fields []string
	seen   map[string]struct{}
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokOr {
			return left, nil
		}
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left, right}
	}
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokAnd {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left, right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if tok, ok := p.peek(); ok && tok.kind == tokNot {
		p.pos++
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	}
	switch tok.kind {
	case tokLParen:
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing, ok := p.peek(); !ok || closing.kind != tokRParen {
			return nil, fmt.Errorf("%w: missing )", ErrSyntax)
		}
		p.pos++
		return inner, nil
	case tokIdent:
		p.pos++
		p.use(tok.raw)
		op, ok := p.peek()
		if !ok || op.kind != tokOp {
			return presentNode{field: tok.raw}, nil
		}
		p.pos++
		lit, ok := p.peek()
		if !ok || (lit.kind != tokString && lit.kind != tokNumber) {
			return nil, fmt.Errorf("%w: %s needs a literal on the right", ErrSyntax, op.raw)
		}
		p.pos++
		cmp := compareNode{field: tok.raw, op: op.raw, text: lit.raw}
		if lit.kind == tokNumber {
			cmp.numeric = true
			cmp.number, _ = strconv.ParseFloat(lit.raw, 64)
		} else if op.raw != "==" && op.raw != "!=" {
			return nil, fmt.Errorf("%w: %s needs a number", ErrSyntax, op.raw)
		}
		return cmp, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, tok.raw)
	}
}

func (p *parser) use(field string) {
	if _, ok := p.seen[field]; ok {
		return
	}
	p.seen[field] = struct{}{}
	p.fields = append(p.fields, field)
}
