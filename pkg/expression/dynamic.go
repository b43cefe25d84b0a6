// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package expression

import (
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

const (
	blockOpen  = `\G{`
	blockClose = '}'
)

// HasDynamicBlock reports whether a replacement template contains \G{...}
func HasDynamicBlock(tmpl string) bool {
	return strings.Contains(tmpl, blockOpen)
}

// 🧩 Replacer is a compiled template made of literal text and \G{...} blocks.
//
// Blocks are written in a small closed language:
//
//	m(1)                       group 1 (m(0) is the whole match, m('name') a named group)
//	G.group(2)                 same, through the match object
//	snake_to_pascal(m(1))      foo_bar -> FooBar
//	pascal_to_snake(m(1))      FooBar -> foo_bar
//	m(1).upper() + sep + 'x'   methods, string literals, concatenation
//
// sep is "/" when renaming paths and "." when rewriting contents.
type Replacer struct {
	segments []dynSegment
}

type dynSegment struct {
	literal string
	source  string
	eval    node
}

// env is what a block can see while it runs
type env struct {
	match *Match
	sep   string
}

type node func(e *env) (any, error)

// ParseReplacer compiles a template containing dynamic blocks
func ParseReplacer(tmpl string) (*Replacer, error) {
	r := &Replacer{}
	rest := tmpl
	for {
		i := strings.Index(rest, blockOpen)
		if i < 0 {
			if rest != "" {
				r.segments = append(r.segments, dynSegment{literal: rest})
			}
			return r, nil
		}
		if i > 0 {
			r.segments = append(r.segments, dynSegment{literal: rest[:i]})
		}

		body := rest[i+len(blockOpen):]
		j := strings.IndexByte(body, blockClose)
		if j < 0 {
			return nil, errors.Errorf("unterminated %s block", blockOpen)
		}

		src := strings.TrimSpace(body[:j])
		if src == "" {
			return nil, errors.Errorf("empty %s} block", blockOpen)
		}
		n, err := compileBlock(src)
		if err != nil {
			return nil, errors.Errorf("block %q: %w", src, err)
		}
		r.segments = append(r.segments, dynSegment{source: src, eval: n})
		rest = body[j+1:]
	}
}

// Expand renders the template for one match
func (r *Replacer) Expand(m *Match, stage Stage) (string, error) {
	e := &env{match: m, sep: stage.Separator()}

	var b strings.Builder
	for _, seg := range r.segments {
		if seg.eval == nil {
			b.WriteString(seg.literal)
			continue
		}
		v, err := seg.eval(e)
		if err != nil {
			return "", errors.Errorf("%w: \\G{%s}: %s", ErrEvaluation, seg.source, err.Error())
		}
		b.WriteString(toText(v))
	}
	return b.String(), nil
}

// ---- lexer ----

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokString
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lex(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case isIdentStart(c):
			start := i
			for i < len(src) && (isIdentStart(src[i]) || isDigit(src[i])) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		case isDigit(c) || (c == '-' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			i++
			for i < len(src) && isDigit(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokInt, text: src[start:i], pos: start})
		case c == '\'' || c == '"':
			s, n, err := lexString(src[i:])
			if err != nil {
				return nil, errors.Errorf("at %d: %w", i, err)
			}
			toks = append(toks, token{kind: tokString, text: s, pos: i})
			i += n
		case strings.IndexByte("().,+", c) >= 0:
			toks = append(toks, token{kind: tokPunct, text: string(c), pos: i})
			i++
		default:
			return nil, errors.Errorf("unexpected character %q at %d", c, i)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

func lexString(src string) (string, int, error) {
	quote := src[0]
	var b strings.Builder
	for i := 1; i < len(src); i++ {
		c := src[i]
		switch {
		case c == quote:
			return b.String(), i + 1, nil
		case c == '\\' && i+1 < len(src):
			i++
			switch src[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(src[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, errors.New("unterminated string literal")
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ---- parser ----

type parser struct {
	toks []token
	pos  int
}

func compileBlock(src string) (node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, errors.Errorf("unexpected %q at %d", tok.text, tok.pos)
	}
	return n, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) isPunct(s string) bool {
	tok := p.peek()
	return tok.kind == tokPunct && tok.text == s
}

func (p *parser) expect(s string) error {
	if !p.isPunct(s) {
		tok := p.peek()
		if tok.kind == tokEOF {
			return errors.Errorf("expected %q at end of block", s)
		}
		return errors.Errorf("expected %q at %d, got %q", s, tok.pos, tok.text)
	}
	p.next()
	return nil
}

// expr := term ('+' term)*
func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isPunct("+") {
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = concat(left, right)
	}
	return left, nil
}

// term := primary ('.' IDENT '(' args ')')*
func (p *parser) term() (node, error) {
	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.isPunct(".") {
		p.next()
		tok := p.next()
		if tok.kind != tokIdent {
			return nil, errors.Errorf("expected method name at %d", tok.pos)
		}
		if err := p.expect("("); err != nil {
			return nil, err
		}
		args, err := p.args()
		if err != nil {
			return nil, err
		}
		n, err = method(n, tok.text, args)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (p *parser) primary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokString:
		s := tok.text
		return func(*env) (any, error) { return s, nil }, nil
	case tokInt:
		v, err := strconv.Atoi(tok.text)
		if err != nil {
			return nil, errors.Errorf("bad integer %q", tok.text)
		}
		return func(*env) (any, error) { return v, nil }, nil
	case tokIdent:
		if p.isPunct("(") {
			p.next()
			args, err := p.args()
			if err != nil {
				return nil, err
			}
			return call(tok.text, args)
		}
		return ident(tok.text)
	case tokPunct:
		if tok.text == "(" {
			n, err := p.expr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return n, nil
		}
	case tokEOF:
		return nil, errors.New("unexpected end of block")
	}
	return nil, errors.Errorf("unexpected %q at %d", tok.text, tok.pos)
}

// args parses a comma separated list up to and including ')'
func (p *parser) args() ([]node, error) {
	var args []node
	if p.isPunct(")") {
		p.next()
		return args, nil
	}
	for {
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, n)
		if p.isPunct(",") {
			p.next()
			continue
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return args, nil
	}
}

// ---- namespace ----

func ident(name string) (node, error) {
	switch name {
	case "G":
		return func(e *env) (any, error) { return e.match, nil }, nil
	case "sep", "dotslash":
		return func(e *env) (any, error) { return e.sep, nil }, nil
	}
	return nil, errors.Errorf("unknown name %q", name)
}

var textFuncs = map[string]func(string) string{
	"snake_to_pascal":         SnakeToPascal,
	"underscore_to_titlecase": SnakeToPascal,
	"pascal_to_snake":         PascalToSnake,
	"titlecase_to_underscore": PascalToSnake,
	"str":                     func(s string) string { return s },
}

func call(name string, args []node) (node, error) {
	if name == "m" {
		if len(args) != 1 {
			return nil, errors.Errorf("m() takes 1 argument, got %d", len(args))
		}
		arg := args[0]
		return func(e *env) (any, error) {
			v, err := arg(e)
			if err != nil {
				return nil, err
			}
			return group(e.match, v)
		}, nil
	}

	fn, ok := textFuncs[name]
	if !ok {
		return nil, errors.Errorf("unknown function %q", name)
	}
	if len(args) != 1 {
		return nil, errors.Errorf("%s() takes 1 argument, got %d", name, len(args))
	}
	arg := args[0]
	return func(e *env) (any, error) {
		v, err := arg(e)
		if err != nil {
			return nil, err
		}
		return fn(toText(v)), nil
	}, nil
}

var stringMethods = map[string]func(string) string{
	"upper":      strings.ToUpper,
	"lower":      strings.ToLower,
	"title":      titleCase,
	"capitalize": capitalize,
	"strip":      strings.TrimSpace,
	"lstrip":     func(s string) string { return strings.TrimLeft(s, " \t\r\n\v\f") },
	"rstrip":     func(s string) string { return strings.TrimRight(s, " \t\r\n\v\f") },
}

func method(recv node, name string, args []node) (node, error) {
	switch name {
	case "group":
		if len(args) > 1 {
			return nil, errors.Errorf("group() takes at most 1 argument, got %d", len(args))
		}
		return func(e *env) (any, error) {
			v, err := recv(e)
			if err != nil {
				return nil, err
			}
			m, ok := v.(*Match)
			if !ok {
				return nil, errors.Errorf("group() called on %s", typeName(v))
			}
			var idx any = 0
			if len(args) == 1 {
				if idx, err = args[0](e); err != nil {
					return nil, err
				}
			}
			return group(m, idx)
		}, nil
	case "replace":
		if len(args) != 2 {
			return nil, errors.Errorf("replace() takes 2 arguments, got %d", len(args))
		}
		return func(e *env) (any, error) {
			vals, err := evalAll(e, recv, args[0], args[1])
			if err != nil {
				return nil, err
			}
			s, ok := vals[0].(string)
			if !ok {
				return nil, errors.Errorf("replace() called on %s", typeName(vals[0]))
			}
			return strings.ReplaceAll(s, toText(vals[1]), toText(vals[2])), nil
		}, nil
	}

	fn, ok := stringMethods[name]
	if !ok {
		return nil, errors.Errorf("unknown method %q", name)
	}
	if len(args) != 0 {
		return nil, errors.Errorf("%s() takes no arguments", name)
	}
	return func(e *env) (any, error) {
		v, err := recv(e)
		if err != nil {
			return nil, err
		}
		s, ok := v.(string)
		if !ok {
			return nil, errors.Errorf("%s() called on %s", name, typeName(v))
		}
		return fn(s), nil
	}, nil
}

func concat(left, right node) node {
	return func(e *env) (any, error) {
		vals, err := evalAll(e, left, right)
		if err != nil {
			return nil, err
		}
		a, aInt := vals[0].(int)
		b, bInt := vals[1].(int)
		if aInt && bInt {
			return a + b, nil
		}
		return toText(vals[0]) + toText(vals[1]), nil
	}
}

func evalAll(e *env, nodes ...node) ([]any, error) {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		v, err := n(e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func group(m *Match, idx any) (any, error) {
	switch v := idx.(type) {
	case int:
		return m.Group(v)
	case string:
		return m.Named(v)
	}
	return nil, errors.Errorf("group index must be int or string, got %s", typeName(idx))
}

func toText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case *Match:
		return x.Text()
	}
	return ""
}

func typeName(v any) string {
	switch v.(type) {
	case string:
		return "str"
	case int:
		return "int"
	case *Match:
		return "match"
	}
	return "unknown"
}
