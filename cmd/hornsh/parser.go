package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/hornlog/horn/engine"
)

// errIncomplete reports a clause or query cut short by end of input.
// The shell buffers more lines instead of failing.
var errIncomplete = errors.New("incomplete input")

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenAtom
	tokenVariable
	tokenInt
	tokenFloat
	tokenString
	tokenPunct
)

type token struct {
	kind tokenKind
	text string
}

func (t token) String() string {
	if t.kind == tokenEOF {
		return "end of input"
	}
	return strconv.Quote(t.text)
}

type lexer struct {
	src []rune
	pos int
}

var twoRunePuncts = []string{":-", "\\+", "**", "//", "<<", ">>"}

func (lx *lexer) next() (token, error) {
	lx.skipSpace()
	if lx.pos >= len(lx.src) {
		return token{kind: tokenEOF}, nil
	}

	r := lx.src[lx.pos]
	switch {
	case unicode.IsDigit(r):
		return lx.number(), nil
	case unicode.IsLower(r):
		return token{kind: tokenAtom, text: lx.ident()}, nil
	case unicode.IsUpper(r) || r == '_':
		return token{kind: tokenVariable, text: lx.ident()}, nil
	case r == '"':
		return lx.str()
	case r == '\'':
		t, err := lx.str()
		if err != nil {
			return t, err
		}
		return token{kind: tokenAtom, text: t.text}, nil
	}

	for _, p := range twoRunePuncts {
		if strings.HasPrefix(string(lx.src[lx.pos:]), p) {
			lx.pos += len(p)
			return token{kind: tokenPunct, text: p}, nil
		}
	}
	if strings.ContainsRune("()[],|.;!+-*/%&^~<>=", r) {
		lx.pos++
		return token{kind: tokenPunct, text: string(r)}, nil
	}
	return token{}, fmt.Errorf("unexpected character %q", r)
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.src) {
		r := lx.src[lx.pos]
		if r == '%' {
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
			continue
		}
		if !unicode.IsSpace(r) {
			return
		}
		lx.pos++
	}
}

func (lx *lexer) ident() string {
	start := lx.pos
	for lx.pos < len(lx.src) {
		r := lx.src[lx.pos]
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		lx.pos++
	}
	return string(lx.src[start:lx.pos])
}

// number lexes an integer, or a float when a dot is followed by a
// digit. A trailing dot stays in the stream as the clause terminator.
func (lx *lexer) number() token {
	start := lx.pos
	for lx.pos < len(lx.src) && unicode.IsDigit(lx.src[lx.pos]) {
		lx.pos++
	}
	if lx.pos+1 < len(lx.src) && lx.src[lx.pos] == '.' && unicode.IsDigit(lx.src[lx.pos+1]) {
		lx.pos++
		for lx.pos < len(lx.src) && unicode.IsDigit(lx.src[lx.pos]) {
			lx.pos++
		}
		return token{kind: tokenFloat, text: string(lx.src[start:lx.pos])}
	}
	return token{kind: tokenInt, text: string(lx.src[start:lx.pos])}
}

func (lx *lexer) str() (token, error) {
	quote := lx.src[lx.pos]
	lx.pos++
	var sb strings.Builder
	for lx.pos < len(lx.src) {
		r := lx.src[lx.pos]
		lx.pos++
		switch r {
		case quote:
			return token{kind: tokenString, text: sb.String()}, nil
		case '\\':
			if lx.pos >= len(lx.src) {
				return token{}, errIncomplete
			}
			e := lx.src[lx.pos]
			lx.pos++
			switch e {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune(e)
			}
		default:
			sb.WriteRune(r)
		}
	}
	return token{}, errIncomplete
}

type parser struct {
	lx   lexer
	tok  token
	vars map[string]engine.Variable
}

func newParser(src string) (*parser, error) {
	p := &parser{lx: lexer{src: []rune(src)}, vars: map[string]engine.Variable{}}
	return p, p.advance()
}

func (p *parser) advance() error {
	t, err := p.lx.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) punct(text string) bool {
	return p.tok.kind == tokenPunct && p.tok.text == text
}

func (p *parser) accept(text string) (bool, error) {
	if !p.punct(text) {
		return false, nil
	}
	return true, p.advance()
}

func (p *parser) expect(text string) error {
	if p.tok.kind == tokenEOF {
		return errIncomplete
	}
	if !p.punct(text) {
		return fmt.Errorf("expected %q, found %s", text, p.tok)
	}
	return p.advance()
}

// parseProgram parses a sequence of dot-terminated clauses.
func parseProgram(src string) ([]engine.Term, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	var clauses []engine.Term
	for p.tok.kind != tokenEOF {
		// Clause variable scope is one clause wide.
		p.vars = map[string]engine.Variable{}
		c, err := p.clause()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}
	return clauses, nil
}

// parseQuery parses one query: a goal body with an optional closing
// dot.
func parseQuery(src string) (engine.Term, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokenEOF {
		return nil, errIncomplete
	}
	g, err := p.body()
	if err != nil {
		return nil, err
	}
	if ok, err := p.accept("."); err != nil {
		return nil, err
	} else if !ok && p.tok.kind != tokenEOF {
		return nil, fmt.Errorf("expected %q, found %s", ".", p.tok)
	}
	if p.tok.kind != tokenEOF {
		return nil, fmt.Errorf("trailing input after %q", ".")
	}
	return g, nil
}

func (p *parser) clause() (engine.Term, error) {
	head, err := p.expr(1)
	if err != nil {
		return nil, err
	}
	if ok, err := p.accept(":-"); err != nil {
		return nil, err
	} else if ok {
		body, err := p.body()
		if err != nil {
			return nil, err
		}
		if err := p.expect("."); err != nil {
			return nil, err
		}
		return &engine.Rule{Head: head, Body: body}, nil
	}
	if err := p.expect("."); err != nil {
		return nil, err
	}
	return head, nil
}

// body parses disjunctions of conjunctions of goals.
func (p *parser) body() (engine.Term, error) {
	g, err := p.conjunction()
	if err != nil {
		return nil, err
	}
	goals := []engine.Term{g}
	for {
		ok, err := p.accept(";")
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		g, err := p.conjunction()
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if len(goals) == 1 {
		return goals[0], nil
	}
	return &engine.Disjunction{Goals: goals}, nil
}

func (p *parser) conjunction() (engine.Term, error) {
	g, err := p.goal()
	if err != nil {
		return nil, err
	}
	goals := []engine.Term{g}
	for {
		ok, err := p.accept(",")
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		g, err := p.goal()
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if len(goals) == 1 {
		return goals[0], nil
	}
	return &engine.Conjunction{Goals: goals}, nil
}

func (p *parser) goal() (engine.Term, error) {
	if ok, err := p.accept("\\+"); err != nil {
		return nil, err
	} else if ok {
		g, err := p.goal()
		if err != nil {
			return nil, err
		}
		return &engine.Negation{Goal: g}, nil
	}
	if ok, err := p.accept("!"); err != nil {
		return nil, err
	} else if ok {
		return engine.Atom("!"), nil
	}
	if ok, err := p.accept("("); err != nil {
		return nil, err
	} else if ok {
		g, err := p.body()
		if err != nil {
			return nil, err
		}
		return g, p.expect(")")
	}
	return p.expr(1)
}

var binaryOps = map[string]struct {
	kind  engine.OpKind
	prec  int
	right bool
}{
	"+":  {kind: engine.OpAdd, prec: 1},
	"-":  {kind: engine.OpSub, prec: 1},
	"*":  {kind: engine.OpMul, prec: 2},
	"/":  {kind: engine.OpDiv, prec: 2},
	"//": {kind: engine.OpFloorDiv, prec: 2},
	"%":  {kind: engine.OpMod, prec: 2},
	"**": {kind: engine.OpPow, prec: 3, right: true},
}

// expr parses arithmetic expressions by precedence climbing.
func (p *parser) expr(minPrec int) (engine.Term, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokenPunct {
		op, ok := binaryOps[p.tok.text]
		if !ok || op.prec < minPrec {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		next := op.prec + 1
		if op.right {
			next = op.prec
		}
		right, err := p.expr(next)
		if err != nil {
			return nil, err
		}
		left = &engine.Binary{Kind: op.kind, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) unary() (engine.Term, error) {
	if ok, err := p.accept("-"); err != nil {
		return nil, err
	} else if ok {
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		if n, ok := operand.(engine.Integer); ok {
			return -n, nil
		}
		return &engine.Unary{Kind: engine.OpNeg, Operand: operand}, nil
	}
	return p.primary()
}

func (p *parser) primary() (engine.Term, error) {
	tok := p.tok
	switch tok.kind {
	case tokenEOF:
		return nil, errIncomplete
	case tokenInt:
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			// Out of machine range: keep the digits exactly.
			d, err := engine.NewDecimal(tok.text)
			if err != nil {
				return nil, err
			}
			return d, nil
		}
		return engine.Integer(n), nil
	case tokenFloat:
		if err := p.advance(); err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, err
		}
		return engine.Float(f), nil
	case tokenString:
		return engine.Str(tok.text), p.advance()
	case tokenVariable:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if tok.text == "_" {
			return engine.Wildcard{}, nil
		}
		v, ok := p.vars[tok.text]
		if !ok {
			v = engine.NewVariable(tok.text)
			p.vars[tok.text] = v
		}
		return v, nil
	case tokenAtom:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.atomOrCompound(engine.Atom(tok.text))
	}

	if ok, err := p.accept("["); err != nil {
		return nil, err
	} else if ok {
		return p.list()
	}
	if ok, err := p.accept("("); err != nil {
		return nil, err
	} else if ok {
		t, err := p.expr(1)
		if err != nil {
			return nil, err
		}
		return t, p.expect(")")
	}
	return nil, fmt.Errorf("unexpected %s", tok)
}

func (p *parser) atomOrCompound(functor engine.Atom) (engine.Term, error) {
	if ok, err := p.accept("("); err != nil {
		return nil, err
	} else if !ok {
		return functor, nil
	}
	var args []engine.Term
	for {
		a, err := p.expr(1)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if ok, err := p.accept(","); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	return functor.Apply(args...), p.expect(")")
}

func (p *parser) list() (engine.Term, error) {
	if ok, err := p.accept("]"); err != nil {
		return nil, err
	} else if ok {
		return engine.Empty{}, nil
	}
	var elems []engine.Term
	for {
		e, err := p.expr(1)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if ok, err := p.accept(","); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	var rest engine.Term = engine.Empty{}
	if ok, err := p.accept("|"); err != nil {
		return nil, err
	} else if ok {
		t, err := p.expr(1)
		if err != nil {
			return nil, err
		}
		rest = t
	}
	return engine.PartialList(rest, elems...), p.expect("]")
}
