package query

import "fmt"

type parser struct {
	lex *lexer
	cur token
}

// Parse compiles query text (§4.3.1's concrete syntax) into a
// Document. Syntax errors are wrapped in ErrSyntax; they are always
// static (§4.3.3) — Parse never partially succeeds.
func Parse(src string) (*Document, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	sels, err := p.selectionList()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("%w: trailing content after query at %d", ErrSyntax, p.cur.pos)
	}
	return &Document{Root: sels}, nil
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) expect(k tokenKind) error {
	if p.cur.kind != k {
		return fmt.Errorf("%w: unexpected token at %d", ErrSyntax, p.cur.pos)
	}
	return p.advance()
}

// selectionList parses one or more Selections until a closing '}' is
// seen (the caller consumes the brace itself).
func (p *parser) selectionList() ([]*Selection, error) {
	var out []*Selection
	for p.cur.kind != tokRBrace {
		sel, err := p.selection()
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty selection set", ErrSyntax)
	}
	return out, nil
}

func (p *parser) selection() (*Selection, error) {
	if p.cur.kind == tokEllipsis {
		return p.typeCondition()
	}
	return p.field()
}

func (p *parser) typeCondition() (*Selection, error) {
	if err := p.advance(); err != nil { // consume '...'
		return nil, err
	}
	if p.cur.kind != tokIdent || p.cur.text != "on" {
		return nil, fmt.Errorf("%w: expected 'on' after '...' at %d", ErrSyntax, p.cur.pos)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.kind != tokIdent {
		return nil, fmt.Errorf("%w: expected type name at %d", ErrSyntax, p.cur.pos)
	}
	typeName := p.cur.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	children, err := p.selectionList()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return &Selection{TypeCondition: typeName, Children: children}, nil
}

func (p *parser) field() (*Selection, error) {
	if p.cur.kind != tokIdent {
		return nil, fmt.Errorf("%w: expected field name at %d", ErrSyntax, p.cur.pos)
	}
	name := p.cur.text
	if err := p.advance(); err != nil {
		return nil, err
	}

	var directives []Directive
	for p.cur.kind == tokAt {
		d, err := p.directive()
		if err != nil {
			return nil, err
		}
		directives = append(directives, *d)
	}

	var children []*Selection
	if p.cur.kind == tokLBrace {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var err error
		children, err = p.selectionList()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRBrace); err != nil {
			return nil, err
		}
	}

	return &Selection{Name: name, Directives: directives, Children: children}, nil
}

func (p *parser) directive() (*Directive, error) {
	if err := p.advance(); err != nil { // consume '@'
		return nil, err
	}
	if p.cur.kind != tokIdent {
		return nil, fmt.Errorf("%w: expected directive name at %d", ErrSyntax, p.cur.pos)
	}
	name := p.cur.text
	if err := p.advance(); err != nil {
		return nil, err
	}

	args := map[string]Value{}
	if p.cur.kind == tokLParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		for p.cur.kind != tokRParen {
			argName, v, err := p.arg()
			if err != nil {
				return nil, err
			}
			args[argName] = v
			if p.cur.kind == tokComma {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
	}

	return &Directive{Name: name, Args: args}, nil
}

func (p *parser) arg() (string, Value, error) {
	if p.cur.kind != tokIdent {
		return "", Value{}, fmt.Errorf("%w: expected argument name at %d", ErrSyntax, p.cur.pos)
	}
	name := p.cur.text
	if err := p.advance(); err != nil {
		return "", Value{}, err
	}
	if err := p.expect(tokColon); err != nil {
		return "", Value{}, err
	}
	v, err := p.value()
	if err != nil {
		return "", Value{}, err
	}
	return name, v, nil
}

func (p *parser) value() (Value, error) {
	switch p.cur.kind {
	case tokString:
		s := p.cur.text
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		// A quoted "$name" or "%name" is an argument or tag reference,
		// the same as the bare $name / %name forms below.
		if len(s) > 1 && s[0] == '$' {
			return Value{Kind: KindVarRef, Ref: s[1:]}, nil
		}
		if len(s) > 1 && s[0] == '%' {
			return Value{Kind: KindTagRef, Ref: s[1:]}, nil
		}
		return Value{Kind: KindString, Str: s}, nil
	case tokInt:
		n := p.cur.num
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: KindInt, Int: n}, nil
	case tokIdent:
		if p.cur.text == "true" || p.cur.text == "false" {
			b := p.cur.text == "true"
			if err := p.advance(); err != nil {
				return Value{}, err
			}
			return Value{Kind: KindBool, Bool: b}, nil
		}
		return Value{}, fmt.Errorf("%w: unexpected identifier %q at %d", ErrSyntax, p.cur.text, p.cur.pos)
	case tokDollar:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		if p.cur.kind != tokIdent {
			return Value{}, fmt.Errorf("%w: expected argument name after '$' at %d", ErrSyntax, p.cur.pos)
		}
		ref := p.cur.text
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: KindVarRef, Ref: ref}, nil
	case tokPercent:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		if p.cur.kind != tokIdent {
			return Value{}, fmt.Errorf("%w: expected tag name after '%%' at %d", ErrSyntax, p.cur.pos)
		}
		ref := p.cur.text
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: KindTagRef, Ref: ref}, nil
	case tokLBracket:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		var items []Value
		for p.cur.kind != tokRBracket {
			v, err := p.value()
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
			if p.cur.kind == tokComma {
				if err := p.advance(); err != nil {
					return Value{}, err
				}
				continue
			}
			break
		}
		if err := p.expect(tokRBracket); err != nil {
			return Value{}, err
		}
		return Value{Kind: KindList, List: items}, nil
	default:
		return Value{}, fmt.Errorf("%w: unexpected token in value position at %d", ErrSyntax, p.cur.pos)
	}
}
