package sgf

import (
	"fmt"

	apperrors "goreview/internal/errors"
)

// Parse разбирает SGF-текст в дерево. Вложенные скобки задают варианты,
// каждый вариант прицепляется к последнему узлу объемлющей последовательности.
func Parse(src string) (*Tree, error) {
	p := &parser{src: src}

	p.skipSpace()
	if !p.accept('(') {
		return nil, p.errorf("expected '('")
	}

	t := &Tree{}
	if err := p.parseSequence(t, -1); err != nil {
		return nil, err
	}

	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("trailing data after game tree")
	}
	if len(t.nodes) == 0 {
		return nil, p.errorf("empty game tree")
	}

	if err := t.setup(); err != nil {
		return nil, err
	}

	// Проверяем все ходы заранее, чтобы плохой токен не всплыл
	// только при линеаризации.
	for _, n := range t.nodes {
		for _, color := range []string{"B", "W"} {
			for _, val := range n.props[color] {
				if _, err := t.sgfToGTP(val); err != nil {
					return nil, err
				}
			}
		}
	}

	return t, nil
}

type parser struct {
	src string
	pos int
}

// parseSequence читает последовательность узлов и вложенные варианты
// до закрывающей скобки. parent — узел, к которому цепляется первый
// узел последовательности (-1 для корня).
func (p *parser) parseSequence(t *Tree, parent int) error {
	p.skipSpace()
	if !p.accept(';') {
		return p.errorf("expected ';'")
	}

	last := parent
	for {
		props, err := p.parseNodeProps()
		if err != nil {
			return err
		}

		idx := len(t.nodes)
		t.nodes = append(t.nodes, node{parent: last, props: props})
		if last >= 0 {
			t.nodes[last].children = append(t.nodes[last].children, idx)
		} else if idx != 0 {
			return p.errorf("multiple roots")
		}
		last = idx

		p.skipSpace()
		if p.accept(';') {
			continue
		}
		break
	}

	for {
		p.skipSpace()
		if !p.accept('(') {
			break
		}
		if err := p.parseSequence(t, last); err != nil {
			return err
		}
	}

	p.skipSpace()
	if !p.accept(')') {
		return p.errorf("unbalanced parentheses")
	}
	return nil
}

func (p *parser) parseNodeProps() (map[string][]string, error) {
	props := make(map[string][]string)
	for {
		p.skipSpace()
		ident := p.readIdent()
		if ident == "" {
			return props, nil
		}

		p.skipSpace()
		if !p.accept('[') {
			return nil, p.errorf("property %s without value", ident)
		}
		for {
			val, err := p.readValue()
			if err != nil {
				return nil, err
			}
			props[ident] = append(props[ident], val)

			p.skipSpace()
			if !p.accept('[') {
				break
			}
		}
	}
}

func (p *parser) readIdent() string {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= 'A' && p.src[p.pos] <= 'Z' {
		p.pos++
	}
	return p.src[start:p.pos]
}

// readValue читает значение до ']', '\' экранирует следующий символ.
func (p *parser) readValue() (string, error) {
	var out []byte
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case ']':
			p.pos++
			return string(out), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return "", p.errorf("unterminated escape")
			}
			out = append(out, p.src[p.pos])
			p.pos++
		default:
			out = append(out, c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated property value")
}

func (p *parser) accept(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: %s at offset %d", apperrors.ErrParse, msg, p.pos)
}
