// Пакет sgf хранит дерево записи партии и разворачивает выбранную линию
// в последовательность ходов для анализа.
package sgf

import (
	"fmt"
	"strconv"
	"strings"

	"goreview/internal/domain/board"
	apperrors "goreview/internal/errors"
)

// Tree — дерево узлов одной партии. Узлы лежат в общем массиве,
// родитель и дети адресуются индексами. Индекс 0 — корень.
type Tree struct {
	nodes []node

	xSize int
	ySize int
	komi  float64
	rules string
}

type node struct {
	parent   int
	children []int
	props    map[string][]string
}

func (t *Tree) Size() (x, y int) { return t.xSize, t.ySize }

func (t *Tree) Komi() float64 { return t.komi }

func (t *Tree) Rules() string { return t.rules }

// InitialStones возвращает расставленные до начала партии камни (AB/AW)
// в виде пар [цвет, GTP-позиция].
func (t *Tree) InitialStones() ([][2]string, error) {
	stones := make([][2]string, 0)
	root := t.nodes[0]
	for _, val := range root.props["AB"] {
		pos, err := t.sgfToGTP(val)
		if err != nil {
			return nil, err
		}
		stones = append(stones, [2]string{"B", pos})
	}
	for _, val := range root.props["AW"] {
		pos, err := t.sgfToGTP(val)
		if err != nil {
			return nil, err
		}
		stones = append(stones, [2]string{"W", pos})
	}
	return stones, nil
}

// MoveSequence разворачивает одну линию партии от корня до листа.
// Без аргументов идёт по главной линии (первый ребёнок в каждой развилке).
// picks задают номер варианта для каждой развилки по порядку обхода;
// несуществующий номер — ошибка, отката на главную линию нет.
func (t *Tree) MoveSequence(picks ...int) ([][2]string, error) {
	moves := make([][2]string, 0, len(t.nodes))

	cur := 0
	branch := 0
	pickIdx := 0
	for {
		n := t.nodes[cur]

		for _, color := range []string{"B", "W"} {
			if vals, ok := n.props[color]; ok && len(vals) > 0 {
				pos, err := t.sgfToGTP(vals[0])
				if err != nil {
					return nil, err
				}
				moves = append(moves, [2]string{color, pos})
			}
		}

		if len(n.children) == 0 {
			return moves, nil
		}

		next := 0
		if len(n.children) > 1 {
			if pickIdx < len(picks) {
				next = picks[pickIdx]
				pickIdx++
			}
			if next < 0 || next >= len(n.children) {
				return nil, fmt.Errorf("%w: variation %d at branch %d, node has %d children",
					apperrors.ErrNotFound, next, branch, len(n.children))
			}
			branch++
		}
		cur = n.children[next]
	}
}

// sgfToGTP переводит SGF-пару букв в GTP-нотацию. Пустое значение — пас,
// "tt" тоже пас на досках до 19x19 включительно.
func (t *Tree) sgfToGTP(val string) (string, error) {
	if val == "" {
		return board.Pass, nil
	}
	if val == "tt" && t.xSize <= 19 && t.ySize <= 19 {
		return board.Pass, nil
	}
	if len(val) != 2 || val[0] < 'a' || val[0] > 'z' || val[1] < 'a' || val[1] > 'z' {
		return "", fmt.Errorf("%w: bad move token %q", apperrors.ErrParse, val)
	}

	col := int(val[0] - 'a')
	rowFromTop := int(val[1] - 'a')
	if col >= t.xSize || rowFromTop >= t.ySize {
		return "", fmt.Errorf("%w: move %q is outside a %dx%d board", apperrors.ErrParse, val, t.xSize, t.ySize)
	}

	b, err := board.New(t.xSize, t.ySize)
	if err != nil {
		return "", err
	}
	pos, err := b.ToGTP(board.Coord{Row: t.ySize - 1 - rowFromTop, Col: col})
	if err != nil {
		return "", fmt.Errorf("%w: move %q", apperrors.ErrParse, val)
	}
	return pos, nil
}

// setup читает параметры партии из корневого узла, недостающие заменяет
// значениями по умолчанию.
func (t *Tree) setup() error {
	root := t.nodes[0]

	t.xSize, t.ySize = 19, 19
	if vals, ok := root.props["SZ"]; ok && len(vals) > 0 {
		x, y, err := parseSize(vals[0])
		if err != nil {
			return err
		}
		t.xSize, t.ySize = x, y
	}

	t.komi = 6.5
	if vals, ok := root.props["KM"]; ok && len(vals) > 0 {
		komi, err := strconv.ParseFloat(vals[0], 64)
		if err != nil {
			return fmt.Errorf("%w: bad komi %q", apperrors.ErrParse, vals[0])
		}
		t.komi = komi
	}

	t.rules = "japanese"
	if vals, ok := root.props["RU"]; ok && len(vals) > 0 {
		t.rules = strings.ToLower(vals[0])
	}

	if _, err := board.New(t.xSize, t.ySize); err != nil {
		return fmt.Errorf("%w: board size %dx%d", apperrors.ErrParse, t.xSize, t.ySize)
	}
	return nil
}

func parseSize(val string) (int, int, error) {
	// SZ[19] либо SZ[19:13] для прямоугольных досок
	xs, ys, found := strings.Cut(val, ":")
	if !found {
		ys = xs
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad board size %q", apperrors.ErrParse, val)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad board size %q", apperrors.ErrParse, val)
	}
	return x, y, nil
}
