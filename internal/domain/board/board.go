// Пакет board отвечает за геометрию доски: перевод координат в GTP-нотацию
// и обратно, выбор прямоугольной области для фильтрации ходов.
package board

import (
	"fmt"
	"strconv"

	apperrors "goreview/internal/errors"
)

// Колонки в GTP-нотации, буква I зарезервирована и пропускается.
const Columns = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

// Pass — не координата, в геометрических операциях не участвует.
const Pass = "pass"

// Coord — пара (строка, колонка), индексация с нуля.
// Строка 0 — нижний край доски, в нотации она записывается как 1.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Board struct {
	XSize int
	YSize int
}

func New(xSize, ySize int) (Board, error) {
	if xSize < 1 || ySize < 1 || xSize > len(Columns) || ySize > len(Columns) {
		return Board{}, fmt.Errorf("%w: board size %dx%d", apperrors.ErrConfiguration, xSize, ySize)
	}
	return Board{XSize: xSize, YSize: ySize}, nil
}

func (b Board) contains(c Coord) bool {
	return c.Row >= 0 && c.Row < b.YSize && c.Col >= 0 && c.Col < b.XSize
}

// ToGTP переводит координату в нотацию, например {3, 2} -> "C4".
func (b Board) ToGTP(c Coord) (string, error) {
	if !b.contains(c) {
		return "", fmt.Errorf("%w: (%d,%d) on %dx%d", apperrors.ErrGeometry, c.Row, c.Col, b.XSize, b.YSize)
	}
	return string(Columns[c.Col]) + strconv.Itoa(c.Row+1), nil
}

// FromGTP переводит нотацию в координату. "pass" не принимает.
func (b Board) FromGTP(pos string) (Coord, error) {
	if len(pos) < 2 {
		return Coord{}, fmt.Errorf("%w: %q", apperrors.ErrGeometry, pos)
	}

	col := -1
	for i := 0; i < len(Columns); i++ {
		if Columns[i] == pos[0] {
			col = i
			break
		}
	}
	if col < 0 {
		return Coord{}, fmt.Errorf("%w: %q", apperrors.ErrGeometry, pos)
	}

	row, err := strconv.Atoi(pos[1:])
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %q", apperrors.ErrGeometry, pos)
	}

	c := Coord{Row: row - 1, Col: col}
	if !b.contains(c) {
		return Coord{}, fmt.Errorf("%w: %q on %dx%d", apperrors.ErrGeometry, pos, b.XSize, b.YSize)
	}
	return c, nil
}

// AreaSelection возвращает все координаты прямоугольника между двумя углами
// включительно, в нотации, построчно по возрастанию. Порядок углов не важен:
// для любой пары диагональных углов результат одинаковый.
func (b Board) AreaSelection(c1, c2 Coord) ([]string, error) {
	if !b.contains(c1) {
		return nil, fmt.Errorf("%w: corner (%d,%d)", apperrors.ErrGeometry, c1.Row, c1.Col)
	}
	if !b.contains(c2) {
		return nil, fmt.Errorf("%w: corner (%d,%d)", apperrors.ErrGeometry, c2.Row, c2.Col)
	}

	rowLo, rowHi := c1.Row, c2.Row
	if rowLo > rowHi {
		rowLo, rowHi = rowHi, rowLo
	}
	colLo, colHi := c1.Col, c2.Col
	if colLo > colHi {
		colLo, colHi = colHi, colLo
	}

	selection := make([]string, 0, (rowHi-rowLo+1)*(colHi-colLo+1))
	for row := rowLo; row <= rowHi; row++ {
		for col := colLo; col <= colHi; col++ {
			pos, err := b.ToGTP(Coord{Row: row, Col: col})
			if err != nil {
				return nil, err
			}
			selection = append(selection, pos)
		}
	}
	return selection, nil
}
