package board

import (
	"errors"
	"reflect"
	"testing"

	apperrors "goreview/internal/errors"
)

func mustBoard(t *testing.T, x, y int) Board {
	t.Helper()
	b, err := New(x, y)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", x, y, err)
	}
	return b
}

func TestNewRejectsBadSize(t *testing.T) {
	for _, size := range [][2]int{{0, 9}, {9, 0}, {-1, 9}, {26, 26}} {
		_, err := New(size[0], size[1])
		if !errors.Is(err, apperrors.ErrConfiguration) {
			t.Errorf("New(%d, %d): ожидалась ErrConfiguration, получено %v", size[0], size[1], err)
		}
	}
}

func TestToGTPKnownValues(t *testing.T) {
	b := mustBoard(t, 19, 19)

	cases := []struct {
		coord Coord
		want  string
	}{
		{Coord{Row: 0, Col: 0}, "A1"},
		{Coord{Row: 3, Col: 2}, "C4"},
		{Coord{Row: 0, Col: 8}, "J1"}, // буква I пропускается
		{Coord{Row: 18, Col: 18}, "T19"},
	}
	for _, c := range cases {
		got, err := b.ToGTP(c.coord)
		if err != nil {
			t.Fatalf("ToGTP(%v): %v", c.coord, err)
		}
		if got != c.want {
			t.Errorf("ToGTP(%v) = %q, ожидалось %q", c.coord, got, c.want)
		}
	}
}

// Перевод в нотацию и обратно должен быть взаимно обратным на всех
// координатах доски.
func TestGTPRoundTrip(t *testing.T) {
	b := mustBoard(t, 19, 19)

	for row := 0; row < 19; row++ {
		for col := 0; col < 19; col++ {
			c := Coord{Row: row, Col: col}
			pos, err := b.ToGTP(c)
			if err != nil {
				t.Fatalf("ToGTP(%v): %v", c, err)
			}
			back, err := b.FromGTP(pos)
			if err != nil {
				t.Fatalf("FromGTP(%q): %v", pos, err)
			}
			if back != c {
				t.Fatalf("round trip %v -> %q -> %v", c, pos, back)
			}
		}
	}
}

func TestFromGTPRejectsBadInput(t *testing.T) {
	b := mustBoard(t, 19, 19)

	for _, pos := range []string{"", "D", "I5", "A0", "Z9", "T20", "pass", "??"} {
		if _, err := b.FromGTP(pos); !errors.Is(err, apperrors.ErrGeometry) {
			t.Errorf("FromGTP(%q): ожидалась ErrGeometry, получено %v", pos, err)
		}
	}
}

func TestToGTPRejectsOutOfRange(t *testing.T) {
	b := mustBoard(t, 9, 9)

	for _, c := range []Coord{{Row: -1, Col: 0}, {Row: 0, Col: 9}, {Row: 9, Col: 0}} {
		if _, err := b.ToGTP(c); !errors.Is(err, apperrors.ErrGeometry) {
			t.Errorf("ToGTP(%v): ожидалась ErrGeometry, получено %v", c, err)
		}
	}
}

// Блок 3x3 из угла доски 9x9, построчно по возрастанию.
func TestAreaSelectionBlock(t *testing.T) {
	b := mustBoard(t, 9, 9)

	got, err := b.AreaSelection(Coord{Row: 0, Col: 0}, Coord{Row: 2, Col: 2})
	if err != nil {
		t.Fatalf("AreaSelection: %v", err)
	}

	want := []string{"A1", "B1", "C1", "A2", "B2", "C2", "A3", "B3", "C3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AreaSelection = %v, ожидалось %v", got, want)
	}
}

// Результат не зависит от того, какая пара диагональных углов задана.
func TestAreaSelectionCornerOrder(t *testing.T) {
	b := mustBoard(t, 19, 19)

	corners := [][2]Coord{
		{{Row: 1, Col: 2}, {Row: 3, Col: 5}},
		{{Row: 3, Col: 5}, {Row: 1, Col: 2}},
		{{Row: 1, Col: 5}, {Row: 3, Col: 2}},
		{{Row: 3, Col: 2}, {Row: 1, Col: 5}},
	}

	base, err := b.AreaSelection(corners[0][0], corners[0][1])
	if err != nil {
		t.Fatalf("AreaSelection: %v", err)
	}
	if len(base) != 3*4 {
		t.Fatalf("ожидалось 12 позиций, получено %d", len(base))
	}

	for _, pair := range corners[1:] {
		got, err := b.AreaSelection(pair[0], pair[1])
		if err != nil {
			t.Fatalf("AreaSelection(%v, %v): %v", pair[0], pair[1], err)
		}
		if !reflect.DeepEqual(got, base) {
			t.Errorf("AreaSelection(%v, %v) = %v, ожидалось %v", pair[0], pair[1], got, base)
		}
	}
}

func TestAreaSelectionRejectsOutsideCorner(t *testing.T) {
	b := mustBoard(t, 9, 9)

	_, err := b.AreaSelection(Coord{Row: 0, Col: 0}, Coord{Row: 9, Col: 2})
	if !errors.Is(err, apperrors.ErrGeometry) {
		t.Errorf("ожидалась ErrGeometry, получено %v", err)
	}
}
