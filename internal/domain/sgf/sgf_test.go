package sgf

import (
	"errors"
	"reflect"
	"testing"

	apperrors "goreview/internal/errors"
)

func TestParseGameInfo(t *testing.T) {
	tree, err := Parse("(;FF[4]GM[1]SZ[19]KM[6.5]RU[Chinese]AB[pd][dp];B[qq];W[dd])")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	x, y := tree.Size()
	if x != 19 || y != 19 {
		t.Errorf("Size = %dx%d, ожидалось 19x19", x, y)
	}
	if tree.Komi() != 6.5 {
		t.Errorf("Komi = %v, ожидалось 6.5", tree.Komi())
	}
	if tree.Rules() != "chinese" {
		t.Errorf("Rules = %q, ожидалось chinese", tree.Rules())
	}

	stones, err := tree.InitialStones()
	if err != nil {
		t.Fatalf("InitialStones: %v", err)
	}
	wantStones := [][2]string{{"B", "Q16"}, {"B", "D4"}}
	if !reflect.DeepEqual(stones, wantStones) {
		t.Errorf("InitialStones = %v, ожидалось %v", stones, wantStones)
	}

	moves, err := tree.MoveSequence()
	if err != nil {
		t.Fatalf("MoveSequence: %v", err)
	}
	wantMoves := [][2]string{{"B", "R3"}, {"W", "D16"}}
	if !reflect.DeepEqual(moves, wantMoves) {
		t.Errorf("MoveSequence = %v, ожидалось %v", moves, wantMoves)
	}
}

func TestParseDefaults(t *testing.T) {
	tree, err := Parse("(;B[aa])")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	x, y := tree.Size()
	if x != 19 || y != 19 {
		t.Errorf("Size = %dx%d, ожидалось 19x19", x, y)
	}
	if tree.Komi() != 6.5 {
		t.Errorf("Komi = %v, ожидалось 6.5", tree.Komi())
	}
	if tree.Rules() != "japanese" {
		t.Errorf("Rules = %q, ожидалось japanese", tree.Rules())
	}
}

func TestMoveSequenceVariations(t *testing.T) {
	tree, err := Parse("(;SZ[9];B[aa](;W[bb];B[cc])(;W[cc]))")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// Главная линия — первый вариант в каждой развилке
	main, err := tree.MoveSequence()
	if err != nil {
		t.Fatalf("MoveSequence: %v", err)
	}
	wantMain := [][2]string{{"B", "A9"}, {"W", "B8"}, {"B", "C7"}}
	if !reflect.DeepEqual(main, wantMain) {
		t.Errorf("MoveSequence() = %v, ожидалось %v", main, wantMain)
	}

	alt, err := tree.MoveSequence(1)
	if err != nil {
		t.Fatalf("MoveSequence(1): %v", err)
	}
	wantAlt := [][2]string{{"B", "A9"}, {"W", "C7"}}
	if !reflect.DeepEqual(alt, wantAlt) {
		t.Errorf("MoveSequence(1) = %v, ожидалось %v", alt, wantAlt)
	}

	// Несуществующий вариант — ошибка, а не откат на главную линию
	if _, err := tree.MoveSequence(2); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("MoveSequence(2): ожидалась ErrNotFound, получено %v", err)
	}
}

func TestParsePass(t *testing.T) {
	tree, err := Parse("(;SZ[19];B[dd];W[];B[tt])")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	moves, err := tree.MoveSequence()
	if err != nil {
		t.Fatalf("MoveSequence: %v", err)
	}
	want := [][2]string{{"B", "D16"}, {"W", "pass"}, {"B", "pass"}}
	if !reflect.DeepEqual(moves, want) {
		t.Errorf("MoveSequence = %v, ожидалось %v", moves, want)
	}
}

func TestParseEscapedValue(t *testing.T) {
	tree, err := Parse("(;SZ[9]C[скобка \\] внутри];B[aa])")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	moves, err := tree.MoveSequence()
	if err != nil {
		t.Fatalf("MoveSequence: %v", err)
	}
	if len(moves) != 1 {
		t.Errorf("ожидался 1 ход, получено %d", len(moves))
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"незакрытая скобка", "(;SZ[9];B[aa]"},
		{"нет открывающей скобки", ";B[aa])"},
		{"хвост после дерева", "(;SZ[9])x"},
		{"свойство без значения", "(;SZ[9]AB)"},
		{"плохой токен хода", "(;SZ[9];B[a$])"},
		{"ход за доской", "(;SZ[9];B[jj])"},
		{"незакрытое значение", "(;SZ[9];B[aa"},
		{"пустое дерево", "()"},
		{"кривой размер", "(;SZ[abc];B[aa])"},
	}
	for _, c := range cases {
		if _, err := Parse(c.src); !errors.Is(err, apperrors.ErrParse) {
			t.Errorf("%s: ожидалась ErrParse, получено %v", c.name, err)
		}
	}
}

func TestParseRectangularBoard(t *testing.T) {
	tree, err := Parse("(;SZ[19:13];B[aa])")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	x, y := tree.Size()
	if x != 19 || y != 13 {
		t.Errorf("Size = %dx%d, ожидалось 19x13", x, y)
	}
	moves, err := tree.MoveSequence()
	if err != nil {
		t.Fatalf("MoveSequence: %v", err)
	}
	if moves[0][1] != "A13" {
		t.Errorf("первый ход %q, ожидалось A13", moves[0][1])
	}
}
