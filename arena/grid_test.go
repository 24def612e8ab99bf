package arena

import (
	"errors"
	"testing"
)

func TestGrid_SetObstacleDropsItem(t *testing.T) {
	g := New(5, 5)
	if !g.SetItem(2, 2, ItemSpiderBomb) {
		t.Fatal("item rejected on empty cell")
	}
	g.SetObstacle(2, 2, Brick)
	if c := g.Cell(2, 2); c.Item != ItemNone {
		t.Fatalf("item survived wall placement: %+v", c)
	}
	if g.SetItem(2, 2, ItemSpiderBomb) {
		t.Fatal("item accepted on a brick")
	}
}

func TestGrid_OutOfBoundsPanics(t *testing.T) {
	g := New(5, 5)
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("expected ErrOutOfBounds panic, got %v", r)
		}
	}()
	g.Cell(5, 0)
}

func TestGrid_String(t *testing.T) {
	g := New(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if g.IsBorder(x, y) {
				g.SetObstacle(x, y, Concrete)
			}
		}
	}
	g.SetObstacle(2, 2, Brick)
	g.SetItem(1, 3, ItemSpiderBomb)

	want := "#####\n#...#\n#.+.#\n#*..#\n#####\n"
	if got := g.String(); got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
	if g.InteriorCells() != 9 {
		t.Fatalf("interior = %d", g.InteriorCells())
	}
}

func TestParseItem(t *testing.T) {
	k, err := ParseItem("SPIDER_BOMB")
	if err != nil || k != ItemSpiderBomb {
		t.Fatalf("got %v, %v", k, err)
	}
	if _, err := ParseItem("CAKE"); err == nil {
		t.Fatal("expected error for unknown item")
	}
}
