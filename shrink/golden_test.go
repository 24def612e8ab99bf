package shrink

import (
	"math/rand"
	"testing"

	"github.com/beka-birhanu/vinom-arena-server/arena"
)

// constSource replays the same 63-bit value forever. With k = value>>32,
// Intn(n) yields k%n (k&1 for Intn(2)) and Float64 yields value/2^63.
type constSource int64

func (s constSource) Int63() int64 { return int64(s) }
func (s constSource) Seed(int64)   {}

// k%100 == 60 and k is even: no irregular cells, no bricks at 50% density, an
// empty spawn, every split taken (0.5 < 0.75) with offset 0.5 - 0.5^3/2.
const goldenValue = constSource(1073741860 << 32)

type batchRecorder struct{ batches [][]Event }

func (b *batchRecorder) Broadcast(events []Event) {
	b.batches = append(b.batches, events)
}

func TestGolden_SevenBySevenBinary(t *testing.T) {
	rng := rand.New(goldenValue)

	grid, err := arena.NewGenerator(rng).Generate(7, 7, 50)
	if err != nil {
		t.Fatal(err)
	}
	wantGrid := "" +
		"#######\n" +
		"#.....#\n" +
		"#.#.#.#\n" +
		"#.....#\n" +
		"#.#.#.#\n" +
		"#.....#\n" +
		"#######\n"
	if grid.String() != wantGrid {
		t.Fatalf("arena:\n%s\nwant:\n%s", grid, wantGrid)
	}

	perf, err := New(StrategyBinary, grid.Width(), grid.Height(), rng, DefaultTuning())
	if err != nil {
		t.Fatal(err)
	}
	rec := &batchRecorder{}
	sched := NewScheduler(perf, rec)
	for step := int64(0); step <= 3; step++ {
		sched.Tick(step * 5000)
	}

	want := [][]WallAdd{
		{{3, 1}, {3, 2}, {3, 3}, {3, 4}, {3, 5}},
		{{1, 3}, {2, 3}, {4, 3}, {5, 3}},
		{{1, 1}, {1, 2}, {1, 4}, {1, 5}, {4, 1}, {4, 2}, {4, 4}, {4, 5}},
	}
	if len(rec.batches) != len(want) {
		t.Fatalf("got %d batches, want %d", len(rec.batches), len(want))
	}
	sealed := 0
	for i, batch := range rec.batches {
		if len(batch) != len(want[i]) {
			t.Fatalf("batch %d: got %v, want %v", i, batch, want[i])
		}
		for j, e := range batch {
			if e != Event(want[i][j]) {
				t.Fatalf("batch %d event %d: got %+v, want %+v", i, j, e, want[i][j])
			}
		}
		sealed += len(batch)
	}

	b := perf.(*Binary)
	open := 0
	for _, a := range b.Areas() {
		open += a.Cells()
	}
	if open != 25-sealed {
		t.Fatalf("open cells %d, want %d", open, 25-sealed)
	}
	wantAreas := []Area{{2, 1, 1, 2}, {2, 4, 1, 2}, {5, 1, 1, 2}, {5, 4, 1, 2}}
	got := b.Areas()
	for i := range wantAreas {
		if got[i] != wantAreas[i] {
			t.Fatalf("area %d: got %+v, want %+v", i, got[i], wantAreas[i])
		}
	}
}

func TestGolden_SeededNineBySevenBinary(t *testing.T) {
	rng := rand.New(rand.NewSource(244))

	grid, err := arena.NewGenerator(rng).Generate(9, 7, 40)
	if err != nil {
		t.Fatal(err)
	}
	// Irregular concrete at (1,3), (3,3) and (4,5) cuts off the lower left;
	// one deblock pass turns (2,2), (2,4), (4,4) and (4,5) into brick.
	wantGrid := "" +
		"#########\n" +
		"#...++++#\n" +
		"#++.#.#+#\n" +
		"##+#...+#\n" +
		"#.+.+.#.#\n" +
		"#.+.+.+.#\n" +
		"#########\n"
	if grid.String() != wantGrid {
		t.Fatalf("arena:\n%s\nwant:\n%s", grid, wantGrid)
	}

	perf, err := New(StrategyBinary, grid.Width(), grid.Height(), rng, DefaultTuning())
	if err != nil {
		t.Fatal(err)
	}
	rec := &batchRecorder{}
	sched := NewScheduler(perf, rec)
	for step := int64(0); step <= 4; step++ {
		sched.Tick(step * 5000)
	}

	want := [][]WallAdd{
		{{1, 1}, {1, 2}, {1, 3}, {1, 4}, {1, 5}},
		{{6, 1}, {6, 2}, {6, 3}, {6, 4}, {6, 5}},
		{{2, 3}, {3, 3}, {4, 3}, {5, 3}, {7, 5}},
		{{4, 1}, {4, 2}, {7, 2}},
	}
	if len(rec.batches) != len(want) {
		t.Fatalf("got %d batches, want %d: %v", len(rec.batches), len(want), rec.batches)
	}
	for i, batch := range rec.batches {
		if len(batch) != len(want[i]) {
			t.Fatalf("batch %d: got %v, want %v", i, batch, want[i])
		}
		for j, e := range batch {
			if e != Event(want[i][j]) {
				t.Fatalf("batch %d event %d: got %+v, want %+v", i, j, e, want[i][j])
			}
		}
	}

	b := perf.(*Binary)
	wantAreas := []Area{{2, 1, 2, 2}, {5, 1, 1, 2}, {2, 4, 4, 2}, {7, 1, 1, 1}, {7, 3, 1, 2}}
	got := b.Areas()
	if len(got) != len(wantAreas) {
		t.Fatalf("areas: got %v, want %v", got, wantAreas)
	}
	for i := range wantAreas {
		if got[i] != wantAreas[i] {
			t.Fatalf("area %d: got %+v, want %+v", i, got[i], wantAreas[i])
		}
	}
	if b.SealedCells() != 18 {
		t.Fatalf("sealed %d cells, want 18", b.SealedCells())
	}
}
