package replay

import (
	"errors"
	"testing"
)

func TestRecorder_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	h := Header{MatchID: "m-1", Seed: 7, Strategy: "binary", Width: 7, Height: 7, Arena: "#######\n"}
	r, err := Create(dir, h)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.RecordTick(3, 150, []string{"WALL 3 1 d;", "WALL 3 2 d;"}); err != nil {
		t.Fatal(err)
	}
	if err := r.RecordTick(9, 450, []string{"BOMB 2 2 1 S d;"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := r.RecordTick(10, 500, nil); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}

	gotHeader, entries, err := Read(Path(dir, "m-1"))
	if err != nil {
		t.Fatal(err)
	}
	if gotHeader != h {
		t.Fatalf("header: got %+v", gotHeader)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].Tick != 3 || entries[0].AtMs != 150 || len(entries[0].Events) != 2 || entries[0].Events[1] != "WALL 3 2 d;" {
		t.Fatalf("entry 0: %+v", entries[0])
	}
	if entries[1].Events[0] != "BOMB 2 2 1 S d;" {
		t.Fatalf("entry 1: %+v", entries[1])
	}
}
