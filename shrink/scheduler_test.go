package shrink

import "testing"

// scripted emits a fixed list of events on selected ticks.
type scripted struct {
	inits int
	plan  map[int64][]Event
}

func (s *scripted) Init() { s.inits++ }

func (s *scripted) Tick(now int64, emit Emitter) {
	for _, e := range s.plan[now] {
		emit(e)
	}
}

func TestScheduler_ForwardsInOrder(t *testing.T) {
	p := &scripted{plan: map[int64][]Event{
		10: {WallAdd{1, 1}, WallAdd{2, 1}, BombPlace{3, 3, 2, DirDown}},
		30: {WallRemove{1, 1}},
	}}
	rec := &batchRecorder{}
	s := NewScheduler(p, rec)
	if p.inits != 1 {
		t.Fatalf("Init called %d times", p.inits)
	}

	counts := []int{s.Tick(0), s.Tick(10), s.Tick(20), s.Tick(30)}
	if counts[0] != 0 || counts[1] != 3 || counts[2] != 0 || counts[3] != 1 {
		t.Fatalf("forwarded counts %v", counts)
	}
	if len(rec.batches) != 2 {
		t.Fatalf("empty ticks must not be broadcast, got %d batches", len(rec.batches))
	}
	first := rec.batches[0]
	if first[0] != Event(WallAdd{1, 1}) || first[1] != Event(WallAdd{2, 1}) || first[2] != Event(BombPlace{3, 3, 2, DirDown}) {
		t.Fatalf("order changed: %v", first)
	}
	if rec.batches[1][0] != Event(WallRemove{1, 1}) {
		t.Fatalf("second batch: %v", rec.batches[1])
	}
	if s.Finished() {
		t.Fatal("a performer without Finished is never finished")
	}
}

func TestScheduler_Finished(t *testing.T) {
	s := NewScheduler(NewMassKill(5, 5), &batchRecorder{})
	if s.Finished() {
		t.Fatal("finished before the first tick")
	}
	if n := s.Tick(0); n != 9 {
		t.Fatalf("forwarded %d events, want 9", n)
	}
	if !s.Finished() {
		t.Fatal("mass kill should report finished")
	}
}
