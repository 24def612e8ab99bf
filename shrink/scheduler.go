package shrink

// Broadcaster receives the events of one tick, in emission order.
type Broadcaster interface {
	Broadcast(events []Event)
}

// Scheduler drives the single performer of a match. It is not safe for
// concurrent use; it belongs to the match tick loop.
type Scheduler struct {
	performer   Performer
	broadcaster Broadcaster
	batch       []Event
}

// NewScheduler initialises p and returns a scheduler forwarding to b.
func NewScheduler(p Performer, b Broadcaster) *Scheduler {
	p.Init()
	return &Scheduler{performer: p, broadcaster: b}
}

// Tick runs the performer once and forwards whatever it emitted. It returns
// the number of events forwarded.
func (s *Scheduler) Tick(now int64) int {
	s.batch = nil
	s.performer.Tick(now, s.collect)
	if len(s.batch) == 0 {
		return 0
	}
	s.broadcaster.Broadcast(s.batch)
	return len(s.batch)
}

// Finished reports whether the performer has nothing left to do.
func (s *Scheduler) Finished() bool {
	f, ok := s.performer.(Finisher)
	return ok && f.Finished()
}

// Performer returns the driven performer.
func (s *Scheduler) Performer() Performer { return s.performer }

func (s *Scheduler) collect(e Event) {
	s.batch = append(s.batch, e)
}
