package game

import "time"

// Sequence is the running timed sequence (crash delay or landing), checked
// every frame. Generation changes whenever a sequence starts or is
// cancelled, so anything holding an older generation knows it is stale.
type Sequence struct {
	Stage      Stage
	Elapsed    time.Duration
	Generation uint64
}

// Start begins a new sequence at stage and returns its generation.
func (s *Sequence) Start(stage Stage) uint64 {
	s.Generation++
	s.Stage = stage
	s.Elapsed = 0
	return s.Generation
}

// Next moves the current sequence to its next stage.
func (s *Sequence) Next(stage Stage) {
	s.Stage = stage
	s.Elapsed = 0
}

// Cancel aborts any running sequence.
func (s *Sequence) Cancel() {
	s.Generation++
	s.Stage = StageNone
	s.Elapsed = 0
}

// Running reports whether a sequence is in progress.
func (s Sequence) Running() bool {
	return s.Stage != StageNone
}
