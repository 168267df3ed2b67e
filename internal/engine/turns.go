package engine

import (
	"fmt"
	"slices"
	"time"
)

// rotateTurn advances the turn to the next connected id in sorted cyclic
// order. Pending skip votes are discarded, the turn timestamp is restamped
// and the turn counter advances even when nobody is left to take the turn.
// If the previous holder is gone, or no turn was assigned yet, the turn
// falls back to the lowest connected id.
func (s *State) rotateTurn() {
	clear(s.SkipVotes)
	s.TurnStartedAt = time.Now()
	s.TotalTurns++

	ids := s.connectedIDs()
	if len(ids) == 0 {
		s.CurrentTurn = NoPlayer
		return
	}
	if s.CurrentTurn == NoPlayer {
		s.CurrentTurn = ids[0]
		return
	}
	idx := slices.Index(ids, s.CurrentTurn)
	if idx < 0 {
		s.CurrentTurn = ids[0]
		return
	}
	s.CurrentTurn = ids[(idx+1)%len(ids)]
}

// CurrentRound derives the 1-based round number from the turns taken so far.
func (s *State) CurrentRound() int {
	n := len(s.Names)
	if n == 0 {
		return 1
	}
	return s.TotalTurns/n + 1
}

// nextRound is the round the game would be in after one more rotation.
func (s *State) nextRound() int {
	n := len(s.Names)
	if n == 0 {
		return 1
	}
	return (s.TotalTurns+1)/n + 1
}

// RoundInfo renders the round progress for the state broadcast.
func (s *State) RoundInfo() string {
	if s.MaxRounds <= 0 {
		return "∞"
	}
	return fmt.Sprintf("%d/%d", s.CurrentRound(), s.MaxRounds)
}

// TurnStartUnix is the turn timestamp as unix seconds for the wire, 0 when
// no turn has ever started.
func (s *State) TurnStartUnix() float64 {
	if s.TurnStartedAt.IsZero() {
		return 0
	}
	return float64(s.TurnStartedAt.UnixNano()) / float64(time.Second)
}
