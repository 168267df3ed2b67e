package engine

import (
	"maps"
	"slices"
	"time"
)

// toggleVote adds the player's vote, or withdraws it when cast twice.
func toggleVote(votes map[int]bool, id int) {
	if votes[id] {
		delete(votes, id)
	} else {
		votes[id] = true
	}
}

// skipQuorum is every connected player except the turn holder, never less
// than one, so a 2-player room skips on the other player's single vote.
func (s *State) skipQuorum() int {
	return max(1, len(s.Names)-1)
}

// checkQuorums runs after any vote toggle and after a disconnect, since a
// leave can shrink the room below an already-cast vote count. Reset wins
// over skip when both are satisfied.
func (s *State) checkQuorums() []Event {
	n := len(s.Names)
	if n == 0 {
		return nil
	}
	if len(s.ResetVotes) >= n {
		return s.executeReset()
	}
	if len(s.SkipVotes) >= s.skipQuorum() {
		s.rotateTurn()
		return []Event{{Type: EvtStateChanged}}
	}
	return nil
}

// executeReset wipes the game back to a fresh board: scores zeroed, both
// ballots and the reconnection cache cleared, turn counter restarted and the
// turn handed to the lowest connected id.
func (s *State) executeReset() []Event {
	s.Board.Reset()
	for id := range s.Scores {
		s.Scores[id] = 0
	}
	clear(s.SkipVotes)
	clear(s.ResetVotes)
	clear(s.Cache)
	s.TotalTurns = 0
	if ids := s.connectedIDs(); len(ids) > 0 {
		s.CurrentTurn = ids[0]
	} else {
		s.CurrentTurn = NoPlayer
	}
	s.TurnStartedAt = time.Now()
	return []Event{{Type: EvtBoardReset}, {Type: EvtStateChanged}}
}

// VoteList renders a ballot as a sorted id list for the state broadcast.
func VoteList(votes map[int]bool) []int {
	return slices.Sorted(maps.Keys(votes))
}
