package engine

import (
	"errors"
	"time"
)

var ErrNotHost = errors.New("sender is not the host")
var ErrWrongTurn = errors.New("sender does not hold the turn")
var ErrHoldsTurn = errors.New("turn holder cannot vote to skip")
var ErrUnsupportedCommand = errors.New("unsupported command")

// MaxPlayers is the room capacity.
const MaxPlayers = 10

// NoPlayer marks an unassigned turn or host.
const NoPlayer = 0

// PointsPerLine is the score credited per completed row or column.
const PointsPerLine = 10

// State is the authoritative state of one room. It is owned by a single room
// goroutine; nothing here synchronizes.
type State struct {
	Board         Board
	Scores        map[int]int
	Names         map[int]string
	HostID        int
	CurrentTurn   int
	TurnStartedAt time.Time
	IsPlaying     bool
	TotalTurns    int
	MaxRounds     int
	SkipVotes     map[int]bool
	ResetVotes    map[int]bool
	Cache         map[string]CacheEntry
}

func NewState() State {
	return State{
		Scores:     map[int]int{},
		Names:      map[int]string{},
		SkipVotes:  map[int]bool{},
		ResetVotes: map[int]bool{},
		Cache:      map[string]CacheEntry{},
	}
}

type CommandType string

const (
	CmdStartGame   CommandType = "StartGame"
	CmdBatchUpdate CommandType = "BatchUpdate"
	CmdEndTurn     CommandType = "EndTurn"
	CmdVoteSkip    CommandType = "VoteSkip"
	CmdVetoSkip    CommandType = "VetoSkip"
	CmdVoteReset   CommandType = "VoteReset"
	CmdKickPlayer  CommandType = "KickPlayer"
	CmdDragMove    CommandType = "DragMove"
	CmdDragEnd     CommandType = "DragEnd"
)

type Command struct {
	Type      CommandType
	MaxRounds int
	TargetID  int
	Updates   []CellUpdate
	ShapeIdx  int
	Row       int
	Col       int
}

type EventType string

const (
	// EvtStateChanged asks the room to broadcast a fresh game_state.
	EvtStateChanged EventType = "StateChanged"
	// EvtBoardUpdated echoes a submitted update batch to everyone.
	EvtBoardUpdated EventType = "BoardUpdated"
	// EvtLinesCompleted reports lines detected full; points are already
	// credited, the clear itself runs after the animation delay.
	EvtLinesCompleted EventType = "LinesCompleted"
	EvtBoardReset     EventType = "BoardReset"
	EvtGameOver       EventType = "GameOver"
	EvtKicked         EventType = "PlayerKicked"
	EvtDragMoved      EventType = "DragMoved"
	EvtDragEnded      EventType = "DragEnded"
)

type Event struct {
	Type     EventType
	Player   int
	Target   int
	Updates  []CellUpdate
	Rows     []int
	Cols     []int
	ShapeIdx int
	Row      int
	Col      int
}

// JoinInfo is what the joiner needs for its welcome message.
type JoinInfo struct {
	PlayerID int
	Name     string
	Restored bool
}

// Join admits a player: allocates the smallest free id, resolves the display
// name, consumes a reconnection-cache entry keyed on the pre-dedup name, and
// assigns host and initial turn where the room has none.
func (s *State) Join(nickname string) (JoinInfo, []Event) {
	id := s.allocateID()
	name := normalizeName(id, nickname)
	entry, restored := s.restoreFromCache(name)
	name = s.dedupeName(name)

	score := 0
	if restored {
		score = entry.Score
	}
	s.Scores[id] = score
	s.Names[id] = name

	if len(s.Names) == 1 || s.HostID == NoPlayer {
		s.HostID = id
	}
	if restored && entry.WasHost {
		s.HostID = id
	}
	// Only the first or second player re-seats a missing turn. A later
	// joiner finding no holder means the game has concluded; they must
	// not resurrect a turn in a finished room.
	if s.CurrentTurn == NoPlayer && len(s.Names) <= 2 {
		s.CurrentTurn = s.connectedIDs()[0]
		s.TurnStartedAt = time.Now()
	}
	return JoinInfo{PlayerID: id, Name: name, Restored: restored}, []Event{{Type: EvtStateChanged}}
}

// Leave removes a player: snapshots score and host status into the
// reconnection cache, strips them from the roster and both ballots, hands
// host and turn to the remaining players and re-evaluates quorums, since a
// departure can complete one. Reports whether the room is now empty.
func (s *State) Leave(id int) ([]Event, bool) {
	name, ok := s.Names[id]
	if !ok {
		return nil, len(s.Names) == 0
	}
	s.cacheOnDisconnect(name, s.Scores[id], s.HostID == id)

	delete(s.Scores, id)
	delete(s.Names, id)
	delete(s.SkipVotes, id)
	delete(s.ResetVotes, id)

	if s.HostID == id {
		if ids := s.connectedIDs(); len(ids) > 0 {
			s.HostID = ids[0]
		} else {
			s.HostID = NoPlayer
		}
	}
	if s.CurrentTurn == id {
		s.rotateTurn()
	}
	if len(s.Names) == 0 {
		return nil, true
	}
	events := []Event{{Type: EvtStateChanged}}
	return append(events, s.checkQuorums()...), false
}

// Apply runs one client command against the state and returns the events the
// room should act on. A guard violation comes back as an error and leaves
// the state untouched; the room drops it without telling anyone.
func (s *State) Apply(sender int, cmd Command) ([]Event, error) {
	switch cmd.Type {
	case CmdStartGame:
		if sender != s.HostID {
			return nil, ErrNotHost
		}
		s.MaxRounds = max(0, cmd.MaxRounds)
		s.TotalTurns = 0
		s.IsPlaying = true
		s.CurrentTurn = s.HostID
		s.TurnStartedAt = time.Now()
		return []Event{{Type: EvtStateChanged}}, nil

	case CmdBatchUpdate:
		if sender != s.CurrentTurn {
			return nil, ErrWrongTurn
		}
		s.Board.ApplyUpdates(cmd.Updates)
		events := []Event{{Type: EvtBoardUpdated, Updates: cmd.Updates}}

		rows, cols := s.Board.CompleteLines()
		if len(rows)+len(cols) > 0 {
			// Credited in full to the mover, before the clear lands.
			if _, ok := s.Scores[sender]; ok {
				s.Scores[sender] += PointsPerLine * (len(rows) + len(cols))
			}
			events = append(events, Event{Type: EvtLinesCompleted, Rows: rows, Cols: cols, Player: sender})
		}
		return events, nil

	case CmdEndTurn:
		if sender != s.CurrentTurn {
			return nil, ErrWrongTurn
		}
		if s.MaxRounds > 0 && s.nextRound() > s.MaxRounds {
			s.IsPlaying = false
			s.CurrentTurn = NoPlayer
			return []Event{{Type: EvtGameOver}}, nil
		}
		s.rotateTurn()
		return []Event{{Type: EvtStateChanged}}, nil

	case CmdVoteSkip:
		if sender == s.CurrentTurn {
			return nil, ErrHoldsTurn
		}
		toggleVote(s.SkipVotes, sender)
		events := []Event{{Type: EvtStateChanged}}
		return append(events, s.checkQuorums()...), nil

	case CmdVetoSkip:
		if sender != s.CurrentTurn {
			return nil, ErrWrongTurn
		}
		clear(s.SkipVotes)
		return []Event{{Type: EvtStateChanged}}, nil

	case CmdVoteReset:
		toggleVote(s.ResetVotes, sender)
		events := []Event{{Type: EvtStateChanged}}
		return append(events, s.checkQuorums()...), nil

	case CmdKickPlayer:
		if sender != s.HostID {
			return nil, ErrNotHost
		}
		if _, ok := s.Names[cmd.TargetID]; !ok {
			return nil, nil
		}
		return []Event{{Type: EvtKicked, Target: cmd.TargetID}}, nil

	case CmdDragMove:
		if sender != s.CurrentTurn {
			return nil, ErrWrongTurn
		}
		return []Event{{Type: EvtDragMoved, Player: sender, ShapeIdx: cmd.ShapeIdx, Row: cmd.Row, Col: cmd.Col}}, nil

	case CmdDragEnd:
		// No turn guard: a client that just lost the turn mid-drag must
		// still be able to clean up its ghost piece everywhere.
		return []Event{{Type: EvtDragEnded, Player: sender}}, nil

	default:
		return nil, ErrUnsupportedCommand
	}
}
