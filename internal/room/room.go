package room

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pocjysweetsGM/block-blast-online/internal/engine"
	"github.com/pocjysweetsGM/block-blast-online/internal/types"
)

var ErrRoomFull = errors.New("room is full")

// ClearDelay is how long completed lines stay on the board before the
// clearing batch goes out, so clients can animate them. The room keeps
// processing other messages during this window; see the clearLines handler.
const ClearDelay = 300 * time.Millisecond

type Msg interface{ isRoomMsg() }

// Join registers a connection. The reply reports the assigned player id, or
// ErrRoomFull when the room is at capacity.
type Join struct {
	ClientID string
	Nickname string
	Outbox   chan []byte // where this connection receives encoded messages
	Reply    chan JoinReply
}

type JoinReply struct {
	PlayerID int
	Err      error
}

type Leave struct{ ClientID string }

type FromClient struct {
	ClientID string
	Cmd      engine.Command
}

type Shutdown struct{}

type GetView struct {
	Reply chan View
}

type View struct {
	State      engine.State
	NumClients int
}

// clearLines re-enters the loop when the clear delay elapses. Other traffic
// interleaves freely during the delay, so the listed lines are cleared
// against whatever the board looks like by then.
type clearLines struct {
	rows []int
	cols []int
}

func (Join) isRoomMsg()       {}
func (Leave) isRoomMsg()      {}
func (FromClient) isRoomMsg() {}
func (Shutdown) isRoomMsg()   {}
func (GetView) isRoomMsg()    {}
func (clearLines) isRoomMsg() {}

type client struct {
	playerID int
	outbox   chan []byte
}

// Room runs one game session. A single goroutine owns the state, so every
// transition between two inbox messages is atomic with respect to the rest
// of the room.
type Room struct {
	id      string
	inbox   chan Msg
	state   engine.State
	clients map[string]client
	onEmpty func() // tells the registry this room hit zero players
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, id string, log *zap.Logger, onEmpty func()) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		id:      id,
		inbox:   make(chan Msg, 64),
		state:   engine.NewState(),
		clients: make(map[string]client),
		onEmpty: onEmpty,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) ID() string { return r.id }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)

			case Leave:
				if r.removeClient(msg.ClientID) {
					return
				}

			case FromClient:
				if r.handleCommand(msg) {
					return
				}

			case clearLines:
				r.finishClear(msg)

			case GetView:
				// test-only: reflect internal state without data races
				msg.Reply <- View{State: r.state, NumClients: len(r.clients)}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	if len(r.clients) >= engine.MaxPlayers {
		msg.Reply <- JoinReply{Err: ErrRoomFull}
		return
	}
	info, events := r.state.Join(msg.Nickname)
	r.clients[msg.ClientID] = client{playerID: info.PlayerID, outbox: msg.Outbox}
	msg.Reply <- JoinReply{PlayerID: info.PlayerID}

	r.send(msg.Outbox, types.Welcome{
		Type:      types.MsgWelcome,
		YourID:    info.PlayerID,
		YourName:  info.Name,
		Board:     r.state.Board,
		RoomID:    r.id,
		HostID:    r.state.HostID,
		IsPlaying: r.state.IsPlaying,
		Restored:  info.Restored,
	})
	r.log.Info("player joined",
		zap.Int("player", info.PlayerID),
		zap.String("name", info.Name),
		zap.Bool("restored", info.Restored))
	r.emit(events, msg.ClientID)
}

// handleCommand applies one client command. Guard violations are dropped
// without a reply; the client UI is expected to prevent them. Reports
// whether the room emptied (a host kicking themselves out of a solo room).
func (r *Room) handleCommand(msg FromClient) bool {
	c, ok := r.clients[msg.ClientID]
	if !ok {
		return false
	}
	events, err := r.state.Apply(c.playerID, msg.Cmd)
	if err != nil {
		r.log.Debug("command rejected",
			zap.String("cmd", string(msg.Cmd.Type)),
			zap.Int("player", c.playerID),
			zap.Error(err))
		return false
	}
	return r.emit(events, msg.ClientID)
}

// emit turns engine events into outgoing traffic. Returns whether acting on
// an event emptied the room.
func (r *Room) emit(events []engine.Event, senderClientID string) bool {
	for _, ev := range events {
		switch ev.Type {
		case engine.EvtStateChanged:
			r.broadcast(r.gameStateMsg())

		case engine.EvtBoardUpdated:
			r.broadcast(types.BatchUpdate{Type: types.MsgBatchUpdate, Updates: ev.Updates})

		case engine.EvtLinesCompleted:
			rows, cols := ev.Rows, ev.Cols
			time.AfterFunc(ClearDelay, func() {
				r.inbox <- clearLines{rows: rows, cols: cols}
			})

		case engine.EvtBoardReset:
			r.broadcast(types.Init{Type: types.MsgInit, Board: r.state.Board})

		case engine.EvtGameOver:
			r.log.Info("game over", zap.Int("turns", r.state.TotalTurns))
			r.broadcast(types.GameOver{Type: types.MsgGameOver, Ranking: []engine.RankEntry{}})

		case engine.EvtKicked:
			if r.kick(ev.Target) {
				return true
			}

		case engine.EvtDragMoved:
			r.relay(senderClientID, types.RemoteDrag{
				Type:     types.MsgRemoteDrag,
				PlayerID: ev.Player,
				ShapeIdx: ev.ShapeIdx,
				Row:      ev.Row,
				Col:      ev.Col,
			})

		case engine.EvtDragEnded:
			r.relay(senderClientID, types.RemoteDragEnd{Type: types.MsgRemoteDragEnd, PlayerID: ev.Player})
		}
	}
	return false
}

// finishClear runs when the clear delay elapses. The board may have been
// mutated by another player in the meantime; the clear applies to the lines
// detected earlier on the board as it is now, not as it was.
func (r *Room) finishClear(msg clearLines) {
	updates := r.state.Board.ClearLines(msg.rows, msg.cols)
	r.broadcast(types.BatchUpdate{Type: types.MsgBatchUpdate, Updates: updates})
	r.broadcast(r.gameStateMsg())
}

// kick notifies the target, then runs the same removal path as a disconnect.
// The closed outbox makes the connection's writer shut the socket down.
func (r *Room) kick(target int) bool {
	for cid, c := range r.clients {
		if c.playerID == target {
			r.send(c.outbox, types.Error{Type: types.MsgError, Message: "You have been kicked by the host"})
			r.log.Info("player kicked", zap.Int("player", target))
			return r.removeClient(cid)
		}
	}
	return false
}

// removeClient drops a connection and runs the disconnect transition.
// Returns true when the room emptied; the caller must stop the loop.
func (r *Room) removeClient(clientID string) bool {
	c, ok := r.clients[clientID]
	if !ok {
		return false
	}
	close(c.outbox)
	delete(r.clients, clientID)

	events, empty := r.state.Leave(c.playerID)
	r.log.Info("player left", zap.Int("player", c.playerID))
	if empty {
		if r.onEmpty != nil {
			r.onEmpty()
		}
		r.cancel()
		return true
	}
	r.emit(events, clientID)
	return false
}

func (r *Room) gameStateMsg() types.GameState {
	s := &r.state
	return types.GameState{
		Type:          types.MsgGameState,
		Count:         s.PlayerCount(),
		Ranking:       s.Ranking(),
		CurrentTurn:   s.CurrentTurn,
		TurnStartTime: s.TurnStartUnix(),
		SkipVotes:     engine.VoteList(s.SkipVotes),
		ResetVotes:    engine.VoteList(s.ResetVotes),
		HostID:        s.HostID,
		IsPlaying:     s.IsPlaying,
		RoundInfo:     s.RoundInfo(),
	}
}

// broadcast fans an encoded message out to a snapshot of the current
// connections. A full outbox drops the message for that client only; the
// connection stays registered until the transport reports it gone.
func (r *Room) broadcast(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		r.log.Error("encode broadcast", zap.Error(err))
		return
	}
	for _, c := range r.clients {
		select {
		case c.outbox <- payload:
		default:
			r.log.Debug("dropping message for slow client", zap.Int("player", c.playerID))
		}
	}
}

// relay is a broadcast that skips the originating connection.
func (r *Room) relay(senderClientID string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		r.log.Error("encode relay", zap.Error(err))
		return
	}
	for cid, c := range r.clients {
		if cid == senderClientID {
			continue
		}
		select {
		case c.outbox <- payload:
		default:
		}
	}
}

func (r *Room) send(outbox chan []byte, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		r.log.Error("encode message", zap.Error(err))
		return
	}
	select {
	case outbox <- payload:
	default:
	}
}

func (r *Room) shutdown() {
	for id, c := range r.clients {
		close(c.outbox)
		delete(r.clients, id)
	}
	r.cancel()
}
