package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pocjysweetsGM/block-blast-online/internal/engine"
	"github.com/pocjysweetsGM/block-blast-online/internal/hub"
	"github.com/pocjysweetsGM/block-blast-online/internal/room"
	"github.com/pocjysweetsGM/block-blast-online/internal/types"
)

// Handler bridges one websocket connection to its room: the reader loop
// decodes client messages into commands, a writer goroutine drains the
// room's outbox onto the socket.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "room_id")
		if roomID == "" {
			http.Error(w, "missing room id", http.StatusBadRequest)
			return
		}
		nickname := r.URL.Query().Get("nickname")

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.EnsureRoom{ID: roomID, Reply: reply}
		rm := <-reply

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan []byte, 16)
		clientID := uuid.NewString()

		joined := make(chan room.JoinReply, 1)
		rm.Inbox() <- room.Join{ClientID: clientID, Nickname: nickname, Outbox: out, Reply: joined}

		var jr room.JoinReply
		select {
		case jr = <-joined:
		case <-time.After(3 * time.Second):
			// The room emptied out between the registry lookup and the
			// join; the client reconnects into a fresh one.
			return
		}
		if jr.Err != nil {
			payload, _ := json.Marshal(types.Error{Type: types.MsgError, Message: "The room is full"})
			_ = conn.Write(r.Context(), websocket.MessageText, payload)
			return
		}
		defer func() { rm.Inbox() <- room.Leave{ClientID: clientID} }()

		log.Info("connection opened",
			zap.String("room", roomID),
			zap.Int("player", jr.PlayerID))

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(context.Background())
		defer writeCancel()
		go func() {
			for payload := range out {
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
			// The room closed the outbox (kick or shutdown); closing the
			// socket also unblocks the reader below.
			conn.Close(websocket.StatusNormalClosure, "bye")
		}()

		// Reader loop. No read deadline: the server imposes no turn timer,
		// only the transport's own disconnect ends the session.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Leave runs via the defer above.
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				log.Debug("discarding malformed message", zap.String("room", roomID), zap.Error(err))
				continue
			}

			cmd, ok := toCommand(cm)
			if !ok {
				log.Debug("ignoring unknown message type", zap.String("type", cm.Type))
				continue
			}

			rm.Inbox() <- room.FromClient{ClientID: clientID, Cmd: cmd}
		}
	}
}

func toCommand(m types.ClientMessage) (engine.Command, bool) {
	switch m.Type {
	case "start_game":
		return engine.Command{Type: engine.CmdStartGame, MaxRounds: parseMaxTurns(m.MaxTurns)}, true
	case "kick_player":
		return engine.Command{Type: engine.CmdKickPlayer, TargetID: m.TargetID}, true
	case "batch_update":
		return engine.Command{Type: engine.CmdBatchUpdate, Updates: m.Updates}, true
	case "end_turn", "pass_turn":
		return engine.Command{Type: engine.CmdEndTurn}, true
	case "vote_reset":
		return engine.Command{Type: engine.CmdVoteReset}, true
	case "vote_skip":
		return engine.Command{Type: engine.CmdVoteSkip}, true
	case "veto_skip":
		return engine.Command{Type: engine.CmdVetoSkip}, true
	case "drag_move":
		return engine.Command{Type: engine.CmdDragMove, ShapeIdx: m.ShapeIdx, Row: m.Row, Col: m.Col}, true
	case "drag_end":
		return engine.Command{Type: engine.CmdDragEnd}, true
	default:
		return engine.Command{}, false
	}
}

// parseMaxTurns accepts the limit as a JSON number or string; anything that
// does not parse as a non-negative integer means unlimited.
func parseMaxTurns(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(raw)), `"`))
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
