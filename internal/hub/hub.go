package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/pocjysweetsGM/block-blast-online/internal/room"
)

type HubMsg interface{ isHubMsg() }

// EnsureRoom returns the room for the id, creating it on first use.
type EnsureRoom struct {
	ID    string
	Reply chan *room.Room
}

type GetRoom struct {
	ID    string
	Reply chan *room.Room
}

// RemoveRoom is posted by a room that hit zero players. The pointer guards
// against tearing down a newer room that reused the id in the meantime.
type RemoveRoom struct {
	ID   string
	Room *room.Room
}

type RoomCount struct {
	Reply chan int
}

type ShutdownHub struct{}

func (EnsureRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (RoomCount) isHubMsg()   {}
func (ShutdownHub) isHubMsg() {}

// Hub is the process-wide room registry. One goroutine owns the map; all
// access goes through the inbox.
type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureRoom:
				if rm := h.rooms[msg.ID]; rm != nil {
					msg.Reply <- rm
					break
				}
				msg.Reply <- h.spawn(msg.ID)

			case GetRoom:
				msg.Reply <- h.rooms[msg.ID] // May be nil

			case RemoveRoom:
				if h.rooms[msg.ID] == msg.Room {
					delete(h.rooms, msg.ID)
					h.log.Info("room destroyed", zap.String("room", msg.ID))
				}

			case RoomCount:
				msg.Reply <- len(h.rooms)

			case ShutdownHub:
				for _, rm := range h.rooms {
					rm.Inbox() <- room.Shutdown{}
				}
				clear(h.rooms)
				h.cancel()
			}
		}
	}
}

func (h *Hub) spawn(id string) *room.Room {
	var rm *room.Room
	rm = room.New(h.ctx, id, h.log.With(zap.String("room", id)), func() {
		// Runs on the room goroutine; the buffered inbox keeps it from
		// blocking against this loop.
		h.inbox <- RemoveRoom{ID: id, Room: rm}
	})
	h.log.Info("room created", zap.String("room", id))
	return rm
}
