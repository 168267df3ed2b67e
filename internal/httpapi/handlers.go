package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/pocjysweetsGM/block-blast-online/internal/hub"
)

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Stats reports how many rooms are live.
func Stats(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan int, 1)
		h.Inbox() <- hub.RoomCount{Reply: reply}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Rooms int `json:"rooms"`
		}{Rooms: <-reply})
	}
}
