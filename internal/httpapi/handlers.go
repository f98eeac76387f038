package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/typerush/typerush-backend/internal/game"
	"github.com/typerush/typerush-backend/internal/registry"
)

// CreateRoom allocates a room over plain HTTP so a lobby link can exist
// before any socket opens. The creator still joins through the socket.
func CreateRoom(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm, err := reg.Create()
		if err != nil {
			if errors.Is(err, game.ErrRoomLimit) {
				http.Error(w, "room limit reached", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			RoomID string `json:"roomId"`
		}{RoomID: rm.ID()})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
