package metrics

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics collects basic counters without pulling in a metrics dependency.
type Metrics struct {
	wsConnections atomic.Int64
	activeRooms   atomic.Int64
	roomsCreated  atomic.Int64
	messagesIn    atomic.Int64
	startTime     time.Time
}

func New() *Metrics {
	return &Metrics{startTime: time.Now()}
}

func (m *Metrics) IncrWSConn()    { m.wsConnections.Add(1) }
func (m *Metrics) DecrWSConn()    { m.wsConnections.Add(-1) }
func (m *Metrics) IncrRooms()     { m.activeRooms.Add(1); m.roomsCreated.Add(1) }
func (m *Metrics) DecrRooms()     { m.activeRooms.Add(-1) }
func (m *Metrics) IncrMessageIn() { m.messagesIn.Add(1) }

// ServeHTTP exposes the counters as JSON.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	data := map[string]any{
		"uptime_seconds": int(time.Since(m.startTime).Seconds()),
		"ws_connections": m.wsConnections.Load(),
		"active_rooms":   m.activeRooms.Load(),
		"rooms_created":  m.roomsCreated.Load(),
		"messages_in":    m.messagesIn.Load(),
		"goroutines":     runtime.NumGoroutine(),
		"heap_alloc_mb":  mem.HeapAlloc / 1024 / 1024,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
