// Package messaging pushes live operational activity to connected
// operator dashboard clients over websockets.
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/performance"
	"github.com/launchboard/launchboard-go/pkg/config"
)

// ActivityClient represents a single connected operator dashboard client.
type ActivityClient struct {
	Conn *websocket.Conn
	Send chan []byte
}

// ActivityPayload is the complete data structure sent to the dashboard on each tick.
type ActivityPayload struct {
	Timestamp           time.Time                                `json:"timestamp"`
	ActiveOperations    int                                      `json:"activeOperations"`
	CompletedOperations int                                      `json:"completedOperations"`
	Health              string                                   `json:"health"`
	Analytics           *performance.AnalyticsPerformanceTracker `json:"analytics,omitempty"`
	Catalog             *performance.CatalogPerformanceTracker   `json:"catalog,omitempty"`
	Alerts              []*performance.PerformanceAlert          `json:"alerts"`
	Stats               map[string]any                           `json:"stats"`
}

// ActivityBroadcaster manages all connected dashboard clients and broadcasts
// performance snapshots on a fixed interval.
type ActivityBroadcaster struct {
	clients    map[*ActivityClient]bool
	register   chan *ActivityClient
	unregister chan *ActivityClient
	tracker    *performance.Tracker
	logger     *logging.ChanneledLogger
	done       chan struct{}
	mu         sync.RWMutex
}

// NewActivityBroadcaster creates a new broadcaster instance.
func NewActivityBroadcaster(tracker *performance.Tracker, logger *logging.ChanneledLogger) *ActivityBroadcaster {
	return &ActivityBroadcaster{
		clients:    make(map[*ActivityClient]bool),
		register:   make(chan *ActivityClient),
		unregister: make(chan *ActivityClient),
		tracker:    tracker,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *ActivityBroadcaster) Run() {
	ticker := time.NewTicker(config.ActivityBroadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			b.mu.Unlock()
			b.logger.System().Info("Activity client registered", "clients", b.clientCount())

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			b.mu.Unlock()
			b.logger.System().Info("Activity client unregistered", "clients", b.clientCount())

		case <-ticker.C:
			b.broadcastActivity()

		case <-b.done:
			return
		}
	}
}

// Register queues a client for registration.
func (b *ActivityBroadcaster) Register(client *ActivityClient) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *ActivityBroadcaster) Unregister(client *ActivityClient) {
	b.unregister <- client
}

// Shutdown stops the broadcast loop.
func (b *ActivityBroadcaster) Shutdown() {
	close(b.done)
}

func (b *ActivityBroadcaster) clientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// broadcastActivity gathers a snapshot and sends it to all connected clients.
// Snapshots are skipped entirely when nobody is listening.
func (b *ActivityBroadcaster) broadcastActivity() {
	if b.clientCount() == 0 {
		return
	}

	payload := b.preparePayload()

	message, err := json.Marshal(payload)
	if err != nil {
		b.logger.System().Error("Failed to marshal activity payload", "error", err.Error())
		return
	}

	b.mu.RLock()
	for client := range b.clients {
		select {
		case client.Send <- message:
		default:
		}
	}
	b.mu.RUnlock()
}

// preparePayload assembles the dashboard payload from the tracker's
// current state.
func (b *ActivityBroadcaster) preparePayload() ActivityPayload {
	snapshot := b.tracker.TakeSnapshot()

	return ActivityPayload{
		Timestamp:           snapshot.Timestamp,
		ActiveOperations:    snapshot.ActiveOperations,
		CompletedOperations: snapshot.CompletedOperations,
		Health:              string(snapshot.OverallHealth),
		Analytics:           snapshot.Analytics,
		Catalog:             snapshot.Catalog,
		Alerts:              b.tracker.GetAlerts(),
		Stats:               b.tracker.GetOverallStats(),
	}
}
