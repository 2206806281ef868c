// Package accumulator collects NGSI-v2 notifications in memory, playing the
// receiving role a time series store has in a full platform, so that tests
// can assert on what a context broker actually sent.
package accumulator

import (
	"sync"

	"github.com/diwise/ngsi-v2-client/pkg/ngsiv2/types/subscriptions"
)

type Accumulator struct {
	mu  sync.RWMutex
	log []subscriptions.EntityUpdateNotification
}

func New() *Accumulator {
	return &Accumulator{}
}

// Record appends a received notification to the log
func (a *Accumulator) Record(notification subscriptions.EntityUpdateNotification) {
	a.mu.Lock()
	a.log = append(a.log, notification)
	a.mu.Unlock()
}

// Count returns the number of notifications received so far
func (a *Accumulator) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.log)
}

// EntityCount returns the total number of entities over all received
// notifications
func (a *Accumulator) EntityCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	sum := 0
	for _, n := range a.log {
		sum += len(n.Data)
	}

	return sum
}

// Notifications returns a copy of the notification log in arrival order
func (a *Accumulator) Notifications() []subscriptions.EntityUpdateNotification {
	a.mu.RLock()
	defer a.mu.RUnlock()

	notifications := make([]subscriptions.EntityUpdateNotification, len(a.log))
	copy(notifications, a.log)

	return notifications
}

// Clear empties the notification log
func (a *Accumulator) Clear() {
	a.mu.Lock()
	a.log = nil
	a.mu.Unlock()
}
