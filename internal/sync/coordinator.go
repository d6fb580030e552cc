// Package sync owns the authoritative in-memory habit and log collections
// and reconciles user-initiated mutations against the remote store.
//
// Every mutation follows the same state machine: the change is applied to
// local state immediately (optimistic), the remote write is issued, and on
// success the optimistic record is replaced by the server-confirmed one. On
// failure the optimistic state is discarded wholesale by reloading from the
// store, and the error is returned to the caller.
//
// Remote change notifications are coalesced with a debounce window and
// suppressed while any local mutation is in flight, so a stale push can
// never clobber an optimistic update mid round-trip. A suppressed signal is
// re-scheduled once the last in-flight mutation completes; it is never
// dropped.
package sync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/constants"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/logger"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/models"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/storage"
)

type Coordinator struct {
	store   storage.Provider
	ownerID string

	mu     sync.RWMutex
	habits []models.Habit
	logs   []models.HabitLog

	opsInFlight      atomic.Int32
	pendingReconcile atomic.Bool
	reconcileCh      chan struct{}

	debounce time.Duration
}

func New(store storage.Provider, ownerID string) *Coordinator {
	return &Coordinator{
		store:       store,
		ownerID:     ownerID,
		reconcileCh: make(chan struct{}, 1),
		debounce:    constants.ReconcileDebounceMs * time.Millisecond,
	}
}

// Load fetches both collections from the store and atomically replaces the
// in-memory state. On error the previous state is left untouched.
func (c *Coordinator) Load() error {
	habits, err := c.store.ListHabits(c.ownerID)
	if err != nil {
		return err
	}
	logs, err := c.store.ListLogs(c.ownerID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.habits = habits
	c.logs = logs
	c.mu.Unlock()
	return nil
}

// Habits returns a snapshot copy of all habits.
func (c *Coordinator) Habits() []models.Habit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Habit, len(c.habits))
	copy(out, c.habits)
	return out
}

// Logs returns a snapshot copy of all habit logs.
func (c *Coordinator) Logs() []models.HabitLog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.HabitLog, len(c.logs))
	copy(out, c.logs)
	return out
}

// Habit looks up a habit by id.
func (c *Coordinator) Habit(id string) (models.Habit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, h := range c.habits {
		if h.ID == id {
			return h, true
		}
	}
	return models.Habit{}, false
}

// HabitByName looks up a habit by display name.
func (c *Coordinator) HabitByName(name string) (models.Habit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, h := range c.habits {
		if h.Name == name {
			return h, true
		}
	}
	return models.Habit{}, false
}

// LogFor returns the log for a (habit, day) pair, if one exists. At most one
// can exist.
func (c *Coordinator) LogFor(habitID, day string) (models.HabitLog, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.logs {
		if l.HabitID == habitID && l.Day == day {
			return l, true
		}
	}
	return models.HabitLog{}, false
}

// LogsForDay returns all logs recorded for the given civil day.
func (c *Coordinator) LogsForDay(day string) []models.HabitLog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.HabitLog
	for _, l := range c.logs {
		if l.Day == day {
			out = append(out, l)
		}
	}
	return out
}

// beginOp marks a mutation in flight, suppressing reconciliation.
func (c *Coordinator) beginOp() {
	c.opsInFlight.Add(1)
}

// endOp clears the in-flight mark and re-schedules any reconciliation that
// was suppressed while the mutation was outstanding.
func (c *Coordinator) endOp() {
	if c.opsInFlight.Add(-1) == 0 && c.pendingReconcile.CompareAndSwap(true, false) {
		select {
		case c.reconcileCh <- struct{}{}:
		default:
		}
	}
}

// revert discards optimistic state by re-fetching truth from the store, then
// propagates the original write error to the caller.
func (c *Coordinator) revert(op string, err error) error {
	logger.Warn("Remote write failed, reverting local state", "op", op, "error", err)
	if rerr := c.Load(); rerr != nil {
		logger.Error("Revert reload failed", "op", op, "error", rerr)
	}
	return err
}

// Watch consumes the store's change feed until the context is cancelled,
// coalescing bursts of notifications into a single reload.
func (c *Coordinator) Watch(ctx context.Context) {
	events := c.store.Changes()

	timer := time.NewTimer(c.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			logger.Debug("Remote change notification", "table", ev.Table, "type", ev.Type)
			timer.Reset(c.debounce)
		case <-c.reconcileCh:
			timer.Reset(c.debounce)
		case <-timer.C:
			c.reconcile()
		}
	}
}

func (c *Coordinator) reconcile() {
	if c.opsInFlight.Load() > 0 {
		// A reload now could overwrite an optimistic update with stale
		// rows; defer until the in-flight mutation settles.
		c.pendingReconcile.Store(true)
		logger.Debug("Reconciliation deferred, mutation in flight")
		return
	}
	if err := c.Load(); err != nil {
		// Stale-but-consistent beats partially overwritten
		logger.Warn("Reconciliation reload failed, keeping previous state", "error", err)
		return
	}
	logger.Debug("Reconciled state from store")
}
