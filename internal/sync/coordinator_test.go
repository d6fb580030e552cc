package sync

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/constants"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/models"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/storage"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/validation"
)

var errInjected = errors.New("injected store failure")

// fakeStore is an in-memory Provider with per-operation failure injection
// and a manually driven change feed.
type fakeStore struct {
	mu     sync.Mutex
	habits []models.Habit
	logs   []models.HabitLog

	failInsertHabit bool
	failUpdateHabit bool
	failDeleteHabit bool
	failInsertLog   bool
	failUpdateLog   bool
	failDeleteLog   bool

	listCalls atomic.Int32
	events    chan storage.ChangeEvent
}

func newFakeStore() *fakeStore {
	return &fakeStore{events: make(chan storage.ChangeEvent, 16)}
}

func (s *fakeStore) Init() error  { return nil }
func (s *fakeStore) Close() error { return nil }

func (s *fakeStore) ListHabits(ownerID string) ([]models.Habit, error) {
	s.listCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Habit
	for _, h := range s.habits {
		if h.OwnerID == ownerID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertHabit(habit models.Habit) (models.Habit, error) {
	if s.failInsertHabit {
		return models.Habit{}, errInjected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.habits = append(s.habits, habit)
	return habit, nil
}

func (s *fakeStore) UpdateHabit(id string, patch storage.HabitPatch) error {
	if s.failUpdateHabit {
		return errInjected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, h := range s.habits {
		if h.ID == id {
			s.habits[i] = applyPatch(h, patch)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *fakeStore) DeleteHabit(id string) error {
	if s.failDeleteHabit {
		return errInjected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.habits = slices.DeleteFunc(s.habits, func(h models.Habit) bool { return h.ID == id })
	s.logs = slices.DeleteFunc(s.logs, func(l models.HabitLog) bool { return l.HabitID == id })
	return nil
}

func (s *fakeStore) ListLogs(ownerID string) ([]models.HabitLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := map[string]bool{}
	for _, h := range s.habits {
		if h.OwnerID == ownerID {
			owned[h.ID] = true
		}
	}
	var out []models.HabitLog
	for _, l := range s.logs {
		if owned[l.HabitID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertLog(log models.HabitLog) (models.HabitLog, error) {
	if s.failInsertLog {
		return models.HabitLog{}, errInjected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, log)
	return log, nil
}

func (s *fakeStore) UpdateLog(id string, patch storage.LogPatch) error {
	if s.failUpdateLog {
		return errInjected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.logs {
		if l.ID == id {
			if patch.Value != nil {
				s.logs[i].Value = patch.Value
			}
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *fakeStore) DeleteLog(id string) error {
	if s.failDeleteLog {
		return errInjected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = slices.DeleteFunc(s.logs, func(l models.HabitLog) bool { return l.ID == id })
	return nil
}

func (s *fakeStore) Changes() <-chan storage.ChangeEvent { return s.events }

func newTestCoordinator(t *testing.T) (*Coordinator, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	c := New(store, "owner-1")
	if err := c.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c, store
}

func testHabit(name string, created time.Time) models.Habit {
	return models.Habit{
		Name:      name,
		Frequency: models.Frequency{Type: constants.FrequencyDaily},
		MonthGoal: 20,
		Priority:  1,
		CreatedAt: created,
	}
}

func TestAddHabit_RoundTrip(t *testing.T) {
	c, store := newTestCoordinator(t)

	confirmed, err := c.AddHabit(testHabit("Meditate", time.Now()))
	if err != nil {
		t.Fatalf("AddHabit: %v", err)
	}
	if confirmed.ID == "" {
		t.Error("confirmed habit has no id")
	}
	if confirmed.OwnerID != "owner-1" {
		t.Errorf("OwnerID = %q, want owner-1", confirmed.OwnerID)
	}

	habits := c.Habits()
	if len(habits) != 1 || habits[0].Name != "Meditate" {
		t.Fatalf("local habits = %+v, want the one added", habits)
	}

	store.mu.Lock()
	stored := len(store.habits)
	store.mu.Unlock()
	if stored != 1 {
		t.Errorf("store has %d habits, want 1", stored)
	}
}

func TestAddHabit_ValidationRejectedBeforeWrite(t *testing.T) {
	c, store := newTestCoordinator(t)

	_, err := c.AddHabit(testHabit("", time.Now()))
	if !errors.Is(err, validation.ErrMissingName) {
		t.Fatalf("err = %v, want ErrMissingName", err)
	}

	if got := len(c.Habits()); got != 0 {
		t.Errorf("rejected habit left %d optimistic entries", got)
	}
	store.mu.Lock()
	stored := len(store.habits)
	store.mu.Unlock()
	if stored != 0 {
		t.Error("rejected habit reached the store")
	}
}

func TestAddHabit_RevertOnInsertFailure(t *testing.T) {
	c, store := newTestCoordinator(t)
	store.failInsertHabit = true

	_, err := c.AddHabit(testHabit("Meditate", time.Now()))
	if !errors.Is(err, errInjected) {
		t.Fatalf("err = %v, want the injected failure", err)
	}
	if got := len(c.Habits()); got != 0 {
		t.Errorf("optimistic habit survived the revert, %d entries", got)
	}
}

func TestUpdateHabit_RevertRestoresOriginal(t *testing.T) {
	c, store := newTestCoordinator(t)
	h, err := c.AddHabit(testHabit("Meditate", time.Now()))
	if err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	store.failUpdateHabit = true
	name := "Renamed"
	err = c.UpdateHabit(h.ID, storage.HabitPatch{Name: &name})
	if !errors.Is(err, errInjected) {
		t.Fatalf("err = %v, want the injected failure", err)
	}

	got, ok := c.Habit(h.ID)
	if !ok {
		t.Fatal("habit vanished after revert")
	}
	if got.Name != "Meditate" {
		t.Errorf("Name = %q after revert, want the original", got.Name)
	}
}

func TestToggleLog_RoundTripRestoresOriginalState(t *testing.T) {
	c, _ := newTestCoordinator(t)
	h, err := c.AddHabit(testHabit("Meditate", time.Now()))
	if err != nil {
		t.Fatalf("AddHabit: %v", err)
	}
	day := "2024-03-10"

	completed, err := c.ToggleLog(h.ID, day)
	if err != nil || !completed {
		t.Fatalf("first toggle = (%v, %v), want (true, nil)", completed, err)
	}
	if _, ok := c.LogFor(h.ID, day); !ok {
		t.Fatal("no log after toggling on")
	}

	completed, err = c.ToggleLog(h.ID, day)
	if err != nil || completed {
		t.Fatalf("second toggle = (%v, %v), want (false, nil)", completed, err)
	}
	if _, ok := c.LogFor(h.ID, day); ok {
		t.Error("log survived toggling off")
	}
}

func TestToggleLog_AtMostOneLogPerDay(t *testing.T) {
	c, _ := newTestCoordinator(t)
	h, _ := c.AddHabit(testHabit("Meditate", time.Now()))
	day := "2024-03-10"

	for i := 0; i < 4; i++ {
		if _, err := c.ToggleLog(h.ID, day); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}

	count := 0
	for _, l := range c.Logs() {
		if l.HabitID == h.ID && l.Day == day {
			count++
		}
	}
	if count != 0 {
		t.Errorf("even toggle count left %d logs, want 0", count)
	}
}

func TestToggleLog_RevertOnInsertFailure(t *testing.T) {
	c, store := newTestCoordinator(t)
	h, _ := c.AddHabit(testHabit("Meditate", time.Now()))

	store.failInsertLog = true
	_, err := c.ToggleLog(h.ID, "2024-03-10")
	if !errors.Is(err, errInjected) {
		t.Fatalf("err = %v, want the injected failure", err)
	}
	if got := len(c.Logs()); got != 0 {
		t.Errorf("optimistic log survived the revert, %d entries", got)
	}
}

func TestToggleLog_InvalidDay(t *testing.T) {
	c, _ := newTestCoordinator(t)
	h, _ := c.AddHabit(testHabit("Meditate", time.Now()))

	if _, err := c.ToggleLog(h.ID, "10/03/2024"); !errors.Is(err, validation.ErrInvalidDate) {
		t.Errorf("err = %v, want ErrInvalidDate", err)
	}
}

func TestAddLogValue_Accumulates(t *testing.T) {
	c, _ := newTestCoordinator(t)
	h, _ := c.AddHabit(testHabit("Hydrate", time.Now()))
	day := "2024-03-10"

	if err := c.AddLogValue(h.ID, day, 250); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := c.AddLogValue(h.ID, day, 500); err != nil {
		t.Fatalf("second add: %v", err)
	}

	log, ok := c.LogFor(h.ID, day)
	if !ok || log.Value == nil {
		t.Fatal("no valued log after adding")
	}
	if *log.Value != 750 {
		t.Errorf("Value = %v, want 750", *log.Value)
	}
}

func TestUpdateLogValue_ZeroDeletesLog(t *testing.T) {
	c, _ := newTestCoordinator(t)
	h, _ := c.AddHabit(testHabit("Hydrate", time.Now()))
	day := "2024-03-10"

	if err := c.AddLogValue(h.ID, day, 250); err != nil {
		t.Fatalf("AddLogValue: %v", err)
	}
	log, _ := c.LogFor(h.ID, day)

	if err := c.UpdateLogValue(log.ID, 0); err != nil {
		t.Fatalf("UpdateLogValue: %v", err)
	}
	if _, ok := c.LogFor(h.ID, day); ok {
		t.Error("zero value should delete the log outright")
	}
}

func TestUpdateLogValue_NegativeRejected(t *testing.T) {
	c, _ := newTestCoordinator(t)
	h, _ := c.AddHabit(testHabit("Hydrate", time.Now()))
	if err := c.AddLogValue(h.ID, "2024-03-10", 250); err != nil {
		t.Fatalf("AddLogValue: %v", err)
	}
	log, _ := c.LogFor(h.ID, "2024-03-10")

	if err := c.UpdateLogValue(log.ID, -5); !errors.Is(err, validation.ErrNegativeValue) {
		t.Errorf("err = %v, want ErrNegativeValue", err)
	}
}

func TestDeleteHabit_RemovesItsLogs(t *testing.T) {
	c, _ := newTestCoordinator(t)
	h, _ := c.AddHabit(testHabit("Meditate", time.Now()))
	keep, _ := c.AddHabit(testHabit("Read", time.Now()))
	if _, err := c.ToggleLog(h.ID, "2024-03-10"); err != nil {
		t.Fatalf("ToggleLog: %v", err)
	}
	if _, err := c.ToggleLog(keep.ID, "2024-03-10"); err != nil {
		t.Fatalf("ToggleLog: %v", err)
	}

	if err := c.DeleteHabit(h.ID); err != nil {
		t.Fatalf("DeleteHabit: %v", err)
	}

	if _, ok := c.Habit(h.ID); ok {
		t.Error("deleted habit still present")
	}
	for _, l := range c.Logs() {
		if l.HabitID == h.ID {
			t.Error("deleted habit's log still present")
		}
	}
	if _, ok := c.LogFor(keep.ID, "2024-03-10"); !ok {
		t.Error("unrelated habit's log removed")
	}
}

func TestNormalizePriorities_DenseAndNewestWinsTie(t *testing.T) {
	c, _ := newTestCoordinator(t)

	older := testHabit("Older", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	newer := testHabit("Newer", time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))
	if _, err := c.AddHabit(older); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}
	if _, err := c.AddHabit(newer); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	byName := map[string]models.Habit{}
	for _, h := range c.Habits() {
		byName[h.Name] = h
	}
	if byName["Newer"].Priority != 1 {
		t.Errorf("Newer priority = %d, want 1 (newest wins the tie)", byName["Newer"].Priority)
	}
	if byName["Older"].Priority != 2 {
		t.Errorf("Older priority = %d, want 2", byName["Older"].Priority)
	}

	// Dense 1..N with no gaps after a delete
	if err := c.DeleteHabit(byName["Newer"].ID); err != nil {
		t.Fatalf("DeleteHabit: %v", err)
	}
	remaining := c.Habits()
	if len(remaining) != 1 || remaining[0].Priority != 1 {
		t.Errorf("priorities not renumbered after delete: %+v", remaining)
	}
}

func TestArchiveAndResume(t *testing.T) {
	c, _ := newTestCoordinator(t)
	h, _ := c.AddHabit(testHabit("Meditate", time.Now()))

	if err := c.ArchiveHabit(h.ID); err != nil {
		t.Fatalf("ArchiveHabit: %v", err)
	}
	got, _ := c.Habit(h.ID)
	if !got.Archived() {
		t.Fatal("habit not archived")
	}

	if err := c.ResumeHabit(h.ID); err != nil {
		t.Fatalf("ResumeHabit: %v", err)
	}
	got, _ = c.Habit(h.ID)
	if got.Archived() {
		t.Error("habit still archived after resume")
	}
}

func TestToggleSkipDay_AddAndRemove(t *testing.T) {
	c, _ := newTestCoordinator(t)
	h, _ := c.AddHabit(testHabit("Meditate", time.Now()))

	if err := c.ToggleSkipDay(h.ID, "2024-03-10"); err != nil {
		t.Fatalf("ToggleSkipDay: %v", err)
	}
	got, _ := c.Habit(h.ID)
	if !got.HasSkipDate("2024-03-10") {
		t.Fatal("skip date not recorded")
	}

	if err := c.ToggleSkipDay(h.ID, "2024-03-10"); err != nil {
		t.Fatalf("ToggleSkipDay: %v", err)
	}
	got, _ = c.Habit(h.ID)
	if got.HasSkipDate("2024-03-10") {
		t.Error("skip date not removed on second toggle")
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWatch_DebouncedReload(t *testing.T) {
	c, store := newTestCoordinator(t)
	c.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Watch(ctx)

	before := store.listCalls.Load()
	for i := 0; i < 5; i++ {
		store.events <- storage.ChangeEvent{Table: "habits", Type: storage.EventUpdate}
	}

	// A burst of notifications coalesces into one reload.
	waitFor(t, time.Second, func() bool { return store.listCalls.Load() > before })
	time.Sleep(5 * c.debounce)
	if got := store.listCalls.Load() - before; got != 1 {
		t.Errorf("burst caused %d reloads, want 1", got)
	}
}

func TestWatch_SuppressedWhileOpInFlightThenRescheduled(t *testing.T) {
	c, store := newTestCoordinator(t)
	c.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Watch(ctx)

	c.beginOp()
	before := store.listCalls.Load()
	store.events <- storage.ChangeEvent{Table: "habit_logs", Type: storage.EventInsert}

	time.Sleep(5 * c.debounce)
	if got := store.listCalls.Load(); got != before {
		t.Fatalf("reconciled while a mutation was in flight (%d reloads)", got-before)
	}
	if !c.pendingReconcile.Load() {
		t.Fatal("suppressed reconciliation was dropped, not deferred")
	}

	c.endOp()
	waitFor(t, time.Second, func() bool { return store.listCalls.Load() > before })
}

func TestLoad_FailurePreservesPreviousState(t *testing.T) {
	c, store := newTestCoordinator(t)
	if _, err := c.AddHabit(testHabit("Meditate", time.Now())); err != nil {
		t.Fatalf("AddHabit: %v", err)
	}

	// Swap in a store whose habits disagree; a failed reload must not
	// replace the snapshot with partial data.
	c.store = failingLister{store}
	if err := c.Load(); err == nil {
		t.Fatal("Load succeeded against a failing lister")
	}
	if got := len(c.Habits()); got != 1 {
		t.Errorf("failed reload disturbed local state, %d habits", got)
	}
}

type failingLister struct{ *fakeStore }

func (f failingLister) ListHabits(string) ([]models.Habit, error) {
	return nil, fmt.Errorf("list habits: %w", errInjected)
}
