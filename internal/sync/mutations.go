package sync

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/logger"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/models"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/storage"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/validation"
)

// AddHabit creates a habit. The caller may supply CreatedAt; a zero value
// means now. The confirmed record (with any server-assigned fields) is
// returned.
func (c *Coordinator) AddHabit(habit models.Habit) (models.Habit, error) {
	if habit.ID == "" {
		habit.ID = uuid.New().String()
	}
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}
	habit.OwnerID = c.ownerID
	if err := validation.Habit(habit); err != nil {
		return models.Habit{}, err
	}

	c.beginOp()
	defer c.endOp()

	c.mu.Lock()
	c.habits = append(c.habits, habit)
	c.mu.Unlock()

	confirmed, err := c.store.InsertHabit(habit)
	if err != nil {
		return models.Habit{}, c.revert("add habit", err)
	}
	c.replaceHabitLocal(habit.ID, confirmed)

	c.normalizePriorities()
	return confirmed, nil
}

// UpdateHabit applies a partial edit to a habit.
func (c *Coordinator) UpdateHabit(id string, patch storage.HabitPatch) error {
	habit, ok := c.Habit(id)
	if !ok {
		return fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	patched := applyPatch(habit, patch)
	if err := validation.Habit(patched); err != nil {
		return err
	}

	c.beginOp()
	defer c.endOp()

	c.replaceHabitLocal(id, patched)

	if err := c.store.UpdateHabit(id, patch); err != nil {
		return c.revert("update habit", err)
	}
	return nil
}

// DeleteHabit removes a habit; its logs go with it by store policy.
func (c *Coordinator) DeleteHabit(id string) error {
	if _, ok := c.Habit(id); !ok {
		return fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}

	c.beginOp()
	defer c.endOp()

	c.mu.Lock()
	c.habits = slices.DeleteFunc(c.habits, func(h models.Habit) bool { return h.ID == id })
	c.logs = slices.DeleteFunc(c.logs, func(l models.HabitLog) bool { return l.HabitID == id })
	c.mu.Unlock()

	if err := c.store.DeleteHabit(id); err != nil {
		return c.revert("delete habit", err)
	}

	c.normalizePriorities()
	return nil
}

// ArchiveHabit marks a habit inactive from now on.
func (c *Coordinator) ArchiveHabit(id string) error {
	now := time.Now()
	if err := c.UpdateHabit(id, storage.HabitPatch{ArchivedAt: &now}); err != nil {
		return err
	}

	c.beginOp()
	defer c.endOp()
	c.normalizePriorities()
	return nil
}

// ResumeHabit clears a habit's archive mark.
func (c *Coordinator) ResumeHabit(id string) error {
	if err := c.UpdateHabit(id, storage.HabitPatch{ClearArchivedAt: true}); err != nil {
		return err
	}

	c.beginOp()
	defer c.endOp()
	c.normalizePriorities()
	return nil
}

// ToggleLog flips the completion state for a (habit, day) pair: if a log
// exists it is deleted, otherwise one is created. The semantics are strictly
// existence-based. Returns true when the day ends up completed.
func (c *Coordinator) ToggleLog(habitID, day string) (bool, error) {
	if err := validation.Day(day); err != nil {
		return false, err
	}
	if _, ok := c.Habit(habitID); !ok {
		return false, fmt.Errorf("habit %s: %w", habitID, storage.ErrNotFound)
	}

	c.beginOp()
	defer c.endOp()

	if existing, ok := c.LogFor(habitID, day); ok {
		c.removeLogLocal(existing.ID)
		if err := c.store.DeleteLog(existing.ID); err != nil {
			return false, c.revert("toggle log off", err)
		}
		return false, nil
	}

	log := models.HabitLog{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		Day:       day,
		CreatedAt: time.Now(),
	}
	c.mu.Lock()
	c.logs = append(c.logs, log)
	c.mu.Unlock()

	confirmed, err := c.store.InsertLog(log)
	if err != nil {
		return false, c.revert("toggle log on", err)
	}
	c.replaceLogLocal(log.ID, confirmed)
	return true, nil
}

// AddLogValue adds a quantity to the day's accumulated value, creating the
// log on first use.
func (c *Coordinator) AddLogValue(habitID, day string, amount float64) error {
	if err := validation.Day(day); err != nil {
		return err
	}
	if err := validation.Value(amount); err != nil {
		return err
	}
	if _, ok := c.Habit(habitID); !ok {
		return fmt.Errorf("habit %s: %w", habitID, storage.ErrNotFound)
	}

	c.beginOp()
	defer c.endOp()

	if existing, ok := c.LogFor(habitID, day); ok {
		total := amount
		if existing.Value != nil {
			total += *existing.Value
		}
		updated := existing
		updated.Value = &total
		c.replaceLogLocal(existing.ID, updated)

		if err := c.store.UpdateLog(existing.ID, storage.LogPatch{Value: &total}); err != nil {
			return c.revert("add log value", err)
		}
		return nil
	}

	log := models.HabitLog{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		Day:       day,
		Value:     &amount,
		CreatedAt: time.Now(),
	}
	c.mu.Lock()
	c.logs = append(c.logs, log)
	c.mu.Unlock()

	confirmed, err := c.store.InsertLog(log)
	if err != nil {
		return c.revert("add log value", err)
	}
	c.replaceLogLocal(log.ID, confirmed)
	return nil
}

// UpdateLogValue overwrites a log's accumulated value. Setting it to zero
// deletes the log: a day with no value has no record at all.
func (c *Coordinator) UpdateLogValue(logID string, value float64) error {
	if err := validation.Value(value); err != nil {
		return err
	}

	c.mu.RLock()
	idx := slices.IndexFunc(c.logs, func(l models.HabitLog) bool { return l.ID == logID })
	c.mu.RUnlock()
	if idx < 0 {
		return fmt.Errorf("log %s: %w", logID, storage.ErrNotFound)
	}

	c.beginOp()
	defer c.endOp()

	if value == 0 {
		c.removeLogLocal(logID)
		if err := c.store.DeleteLog(logID); err != nil {
			return c.revert("clear log value", err)
		}
		return nil
	}

	c.mu.Lock()
	if i := slices.IndexFunc(c.logs, func(l models.HabitLog) bool { return l.ID == logID }); i >= 0 {
		c.logs[i].Value = &value
	}
	c.mu.Unlock()

	if err := c.store.UpdateLog(logID, storage.LogPatch{Value: &value}); err != nil {
		return c.revert("update log value", err)
	}
	return nil
}

// ToggleSkipDay adds or removes an explicit skip date on a habit.
func (c *Coordinator) ToggleSkipDay(habitID, day string) error {
	if err := validation.Day(day); err != nil {
		return err
	}
	habit, ok := c.Habit(habitID)
	if !ok {
		return fmt.Errorf("habit %s: %w", habitID, storage.ErrNotFound)
	}

	skips := slices.Clone(habit.SkipDates)
	if i := slices.Index(skips, day); i >= 0 {
		skips = slices.Delete(skips, i, i+1)
	} else {
		skips = append(skips, day)
		sort.Strings(skips)
	}

	return c.UpdateHabit(habitID, storage.HabitPatch{SkipDates: &skips})
}

// normalizePriorities reloads the owner's habits ordered by (priority asc,
// created desc) and reassigns a dense 1..N sequence, persisting only the
// rows whose priority actually moved. Newest creation wins a priority tie.
// Callers hold an in-flight mark already.
func (c *Coordinator) normalizePriorities() {
	habits, err := c.store.ListHabits(c.ownerID)
	if err != nil {
		logger.Warn("Priority normalization skipped, list failed", "error", err)
		return
	}

	sort.SliceStable(habits, func(i, j int) bool {
		if habits[i].Priority != habits[j].Priority {
			return habits[i].Priority < habits[j].Priority
		}
		return habits[i].CreatedAt.After(habits[j].CreatedAt)
	})

	for i := range habits {
		want := i + 1
		if habits[i].Priority == want {
			continue
		}
		habits[i].Priority = want
		priority := want
		if err := c.store.UpdateHabit(habits[i].ID, storage.HabitPatch{Priority: &priority}); err != nil {
			logger.Warn("Failed to persist normalized priority",
				"habit", habits[i].ID, "priority", want, "error", err)
		}
	}

	c.mu.Lock()
	c.habits = habits
	c.mu.Unlock()
}

func (c *Coordinator) replaceHabitLocal(id string, habit models.Habit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := slices.IndexFunc(c.habits, func(h models.Habit) bool { return h.ID == id }); i >= 0 {
		c.habits[i] = habit
	}
}

// replaceLogLocal swaps an optimistic log for the server-confirmed one,
// falling back to the (habit, day) pair so a server-assigned id cannot
// orphan the local row.
func (c *Coordinator) replaceLogLocal(optimisticID string, log models.HabitLog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := slices.IndexFunc(c.logs, func(l models.HabitLog) bool { return l.ID == optimisticID }); i >= 0 {
		c.logs[i] = log
		return
	}
	if i := slices.IndexFunc(c.logs, func(l models.HabitLog) bool {
		return l.HabitID == log.HabitID && l.Day == log.Day
	}); i >= 0 {
		c.logs[i] = log
	}
}

func (c *Coordinator) removeLogLocal(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs = slices.DeleteFunc(c.logs, func(l models.HabitLog) bool { return l.ID == id })
}

// applyPatch returns the habit with the partial update applied, for
// optimistic local state and pre-write validation.
func applyPatch(habit models.Habit, patch storage.HabitPatch) models.Habit {
	if patch.Name != nil {
		habit.Name = *patch.Name
	}
	if patch.Category != nil {
		habit.Category = *patch.Category
	}
	if patch.Frequency != nil {
		habit.Frequency = *patch.Frequency
	}
	if patch.MonthGoal != nil {
		habit.MonthGoal = *patch.MonthGoal
	}
	if patch.TargetValue != nil {
		habit.TargetValue = patch.TargetValue
	}
	if patch.Unit != nil {
		habit.Unit = *patch.Unit
	}
	if patch.SkipDates != nil {
		habit.SkipDates = *patch.SkipDates
	}
	if patch.Priority != nil {
		habit.Priority = *patch.Priority
	}
	if patch.ClearArchivedAt {
		habit.ArchivedAt = nil
	} else if patch.ArchivedAt != nil {
		habit.ArchivedAt = patch.ArchivedAt
	}
	return habit
}
