package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/models"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/storage"
)

func scanHabit(scan func(dest ...any) error) (models.Habit, error) {
	var h models.Habit
	var frequency, skipDates, createdAt string
	var archivedAt sql.NullString
	var targetValue sql.NullFloat64

	err := scan(&h.ID, &h.OwnerID, &h.Name, &h.Category, &frequency, &h.MonthGoal,
		&targetValue, &h.Unit, &skipDates, &h.Priority, &createdAt, &archivedAt)
	if err != nil {
		return models.Habit{}, err
	}

	if err := json.Unmarshal([]byte(frequency), &h.Frequency); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse frequency for habit %s: %w", h.ID, err)
	}
	if err := json.Unmarshal([]byte(skipDates), &h.SkipDates); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse skip_dates for habit %s: %w", h.ID, err)
	}
	if targetValue.Valid {
		h.TargetValue = &targetValue.Float64
	}
	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	if archivedAt.Valid {
		t, err := time.Parse(time.RFC3339, archivedAt.String)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse archived_at for habit %s: %w", h.ID, err)
		}
		h.ArchivedAt = &t
	}

	return h, nil
}

const habitColumns = `id, owner_id, name, category, frequency, month_goal,
	target_value, unit, skip_dates, priority, created_at, archived_at`

func (s *Store) ListHabits(ownerID string) ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT `+habitColumns+`
		FROM habits WHERE owner_id = ?
		ORDER BY priority, created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows.Scan)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) InsertHabit(habit models.Habit) (models.Habit, error) {
	frequency, err := json.Marshal(habit.Frequency)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to encode frequency: %w", err)
	}
	skipDates := habit.SkipDates
	if skipDates == nil {
		skipDates = []string{}
	}
	skips, err := json.Marshal(skipDates)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to encode skip_dates: %w", err)
	}

	var archivedAt sql.NullString
	if habit.ArchivedAt != nil {
		archivedAt = sql.NullString{String: habit.ArchivedAt.Format(time.RFC3339), Valid: true}
	}
	var targetValue sql.NullFloat64
	if habit.TargetValue != nil {
		targetValue = sql.NullFloat64{Float64: *habit.TargetValue, Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT INTO habits (id, owner_id, name, category, frequency, month_goal,
			target_value, unit, skip_dates, priority, created_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.OwnerID, habit.Name, habit.Category, string(frequency), habit.MonthGoal,
		targetValue, habit.Unit, string(skips), habit.Priority,
		habit.CreatedAt.Format(time.RFC3339), archivedAt)
	if err != nil {
		return models.Habit{}, err
	}

	s.emit("habits", storage.EventInsert)
	return s.getHabit(habit.ID)
}

func (s *Store) getHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row.Scan)
	if err == sql.ErrNoRows {
		return models.Habit{}, storage.ErrNotFound
	}
	return h, err
}

func (s *Store) UpdateHabit(id string, patch storage.HabitPatch) error {
	var sets []string
	var args []any

	appendSet := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.Name != nil {
		appendSet("name", *patch.Name)
	}
	if patch.Category != nil {
		appendSet("category", *patch.Category)
	}
	if patch.Frequency != nil {
		frequency, err := json.Marshal(*patch.Frequency)
		if err != nil {
			return fmt.Errorf("failed to encode frequency: %w", err)
		}
		appendSet("frequency", string(frequency))
	}
	if patch.MonthGoal != nil {
		appendSet("month_goal", *patch.MonthGoal)
	}
	if patch.TargetValue != nil {
		appendSet("target_value", *patch.TargetValue)
	}
	if patch.Unit != nil {
		appendSet("unit", *patch.Unit)
	}
	if patch.SkipDates != nil {
		skips, err := json.Marshal(*patch.SkipDates)
		if err != nil {
			return fmt.Errorf("failed to encode skip_dates: %w", err)
		}
		appendSet("skip_dates", string(skips))
	}
	if patch.Priority != nil {
		appendSet("priority", *patch.Priority)
	}
	if patch.ClearArchivedAt {
		sets = append(sets, "archived_at = NULL")
	} else if patch.ArchivedAt != nil {
		appendSet("archived_at", patch.ArchivedAt.Format(time.RFC3339))
	}

	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE habits SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return storage.ErrNotFound
	}

	s.emit("habits", storage.EventUpdate)
	return nil
}

func (s *Store) DeleteHabit(id string) error {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return storage.ErrNotFound
	}

	// Logs cascade with the habit
	s.emit("habits", storage.EventDelete)
	s.emit("habit_logs", storage.EventDelete)
	return nil
}
