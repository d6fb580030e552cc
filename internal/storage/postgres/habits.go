package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/models"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/storage"
)

const habitColumns = `id, owner_id, name, category, frequency, month_goal,
	target_value, unit, skip_dates, priority, created_at, archived_at`

func scanHabit(scan func(dest ...any) error) (models.Habit, error) {
	var h models.Habit
	var frequency, skipDates []byte
	var archivedAt sql.NullTime
	var targetValue sql.NullFloat64

	err := scan(&h.ID, &h.OwnerID, &h.Name, &h.Category, &frequency, &h.MonthGoal,
		&targetValue, &h.Unit, &skipDates, &h.Priority, &h.CreatedAt, &archivedAt)
	if err != nil {
		return models.Habit{}, err
	}

	if err := json.Unmarshal(frequency, &h.Frequency); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse frequency for habit %s: %w", h.ID, err)
	}
	if err := json.Unmarshal(skipDates, &h.SkipDates); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse skip_dates for habit %s: %w", h.ID, err)
	}
	if targetValue.Valid {
		h.TargetValue = &targetValue.Float64
	}
	if archivedAt.Valid {
		t := archivedAt.Time
		h.ArchivedAt = &t
	}
	return h, nil
}

func (s *Store) ListHabits(ownerID string) ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT `+habitColumns+`
		FROM habits WHERE owner_id = $1
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

	var targetValue sql.NullFloat64
	if habit.TargetValue != nil {
		targetValue = sql.NullFloat64{Float64: *habit.TargetValue, Valid: true}
	}
	var archivedAt sql.NullTime
	if habit.ArchivedAt != nil {
		archivedAt = sql.NullTime{Time: *habit.ArchivedAt, Valid: true}
	}

	row := s.db.QueryRow(`
		INSERT INTO habits (id, owner_id, name, category, frequency, month_goal,
			target_value, unit, skip_dates, priority, created_at, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+habitColumns,
		habit.ID, habit.OwnerID, habit.Name, habit.Category, frequency, habit.MonthGoal,
		targetValue, habit.Unit, skips, habit.Priority, habit.CreatedAt, archivedAt)

	return scanHabit(row.Scan)
}

func (s *Store) UpdateHabit(id string, patch storage.HabitPatch) error {
	var sets []string
	var args []any

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
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
		appendSet("frequency", frequency)
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
		appendSet("skip_dates", skips)
	}
	if patch.Priority != nil {
		appendSet("priority", *patch.Priority)
	}
	if patch.ClearArchivedAt {
		sets = append(sets, "archived_at = NULL")
	} else if patch.ArchivedAt != nil {
		appendSet("archived_at", *patch.ArchivedAt)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE habits SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

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
	return nil
}

func (s *Store) DeleteHabit(id string) error {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = $1`, id)
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
	return nil
}
