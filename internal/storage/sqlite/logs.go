package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/models"
	"github.com/VinayMeesaraganda/Habit-Tracker-sub000/internal/storage"
)

func scanLog(scan func(dest ...any) error) (models.HabitLog, error) {
	var l models.HabitLog
	var value sql.NullFloat64
	var createdAt string

	err := scan(&l.ID, &l.HabitID, &l.Day, &value, &createdAt)
	if err != nil {
		return models.HabitLog{}, err
	}

	if value.Valid {
		l.Value = &value.Float64
	}
	l.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.HabitLog{}, fmt.Errorf("failed to parse created_at for log %s: %w", l.ID, err)
	}
	return l, nil
}

func (s *Store) ListLogs(ownerID string) ([]models.HabitLog, error) {
	rows, err := s.db.Query(`
		SELECT l.id, l.habit_id, l.day, l.value, l.created_at
		FROM habit_logs l
		JOIN habits h ON h.id = l.habit_id
		WHERE h.owner_id = ?
		ORDER BY l.day`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.HabitLog
	for rows.Next() {
		l, err := scanLog(rows.Scan)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *Store) InsertLog(log models.HabitLog) (models.HabitLog, error) {
	var value sql.NullFloat64
	if log.Value != nil {
		value = sql.NullFloat64{Float64: *log.Value, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO habit_logs (id, habit_id, day, value, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		log.ID, log.HabitID, log.Day, value, log.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return models.HabitLog{}, err
	}

	s.emit("habit_logs", storage.EventInsert)

	row := s.db.QueryRow(`SELECT id, habit_id, day, value, created_at FROM habit_logs WHERE id = ?`, log.ID)
	return scanLog(row.Scan)
}

func (s *Store) UpdateLog(id string, patch storage.LogPatch) error {
	if patch.Value == nil {
		return nil
	}

	result, err := s.db.Exec(`UPDATE habit_logs SET value = ? WHERE id = ?`, *patch.Value, id)
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

	s.emit("habit_logs", storage.EventUpdate)
	return nil
}

func (s *Store) DeleteLog(id string) error {
	result, err := s.db.Exec(`DELETE FROM habit_logs WHERE id = ?`, id)
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

	s.emit("habit_logs", storage.EventDelete)
	return nil
}
