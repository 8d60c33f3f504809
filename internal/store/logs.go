package store

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateLog inserts a check-in for the given date. The unique index on date
// rejects a second check-in for the same day. A log created mid-paralysis may
// have no mission yet; the mission fields stay empty in that case.
func (s *Store) CreateLog(l DailyLog) (*DailyLog, error) {
	paralysis := 0
	if l.ParalysisSignals {
		paralysis = 1
	}
	res, err := s.db.Exec(
		`INSERT INTO daily_logs (date, energy, paralysis_signals, mission, done_definition, target_time)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		formatDate(l.Date), string(l.Energy), paralysis, l.Mission, l.DoneDefinition, l.TargetTime,
	)
	if err != nil {
		return nil, fmt.Errorf("insert daily log: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetLog(id)
}

// CompleteLog records the end-of-day outcome for the log on the given date.
func (s *Store) CompleteLog(date time.Time, status MissionStatus, blocker BlockerType, decisionMade string) (*DailyLog, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE daily_logs SET mission_status = ?, blocker_type = ?, decision_made = ?, updated_at = ?
		 WHERE date = ?`,
		string(status), string(blocker), decisionMade, now, formatDate(date),
	)
	if err != nil {
		return nil, fmt.Errorf("complete daily log: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return nil, fmt.Errorf("no check-in found for %s", formatDate(date))
	}
	return s.LogByDate(date)
}

func (s *Store) GetLog(id int64) (*DailyLog, error) {
	row := s.db.QueryRow(
		`SELECT id, date, energy, paralysis_signals, mission, done_definition, target_time,
		        mission_status, blocker_type, decision_made, created_at, updated_at
		 FROM daily_logs WHERE id = ?`, id,
	)
	l, err := scanLog(row)
	if err != nil {
		return nil, fmt.Errorf("get daily log %d: %w", id, err)
	}
	return l, nil
}

// LogByDate returns the check-in for the given date, or nil when none exists.
func (s *Store) LogByDate(date time.Time) (*DailyLog, error) {
	row := s.db.QueryRow(
		`SELECT id, date, energy, paralysis_signals, mission, done_definition, target_time,
		        mission_status, blocker_type, decision_made, created_at, updated_at
		 FROM daily_logs WHERE date = ?`, formatDate(date),
	)
	l, err := scanLog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get daily log for %s: %w", formatDate(date), err)
	}
	return l, nil
}

// LogsByRange returns all check-ins with from <= date <= to, ordered by date.
func (s *Store) LogsByRange(from, to time.Time) ([]DailyLog, error) {
	rows, err := s.db.Query(
		`SELECT id, date, energy, paralysis_signals, mission, done_definition, target_time,
		        mission_status, blocker_type, decision_made, created_at, updated_at
		 FROM daily_logs WHERE date >= ? AND date <= ? ORDER BY date`,
		formatDate(from), formatDate(to),
	)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	defer rows.Close()

	var logs []DailyLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLog(sc scanner) (*DailyLog, error) {
	l := &DailyLog{}
	var date, energy, status, blocker, createdAt string
	var paralysis int
	var updatedAt sql.NullString

	err := sc.Scan(
		&l.ID, &date, &energy, &paralysis, &l.Mission, &l.DoneDefinition, &l.TargetTime,
		&status, &blocker, &l.DecisionMade, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Date = parseDate(date)
	l.Energy = Energy(energy)
	l.ParalysisSignals = paralysis == 1
	l.MissionStatus = MissionStatus(status)
	l.BlockerType = BlockerType(blocker)
	l.CreatedAt = parseTimestamp(createdAt)
	if updatedAt.Valid {
		t := parseTimestamp(updatedAt.String)
		l.UpdatedAt = &t
	}
	return l, nil
}
