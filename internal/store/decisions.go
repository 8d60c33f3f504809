package store

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateDecision logs a decision-protocol outcome. Decisions are immutable
// once written; there is intentionally no update path.
func (s *Store) CreateDecision(d Decision) (*Decision, error) {
	paralysis := 0
	if d.MadeUnderParalysis {
		paralysis = 1
	}
	var timeToDecide any
	if d.TimeToDecide != nil {
		timeToDecide = *d.TimeToDecide
	}
	res, err := s.db.Exec(
		`INSERT INTO decisions (date, decision, time_to_decide, made_under_paralysis, outcome, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		formatDate(d.Date), d.Decision, timeToDecide, paralysis, string(d.Outcome), d.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert decision: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetDecision(id)
}

func (s *Store) GetDecision(id int64) (*Decision, error) {
	row := s.db.QueryRow(
		`SELECT id, date, decision, time_to_decide, made_under_paralysis, outcome, notes, created_at
		 FROM decisions WHERE id = ?`, id,
	)
	d, err := scanDecision(row)
	if err != nil {
		return nil, fmt.Errorf("get decision %d: %w", id, err)
	}
	return d, nil
}

// DecisionsByRange returns all decisions with from <= date <= to, ordered by date.
func (s *Store) DecisionsByRange(from, to time.Time) ([]Decision, error) {
	rows, err := s.db.Query(
		`SELECT id, date, decision, time_to_decide, made_under_paralysis, outcome, notes, created_at
		 FROM decisions WHERE date >= ? AND date <= ? ORDER BY date, id`,
		formatDate(from), formatDate(to),
	)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, *d)
	}
	return decisions, rows.Err()
}

func scanDecision(sc scanner) (*Decision, error) {
	d := &Decision{}
	var date, outcome, createdAt string
	var paralysis int
	var timeToDecide sql.NullInt64

	err := sc.Scan(&d.ID, &date, &d.Decision, &timeToDecide, &paralysis, &outcome, &d.Notes, &createdAt)
	if err != nil {
		return nil, err
	}
	d.Date = parseDate(date)
	d.MadeUnderParalysis = paralysis == 1
	d.Outcome = Outcome(outcome)
	d.CreatedAt = parseTimestamp(createdAt)
	if timeToDecide.Valid {
		m := int(timeToDecide.Int64)
		d.TimeToDecide = &m
	}
	return d, nil
}
