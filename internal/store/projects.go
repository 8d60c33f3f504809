package store

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateProject inserts a new active project. The 3-active hard cap is
// advisory and checked by the calling layer, not enforced here.
func (s *Store) CreateProject(name string, targetDate *time.Time) (*Project, error) {
	var target any
	if targetDate != nil {
		target = formatDate(*targetDate)
	}
	res, err := s.db.Exec(
		`INSERT INTO projects (name, target_date, status) VALUES (?, ?, ?)`,
		name, target, string(ProjectActive),
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetProject(id)
}

func (s *Store) GetProject(id int64) (*Project, error) {
	row := s.db.QueryRow(
		`SELECT id, name, target_date, status, shipped_early, created_at, completed_at
		 FROM projects WHERE id = ?`, id,
	)
	p, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	return p, nil
}

// ProjectsByStatus returns projects in a given state, oldest first. The
// stable creation-time order keeps pickers and tests deterministic.
func (s *Store) ProjectsByStatus(status ProjectStatus) ([]Project, error) {
	rows, err := s.db.Query(
		`SELECT id, name, target_date, status, shipped_early, created_at, completed_at
		 FROM projects WHERE status = ? ORDER BY created_at, id`, string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("list projects by status: %w", err)
	}
	return collectProjects(rows)
}

// AllProjects returns every project, newest first.
func (s *Store) AllProjects() ([]Project, error) {
	rows, err := s.db.Query(
		`SELECT id, name, target_date, status, shipped_early, created_at, completed_at
		 FROM projects ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return collectProjects(rows)
}

func (s *Store) CountProjectsByStatus(status ProjectStatus) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM projects WHERE status = ?`, string(status),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count projects by status: %w", err)
	}
	return n, nil
}

// ShipProject marks an active project shipped. shippedEarly is derived from
// the target date: true when shipped on or before it, false when late or when
// no target was set.
func (s *Store) ShipProject(id int64, today time.Time) (*Project, error) {
	p, err := s.GetProject(id)
	if err != nil {
		return nil, err
	}
	if p.Status != ProjectActive {
		return nil, fmt.Errorf("project %q is already %s", p.Name, p.Status)
	}

	shippedEarly := 0
	if p.TargetDate != nil && formatDate(today) <= formatDate(*p.TargetDate) {
		shippedEarly = 1
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`UPDATE projects SET status = ?, shipped_early = ?, completed_at = ? WHERE id = ?`,
		string(ProjectShipped), shippedEarly, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("ship project: %w", err)
	}
	return s.GetProject(id)
}

// KillProject marks an active project killed. Terminal, like shipped.
func (s *Store) KillProject(id int64) (*Project, error) {
	p, err := s.GetProject(id)
	if err != nil {
		return nil, err
	}
	if p.Status != ProjectActive {
		return nil, fmt.Errorf("project %q is already %s", p.Name, p.Status)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`UPDATE projects SET status = ?, completed_at = ? WHERE id = ?`,
		string(ProjectKilled), now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("kill project: %w", err)
	}
	return s.GetProject(id)
}

func collectProjects(rows *sql.Rows) ([]Project, error) {
	defer rows.Close()
	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func scanProject(sc scanner) (*Project, error) {
	p := &Project{}
	var status, createdAt string
	var targetDate, completedAt sql.NullString
	var shippedEarly sql.NullInt64

	err := sc.Scan(&p.ID, &p.Name, &targetDate, &status, &shippedEarly, &createdAt, &completedAt)
	if err != nil {
		return nil, err
	}
	p.Status = ProjectStatus(status)
	p.CreatedAt = parseTimestamp(createdAt)
	if targetDate.Valid {
		t := parseDate(targetDate.String)
		p.TargetDate = &t
	}
	if shippedEarly.Valid {
		b := shippedEarly.Int64 == 1
		p.ShippedEarly = &b
	}
	if completedAt.Valid {
		t := parseTimestamp(completedAt.String)
		p.CompletedAt = &t
	}
	return p, nil
}
