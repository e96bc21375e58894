// Package queue is the durable, status-tracked collection of discovered
// postings, keyed by stable identity.
package queue

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jobscout/jobscout/internal/model"
)

// timeLayout is the canonical on-disk timestamp format. Fixed-width
// fractional seconds in UTC keep lexical order equal to chronological order,
// so the tiebreak ORDER BY works on the raw column. RFC3339Nano would not:
// it trims trailing fractional zeros, and "...00.5Z" sorts after "...00.51Z".
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store persists queue items in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the queue database at dbPath and ensures the
// schema exists.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening queue db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging queue db: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS postings (
		id           TEXT PRIMARY KEY,
		source_id    TEXT,
		platform     TEXT NOT NULL,
		title        TEXT NOT NULL,
		company      TEXT NOT NULL,
		location     TEXT NOT NULL,
		description  TEXT,
		requirements TEXT,
		salary_min   INTEGER,
		salary_max   INTEGER,
		work_type    TEXT NOT NULL,
		url          TEXT,
		posted_at    TEXT,
		status       TEXT NOT NULL DEFAULT 'queued',
		match_score  REAL,
		analysis     TEXT,
		cover_letter TEXT,
		added_at     TEXT NOT NULL,
		applied_at   TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_postings_score  ON postings(match_score DESC);
	CREATE INDEX IF NOT EXISTS idx_postings_status ON postings(status)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating postings table: %w", err)
	}

	return &Store{db: db}, nil
}

// Upsert inserts the posting as a new queued item if its identity is unseen.
// If the identity already exists the call is a no-op and the existing item's
// status, score and timestamps are left untouched; an item is never
// resurrected to queued. Returns true when a new row was inserted.
func (s *Store) Upsert(p model.Posting) (bool, error) {
	return s.insert(p, model.StatusQueued, nil, time.Now().UTC())
}

// insert writes a new row unless the identity already exists. Shared by
// Upsert and CSV import, which re-adds items with their recorded state.
func (s *Store) insert(p model.Posting, status model.Status, matchScore *float64, addedAt time.Time) (bool, error) {
	res, err := s.db.Exec(`INSERT OR IGNORE INTO postings (
		id, source_id, platform, title, company, location, description,
		requirements, salary_min, salary_max, work_type, url, posted_at,
		status, match_score, added_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID(), p.SourceID, p.Platform, p.Title, p.Company, p.Location,
		p.Description, p.Requirements, nullInt(p.SalaryMin), nullInt(p.SalaryMax),
		string(p.WorkType), p.URL, nullTime(p.PostedAt),
		string(status), nullFloat(matchScore), addedAt.Format(timeLayout),
	)
	if err != nil {
		return false, fmt.Errorf("upserting posting %s: %w", p.ID(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("upserting posting %s: %w", p.ID(), err)
	}
	return n > 0, nil
}

// Get retrieves a queue item by identity. A lookup miss is reported as
// (nil, false, nil), never as an error.
func (s *Store) Get(id string) (*model.QueueItem, bool, error) {
	row := s.db.QueryRow(selectColumns+" FROM postings WHERE id = ?", id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("getting posting %s: %w", id, err)
	}
	return item, true, nil
}

// List returns queue items, optionally restricted to one status, newest
// first.
func (s *Store) List(status *model.Status) ([]model.QueueItem, error) {
	query := selectColumns + " FROM postings"
	var args []any
	if status != nil {
		query += " WHERE status = ?"
		args = append(args, string(*status))
	}
	query += " ORDER BY added_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing postings: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// UpdateStatus moves an item to a new status. It returns false (no error)
// when the id is unknown, and model.ErrInvalidTransition when the lifecycle
// forbids the move. Transitioning to applied stamps applied_at.
func (s *Store) UpdateStatus(id string, status model.Status) (bool, error) {
	var current string
	err := s.db.QueryRow("SELECT status FROM postings WHERE id = ?", id).Scan(&current)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading status of %s: %w", id, err)
	}

	from, err := model.ParseStatus(current)
	if err != nil {
		return false, fmt.Errorf("stored status of %s: %w", id, err)
	}
	if !model.CanTransition(from, status) {
		return false, fmt.Errorf("%s → %s: %w", from, status, model.ErrInvalidTransition)
	}

	if status == model.StatusApplied {
		_, err = s.db.Exec("UPDATE postings SET status = ?, applied_at = ? WHERE id = ?",
			string(status), time.Now().UTC().Format(timeLayout), id)
	} else {
		_, err = s.db.Exec("UPDATE postings SET status = ? WHERE id = ?", string(status), id)
	}
	if err != nil {
		return false, fmt.Errorf("updating status of %s: %w", id, err)
	}
	return true, nil
}

// SetScore attaches a match score to an item. Unknown ids are a silent
// no-op, mirroring UpdateStatus.
func (s *Store) SetScore(id string, scoreVal float64) error {
	_, err := s.db.Exec("UPDATE postings SET match_score = ? WHERE id = ?", scoreVal, id)
	if err != nil {
		return fmt.Errorf("setting score of %s: %w", id, err)
	}
	return nil
}

// SetAnalysis stores the structured AI analysis as JSON.
func (s *Store) SetAnalysis(id string, a *model.Analysis) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding analysis for %s: %w", id, err)
	}
	if _, err := s.db.Exec("UPDATE postings SET analysis = ? WHERE id = ?", string(data), id); err != nil {
		return fmt.Errorf("setting analysis of %s: %w", id, err)
	}
	return nil
}

// SetCoverLetter stores a drafted cover letter on an item.
func (s *Store) SetCoverLetter(id string, text string) error {
	if _, err := s.db.Exec("UPDATE postings SET cover_letter = ? WHERE id = ?", text, id); err != nil {
		return fmt.Errorf("setting cover letter of %s: %w", id, err)
	}
	return nil
}

// TopMatches returns the highest-scoring items, ties broken by most recent
// discovery. Rejected items are always excluded; unscored items are not
// ranked.
func (s *Store) TopMatches(limit int, minScore float64) ([]model.QueueItem, error) {
	rows, err := s.db.Query(selectColumns+` FROM postings
		WHERE match_score IS NOT NULL AND match_score >= ? AND status != 'rejected'
		ORDER BY match_score DESC, added_at DESC
		LIMIT ?`, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top matches: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// Stats summarizes the queue: per-status counts and the average match score
// over all non-rejected items.
type Stats struct {
	Total    int
	ByStatus map[model.Status]int
	AvgScore float64
}

// Stats returns queue statistics.
func (s *Store) Stats() (Stats, error) {
	stats := Stats{ByStatus: make(map[model.Status]int)}

	rows, err := s.db.Query("SELECT status, COUNT(*) FROM postings GROUP BY status")
	if err != nil {
		return stats, fmt.Errorf("counting by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return stats, fmt.Errorf("scanning status count: %w", err)
		}
		stats.ByStatus[model.Status(status)] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("counting by status: %w", err)
	}

	var avg sql.NullFloat64
	err = s.db.QueryRow("SELECT AVG(match_score) FROM postings WHERE status != 'rejected'").Scan(&avg)
	if err != nil {
		return stats, fmt.Errorf("averaging match scores: %w", err)
	}
	if avg.Valid {
		stats.AvgScore = avg.Float64
	}
	return stats, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const selectColumns = `SELECT id, source_id, platform, title, company, location,
	description, requirements, salary_min, salary_max, work_type, url,
	posted_at, status, match_score, analysis, cover_letter, added_at, applied_at`

// scannable covers both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanItem(row scannable) (*model.QueueItem, error) {
	var (
		id, platform, title, company, location, workType, status string
		sourceID, description, requirements, url                 sql.NullString
		salaryMin, salaryMax                                     sql.NullInt64
		matchScore                                               sql.NullFloat64
		analysis, coverLetter, postedAt, appliedAt               sql.NullString
		addedAt                                                  string
	)

	err := row.Scan(&id, &sourceID, &platform, &title, &company, &location,
		&description, &requirements, &salaryMin, &salaryMax, &workType, &url,
		&postedAt, &status, &matchScore, &analysis, &coverLetter, &addedAt, &appliedAt)
	if err != nil {
		return nil, err
	}

	item := &model.QueueItem{
		Posting: model.Posting{
			SourceID:     sourceID.String,
			Platform:     platform,
			Title:        title,
			Company:      company,
			Location:     location,
			Description:  description.String,
			Requirements: requirements.String,
			WorkType:     model.WorkType(workType),
			URL:          url.String,
		},
		Status:      model.Status(status),
		CoverLetter: coverLetter.String,
	}

	if salaryMin.Valid {
		v := salaryMin.Int64
		item.Posting.SalaryMin = &v
	}
	if salaryMax.Valid {
		v := salaryMax.Int64
		item.Posting.SalaryMax = &v
	}
	if matchScore.Valid {
		v := matchScore.Float64
		item.MatchScore = &v
	}
	if analysis.Valid && analysis.String != "" {
		var a model.Analysis
		if err := json.Unmarshal([]byte(analysis.String), &a); err != nil {
			return nil, fmt.Errorf("decoding analysis of %s: %w", id, err)
		}
		item.Analysis = &a
	}
	if t, err := time.Parse(timeLayout, addedAt); err == nil {
		item.AddedAt = t
	}
	if postedAt.Valid {
		if t, err := time.Parse(timeLayout, postedAt.String); err == nil {
			item.Posting.PostedAt = &t
		}
	}
	if appliedAt.Valid {
		if t, err := time.Parse(timeLayout, appliedAt.String); err == nil {
			item.AppliedAt = &t
		}
	}
	return item, nil
}

func collectItems(rows *sql.Rows) ([]model.QueueItem, error) {
	var items []model.QueueItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning posting: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating postings: %w", err)
	}
	return items, nil
}

func nullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}
