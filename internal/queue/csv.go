package queue

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jobscout/jobscout/internal/model"
)

// csvHeader is the flat tabular format exposed for external reporting.
var csvHeader = []string{"platform", "title", "company", "location", "status", "match_score", "url", "added_at"}

// ExportCSV writes every queue item to w in the flat reporting format,
// oldest first.
func (s *Store) ExportCSV(w io.Writer) error {
	rows, err := s.db.Query(selectColumns + " FROM postings ORDER BY added_at ASC")
	if err != nil {
		return fmt.Errorf("exporting queue: %w", err)
	}
	defer rows.Close()

	items, err := collectItems(rows)
	if err != nil {
		return fmt.Errorf("exporting queue: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, item := range items {
		score := ""
		if item.MatchScore != nil {
			score = strconv.FormatFloat(*item.MatchScore, 'f', 3, 64)
		}
		record := []string{
			item.Posting.Platform,
			item.Posting.Title,
			item.Posting.Company,
			item.Posting.Location,
			string(item.Status),
			score,
			item.Posting.URL,
			item.AddedAt.Format(timeLayout),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV reads rows in the export format and adds them to the queue.
// Rows whose identity already exists are skipped entirely, so importing
// never overwrites existing item state. Returns the number of rows inserted.
func (s *Store) ImportCSV(r io.Reader) (int, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("reading csv header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return 0, fmt.Errorf("csv has %d columns, want %d", len(header), len(csvHeader))
	}

	inserted := 0
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return inserted, fmt.Errorf("reading csv line %d: %w", line, err)
		}

		status, err := model.ParseStatus(record[4])
		if err != nil {
			return inserted, fmt.Errorf("csv line %d: %w", line, err)
		}

		var score *float64
		if record[5] != "" {
			v, err := strconv.ParseFloat(record[5], 64)
			if err != nil {
				return inserted, fmt.Errorf("csv line %d: match_score: %w", line, err)
			}
			score = &v
		}

		addedAt := time.Now().UTC()
		if record[7] != "" {
			if t, err := time.Parse(timeLayout, record[7]); err == nil {
				addedAt = t
			}
		}

		p := model.Posting{
			Platform: record[0],
			Title:    record[1],
			Company:  record[2],
			Location: record[3],
			URL:      record[6],
			WorkType: model.WorkUnknown,
		}

		ok, err := s.insert(p, status, score, addedAt)
		if err != nil {
			return inserted, fmt.Errorf("csv line %d: %w", line, err)
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}
