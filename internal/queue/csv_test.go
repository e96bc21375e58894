package queue

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/jobscout/jobscout/internal/model"
)

func TestExportCSVFormat(t *testing.T) {
	s := newTestStore(t)
	p := posting("Engineer", "https://x.com/1")
	if _, err := s.Upsert(p); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.SetScore(p.ID(), 0.875); err != nil {
		t.Fatalf("SetScore: %v", err)
	}

	var buf bytes.Buffer
	if err := s.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(records))
	}
	if strings.Join(records[0], ",") != "platform,title,company,location,status,match_score,url,added_at" {
		t.Errorf("header = %v", records[0])
	}
	row := records[1]
	if row[0] != "remotive" || row[1] != "Engineer" || row[4] != "queued" || row[5] != "0.875" {
		t.Errorf("row = %v", row)
	}
}

func TestImportCSVRoundTrip(t *testing.T) {
	src := newTestStore(t)
	for _, title := range []string{"A", "B"} {
		p := posting(title, "https://x.com/"+title)
		if _, err := src.Upsert(p); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
	if _, err := src.UpdateStatus(posting("B", "https://x.com/B").ID(), model.StatusReviewed); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	var buf bytes.Buffer
	if err := src.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	dst := newTestStore(t)
	n, err := dst.ImportCSV(&buf)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d rows, want 2", n)
	}

	item, ok, err := dst.Get(posting("B", "https://x.com/B").ID())
	if err != nil || !ok {
		t.Fatalf("Get after import: ok=%v err=%v", ok, err)
	}
	if item.Status != model.StatusReviewed {
		t.Errorf("imported status = %s, want reviewed", item.Status)
	}
}

func TestImportCSVPreservesExistingState(t *testing.T) {
	s := newTestStore(t)
	p := posting("Engineer", "https://x.com/1")
	if _, err := s.Upsert(p); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := s.UpdateStatus(p.ID(), model.StatusApplied); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	// A CSV claiming the same posting is still queued must not downgrade it.
	in := "platform,title,company,location,status,match_score,url,added_at\n" +
		"remotive,Engineer,Acme,Berlin,queued,,https://x.com/1,\n"
	n, err := s.ImportCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if n != 0 {
		t.Errorf("imported %d rows, want 0 (identity already present)", n)
	}

	item, _, _ := s.Get(p.ID())
	if item.Status != model.StatusApplied {
		t.Errorf("status = %s, import must not overwrite", item.Status)
	}
}

func TestImportCSVRejectsBadStatus(t *testing.T) {
	s := newTestStore(t)
	in := "platform,title,company,location,status,match_score,url,added_at\n" +
		"remotive,Engineer,Acme,Berlin,interview,,https://x.com/1,\n"
	if _, err := s.ImportCSV(strings.NewReader(in)); err == nil {
		t.Error("expected error for unknown status")
	}
}
