package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jobscout/jobscout/internal/model"
)

const remotiveBaseURL = "https://remotive.com/api/remote-jobs"

// remotiveJob represents a single job in the Remotive API response.
type remotiveJob struct {
	ID                        int64    `json:"id"`
	URL                       string   `json:"url"`
	Title                     string   `json:"title"`
	CompanyName               string   `json:"company_name"`
	CandidateRequiredLocation string   `json:"candidate_required_location"`
	JobType                   string   `json:"job_type"`
	PublicationDate           string   `json:"publication_date"`
	Salary                    string   `json:"salary"`
	Description               string   `json:"description"`
	Tags                      []string `json:"tags"`
}

// remotiveResponse is the top-level Remotive API response.
type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

// RemotiveAdapter searches the Remotive public remote-jobs API. Every listing
// it returns is remote by construction.
type RemotiveAdapter struct {
	baseURL string
	client  *http.Client
}

// NewRemotiveAdapter creates a new Remotive adapter.
func NewRemotiveAdapter(client *http.Client) *RemotiveAdapter {
	return &RemotiveAdapter{
		baseURL: remotiveBaseURL,
		client:  client,
	}
}

// Search queries Remotive with the keyword terms and maps each listing into
// a raw posting. Salary is free-form text on this API and is parsed
// best-effort.
func (a *RemotiveAdapter) Search(ctx context.Context, params model.SearchParams) ([]model.RawPosting, error) {
	endpoint := a.baseURL
	if len(params.Keywords) > 0 {
		q := url.Values{}
		q.Set("search", strings.Join(params.Keywords, " "))
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("remotive search: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remotive search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("remotive search: unexpected status %d", resp.StatusCode),
		}
	}

	var rResp remotiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&rResp); err != nil {
		return nil, fmt.Errorf("remotive search: %w", err)
	}

	raws := make([]model.RawPosting, 0, len(rResp.Jobs))
	for _, rj := range rResp.Jobs {
		salaryMin, salaryMax := parseSalaryText(rj.Salary)
		raws = append(raws, model.RawPosting{
			ID:           strconv.FormatInt(rj.ID, 10),
			Title:        rj.Title,
			Company:      rj.CompanyName,
			Location:     rj.CandidateRequiredLocation,
			Description:  extractText(rj.Description),
			Requirements: strings.Join(rj.Tags, ", "),
			SalaryMin:    salaryMin,
			SalaryMax:    salaryMax,
			WorkType:     "remote",
			URL:          rj.URL,
			PostedAt:     rj.PublicationDate,
		})
	}

	return raws, nil
}
