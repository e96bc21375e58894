package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jobscout/jobscout/internal/model"
)

const arbeitnowBaseURL = "https://www.arbeitnow.com/api/job-board-api"

// arbeitnowJob represents a single job in the Arbeitnow API response.
type arbeitnowJob struct {
	Slug        string   `json:"slug"`
	CompanyName string   `json:"company_name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Remote      bool     `json:"remote"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	JobTypes    []string `json:"job_types"`
	Location    string   `json:"location"`
	CreatedAt   int64    `json:"created_at"`
}

// arbeitnowResponse is the top-level Arbeitnow API response.
type arbeitnowResponse struct {
	Data []arbeitnowJob `json:"data"`
}

// ArbeitnowAdapter searches the Arbeitnow public job-board API. The API has
// no server-side search, so keyword and location filtering happen client-side
// over the returned page.
type ArbeitnowAdapter struct {
	baseURL string
	client  *http.Client
}

// NewArbeitnowAdapter creates a new Arbeitnow adapter.
func NewArbeitnowAdapter(client *http.Client) *ArbeitnowAdapter {
	return &ArbeitnowAdapter{
		baseURL: arbeitnowBaseURL,
		client:  client,
	}
}

// Search fetches the current board page and keeps listings matching any
// keyword in the title, tags or description. Location filtering is applied
// only to on-site listings; remote listings always pass.
func (a *ArbeitnowAdapter) Search(ctx context.Context, params model.SearchParams) ([]model.RawPosting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("arbeitnow search: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arbeitnow search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("arbeitnow search: unexpected status %d", resp.StatusCode),
		}
	}

	var aResp arbeitnowResponse
	if err := json.NewDecoder(resp.Body).Decode(&aResp); err != nil {
		return nil, fmt.Errorf("arbeitnow search: %w", err)
	}

	raws := make([]model.RawPosting, 0, len(aResp.Data))
	for _, aj := range aResp.Data {
		tags := strings.Join(aj.Tags, ", ")
		if !matchesKeywords(params.Keywords, aj.Title, tags, aj.Description) {
			continue
		}
		if !aj.Remote && !matchesKeywords(params.Locations, aj.Location) {
			continue
		}

		workType := "onsite"
		if aj.Remote {
			workType = "remote"
		}

		var postedAt string
		if aj.CreatedAt > 0 {
			postedAt = time.Unix(aj.CreatedAt, 0).UTC().Format(time.RFC3339)
		}

		raws = append(raws, model.RawPosting{
			ID:           aj.Slug,
			Title:        aj.Title,
			Company:      aj.CompanyName,
			Location:     aj.Location,
			Description:  extractText(aj.Description),
			Requirements: tags,
			WorkType:     workType,
			URL:          aj.URL,
			PostedAt:     postedAt,
		})
	}

	return raws, nil
}
