package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jobscout/jobscout/internal/model"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob represents a single job in the Greenhouse API response.
type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Location    greenhouseLocation `json:"location"`
	Content     string             `json:"content"`
	AbsoluteURL string             `json:"absolute_url"`
	UpdatedAt   string             `json:"updated_at"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

// greenhouseResponse is the top-level Greenhouse jobs API response.
type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// GreenhouseAdapter searches a single company's Greenhouse public board. The
// API lists a whole board, so keyword filtering happens client-side.
type GreenhouseAdapter struct {
	baseURL     string
	boardToken  string
	companyName string
	client      *http.Client
}

// NewGreenhouseAdapter creates a new adapter for a Greenhouse board.
func NewGreenhouseAdapter(boardToken string, companyName string, client *http.Client) *GreenhouseAdapter {
	return &GreenhouseAdapter{
		baseURL:     greenhouseBaseURL,
		boardToken:  boardToken,
		companyName: companyName,
		client:      client,
	}
}

// Search retrieves the board's open roles with descriptions and keeps those
// matching any keyword in the title or content.
func (a *GreenhouseAdapter) Search(ctx context.Context, params model.SearchParams) ([]model.RawPosting, error) {
	endpoint := fmt.Sprintf("%s/%s/jobs?content=true", a.baseURL, a.boardToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("greenhouse search for %s: %w", a.boardToken, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("greenhouse search for %s: %w", a.boardToken, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("greenhouse search for %s: unexpected status %d", a.boardToken, resp.StatusCode),
		}
	}

	var ghResp greenhouseResponse
	if err := json.NewDecoder(resp.Body).Decode(&ghResp); err != nil {
		return nil, fmt.Errorf("greenhouse search for %s: %w", a.boardToken, err)
	}

	raws := make([]model.RawPosting, 0, len(ghResp.Jobs))
	for _, gj := range ghResp.Jobs {
		description := extractText(gj.Content)
		if !matchesKeywords(params.Keywords, gj.Title, description) {
			continue
		}

		raws = append(raws, model.RawPosting{
			ID:          strconv.FormatInt(gj.ID, 10),
			Title:       gj.Title,
			Company:     a.companyName,
			Location:    gj.Location.Name,
			Description: description,
			URL:         gj.AbsoluteURL,
			PostedAt:    gj.UpdatedAt,
		})
	}

	return raws, nil
}
