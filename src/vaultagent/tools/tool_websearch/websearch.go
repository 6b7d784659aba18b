package tool_websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/user/vaultagent/src/agent"
	"github.com/user/vaultagent/src/vaultagent/toolsutil"
)

// Tool name constant
const Name = "web_search"

const webSearchPrompt = `Search the web and return results with source links.

Use this for questions about current events or anything not covered by the vault. Each result carries a title, URL, and snippet; cite the URLs when you use a result.`

const (
	defaultCount = 5
	maxCount     = 20
	braveBaseURL = "https://api.search.brave.com/res/v1/web/search"
)

// WebSearchInput represents the input for a web search
type WebSearchInput struct {
	Query string `json:"query" required:"true" description:"Search query"`
	Count int    `json:"count,omitempty" description:"Number of results (default 5, max 20)"`
}

// SearchResult is one web search hit
type SearchResult struct {
	Title       string `json:"title" description:"Result title"`
	URL         string `json:"url" description:"Source URL"`
	Description string `json:"description" description:"Result snippet"`
}

// WebSearchOutput represents the result of a web search
type WebSearchOutput struct {
	Results []SearchResult `json:"results" description:"Search results with source citations"`
}

type braveResponse struct {
	Web struct {
		Results []SearchResult `json:"results"`
	} `json:"web"`
}

// Searcher performs a web search against the Brave Search API.
type Searcher struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSearcher creates a searcher with the given API key. baseURL overrides
// the production endpoint, pass "" outside of tests.
func NewSearcher(apiKey, baseURL string) *Searcher {
	if baseURL == "" {
		baseURL = braveBaseURL
	}
	return &Searcher{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *Searcher) search(ctx context.Context, input WebSearchInput) (WebSearchOutput, error) {
	if s.apiKey == "" {
		return WebSearchOutput{}, fmt.Errorf("web search is not configured: missing API key")
	}
	if strings.TrimSpace(input.Query) == "" {
		return WebSearchOutput{}, fmt.Errorf("query is required")
	}
	count := input.Count
	if count <= 0 {
		count = defaultCount
	}
	if count > maxCount {
		count = maxCount
	}

	u, err := url.Parse(s.baseURL)
	if err != nil {
		return WebSearchOutput{}, fmt.Errorf("invalid search endpoint: %v", err)
	}
	q := u.Query()
	q.Set("q", input.Query)
	q.Set("count", fmt.Sprintf("%d", count))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return WebSearchOutput{}, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return WebSearchOutput{}, fmt.Errorf("search request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return WebSearchOutput{}, fmt.Errorf("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		toolsutil.GetLogger().Error("search API error", "status", resp.StatusCode)
		return WebSearchOutput{}, fmt.Errorf("search API error (status %d)", resp.StatusCode)
	}

	var parsed braveResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return WebSearchOutput{}, fmt.Errorf("failed to parse response: %v", err)
	}
	return WebSearchOutput{Results: parsed.Web.Results}, nil
}

// Tool returns the web_search tool definition using GenericTool
func Tool(s *Searcher) (agent.Tool, error) {
	return agent.NewGenericTool(Name, webSearchPrompt, func(ctx context.Context, input WebSearchInput) (WebSearchOutput, error) {
		return s.search(ctx, input)
	})
}
