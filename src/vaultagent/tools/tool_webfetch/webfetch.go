package tool_webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/user/vaultagent/src/agent"
	"github.com/user/vaultagent/src/vaultagent/toolsutil"
)

// Tool name constant
const Name = "web_fetch"

const webFetchPrompt = `Fetch the content of a web page.

HOW TO USE:
- Provide an http or https URL
- format is "markdown" (default) or "text"

HTML pages are converted to the requested format. The response is capped at 2MB; some sites block automated requests.`

const (
	maxBodySize    = 2 * 1024 * 1024
	defaultTimeout = 30 * time.Second
)

// WebFetchInput represents the input for fetching a page
type WebFetchInput struct {
	URL    string `json:"url" required:"true" description:"The URL to fetch"`
	Format string `json:"format,omitempty" description:"Output format: markdown or text (default markdown)"`
}

// WebFetchOutput represents the fetched page
type WebFetchOutput struct {
	Content     string `json:"content" description:"The page content in the requested format"`
	URL         string `json:"url" description:"Final URL after redirects"`
	StatusCode  int    `json:"status_code" description:"HTTP status code"`
	ContentType string `json:"content_type,omitempty" description:"Content-Type of the response"`
}

func webFetchHandler(ctx context.Context, input WebFetchInput) (WebFetchOutput, error) {
	if !strings.HasPrefix(input.URL, "http://") && !strings.HasPrefix(input.URL, "https://") {
		return WebFetchOutput{}, fmt.Errorf("URL must start with http:// or https://")
	}
	format := strings.ToLower(input.Format)
	if format == "" {
		format = "markdown"
	}
	if format != "markdown" && format != "text" {
		return WebFetchOutput{}, fmt.Errorf("format must be markdown or text")
	}

	client := &http.Client{Timeout: defaultTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, input.URL, nil)
	if err != nil {
		return WebFetchOutput{}, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", "vaultagent/1.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return WebFetchOutput{}, fmt.Errorf("failed to fetch URL: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return WebFetchOutput{}, fmt.Errorf("request failed with status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return WebFetchOutput{}, fmt.Errorf("failed to read response: %v", err)
	}

	content := string(body)
	contentType := resp.Header.Get("Content-Type")
	isHTML := strings.Contains(contentType, "text/html")

	switch {
	case format == "markdown" && isHTML:
		converted, err := md.NewConverter("", true, nil).ConvertString(content)
		if err != nil {
			toolsutil.GetLogger().Warn("markdown conversion failed, returning raw HTML", "error", err)
		} else {
			content = converted
		}
	case format == "text" && isHTML:
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
		if err != nil {
			toolsutil.GetLogger().Warn("html parse failed, returning raw content", "error", err)
		} else {
			doc.Find("script, style, noscript").Remove()
			content = strings.TrimSpace(doc.Text())
		}
	}

	toolsutil.GetLogger().Info("fetched web content", "url", input.URL, "size", len(body), "format", format)
	return WebFetchOutput{
		Content:     content,
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
	}, nil
}

// Tool returns the web_fetch tool definition using GenericTool
func Tool() (agent.Tool, error) {
	return agent.NewGenericTool(Name, webFetchPrompt, webFetchHandler)
}
