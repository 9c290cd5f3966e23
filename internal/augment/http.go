package augment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

// HTTPProvider calls a JSON search endpoint of the form
// GET <endpoint>?q=<query> returning {"results": [{title, url, snippet}]}.
type HTTPProvider struct {
	name     string
	endpoint string
	client   *http.Client
}

func NewHTTPProvider(name, endpoint string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{name: name, endpoint: endpoint, client: client}
}

func (p *HTTPProvider) Name() string { return p.name }

func (p *HTTPProvider) Search(ctx context.Context, query string) ([]domain.ExternalResource, error) {
	u, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExternalProvider, p.name, err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExternalProvider, p.name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExternalProvider, p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: unexpected status %d", domain.ErrExternalProvider, p.name, resp.StatusCode)
	}

	var body struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Snippet string `json:"snippet"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExternalProvider, p.name, err)
	}

	out := make([]domain.ExternalResource, 0, len(body.Results))
	for _, r := range body.Results {
		out = append(out, domain.ExternalResource{
			Provider: p.name,
			Title:    r.Title,
			URL:      r.URL,
			Snippet:  r.Snippet,
		})
	}
	return out, nil
}
