package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"ShelfFM/logger"
	"ShelfFM/model"
)

// Provider loads the catalog from its source and hands out the current
// immutable snapshot. Reloads swap the snapshot atomically; readers keep
// whatever snapshot they already hold.
type Provider struct {
	mu      sync.RWMutex
	current *Catalog

	path string
	url  string

	httpClient *http.Client
}

// NewProvider creates a provider reading from a local file path or an
// HTTP URL. The file path wins when both are set.
func NewProvider(path, url string) *Provider {
	return &Provider{
		path: path,
		url:  url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Current returns the latest catalog snapshot. Never nil after the first
// successful Load; before that it is an empty catalog.
func (p *Provider) Current() *Catalog {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return New(nil)
	}
	return p.current
}

// Load reads the catalog source, parses it and swaps the snapshot.
func (p *Provider) Load() error {
	data, err := p.read()
	if err != nil {
		return err
	}

	var items []model.MediaItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to parse catalog JSON: %w", err)
	}

	c := New(items)
	p.mu.Lock()
	p.current = c
	p.mu.Unlock()

	logger.Info("Catalog loaded",
		logger.Int("items", c.Len()),
		logger.String("path", p.path),
		logger.String("url", p.url))
	return nil
}

func (p *Provider) read() ([]byte, error) {
	if p.path != "" {
		data, err := os.ReadFile(p.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file %s: %w", p.path, err)
		}
		return data, nil
	}
	if p.url == "" {
		return nil, fmt.Errorf("no catalog source configured")
	}

	resp, err := p.httpClient.Get(p.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog from %s: %w", p.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog fetch returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
