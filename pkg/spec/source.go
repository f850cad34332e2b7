package spec

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// fetchTimeout bounds how long a URL source may take to materialize.
const fetchTimeout = 30 * time.Second

// LoadFile loads a Document from a file path.
func LoadFile(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec from file %s: %w", path, err)
	}
	doc, err := Load(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadFiles loads each file and merges the results into one Document.
// A (path, method) pair declared in more than one file is a ParseError.
func LoadFiles(paths []string) (*Document, error) {
	docs := make([]*Document, 0, len(paths))
	for _, path := range paths {
		doc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return Merge(docs...)
}

// LoadURL fetches a spec over HTTP(S) and loads it.
func LoadURL(ctx context.Context, specURL string) (*Document, error) {
	if _, err := url.ParseRequestURI(specURL); err != nil {
		return nil, fmt.Errorf("invalid spec URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, specURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid spec URL: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spec from %s: %w", specURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch spec from %s: status %d", specURL, resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec from %s: %w", specURL, err)
	}
	return Load(raw)
}
