// Package bulk reads dataset metadata from the bulk-download facility:
// the metabase of (dataset, dimension, code) triples, the per-dimension
// code dictionaries and the table of contents.
package bulk

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"eurobase/core/types"
	"eurobase/internal/config"
	"eurobase/internal/errors"
)

// Fetcher retrieves the body behind a URL. The HTTP implementation lives
// here; the cache adapter wraps any Fetcher transparently.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// HTTPFetcher is the plain HTTP Fetcher
type HTTPFetcher struct {
	httpc *http.Client
}

// NewHTTPFetcher creates an HTTP fetcher with the given timeout
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPFetcher{httpc: &http.Client{Timeout: timeout}}
}

// Fetch implements Fetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Transport("build request", err)
	}
	resp, err := f.httpc.Do(req)
	if err != nil {
		return nil, errors.Transport("execute request", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Transport(fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, rawURL), nil)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Transport("read response body", err)
	}
	return body, nil
}

// TOCEntry is one row of the bulk table of contents
type TOCEntry struct {
	// Code is the dataset identifier
	Code string `json:"code"`

	// Title is the localized dataset title
	Title string `json:"title"`

	// Type distinguishes datasets from tables and folders
	Type string `json:"type"`
}

// Provider implements engine.MetadataProvider on top of the bulk
// facility. The metabase is fetched and parsed once, then reused for
// every dataset lookup; declared dimension and code order is first-seen
// order in the metabase, which is the order the service itself uses.
type Provider struct {
	baseURL string
	lang    string
	sort    int
	fetch   Fetcher

	mu       sync.Mutex
	datasets map[string]*types.Dataset
}

// NewProvider creates a metadata provider
func NewProvider(cfg config.BulkConfig, lang string, fetch Fetcher) *Provider {
	sort := cfg.Sort
	if sort <= 0 {
		sort = 1
	}
	if lang == "" {
		lang = "en"
	}
	return &Provider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		lang:    lang,
		sort:    sort,
		fetch:   fetch,
	}
}

// listingURL builds a bulk listing URL. The sort parameter has to come
// first in the query string; the service misbehaves otherwise (quirk
// inherited from the reference service).
func (p *Provider) listingURL(params ...[2]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s?sort=%d", p.baseURL, p.sort)
	for _, kv := range params {
		b.WriteString("&" + kv[0] + "=" + url.QueryEscape(kv[1]))
	}
	return b.String()
}

// Dataset implements engine.MetadataProvider
func (p *Provider) Dataset(ctx context.Context, code string) (*types.Dataset, error) {
	if err := p.ensureMetabase(ctx); err != nil {
		return nil, err
	}
	p.mu.Lock()
	ds, ok := p.datasets[code]
	p.mu.Unlock()
	if !ok {
		return nil, errors.NotFound("dataset", code)
	}
	return ds, nil
}

// Dictionary fetches the code -> label dictionary of a dimension
func (p *Provider) Dictionary(ctx context.Context, dimension string) (map[string]string, error) {
	u := p.listingURL([2]string{"file", fmt.Sprintf("dic/%s/%s.dic", p.lang, dimension)})
	body, err := p.fetch.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	labels := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(maybeGunzip(body)))
	for scanner.Scan() {
		line := scanner.Text()
		code, label, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		labels[strings.TrimSpace(code)] = strings.TrimSpace(label)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Parsing(fmt.Sprintf("scan dictionary %s", dimension), err)
	}
	if len(labels) == 0 {
		return nil, errors.NotFound("dimension dictionary", dimension)
	}
	return labels, nil
}

// Datasets fetches the table of contents listing
func (p *Provider) Datasets(ctx context.Context) ([]TOCEntry, error) {
	u := p.listingURL([2]string{"file", fmt.Sprintf("table_of_contents_%s.txt", p.lang)})
	body, err := p.fetch.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}

	var entries []TOCEntry
	scanner := bufio.NewScanner(bytes.NewReader(maybeGunzip(body)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if first {
			// Header row.
			first = false
			continue
		}
		if len(fields) < 3 {
			continue
		}
		entry := TOCEntry{
			Title: strings.Trim(strings.TrimSpace(fields[0]), `"`),
			Code:  strings.Trim(strings.TrimSpace(fields[1]), `"`),
			Type:  strings.Trim(strings.TrimSpace(fields[2]), `"`),
		}
		if entry.Code == "" {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Parsing("scan table of contents", err)
	}
	return entries, nil
}

// ensureMetabase fetches and parses the metabase on first use
func (p *Provider) ensureMetabase(ctx context.Context) error {
	p.mu.Lock()
	loaded := p.datasets != nil
	p.mu.Unlock()
	if loaded {
		return nil
	}

	u := p.listingURL([2]string{"file", "metabase.txt.gz"})
	body, err := p.fetch.Fetch(ctx, u)
	if err != nil {
		return err
	}
	datasets, err := parseMetabase(maybeGunzip(body))
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.datasets == nil {
		p.datasets = datasets
	}
	p.mu.Unlock()
	return nil
}

// parseMetabase turns the TSV of (dataset, dimension, code) triples into
// dataset metadata, preserving first-seen dimension and code order.
func parseMetabase(body []byte) (map[string]*types.Dataset, error) {
	datasets := make(map[string]*types.Dataset)
	seen := make(map[string]map[string]bool) // dataset:dimension -> code set

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, errors.Parsing(fmt.Sprintf("malformed metabase line %q", line), nil)
		}
		dsCode, dimName, code := fields[0], fields[1], fields[2]

		ds, ok := datasets[dsCode]
		if !ok {
			ds = &types.Dataset{Code: dsCode}
			datasets[dsCode] = ds
		}

		key := dsCode + ":" + dimName
		codes, ok := seen[key]
		if !ok {
			codes = make(map[string]bool)
			seen[key] = codes
			ds.Dimensions = append(ds.Dimensions, types.Dimension{Name: dimName})
		}
		if codes[code] {
			continue
		}
		codes[code] = true
		for i := range ds.Dimensions {
			if ds.Dimensions[i].Name == dimName {
				ds.Dimensions[i].Codes = append(ds.Dimensions[i].Codes, code)
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Parsing("scan metabase", err)
	}
	return datasets, nil
}

// maybeGunzip transparently decompresses gzipped listings; plain bodies
// pass through
func maybeGunzip(body []byte) []byte {
	if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
		return body
	}
	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return body
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return body
	}
	return out
}
