package lookup

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

//go:embed titles.txt
var defaultTitles string

// DefaultMaxResults limits how many titles a lookup returns
const DefaultMaxResults = 10

// CatalogOptions configures a Catalog
type CatalogOptions struct {
	MaxResults int
	Latency    time.Duration // simulated provider latency
}

// Catalog is an offline provider searching a fixed list of titles
type Catalog struct {
	titles     []string
	maxResults int
	latency    time.Duration
}

// NewCatalog creates a catalog over titles. Blank lines are ignored.
func NewCatalog(titles []string, opts CatalogOptions) *Catalog {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	clean := make([]string, 0, len(titles))
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	return &Catalog{
		titles:     clean,
		maxResults: opts.MaxResults,
		latency:    opts.Latency,
	}
}

// DefaultCatalog creates a catalog over the built-in title list
func DefaultCatalog(opts CatalogOptions) *Catalog {
	return NewCatalog(strings.Split(defaultTitles, "\n"), opts)
}

// LoadCatalog reads one title per line from path
func LoadCatalog(path string, opts CatalogOptions) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	var titles []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		titles = append(titles, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return NewCatalog(titles, opts), nil
}

// Len returns the number of titles
func (c *Catalog) Len() int {
	return len(c.titles)
}

type candidate struct {
	title    string
	prefix   bool
	distance int
}

// Lookup returns titles containing query (case-insensitive), prefix matches
// first, then by edit distance to the query, then alphabetically.
func (c *Catalog) Lookup(ctx context.Context, query string) ([]string, error) {
	if c.latency > 0 {
		select {
		case <-time.After(c.latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}
	qr := []rune(q)

	var matches []candidate
	for _, title := range c.titles {
		lower := strings.ToLower(title)
		if !strings.Contains(lower, q) {
			continue
		}
		matches = append(matches, candidate{
			title:    title,
			prefix:   strings.HasPrefix(lower, q),
			distance: levenshtein.DistanceForStrings([]rune(lower), qr, levenshtein.DefaultOptions),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.prefix != b.prefix {
			return a.prefix
		}
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		return a.title < b.title
	})

	if len(matches) > c.maxResults {
		matches = matches[:c.maxResults]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.title
	}
	return out, nil
}
