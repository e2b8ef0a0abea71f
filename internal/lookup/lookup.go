// Package lookup provides the search backends the search controller queries.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// Provider names accepted by New
const (
	ProviderCatalog = "catalog"
	ProviderOMDb    = "omdb"
)

// ErrUnknownProvider is returned by New for an unsupported provider name
var ErrUnknownProvider = errors.New("unknown lookup provider")

// Service is a lookup backend
type Service interface {
	Lookup(ctx context.Context, query string) ([]string, error)
}

// Options selects and configures a provider
type Options struct {
	Provider    string
	MaxResults  int
	CatalogPath string
	Latency     time.Duration
	OMDb        OMDbOptions
}

// New builds the configured provider
func New(opts Options) (Service, error) {
	switch opts.Provider {
	case ProviderCatalog, "":
		copts := CatalogOptions{MaxResults: opts.MaxResults, Latency: opts.Latency}
		if opts.CatalogPath == "" {
			return DefaultCatalog(copts), nil
		}
		return LoadCatalog(opts.CatalogPath, copts)
	case ProviderOMDb:
		o := opts.OMDb
		if o.MaxResults == 0 {
			o.MaxResults = opts.MaxResults
		}
		if o.APIKey == "" {
			o.APIKey = os.Getenv("OMDB_API_KEY")
		}
		return NewOMDb(o)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, opts.Provider)
	}
}
