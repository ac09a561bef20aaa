package fetcher

import "context"

// PageFetcher retrieves raw document text for a URL. The pipeline treats it
// as opaque: it may fail, and failure aborts the cycle without touching any
// state.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (string, error)
}
