package sources

import (
	"context"
	"time"

	"github.com/kova98/harvest/enums"
	"github.com/kova98/harvest/queries"
	"github.com/kova98/harvest/transport"
)

// FetchSettings are the per-call transport knobs shared by every operation
// of a source. Headers come from the query builders.
type FetchSettings struct {
	MaxRetries      int
	Timeout         time.Duration
	FollowRedirects bool
}

func DefaultFetchSettings() FetchSettings {
	return FetchSettings{
		MaxRetries:      2,
		Timeout:         15 * time.Second,
		FollowRedirects: true,
	}
}

func (s FetchSettings) options(req queries.Request) transport.Options {
	return transport.Options{
		Headers:         req.Headers,
		MaxRetries:      s.MaxRetries,
		Timeout:         s.Timeout,
		FollowRedirects: s.FollowRedirects,
	}
}

type call struct {
	platform  enums.Platform
	operation string
	target    string
}

// fetchText performs the single request an operation is allowed and returns
// the body, turning transport failures and non-ok replies into a FetchError.
func fetchText(ctx context.Context, f transport.Fetcher, settings FetchSettings, c call, req queries.Request) (string, error) {
	resp, err := f.Fetch(ctx, req.URL, settings.options(req))
	if err != nil {
		return "", &FetchError{Platform: c.platform, Operation: c.operation, Target: c.target, Err: err}
	}
	if !resp.OK() {
		return "", &FetchError{
			Platform:   c.platform,
			Operation:  c.operation,
			Target:     c.target,
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
		}
	}

	text, err := resp.Text()
	if err != nil {
		return "", &FetchError{
			Platform:   c.platform,
			Operation:  c.operation,
			Target:     c.target,
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Err:        err,
		}
	}
	return text, nil
}
