package sources

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kova98/harvest/transport"
)

type fakeResponse struct {
	status int
	body   string
}

func (r fakeResponse) OK() bool        { return r.status >= 200 && r.status < 300 }
func (r fakeResponse) StatusCode() int { return r.status }
func (r fakeResponse) Status() string  { return http.StatusText(r.status) }

func (r fakeResponse) Text() (string, error) { return r.body, nil }

func (r fakeResponse) JSON(v any) error { return json.Unmarshal([]byte(r.body), v) }

// fakeFetcher answers every request with the same response and records what
// it was asked for.
type fakeFetcher struct {
	resp fakeResponse
	err  error
	urls []string
	opts []transport.Options
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string, opts transport.Options) (transport.Response, error) {
	f.urls = append(f.urls, rawURL)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func respond(body string) *fakeFetcher {
	return &fakeFetcher{resp: fakeResponse{status: http.StatusOK, body: body}}
}
