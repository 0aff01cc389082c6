package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/kova98/harvest/enums"
	"github.com/kova98/harvest/matchers"
	"github.com/kova98/harvest/models"
	"github.com/kova98/harvest/sources"
	"github.com/pkg/errors"
)

type newListingsSource interface {
	GetNewListings(ctx context.Context, p sources.NewListingsParams) (models.NewListingsResult, error)
}

type MonitorOptions struct {
	Queries    []string
	Interval   time.Duration
	SinceHours float64
	Limit      int
	MatchMode  enums.MatchMode
	MaxSeen    int
}

// Monitor polls new listings for a fixed set of queries and logs the ones it
// has not reported before.
type Monitor struct {
	logger  *slog.Logger
	source  newListingsSource
	opts    MonitorOptions
	seen    map[string]bool
	onMatch func(query string, listing models.Listing)
}

func NewMonitor(logger *slog.Logger, source newListingsSource, opts MonitorOptions) *Monitor {
	return &Monitor{
		logger: logger,
		source: source,
		opts:   opts,
		seen:   make(map[string]bool),
	}
}

func (m *Monitor) Start(ctx context.Context) {
	m.logger.Info("starting new listings monitor", "queries", m.opts.Queries, "interval", m.opts.Interval.Seconds())
	if err := m.pollOnce(ctx); err != nil {
		m.logger.Error("monitor poll:", "error", err)
	}

	go func() {
		ticker := time.NewTicker(m.opts.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				m.logger.Info("stopping new listings monitor")
				return
			case <-ticker.C:
				if err := m.pollOnce(ctx); err != nil {
					m.logger.Error("monitor poll:", "error", err)
				}
			}
		}
	}()
}

// pollOnce runs every query once. A failing query does not stop the others;
// the last failure is returned.
func (m *Monitor) pollOnce(ctx context.Context) error {
	var lastErr error
	found := 0

	for _, query := range m.opts.Queries {
		res, err := m.source.GetNewListings(ctx, sources.NewListingsParams{
			Query:      query,
			SinceHours: m.opts.SinceHours,
			Limit:      m.opts.Limit,
		})
		if err != nil {
			lastErr = errors.Wrapf(err, "monitor: query %q", query)
			m.logger.Error("monitor: get new listings", "query", query, "error", err)
			continue
		}

		for _, listing := range res.Results {
			if m.seen[listing.ID] {
				continue
			}
			m.remember(listing.ID)

			// Listings recovered from bare item links have no title to check.
			if listing.Title != "" && !matchers.MatchKeyword(m.opts.MatchMode, listing.Title, query) {
				continue
			}

			found++
			m.logger.Info("new listing", "query", query, "id", listing.ID, "title", listing.Title,
				"price", listing.Price, "currency", listing.Currency, "url", listing.URL, "since", res.Since)
			if m.onMatch != nil {
				m.onMatch(query, listing)
			}
		}
	}

	m.logger.Debug("monitor poll done", "new", found, "total_seen", len(m.seen))
	return lastErr
}

func (m *Monitor) remember(id string) {
	if m.opts.MaxSeen > 0 && len(m.seen) >= m.opts.MaxSeen {
		m.seen = make(map[string]bool)
	}
	m.seen[id] = true
}
