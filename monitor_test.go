package main

import (
	"context"
	"testing"
	"time"

	"github.com/kova98/harvest/enums"
	"github.com/kova98/harvest/models"
	"github.com/kova98/harvest/sources"
	"github.com/kova98/harvest/testutil"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNewListings struct {
	results map[string][]models.Listing
	errs    map[string]error
	calls   []sources.NewListingsParams
}

func (f *fakeNewListings) GetNewListings(_ context.Context, p sources.NewListingsParams) (models.NewListingsResult, error) {
	f.calls = append(f.calls, p)
	if err := f.errs[p.Query]; err != nil {
		return models.NewListingsResult{}, err
	}
	return models.NewListingsResult{Results: f.results[p.Query], Since: "2026-01-01T00:00:00.000Z"}, nil
}

func listing(id, title string) models.Listing {
	l := models.NewListing()
	l.ID = id
	l.Title = title
	return l
}

func collectMatches(m *Monitor) *[]string {
	var ids []string
	m.onMatch = func(_ string, l models.Listing) { ids = append(ids, l.ID) }
	return &ids
}

func TestMonitor_ReportsOnlyNewMatches(t *testing.T) {
	src := &fakeNewListings{results: map[string][]models.Listing{
		"bike": {listing("1", "Road bike"), listing("2", "Motorbike helmet"), listing("3", "")},
	}}
	m := NewMonitor(testutil.NullLogger(), src, MonitorOptions{
		Queries:    []string{"bike"},
		SinceHours: 2,
		Limit:      10,
		MatchMode:  enums.MatchModeExact,
	})
	ids := collectMatches(m)

	require.NoError(t, m.pollOnce(context.Background()))
	assert.Equal(t, []string{"1", "3"}, *ids)

	require.NoError(t, m.pollOnce(context.Background()))
	assert.Equal(t, []string{"1", "3"}, *ids)

	require.Len(t, src.calls, 2)
	assert.Equal(t, 2.0, src.calls[0].SinceHours)
	assert.Equal(t, 10, src.calls[0].Limit)
}

func TestMonitor_BroadMatchesInsideWords(t *testing.T) {
	src := &fakeNewListings{results: map[string][]models.Listing{
		"bike": {listing("2", "Motorbike helmet")},
	}}
	m := NewMonitor(testutil.NullLogger(), src, MonitorOptions{Queries: []string{"bike"}, MatchMode: enums.MatchModeBroad})
	ids := collectMatches(m)

	require.NoError(t, m.pollOnce(context.Background()))
	assert.Equal(t, []string{"2"}, *ids)
}

func TestMonitor_FailingQueryDoesNotStopOthers(t *testing.T) {
	src := &fakeNewListings{
		results: map[string][]models.Listing{"desk": {listing("9", "Standing desk")}},
		errs:    map[string]error{"bike": errors.New("blocked")},
	}
	m := NewMonitor(testutil.NullLogger(), src, MonitorOptions{Queries: []string{"bike", "desk"}, MatchMode: enums.MatchModeBroad})
	ids := collectMatches(m)

	err := m.pollOnce(context.Background())
	assert.ErrorContains(t, err, "bike")
	assert.Equal(t, []string{"9"}, *ids)
}

func TestMonitor_SeenSetIsBounded(t *testing.T) {
	m := NewMonitor(testutil.NullLogger(), &fakeNewListings{}, MonitorOptions{MaxSeen: 2})

	m.remember("a")
	m.remember("b")
	m.remember("c")

	assert.Len(t, m.seen, 1)
	assert.True(t, m.seen["c"])
}

func TestMonitor_StartPollsBeforeReturning(t *testing.T) {
	src := &fakeNewListings{results: map[string][]models.Listing{"desk": {listing("9", "Standing desk")}}}
	m := NewMonitor(testutil.NullLogger(), src, MonitorOptions{
		Queries:   []string{"desk"},
		Interval:  time.Hour,
		MatchMode: enums.MatchModeBroad,
	})
	ids := collectMatches(m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	assert.Len(t, src.calls, 1)
	assert.Equal(t, []string{"9"}, *ids)
}
