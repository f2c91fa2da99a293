package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensor_features/internal/domain/model"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func event(home, location string, t time.Time) model.Event {
	return model.Event{HomeID: home, Location: location, Datetime: t}
}

func TestCountSeriesLength(t *testing.T) {
	var counter IntervalCounter

	// Границы Jan1..Jan4 дают четыре кромки и три интервала.
	points := counter.Count(nil, day(1), day(4), 24*time.Hour)
	require.Len(t, points, 3)
	assert.Equal(t, day(1), points[0].Datetime)
	assert.Equal(t, day(2), points[1].Datetime)
	assert.Equal(t, day(3), points[2].Datetime)
	for _, p := range points {
		assert.Equal(t, 0, p.EventCount)
	}
}

func TestCountZeroBinsPreserved(t *testing.T) {
	var counter IntervalCounter

	events := []model.Event{
		event("a", "kitchen", day(1).Add(6*time.Hour)),
		event("a", "kitchen", day(3).Add(6*time.Hour)),
	}
	points := counter.Count(events, day(1), day(4), 24*time.Hour)
	require.Len(t, points, 3)
	assert.Equal(t, 1, points[0].EventCount)
	assert.Equal(t, 0, points[1].EventCount) // пустой интервал остаётся в ряду
	assert.Equal(t, 1, points[2].EventCount)
}

func TestCountBoundaryGoesToEarlierBin(t *testing.T) {
	var counter IntervalCounter

	events := []model.Event{
		event("a", "kitchen", day(2)), // ровно на границе
	}
	points := counter.Count(events, day(1), day(4), 24*time.Hour)
	require.Len(t, points, 3)
	assert.Equal(t, 1, points[0].EventCount)
	assert.Equal(t, 0, points[1].EventCount)
}

func TestCountEventAtStartIsDropped(t *testing.T) {
	var counter IntervalCounter

	events := []model.Event{
		event("a", "kitchen", day(1)), // ровно в start: не учитывается
		event("a", "kitchen", day(4)), // ровно в end: последний интервал
		event("a", "kitchen", day(5)), // за пределами
	}
	points := counter.Count(events, day(1), day(4), 24*time.Hour)
	require.Len(t, points, 3)
	assert.Equal(t, 0, points[0].EventCount)
	assert.Equal(t, 1, points[2].EventCount)
}

func TestCountConservation(t *testing.T) {
	var counter IntervalCounter

	events := []model.Event{
		event("a", "kitchen", day(1).Add(time.Minute)),
		event("a", "kitchen", day(1).Add(2*time.Minute)),
		event("a", "kitchen", day(2).Add(13*time.Hour)),
		event("a", "kitchen", day(3).Add(23*time.Hour)),
		event("a", "kitchen", day(1)),  // вне (start, end]
		event("a", "kitchen", day(10)), // вне (start, end]
	}
	points := counter.Count(events, day(1), day(4), 24*time.Hour)

	total := 0
	for _, p := range points {
		total += p.EventCount
	}
	assert.Equal(t, 4, total)
}

func TestCountDegenerateRanges(t *testing.T) {
	var counter IntervalCounter

	assert.Empty(t, counter.Count(nil, day(4), day(1), 24*time.Hour))
	assert.Empty(t, counter.Count(nil, day(1), day(1), 24*time.Hour))
	// Интервал шире всего диапазона: одна кромка, ни одного интервала.
	assert.Empty(t, counter.Count(nil, day(1), day(2), 72*time.Hour))
	assert.Empty(t, counter.Count(nil, day(1), day(4), 0))
}

func TestBinEdgesUTC(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	start := time.Date(2024, 1, 1, 3, 0, 0, 0, moscow) // = Jan1 00:00 UTC
	edges := BinEdges(start, day(3), 24*time.Hour)
	require.Len(t, edges, 3)
	assert.Equal(t, day(1), edges[0])
	assert.Equal(t, time.UTC, edges[0].Location())
}
