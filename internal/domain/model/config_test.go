package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"1d", 24 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"5h", 5 * time.Hour},
		{"30m", 30 * time.Minute},
		{" 1d ", 24 * time.Hour},
	}
	for _, tc := range tests {
		got, err := ParseInterval(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseIntervalRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "d", "xd", "-1d", "0d", "-5h", "banana"} {
		_, err := ParseInterval(in)
		assert.Error(t, err, in)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Start.Before(cfg.End))
	assert.Equal(t, 24*time.Hour, cfg.Interval)
	assert.Equal(t, 1, cfg.Lag)
	assert.NotEmpty(t, cfg.SeriesLocations)
	assert.Contains(t, cfg.PresencePredicates, "has_study")
}
