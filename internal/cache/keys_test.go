package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	assert.Equal(t, "qurancoach:insight:latest:user-1", GenerateCacheKey("insight", "latest", "user-1"))
	assert.Equal(t, "qurancoach:insight:stats:user-1:7_v2", GenerateCacheKey("insight", "stats", "user-1", "7", "v2"))
}

func TestStatsOverviewKey(t *testing.T) {
	assert.Equal(t, "qurancoach:insight:stats:user-1:v1_7", StatsOverviewKey("user-1", "v1", 7))
	assert.Equal(t, "qurancoach:insight:stats:user-1:v1_30", StatsOverviewKey("user-1", "v1", 30))
	// A new version must produce a different key for the same window.
	assert.NotEqual(t, StatsOverviewKey("user-1", "v1", 7), StatsOverviewKey("user-1", "v2", 7))
}

func TestStatsVersionKey(t *testing.T) {
	assert.Equal(t, "qurancoach:insight:stats_version:user-1", StatsVersionKey("user-1"))
}

func TestLatestInsightKey(t *testing.T) {
	assert.Equal(t, "qurancoach:insight:latest:user-1", LatestInsightKey("user-1"))
}
