package cache

import (
	"strconv"
	"strings"
)

const (
	GlobalKeyPrefix = "qurancoach"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// StatsVersionKey builds the key holding a user's stats cache version.
// Overview entries embed the version, so deleting this one key
// invalidates every cached window at once.
func StatsVersionKey(userID string) string {
	return GenerateCacheKey("insight", "stats_version", userID)
}

// StatsOverviewKey builds the key caching a user's stats overview for
// a given trailing window in days, scoped to the current cache version.
func StatsOverviewKey(userID, version string, days int) string {
	return GenerateCacheKey("insight", "stats", userID, version, strconv.Itoa(days))
}

// LatestInsightKey builds the key caching a user's most recent insight.
func LatestInsightKey(userID string) string {
	return GenerateCacheKey("insight", "latest", userID)
}
