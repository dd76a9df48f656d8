package cache

import "strings"

const (
	GlobalKeyPrefix = "vocabquiz"

	// DefaultProfile names the single learner a deployment serves.
	DefaultProfile = "default"
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

// VocabularyKey is the Redis list holding the ranked words of profile.
func VocabularyKey(profile string) string {
	return GenerateCacheKey("vocabulary", "words", profile)
}

// DifficultyKey is the Redis hash holding the difficulty model of profile.
func DifficultyKey(profile string) string {
	return GenerateCacheKey("difficulty", "model", profile)
}
