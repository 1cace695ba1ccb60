package qdrant

import (
	"hash/fnv"
	"strings"
)

// PointID maps a video id to a stable non-negative integer point id, so
// re-processing the same video overwrites its point instead of duplicating it.
func PointID(videoID string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(videoID))
	return h.Sum64()
}

// NormalizeCollectionName lowercases a project name and replaces anything
// outside [a-z0-9_-] with underscores. Creation and lookup must both go
// through this so they always agree on the collection name.
func NormalizeCollectionName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
