package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

// QStash rejects colons and slashes in deduplication ids.
var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func extractDedupKey(matchID string, matchRecordID int64) string {
	return "extract-" + sanitizeDedupSegment(matchID) + "-" + strconv.FormatInt(matchRecordID, 10)
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}
