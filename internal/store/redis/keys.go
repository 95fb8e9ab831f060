package redis

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// KeyPrefixHighlights is the prefix for per-page highlight keys
	KeyPrefixHighlights = "genrejinn:highlights:"
	// KeyHighlightPages is the set of page indexes that have highlights
	KeyHighlightPages = "genrejinn:highlights:pages"
	// KeyMarks is the key for the mark list
	KeyMarks = "genrejinn:marks"
)

// HighlightsKey returns the redis key for one page's highlight records.
func HighlightsKey(page int) string {
	return KeyPrefixHighlights + strconv.Itoa(page)
}

// ParsePageMember parses a member of the page-index set.
func ParsePageMember(member string) (int, error) {
	page, err := strconv.Atoi(strings.TrimSpace(member))
	if err != nil || page < 0 {
		return 0, fmt.Errorf("invalid page member: %q", member)
	}
	return page, nil
}
