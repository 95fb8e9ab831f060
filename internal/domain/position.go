package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Position locates a point in the paginated document.
// It is the engine's sole ordering and identity key: two highlights on the
// same page may never share a start Position.
type Position struct {
	Page int `json:"page"`
	Row  int `json:"row"`
	Col  int `json:"col"`
}

// Compare orders positions lexicographically by (page, row, col).
// Returns -1, 0 or 1.
func (p Position) Compare(other Position) int {
	if p.Page != other.Page {
		if p.Page < other.Page {
			return -1
		}
		return 1
	}
	if p.Row != other.Row {
		if p.Row < other.Row {
			return -1
		}
		return 1
	}
	if p.Col != other.Col {
		if p.Col < other.Col {
			return -1
		}
		return 1
	}
	return 0
}

// Before reports whether p is strictly before other in document order.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d:%d", p.Page, p.Row, p.Col)
}

// NoteIDPrefix prefixes the identifier of a highlight's note control
// exposed to the presentation layer.
const NoteIDPrefix = "note"

// NoteID encodes a highlight's start position as the identifier of its
// editable note control: "note_{page}_{row}_{col}".
func NoteID(p Position) string {
	return fmt.Sprintf("%s_%d_%d_%d", NoteIDPrefix, p.Page, p.Row, p.Col)
}

// ParseNoteID decodes an identifier produced by NoteID back into a
// Position. Malformed identifiers return ok=false; callers are expected
// to log and ignore them rather than fail.
func ParseNoteID(id string) (Position, bool) {
	parts := strings.Split(id, "_")
	if len(parts) < 4 || parts[0] != NoteIDPrefix {
		return Position{}, false
	}
	nums := make([]int, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(parts[i+1])
		if err != nil || n < 0 {
			return Position{}, false
		}
		nums[i] = n
	}
	return Position{Page: nums[0], Row: nums[1], Col: nums[2]}, true
}
