package domain

import "testing"

func TestPositionCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Position
		want int
	}{
		{"equal", Position{1, 2, 3}, Position{1, 2, 3}, 0},
		{"page wins", Position{1, 9, 9}, Position{2, 0, 0}, -1},
		{"row wins", Position{1, 2, 9}, Position{1, 3, 0}, -1},
		{"col decides", Position{1, 2, 3}, Position{1, 2, 4}, -1},
		{"reversed", Position{3, 0, 0}, Position{2, 9, 9}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Compare(tt.a); got != -tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestPositionBefore(t *testing.T) {
	a := Position{Page: 0, Row: 1, Col: 0}
	b := Position{Page: 0, Row: 1, Col: 5}
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Errorf("Before ordering broken for %v vs %v", a, b)
	}
}

func TestNoteIDRoundTrip(t *testing.T) {
	p := Position{Page: 12, Row: 4, Col: 37}
	id := NoteID(p)
	if id != "note_12_4_37" {
		t.Fatalf("NoteID(%v) = %q", p, id)
	}
	got, ok := ParseNoteID(id)
	if !ok || got != p {
		t.Errorf("ParseNoteID(%q) = %v, %v", id, got, ok)
	}
}

func TestParseNoteIDMalformed(t *testing.T) {
	tests := []string{
		"",
		"note",
		"note_1_2",
		"mark_1_2_3",
		"note_a_2_3",
		"note_1_-2_3",
		"note_1_2_",
	}

	for _, id := range tests {
		if _, ok := ParseNoteID(id); ok {
			t.Errorf("ParseNoteID(%q) accepted malformed id", id)
		}
	}
}
