// ABOUTME: Tests for Layout row mapping
// ABOUTME: Verifies header hiding, content skipping and scroll limits

package tui

import "testing"

func TestHeaderRowsFor(t *testing.T) {
	tests := []struct {
		name         string
		headerHeight float64
		pointsPerRow float64
		want         int
	}{
		{"exact multiple", 420, 42, 10},
		{"rounds up", 430, 42, 11},
		{"minimum applies", 120, 42, minHeaderRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HeaderRowsFor(tt.headerHeight, tt.pointsPerRow, minHeaderRows); got != tt.want {
				t.Errorf("HeaderRowsFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLayout_HiddenHeaderRows(t *testing.T) {
	l := NewLayout(40, 10, 20, 42, 2)

	tests := []struct {
		name       string
		translateY float64
		want       int
	}{
		{"expanded", 0, 0},
		{"positive is ignored", 12, 0},
		{"half a row rounds", -21, 1},
		{"halfway", -210, 5},
		{"clamped to header", -480, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.HiddenHeaderRows(tt.translateY); got != tt.want {
				t.Errorf("HiddenHeaderRows(%.0f) = %d, want %d", tt.translateY, got, tt.want)
			}
		})
	}
}

func TestLayout_ContentSkip(t *testing.T) {
	l := NewLayout(40, 10, 20, 42, 2)

	tests := []struct {
		name   string
		offset float64
		want   int
	}{
		{"top", 0, 0},
		{"negative", -50, 0},
		{"inside header", 300, 0},
		{"header just scrolled past", 420, 0},
		{"two rows into content", 504, 2},
		{"clamped to last row", 5000, 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.ContentSkip(tt.offset); got != tt.want {
				t.Errorf("ContentSkip(%.0f) = %d, want %d", tt.offset, got, tt.want)
			}
		})
	}
}

func TestLayout_ContentSkipEmptyContent(t *testing.T) {
	l := NewLayout(40, 10, 0, 42, 2)

	if got := l.ContentSkip(1000); got != 0 {
		t.Errorf("ContentSkip() = %d, want 0 with no content", got)
	}
}

func TestLayout_BodyRows(t *testing.T) {
	if got := NewLayout(40, 10, 5, 42, 2).BodyRows(); got != 38 {
		t.Errorf("BodyRows() = %d, want 38", got)
	}

	if got := NewLayout(1, 10, 5, 42, 2).BodyRows(); got != 1 {
		t.Errorf("BodyRows() = %d, want at least 1", got)
	}
}

func TestLayout_MaxOffset(t *testing.T) {
	// Long content: header plus content rows
	if got := NewLayout(40, 10, 20, 42, 2).MaxOffset(433); got != 1260 {
		t.Errorf("MaxOffset() = %.0f, want 1260", got)
	}

	// Short content still reaches past the sticky threshold
	if got := NewLayout(40, 10, 0, 42, 2).MaxOffset(433); got != 475 {
		t.Errorf("MaxOffset() = %.0f, want 475", got)
	}
}
