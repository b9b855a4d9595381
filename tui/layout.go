// ABOUTME: Maps scroll offsets and header transforms (points) onto terminal rows
// ABOUTME: Decides which header, tab bar and content rows are visible each frame

package tui

import "math"

// Layout converts point-based geometry into terminal rows for one frame
type Layout struct {
	height       int     // Screen height in rows
	headerRows   int     // Rows taken by the expanded header
	contentRows  int     // Total rows of tab content
	pointsPerRow float64 // Scale between points and rows
	chromeRows   int     // Rows reserved below the body (status and help)
}

// NewLayout creates a layout for one frame
func NewLayout(height, headerRows, contentRows int, pointsPerRow float64, chromeRows int) *Layout {
	return &Layout{
		height:       height,
		headerRows:   headerRows,
		contentRows:  contentRows,
		pointsPerRow: pointsPerRow,
		chromeRows:   chromeRows,
	}
}

// HeaderRowsFor returns how many rows an expanded header of the given height occupies
func HeaderRowsFor(headerMaxHeight, pointsPerRow float64, minRows int) int {
	rows := int(math.Ceil(headerMaxHeight / pointsPerRow))
	if rows < minRows {
		return minRows
	}

	return rows
}

// HiddenHeaderRows converts the header's upward translation into hidden rows
func (l *Layout) HiddenHeaderRows(translateY float64) int {
	if translateY >= 0 || l.pointsPerRow <= 0 {
		return 0
	}

	hidden := int(math.Round(-translateY / l.pointsPerRow))
	if hidden > l.headerRows {
		return l.headerRows
	}

	return hidden
}

// ScrolledRows converts a scroll offset into whole rows
func (l *Layout) ScrolledRows(offset float64) int {
	if offset <= 0 || l.pointsPerRow <= 0 {
		return 0
	}

	return int(offset / l.pointsPerRow)
}

// ContentSkip returns how many content rows have scrolled out of view
// Content starts moving only after the header's rows have been scrolled past
func (l *Layout) ContentSkip(offset float64) int {
	skip := l.ScrolledRows(offset) - l.headerRows
	if skip < 0 {
		return 0
	}

	if maxSkip := l.contentRows - 1; skip > maxSkip {
		if maxSkip < 0 {
			return 0
		}

		return maxSkip
	}

	return skip
}

// BodyRows returns the rows available for header, tab bar and content
func (l *Layout) BodyRows() int {
	rows := l.height - l.chromeRows
	if rows < 1 {
		return 1
	}

	return rows
}

// MaxOffset is the largest useful scroll offset, in points.
// It always reaches past stickyThreshold so the tab bar can dock.
func (l *Layout) MaxOffset(stickyThreshold float64) float64 {
	end := float64(l.headerRows+l.contentRows) * l.pointsPerRow
	if minEnd := stickyThreshold + l.pointsPerRow; end < minEnd {
		return minEnd
	}

	return end
}
