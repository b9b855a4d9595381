// ABOUTME: Sticky tab bar threshold evaluation with change suppression
// ABOUTME: Reports a transition only when the sticky boolean actually flips

package viewport

// ShouldBeSticky reports whether the tab bar must render as a fixed overlay at offset
func ShouldBeSticky(offset float64, g Geometry) bool {
	return offset >= g.StickyThreshold()
}

// StickyEvaluator remembers the last sticky value so callers only react to crossings
type StickyEvaluator struct {
	geometry Geometry
	sticky   bool
}

// NewStickyEvaluator creates an evaluator starting in the non-sticky state
func NewStickyEvaluator(g Geometry) *StickyEvaluator {
	return &StickyEvaluator{geometry: g}
}

// Observe evaluates offset and returns the sticky value and whether it changed
func (e *StickyEvaluator) Observe(offset float64) (sticky, changed bool) {
	next := ShouldBeSticky(offset, e.geometry)
	if next == e.sticky {
		return e.sticky, false
	}

	e.sticky = next

	return next, true
}

// Sticky returns the last recorded value
func (e *StickyEvaluator) Sticky() bool {
	return e.sticky
}

// Threshold returns the offset at which the evaluator flips
func (e *StickyEvaluator) Threshold() float64 {
	return e.geometry.StickyThreshold()
}
