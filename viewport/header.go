// ABOUTME: Header geometry and the scroll-to-header transform mapping
// ABOUTME: Clamped piecewise-linear interpolation for collapse translation and fade

// Package viewport implements the profile screen's view-state controller:
// header collapse, sticky tab bar, tab swiping and sport resolution.
package viewport

import (
	"github.com/cockroachdb/errors"
)

// headerMinHeight is the collapsed header height; the header can disappear fully
const headerMinHeight = 0

// ErrInvalidGeometry is returned when header geometry cannot drive a collapse animation
var ErrInvalidGeometry = errors.New("invalid header geometry")

// Geometry holds the fixed header dimensions, in points
type Geometry struct {
	HeaderMaxHeight  float64
	TopBarHeight     float64
	TabBarHeight     float64
	SafeAreaTopInset float64
}

// ScrollDistance is the scroll range over which the header collapses
func (g Geometry) ScrollDistance() float64 {
	return g.HeaderMaxHeight - headerMinHeight
}

// StickyThreshold is the offset at which the tab bar detaches from the header
func (g Geometry) StickyThreshold() float64 {
	return g.TopBarHeight + g.HeaderMaxHeight - g.SafeAreaTopInset
}

// Validate checks the construction-time invariants
func (g Geometry) Validate() error {
	if g.ScrollDistance() <= 0 {
		return errors.Wrapf(ErrInvalidGeometry, "scroll distance must be positive, got %g", g.ScrollDistance())
	}

	if g.TopBarHeight < 0 || g.TabBarHeight < 0 || g.SafeAreaTopInset < 0 {
		return errors.Wrap(ErrInvalidGeometry, "bar heights and insets must not be negative")
	}

	// The tab bar starts docked, so offset 0 must be below the threshold
	if g.StickyThreshold() <= 0 {
		return errors.Wrapf(ErrInvalidGeometry, "sticky threshold must be positive, got %g", g.StickyThreshold())
	}

	return nil
}

// HeaderTransform is the header's visual state for one scroll offset
type HeaderTransform struct {
	TranslateY float64 // 0 at rest, negative when moved up
	Opacity    float64 // 1 opaque, 0 invisible
}

// HeaderCollapseMapper converts a scroll offset into a HeaderTransform.
// It holds no mutable state and is safe to call every frame.
type HeaderCollapseMapper struct {
	distance float64
	travel   float64
}

// NewHeaderCollapseMapper creates a mapper for g, failing when the scroll distance is not positive
func NewHeaderCollapseMapper(g Geometry) (*HeaderCollapseMapper, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	return &HeaderCollapseMapper{
		distance: g.ScrollDistance(),
		travel:   g.HeaderMaxHeight + g.TopBarHeight,
	}, nil
}

// Map returns the header transform for offset
func (h *HeaderCollapseMapper) Map(offset float64) HeaderTransform {
	return HeaderTransform{
		TranslateY: h.TranslateY(offset),
		Opacity:    h.Opacity(offset),
	}
}

// TranslateY maps [0, distance] onto [0, -(headerMaxHeight+topBarHeight)]
func (h *HeaderCollapseMapper) TranslateY(offset float64) float64 {
	return interpolate(offset, []float64{0, h.distance}, []float64{0, -h.travel})
}

// Opacity follows the three-point curve [0, d/2, d] -> [1, 0.8, 0]
func (h *HeaderCollapseMapper) Opacity(offset float64) float64 {
	return interpolate(offset,
		[]float64{0, h.distance / 2, h.distance},
		[]float64{1, 0.8, 0},
	)
}

// interpolate maps x through the piecewise-linear curve (in[i] -> out[i]).
// in must be strictly increasing; x outside the range clamps to the end values.
func interpolate(x float64, in, out []float64) float64 {
	if x <= in[0] {
		return out[0]
	}

	last := len(in) - 1
	if x >= in[last] {
		return out[last]
	}

	for i := 1; i <= last; i++ {
		if x <= in[i] {
			t := (x - in[i-1]) / (in[i] - in[i-1])
			return out[i-1] + t*(out[i]-out[i-1])
		}
	}

	return out[last]
}
