// ABOUTME: Tests for tab/sport enumerations and user sport availability
// ABOUTME: Verifies swipe-order adjacency and canonical sport ordering

package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTabAdjacency(t *testing.T) {
	tests := []struct {
		tab    Tab
		next   Tab
		nextOK bool
		prev   Tab
		prevOK bool
	}{
		{Highlights, ProfileTab, true, Highlights, false},
		{ProfileTab, Matches, true, Highlights, true},
		{Matches, Stats, true, ProfileTab, true},
		{Stats, Stats, false, Matches, true},
	}

	for _, tt := range tests {
		t.Run(tt.tab.String(), func(t *testing.T) {
			next, ok := tt.tab.Next()
			assert.Equal(t, tt.next, next)
			assert.Equal(t, tt.nextOK, ok)

			prev, ok := tt.tab.Prev()
			assert.Equal(t, tt.prev, prev)
			assert.Equal(t, tt.prevOK, ok)
		})
	}
}

func TestParseTab(t *testing.T) {
	tab, ok := ParseTab(" stats ")
	assert.True(t, ok)
	assert.Equal(t, Stats, tab)

	_, ok = ParseTab("feed")
	assert.False(t, ok)
}

func TestParseSport(t *testing.T) {
	s, ok := ParseSport("Basketball")
	assert.True(t, ok)
	assert.Equal(t, Basketball, s)

	_, ok = ParseSport("cricket")
	assert.False(t, ok)
}

func TestAvailableSports(t *testing.T) {
	u := &User{
		SubProfiles: map[Sport]*SubProfile{
			Basketball: {},
			"tennis":   {},
			Soccer:     {},
			"hockey":   nil,
		},
	}

	assert.Equal(t, []Sport{Soccer, Basketball, "tennis"}, u.AvailableSports())
	assert.False(t, u.HasSport("hockey"))
	assert.False(t, u.HasSport(""))
	assert.Nil(t, u.SubProfile("hockey"))

	var nilUser *User
	assert.False(t, nilUser.HasSport(Soccer))
	assert.Empty(t, nilUser.AvailableSports())
}
