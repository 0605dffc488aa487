package verify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		text   string
		marker string
		want   bool
	}{
		{"Subscribed to Glitch Ninja channel", "Glitch Ninja", true},
		{"SUBSCRIBED TO GLITCH NINJA", "glitch ninja", true},
		{"subscribed to glitch ninja", "GLITCH NINJA", true},
		{"Subscribed to Other Channel", "Glitch Ninja", false},
		{"Glitch\nNinja", "Glitch Ninja", false},
		{"", "Glitch Ninja", false},
		{"anything", "", false},
		{"Ünïcode Kanal", "ünïcode", true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Decide(c.text, c.marker), "Decide(%q, %q)", c.text, c.marker)
	}
}

func TestDecide_MatchesLowerContains(t *testing.T) {
	texts := []string{"abc", "ABC def", "a", "Glitch Ninja", "xGLITCHx", "  spaced  "}
	markers := []string{"a", "B", "def", "glitch", "NINJA", "spaced", "zzz"}
	for _, tx := range texts {
		for _, m := range markers {
			want := strings.Contains(strings.ToLower(tx), strings.ToLower(m))
			assert.Equal(t, want, Decide(tx, m), "Decide(%q, %q)", tx, m)
		}
	}
}

func TestMarkerFromText(t *testing.T) {
	assert.Equal(t, "Glitch Ninja", MarkerFromText("\n  \n  Glitch Ninja  \n1.2M subscribers"))
	assert.Equal(t, "", MarkerFromText(" \n\t"))
}
