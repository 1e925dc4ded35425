package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeIdentity(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "markup removed and trimmed", in: "Mr. X!! <script>", want: "Mr. X!!"},
		{name: "allowed punctuation kept", in: "Rock & Roll, Inc. - It's Live?!", want: "Rock & Roll, Inc. - It's Live?!"},
		{name: "non-ascii letters dropped", in: "Ýôú Tùbé", want: "Tb"},
		{name: "emoji and symbols dropped", in: "Chef ★ Kitchen", want: "Chef  Kitchen"},
		{name: "surrounding whitespace trimmed", in: "  \tT-Series \n", want: "T-Series"},
		{name: "markup in the middle", in: "Kids <b>Diana</b> Show", want: "Kids Diana Show"},
		{name: "unterminated bracket dropped", in: "a < b", want: "a  b"},
		{name: "only disallowed characters", in: "ÿÿÿ", want: ""},
		{name: "digits kept", in: "5-Minute Crafts", want: "5-Minute Crafts"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeIdentity(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsSanitizedIdentity(got))
			assert.Equal(t, got, SanitizeIdentity(got), "sanitizing twice changes nothing")
		})
	}
}

func TestIsSanitizedIdentity(t *testing.T) {
	assert.True(t, IsSanitizedIdentity("Mr. X!!"))
	assert.False(t, IsSanitizedIdentity(" padded"))
	assert.False(t, IsSanitizedIdentity("café"))
	assert.False(t, IsSanitizedIdentity("<b>"))
}

func TestIsMissing(t *testing.T) {
	for _, marker := range []string{"", "NA", "N/A", "nan", "NaN", "null", "NULL", "None", "#N/A", "<NA>", "-nan"} {
		assert.True(t, IsMissing(marker), marker)
	}
	for _, value := range []string{"0", "Unknown", " ", "na", "none", "India"} {
		assert.False(t, IsMissing(value), value)
	}
}
