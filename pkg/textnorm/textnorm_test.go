package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "access control", "access control"},
		{"trimmed", "  policy.docx \t", "policy.docx"},
		{"none lower", "none", ""},
		{"none mixed case", " NoNe ", ""},
		{"none inside text", "none of the above", "none of the above"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestNFC(t *testing.T) {
	// "한" as decomposed jamo (NFD) must compose into the single precomposed syllable.
	decomposed := "\u1112\u1161\u11ab"
	assert.Equal(t, "\ud55c", NFC(decomposed))
	assert.Equal(t, "", NFC(""))
}

func TestJoinLines(t *testing.T) {
	got := JoinLines([]string{"first", "None", "", "  second  "})
	assert.Equal(t, "first\nsecond", got)
	assert.Equal(t, "", JoinLines(nil))
}
