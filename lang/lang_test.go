package lang

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestID(t *testing.T) {
	assert.Equal(t, uint16(0x0409), ID(0x09, 0x01))
	assert.Equal(t, uint16(0x0C0A), ID(0x0A, 0x03))
	assert.Equal(t, uint16(0x09), Primary(0x0409))
	assert.Equal(t, uint16(0x01), Sub(0x0409))
}

func TestFromTag(t *testing.T) {
	tests := []struct {
		tag      string
		expected uint16
	}{
		{"en-US", 0x0409},
		{"en-GB", 0x0809},
		{"de-DE", 0x0407},
		{"fr-FR", 0x040C},
		{"ja-JP", 0x0411},
		{"zh-CN", 0x0804},
		{"pt-BR", 0x0416},
		// Tags are case-insensitive under BCP-47 canonicalization.
		{"EN-us", 0x0409},
		// A bare language falls back to SUBLANG_DEFAULT.
		{"de", 0x0407},
		{"en", 0x0409},
		{"ja", 0x0411},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			id, err := FromTag(tt.tag)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestFromTagInvalid(t *testing.T) {
	for _, tag := range []string{"invalid", "", "x1!!", "zz-ZZ"} {
		_, err := FromTag(tag)
		assert.IsError(t, err, ErrInvalidLanguageTag)
	}
}
