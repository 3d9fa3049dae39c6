package codepage

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		id      uint32
		wantErr error
	}{
		{name: "windows-1252", id: 1252},
		{name: "utf-8", id: 65001},
		{name: "code page 437", id: 437},
		{name: "windows-1251", id: 1251},
		{name: "shift-jis is unsupported", id: 932, wantErr: ErrUnsupportedCodePage},
		{name: "big5 is unsupported", id: 950, wantErr: ErrUnsupportedCodePage},
		{name: "not a code page", id: 12345, wantErr: ErrInvalidCodePage},
		{name: "zero", id: 0, wantErr: ErrInvalidCodePage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder, err := Get(tt.id)
			if tt.wantErr != nil {
				assert.IsError(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.NotZero(t, decoder)
		})
	}
}

func TestWindows1252Decoding(t *testing.T) {
	decoder, err := Get(1252)
	assert.NoError(t, err)

	// 0x80 is the euro sign in 1252, one of the bytes that differs from
	// Latin-1.
	r, size := decoder.DecodeNext([]byte{0x80})
	assert.Equal(t, '€', r)
	assert.Equal(t, 1, size)

	r, size = decoder.DecodeNext([]byte{'A'})
	assert.Equal(t, 'A', r)
	assert.Equal(t, 1, size)
}

func TestUTF8Decoding(t *testing.T) {
	decoder, err := Get(65001)
	assert.NoError(t, err)

	r, size := decoder.DecodeNext([]byte("é"))
	assert.Equal(t, 'é', r)
	assert.Equal(t, 2, size)

	// An invalid sequence substitutes U+FFFD and still makes progress.
	r, size = decoder.DecodeNext([]byte{0xFF, 'a'})
	assert.Equal(t, '�', r)
	assert.Equal(t, 1, size)
}

func TestDecodeEmptyInput(t *testing.T) {
	for _, id := range []uint32{1252, 65001} {
		decoder, err := Get(id)
		assert.NoError(t, err)
		_, size := decoder.DecodeNext(nil)
		assert.Equal(t, 0, size)
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(1252))
	assert.True(t, IsValid(65001))
	assert.True(t, IsValid(932)) // real but undecodable
	assert.False(t, IsValid(12345))
}
