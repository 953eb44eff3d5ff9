package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	token := Encode("course-42", at)
	require.NotEmpty(t, token)

	c, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "course-42", c.LastID)
	assert.True(t, c.CreatedAt.Equal(at))
}

func TestDecode_EmptyTokenIsFirstPage(t *testing.T) {
	c, err := Decode("")
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode("not-base64!!")
	assert.ErrorIs(t, err, ErrInvalidCursor)

	_, err = Decode("aGVsbG8=") // valid base64, not a cursor
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestEncode_EmptyID(t *testing.T) {
	assert.Empty(t, Encode("", time.Now()))
}
