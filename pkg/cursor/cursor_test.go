package cursor

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	createdAt, err := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
	require.NoError(t, err)

	p := Payload{LastTweetID: "123", CreatedAt: createdAt}

	token := Encode(p)
	require.NotEmpty(t, token)

	decoded := Decode(token)
	require.NotNil(t, decoded)
	assert.Equal(t, "123", decoded.LastTweetID)
	assert.True(t, decoded.CreatedAt.Equal(createdAt))
}

func TestEncodeIsURLSafeWithoutPadding(t *testing.T) {
	token := Encode(Payload{LastTweetID: "1846153847212345678", CreatedAt: time.Now().UTC()})

	assert.NotContains(t, token, "=")
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
}

func TestDecodeMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not base64", "!!not-base64!!"},
		{"base64 of garbage", base64.RawURLEncoding.EncodeToString([]byte("not json"))},
		{"json but wrong shape", base64.RawURLEncoding.EncodeToString([]byte(`"just a string"`))},
		{"wrong field types", base64.RawURLEncoding.EncodeToString([]byte(`{"lastTweetId":42,"createdAt":"2024-01-01T00:00:00Z"}`))},
		{"bad timestamp", base64.RawURLEncoding.EncodeToString([]byte(`{"lastTweetId":"1","createdAt":"yesterday"}`))},
		{"empty object", base64.RawURLEncoding.EncodeToString([]byte(`{}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Decode(tt.token))
		})
	}
}
