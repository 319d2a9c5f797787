package webhookbot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackToken_String(t *testing.T) {
	assert.Equal(t, "more", NewCallbackToken("more").String())
	assert.Equal(t, "more/99", NewCallbackToken("more").WithOrigin(99).String())
}

func TestParseCallbackToken(t *testing.T) {
	t.Run("name only", func(t *testing.T) {
		tok, err := ParseCallbackToken("more")
		require.NoError(t, err)
		assert.Equal(t, "more", tok.Command)
		assert.Nil(t, tok.Origin)
	})

	t.Run("name with origin", func(t *testing.T) {
		tok, err := ParseCallbackToken("more/99")
		require.NoError(t, err)
		assert.Equal(t, "more", tok.Command)
		require.NotNil(t, tok.Origin)
		assert.Equal(t, uint64(99), *tok.Origin)
	})

	t.Run("splits on first slash only", func(t *testing.T) {
		_, err := ParseCallbackToken("more/1/2")
		assert.ErrorIs(t, err, ErrMalformedCallback)
	})

	malformed := map[string]string{
		"empty":           "",
		"empty command":   "/5",
		"negative origin": "more/-1",
		"text origin":     "more/abc",
		"empty origin":    "more/",
		"overflow":        "more/18446744073709551616",
	}
	for name, payload := range malformed {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCallbackToken(payload)
			assert.ErrorIs(t, err, ErrMalformedCallback)
		})
	}
}

func TestCallbackToken_RoundTrip(t *testing.T) {
	names := []string{"more", "a", "next_page", "ünïcode", "with space"}
	origins := []uint64{0, 1, 99, 1 << 32, math.MaxUint64}

	for _, name := range names {
		tok, err := ParseCallbackToken(NewCallbackToken(name).String())
		require.NoError(t, err)
		assert.Equal(t, NewCallbackToken(name), tok)

		for _, origin := range origins {
			want := NewCallbackToken(name).WithOrigin(origin)
			got, err := ParseCallbackToken(want.String())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	}
}

func TestCallbackToken_Text(t *testing.T) {
	var tok CallbackToken
	require.NoError(t, tok.UnmarshalText([]byte("page/3")))
	assert.Equal(t, NewCallbackToken("page").WithOrigin(3), tok)

	text, err := tok.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "page/3", string(text))

	assert.ErrorIs(t, tok.UnmarshalText([]byte("page/x")), ErrMalformedCallback)
}
