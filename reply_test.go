package webhookbot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReply_MarshalJSON(t *testing.T) {
	t.Run("plain text omits optional fields", func(t *testing.T) {
		raw, err := json.Marshal(NewReply(42, "hello"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"chat_id": 42, "text": "hello"}`, string(raw))
	})

	t.Run("parse mode", func(t *testing.T) {
		raw, err := json.Marshal(NewReply(1, "*hi*").WithParseMode(ParseModeMarkdownV2))
		require.NoError(t, err)
		assert.JSONEq(t, `{"chat_id": 1, "text": "*hi*", "parse_mode": "MarkdownV2"}`, string(raw))
	})

	t.Run("inline keyboard", func(t *testing.T) {
		reply := NewReply(-100, "pick").WithKeyboard(
			Row(
				Button{Label: "More", Token: NewCallbackToken("more").WithOrigin(99)},
				Button{Label: "Stop", Token: NewCallbackToken("stop")},
			),
			Row(Button{Label: "Help", Token: NewCallbackToken("help")}),
		)

		raw, err := json.Marshal(reply)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"chat_id": -100,
			"text": "pick",
			"reply_markup": {"inline_keyboard": [
				[{"text": "More", "callback_data": "more/99"}, {"text": "Stop", "callback_data": "stop"}],
				[{"text": "Help", "callback_data": "help"}]
			]}
		}`, string(raw))
	})

	t.Run("empty keyboard is omitted", func(t *testing.T) {
		raw, err := json.Marshal(NewReply(1, "x").WithKeyboard())
		require.NoError(t, err)
		assert.JSONEq(t, `{"chat_id": 1, "text": "x"}`, string(raw))
	})
}

func TestReply_BuildersCopy(t *testing.T) {
	base := NewReply(1, "x")
	_ = base.WithParseMode(ParseModeHTML)
	_ = base.WithKeyboard(Row(Button{Label: "a", Token: NewCallbackToken("a")}))

	assert.Equal(t, ParseModeNone, base.ParseMode)
	assert.Nil(t, base.Keyboard)
}
