package webhookbot

import "encoding/json"

// ParseMode selects how the platform renders reply text.
type ParseMode string

// Parse modes understood by the send-message endpoint.
const (
	ParseModeNone       ParseMode = ""
	ParseModeMarkdown   ParseMode = "Markdown"
	ParseModeMarkdownV2 ParseMode = "MarkdownV2"
	ParseModeHTML       ParseMode = "HTML"
)

// Reply is an outbound message addressed to a chat.
type Reply struct {
	ChatID    int64
	Text      string
	ParseMode ParseMode
	Keyboard  Keyboard
}

// Keyboard is an inline keyboard: rows of buttons, in display order.
type Keyboard [][]Button

// Button is an inline keyboard button. Pressing it delivers Token back as a
// callback invocation.
type Button struct {
	Label string
	Token CallbackToken
}

// NewReply returns a plain text reply.
func NewReply(chatID int64, text string) Reply {
	return Reply{ChatID: chatID, Text: text}
}

// WithParseMode returns a copy of r rendered with mode.
func (r Reply) WithParseMode(mode ParseMode) Reply {
	r.ParseMode = mode
	return r
}

// WithKeyboard returns a copy of r with the given button rows.
func (r Reply) WithKeyboard(rows ...[]Button) Reply {
	r.Keyboard = rows
	return r
}

// Row is a convenience constructor for one keyboard row.
func Row(buttons ...Button) []Button {
	return buttons
}

type wireButton struct {
	Text         string        `json:"text"`
	CallbackData CallbackToken `json:"callback_data"`
}

type wireMarkup struct {
	InlineKeyboard [][]wireButton `json:"inline_keyboard"`
}

type wireReply struct {
	ChatID      int64       `json:"chat_id"`
	Text        string      `json:"text"`
	ParseMode   ParseMode   `json:"parse_mode,omitempty"`
	ReplyMarkup *wireMarkup `json:"reply_markup,omitempty"`
}

// MarshalJSON encodes the reply in the send-message request shape. The
// parse mode and reply markup are omitted when unset.
func (r Reply) MarshalJSON() ([]byte, error) {
	w := wireReply{
		ChatID:    r.ChatID,
		Text:      r.Text,
		ParseMode: r.ParseMode,
	}
	if len(r.Keyboard) > 0 {
		rows := make([][]wireButton, len(r.Keyboard))
		for i, row := range r.Keyboard {
			rows[i] = make([]wireButton, len(row))
			for j, b := range row {
				rows[i][j] = wireButton{Text: b.Label, CallbackData: b.Token}
			}
		}
		w.ReplyMarkup = &wireMarkup{InlineKeyboard: rows}
	}
	return json.Marshal(w)
}
