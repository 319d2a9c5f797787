package webhookbot

import (
	"errors"
	"fmt"
)

// ErrMissingField is returned when a field required to classify or route an
// update is absent.
var ErrMissingField = errors.New("missing field")

// ParseError describes why an update payload could not be classified.
//
// When the payload still identified a chat, ChatID holds it and HasChat is
// true, so the caller can answer the user instead of dropping the update.
type ParseError struct {
	Field   string
	ChatID  int64
	HasChat bool
	Err     error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return "parse update: " + e.Err.Error()
	}
	return fmt.Sprintf("parse update: %s: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// rule classifies one shape of update. Rules are evaluated in order; the
// first rule whose discriminator matches decides the contents.
type rule struct {
	disc  Discriminator
	parse func(v View) (Contents, error)
}

var rules = []rule{
	{
		disc:  HasFields("callback_query"),
		parse: parseCallback,
	},
	{
		disc:  FieldEquals("message.text", string(CommandMarker)+CurrentCommand),
		parse: parseProbe,
	},
	{
		disc: NonEmpty("message.text"),
		parse: func(v View) (Contents, error) {
			return parseMessage(v, "message", true)
		},
	},
	{
		disc: NonEmpty("edited_message.text"),
		parse: func(v View) (Contents, error) {
			return parseMessage(v, "edited_message", false)
		},
	},
}

// Parser turns raw update payloads into Updates.
type Parser struct {
	inspector Inspector
}

// NewParser returns a Parser that reads payloads through inspector. A nil
// inspector selects JSONInspector.
func NewParser(inspector Inspector) *Parser {
	if inspector == nil {
		inspector = JSONInspector()
	}
	return &Parser{inspector: inspector}
}

var defaultParser = NewParser(nil)

// Parse classifies a raw JSON update with the default parser.
func Parse(raw []byte) (Update, error) {
	return defaultParser.Parse(raw)
}

// Parse classifies raw into an Update.
//
// Classification order:
//  1. callback_query present: CallbackInvocation (the payload must decode
//     as a CallbackToken)
//  2. message text exactly "/current": CurrentProbe
//  3. message with non-empty text: CommandInvocation when the text starts
//     with the command marker, PlainMessage otherwise
//  4. edited_message with non-empty text: PlainMessage
//  5. otherwise NoContents
//
// Unknown top-level fields are ignored.
func (p *Parser) Parse(raw []byte) (Update, error) {
	view, err := p.inspector.Inspect(raw)
	if err != nil {
		return Update{}, &ParseError{Err: err}
	}

	id, ok := view.GetInt("update_id")
	if !ok {
		return Update{}, &ParseError{Field: "update_id", Err: ErrMissingField}
	}

	for _, r := range rules {
		if !r.disc.Match(view) {
			continue
		}
		contents, err := r.parse(view)
		if err != nil {
			return Update{ID: id}, err
		}
		return Update{ID: id, Contents: contents}, nil
	}

	return Update{ID: id, Contents: NoContents{}}, nil
}

func parseMessage(v View, prefix string, commands bool) (Contents, error) {
	text, _ := v.GetString(prefix + ".text")

	chatID, ok := v.GetInt(prefix + ".chat.id")
	if !ok {
		return nil, &ParseError{Field: prefix + ".chat.id", Err: ErrMissingField}
	}

	if commands && text[0] == CommandMarker {
		return CommandInvocation{Command: text[1:], ChatID: chatID}, nil
	}

	msg, err := readMessage(v, prefix, chatID)
	if err != nil {
		return nil, err
	}
	return PlainMessage{Message: msg}, nil
}

func parseProbe(v View) (Contents, error) {
	chatID, ok := v.GetInt("message.chat.id")
	if !ok {
		return nil, &ParseError{Field: "message.chat.id", Err: ErrMissingField}
	}
	return CurrentProbe{ChatID: chatID}, nil
}

// parseCallback decodes the token before requiring the originating message,
// so a malformed payload is reported as such even without a chat.
func parseCallback(v View) (Contents, error) {
	const prefix = "callback_query"

	chatID, hasChat := v.GetInt(prefix + ".message.chat.id")

	data, ok := v.GetString(prefix + ".data")
	if !ok {
		return nil, &ParseError{
			Field:   prefix + ".data",
			ChatID:  chatID,
			HasChat: hasChat,
			Err:     fmt.Errorf("%w: no data", ErrMalformedCallback),
		}
	}
	token, err := ParseCallbackToken(data)
	if err != nil {
		return nil, &ParseError{Field: prefix + ".data", ChatID: chatID, HasChat: hasChat, Err: err}
	}

	if !hasChat {
		return nil, &ParseError{Field: prefix + ".message.chat.id", Err: ErrMissingField}
	}

	msg, err := readMessage(v, prefix+".message", chatID)
	if err != nil {
		return nil, err
	}

	id, _ := v.GetString(prefix + ".id")
	sender, _ := v.GetInt(prefix + ".from.id")

	return CallbackInvocation{
		ID:       id,
		SenderID: sender,
		Message:  msg,
		Token:    token,
	}, nil
}

// readMessage reads the message object at prefix. The sender is optional;
// channel posts have none.
func readMessage(v View, prefix string, chatID int64) (Message, error) {
	id, ok := v.GetInt(prefix + ".message_id")
	if !ok {
		return Message{}, &ParseError{
			Field:   prefix + ".message_id",
			ChatID:  chatID,
			HasChat: true,
			Err:     ErrMissingField,
		}
	}
	text, _ := v.GetString(prefix + ".text")
	sender, _ := v.GetInt(prefix + ".from.id")

	return Message{
		ID:       id,
		Text:     text,
		SenderID: sender,
		ChatID:   chatID,
	}, nil
}
