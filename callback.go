package webhookbot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedCallback is returned when a callback payload cannot be decoded
// into a CallbackToken.
var ErrMalformedCallback = errors.New("malformed callback payload")

// CallbackToken identifies the callback handler an inline button routes to,
// plus the message the button was attached to when known.
//
// Tokens travel in the platform's callback data field, which is limited to a
// few dozen bytes, so the encoding is the bare command name optionally
// followed by "/" and the origin message id.
type CallbackToken struct {
	Command string
	Origin  *uint64
}

// NewCallbackToken returns a token for command without origin context.
func NewCallbackToken(command string) CallbackToken {
	return CallbackToken{Command: command}
}

// WithOrigin returns a copy of t carrying the given origin message id.
func (t CallbackToken) WithOrigin(id uint64) CallbackToken {
	t.Origin = &id
	return t
}

// String encodes the token as "<command>" or "<command>/<origin>".
func (t CallbackToken) String() string {
	if t.Origin == nil {
		return t.Command
	}
	return t.Command + "/" + strconv.FormatUint(*t.Origin, 10)
}

// MarshalText implements encoding.TextMarshaler.
func (t CallbackToken) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *CallbackToken) UnmarshalText(text []byte) error {
	parsed, err := ParseCallbackToken(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseCallbackToken decodes a token produced by CallbackToken.String.
// The payload is split on the first "/"; a second segment must be an
// unsigned integer.
func ParseCallbackToken(s string) (CallbackToken, error) {
	command, origin, found := strings.Cut(s, "/")
	if command == "" {
		return CallbackToken{}, fmt.Errorf("%w: empty command in %q", ErrMalformedCallback, s)
	}
	if !found {
		return CallbackToken{Command: command}, nil
	}
	id, err := strconv.ParseUint(origin, 10, 64)
	if err != nil {
		return CallbackToken{}, fmt.Errorf("%w: origin %q: %w", ErrMalformedCallback, origin, err)
	}
	return CallbackToken{Command: command, Origin: &id}, nil
}
