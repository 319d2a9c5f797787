package webhookbot

// CurrentCommand is the reserved command name that asks which command is
// currently active.
const CurrentCommand = "current"

// CommandMarker is the leading character that turns a text message into a
// command invocation.
const CommandMarker = '/'

// Update is one inbound delivery: a sequence id and exactly one Contents
// variant.
type Update struct {
	// ID is the platform's update sequence id. It is only used for
	// diagnostics.
	ID       int64
	Contents Contents
}

// ChatID returns the chat the update belongs to, or false when the update
// carries no actionable content.
func (u Update) ChatID() (int64, bool) {
	if u.Contents == nil {
		return 0, false
	}
	return u.Contents.chatID()
}

// Contents is the classified payload of an Update. The set of variants is
// closed: PlainMessage, CommandInvocation, CurrentProbe, CallbackInvocation
// and NoContents.
type Contents interface {
	chatID() (int64, bool)
}

// Message is the view of a chat message handed to handlers.
type Message struct {
	ID       int64
	Text     string
	SenderID int64
	ChatID   int64
}

// PlainMessage is free-form text without a command marker.
type PlainMessage struct {
	Message Message
}

// CommandInvocation is text that started with the command marker. Command is
// the text with the marker stripped.
type CommandInvocation struct {
	Command string
	ChatID  int64
}

// CurrentProbe asks which command is currently active.
type CurrentProbe struct {
	ChatID int64
}

// CallbackInvocation is a press on an inline button of a previously sent
// message.
type CallbackInvocation struct {
	ID       string
	SenderID int64
	Message  Message
	Token    CallbackToken
}

// NoContents marks an update without anything to route.
type NoContents struct{}

func (c PlainMessage) chatID() (int64, bool)       { return c.Message.ChatID, true }
func (c CommandInvocation) chatID() (int64, bool)  { return c.ChatID, true }
func (c CurrentProbe) chatID() (int64, bool)       { return c.ChatID, true }
func (c CallbackInvocation) chatID() (int64, bool) { return c.Message.ChatID, true }
func (NoContents) chatID() (int64, bool)           { return 0, false }
