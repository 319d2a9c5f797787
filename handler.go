package webhookbot

import "context"

// CommandHandler produces the reply to a chat message. It backs both
// selectable commands and inline-triggered commands.
//
// A handler returns exactly one Reply or an error; partial results are not
// delivered. The Message is shared with other observers and must not be
// modified.
//
// Example:
//
//	type echoHandler struct{}
//
//	func (echoHandler) Handle(ctx context.Context, msg webhookbot.Message) (webhookbot.Reply, error) {
//	    return webhookbot.NewReply(msg.ChatID, msg.Text), nil
//	}
type CommandHandler interface {
	Handle(ctx context.Context, msg Message) (Reply, error)
}

// CommandFunc is a function adapter for CommandHandler:
//
//	b.RegisterCommand("echo", webhookbot.CommandFunc(func(ctx context.Context, msg webhookbot.Message) (webhookbot.Reply, error) {
//	    return webhookbot.NewReply(msg.ChatID, msg.Text), nil
//	}))
type CommandFunc func(ctx context.Context, msg Message) (Reply, error)

// Handle implements the CommandHandler interface.
func (f CommandFunc) Handle(ctx context.Context, msg Message) (Reply, error) {
	return f(ctx, msg)
}

// CallbackHandler produces the reply to an inline button press. msg is the
// message the button was attached to; origin is the message id carried in
// the callback token, or nil when the token had none.
type CallbackHandler interface {
	HandleCallback(ctx context.Context, msg Message, origin *uint64) (Reply, error)
}

// CallbackFunc is a function adapter for CallbackHandler.
type CallbackFunc func(ctx context.Context, msg Message, origin *uint64) (Reply, error)

// HandleCallback implements the CallbackHandler interface.
func (f CallbackFunc) HandleCallback(ctx context.Context, msg Message, origin *uint64) (Reply, error) {
	return f(ctx, msg, origin)
}
