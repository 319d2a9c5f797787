// Package webhookbot is the dispatch core of a chat-bot webhook receiver.
//
// The package takes raw update payloads delivered by a messaging platform,
// classifies each into one content shape (plain text, command, inline button
// callback or the "current" probe) and routes it to exactly one registered
// handler, which returns the reply to send back.
//
// # Quick Start
//
// Register handlers on a Builder, freeze it, and serve with a Dispatcher:
//
//	b := webhookbot.NewBuilder()
//
//	_ = b.RegisterCommand("echo", webhookbot.CommandFunc(func(ctx context.Context, msg webhookbot.Message) (webhookbot.Reply, error) {
//	    return webhookbot.NewReply(msg.ChatID, msg.Text), nil
//	}))
//	_ = b.EnableCurrentProbe()
//
//	d := webhookbot.New(b.Build())
//
//	// For each webhook delivery:
//	reply, err := d.Process(ctx, body)
//
// # Classification
//
// Parse reads the payload through an Inspector and evaluates classification
// rules in priority order, each guarded by a Discriminator:
//
//  1. callback_query: CallbackInvocation; its data must decode as a
//     CallbackToken or parsing fails with ErrMalformedCallback
//  2. message text exactly "/current": CurrentProbe
//  3. message with text: text starting with "/" is a CommandInvocation, the
//     rest is a PlainMessage
//  4. edited_message with text: PlainMessage
//  5. anything else: NoContents
//
// A payload without update_id fails with ErrMissingField. Unknown fields are
// ignored.
//
// # Handlers
//
// There are three independent tables:
//
//   - Commands, in registration order. One command is active at a time and
//     receives plain messages. "/name" selects it.
//   - Inline commands, matched by the exact text of a plain message. They
//     run immediately and ignore the active command.
//   - Callbacks, matched by the command name of a CallbackToken.
//
// A name may be registered once per table; the same name may appear in
// different tables.
//
// # Callback Tokens
//
// Inline buttons carry a compact token, "<command>" or
// "<command>/<origin message id>", because the platform limits callback data
// to a few dozen bytes:
//
//	row := webhookbot.Row(webhookbot.Button{
//	    Label: "More",
//	    Token: webhookbot.NewCallbackToken("more").WithOrigin(uint64(msg.ID)),
//	})
//	reply := webhookbot.NewReply(msg.ChatID, "pong").WithKeyboard(row)
//
// # Hooks
//
// Hooks provide observability without coupling to a logging or metrics
// system:
//
//	d := webhookbot.New(reg,
//	    webhookbot.WithOnFailure(func(ctx context.Context, route webhookbot.Route, name string, err error, d time.Duration) {
//	        metrics.Incr("bot.handler.error", "route:"+string(route))
//	    }),
//	)
//
// LogHooks wires every hook to a *slog.Logger.
//
// # Error Handling
//
// Dispatch returns errors as they happen. Process applies the delivery
// policy: when the failed update still identifies a chat, the error becomes a
// fallback reply to that chat (see DefaultFallback); otherwise it is returned
// and the transport decides how to answer.
//
// # Thread Safety
//
// A Registry is immutable and a Dispatcher is safe for concurrent use.
// Registration calls on a Builder fail with ErrRegistryFrozen once Build has
// been called.
package webhookbot
