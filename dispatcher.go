package webhookbot

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultHandlerTimeout bounds a single handler invocation unless
// WithHandlerTimeout overrides it.
const DefaultHandlerTimeout = 30 * time.Second

var (
	// ErrUnknownCommand is matched by errors for command invocations naming
	// an unregistered command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrFeatureDisabled is returned for a current-command probe when the
	// probe was not enabled on the registry.
	ErrFeatureDisabled = errors.New("feature disabled")

	// ErrEmptyUpdate is returned for updates without routable contents.
	ErrEmptyUpdate = errors.New("empty update")

	// ErrNoActiveCommand is returned when a plain message or probe needs the
	// active command but no command is registered.
	ErrNoActiveCommand = errors.New("no active command")

	// ErrHandlerFailure is matched by every *HandlerError.
	ErrHandlerFailure = errors.New("handler failure")
)

// Route names the dispatch path an update took.
type Route string

// Dispatch routes.
const (
	RouteCallback Route = "callback"
	RouteCurrent  Route = "current"
	RouteCommand  Route = "command"
	RouteInline   Route = "inline"
	RouteMessage  Route = "message"
)

// UnknownCommandError reports a command invocation for an unregistered name.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string { return "unknown command: " + e.Name }

// Is reports whether target is ErrUnknownCommand.
func (e *UnknownCommandError) Is(target error) bool { return target == ErrUnknownCommand }

// HandlerError wraps a failure returned by (or a panic raised in) a
// registered handler.
type HandlerError struct {
	Route  Route
	Name   string
	ChatID int64
	Err    error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s handler %q: %v", e.Route, e.Name, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// Is reports whether target is ErrHandlerFailure.
func (e *HandlerError) Is(target error) bool { return target == ErrHandlerFailure }

// FallbackFunc renders the text of the reply sent in place of a failed
// dispatch.
type FallbackFunc func(err error) string

// DefaultFallback is the FallbackFunc used unless WithFallback overrides it.
// Every handler failure gets the generic text, whatever the handler returned.
func DefaultFallback(err error) string {
	var unknown *UnknownCommandError
	switch {
	case errors.Is(err, ErrHandlerFailure):
		return "Sorry, something went wrong"
	case errors.As(err, &unknown):
		return "Unknown command: " + unknown.Name
	case errors.Is(err, ErrFeatureDisabled):
		return "Command current is disabled"
	case errors.Is(err, ErrNoActiveCommand):
		return "No command selected"
	default:
		return "Sorry, something went wrong"
	}
}

// Dispatcher classifies updates and routes each one to exactly one handler.
//
// Usage:
//  1. Register handlers on a Builder
//  2. Build the Registry and pass it to New
//  3. Call Process for each raw delivery (or Dispatch for parsed updates)
//
// Dispatcher is safe for concurrent use. The active command is the only state
// it mutates.
type Dispatcher struct {
	registry *Registry
	active   *ActiveCommand
	parser   *Parser
	hooks    hooks
	timeout  time.Duration
	fallback FallbackFunc
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// New creates a Dispatcher serving reg.
//
// Example:
//
//	b := webhookbot.NewBuilder()
//	_ = b.RegisterCommand("echo", echo)
//	d := webhookbot.New(b.Build(),
//	    webhookbot.WithHandlerTimeout(10*time.Second),
//	    webhookbot.LogHooks(logger),
//	)
func New(reg *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		active:   &ActiveCommand{},
		parser:   defaultParser,
		timeout:  DefaultHandlerTimeout,
		fallback: DefaultFallback,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithInspector sets the inspector used to read raw payloads.
func WithInspector(i Inspector) Option {
	return func(d *Dispatcher) {
		d.parser = NewParser(i)
	}
}

// WithActiveCommand shares an existing active-command slot.
func WithActiveCommand(a *ActiveCommand) Option {
	return func(d *Dispatcher) {
		d.active = a
	}
}

// WithHandlerTimeout bounds each handler invocation. Zero disables the
// timeout.
func WithHandlerTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.timeout = timeout
	}
}

// WithFallback sets the function rendering fallback reply text.
func WithFallback(fn FallbackFunc) Option {
	return func(d *Dispatcher) {
		d.fallback = fn
	}
}

// Registry returns the registry the dispatcher serves.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Active returns the active-command slot.
func (d *Dispatcher) Active() *ActiveCommand { return d.active }

// Process parses a raw delivery, dispatches it and returns the reply to send.
//
// Errors that still identify a chat (unknown commands, disabled probes,
// handler failures, malformed callbacks) are answered with a fallback reply
// to that chat. Only failures without a chat are returned as errors.
func (d *Dispatcher) Process(ctx context.Context, raw []byte) (Reply, error) {
	update, err := d.parser.Parse(raw)
	if err != nil {
		d.callOnParseError(ctx, err)
		var perr *ParseError
		if errors.As(err, &perr) && perr.HasChat {
			return d.fallbackReply(ctx, perr.ChatID, err), nil
		}
		return Reply{}, err
	}

	ctx = d.callOnParse(ctx, update)

	reply, err := d.Dispatch(ctx, update)
	if err == nil {
		return reply, nil
	}

	chatID, ok := update.ChatID()
	if !ok {
		return Reply{}, err
	}
	return d.fallbackReply(ctx, chatID, err), nil
}

// Dispatch routes a parsed update:
//
//   - CallbackInvocation: the callback handler named by the token, or an
//     echo of the unknown name
//   - CurrentProbe: the active command's name, if the probe is enabled
//   - CommandInvocation: selects the named command as active
//   - PlainMessage: the inline handler matching the text exactly, else the
//     active command's handler
//   - NoContents: ErrEmptyUpdate
func (d *Dispatcher) Dispatch(ctx context.Context, u Update) (Reply, error) {
	switch c := u.Contents.(type) {
	case CallbackInvocation:
		return d.dispatchCallback(ctx, c)
	case CurrentProbe:
		return d.dispatchCurrent(ctx, c)
	case CommandInvocation:
		return d.dispatchCommand(ctx, c)
	case PlainMessage:
		return d.dispatchMessage(ctx, c)
	default:
		return Reply{}, ErrEmptyUpdate
	}
}

func (d *Dispatcher) dispatchCallback(ctx context.Context, c CallbackInvocation) (Reply, error) {
	name := c.Token.Command
	h, ok := d.registry.Callback(name)
	if !ok {
		d.callOnNoHandler(ctx, RouteCallback, name)
		return NewReply(c.Message.ChatID, name), nil
	}
	return d.invoke(ctx, RouteCallback, name, c.Message.ChatID, func(ctx context.Context) (Reply, error) {
		return h.HandleCallback(ctx, c.Message, c.Token.Origin)
	})
}

func (d *Dispatcher) dispatchCurrent(ctx context.Context, c CurrentProbe) (Reply, error) {
	if !d.registry.CurrentProbeEnabled() {
		return Reply{}, fmt.Errorf("%w: %s", ErrFeatureDisabled, CurrentCommand)
	}
	cmd, ok := d.activeCommand()
	if !ok {
		return Reply{}, ErrNoActiveCommand
	}
	d.callOnDispatch(ctx, RouteCurrent, cmd.Name)
	return NewReply(c.ChatID, cmd.Name), nil
}

// dispatchCommand only changes the active command; the command's handler
// runs on the next plain message.
func (d *Dispatcher) dispatchCommand(ctx context.Context, c CommandInvocation) (Reply, error) {
	idx, ok := d.registry.CommandIndex(c.Command)
	if !ok {
		d.callOnNoHandler(ctx, RouteCommand, c.Command)
		return Reply{}, &UnknownCommandError{Name: c.Command}
	}
	d.callOnDispatch(ctx, RouteCommand, c.Command)
	d.active.Set(idx)
	return NewReply(c.ChatID, "Command set to "+c.Command), nil
}

func (d *Dispatcher) dispatchMessage(ctx context.Context, c PlainMessage) (Reply, error) {
	msg := c.Message
	if h, ok := d.registry.Inline(msg.Text); ok {
		return d.invoke(ctx, RouteInline, msg.Text, msg.ChatID, func(ctx context.Context) (Reply, error) {
			return h.Handle(ctx, msg)
		})
	}

	cmd, ok := d.activeCommand()
	if !ok {
		return Reply{}, ErrNoActiveCommand
	}
	return d.invoke(ctx, RouteMessage, cmd.Name, msg.ChatID, func(ctx context.Context) (Reply, error) {
		return cmd.Handler.Handle(ctx, msg)
	})
}

func (d *Dispatcher) activeCommand() (Command, bool) {
	return d.registry.Command(d.active.Get())
}

// invoke runs a handler and wraps its failure. A reply without a chat id is
// addressed to the triggering chat.
func (d *Dispatcher) invoke(ctx context.Context, route Route, name string, chatID int64, call func(context.Context) (Reply, error)) (Reply, error) {
	d.callOnDispatch(ctx, route, name)

	start := time.Now()
	reply, err := d.run(ctx, call)
	duration := time.Since(start)

	if err != nil {
		err = &HandlerError{Route: route, Name: name, ChatID: chatID, Err: err}
		d.callOnFailure(ctx, route, name, err, duration)
		return Reply{}, err
	}

	if reply.ChatID == 0 {
		reply.ChatID = chatID
	}
	d.callOnSuccess(ctx, route, name, duration)
	return reply, nil
}

type result struct {
	reply Reply
	err   error
}

// run calls the handler on its own goroutine so a timeout or cancellation
// releases the request even if the handler ignores ctx.
func (d *Dispatcher) run(ctx context.Context, call func(context.Context) (Reply, error)) (Reply, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	done := make(chan result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- result{err: fmt.Errorf("panic: %v", p)}
			}
		}()
		reply, err := call(ctx)
		done <- result{reply: reply, err: err}
	}()

	select {
	case res := <-done:
		return res.reply, res.err
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
}

func (d *Dispatcher) fallbackReply(ctx context.Context, chatID int64, err error) Reply {
	d.callOnFallback(ctx, chatID, err)
	return NewReply(chatID, d.fallback(err))
}
