package webhookbot

import (
	"context"
	"time"
)

// OnParseFunc is called after an update is parsed. Use this to enrich the
// context with logging fields or trace spans. The returned context is used
// for the rest of the request.
type OnParseFunc func(ctx context.Context, u Update) context.Context

// OnParseErrorFunc is called when a payload cannot be classified.
type OnParseErrorFunc func(ctx context.Context, err error)

// OnDispatchFunc is called once the route and handler name are known, just
// before the handler executes or the active command changes.
type OnDispatchFunc func(ctx context.Context, route Route, name string)

// OnSuccessFunc is called after a handler returns a reply.
type OnSuccessFunc func(ctx context.Context, route Route, name string, duration time.Duration)

// OnFailureFunc is called after a handler fails, times out or panics.
type OnFailureFunc func(ctx context.Context, route Route, name string, err error, duration time.Duration)

// OnNoHandlerFunc is called when a command or callback name has no
// registered handler.
type OnNoHandlerFunc func(ctx context.Context, route Route, name string)

// OnFallbackFunc is called when an error is turned into a fallback reply.
type OnFallbackFunc func(ctx context.Context, chatID int64, err error)

// hooks holds all configured hook functions.
type hooks struct {
	onParse      []OnParseFunc
	onParseError []OnParseErrorFunc
	onDispatch   []OnDispatchFunc
	onSuccess    []OnSuccessFunc
	onFailure    []OnFailureFunc
	onNoHandler  []OnNoHandlerFunc
	onFallback   []OnFallbackFunc
}

// WithOnParse adds a hook called after an update is parsed.
// Multiple hooks are called in order, with context chaining through each.
//
// Example:
//
//	webhookbot.WithOnParse(func(ctx context.Context, u webhookbot.Update) context.Context {
//	    return logx.WithCtx(ctx, slog.Int64("update_id", u.ID))
//	})
func WithOnParse(fn OnParseFunc) Option {
	return func(d *Dispatcher) {
		d.hooks.onParse = append(d.hooks.onParse, fn)
	}
}

// WithOnParseError adds a hook called when a payload cannot be classified.
func WithOnParseError(fn OnParseErrorFunc) Option {
	return func(d *Dispatcher) {
		d.hooks.onParseError = append(d.hooks.onParseError, fn)
	}
}

// WithOnDispatch adds a hook called just before a handler executes.
// Multiple hooks are called in order.
func WithOnDispatch(fn OnDispatchFunc) Option {
	return func(d *Dispatcher) {
		d.hooks.onDispatch = append(d.hooks.onDispatch, fn)
	}
}

// WithOnSuccess adds a hook called after a handler returns a reply.
//
// Example:
//
//	webhookbot.WithOnSuccess(func(ctx context.Context, route webhookbot.Route, name string, d time.Duration) {
//	    metrics.Timing("bot.handler", d, "route:"+string(route))
//	})
func WithOnSuccess(fn OnSuccessFunc) Option {
	return func(d *Dispatcher) {
		d.hooks.onSuccess = append(d.hooks.onSuccess, fn)
	}
}

// WithOnFailure adds a hook called after a handler fails.
func WithOnFailure(fn OnFailureFunc) Option {
	return func(d *Dispatcher) {
		d.hooks.onFailure = append(d.hooks.onFailure, fn)
	}
}

// WithOnNoHandler adds a hook called when a command or callback name is not
// registered.
func WithOnNoHandler(fn OnNoHandlerFunc) Option {
	return func(d *Dispatcher) {
		d.hooks.onNoHandler = append(d.hooks.onNoHandler, fn)
	}
}

// WithOnFallback adds a hook called when Process answers an error with a
// fallback reply.
func WithOnFallback(fn OnFallbackFunc) Option {
	return func(d *Dispatcher) {
		d.hooks.onFallback = append(d.hooks.onFallback, fn)
	}
}

func (d *Dispatcher) callOnParse(ctx context.Context, u Update) context.Context {
	for _, fn := range d.hooks.onParse {
		ctx = fn(ctx, u)
	}
	return ctx
}

func (d *Dispatcher) callOnParseError(ctx context.Context, err error) {
	for _, fn := range d.hooks.onParseError {
		fn(ctx, err)
	}
}

func (d *Dispatcher) callOnDispatch(ctx context.Context, route Route, name string) {
	for _, fn := range d.hooks.onDispatch {
		fn(ctx, route, name)
	}
}

func (d *Dispatcher) callOnSuccess(ctx context.Context, route Route, name string, duration time.Duration) {
	for _, fn := range d.hooks.onSuccess {
		fn(ctx, route, name, duration)
	}
}

func (d *Dispatcher) callOnFailure(ctx context.Context, route Route, name string, err error, duration time.Duration) {
	for _, fn := range d.hooks.onFailure {
		fn(ctx, route, name, err, duration)
	}
}

func (d *Dispatcher) callOnNoHandler(ctx context.Context, route Route, name string) {
	for _, fn := range d.hooks.onNoHandler {
		fn(ctx, route, name)
	}
}

func (d *Dispatcher) callOnFallback(ctx context.Context, chatID int64, err error) {
	for _, fn := range d.hooks.onFallback {
		fn(ctx, chatID, err)
	}
}
