package webhookbot

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateName is returned when a name is registered twice in the
	// same table.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrInvalidName is returned for names that cannot be addressed. Names
	// must be non-empty; command and callback names must not contain "/",
	// and "current" is reserved in the commands table.
	ErrInvalidName = errors.New("invalid name")

	// ErrRegistryFrozen is returned by registration calls made after Build.
	ErrRegistryFrozen = errors.New("registry is frozen")
)

// Table names used in registration errors and hooks.
const (
	TableCommands  = "commands"
	TableInline    = "inline"
	TableCallbacks = "callbacks"
)

// Command is a selectable command.
type Command struct {
	Name    string
	Handler CommandHandler
}

// Builder collects handlers before serving starts. Builder is not safe for
// concurrent use; all registration happens during startup.
//
// The three tables are independent: a name may appear once in each of
// commands, inline commands and callbacks.
type Builder struct {
	commands     []Command
	inline       map[string]CommandHandler
	callbacks    map[string]CallbackHandler
	currentProbe bool
	frozen       bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		inline:    make(map[string]CommandHandler),
		callbacks: make(map[string]CallbackHandler),
	}
}

// RegisterCommand appends a selectable command. Registration order is
// significant: the first command is active until a user selects another.
func (b *Builder) RegisterCommand(name string, h CommandHandler) error {
	if err := b.check(TableCommands, name, h != nil); err != nil {
		return err
	}
	for _, c := range b.commands {
		if c.Name == name {
			return duplicate(TableCommands, name)
		}
	}
	b.commands = append(b.commands, Command{Name: name, Handler: h})
	return nil
}

// RegisterInline adds a handler invoked when a plain message's text equals
// name exactly.
func (b *Builder) RegisterInline(name string, h CommandHandler) error {
	if err := b.check(TableInline, name, h != nil); err != nil {
		return err
	}
	if _, exists := b.inline[name]; exists {
		return duplicate(TableInline, name)
	}
	b.inline[name] = h
	return nil
}

// RegisterCallback adds a handler for inline button presses whose callback
// token names it.
func (b *Builder) RegisterCallback(name string, h CallbackHandler) error {
	if err := b.check(TableCallbacks, name, h != nil); err != nil {
		return err
	}
	if _, exists := b.callbacks[name]; exists {
		return duplicate(TableCallbacks, name)
	}
	b.callbacks[name] = h
	return nil
}

// EnableCurrentProbe turns on replies to the "current" command.
func (b *Builder) EnableCurrentProbe() error {
	if b.frozen {
		return ErrRegistryFrozen
	}
	b.currentProbe = true
	return nil
}

// Build freezes the builder and returns the registry snapshot. Later
// registration calls fail with ErrRegistryFrozen.
func (b *Builder) Build() *Registry {
	b.frozen = true

	inline := make(map[string]CommandHandler, len(b.inline))
	for k, v := range b.inline {
		inline[k] = v
	}
	callbacks := make(map[string]CallbackHandler, len(b.callbacks))
	for k, v := range b.callbacks {
		callbacks[k] = v
	}

	return &Registry{
		commands:     append([]Command(nil), b.commands...),
		inline:       inline,
		callbacks:    callbacks,
		currentProbe: b.currentProbe,
	}
}

func (b *Builder) check(table, name string, hasHandler bool) error {
	if b.frozen {
		return ErrRegistryFrozen
	}
	invalid := name == ""
	switch table {
	case TableCommands:
		invalid = invalid || strings.ContainsRune(name, '/') || name == CurrentCommand
	case TableCallbacks:
		invalid = invalid || strings.ContainsRune(name, '/')
	}
	if invalid {
		return fmt.Errorf("%w: %s %q", ErrInvalidName, table, name)
	}
	if !hasHandler {
		return fmt.Errorf("%s %q: nil handler", table, name)
	}
	return nil
}

func duplicate(table, name string) error {
	return fmt.Errorf("%w: %s %q already registered", ErrDuplicateName, table, name)
}

// Registry is the read-only handler snapshot used by a Dispatcher. It is safe
// for concurrent use.
type Registry struct {
	commands     []Command
	inline       map[string]CommandHandler
	callbacks    map[string]CallbackHandler
	currentProbe bool
}

// Command returns the command at position i.
func (r *Registry) Command(i int) (Command, bool) {
	if i < 0 || i >= len(r.commands) {
		return Command{}, false
	}
	return r.commands[i], true
}

// CommandIndex returns the position of the command named name.
func (r *Registry) CommandIndex(name string) (int, bool) {
	for i, c := range r.commands {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Commands returns the command names in registration order.
func (r *Registry) Commands() []string {
	names := make([]string, len(r.commands))
	for i, c := range r.commands {
		names[i] = c.Name
	}
	return names
}

// Inline returns the inline-triggered handler for text.
func (r *Registry) Inline(text string) (CommandHandler, bool) {
	h, ok := r.inline[text]
	return h, ok
}

// Callback returns the callback handler registered under name.
func (r *Registry) Callback(name string) (CallbackHandler, bool) {
	h, ok := r.callbacks[name]
	return h, ok
}

// CurrentProbeEnabled reports whether the "current" command is answered.
func (r *Registry) CurrentProbeEnabled() bool {
	return r.currentProbe
}
