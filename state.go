package webhookbot

import "sync/atomic"

// ActiveCommand holds the position of the command that receives plain
// messages. It is shared by all concurrent dispatches.
//
// Reads and writes are atomic but unordered with respect to each other: a
// plain message dispatched while a command is being selected may see either
// the old or the new command.
type ActiveCommand struct {
	idx atomic.Int64
}

// Get returns the active command position.
func (a *ActiveCommand) Get() int {
	return int(a.idx.Load())
}

// Set makes the command at position i active.
func (a *ActiveCommand) Set(i int) {
	a.idx.Store(int64(i))
}
