package script

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultConsoleHistory is the number of lines a Console keeps.
const DefaultConsoleHistory = 256

// Console is the script output sink. Script prints and listener
// failures both end up here.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	log     zerolog.Logger
	lines   []string
	maxKeep int
}

// NewConsole creates a console writing to out. A nil out discards.
func NewConsole(out io.Writer, log zerolog.Logger) *Console {
	if out == nil {
		out = io.Discard
	}
	return &Console{
		out:     out,
		log:     log,
		maxKeep: DefaultConsoleHistory,
	}
}

// Print writes msg as one line.
func (c *Console) Print(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintln(c.out, msg); err != nil {
		c.log.Error().Err(err).Msg("console write failed")
	}
	c.log.Debug().Str("line", msg).Msg("console")

	c.lines = append(c.lines, msg)
	if over := len(c.lines) - c.maxKeep; over > 0 {
		c.lines = append(c.lines[:0], c.lines[over:]...)
	}
}

// Lines returns the most recent lines, oldest first.
func (c *Console) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}
