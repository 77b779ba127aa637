package server

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Console levels reported to clients
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// ConsoleMessage is one log line captured during a render
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
}

// Console is the core.Logger handed to a render. Every line is echoed to the
// server log; renders with a client attached also queue lines on a bounded
// channel and count the ones that did not fit.
type Console struct {
	renderID string
	out      io.Writer
	lines    chan ConsoleMessage
	dropped  atomic.Int64
}

// NewConsole creates the console for a render. A capacity of zero disables the
// client queue and only the server log receives lines.
func NewConsole(renderID string, capacity int) *Console {
	c := &Console{renderID: renderID, out: os.Stdout}
	if capacity > 0 {
		c.lines = make(chan ConsoleMessage, capacity)
	}
	return c
}

// Printf implements core.Logger
func (c *Console) Printf(format string, args ...interface{}) {
	text := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintf(c.out, "[%s] %s\n", c.renderID, text)

	if c.lines == nil {
		return
	}
	msg := ConsoleMessage{
		RenderID:  c.renderID,
		Message:   text,
		Timestamp: time.Now(),
		Level:     messageLevel(text),
	}
	select {
	case c.lines <- msg:
	default:
		c.dropped.Add(1)
	}
}

// Messages returns the client queue, or nil when the console has none.
// Receiving from the nil channel blocks forever, which keeps a select loop idle.
func (c *Console) Messages() <-chan ConsoleMessage {
	return c.lines
}

// Drain collects the lines queued so far without waiting for more
func (c *Console) Drain() []ConsoleMessage {
	messages := []ConsoleMessage{}
	for {
		select {
		case msg := <-c.lines:
			messages = append(messages, msg)
		default:
			return messages
		}
	}
}

// Dropped reports how many lines were discarded because the queue was full
func (c *Console) Dropped() int64 {
	return c.dropped.Load()
}

// messageLevel classifies a renderer log line
func messageLevel(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "error"), strings.Contains(lower, "failed"):
		return LevelError
	case strings.Contains(lower, "warning"), strings.Contains(lower, "cancelled"):
		return LevelWarning
	default:
		return LevelInfo
	}
}
