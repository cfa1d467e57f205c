package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// EventLine is one record written by EventWriter.
type EventLine struct {
	Method string          `json:"method"`
	Event  json.RawMessage `json:"event"`
}

// EventWriter is a platform.Channel that appends every invocation to w as
// one JSON line.
type EventWriter struct {
	mu sync.Mutex
	w  io.Writer
	n  int
}

// NewEventWriter returns a writer over w.
func NewEventWriter(w io.Writer) *EventWriter {
	return &EventWriter{w: w}
}

// InvokeMethod implements platform.Channel. payload must be a JSON document.
func (e *EventWriter) InvokeMethod(method, payload string) error {
	if !json.Valid([]byte(payload)) {
		return fmt.Errorf("invoke %s: payload is not valid JSON", method)
	}
	line, err := json.Marshal(EventLine{Method: method, Event: json.RawMessage(payload)})
	if err != nil {
		return fmt.Errorf("invoke %s: %w", method, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("invoke %s: %w", method, err)
	}
	e.n++
	return nil
}

// Written returns the number of lines written.
func (e *EventWriter) Written() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.n
}
