// Package audit provides structured event logging for installer runs and
// health changes. Events are stored as JSON Lines (JSONL) files, one per
// stack project.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EventType classifies an event.
type EventType string

const (
	EventInstall EventType = "install"
	EventVerify  EventType = "verify"
	EventHealth  EventType = "health"
	EventError   EventType = "error"
)

// Event represents a single audit log entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Project   string    `json:"project"`
	Details   string    `json:"details,omitempty"`
}

// DefaultMaxEvents bounds a project's log. A watch loop records one event
// per health transition, so the log is trimmed rather than left to grow.
const DefaultMaxEvents = 1000

// Logger writes and reads audit events.
// Events are stored in {stateDir}/{project}.events.jsonl. A nil Logger
// discards everything.
type Logger struct {
	stateDir  string
	maxEvents int
}

// LoggerOption configures a Logger.
type LoggerOption func(*Logger)

// WithMaxEvents keeps at most n events per project. Zero disables trimming.
func WithMaxEvents(n int) LoggerOption {
	return func(l *Logger) {
		l.maxEvents = n
	}
}

// NewLogger creates a new audit logger rooted at stateDir.
func NewLogger(stateDir string, opts ...LoggerOption) *Logger {
	l := &Logger{stateDir: stateDir, maxEvents: DefaultMaxEvents}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// eventPath returns the path to the JSONL event log for a project.
func (l *Logger) eventPath(project string) string {
	return filepath.Join(l.stateDir, project+".events.jsonl")
}

// Log appends an event to the project's audit log.
func (l *Logger) Log(event Event) error {
	if l == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	path := l.eventPath(event.Project)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := appendLine(path, data); err != nil {
		return err
	}
	return l.trim(event.Project)
}

func appendLine(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// trim rewrites the log with its newest maxEvents entries once it has grown
// past twice that size, so most appends skip the rewrite.
func (l *Logger) trim(project string) error {
	if l.maxEvents <= 0 {
		return nil
	}
	events, err := l.Events(project)
	if err != nil || len(events) <= 2*l.maxEvents {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, e := range events[len(events)-l.maxEvents:] {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
	}

	path := l.eventPath(project)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to trim audit log: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to trim audit log: %w", err)
	}
	return nil
}

// LogEvent is a convenience method that creates and logs an event.
func (l *Logger) LogEvent(eventType EventType, project, details string) error {
	return l.Log(Event{
		Timestamp: time.Now(),
		Type:      eventType,
		Project:   project,
		Details:   details,
	})
}

// Events reads all events for a project in chronological order.
func (l *Logger) Events(project string) ([]Event, error) {
	if l == nil {
		return nil, nil
	}
	path := l.eventPath(project)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading audit log: %w", err)
	}

	return events, nil
}

// Tail returns the last n events of the given types for a project.
func (l *Logger) Tail(project string, n int, types ...EventType) ([]Event, error) {
	events, err := l.Events(project)
	events = Filter(events, types...)
	if err != nil || n <= 0 || len(events) <= n {
		return events, err
	}
	return events[len(events)-n:], nil
}

// ParseEventType validates an event type given on the command line.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(s); t {
	case EventInstall, EventVerify, EventHealth, EventError:
		return t, nil
	}
	return "", fmt.Errorf("unknown event type %q (want install, verify, health or error)", s)
}

// Filter returns the events whose type is one of types. No types keeps all.
func Filter(events []Event, types ...EventType) []Event {
	if len(types) == 0 {
		return events
	}
	var out []Event
	for _, e := range events {
		for _, t := range types {
			if e.Type == t {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
