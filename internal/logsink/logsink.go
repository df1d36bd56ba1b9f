// Package logsink carries user-facing diagnostics from the solver
// components. Components receive a Sink explicitly; there is no package
// level logger.
package logsink

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Sink accepts one diagnostic message.
type Sink interface {
	Add(msg string)
}

// Discard drops every message.
type Discard struct{}

func (Discard) Add(string) {}

// OrDiscard returns s, or Discard when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard{}
	}
	return s
}

// Journal is the session log shown to the user. Entries are stamped
// "[HH:MM:SS]" and kept most recent first. Every entry is also written to
// the zerolog logger.
type Journal struct {
	mu      sync.Mutex
	entries []string
	logger  zerolog.Logger
	now     func() time.Time
}

// NewJournal creates an empty journal forwarding to logger.
func NewJournal(logger zerolog.Logger) *Journal {
	return &Journal{logger: logger, now: time.Now}
}

// Add records msg.
func (j *Journal) Add(msg string) {
	stamp := j.now().Format("[15:04:05]")
	j.mu.Lock()
	j.entries = append([]string{stamp + " " + msg}, j.entries...)
	j.mu.Unlock()
	j.logger.Info().Str("component", "journal").Msg(msg)
}

// Entries returns a copy of the entries, most recent first.
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of entries.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// String renders the journal one entry per line.
func (j *Journal) String() string {
	return strings.Join(j.Entries(), "\n")
}

// Recorder keeps raw messages in arrival order. Tests and the HTTP server
// use it to collect the diagnostics of a single request.
type Recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *Recorder) Add(msg string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// Tee forwards every message to each sink.
type Tee []Sink

func (t Tee) Add(msg string) {
	for _, s := range t {
		if s != nil {
			s.Add(msg)
		}
	}
}
