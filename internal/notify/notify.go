// Package notify provides observer implementations for overdue reminders.
// Actual mail transport is a deployment concern; the Recorder keeps the
// formatted messages so callers (and tests) can inspect what would be sent.
package notify

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/erazemk/knjiznica/internal/model"
)

// Recorder formats notifications like outgoing mail and stores them.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify records the notification as "To: <email> | <message>".
func (r *Recorder) Notify(user *model.User, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, fmt.Sprintf("To: %s | %s", user.Email, message))
	return nil
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.messages)
}

// Logger writes notifications to a structured log.
type Logger struct {
	Log *slog.Logger
}

// Notify logs the notification.
func (n *Logger) Notify(user *model.User, message string) error {
	log := n.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("overdue reminder", "user", user.Username, "email", user.Email, "message", message)
	return nil
}
