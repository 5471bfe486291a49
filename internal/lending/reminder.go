package lending

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/erazemk/knjiznica/internal/clock"
	"github.com/erazemk/knjiznica/internal/model"
)

// Observer receives overdue notifications for a user. Implementations own
// their delivery mechanism; a returned error is logged by the reminder and
// never aborts delivery to the remaining observers.
type Observer interface {
	Notify(user *model.User, message string) error
}

// Reminder scans loans for overdue items and fans aggregated notifications
// out to registered observers: one call per observer per affected user,
// carrying that user's overdue count.
type Reminder struct {
	loans LoanRepository
	users UserRepository
	clock clock.Clock
	log   *slog.Logger

	mu        sync.Mutex
	observers []Observer
}

// NewReminder wires a reminder service. Nil collaborators panic; a nil
// logger falls back to slog.Default.
func NewReminder(loans LoanRepository, users UserRepository, clk clock.Clock, log *slog.Logger) *Reminder {
	if loans == nil || users == nil || clk == nil {
		panic("lending: nil collaborator")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Reminder{loans: loans, users: users, clock: clk, log: log}
}

// AddObserver registers an observer. Re-registering the same observer is a
// no-op, so each observer is notified at most once per user.
func (r *Reminder) AddObserver(obs Observer) {
	if obs == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.observers, obs) {
		return
	}
	r.observers = append(r.observers, obs)
}

// RemoveObserver unregisters an observer. Unknown observers are ignored.
func (r *Reminder) RemoveObserver(obs Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = slices.DeleteFunc(r.observers, func(o Observer) bool {
		return o == obs
	})
}

// SendOverdueNotifications notifies every observer once for each user who
// has at least one active overdue loan. Observer failures are isolated and
// logged; they are not surfaced to the caller.
func (r *Reminder) SendOverdueNotifications(ctx context.Context) error {
	today := r.clock.Today()

	all, err := r.loans.List(ctx)
	if err != nil {
		return fmt.Errorf("listing loans: %w", err)
	}

	// Group overdue loans by user, keeping first-seen order so delivery is
	// deterministic.
	counts := make(map[string]int)
	var userIDs []string
	for _, l := range all {
		if l.Returned() || !l.Overdue(today) {
			continue
		}
		if _, seen := counts[l.UserID]; !seen {
			userIDs = append(userIDs, l.UserID)
		}
		counts[l.UserID]++
	}

	for _, userID := range userIDs {
		user, err := r.users.ByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("looking up user %s: %w", userID, err)
		}
		if user == nil {
			r.log.Warn("skipping overdue notification for unknown user", "user_id", userID)
			continue
		}
		msg := fmt.Sprintf("You have %d overdue item(s).", counts[userID])
		r.notifyAll(user, msg)
	}

	return nil
}

// notifyAll dispatches to all observers in registration order.
func (r *Reminder) notifyAll(user *model.User, message string) {
	r.mu.Lock()
	observers := slices.Clone(r.observers)
	r.mu.Unlock()

	for _, obs := range observers {
		r.notifyOne(obs, user, message)
	}
}

// notifyOne contains the failure isolation: an observer that errors or
// panics must not prevent the rest from being notified.
func (r *Reminder) notifyOne(obs Observer, user *model.User, message string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("observer panicked during notification",
				"user", user.Username, "panic", rec)
		}
	}()

	if err := obs.Notify(user, message); err != nil {
		r.log.Error("observer failed to deliver notification",
			"user", user.Username, "error", err)
	}
}
