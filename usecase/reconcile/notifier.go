package reconcile

import (
	"errors"
	"sync"

	"github.com/fastygo/foodshare/domain"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a dismissible, user-facing message.
type Notification struct {
	Level   Level
	Message string
	Screen  string
	Err     error
}

type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

// Inbox collects notifications until they are dismissed.
type Inbox struct {
	mu    sync.Mutex
	items []Notification
}

func (i *Inbox) Notify(n Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.items = append(i.items, n)
}

// Drain returns and dismisses all pending notifications.
func (i *Inbox) Drain() []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.items
	i.items = nil
	return out
}

// Message is the human readable text of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var dErr *domain.Error
	if errors.As(err, &dErr) && dErr.Message != "" {
		return dErr.Message
	}
	return err.Error()
}
