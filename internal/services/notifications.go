package services

import (
	"sync"
	"time"
)

type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelSuccess NotificationLevel = "success"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

const maxPendingNotifications = 50

// Notification is a transient, user-facing message.
type Notification struct {
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"created_at"`
}

// notificationQueue keeps the most recent undelivered notifications.
type notificationQueue struct {
	mu      sync.Mutex
	pending []Notification
}

func (q *notificationQueue) push(level NotificationLevel, message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, Notification{Level: level, Message: message, CreatedAt: time.Now().UTC()})
	if over := len(q.pending) - maxPendingNotifications; over > 0 {
		q.pending = append([]Notification(nil), q.pending[over:]...)
	}
}

func (q *notificationQueue) drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}
