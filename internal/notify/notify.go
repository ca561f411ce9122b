// Пакет notify — пользовательские уведомления (toast) с дедупликацией по ID.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Level — тип уведомления.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// DefaultDuration — время показа уведомления по умолчанию.
const DefaultDuration = 2500 * time.Millisecond

// Notification — одно уведомление.
// Пустой ID отключает дедупликацию.
type Notification struct {
	ID       string
	Level    Level
	Message  string
	Duration time.Duration
}

// Notifier — получатель уведомлений.
// Notify возвращает false, если уведомление подавлено как повтор.
type Notifier interface {
	Notify(n Notification) bool
}

// Sink — место вывода показанных уведомлений.
type Sink func(n Notification)

// Center — Notifier с дедупликацией: уведомление с ID, совпадающим
// с ещё видимым уведомлением, не показывается повторно.
type Center struct {
	sinks    []Sink
	duration time.Duration
	now      func() time.Time

	mu      sync.Mutex
	visible map[string]time.Time
}

// NewCenter создаёт центр уведомлений. duration <= 0 заменяется DefaultDuration.
func NewCenter(duration time.Duration, sinks ...Sink) *Center {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Center{
		sinks:    sinks,
		duration: duration,
		now:      time.Now,
		visible:  make(map[string]time.Time),
	}
}

// Notify показывает уведомление через все sinks.
func (c *Center) Notify(n Notification) bool {
	if n.Duration <= 0 {
		n.Duration = c.duration
	}

	c.mu.Lock()
	now := c.now()
	if n.ID != "" {
		if until, ok := c.visible[n.ID]; ok && now.Before(until) {
			c.mu.Unlock()
			return false
		}
		c.visible[n.ID] = now.Add(n.Duration)
	}
	c.gc(now)
	c.mu.Unlock()

	for _, sink := range c.sinks {
		sink(n)
	}
	return true
}

// Success показывает уведомление об успехе.
func (c *Center) Success(msg string) bool {
	return c.Notify(Notification{Level: LevelSuccess, Message: msg})
}

// Error показывает уведомление об ошибке.
func (c *Center) Error(msg string) bool {
	return c.Notify(Notification{Level: LevelError, Message: msg})
}

// gc удаляет истёкшие ID. Вызывается под c.mu.
func (c *Center) gc(now time.Time) {
	for id, until := range c.visible {
		if !now.Before(until) {
			delete(c.visible, id)
		}
	}
}

// LogSink пишет уведомления в slog.
func LogSink(logger *slog.Logger) Sink {
	logger = logger.With(slog.String("component", "notify"))
	return func(n Notification) {
		level := slog.LevelInfo
		if n.Level == LevelError {
			level = slog.LevelWarn
		}
		logger.Log(context.Background(), level, n.Message,
			slog.String("level", string(n.Level)),
			slog.String("id", n.ID),
		)
	}
}

// WriterSink печатает уведомления построчно (для CLI).
func WriterSink(w io.Writer) Sink {
	return func(n Notification) {
		fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Message)
	}
}

// Discard — Notifier, игнорирующий уведомления.
type Discard struct{}

func (Discard) Notify(Notification) bool { return true }
