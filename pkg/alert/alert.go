package alert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Digest is the weekly report content sent to delivery destinations.
type Digest struct {
	Source string          `json:"source"`
	Title  string          `json:"title"`
	Range  string          `json:"range"`
	Text   string          `json:"text"`
	Record json.RawMessage `json:"record,omitempty"`
}

// Notifier delivers digests to a specific destination.
type Notifier interface {
	Name() string
	Send(ctx context.Context, d *Digest) error
}

// Manager broadcasts digests to all registered notifiers.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a new delivery manager.
func NewManager(notifiers []Notifier) *Manager {
	return &Manager{notifiers: notifiers}
}

// HasNotifiers returns true if at least one notifier is configured.
func (m *Manager) HasNotifiers() bool {
	return len(m.notifiers) > 0
}

// Broadcast sends a digest to all registered notifiers. Delivery
// failures are collected per destination, never partial-aborted.
func (m *Manager) Broadcast(ctx context.Context, d *Digest) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, d); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
		}
	}
	return errors.Join(errs...)
}
