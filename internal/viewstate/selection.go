package viewstate

import (
	"fmt"
	"slices"
)

// Tabs is a single-select group that always has one active tab.
type Tabs[K comparable] struct {
	ids    []K
	active K
}

// NewTabs builds a tab group over ids with def pre-selected.
func NewTabs[K comparable](def K, ids ...K) (*Tabs[K], error) {
	if !slices.Contains(ids, def) {
		return nil, fmt.Errorf("default tab %v: %w", def, ErrUnknownPanel)
	}
	return &Tabs[K]{ids: slices.Clone(ids), active: def}, nil
}

// Select makes id the active tab. Selecting the active tab changes nothing.
func (t *Tabs[K]) Select(id K) error {
	if !slices.Contains(t.ids, id) {
		return fmt.Errorf("tab %v: %w", id, ErrUnknownPanel)
	}
	t.active = id
	return nil
}

func (t *Tabs[K]) Active() K { return t.active }

func (t *Tabs[K]) IsActive(id K) bool { return t.active == id }

// IDs returns the tab identifiers in display order.
func (t *Tabs[K]) IDs() []K { return slices.Clone(t.ids) }

// Accordion tracks at most one open panel out of a fixed set.
type Accordion[K comparable] struct {
	ids    []K
	active K
	open   bool
}

// NewAccordion builds an accordion over ids with every panel closed.
func NewAccordion[K comparable](ids ...K) *Accordion[K] {
	return &Accordion[K]{ids: slices.Clone(ids)}
}

// Toggle closes id if it is open, otherwise opens it and closes the rest.
func (a *Accordion[K]) Toggle(id K) error {
	if !slices.Contains(a.ids, id) {
		return fmt.Errorf("panel %v: %w", id, ErrUnknownPanel)
	}
	if a.open && a.active == id {
		a.Close()
		return nil
	}
	a.active, a.open = id, true
	return nil
}

// Open shows id regardless of the current state.
func (a *Accordion[K]) Open(id K) error {
	if !slices.Contains(a.ids, id) {
		return fmt.Errorf("panel %v: %w", id, ErrUnknownPanel)
	}
	a.active, a.open = id, true
	return nil
}

// Close hides every panel.
func (a *Accordion[K]) Close() {
	var zero K
	a.active, a.open = zero, false
}

// Active returns the open panel, if any.
func (a *Accordion[K]) Active() (K, bool) {
	return a.active, a.open
}

func (a *Accordion[K]) IsOpen(id K) bool {
	return a.open && a.active == id
}

// IDs returns the panel identifiers in display order.
func (a *Accordion[K]) IDs() []K { return slices.Clone(a.ids) }
