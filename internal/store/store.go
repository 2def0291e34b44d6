// Package store holds the calendar's events in insertion order. All mutation
// goes through AddOrUpdate, Remove and Replace.
package store

import (
	"iter"
	"slices"
	"sync"

	"studycal/internal/model"
)

// Store is an ordered, ID-keyed event collection. It is safe for concurrent
// use; the zero value is not usable, call New.
type Store struct {
	mu     sync.RWMutex
	events []model.Event
	index  map[string]int // event ID -> position in events
}

func New() *Store {
	return &Store{index: make(map[string]int)}
}

// AddOrUpdate replaces the event with the same ID in place, or appends it.
// Replacement is whole-value; no fields are merged.
func (s *Store) AddOrUpdate(ev model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[ev.ID]; ok {
		s.events[i] = ev
		return
	}
	s.index[ev.ID] = len(s.events)
	s.events = append(s.events, ev)
}

// Remove deletes the event with the given ID and reports whether it existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.events = slices.Delete(s.events, i, i+1)
	s.reindex()
	return true
}

// Replace swaps the whole collection, keeping the last occurrence of any
// duplicated ID at the position of its first occurrence.
func (s *Store) Replace(events []model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = s.events[:0]
	s.index = make(map[string]int, len(events))
	for _, ev := range events {
		if i, ok := s.index[ev.ID]; ok {
			s.events[i] = ev
			continue
		}
		s.index[ev.ID] = len(s.events)
		s.events = append(s.events, ev)
	}
}

func (s *Store) Get(id string) (model.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return model.Event{}, false
	}
	return s.events[i], true
}

// All returns a copy of every event in insertion order.
func (s *Store) All() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// FilterByDate yields events whose Date equals date exactly. Repeat rules are
// not expanded: a weekly event only appears on its stored date.
func (s *Store) FilterByDate(date string) iter.Seq[model.Event] {
	return s.filter(func(ev model.Event) bool {
		return ev.Date == date
	})
}

// FilterByDateAndHour narrows FilterByDate to events whose time falls in the
// given hour. All-day events never match.
func (s *Store) FilterByDateAndHour(date string, hour int) iter.Seq[model.Event] {
	return s.filter(func(ev model.Event) bool {
		if ev.Date != date {
			return false
		}
		h, ok := ev.Hour()
		return ok && h == hour
	})
}

// filter evaluates lazily: the collection is read when iteration starts, and
// the lock is not held while yielding.
func (s *Store) filter(match func(model.Event) bool) iter.Seq[model.Event] {
	return func(yield func(model.Event) bool) {
		for _, ev := range s.All() {
			if !match(ev) {
				continue
			}
			if !yield(ev) {
				return
			}
		}
	}
}

func (s *Store) reindex() {
	clear(s.index)
	for i, ev := range s.events {
		s.index[ev.ID] = i
	}
}
