package ics

import (
	"context"
	"errors"
	"strings"
	"time"

	appLog "studycal/internal/log"
	"studycal/internal/model"
)

// EventStore is the part of the store a sync needs.
type EventStore interface {
	All() []model.Event
	AddOrUpdate(ev model.Event)
	Remove(id string) bool
}

// SyncReport summarises one Sync run.
type SyncReport struct {
	Sources  int `json:"sources"`
	Imported int `json:"imported"`
	Removed  int `json:"removed"`
	Failed   int `json:"failed"`
}

// Syncer mirrors subscribed feeds into the store.
type Syncer struct {
	fetcher *Fetcher
	store   EventStore
	sources []Source
	loc     *time.Location
}

func NewSyncer(fetcher *Fetcher, store EventStore, sources []Source, loc *time.Location) *Syncer {
	if loc == nil {
		loc = time.UTC
	}
	return &Syncer{fetcher: fetcher, store: store, sources: sources, loc: loc}
}

// Sync fetches every source and replaces its events in the store. Events a
// feed no longer lists are removed. A source that fails to fetch or parse
// keeps its previous events; the joined errors are returned with the report.
func (s *Syncer) Sync(ctx context.Context) (SyncReport, error) {
	report := SyncReport{Sources: len(s.sources)}

	results, errs := s.fetcher.FetchAll(ctx, s.sources)
	report.Failed = len(errs)

	for _, res := range results {
		events, err := ParseICS(res.Source, res.Body, s.loc)
		if err != nil {
			report.Failed++
			errs = append(errs, err)
			continue
		}
		imported, removed := s.apply(res.Source, events)
		report.Imported += imported
		report.Removed += removed
	}

	appLog.Info("ics sync completed",
		"sources", report.Sources,
		"imported", report.Imported,
		"removed", report.Removed,
		"failed", report.Failed,
	)
	return report, errors.Join(errs...)
}

func (s *Syncer) apply(src Source, events []model.Event) (imported, removed int) {
	keep := make(map[string]struct{}, len(events))
	for _, ev := range events {
		keep[ev.ID] = struct{}{}
		s.store.AddOrUpdate(ev)
	}

	prefix := src.ID + ":"
	for _, ev := range s.store.All() {
		if !strings.HasPrefix(ev.ID, prefix) {
			continue
		}
		if _, ok := keep[ev.ID]; ok {
			continue
		}
		if s.store.Remove(ev.ID) {
			removed++
		}
	}
	return len(events), removed
}
