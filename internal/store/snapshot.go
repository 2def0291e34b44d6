package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"studycal/internal/atomicfile"
	appLog "studycal/internal/log"
	"studycal/internal/model"
)

// snapshot is the on-disk YAML document.
type snapshot struct {
	Version int           `yaml:"version"`
	SavedAt time.Time     `yaml:"saved_at"`
	Events  []model.Event `yaml:"events"`
}

const snapshotVersion = 1

// SaveSnapshot writes every event to path as YAML (atomic, 0600).
func (s *Store) SaveSnapshot(path string) error {
	doc := snapshot{
		Version: snapshotVersion,
		SavedAt: time.Now().UTC(),
		Events:  s.All(),
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("store: marshal snapshot: %w", err)
	}
	if err := atomicfile.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("store: write snapshot: %w", err)
	}
	appLog.Debug("store snapshot saved", "path", path, "event_count", len(doc.Events))
	return nil
}

// LoadSnapshot replaces the store contents with the snapshot at path. A
// missing file leaves the store untouched and is not an error. Events without
// an ID or with an unparsable date are skipped.
func (s *Store) LoadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			appLog.Info("no store snapshot yet", "path", path)
			return nil
		}
		return fmt.Errorf("store: read snapshot: %w", err)
	}

	var doc snapshot
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("store: parse snapshot: %w", err)
	}
	if doc.Version > snapshotVersion {
		return fmt.Errorf("store: snapshot version %d is newer than supported %d", doc.Version, snapshotVersion)
	}

	events := make([]model.Event, 0, len(doc.Events))
	for _, ev := range doc.Events {
		if ev.ID == "" {
			appLog.Warn("store snapshot: skipping event without id", "title", ev.Title)
			continue
		}
		if strings.TrimSpace(ev.Title) == "" {
			appLog.Warn("store snapshot: skipping event without title", "id", ev.ID)
			continue
		}
		if _, err := ev.Day(nil); err != nil {
			appLog.Error("store snapshot: skipping event with bad date", err, "id", ev.ID)
			continue
		}
		events = append(events, ev)
	}

	s.Replace(events)
	appLog.Info("store snapshot loaded", "path", path, "event_count", len(events))
	return nil
}
