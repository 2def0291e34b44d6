package model

import (
	"fmt"
	"strings"
)

// ViewMode controls grid granularity.
type ViewMode string

const (
	ViewMonth ViewMode = "month"
	ViewWeek  ViewMode = "week"
	ViewDay   ViewMode = "day"
)

func ParseViewMode(s string) (ViewMode, error) {
	switch m := ViewMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ViewMonth, ViewWeek, ViewDay:
		return m, nil
	}
	return "", fmt.Errorf("model: unknown view mode %q", s)
}
