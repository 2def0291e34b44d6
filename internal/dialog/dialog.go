// Package dialog implements the create/edit event dialog: opening it from a
// grid slot or an existing event, editing its fields and submitting them to
// the event store.
package dialog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"studycal/internal/grid"
	"studycal/internal/model"
	"studycal/internal/validation"
)

// DefaultColor pre-fills new events unless overridden with WithDefaultColor.
const DefaultColor = "#FF5733"

var (
	ErrNotOpen = errors.New("dialog: not open")
	ErrInvalid = errors.New("dialog: invalid event")
)

// EventStore is the part of the store the dialog needs.
type EventStore interface {
	Get(id string) (model.Event, bool)
	AddOrUpdate(ev model.Event)
}

// Fields are the editable form values.
type Fields struct {
	Title    string           `json:"title"`
	Notes    string           `json:"notes" validate:"max=4000"`
	Color    string           `json:"color" validate:"required,hexcolor,len=7"`
	AllDay   bool             `json:"allDay"`
	Location string           `json:"location" validate:"max=200"`
	Course   string           `json:"course" validate:"max=200"`
	Repeat   model.RepeatRule `json:"repeat" validate:"oneof=none daily weekly"`
	Date     string           `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string           `json:"time" validate:"required_if=AllDay false,omitempty,datetime=15:04"`
}

// Click is a pointer event on the grid. A click that lands on an event chip
// carries its EventID; the slot underneath is then ignored.
type Click struct {
	Slot grid.Slot
	// InCurrentMonth is only consulted for month-view slots.
	InCurrentMonth bool
	EventID        string
}

// Dialog is a single modal instance bound to a store.
type Dialog struct {
	store        EventStore
	defaultColor string
	newID        func() string

	open      bool
	editingID string

	// Fields hold the form state while the dialog is open.
	Fields Fields
}

// Option customises a Dialog.
type Option func(*Dialog)

func WithDefaultColor(color string) Option {
	return func(d *Dialog) { d.defaultColor = color }
}

// WithIDGenerator overrides the UUID generator used for new events.
func WithIDGenerator(f func() string) Option {
	return func(d *Dialog) { d.newID = f }
}

func New(store EventStore, opts ...Option) *Dialog {
	d := &Dialog{
		store:        store,
		defaultColor: DefaultColor,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.reset()
	return d
}

func (d *Dialog) IsOpen() bool { return d.open }

// Editing returns the ID of the event being edited, if any.
func (d *Dialog) Editing() (string, bool) {
	return d.editingID, d.open && d.editingID != ""
}

// OpenForSlot opens a blank new-event form for the slot's date, pre-filled
// with "HH:00" for hour slots and "00:00" for month cells.
func (d *Dialog) OpenForSlot(slot grid.Slot) {
	d.reset()
	d.Fields.Date = model.FormatDate(slot.Date)
	if slot.Hour != grid.NoHour {
		d.Fields.Time = model.FormatHour(slot.Hour)
	}
	d.open = true
}

// OpenForEvent loads ev into the form for editing.
func (d *Dialog) OpenForEvent(ev model.Event) {
	repeat := ev.Repeat
	if repeat == "" {
		repeat = model.RepeatNone
	}
	d.Fields = Fields{
		Title:    ev.Title,
		Notes:    ev.Description,
		Color:    ev.Color,
		AllDay:   ev.IsAllDay(),
		Location: ev.Location,
		Course:   ev.Course,
		Repeat:   repeat,
		Date:     ev.Date,
		Time:     ev.Time,
	}
	if d.Fields.AllDay {
		d.Fields.Time = ""
	}
	d.editingID = ev.ID
	d.open = true
}

// HandleClick routes a grid click and reports whether the dialog opened.
// Event chips win over the slot beneath them; month cells outside the
// displayed month are inert.
func (d *Dialog) HandleClick(c Click) bool {
	if c.EventID != "" {
		ev, ok := d.store.Get(c.EventID)
		if !ok {
			return false
		}
		d.OpenForEvent(ev)
		return true
	}
	if c.Slot.Hour == grid.NoHour && !c.InCurrentMonth {
		return false
	}
	d.OpenForSlot(c.Slot)
	return true
}

// Submit saves the form. An empty title is a silent no-op: nothing is saved,
// no error is returned and the dialog stays open. Invalid fields return an
// error wrapping ErrInvalid and also keep the dialog open. On success the
// event is stored, the dialog closes and the form resets.
func (d *Dialog) Submit() (model.Event, bool, error) {
	if !d.open {
		return model.Event{}, false, ErrNotOpen
	}
	if strings.TrimSpace(d.Fields.Title) == "" {
		return model.Event{}, false, nil
	}

	if err := validation.Struct(d.Fields); err != nil {
		return model.Event{}, false, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	ev := d.assemble()
	d.store.AddOrUpdate(ev)
	d.Close()
	return ev, true, nil
}

// Close discards the form.
func (d *Dialog) Close() {
	d.open = false
	d.reset()
}

func (d *Dialog) assemble() model.Event {
	id := d.editingID
	if id == "" {
		id = d.newID()
	}
	t := d.Fields.Time
	if d.Fields.AllDay {
		t = model.AllDayTime
	}
	return model.Event{
		ID:          id,
		Title:       d.Fields.Title,
		Date:        d.Fields.Date,
		Time:        t,
		Description: d.Fields.Notes,
		Color:       d.Fields.Color,
		AllDay:      d.Fields.AllDay,
		Location:    d.Fields.Location,
		Course:      d.Fields.Course,
		Repeat:      d.Fields.Repeat,
	}
}

func (d *Dialog) reset() {
	d.editingID = ""
	d.Fields = Fields{
		Color:  d.defaultColor,
		Time:   "00:00",
		Repeat: model.RepeatNone,
	}
}
