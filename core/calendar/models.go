package calendar

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schooldash/core"
)

type EventType string

const (
	TypeAcademic EventType = "ACADEMIC"
	TypeHoliday  EventType = "HOLIDAY"
	TypeMeeting  EventType = "MEETING"
	TypeEvent    EventType = "EVENT"
	TypeVacation EventType = "VACATION"
)

var EventTypes = []EventType{TypeAcademic, TypeHoliday, TypeMeeting, TypeEvent, TypeVacation}

type Event struct {
	ID          string    `json:"id"`
	SchoolID    string    `json:"school_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Type        EventType `json:"type"`
}

// NewEvent contains information needed to create a new Event.
type NewEvent struct {
	Title       string    `json:"title" validate:"required,max=120"`
	Description string    `json:"description" validate:"max=2000"`
	Date        string    `json:"date" validate:"required,isodate"`
	Type        EventType `json:"type" validate:"required,oneof=ACADEMIC HOLIDAY MEETING EVENT VACATION"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.SanitizeText(ne.Title)
	ne.Description = core.SanitizeText(ne.Description)
	ne.Date = core.CleanString(ne.Date)
	ne.Type = EventType(core.CleanString(string(ne.Type)))
	if ne.Type == "" {
		ne.Type = TypeAcademic
	}
	return validate.Struct(ne)
}

type QueryFilter struct {
	SchoolID string
	// From & To bound Event.Date (inclusive) when set.
	From string
	To   string
	Type EventType
}

// Match reports whether e passes every set field of the filter.
func (f QueryFilter) Match(e Event) bool {
	if f.SchoolID != "" && e.SchoolID != f.SchoolID {
		return false
	}
	if f.From != "" && e.Date < f.From {
		return false
	}
	if f.To != "" && e.Date > f.To {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	return true
}
