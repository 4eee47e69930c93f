package classwork

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schooldash/core"
)

type Content struct {
	ID          string `json:"id"`
	ClassID     string `json:"class_id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Attachments int    `json:"attachments"`
}

type Task struct {
	ID          string `json:"id"`
	ClassID     string `json:"class_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	IsGraded    bool   `json:"is_graded"`
}

// NewContent contains information needed to log a class meeting's content.
// An empty Date means today.
type NewContent struct {
	Date        string `json:"date" validate:"omitempty,isodate"`
	Description string `json:"description" validate:"required,max=2000"`
	Attachments int    `json:"attachments" validate:"gte=0"`
}

func (nc *NewContent) Validate(validate *validator.Validate) error {
	nc.Date = core.CleanString(nc.Date)
	nc.Description = core.SanitizeText(nc.Description)
	return validate.Struct(nc)
}

type NewTask struct {
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
	DueDate     string `json:"due_date" validate:"required,isodate"`
	IsGraded    bool   `json:"is_graded"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Title = core.SanitizeText(nt.Title)
	nt.Description = core.SanitizeText(nt.Description)
	nt.DueDate = core.CleanString(nt.DueDate)
	return validate.Struct(nt)
}
