package announcement

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/user"
)

type Type string

const (
	TypeNotice Type = "NOTICE"
	TypeTask   Type = "TASK"
	TypeEvent  Type = "EVENT"
)

type Target string

const (
	TargetAll      Target = "ALL"
	TargetTeachers Target = "TEACHERS"
	TargetStudents Target = "STUDENTS"
	TargetParents  Target = "PARENTS"
	TargetClass    Target = "CLASS"
)

type Announcement struct {
	ID            string    `json:"id"`
	SchoolID      string    `json:"school_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Type          Type      `json:"type"`
	Date          string    `json:"date"`
	SenderID      string    `json:"sender_id"`
	SenderName    string    `json:"sender_name"`
	SenderRole    user.Role `json:"sender_role"`
	Target        Target    `json:"target_type"`
	TargetClassID string    `json:"target_class_id,omitempty"`
}

// VisibleTo reports whether usr gets a in their inbox.
// Admins see everything; class announcements are shown to every non-admin too.
func (a Announcement) VisibleTo(usr user.User) bool {
	if usr.SchoolID != a.SchoolID {
		return false
	}
	switch a.Target {
	case TargetAll, TargetClass:
		return true
	case TargetTeachers:
		return usr.IsAdmin() || usr.IsProfessor()
	case TargetStudents:
		return usr.IsAdmin() || usr.IsStudent()
	default:
		return usr.IsAdmin()
	}
}

// NewAnnouncement contains information needed to publish an Announcement.
type NewAnnouncement struct {
	Title         string `json:"title" validate:"required,max=120"`
	Content       string `json:"content" validate:"required,max=5000"`
	Type          Type   `json:"type" validate:"required,oneof=NOTICE TASK EVENT"`
	Target        Target `json:"target_type" validate:"required,oneof=ALL TEACHERS STUDENTS PARENTS CLASS"`
	TargetClassID string `json:"target_class_id" validate:"required_if=Target CLASS"`
}

func (na *NewAnnouncement) Validate(validate *validator.Validate) error {
	na.Title = core.SanitizeText(na.Title)
	na.Content = core.SanitizeText(na.Content)
	na.Type = Type(core.CleanString(string(na.Type)))
	na.Target = Target(core.CleanString(string(na.Target)))
	na.TargetClassID = core.CleanString(na.TargetClassID)
	if na.Type == "" {
		na.Type = TypeNotice
	}
	if na.Target == "" {
		na.Target = TargetAll
	}
	if na.Target != TargetClass {
		na.TargetClassID = ""
	}
	return validate.Struct(na)
}
