package announcement

import (
	"context"
	"net/mail"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/school"
	"github.com/trezcool/schooldash/core/user"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound = core.NewNotFoundError("announcement")
	errNoRights = errors.New("students cannot publish announcements")
)

const emailTemplate = "announcement"

type (
	Repository interface {
		ListAnnouncements(ctx context.Context, schoolID string) ([]Announcement, error)
		AddAnnouncement(ctx context.Context, a Announcement) (Announcement, error)
	}

	Users interface {
		GetByID(ctx context.Context, id string) (user.User, error)
		Recipients(ctx context.Context, schoolID string, roles ...user.Role) ([]mail.Address, error)
	}

	Classes interface {
		GetClass(ctx context.Context, id string) (school.ClassGroup, error)
		GetStudent(ctx context.Context, id string) (school.Student, error)
	}

	Service struct {
		repo     Repository
		users    Users
		classes  Classes
		mailSvc  core.EmailService
		validate *validator.Validate
		loc      *time.Location
	}
)

func NewService(
	repo Repository,
	users Users,
	classes Classes,
	mailSvc core.EmailService,
	validate *validator.Validate,
	conf *core.Config,
) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		classes:  classes,
		mailSvc:  mailSvc,
		validate: validate,
		loc:      conf.Location(),
	}
}

// Inbox returns the announcements visible to usr, newest first.
func (svc *Service) Inbox(ctx context.Context, usr user.User) ([]Announcement, error) {
	all, err := svc.repo.ListAnnouncements(ctx, usr.SchoolID)
	if err != nil {
		return nil, errors.Wrap(err, "listing announcements")
	}
	inbox := make([]Announcement, 0, len(all))
	for _, a := range all {
		if a.VisibleTo(usr) {
			inbox = append(inbox, a)
		}
	}
	sortNewestFirst(inbox)
	return inbox, nil
}

// Sent returns the announcements published by usr, newest first.
func (svc *Service) Sent(ctx context.Context, usr user.User) ([]Announcement, error) {
	all, err := svc.repo.ListAnnouncements(ctx, usr.SchoolID)
	if err != nil {
		return nil, errors.Wrap(err, "listing announcements")
	}
	sent := make([]Announcement, 0)
	for _, a := range all {
		if a.SenderID == usr.ID {
			sent = append(sent, a)
		}
	}
	sortNewestFirst(sent)
	return sent, nil
}

func sortNewestFirst(as []Announcement) {
	sort.SliceStable(as, func(i, j int) bool { return as[i].Date > as[j].Date })
}

// Publish stores the announcement dated today and emails its audience in the background.
func (svc *Service) Publish(ctx context.Context, sender user.User, na NewAnnouncement) (Announcement, error) {
	if sender.IsStudent() {
		return Announcement{}, core.NewValidationError(errNoRights)
	}
	if err := na.Validate(svc.validate); err != nil {
		return Announcement{}, err
	}
	if na.Target == TargetClass {
		c, err := svc.classes.GetClass(ctx, na.TargetClassID)
		if err != nil {
			if core.IsNotFound(err) {
				return Announcement{}, core.NewValidationError(nil, core.FieldError{Field: "target_class_id", Error: "class not found"})
			}
			return Announcement{}, errors.Wrap(err, "getting class")
		}
		if c.SchoolID != sender.SchoolID {
			return Announcement{}, core.NewValidationError(nil, core.FieldError{Field: "target_class_id", Error: "class not found"})
		}
	}

	a := Announcement{
		ID:            uuid.New().String(),
		SchoolID:      sender.SchoolID,
		Title:         na.Title,
		Content:       na.Content,
		Type:          na.Type,
		Date:          core.DateOf(NowFunc(), svc.loc),
		SenderID:      sender.ID,
		SenderName:    sender.Name,
		SenderRole:    sender.Role,
		Target:        na.Target,
		TargetClassID: na.TargetClassID,
	}
	// resolved first: a failed lookup must not leave a stored announcement behind
	rcpts, err := svc.Recipients(ctx, a)
	if err != nil {
		return Announcement{}, errors.Wrap(err, "getting recipients")
	}

	a, err = svc.repo.AddAnnouncement(ctx, a)
	if err != nil {
		return Announcement{}, errors.Wrap(err, "adding announcement")
	}
	if len(rcpts) > 0 {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			Bcc:          rcpts,
			Subject:      a.Title,
			TemplateName: emailTemplate,
			TemplateData: a,
		})
	}
	return a, nil
}

// Recipients resolves the mail audience of an announcement.
// Parents have no accounts, so PARENTS announcements are not mailed.
func (svc *Service) Recipients(ctx context.Context, a Announcement) ([]mail.Address, error) {
	switch a.Target {
	case TargetAll:
		return svc.users.Recipients(ctx, a.SchoolID)
	case TargetTeachers:
		return svc.users.Recipients(ctx, a.SchoolID, user.RoleProfessor)
	case TargetStudents:
		return svc.users.Recipients(ctx, a.SchoolID, user.RoleStudent)
	case TargetClass:
		return svc.classRecipients(ctx, a.TargetClassID)
	default:
		return nil, nil
	}
}

func (svc *Service) classRecipients(ctx context.Context, classID string) ([]mail.Address, error) {
	c, err := svc.classes.GetClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]string, 0, len(c.StudentIDs)+1)
	if c.TeacherID != "" {
		userIDs = append(userIDs, c.TeacherID)
	}
	for _, sid := range c.StudentIDs {
		st, err := svc.classes.GetStudent(ctx, sid)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if st.UserID != "" {
			userIDs = append(userIDs, st.UserID)
		}
	}

	addrs := make([]mail.Address, 0, len(userIDs))
	for _, id := range userIDs {
		u, err := svc.users.GetByID(ctx, id)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if u.Email != "" {
			addrs = append(addrs, u.MailAddress())
		}
	}
	return addrs, nil
}

// CountInbox returns the size of usr's inbox.
func (svc *Service) CountInbox(ctx context.Context, usr user.User) (int, error) {
	inbox, err := svc.Inbox(ctx, usr)
	return len(inbox), err
}
