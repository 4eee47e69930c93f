package user

import (
	"context"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("user")
)

type (
	Repository interface {
		ListUsers(ctx context.Context) ([]User, error)
		GetUser(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email, schoolID string) (User, error)
	}

	Service struct {
		repo       Repository
		validate   *validator.Validate
		loginDelay time.Duration
	}
)

func NewService(repo Repository, validate *validator.Validate, conf *core.Config) *Service {
	return &Service{
		repo:       repo,
		validate:   validate,
		loginDelay: conf.LoginDelay,
	}
}

// Login finds the user registered under the email in the given school.
// There are no credentials: it is an identity lookup. A miss returns ErrNotFound.
func (svc *Service) Login(ctx context.Context, lr LoginRequest) (User, error) {
	lr.Clean()
	if err := svc.validate.Struct(lr); err != nil {
		return User{}, err
	}

	if svc.loginDelay > 0 {
		timer := time.NewTimer(svc.loginDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return User{}, ctx.Err()
		case <-timer.C:
		}
	}
	return svc.repo.GetUserByEmail(ctx, lr.Email, lr.SchoolID)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, orderings []core.Ordering) ([]User, error) {
	all, err := svc.repo.ListUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing users")
	}
	users := make([]User, 0, len(all))
	for _, u := range all {
		if filter.Match(u) {
			users = append(users, u)
		}
	}
	if len(orderings) > 0 {
		sort.SliceStable(users, func(i, j int) bool {
			return core.Less(orderings, func(field string) int { return compare(users[i], users[j], field) })
		})
	}
	return users, nil
}

func compare(a, b User, field string) int {
	switch field {
	case "name":
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case "email":
		return strings.Compare(a.Email, b.Email)
	case "role":
		return strings.Compare(string(a.Role), string(b.Role))
	case "id":
		return strings.Compare(a.ID, b.ID)
	default:
		return 0
	}
}

// Recipients returns the mail addresses of the school's users having any of roles.
// No roles means every user of the school.
func (svc *Service) Recipients(ctx context.Context, schoolID string, roles ...Role) ([]mail.Address, error) {
	users, err := svc.Query(ctx, QueryFilter{SchoolID: schoolID, Roles: roles}, nil)
	if err != nil {
		return nil, err
	}
	addrs := make([]mail.Address, 0, len(users))
	for _, u := range users {
		if u.Email != "" {
			addrs = append(addrs, u.MailAddress())
		}
	}
	return addrs, nil
}

func (svc *Service) Count(ctx context.Context, schoolID string, roles ...Role) (int, error) {
	users, err := svc.Query(ctx, QueryFilter{SchoolID: schoolID, Roles: roles}, nil)
	return len(users), err
}
