package user

import (
	"net/mail"

	"github.com/trezcool/schooldash/core"
)

type Role string

// Roles
const (
	RoleAdmin     Role = "ADMIN"
	RoleProfessor Role = "PROFESSOR"
	RoleStudent   Role = "STUDENT"
)

var Roles = []Role{RoleAdmin, RoleProfessor, RoleStudent}

func (r Role) IsValid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
	SchoolID  string `json:"school_id"`
}

func (u User) IsAdmin() bool     { return u.Role == RoleAdmin }
func (u User) IsProfessor() bool { return u.Role == RoleProfessor }
func (u User) IsStudent() bool   { return u.Role == RoleStudent }

func (u User) MailAddress() mail.Address {
	return mail.Address{Name: u.Name, Address: u.Email}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	SchoolID string `json:"school_id" validate:"required"`
}

func (lr *LoginRequest) Clean() {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	lr.SchoolID = core.CleanString(lr.SchoolID)
}

type QueryFilter struct {
	Search   string `query:"search"`
	Roles    []Role `query:"role"`
	SchoolID string `query:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// Match applies AND on the set filter fields.
// Search does a case-insensitive match on one of User.Name or User.Email.
func (qf QueryFilter) Match(u User) bool {
	if qf.SchoolID != "" && u.SchoolID != qf.SchoolID {
		return false
	}
	if len(qf.Roles) > 0 {
		var ok bool
		for _, r := range qf.Roles {
			if u.Role == r {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if qf.Search != "" && !(core.ContainsFold(u.Name, qf.Search) || core.ContainsFold(u.Email, qf.Search)) {
		return false
	}
	return true
}
