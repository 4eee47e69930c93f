package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/school"
	"github.com/trezcool/schooldash/core/user"
)

const contextClassKey = "class"

// loadUserMiddleware resolves the token subject into the context user.
// Must run after the JWT middleware.
func loadUserMiddleware(svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
			if err != nil {
				if core.IsNotFound(err) {
					return errUnauthorized
				}
				return errors.Wrap(err, "finding user by ID")
			}
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

func roleMiddleware(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			for _, role := range roles {
				if usr.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

var (
	adminOnly = roleMiddleware(user.RoleAdmin)
	staffOnly = roleMiddleware(user.RoleAdmin, user.RoleProfessor)
)

// classMiddleware loads the ":id" class into the context.
// Admins reach every class of their school, professors the classes they teach & students the classes they attend.
func classMiddleware(svc *school.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			c, err := svc.GetClass(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if core.IsNotFound(err) {
					return errHttpNotFound
				}
				return errors.Wrap(err, "getting class")
			}
			if c.SchoolID != usr.SchoolID {
				return errHttpNotFound
			}

			switch usr.Role {
			case user.RoleAdmin:
			case user.RoleProfessor:
				if c.TeacherID != usr.ID {
					return errHttpForbidden
				}
			default:
				st, err := svc.StudentForUser(ctx.Request().Context(), usr.ID)
				if err != nil && !core.IsNotFound(err) {
					return errors.Wrap(err, "getting student")
				}
				if err != nil || !c.HasStudent(st.ID) {
					return errHttpForbidden
				}
			}

			ctx.Set(contextClassKey, c)
			return next(ctx)
		}
	}
}

func getContextClass(ctx echo.Context) school.ClassGroup {
	c, _ := ctx.Get(contextClassKey).(school.ClassGroup)
	return c
}

// studentAccessMiddleware hides a feature from students while the school's portal switch is off.
func studentAccessMiddleware(svc *school.Service, key school.AccessKey) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			if !usr.IsStudent() {
				return next(ctx)
			}
			sch, err := svc.Get(ctx.Request().Context(), usr.SchoolID)
			if err != nil {
				return errors.Wrap(err, "getting school")
			}
			if !sch.Config.StudentAccess.Allows(key) {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
