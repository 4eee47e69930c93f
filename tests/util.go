package testutil

import (
	"net/mail"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/announcement"
	"github.com/trezcool/schooldash/core/attendance"
	"github.com/trezcool/schooldash/core/calendar"
	"github.com/trezcool/schooldash/core/classwork"
	"github.com/trezcool/schooldash/core/grade"
	"github.com/trezcool/schooldash/core/school"
	"github.com/trezcool/schooldash/core/user"
	emailsvc "github.com/trezcool/schooldash/services/email"
	logsvc "github.com/trezcool/schooldash/services/logger"
	inmemdb "github.com/trezcool/schooldash/storage/database/inmem"
)

// Now is the frozen "today" of the test fixtures: Thursday 2024-05-16, inside period p2.
var Now = time.Date(2024, time.May, 16, 9, 30, 0, 0, time.UTC)

func NewConfig() *core.Config {
	return &core.Config{
		Env:              "TEST",
		Build:            "test",
		TestMode:         true,
		AppName:          "Painel Escolar",
		SecretKey:        "test-secret",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Painel Escolar", Address: "noreply@test.com"},
		TimeZone:         "UTC",
		Server: core.ServerConfig{
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
			DisableReqLogs:            true,
		},
		Calendar: core.CalendarConfig{DayPreviewLimit: 3, UpcomingLimit: 5},
	}
}

func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate, translator
}

// FreezeTime points every mockable clock at Now and returns the restore func.
func FreezeTime() (restore func()) {
	now := func() time.Time { return Now }
	origCal, origAtt, origCw, origAnn := calendar.NowFunc, attendance.NowFunc, classwork.NowFunc, announcement.NowFunc
	calendar.NowFunc, attendance.NowFunc, classwork.NowFunc, announcement.NowFunc = now, now, now, now
	return func() {
		calendar.NowFunc, attendance.NowFunc, classwork.NowFunc, announcement.NowFunc = origCal, origAtt, origCw, origAnn
	}
}

type Deps struct {
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	DB         *inmemdb.DB
	Mail       *emailsvc.ConsoleServiceMock

	UserSvc         *user.Service
	SchoolSvc       *school.Service
	CalendarSvc     *calendar.Service
	AttendanceSvc   *attendance.Service
	GradeSvc        *grade.Service
	ClassworkSvc    *classwork.Service
	AnnouncementSvc *announcement.Service
}

// PrepareDeps wires every service over a freshly seeded database.
func PrepareDeps() *Deps {
	conf := NewConfig()
	logger := logsvc.NewDiscardLogger()
	validate, translator := NewValidator()
	core.ParseEmailTemplates(conf, logger)

	db := inmemdb.OpenSeeded(Now)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	usrSvc := user.NewService(inmemdb.NewUserRepository(db), validate, conf)
	schSvc := school.NewService(inmemdb.NewSchoolRepository(db), validate)
	attSvc := attendance.NewService(inmemdb.NewAttendanceRepository(db), schSvc)

	return &Deps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		DB:         db,
		Mail:       mailSvc,

		UserSvc:         usrSvc,
		SchoolSvc:       schSvc,
		CalendarSvc:     calendar.NewService(inmemdb.NewEventRepository(db), validate, conf),
		AttendanceSvc:   attSvc,
		GradeSvc:        grade.NewService(inmemdb.NewGradeRepository(db), schSvc, attSvc, validate),
		ClassworkSvc:    classwork.NewService(inmemdb.NewClassworkRepository(db), validate, conf),
		AnnouncementSvc: announcement.NewService(inmemdb.NewAnnouncementRepository(db), usrSvc, schSvc, mailSvc, validate, conf),
	}
}
