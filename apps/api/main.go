package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	echoapi "github.com/trezcool/schooldash/apps/api/echo"
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

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger("API"), conf)
	logger.Enable(!conf.Debug)

	// set up DB: the dashboard fixtures live in memory & die with the process
	db := inmemdb.OpenSeeded(time.Now())

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), validate, conf)
	schSvc := school.NewService(inmemdb.NewSchoolRepository(db), validate)
	attSvc := attendance.NewService(inmemdb.NewAttendanceRepository(db), schSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.ParseEmailTemplates(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Prometheus metrics.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	http.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			Validate:        validate,
			Translator:      translator,
			UserSvc:         usrSvc,
			SchoolSvc:       schSvc,
			CalendarSvc:     calendar.NewService(inmemdb.NewEventRepository(db), validate, conf),
			AttendanceSvc:   attSvc,
			GradeSvc:        grade.NewService(inmemdb.NewGradeRepository(db), schSvc, attSvc, validate),
			ClassworkSvc:    classwork.NewService(inmemdb.NewClassworkRepository(db), validate, conf),
			AnnouncementSvc: announcement.NewService(inmemdb.NewAnnouncementRepository(db), usrSvc, schSvc, mailSvc, validate, conf),
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
