package main

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/calendar"
	"github.com/trezcool/schooldash/core/user"
	logsvc "github.com/trezcool/schooldash/services/logger"
	inmemdb "github.com/trezcool/schooldash/storage/database/inmem"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewStdLogger("ADMIN")

	db := inmemdb.OpenSeeded(time.Now())
	validate := validator.New()

	// start CLI
	cli := commandLine{
		out:         os.Stdout,
		isTerminal:  isTerminal(os.Stdout),
		userSvc:     user.NewService(inmemdb.NewUserRepository(db), validate, conf),
		calendarSvc: calendar.NewService(inmemdb.NewEventRepository(db), validate, conf),
		schoolID:    os.Getenv("ADMIN_SCHOOL_ID"),
	}
	if err := cli.run(os.Args); err != nil {
		logger.Printf("\nerror: %s\n", err)
		os.Exit(1)
	}
}
