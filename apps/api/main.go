package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/account"
	"github.com/trezcool/shule/core/classroom"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/student"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/database"
	sqlxrepos "github.com/trezcool/shule/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if core.Conf.GetBool("debug") {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std)
	}

	// set up DB
	db, err := database.Open()
	errAndDie(std, err)
	defer db.Close()
	errAndDie(std, database.Ping(db))

	// set up services
	schoolRepo := sqlxrepos.NewSchoolRepository(db)
	classroomRepo := sqlxrepos.NewClassroomRepository(db)
	studentRepo := sqlxrepos.NewStudentRepository(db)
	acctSvc := account.NewService(sqlxrepos.NewAccountRepository(db), schoolRepo, studentRepo)
	schoolSvc := school.NewService(schoolRepo)
	classroomSvc := classroom.NewService(classroomRepo, schoolRepo)
	studentSvc := student.NewService(studentRepo, schoolRepo, classroomRepo)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:        core.Conf.GetString("serverAddress"),
			Logger:         logger,
			SignalShutdown: func() { shutdown <- syscall.SIGTERM },
			AccountSvc:     acctSvc,
			SchoolSvc:      schoolSvc,
			ClassroomSvc:   classroomSvc,
			StudentSvc:     studentSvc,
		},
	)
	go app.Start()

	<-shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		std.Printf("stopping server: %v", err)
	}
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
