package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/institutsaintjean/evalhub/config"
	"github.com/institutsaintjean/evalhub/database"
	"github.com/institutsaintjean/evalhub/handlers"
	"github.com/institutsaintjean/evalhub/server"
	"github.com/institutsaintjean/evalhub/services/academic"
	"github.com/institutsaintjean/evalhub/services/auth"
	"github.com/institutsaintjean/evalhub/services/importer"
	"github.com/institutsaintjean/evalhub/services/logging"
	"github.com/institutsaintjean/evalhub/services/mail"
	"github.com/institutsaintjean/evalhub/services/quiz"
	"github.com/institutsaintjean/evalhub/services/sentiment"
	"github.com/institutsaintjean/evalhub/services/stats"
	"github.com/institutsaintjean/evalhub/services/submission"
	"github.com/institutsaintjean/evalhub/services/token"
	"github.com/institutsaintjean/evalhub/services/user"
	"go.uber.org/fx"
)

type App struct {
	fx     *fx.App
	logger *logging.Service
}

// Models returns every persistent type, in the order auto-migration should
// create them.
func Models() []any {
	return []any{
		&user.User{},
		&token.Session{},
		&academic.AcademicYear{},
		&academic.Semester{},
		&academic.Class{},
		&academic.Course{},
		&academic.EvaluationType{},
		&quiz.Question{},
		&quiz.Quiz{},
		&submission.Submission{},
		&submission.SubmissionLog{},
		&sentiment.Analysis{},
		&mail.Email{},
	}
}

// New assembles the application graph. Passing a nil config loads it from the
// environment.
func New(cfg *config.Config) *App {
	app := &App{}

	fxApp := fx.New(
		config.NewProvider(cfg),
		logging.Module,
		fx.Provide(func() *database.ModelsOption {
			return database.WithModels(Models()...)
		}),
		database.Module,
		token.Module,
		user.Module,
		auth.Module,
		academic.Module,
		quiz.Module,
		sentiment.Module,
		submission.Module,
		stats.Module,
		mail.Module,
		importer.Module,
		server.Module,
		handlers.Module,
		fx.Invoke(func(academics *academic.Service) error {
			return academics.SeedEvaluationTypes()
		}),
		fx.Populate(&app.logger),
	)

	app.fx = fxApp
	return app
}

func (a *App) Start(ctx context.Context) error {
	return a.fx.Start(ctx)
}

func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.fx.Stop(ctx); err != nil {
		if a.logger != nil {
			a.logger.Errorf("failed to stop application gracefully: %v", err)
		} else {
			log.Printf("failed to stop application gracefully: %v", err)
		}
	}
}

// Run starts the application and blocks until an interrupt or termination
// signal arrives, then shuts down gracefully.
func (a *App) Run() {
	if err := a.Start(context.Background()); err != nil {
		log.Fatalf("failed to start application: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	if a.logger != nil {
		a.logger.Info("received shutdown signal, stopping gracefully")
	}
	a.Stop()
}
