package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/strawpoll/strawpoll"
	"github.com/strawpoll/strawpoll/config"
	"github.com/strawpoll/strawpoll/util"
	"github.com/urfave/cli/v3"
)

var app *strawpoll.Application

func captureOsInterrupt() chan bool {
	quit := make(chan bool)

	go func() {
		c := make(chan os.Signal, 2)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		for sig := range c {
			logrus.Infof("captured %v, stopping and exiting.", sig)

			quit <- true
			close(quit)

			break
		}
	}()

	return quit
}

func main() { os.Exit(mainReturnWithCode()) }

func mainReturnWithCode() int {
	logrus.SetLevel(logrus.InfoLevel)

	cfg := config.LoadConfig(".")

	config.ValidateConfig(cfg)

	app = strawpoll.NewApplication(cfg)
	defer util.Close(app)

	cmd := &cli.Command{
		Name:  "strawpoll",
		Usage: "strawpoll service",
		Commands: []*cli.Command{
			{
				Name:  "serve-public",
				Usage: "Public REST API",
				Action: func(_ context.Context, _ *cli.Command) error {
					err := app.MigrateDB()
					if err != nil {
						return err
					}

					quit := captureOsInterrupt()

					return app.ServePublic(quit)
				},
			},
			{
				Name:  "serve-metrics",
				Usage: "Prometheus metrics endpoint",
				Action: func(_ context.Context, _ *cli.Command) error {
					quit := captureOsInterrupt()

					return app.ServeMetrics(quit)
				},
			},
			{
				Name:  "migrate",
				Usage: "Apply database migrations",
				Action: func(_ context.Context, _ *cli.Command) error {
					return app.MigrateDB()
				},
			},
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		logrus.Error(err)

		return 1
	}

	return 0
}
