package strawpoll

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql" // enable mysql migrations
	_ "github.com/golang-migrate/migrate/v4/source/file"    // enable file migration source
	"github.com/sirupsen/logrus"
	"github.com/strawpoll/strawpoll/config"
)

// Application is Service Main Object
type Application struct {
	container *Container
}

// NewApplication constructor
func NewApplication(cfg config.Config) *Application {
	s := &Application{
		container: NewContainer(cfg),
	}

	gin.SetMode(cfg.GinMode)

	return s
}

func (s *Application) MigrateDB() error {
	_, err := s.container.DB()
	if err != nil {
		return err
	}

	err = applyMigrations(s.container.Config().Migrations)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

func (s *Application) ServePublic(quit chan bool) error {
	httpServer, err := s.container.PublicHTTPServer()
	if err != nil {
		return err
	}

	go func() {
		<-quit

		if err := httpServer.Shutdown(context.Background()); err != nil {
			logrus.Error(err.Error())
		}
	}()

	logrus.Info("public HTTP listener started")

	err = httpServer.ListenAndServe()
	if err != nil {
		// cannot panic, because this probably is an intentional close
		logrus.Infof("Httpserver: ListenAndServe() error: %s", err)
	}

	logrus.Info("public HTTP listener stopped")

	return nil
}

func (s *Application) ServeMetrics(quit chan bool) error {
	httpServer, err := s.container.MetricsHTTPServer()
	if err != nil {
		return err
	}

	go func() {
		<-quit

		if err := httpServer.Shutdown(context.Background()); err != nil {
			logrus.Error(err.Error())
		}
	}()

	logrus.Info("metrics HTTP listener started")

	err = httpServer.ListenAndServe()
	if err != nil {
		logrus.Infof("Httpserver: ListenAndServe() error: %s", err)
	}

	logrus.Info("metrics HTTP listener stopped")

	return nil
}

// Close Destructor
func (s *Application) Close() error {
	logrus.Info("Closing service")

	err := s.container.Close()
	if err != nil {
		return err
	}

	logrus.Info("Service closed")

	return nil
}

func applyMigrations(cfg config.MigrationsConfig) error {
	logrus.Info("Apply migrations")

	dir := cfg.Dir
	if dir == "" {
		ex, err := os.Executable()
		if err != nil {
			return err
		}

		dir = filepath.Dir(ex) + "/migrations"
	}

	m, err := migrate.New("file://"+dir, cfg.DSN)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil {
		return err
	}

	logrus.Info("Migrations applied")

	return nil
}
