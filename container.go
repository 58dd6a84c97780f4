package strawpoll

import (
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // enable mysql dialect
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql" // enable mysql driver
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/strawpoll/strawpoll/config"
	"github.com/strawpoll/strawpoll/identifier"
	"github.com/strawpoll/strawpoll/polls"
)

const readHeaderTimeout = time.Second * 30

// Container Container.
type Container struct {
	config            config.Config
	db                *sql.DB
	dbMutex           sync.Mutex
	goquDB            *goqu.Database
	idGenerator       *identifier.Generator
	pollsRepository   *polls.Repository
	pollsREST         *PollsREST
	publicHTTPServer  *http.Server
	publicRouter      http.Handler
	metricsHTTPServer *http.Server
	metricsRegistry   *prometheus.Registry
}

// NewContainer constructor.
func NewContainer(cfg config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

func (s *Container) Close() error {
	s.pollsRepository = nil
	s.goquDB = nil

	if s.db != nil {
		err := s.db.Close()
		if err != nil {
			logrus.Error(err.Error())
		}

		s.db = nil
	}

	return nil
}

func (s *Container) Config() config.Config {
	return s.config
}

func (s *Container) DB() (*sql.DB, error) {
	s.dbMutex.Lock()
	defer s.dbMutex.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	start := time.Now()

	const (
		connectionTimeout = 60 * time.Second
		reconnectDelay    = 100 * time.Millisecond
	)

	logrus.Info("Waiting for mysql")

	var (
		db  *sql.DB
		err error
	)

	for {
		db, err = sql.Open("mysql", s.config.DSN)
		if err != nil {
			return nil, err
		}

		err = db.Ping()
		if err == nil {
			logrus.Info("Started.")

			break
		}

		if time.Since(start) > connectionTimeout {
			return nil, err
		}

		logrus.Infof(". %s", err.Error())
		time.Sleep(reconnectDelay)
	}

	s.db = db

	return s.db, nil
}

func (s *Container) GoquDB() (*goqu.Database, error) {
	if s.goquDB == nil {
		db, err := s.DB()
		if err != nil {
			return nil, err
		}

		s.goquDB = goqu.New("mysql", db)
	}

	return s.goquDB, nil
}

func (s *Container) IdentifierGenerator() *identifier.Generator {
	if s.idGenerator == nil {
		s.idGenerator = identifier.NewGenerator()
	}

	return s.idGenerator
}

func (s *Container) PollsRepository() (*polls.Repository, error) {
	if s.pollsRepository == nil {
		db, err := s.GoquDB()
		if err != nil {
			return nil, err
		}

		s.pollsRepository = polls.NewRepository(db, s.IdentifierGenerator())
	}

	return s.pollsRepository, nil
}

func (s *Container) PollsREST() (*PollsREST, error) {
	if s.pollsREST == nil {
		repository, err := s.PollsRepository()
		if err != nil {
			return nil, err
		}

		s.pollsREST = NewPollsREST(repository)
	}

	return s.pollsREST, nil
}

func (s *Container) PublicRouter() (http.Handler, error) {
	if s.publicRouter != nil {
		return s.publicRouter, nil
	}

	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery())

	err := ginEngine.SetTrustedProxies([]string{s.config.TrustedNetwork})
	if err != nil {
		return nil, err
	}

	if len(s.config.PublicRest.Cors.Origin) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = s.config.PublicRest.Cors.Origin
		corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
		corsConfig.AllowCredentials = true
		ginEngine.Use(cors.New(corsConfig))
	}

	pollsREST, err := s.PollsREST()
	if err != nil {
		return nil, err
	}

	pollsREST.SetupRouter(ginEngine)

	s.publicRouter = ginEngine

	return s.publicRouter, nil
}

func (s *Container) PublicHTTPServer() (*http.Server, error) {
	if s.publicHTTPServer == nil {
		handler, err := s.PublicRouter()
		if err != nil {
			return nil, err
		}

		s.publicHTTPServer = &http.Server{
			Addr:              s.config.PublicRest.Listen,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		}
	}

	return s.publicHTTPServer, nil
}

func (s *Container) MetricsRegistry() *prometheus.Registry {
	if s.metricsRegistry == nil {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			pollsCreatedTotal,
			votesTotal,
		)

		s.metricsRegistry = registry
	}

	return s.metricsRegistry
}

func (s *Container) MetricsHTTPServer() (*http.Server, error) {
	if s.metricsHTTPServer == nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(s.MetricsRegistry(), promhttp.HandlerOpts{}))

		s.metricsHTTPServer = &http.Server{
			Addr:              s.config.Metrics.Listen,
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		}
	}

	return s.metricsHTTPServer, nil
}
