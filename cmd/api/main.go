package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mrezan/sms-dashboard/internal/config"
	"github.com/mrezan/sms-dashboard/internal/dispatch"
	"github.com/mrezan/sms-dashboard/internal/gateway"
	"github.com/mrezan/sms-dashboard/internal/handlers"
	"github.com/mrezan/sms-dashboard/internal/repository"
	"github.com/mrezan/sms-dashboard/internal/services"
	"github.com/mrezan/sms-dashboard/internal/session"
	xhttp "github.com/mrezan/sms-dashboard/pkg/http"
	"github.com/mrezan/sms-dashboard/pkg/logger"
	"github.com/mrezan/sms-dashboard/pkg/pg"
	"github.com/mrezan/sms-dashboard/pkg/prom"
	"github.com/mrezan/sms-dashboard/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	// transport
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 15))
	s.Use(xhttp.CORSMiddleware("*"))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	if config.Get().AppDebugMetricsAddr != "" {
		if err := prom.Create(config.Get().AppName, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Error("failed registering metrics", "error", err)
		}
		go prom.ListenAndServer(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
	}

	messageRepo := repository.NewMessageRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	resolver := session.NewJWTResolver(config.Get().SessionJWTSecret, redisAdap)

	gatewayClient := gateway.NewClient(
		config.Get().SMSGatewayURL,
		config.Get().SMSGatewayToken,
		config.Get().SMSGatewayTimeout,
	)

	// services
	dispatcher := dispatch.NewDispatcher(dispatch.Config{
		GatewayURL:   config.Get().SMSGatewayURL,
		GatewayToken: config.Get().SMSGatewayToken,
	}, gatewayClient, resolver, messageRepo)
	profileService := services.NewProfileService(profileRepo)
	historyService := services.NewHistoryService(messageRepo)

	// handlers
	auth := handlers.Auth(resolver, profileService)
	smsHandler := handlers.NewSMSHandler(dispatcher, historyService)
	statusHandler := handlers.NewStatusHandler(dispatcher)
	profileHandler := handlers.NewProfileHandler(resolver, profileService)
	userHandler := handlers.NewUserHandler(profileService)
	healthHandler := handlers.NewHealthHandler()

	api := s.Router.Group("/api")
	handlers.RegisterStatusRoutes(api, statusHandler)
	handlers.RegisterProfileRoutes(api, profileHandler)

	v1 := s.Router.Group("/api/v1")
	handlers.RegisterSMSRoutes(v1, smsHandler, auth)
	handlers.RegisterUserRoutes(v1, userHandler, auth)
	handlers.RegisterHealthRoutes(v1, healthHandler)

	logger.Info("starting api", "version", version, "commit", commit, "build_date", date)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	select {
	case <-c:
		s.Shutdown()
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
