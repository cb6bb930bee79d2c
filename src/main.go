package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"regexp"
	"syscall"
	"time"

	"uservice/src/boot"
	"uservice/src/config"
	"uservice/src/db"
	"uservice/src/lib"
	awslib "uservice/src/lib/aws"
	"uservice/src/middlewares"
	"uservice/src/types"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const apiPrefix = "/api/v1"

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	if cfg.APIEnv == string(types.Local) || cfg.AppHost == "" {
		return cors.Default()
	}
	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
	appHost := regexp.QuoteMeta(cfg.AppHost)
	cc.AllowOriginFunc = func(origin string) bool {
		match, _ := regexp.MatchString("^"+appHost+"$", origin)
		return match
	}
	cc.AllowCredentials = true
	cc.AllowAllOrigins = false
	return cors.New(cc)
}

func setupRouter(app *App) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(corsMiddleware(app.Config))
	router.Use(middlewares.SecureHeaders)
	router.MaxMultipartMemory = lib.MaxImageSize + 1<<20

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	router.GET("/health", func(ctx *gin.Context) {
		h := app.Admin.Health(ctx.Request.Context())
		status := http.StatusOK
		if h.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		ctx.JSON(status, h)
	})

	router.Use(middlewares.Maintenance(func() bool { return app.Config.MaintenanceMode }))

	apiv1 := router.Group(apiPrefix)
	authHandlers(apiv1, app)
	userHandlers(apiv1, app)
	packageHandlers(apiv1, app)
	venueHandlers(apiv1, app)
	bookingHandlers(apiv1, app)
	messageHandlers(apiv1, app)
	adminHandlers(apiv1, app)

	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	return router
}

func initLogger(logDir string) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.Printf("Could not create log directory %s: %s\n", logDir, err.Error())
		return
	}
	f, err := os.OpenFile(path.Join(logDir, "api.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err == nil {
		gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   path.Join(logDir, "server.log"),
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}))
}

// backends connects the optional services. Each one stays nil when not configured.
func backends(ctx context.Context, cfg *config.Config) Deps {
	var deps Deps
	if cfg.RedisURL != "" {
		rdb, err := lib.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Printf("[Redis] disabled: %s\n", err.Error())
		} else {
			deps.Denylist = lib.NewRedisDenylist(rdb)
			deps.Cache = lib.NewRedisCache(rdb)
		}
	}
	switch {
	case cfg.MailDriver == "ses":
		mailer, err := awslib.NewSESMailer(ctx, cfg.AWSRegion)
		if err != nil {
			log.Printf("[Mail] SES disabled: %s\n", err.Error())
		} else {
			deps.Mailer = mailer
		}
	case cfg.SMTP.Enabled():
		mailer, err := lib.NewSMTPMailer(cfg.SMTP)
		if err != nil {
			log.Printf("[Mail] SMTP disabled: %s\n", err.Error())
		} else {
			deps.Mailer = mailer
		}
	}
	if cfg.S3AssetsBucket != "" {
		store, err := awslib.NewS3ImageStore(ctx, cfg.S3AssetsBucket, cfg.AWSRegion)
		if err != nil {
			log.Printf("[S3] image uploads disabled: %s\n", err.Error())
		} else {
			deps.Images = store
		}
	}
	return deps
}

func main() {
	if os.Getenv("API_ENV") == "" || os.Getenv("API_ENV") == string(types.Local) {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			log.Printf("No .env file loaded: %s\n", err.Error())
		}
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %s\n", err.Error())
	}
	initLogger(cfg.LogDir)
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(cfg.DSN)
	if err != nil {
		log.Fatalf("Database connection failed: %s\n", err.Error())
	}
	defer db.Close(gdb)
	if err := boot.InitDb(gdb); err != nil {
		log.Fatalf("Migration failed: %s\n", err.Error())
	}

	registerValidators()
	app := newApp(cfg, gdb, backends(ctx, cfg))
	boot.SeedAdmin(ctx, app.Identity, cfg.AdminEmail, cfg.AdminPassword)

	sched, err := boot.InitScheduler(app.Jobs)
	if err != nil {
		log.Printf("Scheduler not started: %s\n", err.Error())
	}
	defer boot.StopScheduler(sched)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("Server listening on %s\n", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %s\n", err.Error())
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %s\n", err.Error())
	}
}
