package main

import (
	"uservice/src/config"
	"uservice/src/lib"
	"uservice/src/middlewares"
	"uservice/src/services"

	"gorm.io/gorm"
)

// App holds the services the HTTP handlers call into.
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Identity *services.IdentityService
	Catalog  *services.CatalogService
	Bookings *services.BookingService
	Messages *services.MessageService
	Admin    *services.AdminService
	Jobs     *services.Jobs
	Auth     *middlewares.Authenticator
}

// Deps carries the optional backends. Nil members disable the matching feature.
type Deps struct {
	Denylist lib.TokenDenylist
	Cache    lib.Cache
	Images   lib.ImageStore
	Mailer   lib.Mailer
	Clock    services.Clock
}

func newApp(cfg *config.Config, gdb *gorm.DB, deps Deps) *App {
	mailer := deps.Mailer
	if mailer == nil {
		mailer = lib.LogMailer{}
	}
	notifier := services.NewMailNotifier(mailer, cfg.SMTP.From, cfg.SMTP.FromName, cfg.FrontendURL)

	tokens := lib.NewTokenService(cfg.JWTSecret, cfg.JWTExpire)
	identity := services.NewIdentityService(gdb, tokens, deps.Denylist, notifier, cfg.BcryptRounds)
	bookings := services.NewBookingService(gdb, notifier)
	messages := services.NewMessageService(gdb)
	admin := services.NewAdminService(gdb, deps.Cache)
	jobs := services.NewJobs(gdb, identity, notifier, cfg.ReminderWindow)
	if deps.Clock != nil {
		tokens.WithClock(deps.Clock)
		identity.WithClock(deps.Clock)
		bookings.WithClock(deps.Clock)
		messages.WithClock(deps.Clock)
		admin.WithClock(deps.Clock)
		jobs.WithClock(deps.Clock)
	}

	return &App{
		Config:   cfg,
		DB:       gdb,
		Identity: identity,
		Catalog:  services.NewCatalogService(gdb, deps.Images),
		Bookings: bookings,
		Messages: messages,
		Admin:    admin,
		Jobs:     jobs,
		Auth:     middlewares.NewAuthenticator(identity),
	}
}
