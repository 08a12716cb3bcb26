package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"teachhub/config"
	"teachhub/domain"
	"teachhub/middleware"
	"teachhub/services/schedule/bot"
	"teachhub/services/schedule/delivery"
	"teachhub/services/schedule/repository"
	"teachhub/services/schedule/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var log *logrus.Logger
var wg sync.WaitGroup

const usecaseTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Error loading configuration: %v", err)
	}

	log = config.GetLogrusInstance()
	if err := config.InitLogOutput(cfg.LogDir); err != nil {
		log.Fatalf("Failed to init log output: %v", err)
	}
	middleware.SetSecret(cfg.JWTSecret)

	db, err := config.BootDB(cfg)
	if err != nil {
		log.Fatalf("Failed to boot DB: %v", err)
	}
	config.AttachDBHook(db)

	api, err := config.BootBot(cfg)
	if err != nil {
		log.Fatalf("Failed to boot Telegram bot: %v", err)
	}

	// repositories
	scheduleRepo := repository.NewScheduleRepository(db)
	userRepo := repository.NewUserRepository(db)
	academicRepo := repository.NewAcademicRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	pollRepo := repository.NewPollRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	syslogRepo := repository.NewSyslogRepository(db)
	groupRepo := repository.NewGroupRepository(db)

	// usecases
	sender := bot.NewSender(api)
	scheduleUC := usecase.NewScheduleUseCase(scheduleRepo, usecaseTimeout)
	authUC := usecase.NewAuthUseCase(userRepo, usecaseTimeout)
	academicUC := usecase.NewAcademicUseCase(academicRepo, usecaseTimeout)
	announcementUC := usecase.NewAnnouncementUseCase(announcementRepo, userRepo, sender, log, usecaseTimeout)
	pollUC := usecase.NewPollUseCase(pollRepo, userRepo, sender, log, usecaseTimeout)

	alerts := usecase.NewAlertManager(cfg.AlertCity, cfg.AlertAPIToken, time.Duration(cfg.AlertIntervalS)*time.Second, log)
	notifier := usecase.NewNotifier(
		userRepo, scheduleUC, scheduleRepo, notificationRepo,
		pollUC, syslogRepo, alerts, sender, log,
		time.Duration(cfg.NotifyIntervalS)*time.Second,
	)

	tgBot := bot.New(api, authUC, scheduleUC, academicUC, announcementUC, pollUC, alerts, log, cfg.AdminID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		alerts.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		notifier.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tgBot.Run(ctx); err != nil {
			log.Errorf("Bot stopped with error: %v", err)
		}
	}()

	app := startHTTP(cfg, db, scheduleUC, authUC, academicUC, announcementUC, pollUC, alerts, syslogRepo, userRepo, groupRepo)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	<-signalChan

	log.Info("Shutting down the server...")
	cancel()

	if err := app.Shutdown(); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}

	wg.Wait()
	log.Info("Server shut down gracefully")
}

func startHTTP(
	cfg *config.Config,
	db *gorm.DB,
	scheduleUC domain.ScheduleUseCase,
	authUC domain.AuthUseCase,
	academicUC domain.AcademicUseCase,
	announcementUC domain.AnnouncementUseCase,
	pollUC domain.PollUseCase,
	alerts domain.AlertProvider,
	syslogRepo domain.SyslogRepo,
	userRepo domain.UserRepo,
	groupRepo domain.GroupRepo,
) *fiber.App {
	log.Info("Starting HTTP")
	app := fiber.New(config.GetFiberConfig())

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	delivery.NewAuthDelivery(app, authUC)
	delivery.NewUserDelivery(app, authUC)
	delivery.NewScheduleDelivery(app, scheduleUC)
	delivery.NewAcademicDelivery(app, academicUC)
	delivery.NewAnnouncementDelivery(app, announcementUC)
	delivery.NewPollDelivery(app, pollUC)
	delivery.NewGroupDelivery(app, groupRepo)
	delivery.NewSettingsDelivery(app, scheduleUC, syslogRepo, cfg)
	delivery.NewSyslogDelivery(app, syslogRepo, userRepo)
	delivery.NewAlertDelivery(app, alerts, db)

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infof("Starting HTTP server on port %s", config.GetFiberHttpPort())
		if err := app.Listen(config.GetFiberListenAddress()); err != nil {
			log.Errorf("Error starting server: %v", err)
		}
	}()

	return app
}
