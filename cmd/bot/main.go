package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"attendance-report/internal/api"
	"attendance-report/internal/attendance"
	"attendance-report/internal/config"
	"attendance-report/internal/handler"
	"attendance-report/internal/repository"
	"attendance-report/internal/service"
	"attendance-report/internal/storage"
	"attendance-report/pkg/telegram"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	logrus.Info("Initializing config...")
	cfg := config.GetConfig()
	logrus.SetLevel(cfg.LogLevel)
	logger := logrus.StandardLogger()
	logrus.Info("Config initialized...")

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	if _, err = sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logrus.Infof("Warning: Failed to enable foreign keys: %v", err)
	}

	companyRepo, err := repository.NewGormCompanyRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create company repository")
	}
	employeeRepo, err := repository.NewGormEmployeeRepository(db, logger)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create employee repository")
	}
	attendanceRepo, err := repository.NewGormAttendanceRepository(db, logger)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create attendance repository")
	}
	leaveRepo, err := repository.NewGormLeaveRepository(db, logger)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create leave repository")
	}
	calendarRepo, err := repository.NewGormCalendarRepository(db, logger)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create calendar repository")
	}
	userRepo, err := repository.NewGormUserRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create user repository")
	}
	attachmentRepo, err := repository.NewGormReportAttachmentRepository(db, logger)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create report attachment repository")
	}

	fileStorage, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create file storage")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	userService := service.NewUserService(userRepo, logger)
	attachmentService := service.NewAttachmentService(attachmentRepo, fileStorage, cfg.PublicBaseURL, logger)
	reportService := service.NewReportService(
		companyRepo,
		employeeRepo,
		attendanceRepo,
		leaveRepo,
		calendarRepo,
		userRepo,
		attachmentService,
		cfg.DefaultTimezone,
		cfg.ReportWorkers,
		logger,
	)

	if cfg.ImportHolidays() {
		holidayService := service.NewHolidayService(calendarRepo, logger)
		loc := attendance.ResolveLocation(cfg.DefaultTimezone)
		if n, err := holidayService.LoadFromJSON(ctx, cfg.HolidaysFile, cfg.HolidaysCalendarID, loc); err != nil {
			logrus.WithError(err).Warn("Failed to import holidays")
		} else {
			logrus.Infof("Imported %d holidays into calendar %d", n, cfg.HolidaysCalendarID)
		}
	}

	if err := userService.InitializeAdmin(ctx, cfg.BaseAdminChatID); err != nil {
		logrus.Infof("Warning: Failed to initialize admin: %v", err)
	} else if cfg.BaseAdminChatID != 0 {
		logrus.Infof("Admin initialized with chat ID: %d", cfg.BaseAdminChatID)
	}

	router := api.NewRouter(api.NewReportHandler(reportService, attachmentService, logger), logger)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("HTTP server stopped")
			stop()
		}
	}()

	var client *telegram.Client
	if cfg.BotEnabled() {
		client, err = telegram.NewClient(cfg.TelegramToken, cfg.TelegramDebug)
		if err != nil {
			logrus.Fatal("Failed to create Telegram client:", err)
		}
		logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

		botHandler := handler.NewHandler(client, userService, reportService, attachmentService, cfg, logger)
		go botHandler.HandleUpdates(ctx, client.Updates())
		logrus.Info("Bot started. Press Ctrl+C to stop.")
	} else {
		logrus.Info("TELEGRAM_BOT_TOKEN not set, bot disabled")
	}

	<-ctx.Done()

	if client != nil {
		client.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Infof("Error stopping HTTP server: %v", err)
	}

	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Stopped gracefully")
}
