package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	bookingWizardHandler "github.com/kkosolapov/SPA-BookingService/internal/api/handlers/booking_wizard"
	cancelBookingHandler "github.com/kkosolapov/SPA-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/kkosolapov/SPA-BookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/kkosolapov/SPA-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/kkosolapov/SPA-BookingService/internal/api/handlers/get_booking"
	getSalonBookingsHandler "github.com/kkosolapov/SPA-BookingService/internal/api/handlers/get_salon_bookings"
	getSalonPolicyHandler "github.com/kkosolapov/SPA-BookingService/internal/api/handlers/get_salon_policy"
	getUserBookingsHandler "github.com/kkosolapov/SPA-BookingService/internal/api/handlers/get_user_bookings"
	getUserWaitlistHandler "github.com/kkosolapov/SPA-BookingService/internal/api/handlers/get_user_waitlist"
	joinWaitlistHandler "github.com/kkosolapov/SPA-BookingService/internal/api/handlers/join_waitlist"
	updateBookingStatusHandler "github.com/kkosolapov/SPA-BookingService/internal/api/handlers/update_booking_status"
	updateSalonPolicyHandler "github.com/kkosolapov/SPA-BookingService/internal/api/handlers/update_salon_policy"
	"github.com/kkosolapov/SPA-BookingService/internal/api/middleware"
	"github.com/kkosolapov/SPA-BookingService/internal/config"
	bookingRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/booking"
	policyRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/policy"
	resourceRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/resource"
	serviceRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/service"
	waitlistRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/waitlist"
	"github.com/kkosolapov/SPA-BookingService/internal/integrations/notifier"
	"github.com/kkosolapov/SPA-BookingService/internal/integrations/payments"
	bookingsService "github.com/kkosolapov/SPA-BookingService/internal/service/bookings"
	policyService "github.com/kkosolapov/SPA-BookingService/internal/service/policy"
	waitlistService "github.com/kkosolapov/SPA-BookingService/internal/service/waitlist"
	cancelBookingUC "github.com/kkosolapov/SPA-BookingService/internal/usecase/cancel_booking"
	createBookingUC "github.com/kkosolapov/SPA-BookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/kkosolapov/SPA-BookingService/internal/usecase/get_available_slots"
	"github.com/kkosolapov/SPA-BookingService/internal/wizard"
	"github.com/kkosolapov/SPA-BookingService/pkg/dbmetrics"
	"github.com/kkosolapov/SPA-BookingService/pkg/logger"
	"github.com/kkosolapov/SPA-BookingService/pkg/metrics"
	"github.com/kkosolapov/SPA-BookingService/pkg/simpletxmanager"
	"github.com/kkosolapov/SPA-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SPA-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Клиент платежей: пустой api_key выключает депозиты
	stripeClient := payments.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.Currency)
	if stripeClient.Enabled() {
		log.Info("Stripe payments enabled (currency=%s)", cfg.Stripe.Currency)
	} else {
		log.Warn("Stripe payments disabled: deposits will not be charged")
	}

	// Публикация доменных событий: пустой список брокеров выключает отправку
	events := notifier.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	defer events.Close()

	// Хранилище сессий мастера: Redis в проде, in-memory для локальной разработки
	sessionTTL := time.Duration(cfg.Redis.SessionTTLMinutes) * time.Minute
	var sessionStore wizard.SessionStore
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		sessionStore = wizard.NewRedisStore(redisClient, sessionTTL)
		log.Info("Wizard sessions stored in Redis (addr=%s, ttl=%s)", cfg.Redis.Addr, sessionTTL)
	} else {
		sessionStore = wizard.NewMemoryStore(sessionTTL)
		log.Warn("Redis addr is empty: wizard sessions stored in memory")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		policyRepository   *policyRepo.Repository
		resourceRepository *resourceRepo.Repository
		serviceRepository  *serviceRepo.Repository
		waitlistRepository *waitlistRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	// TODO: вынести общий интерфейс менеджера транзакций в pkg
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		policyRepository = policyRepo.NewRepository(wrappedDB)
		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		waitlistRepository = waitlistRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		policyRepository = policyRepo.NewRepository(db)
		resourceRepository = resourceRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		waitlistRepository = waitlistRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	policySvc := policyService.NewService(policyRepository, log)
	waitlistSvc := waitlistService.NewService(
		waitlistRepository,
		serviceRepository,
		resourceRepository,
		policyRepository,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		resourceRepository,
		policyRepository,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		resourceRepository,
		policyRepository,
		txMgr,
		stripeClient,
		events,
		log,
	)

	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		waitlistRepository,
		serviceRepository,
		policyRepository,
		txMgr,
		stripeClient,
		events,
		log,
	)

	// Мастер пошагового бронирования
	wizardManager := wizard.NewManager(sessionStore, createBookingUseCase, log)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getSalonBookings := getSalonBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getSalonPolicy := getSalonPolicyHandler.NewHandler(policySvc, log)
	updateSalonPolicy := updateSalonPolicyHandler.NewHandler(policySvc, log)
	joinWaitlist := joinWaitlistHandler.NewHandler(waitlistSvc, log)
	getUserWaitlist := getUserWaitlistHandler.NewHandler(waitlistSvc, log)
	bookingWizard := bookingWizardHandler.NewHandler(wizardManager, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Получение доступных слотов для бронирования
	api.HandleFunc("/salons/{salonId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Получение политики бронирования салона
	api.HandleFunc("/salons/{salonId}/policy",
		getSalonPolicy.Handle).Methods(http.MethodGet)

	// ============================================================
	// GUEST ROUTES (X-User-ID опционален: гостевое бронирование)
	// ============================================================

	guest := api.PathPrefix("").Subrouter()
	guest.Use(middleware.AuthOptional)

	// Создание бронирования
	guest.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Мастер пошагового бронирования
	guest.HandleFunc("/wizard/sessions", bookingWizard.HandleStart).Methods(http.MethodPost)
	guest.HandleFunc("/wizard/sessions/{sessionId}", bookingWizard.HandleGet).Methods(http.MethodGet)
	guest.HandleFunc("/wizard/sessions/{sessionId}/advance", bookingWizard.HandleAdvance).Methods(http.MethodPost)
	guest.HandleFunc("/wizard/sessions/{sessionId}/back", bookingWizard.HandleBack).Methods(http.MethodPost)
	guest.HandleFunc("/wizard/sessions/{sessionId}/submit", bookingWizard.HandleSubmit).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Обновление статуса бронирования (менеджер или мастер ресурса)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Лист ожидания ---
	// Вступление в лист ожидания
	protected.HandleFunc("/salons/{salonId}/waitlist", joinWaitlist.Handle).Methods(http.MethodPost)

	// Записи листа ожидания пользователя
	protected.HandleFunc("/users/{userId}/waitlist", getUserWaitlist.Handle).Methods(http.MethodGet)

	// --- Управление салоном (для менеджеров) ---
	// Список бронирований салона
	protected.HandleFunc("/salons/{salonId}/bookings", getSalonBookings.Handle).Methods(http.MethodGet)

	// Обновление политики бронирования салона
	protected.HandleFunc("/salons/{salonId}/policy", updateSalonPolicy.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
