package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	appanalytics "github.com/jhoicas/crm-veiculos/internal/application/analytics"
	"github.com/jhoicas/crm-veiculos/internal/application/auth"
	"github.com/jhoicas/crm-veiculos/internal/application/pipeline"
	"github.com/jhoicas/crm-veiculos/internal/application/ports"
	"github.com/jhoicas/crm-veiculos/internal/application/usecase"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/infrastructure/memory"
	"github.com/jhoicas/crm-veiculos/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/crm-veiculos/internal/infrastructure/pdf"
	"github.com/jhoicas/crm-veiculos/internal/infrastructure/postgres"
	"github.com/jhoicas/crm-veiculos/internal/infrastructure/queue"
	"github.com/jhoicas/crm-veiculos/internal/infrastructure/webhook"
	httpRouter "github.com/jhoicas/crm-veiculos/internal/interfaces/http"
	"github.com/jhoicas/crm-veiculos/pkg/config"
	"github.com/jhoicas/crm-veiculos/pkg/logger"
)

// txRunner transacciones de cambio de etapa y de alta de cuenta.
type txRunner interface {
	pipeline.TxRunner
	auth.TxRunner
}

// repos conjunto de repositorios de un backend de almacenamiento.
type repos struct {
	tx           txRunner
	companies    repository.CompanyRepository
	users        repository.UserRepository
	leads        repository.LeadRepository
	appointments repository.AppointmentRepository
	history      repository.StageChangeRepository
	vehicles     repository.VehicleRepository
	salespeople  repository.SalespersonRepository
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("notify_driver", cfg.Notify.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.close()

	m := metrics.New(prometheus.DefaultRegisterer)

	dispatcher := webhook.NewDispatcher(webhook.Endpoints{
		ports.EventCommercialSummary: cfg.Webhook.CommercialSummaryURL,
		ports.EventServiceSurvey:     cfg.Webhook.ServiceSurveyURL,
		ports.EventFollowUp:          cfg.Webhook.FollowUpURL,
		ports.EventMessage:           cfg.Webhook.MessageURL,
		ports.EventAppointmentSaved:  cfg.Webhook.AppointmentURL,
		ports.EventMemberCreated:     cfg.Webhook.MemberURL,
	}, cfg.Webhook.Timeout, log, webhook.WithObserver(func(typ ports.EventType, outcome string) {
		m.WebhookDelivery(string(typ), outcome)
	}))

	// Notificaciones automáticas: entrega directa o vía RabbitMQ.
	var notifier ports.Notifier = dispatcher
	var publisher *queue.Publisher
	if cfg.Notify.Driver == "amqp" {
		mq, err := queue.NewRabbitMQ(cfg.Notify.AMQPURL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer mq.Close()
		publisher = queue.NewPublisher(mq.Ch, log)
		notifier = publisher

		worker := queue.NewWorker(mq.Consume, dispatcher, log)
		go func() {
			if err := worker.Start(ctx); err != nil {
				log.Error().Err(err).Msg("worker de notificaciones")
			}
		}()
	}

	pipelineSvc := pipeline.NewService(store.tx, store.appointments, notifier, log, pipeline.WithRecorder(m))
	authUC := auth.NewAuthUseCase(store.tx, store.users, store.companies, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	leadUC := usecase.NewLeadUseCase(store.leads, store.history, dispatcher, log)
	appointmentUC := usecase.NewAppointmentUseCase(store.appointments, store.leads, store.salespeople, notifier, log)
	memberUC := usecase.NewMemberUseCase(store.users, store.companies, notifier, log)
	dashboardUC := appanalytics.NewDashboardUseCase(store.leads, store.appointments, store.companies, infrapdf.NewDashboardReport())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CRM Atual Veículos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		Pipeline:      pipelineSvc,
		LeadUC:        leadUC,
		AppointmentUC: appointmentUC,
		VehicleUC:     usecase.NewVehicleUseCase(store.vehicles),
		SalespersonUC: usecase.NewSalespersonUseCase(store.salespeople),
		MemberUC:      memberUC,
		DashboardUC:   dashboardUC,
		JWTSecret:     cfg.JWT.Secret,
		Metrics:       m,
		Gatherer:      prometheus.DefaultGatherer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Espera las notificaciones en vuelo antes de cerrar el pool.
	if publisher != nil {
		if err := publisher.Close(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("publicaciones pendientes descartadas")
		}
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("notificaciones pendientes descartadas")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*repos, error) {
	if cfg.Driver == "memory" {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &repos{
			tx:           s,
			companies:    s.Companies(),
			users:        s.Users(),
			leads:        s.Leads(),
			appointments: s.Appointments(),
			history:      s.History(),
			vehicles:     s.Vehicles(),
			salespeople:  s.Salespeople(),
			close:        func() {},
		}, nil
	}

	if cfg.Migrate {
		if err := postgres.RunMigrations(cfg.ConnectionString()); err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &repos{
		tx:           postgres.NewTxRunner(pool),
		companies:    postgres.NewCompanyRepository(pool),
		users:        postgres.NewUserRepository(pool),
		leads:        postgres.NewLeadRepository(pool),
		appointments: postgres.NewAppointmentRepository(pool),
		history:      postgres.NewStageChangeRepository(pool),
		vehicles:     postgres.NewVehicleRepository(pool),
		salespeople:  postgres.NewSalespersonRepository(pool),
		close:        pool.Close,
	}, nil
}
