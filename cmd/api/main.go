package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lloydpilapil/pixelmojo-leads/internal/config"
	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/database"
	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/http/handlers"
	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/http/middleware"
	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/integration/openai"
	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/mail"
	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/queue"
	"github.com/lloydpilapil/pixelmojo-leads/internal/infra/worker"
	"github.com/lloydpilapil/pixelmojo-leads/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPUser, cfg.AMQPPass, cfg.AMQPHost, cfg.AMQPPort)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)
	messageRepo := database.NewMessageRepository(db)

	// 2. Collaborators
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
		cfg.MailFrom, cfg.MailReplyTo, cfg.SalesInbox,
	)
	generator := openai.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)

	// 3. Background work: alert consumer + stale-claim sweeper
	alertWorker := queue.NewWorker(rabbitMQ.Ch, mailSender)
	go alertWorker.Start(queue.QueueName)

	sweeper := worker.NewClaimSweeper(db, cfg.ClaimLease)
	go sweeper.Start(context.Background())

	// 4. UseCases
	notifyUC := usecase.NewNotifyLeadUseCase(usecase.NotifyPolicy{
		QualifiedThreshold: cfg.QualifiedThreshold,
		HighValueThreshold: cfg.HighValueThreshold,
	}, producer)

	captureUC := usecase.NewCaptureLeadUseCase(leadRepo, notifyUC, cfg.QualifiedThreshold)

	followUpUC := usecase.NewFollowUpUseCase(
		leadRepo, messageRepo, generator, mailSender,
		usecase.EligibilityPolicy{
			WarmBandMin: cfg.WarmBandMin,
			WarmBandMax: cfg.WarmBandMax,
			MinAge:      cfg.FollowUpMinAge,
			MaxAge:      cfg.FollowUpMaxAge,
		},
		cfg.BatchCap,
		cfg.ClaimLease,
	)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(captureUC)
	followUpHandler := handlers.NewFollowUpHandler(followUpUC)
	adminHandler := handlers.NewAdminHandler(leadRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, cfg)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://pixelmojo.io", "http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/leads", leadHandler.CaptureLead)

		r.Get("/followups/eligible", followUpHandler.HandleListEligible)
		r.Post("/followups/trigger", followUpHandler.HandleTriggerOne)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireBearerSecret(cfg.CronSecret))
			r.Get("/followups/run", followUpHandler.HandleRunBatch)
			r.Post("/followups/run", followUpHandler.HandleRunBatch)

			r.Get("/admin/leads", adminHandler.HandleListLeads)
			r.Get("/admin/leads/export", adminHandler.HandleExportLeads)
		})
	})

	addr := ":" + cfg.Port
	log.Printf("🔥 lead engine listening on %s", addr)
	http.ListenAndServe(addr, r)
}
