package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atendemed/medsync/internal/infra/database"
	"github.com/atendemed/medsync/internal/infra/http/handlers"
	"github.com/atendemed/medsync/internal/infra/http/middleware"
	"github.com/atendemed/medsync/internal/infra/integration/medicar"
	"github.com/atendemed/medsync/internal/infra/integration/tenex"
	"github.com/atendemed/medsync/internal/infra/mail"
	"github.com/atendemed/medsync/internal/infra/queue"
	"github.com/atendemed/medsync/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		getenv("RABBITMQ_USER", "user"),
		getenv("RABBITMQ_PASS", "password"),
		getenv("RABBITMQ_HOST", "localhost"),
		getenv("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Persistência
	ledger := database.NewExclusionRepository(db)

	// 2. Integrações
	tenexClient := tenex.NewClient(
		getenv("TENEX_BASE_URL", "https://maisaudebh.tenex.com.br"),
		os.Getenv("TENEX_BASIC_AUTH"),
	)
	medicarClient := medicar.NewClient(medicar.Config{
		BaseURL:      os.Getenv("MEDICAR_BASE_URL"),
		Username:     os.Getenv("MEDICAR_USERNAME"),
		Password:     os.Getenv("MEDICAR_PASSWORD"),
		CNPJMedicar:  os.Getenv("MEDICAR_CNPJMEDICAR"),
		GrupoEmpresa: os.Getenv("MEDICAR_GRUPOEMPRESA"),
		Contrato:     os.Getenv("MEDICAR_CONTRATO"),
	})

	// 3. Fila e notificações
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"),
		atoi(getenv("MAIL_PORT", "587")),
		os.Getenv("MAIL_USER"),
		os.Getenv("MAIL_PASS"),
		getenv("MAIL_FROM", "nao-responda@atendemed.com.br"),
		getenv("MAIL_OPS_INBOX", "integracao@atendemed.com.br"),
	)

	worker := queue.NewWorker(rabbitMQ.Ch, mailSender)
	go worker.Start(queue.QueueName)

	// 4. UseCase de reconciliação
	plans, err := usecase.LoadPlanTable(os.Getenv("PLAN_MAPPING_JSON"))
	if err != nil {
		log.Fatal(err)
	}

	poller := usecase.NewPlanPoller(tenexClient, usecase.DefaultRetryPolicy())

	reconcileUC := usecase.NewReconcileEventsUseCase(
		tenexClient,
		medicarClient,
		ledger,
		poller,
		plans,
		producer,
		usecase.CancelDefaults{
			MotivoBloqueio: getenv("MEDICAR_MOTIVO_BLOQUEIO", "001"),
			Usuario:        getenv("MEDICAR_USUARIO_BLOQUEIO", "INTEGRACAO"),
		},
	)

	// 5. Handlers
	webhookHandler := handlers.NewWebhookHandler(reconcileUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Post("/webhook/clientes", webhookHandler.Handle)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + getenv("PORT", "8080")
	log.Printf("🔥 Integração TENEX → MEDICAR rodando na porta %s", port)
	http.ListenAndServe(port, r)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 587
	}
	return n
}
