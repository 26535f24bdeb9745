package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "serenity/docs"
	"serenity/internal/adapters/chat/gemini"
	mem "serenity/internal/adapters/storage/memory"
	pg "serenity/internal/adapters/storage/postgres"
	"serenity/internal/domain/assistant"
	"serenity/internal/domain/caregivers"
	"serenity/internal/domain/contacts"
	"serenity/internal/domain/doselogs"
	"serenity/internal/domain/healthlogs"
	"serenity/internal/domain/medications"
	"serenity/internal/domain/tips"
	"serenity/internal/middleware"
	"serenity/internal/ports/auth"
	"serenity/internal/ports/chat"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: generador LLM para el asistente. Si no viene, intenta
	// Gemini por env; sin API key el asistente responde solo con reglas.
	Generator chat.Generator
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		medRepo     medications.Repository
		logRepo     doselogs.Repository
		healthRepo  healthlogs.Repository
		contactRepo contacts.Repository
		grantsRepo  caregivers.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		medRepo = pg.NewMedicationsRepo(db)
		logRepo = pg.NewDoseLogsRepo(db)
		healthRepo = pg.NewHealthLogsRepo(db)
		contactRepo = pg.NewContactsRepo(db)
		grantsRepo = pg.NewCaregiverGrantsRepo(db)
	} else {
		medRepo = mem.NewMedicationRepo()
		logRepo = mem.NewDoseLogRepo()
		healthRepo = mem.NewHealthLogRepo()
		contactRepo = mem.NewContactRepo()
		grantsRepo = mem.NewCaregiverGrantRepo()
	}

	generator := opts.Generator
	if generator == nil {
		if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
			client, err := gemini.NewClient(gemini.Config{
				APIKey: apiKey,
				Model:  os.Getenv("GEMINI_MODEL"),
			})
			if err == nil {
				generator = client
			}
		}
	}

	// Services por módulo. El borrado de un medicamento cascadea a sus
	// dose logs vía el purger.
	logsSvc := doselogs.NewService(logRepo)
	medsSvc := medications.NewService(medRepo, logsSvc)
	healthSvc := healthlogs.NewService(healthRepo)
	contactsSvc := contacts.NewService(contactRepo)
	grantsSvc := caregivers.NewService(grantsRepo)
	assistantSvc := assistant.NewService(generator)
	tipsSvc := tips.NewService()

	// Rutas por módulo
	medications.RegisterRoutes(r, medsSvc, grantsSvc, func(ctx context.Context, m medications.Medication) error {
		_, err := logsSvc.Materialize(ctx, m, time.Time{}, medications.DefaultWindowDays)
		return err
	})
	doselogs.RegisterRoutes(r, logsSvc, medsSvc, grantsSvc)
	healthlogs.RegisterRoutes(r, healthSvc, grantsSvc)
	contacts.RegisterRoutes(r, contactsSvc, grantsSvc)
	caregivers.RegisterRoutes(r, grantsSvc)
	assistant.RegisterRoutes(r, assistantSvc)
	tips.RegisterRoutes(r, tipsSvc)

	return r
}
