package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kadry/internal/auth"
	"kadry/internal/editlock"
	"kadry/internal/history"
	"kadry/internal/hr/service"
	"kadry/internal/notify"
	"kadry/internal/platform/middleware"
	"kadry/internal/task"
)

// Pinger reports backend health for the readiness endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps is everything the router needs wired in.
type Deps struct {
	Logger        *slog.Logger
	Auth          *auth.Service
	HR            *service.Service
	History       history.Store
	Notifications notify.Store
	Locks         *editlock.Service
	Tasks         *task.Service
	DB            Pinger // nil in memory mode
}

// NewRouter assembles the full API surface. Everything under /api except the
// login and refresh endpoints requires an access token.
func NewRouter(d Deps) http.Handler {
	authH := &authHandler{auth: d.Auth, logger: d.Logger}
	empH := &employeeHandler{hr: d.HR, logger: d.Logger}
	subH := &subRecordHandler{hr: d.HR, logger: d.Logger}
	histH := &historyHandler{store: d.History, logger: d.Logger}
	notifH := &notificationHandler{store: d.Notifications, logger: d.Logger}
	lockH := &lockHandler{locks: d.Locks, logger: d.Logger}
	taskH := &taskHandler{tasks: d.Tasks, logger: d.Logger}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))

	r.Get("/healthz", healthz(d.DB))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authH.login)
		r.Post("/auth/refresh", authH.refresh)
		r.Post("/auth/logout", authH.logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.Auth.Tokens(), d.Logger))

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", empH.list)
				r.Post("/", empH.create)

				r.Route("/{employeeID}", func(r chi.Router) {
					r.Get("/", empH.get)
					r.Put("/", empH.update)
					r.Delete("/", empH.delete)

					r.Post("/lock", lockH.acquire)
					r.Put("/lock", lockH.refresh)
					r.Delete("/lock", lockH.release)
					r.Get("/lock", lockH.status)

					r.Get("/notifications", notifH.listByEmployee)

					r.Get("/documents", subH.listDocuments)
					r.Post("/documents", subH.createDocument)
					r.Get("/work-permits", subH.listWorkPermits)
					r.Post("/work-permits", subH.createWorkPermit)
					r.Get("/periods", subH.listPeriods)
					r.Post("/periods", subH.createPeriod)
					r.Get("/card-submissions", subH.listCardSubmissions)
					r.Post("/card-submissions", subH.createCardSubmission)
					r.Get("/contracts", subH.listContracts)
					r.Post("/contracts", subH.createContract)
					r.Get("/sanepids", subH.listSanepids)
					r.Post("/sanepids", subH.createSanepid)
					r.Get("/contacts", subH.listContacts)
					r.Post("/contacts", subH.createContact)
				})
			})

			r.Put("/documents/{documentID}", subH.updateDocument)
			r.Delete("/documents/{documentID}", subH.deleteDocument)
			r.Put("/work-permits/{workPermitID}", subH.updateWorkPermit)
			r.Delete("/work-permits/{workPermitID}", subH.deleteWorkPermit)
			r.Put("/periods/{periodID}", subH.updatePeriod)
			r.Delete("/periods/{periodID}", subH.deletePeriod)
			r.Delete("/card-submissions/{cardSubmissionID}", subH.deleteCardSubmission)
			r.Delete("/contracts/{contractID}", subH.deleteContract)
			r.Delete("/sanepids/{sanepidID}", subH.deleteSanepid)
			r.Delete("/contacts/{contactID}", subH.deleteContact)

			r.Get("/history/{kind}/{entityID}", histH.listByEntity)
			r.Get("/notifications", notifH.list)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskH.list)
				r.Post("/", taskH.create)
				r.Get("/{taskID}", taskH.get)
				r.Delete("/{taskID}", taskH.delete)
				r.Post("/{taskID}/take", taskH.take)
				r.Post("/{taskID}/complete", taskH.complete)
			})
		})
	})

	return r
}

func healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
