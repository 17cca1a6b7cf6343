package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Agenda     *AgendaHandler
	Health     *HealthHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Agenda != nil {
		mux.HandleFunc("/agenda/availability", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Agenda.CheckAvailability(w, r)
		})
		mux.HandleFunc("/agenda/availability/month", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Agenda.MonthAvailability(w, r)
		})
		mux.HandleFunc("/agenda/events", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Agenda.ListTimeline(w, r)
			case http.MethodPost:
				cfg.Agenda.CreateEvent(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/agenda/events/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/agenda/events/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithEntryID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPut:
				cfg.Agenda.UpdateEvent(w, r)
			case http.MethodDelete:
				cfg.Agenda.DeleteEvent(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
		mux.HandleFunc("/agenda/admin/events", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Agenda.ListTimelineGlobal(w, r)
		})
		mux.HandleFunc("/agenda/visits/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/agenda/visits/")
			visitID, action, ok := strings.Cut(rest, "/")
			if !ok || visitID == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithVisitID(r.Context(), visitID)
			r = r.WithContext(ctx)
			switch action {
			case "reschedule":
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				cfg.Agenda.RescheduleVisit(w, r)
			case "validate-report":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Agenda.ValidateReport(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	if cfg.Health == nil {
		return handler
	}

	// The health check stays outside the middleware chain: load balancers
	// carry no token and their polling would drown the request log.
	root := http.NewServeMux()
	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		cfg.Health.Check(w, r)
	})
	root.Handle("/", handler)
	return root
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
