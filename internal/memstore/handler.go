package memstore

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"checklist-cli/internal/model"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter serves the task store contract:
//
//	POST /users/{name}            → CreateUser
//	GET  /users/{name}            → UserTasks
//	GET  /names                   → Names
//	GET  /tasks/{id}              → Task
//	POST /tasks/{id}?input={0|1}  → SetChecked
func NewRouter(s *Store, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handler{store: s}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(withRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)

	r.Get("/names", h.names)
	r.Route("/users/{name}", func(r chi.Router) {
		r.Get("/", h.userTasks)
		r.Post("/", h.createUser)
	})
	r.Route("/tasks/{id}", func(r chi.Router) {
		r.Get("/", h.task)
		r.Post("/", h.setChecked)
	})
	return r
}

type handler struct {
	store *Store
}

func (h *handler) names(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"names": h.store.Names()})
}

func (h *handler) createUser(w http.ResponseWriter, r *http.Request) {
	created, err := h.store.CreateUser(pathParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	writeJSON(w, code, map[string]any{"created": created})
}

func (h *handler) userTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.UserTasks(pathParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (h *handler) task(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.Task(model.TaskID(pathParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handler) setChecked(w http.ResponseWriter, r *http.Request) {
	var checked bool
	switch r.URL.Query().Get("input") {
	case "1":
		checked = true
	case "0":
		checked = false
	default:
		http.Error(w, "input must be 0 or 1", http.StatusBadRequest)
		return
	}
	t, err := h.store.SetChecked(model.TaskID(pathParam(r, "id")), checked)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// pathParam unescapes a route parameter; chi matches on the raw path when one is set.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrTaskNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrEmptyName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// withRequestLogging logs one line per request after it completes.
func withRequestLogging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("dur", time.Since(start)),
				zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
			)
		})
	}
}
