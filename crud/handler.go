package crud

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	j "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/reoring/shapekit"
)

// Option configures a Handler.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for service failures. The default is a
// no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Handler serves one entity. Routes mirror the generated controller:
//
//	GET    /        list (page, pageSize query parameters)
//	GET    /{id}    fetch
//	POST   /        create
//	PUT    /{id}    partial update
//	DELETE /{id}    delete, 204 without body
type Handler[T, C, U any] struct {
	schema  shapekit.EntitySchema
	service Service[T, C, U]
	create  shapekit.RecordRule
	update  shapekit.RecordRule
	logger  *zap.Logger
}

// NewHandler validates schema and binds it to service.
func NewHandler[T, C, U any](schema shapekit.EntitySchema, service Service[T, C, U], opts ...Option) (*Handler[T, C, U], error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	// Request bodies also reject optional fields of the wrong kind.
	create := schema.Rule()
	create.StrictOptional = true
	return &Handler[T, C, U]{
		schema:  schema,
		service: service,
		create:  create,
		update:  create.Optional(),
		logger:  o.logger.With(zap.String("entity", schema.Name)),
	}, nil
}

// Routes returns a router with the five handlers mounted at its root.
func (h *Handler[T, C, U]) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetAll)
	r.With(ValidateBody(h.create)).Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetByID)
		r.With(ValidateBody(h.update)).Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
	return r
}

// Mount attaches Routes under the schema's resource path.
func (h *Handler[T, C, U]) Mount(r chi.Router) {
	r.Mount("/"+h.schema.ResourcePath(), h.Routes())
}

func (h *Handler[T, C, U]) GetAll(w http.ResponseWriter, r *http.Request) {
	opts := PageOptions{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "pageSize"),
	}.Normalize()
	page, err := h.service.FindAll(r.Context(), opts)
	if err != nil {
		h.fail(w, "find_all", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler[T, C, U]) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.service.FindByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) || (err == nil && item == nil) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.fail(w, "find_by_id", err, zap.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, Response[T]{Data: *item})
}

func (h *Handler[T, C, U]) Create(w http.ResponseWriter, r *http.Request) {
	var input C
	if !h.bind(w, r, &input) {
		return
	}
	item, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.fail(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, Response[T]{Data: item, Message: h.schema.Name + " created"})
}

func (h *Handler[T, C, U]) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var input U
	if !h.bind(w, r, &input) {
		return
	}
	item, err := h.service.Update(r.Context(), id, input)
	if errors.Is(err, ErrNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.fail(w, "update", err, zap.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, Response[T]{Data: item, Message: h.schema.Name + " updated"})
}

func (h *Handler[T, C, U]) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.service.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.fail(w, "delete", err, zap.String("id", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// bind unmarshals the body left by ValidateBody into dst, answering 400
// itself when that fails.
func (h *Handler[T, C, U]) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	b, ok := BodyFromContext(r.Context())
	if !ok {
		h.logger.Error("handler mounted without ValidateBody")
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return false
	}
	if err := j.Unmarshal(b.Raw, dst); err != nil {
		h.logger.Debug("request rejected", zap.Error(err))
		writeMessage(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler[T, C, U]) notFound(w http.ResponseWriter) {
	writeMessage(w, http.StatusNotFound, h.schema.Name+" not found")
}

func (h *Handler[T, C, U]) fail(w http.ResponseWriter, op string, err error, fields ...zap.Field) {
	h.logger.Error("service failed", append(fields, zap.String("op", op), zap.Error(err))...)
	writeMessage(w, http.StatusInternalServerError, "internal error")
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = j.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
