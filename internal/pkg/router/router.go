package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/jwt"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/uid"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/validator"
)

type errorResponse struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error,omitempty"`
}

type successResponse struct {
	Message string         `json:"message"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Handler is the application-style handler used by this router.
//
// It returns a response payload (that will be JSON encoded) or an error.
type Handler func(r *Request) (any, error)

// Config holds dependencies required to build a Router.
type Config struct {
	// UUID generates request correlation IDs.
	UUID uid.StringID
	// JWT validates and parses authentication tokens.
	JWT jwt.JWT
	// Instrument provides tracing and metrics helpers.
	Instrument instrument.Instrumentation
	// Maintenance lists route patterns answered with 503.
	Maintenance []string
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr     *httprouter.Router
	mws    []Middleware
	public map[string]map[string]struct{}
}

// NewRouter builds the default application router with standard middleware.
// Every route requires a bearer token unless registered through Public.
func NewRouter(cfg Config) *Router {
	if cfg.Instrument == nil {
		cfg.Instrument = instrument.NewNoop()
	}

	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "endpoint not found"}, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "method not allowed"}, http.StatusMethodNotAllowed)
		}),
	}

	ro := &Router{
		hr:     hr,
		public: make(map[string]map[string]struct{}),
	}
	ro.mws = []Middleware{
		middlewareRecoverer,
		middlewareIP,
		middlewareCorrelationID(cfg.UUID),
		middlewareObservability(cfg.Instrument),
		middlewareMaintenance(cfg.Maintenance),
		middlewareAuthentication(cfg.JWT, ro.public),
	}

	ro.Public(http.MethodGet, "/", func(*Request) (any, error) {
		return map[string]string{"name": "otpkeeper"}, nil
	})

	return ro
}

// Public registers an endpoint that skips authentication.
func (r *Router) Public(method, path string, h Handler, mws ...Middleware) {
	if r.public[method] == nil {
		r.public[method] = make(map[string]struct{})
	}
	r.public[method][path] = struct{}{}
	r.endpoint(method, path, h, mws...)
}

// GET registers a GET endpoint using the application Handler signature.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

// POST registers a POST endpoint using the application Handler signature.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

// DELETE registers a DELETE endpoint using the application Handler signature.
func (r *Router) DELETE(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodDelete, path, h, mws...)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	chain := append(append([]Middleware{}, r.mws...), mws...)
	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		resp, err := h(&Request{Request: re})
		if err != nil {
			if setter, ok := w.(interface{ SetError(error) }); ok {
				setter.SetError(err)
			}
			encodeError(re.Context(), w, err)
			return
		}
		encodeOK(re.Context(), w, resp)
	}), chain...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

func encodeError(ctx context.Context, w http.ResponseWriter, err error) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		slog.ErrorContext(ctx, "unhandled error", "error", err)
		writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		return
	}

	errResp := errorResponse{Message: gerr.Msg()}

	var errValidate validator.V10ValidationError
	if errors.As(err, &errValidate) {
		errResp.Error = errValidate.Values()
	} else if len(gerr.Fields()) > 0 {
		errResp.Error = gerr.Fields()
	}

	if gerr.Type() == goerror.TypeServer {
		slog.ErrorContext(ctx, "server error", "error", gerr.Unwrap())
	}

	writeJSON(w, errResp, gerr.StatusCode())
}

func encodeOK(_ context.Context, w http.ResponseWriter, resp any) {
	code := http.StatusOK
	if sc, ok := resp.(interface {
		StatusCode() int
	}); ok {
		code = sc.StatusCode()
	}

	if code == http.StatusNoContent || resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	msg := "request has been successfully"
	if m, ok := resp.(interface {
		Message() string
	}); ok {
		msg = m.Message()
	}

	var meta map[string]any
	if m, ok := resp.(interface {
		Meta() map[string]any
	}); ok {
		meta = m.Meta()
	}

	writeJSON(w, successResponse{Message: msg, Data: resp, Meta: meta}, code)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
