package declarest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/declarest/declarest/core/apierr"
	"github.com/declarest/declarest/core/convention"
	"github.com/declarest/declarest/core/registry"
	"github.com/declarest/declarest/metrics"
	"github.com/declarest/declarest/pkg/jsonapi"
)

// RoleResolver computes the caller's role from the request. It is
// invoked at most once per request; the result is memoized on the
// request context.
type RoleResolver func(r *http.Request) registry.Role

// TransactionFunc wraps a unit of work. The default implementation
// invokes fn directly; implementations providing atomicity must ensure
// that when fn returns an error no partial effect remains visible, and
// that the original error propagates unchanged after any rollback.
type TransactionFunc func(ctx context.Context, fn func() error) error

// ErrorHook is invoked exactly once per error before it is serialized.
type ErrorHook func(*apierr.Error)

// App is the declaration entry point and request dispatcher. Declare
// resources with Resource, then obtain the frozen handler with Handler.
type App struct {
	mux         *chi.Mux
	settings    *registry.Settings
	logger      zerolog.Logger
	resolveRole RoleResolver
	transaction TransactionFunc
	onError     ErrorHook
	serializer  Serializer
	collector   *metrics.Collector
	mounts      map[string]*resourceMount
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the application logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// WithSettings supplies pre-populated (for example YAML-loaded)
// settings instead of an empty table.
func WithSettings(s *registry.Settings) Option {
	return func(a *App) { a.settings = s }
}

// WithRoleResolver sets the per-request role computation.
func WithRoleResolver(fn RoleResolver) Option {
	return func(a *App) { a.resolveRole = fn }
}

// WithTransaction sets the transaction hook wrapped around mutating
// handler bodies that opt in via Context.Transaction.
func WithTransaction(fn TransactionFunc) Option {
	return func(a *App) { a.transaction = fn }
}

// WithErrorHook sets a hook invoked once per error before serialization.
func WithErrorHook(fn ErrorHook) Option {
	return func(a *App) { a.onError = fn }
}

// WithSerializer replaces the default document serializer.
func WithSerializer(s Serializer) Option {
	return func(a *App) { a.serializer = s }
}

// WithMetrics attaches a Prometheus collector to the request pipeline.
func WithMetrics(c *metrics.Collector) Option {
	return func(a *App) { a.collector = c }
}

// New creates an App ready for resource declaration.
func New(opts ...Option) *App {
	a := &App{
		mux:         chi.NewRouter(),
		settings:    registry.NewSettings(),
		logger:      zerolog.Nop(),
		resolveRole: func(*http.Request) registry.Role { return "" },
		transaction: func(ctx context.Context, fn func() error) error { return fn() },
		serializer:  DocumentSerializer{},
		mounts:      make(map[string]*resourceMount),
	}
	for _, opt := range opts {
		opt(a)
	}

	// Router misses still answer in the document format.
	a.mux.NotFound(a.fallback(apierr.NotFound("No route matched the request")))
	a.mux.MethodNotAllowed(a.fallback(apierr.MethodNotAllowed("")))

	return a
}

// fallback serializes a fixed error for requests the router itself
// rejects, outside any resource's lifecycle.
func (a *App) fallback(e *apierr.Error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jsonapi.WriteError(w, func(e *apierr.Error) {
			a.logger.Error().
				Int("status", e.Status).
				Str("code", e.Code()).
				Str("path", r.URL.Path).
				Msg(e.Message)
		}, e)
	}
}

// Settings exposes the role and sideload tables for programmatic
// population before freeze.
func (a *App) Settings() *registry.Settings {
	return a.settings
}

// Freeze makes the configuration immutable. Handler calls it
// implicitly; calling it earlier makes the freeze point explicit.
func (a *App) Freeze() {
	a.settings.Freeze()
}

// Handler freezes the configuration and returns the HTTP handler with
// all declared resources mounted.
func (a *App) Handler() http.Handler {
	a.Freeze()
	return a.mux
}

// Halt converts a numeric status into the matching typed error so that
// the failure flows through the common error-serialization path.
// Statuses outside 400-599 are coerced to 500.
func Halt(status int, message string) error {
	return apierr.FromStatus(status, message)
}

// serve wraps a dispatch chain into an http.HandlerFunc running the
// full request lifecycle: negotiation, lookup, guarded dispatch,
// serialization, and error normalization.
func (a *App) serve(m *resourceMount, needsID bool, ch *chain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		c := newContext(a, m, rec, r)
		err := a.runRequest(c, needsID, ch)
		if err != nil {
			a.writeError(c, err)
		}

		if a.collector != nil {
			a.collector.RequestsTotal.
				WithLabelValues(m.name, r.Method, rec.statusLabel()).Inc()
			a.collector.RequestDuration.
				WithLabelValues(m.name, r.Method).Observe(time.Since(start).Seconds())
		}
	}
}

// runRequest executes the lifecycle for one request. Any returned
// error is normalized and serialized by the caller.
func (a *App) runRequest(c *Context, needsID bool, ch *chain) (err error) {
	// The catch-all recovery boundary: no fault may escape as a raw
	// response, whatever its origin.
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().Interface("panic", r).
				Str("path", c.req.URL.Path).Msg("handler panicked")
			err = apierr.Internal("")
		}
	}()

	if !c.sideload {
		if err := negotiate(c); err != nil {
			return err
		}
	}

	if needsID {
		if err := resolveResource(c); err != nil {
			return err
		}
	}

	if err := ch.dispatch(c); err != nil {
		return err
	}

	return a.writeSuccess(c)
}

// writeError is the single recovery boundary: every failure is logged
// once, counted, and serialized as a JSON:API error document.
func (a *App) writeError(c *Context, err error) {
	e := apierr.From(err)

	jsonapi.WriteError(c.w, func(e *apierr.Error) {
		a.logger.Error().
			Int("status", e.Status).
			Str("code", e.Code()).
			Str("resource", c.resourceName).
			Str("path", c.req.URL.Path).
			Msg(e.Message)
		if a.collector != nil {
			a.collector.ErrorsTotal.
				WithLabelValues(strconv.Itoa(e.Status), e.Code()).Inc()
		}
		if a.onError != nil {
			a.onError(e)
		}
	}, e)
}

// writeSuccess serializes the handler's logical result. A nil result
// means no content.
func (a *App) writeSuccess(c *Context) error {
	if c.sideload {
		// Internal fetches return their result through the context;
		// nothing is written to the wire.
		return nil
	}

	if c.result == nil {
		jsonapi.WriteNoContent(c.w)
		return nil
	}

	doc, err := a.serializer.Success(c, c.result)
	if err != nil {
		return err
	}

	if c.location != "" {
		c.w.Header().Set("Location", c.location)
	}
	jsonapi.WriteDocument(c.w, c.status, doc)
	return nil
}

// canonicalName resolves a raw name the way the registrar does.
func canonicalName(raw string) string {
	return convention.Canonicalize(raw)
}

// statusRecorder captures the written status code for metrics labels.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) statusLabel() string {
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	return strconv.Itoa(status)
}
