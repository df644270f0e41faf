package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/2beens/chizen/internal/telemetry/metrics"
	"github.com/2beens/chizen/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// unauthorizedIndicator in a transport error message makes the failure terminal.
const unauthorizedIndicator = "unauthorized"

// Executor turns a RequestSpec into exactly one Result. It holds only
// configuration fixed at construction and is safe for concurrent use.
type Executor struct {
	baseURL   string
	transport Transport
	sessions  SessionProvider
	policy    RetryPolicy
	metrics   *metrics.Manager
	sleep     func(ctx context.Context, d time.Duration) error
}

type Option func(e *Executor)

func WithTransport(transport Transport) Option {
	return func(e *Executor) {
		if transport != nil {
			e.transport = transport
		}
	}
}

func WithSessionProvider(provider SessionProvider) Option {
	return func(e *Executor) {
		if provider != nil {
			e.sessions = provider
		}
	}
}

// WithRetryPolicy replaces the default policy. A non-positive AttemptTimeout
// keeps the default one.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(e *Executor) {
		if policy.AttemptTimeout <= 0 {
			policy.AttemptTimeout = DefaultAttemptTimeout
		}
		e.policy = policy
	}
}

func WithMetrics(metricsManager *metrics.Manager) Option {
	return func(e *Executor) {
		e.metrics = metricsManager
	}
}

// WithSleep replaces the backoff wait, mostly for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Executor) {
		if sleep != nil {
			e.sleep = sleep
		}
	}
}

func New(baseURL string, opts ...Option) *Executor {
	e := &Executor{
		baseURL:  strings.TrimRight(baseURL, "/"),
		sessions: noSession{},
		policy:   DefaultRetryPolicy(),
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.transport == nil {
		e.transport = NewHTTPTransport(nil)
	}
	return e
}

func (e *Executor) BaseURL() string {
	return e.baseURL
}

func (e *Executor) Policy() RetryPolicy {
	return e.policy
}

// ExecuteRaw runs the call and keeps the successful body as raw JSON.
func (e *Executor) ExecuteRaw(ctx context.Context, spec RequestSpec) Result[json.RawMessage] {
	return Execute[json.RawMessage](ctx, e, spec)
}

// Execute performs one logical call. Transport failures are retried with
// backoff unless they are timeouts or authorization failures; any HTTP
// response ends the call. It never panics and never returns a Go error.
func Execute[T any](ctx context.Context, e *Executor, spec RequestSpec) (result Result[T]) {
	method := spec.method()
	target := e.baseURL + spec.Path
	start := time.Now()
	attempts := 0

	ctx, span := tracing.GlobalTracer.Start(ctx, "apiclient.execute")
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("apiclient.path", spec.Path),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("api client: %s %s: recovered from panic: %v", method, spec.Path, r)
			result = Failure[T](newErrorInfo(KindTransport, fmt.Sprintf("%v", r), nil))
		}
		var err error
		if !result.OK {
			result.Error.Attempts = attempts
			err = result.Error
		}
		e.observe(method, result.Error, attempts, time.Since(start))
		span.SetAttributes(attribute.Int("apiclient.attempts", attempts))
		tracing.EndSpanWithErrCheck(span, err)
	}()

	for attempt := 0; attempt < e.policy.MaxAttempts; attempt++ {
		attempts++
		span.AddEvent("attempt", trace.WithAttributes(attribute.Int("attempt", attempt)))

		res, err := attemptOnce[T](ctx, e, spec, method, target)
		if err == nil {
			return res
		}

		if info := e.terminalFailure(ctx, err); info != nil {
			log.Debugf("api client: %s %s: terminal failure on attempt %d: %s", method, spec.Path, attempt, err)
			return Failure[T](info)
		}

		if attempt == e.policy.MaxAttempts-1 {
			log.Debugf("api client: %s %s: giving up after %d attempts: %s", method, spec.Path, attempts, err)
			return Failure[T](newErrorInfo(KindTransport, err.Error(), err))
		}

		delay := e.policy.backoff(attempt)
		log.Warnf("api client: %s %s: attempt %d failed, retrying in %s: %s", method, spec.Path, attempt, delay, err)
		e.countRetry(method)
		if sleepErr := e.sleep(ctx, delay); sleepErr != nil {
			return Failure[T](newErrorInfo(KindTransport, sleepErr.Error(), sleepErr))
		}
	}

	return Failure[T](newErrorInfo(KindTransport, MsgRetriesExhausted, nil))
}

// attemptOnce runs a single physical attempt under its own timeout. A nil
// error means the result is final: a response was received or the request
// could not be built.
func attemptOnce[T any](ctx context.Context, e *Executor, spec RequestSpec, method, target string) (Result[T], error) {
	// the session lookup counts against the attempt budget too
	attemptCtx, cancel := context.WithTimeout(ctx, e.policy.AttemptTimeout)
	defer cancel()

	req, err := e.newRequest(attemptCtx, spec, method, target)
	if err != nil {
		return Failure[T](newErrorInfo(KindRequest, err.Error(), err)), nil
	}
	if err := attemptCtx.Err(); err != nil {
		return Result[T]{}, fmt.Errorf("prepare request: %w", err)
	}

	resp, err := e.transport.Send(attemptCtx, req.WithContext(attemptCtx))
	if err != nil {
		if resp != nil {
			drainAndClose(resp.Body)
		}
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return Result[T]{}, err
	}
	if resp == nil {
		return Result[T]{}, errors.New("transport returned no response")
	}

	res := normalize[T](resp)
	if !res.OK && errors.Is(res.Error.cause, errReadBody) && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		// body read cut by the attempt deadline
		info := newErrorInfo(KindTimeout, MsgTimeout, res.Error.cause)
		info.StatusCode = res.Error.StatusCode
		return Failure[T](info), nil
	}
	return res, nil
}

func (e *Executor) newRequest(ctx context.Context, spec RequestSpec, method, target string) (*http.Request, error) {
	var body io.Reader
	if hasBody(spec.Body) {
		payload, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, ok, err := e.sessions.CurrentToken(ctx)
	if err != nil {
		log.Warnf("api client: get session token: %s", err)
	} else if ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// hasBody reports whether v carries a payload. A typed nil pointer, map,
// slice or interface counts as no body.
func hasBody(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// terminalFailure returns the final error for transport failures that must
// not be retried, nil when the attempt may be retried.
func (e *Executor) terminalFailure(ctx context.Context, err error) *ErrorInfo {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return newErrorInfo(KindTimeout, MsgTimeout, err)
	case ctx.Err() != nil:
		return newErrorInfo(KindTransport, ctx.Err().Error(), err)
	case strings.Contains(transportMessage(err), unauthorizedIndicator):
		return newErrorInfo(KindUnauthorized, err.Error(), err)
	default:
		return nil
	}
}

// transportMessage strips the method and URL net/http adds, so a path
// cannot influence classification.
func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}

func (e *Executor) observe(method string, info *ErrorInfo, attempts int, took time.Duration) {
	if e.metrics == nil {
		return
	}
	outcome := "ok"
	if info != nil {
		outcome = string(info.Kind)
	}
	e.metrics.CounterClientCalls.WithLabelValues(method, outcome).Inc()
	e.metrics.CounterClientAttempts.WithLabelValues(method).Add(float64(attempts))
	e.metrics.HistogramClientCallDuration.WithLabelValues(method, outcome).Observe(took.Seconds())
}

func (e *Executor) countRetry(method string) {
	if e.metrics == nil {
		return
	}
	e.metrics.CounterClientRetries.WithLabelValues(method).Inc()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
