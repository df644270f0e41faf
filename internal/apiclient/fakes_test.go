package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type fakeStep struct {
	status int
	body   string
	err    error
	block  bool
}

func respond(status int, body string) fakeStep {
	return fakeStep{status: status, body: body}
}

func fail(err error) fakeStep {
	return fakeStep{err: err}
}

func hang() fakeStep {
	return fakeStep{block: true}
}

type recordedRequest struct {
	method  string
	url     string
	header  http.Header
	body    []byte
	hasBody bool
}

// fakeTransport plays its steps in order, repeating the last one.
type fakeTransport struct {
	mu       sync.Mutex
	steps    []fakeStep
	requests []recordedRequest
}

func newFakeTransport(steps ...fakeStep) *fakeTransport {
	return &fakeTransport{steps: steps}
}

func (f *fakeTransport) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	rec := recordedRequest{
		method: req.Method,
		url:    req.URL.String(),
		header: req.Header.Clone(),
	}
	if req.Body != nil {
		rec.hasBody = true
		rec.body, _ = io.ReadAll(req.Body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	idx := len(f.requests) - 1
	if idx >= len(f.steps) {
		idx = len(f.steps) - 1
	}
	step := f.steps[idx]
	f.mu.Unlock()

	if step.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if step.err != nil {
		return nil, step.err
	}
	return &http.Response{
		StatusCode: step.status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(step.body)),
		Request:    req,
	}, nil
}

func (f *fakeTransport) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return nil
}

func (s *recordingSleeper) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

// countingBody counts how many times it gets serialized.
type countingBody struct {
	calls *atomic.Int32
	Name  string
}

func (b countingBody) MarshalJSON() ([]byte, error) {
	b.calls.Add(1)
	return json.Marshal(map[string]string{"name": b.Name})
}

type progress struct {
	CurrentStreak int `json:"current_streak"`
	TotalXP       int `json:"total_xp"`
	Level         int `json:"level"`
}
