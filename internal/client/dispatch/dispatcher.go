// Package dispatch performs API calls described by action descriptors and
// reports each call's lifecycle to a Sink: pending first, then exactly one of
// success or error. A 401/403 goes to the UnauthorizedHandler instead of the
// descriptor's error label.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spec-kit/diet-tracker/internal/client/action"
)

// TokenSource yields the stored bearer token, "" when absent.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// UnauthorizedHandler reacts to a 401/403 from any call.
type UnauthorizedHandler interface {
	Unauthorized(ctx context.Context, status int)
}

// Options configures a Dispatcher.
type Options struct {
	BaseURL      string
	HTTPClient   *http.Client
	Tokens       TokenSource
	Unauthorized UnauthorizedHandler
	Sink         Sink
	Logger       *zap.Logger
	// Observe, when set, sees every resolved dispatch.
	Observe func(Result)
}

// Dispatcher turns descriptors into HTTP calls.
type Dispatcher struct {
	baseURL      string
	client       *http.Client
	tokens       TokenSource
	unauthorized UnauthorizedHandler
	sink         Sink
	logger       *zap.Logger
	observe      func(Result)
}

func New(opts Options) *Dispatcher {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		client:       client,
		tokens:       opts.Tokens,
		unauthorized: opts.Unauthorized,
		sink:         opts.Sink,
		logger:       logger,
		observe:      opts.Observe,
	}
}

// Dispatch runs d to completion and returns its result.
func (d *Dispatcher) Dispatch(ctx context.Context, desc action.Descriptor) Result {
	id := d.start(desc)
	return d.finish(ctx, id, desc)
}

// Go signals pending for desc before returning, then performs the call in
// the background. The channel yields the result once and is closed.
func (d *Dispatcher) Go(ctx context.Context, desc action.Descriptor) <-chan Result {
	id := d.start(desc)
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		out <- d.finish(ctx, id, desc)
	}()
	return out
}

func (d *Dispatcher) start(desc action.Descriptor) uuid.UUID {
	id := uuid.New()
	if desc.OnStart.Valid() {
		d.emit(Event{DispatchID: id, Label: desc.OnStart, Phase: PhasePending})
	}
	return id
}

func (d *Dispatcher) finish(ctx context.Context, id uuid.UUID, desc action.Descriptor) Result {
	started := time.Now()
	res := d.call(ctx, id, desc)

	switch res.Outcome {
	case OutcomeSuccess:
		if desc.OnSuccess.Valid() {
			d.emit(Event{DispatchID: id, Label: desc.OnSuccess, Phase: PhaseSuccess, Payload: res.Payload})
		}
	case OutcomeUnauthorized:
		if d.unauthorized != nil {
			d.unauthorized.Unauthorized(ctx, res.Status)
		}
	case OutcomeError:
		if desc.OnError.Valid() {
			d.emit(Event{DispatchID: id, Label: desc.OnError, Phase: PhaseError, Payload: res.Payload, Err: res.Err})
		}
	}

	fields := []zap.Field{
		zap.String("dispatch_id", id.String()),
		zap.String("method", desc.Method),
		zap.String("url", desc.URL),
		zap.String("outcome", res.Outcome.String()),
		zap.Int("status", res.Status),
		zap.Duration("latency", time.Since(started)),
	}
	if res.Err != nil {
		fields = append(fields, zap.String("error", res.Err.Error()))
		d.logger.Warn("api call failed", fields...)
	} else {
		d.logger.Debug("api call succeeded", fields...)
	}

	if d.observe != nil {
		d.observe(res)
	}
	return res
}

func (d *Dispatcher) call(ctx context.Context, id uuid.UUID, desc action.Descriptor) Result {
	res := Result{DispatchID: id, Descriptor: desc}

	req, err := d.newRequest(ctx, desc)
	if err != nil {
		res.Outcome = OutcomeError
		res.Err = &Error{Kind: KindTransport, Message: "could not build request", Err: err}
		return res
	}

	resp, err := d.client.Do(req)
	if err != nil {
		res.Outcome = OutcomeError
		res.Err = &Error{Kind: KindTransport, Message: "request failed", Err: err}
		return res
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	res.Status = resp.StatusCode
	if err != nil {
		res.Outcome = OutcomeError
		res.Err = &Error{Kind: KindTransport, Status: resp.StatusCode, Message: "could not read response", Err: err}
		return res
	}
	if len(body) > 0 && json.Valid(body) {
		res.Payload = json.RawMessage(body)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		res.Outcome = OutcomeUnauthorized
		res.Err = &Error{Kind: kindForStatus(resp.StatusCode), Status: resp.StatusCode, Message: serverMessage(body, resp.StatusCode)}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		res.Outcome = OutcomeSuccess
	default:
		res.Outcome = OutcomeError
		res.Err = &Error{Kind: kindForStatus(resp.StatusCode), Status: resp.StatusCode, Message: serverMessage(body, resp.StatusCode)}
	}
	return res
}

func (d *Dispatcher) newRequest(ctx context.Context, desc action.Descriptor) (*http.Request, error) {
	var body io.Reader
	if desc.Body != nil {
		buf, err := json.Marshal(desc.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, desc.Method, d.baseURL+desc.URL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if d.tokens != nil {
		token, err := d.tokens.Token(ctx)
		if err != nil {
			d.logger.Warn("token slot unreadable, sending without credentials", zap.Error(err))
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (d *Dispatcher) emit(ev Event) {
	if d.sink != nil {
		d.sink.Apply(ev)
	}
}

func serverMessage(body []byte, status int) string {
	if msg := gjson.GetBytes(body, "message"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}
