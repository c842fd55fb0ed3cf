package dispatch

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/spec-kit/diet-tracker/internal/client/action"
)

// Phase is the lifecycle stage an event reports.
type Phase int

const (
	PhasePending Phase = iota
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one lifecycle transition delivered to a Sink.
type Event struct {
	DispatchID uuid.UUID
	Label      action.Label
	Phase      Phase
	Payload    json.RawMessage
	Err        *Error
}

// Sink consumes lifecycle events. The client state store implements it.
type Sink interface {
	Apply(Event)
}

// Outcome is how a dispatch terminated.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeError
	OutcomeUnauthorized
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeError:
		return "error"
	case OutcomeUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Result summarizes one dispatch once it has resolved.
type Result struct {
	DispatchID uuid.UUID
	Descriptor action.Descriptor
	Outcome    Outcome
	Status     int
	Payload    json.RawMessage
	Err        *Error
}

// OK reports whether the dispatch resolved successfully.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Kind classifies a failed call.
type Kind string

const (
	KindTransport    Kind = "transport"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindServer       Kind = "server"
	KindOther        Kind = "other"
)

// Error carries a failed call's status and server-supplied message.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= http.StatusInternalServerError:
		return KindServer
	default:
		return KindOther
	}
}
