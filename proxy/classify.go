package proxy

import (
	"net/http"

	"github.com/kbukum/dataproxy/errors"
	"github.com/kbukum/dataproxy/transport"
)

// Kind is the classification of a response status.
type Kind int

const (
	KindSuccess Kind = iota
	KindBadRequest
	KindConflict
	KindNotFound
	KindNotImplemented
	KindTransportFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindBadRequest:
		return "bad_request"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindNotImplemented:
		return "not_implemented"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Outcome is a classified response.
type Outcome struct {
	Kind       Kind
	StatusCode int
	Status     string
	Body       []byte
}

// Classify maps a response to its Outcome. 400, 409, 404 and 501 are checked
// in that order; any other non-2xx status is a transport failure.
func Classify(resp *transport.Response) Outcome {
	o := Outcome{StatusCode: resp.StatusCode, Status: resp.Status, Body: resp.Body}
	switch {
	case resp.IsSuccess():
		o.Kind = KindSuccess
	case resp.StatusCode == http.StatusBadRequest:
		o.Kind = KindBadRequest
	case resp.StatusCode == http.StatusConflict:
		o.Kind = KindConflict
	case resp.StatusCode == http.StatusNotFound:
		o.Kind = KindNotFound
	case resp.StatusCode == http.StatusNotImplemented:
		o.Kind = KindNotImplemented
	default:
		o.Kind = KindTransportFailure
	}
	return o
}

// Err returns the error for the outcome, or nil on success. The formatter is
// applied to the body only for the four classified kinds.
func (o Outcome) Err(f ErrorFormatter) error {
	if f == nil {
		f = identityFormatter{}
	}
	switch o.Kind {
	case KindSuccess:
		return nil
	case KindBadRequest:
		return errors.Service(f.Format(string(o.Body)))
	case KindConflict:
		return errors.Concurrency(f.Format(string(o.Body)))
	case KindNotFound:
		return errors.NotFound(f.Format(string(o.Body)))
	case KindNotImplemented:
		return errors.NotImplemented(f.Format(string(o.Body)))
	default:
		return transport.NewStatusError(o.StatusCode, o.Status, o.Body)
	}
}
