package logger

import (
	"time"
)

// Field keys shared by the proxy, the server middleware and the CLI.
const (
	FieldService       = "service"
	FieldComponent     = "component"
	FieldTraceID       = "trace_id"
	FieldSpanID        = "span_id"
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
	FieldOperation     = "operation"
	FieldResource      = "resource"
	FieldMethod        = "method"
	FieldURI           = "uri"
	FieldStatus        = "status"
	FieldError         = "error"
	FieldDuration      = "duration_ms"
	FieldStrategy      = "strategy"
	FieldCodec         = "codec"
)

// Fields builds a field map from alternating key-value pairs. Non-string
// keys and a trailing odd value are dropped.
//
//	log.Debug("proxy call completed", logger.Fields(logger.FieldOperation, "get_by_id"))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ExchangeFields describes one HTTP exchange. status 0 means no response
// was received and is left out.
func ExchangeFields(method, uri string, status int, d time.Duration) map[string]interface{} {
	m := map[string]interface{}{
		FieldMethod:   method,
		FieldURI:      uri,
		FieldDuration: d.Milliseconds(),
	}
	if status != 0 {
		m[FieldStatus] = status
	}
	return m
}

// ErrorFields tags a failed operation.
func ErrorFields(op string, err error) map[string]interface{} {
	return MergeWithError(map[string]interface{}{FieldOperation: op}, err)
}

// MergeWithError sets the error field on fields, allocating when nil.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{}, 1)
	}
	if err != nil {
		fields[FieldError] = err.Error()
	}
	return fields
}
