package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/kbukum/demoservice/logger"
	"github.com/kbukum/demoservice/observability"
)

const (
	messageRequestValidation = "Invalid request data"
	messageNotFound          = "Endpoint not found"
	messageMethodNotAllowed  = "Method not allowed"
	messageInternal          = "An internal error occurred"
)

var kindStatus = map[Kind]int{
	KindGeneric:            http.StatusInternalServerError,
	KindServiceUnavailable: http.StatusServiceUnavailable,
	KindResourceNotFound:   http.StatusNotFound,
	KindValidation:         http.StatusUnprocessableEntity,
}

type severity int

const (
	severityWarn severity = iota
	severityError
)

// Translator maps failures to (status, body) pairs. It is safe for concurrent
// use; all fields are read-only after construction.
type Translator struct {
	// Debug exposes unexpected fault descriptions in the response detail.
	Debug bool
	// Log receives exactly one record per translation. Nil uses the global logger.
	Log *logger.Logger
	// Metrics, when set, counts translated errors by wire name.
	Metrics *observability.Metrics
	// OnFault, when set, is called for unexpected faults (e.g. error reporting).
	OnFault func(ctx context.Context, err error)
}

// NewTranslator creates a translator with the given debug flag and logger.
func NewTranslator(debug bool, log *logger.Logger) *Translator {
	return &Translator{Debug: debug, Log: log}
}

// Translate produces the status code and body for err and logs it. It never
// panics: a fault during translation yields a generic 500 with no detail.
func (t *Translator) Translate(ctx context.Context, err error) (status int, body ErrorResponse) {
	defer func() {
		if r := recover(); r != nil {
			status, body = http.StatusInternalServerError, internalResponse(nil)
		}
	}()

	if err == nil {
		err = stderrors.New("unknown error")
	}

	status, body, sev, msg := t.classify(err)
	t.log(ctx, sev, msg, body, err)

	if t.Metrics != nil {
		t.Metrics.RecordError(ctx, body.Error)
	}
	if body.Error == NameInternal && t.OnFault != nil {
		t.OnFault(ctx, err)
	}
	return status, body
}

func (t *Translator) classify(err error) (int, ErrorResponse, severity, string) {
	var (
		appErr    *AppError
		reqErr    *RequestValidationError
		routeErr  *RouteNotFoundError
		methodErr *MethodNotAllowedError
	)

	switch {
	case stderrors.As(err, &appErr):
		status, ok := kindStatus[appErr.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		sev, msg := severityError, "Application error"
		switch appErr.Kind {
		case KindServiceUnavailable:
			msg = "Service unavailable"
		case KindResourceNotFound:
			sev, msg = severityWarn, "Resource not found"
		case KindValidation:
			sev, msg = severityWarn, "Validation error"
		}
		return status, appErr.ToResponse(), sev, msg

	case stderrors.As(err, &reqErr):
		fields := reqErr.Fields
		if fields == nil {
			fields = []FieldError{}
		}
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:   NameRequestValidation,
			Message: messageRequestValidation,
			Detail:  fields,
		}, severityWarn, "Request validation error"

	case stderrors.As(err, &routeErr):
		return http.StatusNotFound, ErrorResponse{
			Error:   NameNotFound,
			Message: messageNotFound,
			Detail:  fmt.Sprintf("The requested endpoint %s does not exist", routeErr.Path),
		}, severityWarn, "Endpoint not found"

	case stderrors.As(err, &methodErr):
		return http.StatusMethodNotAllowed, ErrorResponse{
			Error:   NameMethodNotAllowed,
			Message: messageMethodNotAllowed,
			Detail:  fmt.Sprintf("Method %s is not allowed for %s", methodErr.Method, methodErr.Path),
		}, severityWarn, "Method not allowed"
	}

	var detail error
	if t.Debug {
		detail = err
	}
	return http.StatusInternalServerError, internalResponse(detail), severityError, "Internal server error"
}

func (t *Translator) log(ctx context.Context, sev severity, msg string, body ErrorResponse, err error) {
	log := t.Log
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithContext(ctx)

	fields := map[string]interface{}{
		"error":   body.Error,
		"message": body.Message,
	}
	if body.Detail != nil {
		fields["detail"] = body.Detail
	}
	if body.Error == NameInternal {
		fields["fault"] = err.Error()
	}

	if sev == severityError {
		log.Error(msg, fields)
		return
	}
	log.Warn(msg, fields)
}

func internalResponse(fault error) ErrorResponse {
	resp := ErrorResponse{Error: NameInternal, Message: messageInternal}
	if fault != nil {
		resp.Detail = fault.Error()
	}
	return resp
}
