package errors

// Kind identifies a variant of AppError.
type Kind int

// Application error variants.
const (
	// KindGeneric is the base application error.
	KindGeneric Kind = iota
	// KindServiceUnavailable signals a dependency or the service itself cannot serve.
	KindServiceUnavailable
	// KindResourceNotFound signals a requested resource does not exist.
	KindResourceNotFound
	// KindValidation signals application-level validation failed.
	KindValidation
)

var kindNames = map[Kind]string{
	KindGeneric:            "ApplicationError",
	KindServiceUnavailable: "ServiceUnavailableError",
	KindResourceNotFound:   "ResourceNotFoundError",
	KindValidation:         "ValidationError",
}

var defaultMessages = map[Kind]string{
	KindGeneric:            "An error occurred",
	KindServiceUnavailable: "Service is currently unavailable",
	KindResourceNotFound:   "Resource not found",
	KindValidation:         "Validation failed",
}

// Name returns the wire name used in the "error" field of a response body.
func (k Kind) Name() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindGeneric]
}

// String implements fmt.Stringer.
func (k Kind) String() string { return k.Name() }

// DefaultMessage returns the message used when a variant is built without one.
func (k Kind) DefaultMessage() string {
	if msg, ok := defaultMessages[k]; ok {
		return msg
	}
	return defaultMessages[KindGeneric]
}

// Wire names of failures that originate at the HTTP boundary rather than in
// handler code.
const (
	NameRequestValidation = "RequestValidationError"
	NameNotFound          = "NotFoundError"
	NameMethodNotAllowed  = "MethodNotAllowedError"
	NameInternal          = "InternalServerError"
)
