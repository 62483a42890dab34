// Package errors provides the service's error taxonomy and the translator that
// turns any failure surfaced while handling a request into a single HTTP
// status code and a uniform JSON body of the form
//
//	{"error": "<kind>", "message": "<text>", "detail": <string, list or null>}
//
// Handlers return typed *AppError values (or any other error); the translator
// runs once, at the outermost boundary, and is the only place an error becomes
// a response.
package errors
