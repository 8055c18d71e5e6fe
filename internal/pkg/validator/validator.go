// Package validator wraps request-struct validation behind a one-method
// interface so usecases stay decoupled from the concrete library.
package validator

// Validator validates a tagged struct and returns nil when it passes.
type Validator interface {
	Validate(data any) error
}
