// Package clock abstracts wall-clock time behind a one-method interface.
//
// Code that needs "now" takes a Clocker instead of calling time.Now directly,
// so tests can pin time to a fixed instant. The one-time-code engine and the
// token issuer both depend on this.
package clock
