// Package errs defines the error types callers branch on.
//
// Repository failures carry a Kind (not found, conflict, store failure) so
// callers can switch on it without matching messages. HTTPError gives an
// upstream request layer a consistent response shape for those kinds.
package errs
