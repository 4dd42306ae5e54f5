// Package session owns the authentication state of the CLI: the current
// user, the bearer token and the flags views render from.
//
// A single Store is built at startup and handed to every view. Operations
// validate their input, issue at most one account request, apply the
// outcome to the state and notify subscribers with a snapshot. Failures are
// returned as *ValidationFailure, *APIFailure or *TransportFailure.
package session
