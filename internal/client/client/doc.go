// Package client contains the client-side building blocks for talking to the
// recipe REST API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): account
//     creation, token issue, profile read/replace/patch, recipe CRUD with image
//     upload, and tag/ingredient management.
//  2. A concrete HTTP implementation (see HTTPClient) that injects the
//     "Authorization: Token <token>" header, stamps every request with an
//     X-Request-ID and maps failures to typed errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError carrying the status code and the
// decoded field error body. Transport failures wrap ErrUnavailable. Use
// errors.Is with ErrUnavailable, ErrUnauthorized or ErrNotFound, and
// errors.As with *APIError.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept context.Context
// and honor cancellation.
package client
