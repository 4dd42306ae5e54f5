// Package common contains shared constants and sentinel errors used across
// recipebook components.
package common

const (
	// AuthHeaderName carries the session token on authenticated API requests.
	AuthHeaderName = "Authorization"

	// TokenScheme prefixes the token value in AuthHeaderName.
	TokenScheme = "Token"

	// RequestIDHeaderName is attached to every outbound API request.
	RequestIDHeaderName = "X-Request-ID"

	// TokenMetadataKey is the single durable storage key holding the token.
	TokenMetadataKey = "token"

	// MinPasswordLength is the shortest password accepted by the API.
	MinPasswordLength = 6
)
