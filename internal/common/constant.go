package common

// Header names shared by the HTTP client and catalogd middleware.
const (
	// AuthorizationHeader carries "Bearer <access token>".
	AuthorizationHeader = "Authorization"

	// BearerPrefix precedes the access token in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// AdminAPIKeyHeader guards the admin catalog endpoints.
	AdminAPIKeyHeader = "X-API-Key"
)
