package common

// AuthHeaderName is the HTTP header carrying the access token on requests
// to the ingestion service.
const AuthHeaderName = "Authorization"

// BearerPrefix precedes the token value in AuthHeaderName.
const BearerPrefix = "Bearer "
