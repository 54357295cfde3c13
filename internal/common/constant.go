// Package common contains shared constants and sentinel errors used across
// the Messagely server components.
package common

// AccessTokenHeaderName is the gRPC metadata key that carries the access
// token on authenticated calls.
const AccessTokenHeaderName = "access_token"

// AccessTokenQueryParam is the query parameter accepted by the HTTP API as an
// alternative to the Authorization header.
const AccessTokenQueryParam = "_token"
