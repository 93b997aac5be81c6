// Package authsdk is a Go client for the rolegate service. It exposes the
// wire types shared with the HTTP handlers, a Client for unauthenticated
// operations (register, login, refresh) and a Session for authenticated
// calls that transparently refreshes an expired access token.
package authsdk
