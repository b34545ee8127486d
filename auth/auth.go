// Package auth is the boundary to the authentication collaborator. The
// core only ever asks "who is the current user"; any provider failure maps
// to a clean not-authenticated outcome, never an unhandled fault.
package auth

import (
	"errors"
	"net/http"

	"cartotaco/models"
)

// ErrNotAuthenticated is returned when no user can be established for a
// request. Handlers translate it to 401.
var ErrNotAuthenticated = errors.New("not authenticated")

// Provider resolves the user behind a request.
type Provider interface {
	CurrentUser(r *http.Request) (*models.User, error)
}

// Header names populated by the authenticating gateway in front of this
// service.
const (
	userIDHeader    = "X-User-Id"
	userEmailHeader = "X-User-Email"
)

// HeaderProvider trusts identity headers injected by an upstream gateway
// that has already validated the session.
type HeaderProvider struct{}

// CurrentUser reads the gateway identity headers.
func (HeaderProvider) CurrentUser(r *http.Request) (*models.User, error) {
	id := r.Header.Get(userIDHeader)
	if id == "" {
		return nil, ErrNotAuthenticated
	}
	return &models.User{ID: id, Email: r.Header.Get(userEmailHeader)}, nil
}
