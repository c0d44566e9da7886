// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/respond"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/sec"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/account"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/query"

	requestutil "github.com/SamirJoseGil/360Lateral-sub000/internal/platform/request"
)

// # Definitions & Constructors

// Resolver returns the session manager bound to the request's browser session.
type Resolver func(request *http.Request) (*Service, error)

// Rotator gives the request's browser a new session id once it signed in.
type Rotator func(writer http.ResponseWriter, request *http.Request) error

// Handler implements the portal's authentication endpoints.
//
// # Scope
//
// The browser never sees backend tokens. They stay in the session store and
// the browser only holds the opaque session cookie, which is replaced on
// every successful sign-in.
type Handler struct {
	resolve Resolver
	rotate  Rotator
}

// NewHandler constructs a new [Handler].
func NewHandler(resolve Resolver, rotate Rotator) *Handler {
	return &Handler{resolve: resolve, rotate: rotate}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login    : Authenticates against the backend.
//   - POST /register : Creates an account.
//   - POST /logout   : Ends the session (idempotent).
//   - GET  /me       : Current profile (?refresh=true bypasses the cache).
//   - GET  /session  : Authentication status and capabilities.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/register", handler.register)
	router.Post("/logout", handler.logout)
	router.Get("/me", handler.me)
	router.Get("/session", handler.status)

	return router
}

// # Request Payloads

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
}

type sessionStatus struct {
	Authenticated bool            `json:"authenticated"`
	User          *account.User   `json:"user,omitempty"`
	Permissions   sec.Permissions `json:"permissions"`
}

/*
Login authenticates the session.

POST /api/v1/auth/login

Request:
  - Body: Credentials (email, password)

Response:
  - 200: Result: user and dashboard redirect, with a new session cookie
  - 400: Validation failure
  - 401: Credentials rejected by the backend
  - 429: Too many failed attempts for this email
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input Credentials
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	service, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := service.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.rotate(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
Register creates an account and, when the backend allows it, signs it in.

POST /api/v1/auth/register

Response:
  - 201: Result
  - 400: Validation failure (local or backend field errors)
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Unknown roles pass through verbatim so validation can name them.
	role, err := sec.ParseRole(input.Role)
	if err != nil {
		role = sec.Role(input.Role)
	}

	service, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := service.Register(request.Context(), RegisterInput{
		Email:           input.Email,
		Password:        input.Password,
		PasswordConfirm: input.PasswordConfirm,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Phone:           input.Phone,
		Role:            role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if result.Authenticated {
		if err := handler.rotate(writer, request); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	respond.Created(writer, result)
}

/*
Logout terminates the session.

POST /api/v1/auth/logout

Response:
  - 204: No Content (also when there was no session)
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	service, err := handler.resolve(request)
	if err != nil {
		respond.NoContent(writer)
		return
	}

	if err := service.Logout(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Me returns the authenticated profile.

GET /api/v1/auth/me

Response:
  - 200: User
  - 401: No usable session
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	service, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	refresh := query.Bool(request.URL.Query(), "refresh")

	var user *account.User
	if refresh {
		user, err = service.Profile(request.Context())
	} else {
		user, err = service.CurrentUser(request.Context())
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// status reports whether the session is authenticated, without a backend call.
func (handler *Handler) status(writer http.ResponseWriter, request *http.Request) {
	service, err := handler.resolve(request)
	if err != nil || !service.IsAuthenticated(request.Context()) {
		respond.OK(writer, sessionStatus{})
		return
	}

	user := service.tokens.CachedUser(request.Context())
	status := sessionStatus{Authenticated: true, User: user}
	if user != nil {
		status.Permissions = user.Permissions()
	}

	respond.OK(writer, status)
}
