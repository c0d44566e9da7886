// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/respond"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/pagination"

	requestutil "github.com/SamirJoseGil/360Lateral-sub000/internal/platform/request"
)

// Resolver returns the user service bound to the request's session.
type Resolver func(request *http.Request) (*Service, error)

// Handler exposes user management to the portal.
type Handler struct {
	resolve Resolver
}

// NewHandler constructs a new [Handler].
func NewHandler(resolve Resolver) *Handler {
	return &Handler{resolve: resolve}
}

// Routes returns the user management routes.
//
// # Endpoints
//   - GET    /      : Paginated list (admins)
//   - GET    /{id}  : One account
//   - PUT    /{id}  : Partial update, filtered by capabilities
//   - DELETE /{id}  : Remove an account (admins, never self)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Patch("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	service, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	page, err := service.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Results, page.Meta(params))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	service, id, err := handler.target(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Update applies a partial update to an account.

PUT /api/v1/users/{id}

Request:
  - Body: Patch

Response:
  - 200: User
  - 400: Validation failure
  - 403: Not allowed to edit this account
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	service, id, err := handler.target(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := service.Update(request.Context(), id, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	service, id, err := handler.target(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// target resolves the service and the {id} path parameter.
func (handler *Handler) target(request *http.Request) (*Service, UserID, error) {
	id, err := requestutil.RequiredParam(request, "id")
	if err != nil {
		return nil, "", err
	}

	service, err := handler.resolve(request)
	if err != nil {
		return nil, "", err
	}

	return service, UserID(id), nil
}
