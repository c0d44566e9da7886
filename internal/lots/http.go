// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lots

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ident"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/respond"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/pagination"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/query"

	requestutil "github.com/SamirJoseGil/360Lateral-sub000/internal/platform/request"
)

// Resolver returns the lot service bound to the request's session.
type Resolver func(request *http.Request) (*Service, error)

// Handler exposes lots to the portal.
type Handler struct {
	resolve Resolver
}

func NewHandler(resolve Resolver) *Handler {
	return &Handler{resolve: resolve}
}

// Routes returns the lot routes.
//
// # Endpoints
//   - GET  /      : Paginated list (?search=&status=)
//   - POST /      : Register a lot
//   - GET  /{id}  : One lot
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	service, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	values := request.URL.Query()
	params := pagination.FromRequest(request)
	filter := Filter{
		Search: query.String(values, "search"),
		Status: Status(query.String(values, "status")),
	}

	page, err := service.List(request.Context(), params, filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Results, page.Meta(params))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.RequiredParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	service, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	lot, err := service.Get(request.Context(), ident.ID(id))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, lot)
}

/*
Create registers a lot.

POST /api/v1/lots

Response:
  - 201: Lot
  - 400: Validation failure (name, CBML, area, stratum)
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	service, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	lot, err := service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, lot)
}
