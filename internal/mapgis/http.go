// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mapgis

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/respond"

	requestutil "github.com/SamirJoseGil/360Lateral-sub000/internal/platform/request"
)

// Resolver returns the lookup service bound to the request's session.
type Resolver func(request *http.Request) (*Service, error)

type Handler struct {
	resolve Resolver
}

func NewHandler(resolve Resolver) *Handler {
	return &Handler{resolve: resolve}
}

// Routes returns the MapGIS routes.
//
// # Endpoints
//   - GET /cbml/{cbml} : Parcel data for a cadastral code
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/cbml/{cbml}", handler.lookup)
	return router
}

func (handler *Handler) lookup(writer http.ResponseWriter, request *http.Request) {
	cbml, err := requestutil.RequiredParam(request, FieldCBML)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	service, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := service.LookupCBML(request.Context(), cbml)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
