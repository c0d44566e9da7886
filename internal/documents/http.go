// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package documents

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/constants"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ident"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/respond"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/pagination"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/query"

	requestutil "github.com/SamirJoseGil/360Lateral-sub000/internal/platform/request"
)

// Resolver returns the document service bound to the request's session.
type Resolver func(request *http.Request) (*Service, error)

// Handler exposes the validation workflow to the portal.
type Handler struct {
	resolve Resolver
}

func NewHandler(resolve Resolver) *Handler {
	return &Handler{resolve: resolve}
}

type decisionRequest struct {
	Comments string `json:"comments"`
}

// Routes returns the document routes.
//
// # Endpoints
//   - GET  /validation          : Documents under review (?status=&lot=&group=lot&search=)
//   - POST /{id}/validate       : Approve
//   - POST /{id}/reject         : Refuse (comments required)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/validation", handler.list)
	router.Post("/{id}/validate", handler.decide(ActionValidate))
	router.Post("/{id}/reject", handler.decide(ActionReject))

	return router
}

/*
List returns documents under review, either as the backend page or grouped
by lot with the groups paginated locally.

GET /api/v1/documents/validation

Response:
  - 200: []Document or []Group with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	service, err := handler.resolve(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	values := request.URL.Query()
	params := pagination.FromRequest(request)
	selection := Query{
		Params: params,
		Status: Status(query.String(values, "status")),
		LotID:  ident.ID(query.String(values, "lot")),
		Search: query.String(values, "search"),
	}

	if query.String(values, "group") == "lot" {
		grouping, err := service.Grouped(request.Context(), selection)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		if grouping.Truncated {
			writer.Header().Set(constants.HeaderXTruncated, "true")
		}
		window, meta := PaginateGroups(grouping.Groups, params)
		respond.Paginated(writer, window, meta)
		return
	}

	page, err := service.List(request.Context(), selection)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Results, page.Meta(params))
}

// decide records a validation decision for the {id} document.
func (handler *Handler) decide(action Action) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		var input decisionRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}

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

		var result *ActionResult
		if action == ActionReject {
			result, err = service.Reject(request.Context(), ident.ID(id), input.Comments)
		} else {
			result, err = service.Validate(request.Context(), ident.ID(id), input.Comments)
		}
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, result)
	}
}
