// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package documents

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/apperr"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/constants"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/httpclient"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ident"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/validate"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/pagination"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/slice"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/textkey"
)

// Query selects documents for review.
type Query struct {
	Params pagination.Params
	Status Status
	LotID  ident.ID
	// Search narrows [Service.Grouped] to documents whose lot name or title
	// contains it, ignoring accents and case. [Service.List] ignores it.
	Search string
}

// Service talks to the backend's document validation endpoints.
type Service struct {
	client *httpclient.Client
	logger *slog.Logger
}

// NewService builds a document service. client must carry the session's tokens.
func NewService(client *httpclient.Client, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// List returns one backend page of documents.
func (service *Service) List(ctx context.Context, query Query) (*pagination.Page[Document], error) {
	if query.Status != "" {
		validator := &validate.Validator{}
		validator.OneOf(FieldStatus, string(query.Status),
			string(StatusPending), string(StatusValidated), string(StatusRejected))
		if err := validator.Err(); err != nil {
			return nil, err
		}
	}

	values := query.Params.Query()
	if query.Status != "" {
		values.Set(FieldStatus, string(query.Status))
	}
	if query.LotID != "" {
		values.Set("lote", query.LotID.String())
	}

	var page pagination.Page[Document]
	if err := service.client.Get(ctx, constants.PathDocumentList, &page, httpclient.WithQuery(values)); err != nil {
		return nil, err
	}
	return &page, nil
}

// Grouping is the set of lot groups built from every document of a query.
type Grouping struct {
	Groups []Group
	// Truncated is set when the page cap was reached before the last page.
	Truncated bool
}

/*
Grouped reads every backend page of query and groups the documents by lot.

Pages are read at the maximum size until the backend stops advertising a next
page, up to [constants.MaxDocumentGroupPages] pages.

Parameters:
  - ctx: context.Context
  - query: Query (Params is ignored, Search is applied locally)

Returns:
  - *Grouping
  - error: The first backend failure
*/
func (service *Service) Grouped(ctx context.Context, query Query) (*Grouping, error) {
	var collected []Document
	truncated := false

	for page := 1; ; page++ {
		if page > constants.MaxDocumentGroupPages {
			truncated = true
			break
		}

		query.Params = pagination.Params{Page: page, Limit: pagination.MaxLimit}
		result, err := service.List(ctx, query)
		if err != nil {
			return nil, err
		}

		collected = append(collected, result.Results...)
		if !result.HasNext() || len(result.Results) == 0 {
			break
		}
	}

	if truncated {
		service.logger.WarnContext(ctx, "document_groups_truncated",
			slog.Int("documents", len(collected)),
			slog.Int("max_pages", constants.MaxDocumentGroupPages),
		)
	}

	if search := strings.TrimSpace(query.Search); search != "" {
		collected = slice.Filter(collected, func(document Document) bool {
			return textkey.Contains(document.LotName, search) || textkey.Contains(document.Title, search)
		})
	}

	return &Grouping{Groups: GroupByLot(collected), Truncated: truncated}, nil
}

// Validate approves a document.
func (service *Service) Validate(ctx context.Context, id ident.ID, comments string) (*ActionResult, error) {
	return service.decide(ctx, id, ActionValidate, comments)
}

// Reject refuses a document. A comment explaining the rejection is required.
func (service *Service) Reject(ctx context.Context, id ident.ID, comments string) (*ActionResult, error) {
	if strings.TrimSpace(comments) == "" {
		return nil, validate.RequiredError(FieldComments, "A comment is required to reject a document")
	}
	return service.decide(ctx, id, ActionReject, comments)
}

func (service *Service) decide(ctx context.Context, id ident.ID, action Action, comments string) (*ActionResult, error) {
	if id == "" {
		return nil, apperr.NotFound("Document")
	}

	body := map[string]string{
		"action":      string(action),
		FieldComments: strings.TrimSpace(comments),
	}

	var result ActionResult
	path := fmt.Sprintf(constants.PathDocumentAction, url.PathEscape(id.String()))
	if err := service.client.Post(ctx, path, body, &result); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "document_decision_recorded",
		slog.String("document_id", id.String()),
		slog.String("action", string(action)),
	)
	return &result, nil
}
