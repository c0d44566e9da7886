// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lots

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/constants"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/httpclient"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ident"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/validate"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/pagination"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/textkey"
)

// Service reads and registers lots through the backend.
type Service struct {
	client *httpclient.Client
	logger *slog.Logger
}

// NewService builds a lot service. client must carry the session's tokens.
func NewService(client *httpclient.Client, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

/*
List returns one page of lots visible to the session.

Parameters:
  - ctx: context.Context
  - params: pagination.Params
  - filter: Filter (search and status are applied by the backend)

Returns:
  - *pagination.Page[Lot]: results sorted by accent-insensitive name
  - error
*/
func (service *Service) List(ctx context.Context, params pagination.Params, filter Filter) (*pagination.Page[Lot], error) {
	values := params.Query()
	if search := strings.TrimSpace(filter.Search); search != "" {
		values.Set("search", search)
	}
	if filter.Status != "" {
		values.Set("status", string(filter.Status))
	}

	var page pagination.Page[Lot]
	if err := service.client.Get(ctx, constants.PathLots, &page, httpclient.WithQuery(values)); err != nil {
		return nil, err
	}

	sort.SliceStable(page.Results, func(i, j int) bool {
		return textkey.Less(page.Results[i].Name, page.Results[j].Name)
	})

	return &page, nil
}

// Get returns one lot.
func (service *Service) Get(ctx context.Context, id ident.ID) (*Lot, error) {
	var lot Lot
	if err := service.client.Get(ctx, lotPath(id), &lot); err != nil {
		return nil, err
	}
	return &lot, nil
}

// Create validates input and registers a new lot.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Lot, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.CBML = strings.TrimSpace(input.CBML)

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 200).
		CBML(FieldCBML, input.CBML)

	if input.Area != 0 {
		validator.Positive(FieldArea, input.Area)
	}
	if input.Stratum != 0 {
		validator.Custom(FieldStratum, input.Stratum < 1 || input.Stratum > 6, "Must be between 1 and 6")
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	var lot Lot
	if err := service.client.Post(ctx, constants.PathLots, input, &lot); err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "lot_created",
		slog.String("lot_id", lot.ID.String()),
		slog.String("cbml", lot.CBML),
	)
	return &lot, nil
}

func lotPath(id ident.ID) string {
	return fmt.Sprintf("%s%s/", constants.PathLots, url.PathEscape(id.String()))
}
