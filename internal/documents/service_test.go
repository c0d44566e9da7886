// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package documents_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/documents"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/apperr"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/constants"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/httpclient"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/testkit"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/pagination"
)

type documentBackend struct {
	actions  []map[string]string
	lastPath string
	query    string
}

func newDocumentService(t *testing.T) (*documents.Service, *documentBackend) {
	t.Helper()
	fake := &documentBackend{}

	router := chi.NewRouter()
	router.Get("/documents/validation/list/", func(writer http.ResponseWriter, request *http.Request) {
		fake.query = request.URL.RawQuery
		_, _ = writer.Write([]byte(`{"count": 3, "next": null, "previous": null, "results": [
			{"id": 1, "title": "Escritura", "validation_status": "pendiente", "lote": 10, "lote_nombre": "Belén"},
			{"id": 2, "title": "Plano", "validation_status": "validado", "lote": 11, "lote_nombre": "Álamo"},
			{"id": 3, "title": "Certificado", "validation_status": "pendiente", "lote": 10, "lote_nombre": "Belén"}
		]}`))
	})
	router.Post("/documents/validation/{id}/action/", func(writer http.ResponseWriter, request *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(request.Body).Decode(&body)
		fake.actions = append(fake.actions, body)
		fake.lastPath = request.URL.Path
		_, _ = writer.Write([]byte(`{"message": "ok", "document": {"id": ` + chi.URLParam(request, "id") + `, "validation_status": "validado"}}`))
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	client := httpclient.New(server.URL, time.Second, nil, testkit.Logger())
	return documents.NewService(client, testkit.Logger()), fake
}

/*
TestService_ListAndGroup forwards filters and groups the page by lot.
*/
func TestService_ListAndGroup(t *testing.T) {
	service, fake := newDocumentService(t)
	ctx := context.Background()

	page, err := service.List(ctx, documents.Query{Params: pagination.Params{Page: 1, Limit: 5}, Status: documents.StatusPending, LotID: "10"})
	require.NoError(t, err)
	assert.Len(t, page.Results, 3)
	assert.Equal(t, "lote=10&page=1&page_size=5&status=pendiente", fake.query)

	grouping, err := service.Grouped(ctx, documents.Query{})
	require.NoError(t, err)
	assert.False(t, grouping.Truncated)
	groups := grouping.Groups
	require.Len(t, groups, 2)
	assert.Equal(t, "Álamo", groups[0].LotName)
	assert.Equal(t, 2, groups[1].Pending)
	assert.Equal(t, "page=1&page_size=100", fake.query)

	_, err = service.List(ctx, documents.Query{Status: "archivado"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

/*
TestService_Decisions sends the backend verbs and requires a rejection comment.
*/
func TestService_Decisions(t *testing.T) {
	service, fake := newDocumentService(t)
	ctx := context.Background()

	result, err := service.Validate(ctx, "7", "")
	require.NoError(t, err)
	assert.Equal(t, documents.StatusValidated, result.Document.Status)
	assert.Equal(t, "/documents/validation/7/action/", fake.lastPath)

	_, err = service.Reject(ctx, "7", "   ")
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "comments", appErr.Details[0].Field)

	_, err = service.Reject(ctx, "8", " Firma ilegible ")
	require.NoError(t, err)

	require.Len(t, fake.actions, 2)
	assert.Equal(t, map[string]string{"action": "validar", "comments": ""}, fake.actions[0])
	assert.Equal(t, map[string]string{"action": "rechazar", "comments": "Firma ilegible"}, fake.actions[1])
}

/*
TestService_GroupedFollowsPages groups documents from every backend page.
*/
func TestService_GroupedFollowsPages(t *testing.T) {
	var pages []string

	router := chi.NewRouter()
	router.Get("/documents/validation/list/", func(writer http.ResponseWriter, request *http.Request) {
		page := request.URL.Query().Get("page")
		pages = append(pages, page)

		switch page {
		case "1":
			_, _ = writer.Write([]byte(`{"count": 3, "next": "http://backend/documents/validation/list/?page=2", "results": [
				{"id": 1, "validation_status": "pendiente", "lote": 10, "lote_nombre": "Belén"},
				{"id": 2, "validation_status": "validado", "lote": 11, "lote_nombre": "Álamo"}
			]}`))
		default:
			_, _ = writer.Write([]byte(`{"count": 3, "next": null, "results": [
				{"id": 3, "validation_status": "pendiente", "lote": 10, "lote_nombre": "Belén"}
			]}`))
		}
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	service := documents.NewService(httpclient.New(server.URL, time.Second, nil, testkit.Logger()), testkit.Logger())

	grouping, err := service.Grouped(context.Background(), documents.Query{Status: documents.StatusPending})
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, pages)
	assert.False(t, grouping.Truncated)
	require.Len(t, grouping.Groups, 2)
	assert.Equal(t, "Belén", grouping.Groups[1].LotName)
	assert.Equal(t, 2, grouping.Groups[1].Pending)
	assert.Len(t, grouping.Groups[1].Documents, 2)
}

/*
TestService_GroupedStopsAtPageCap flags groupings cut short by the page cap.
*/
func TestService_GroupedStopsAtPageCap(t *testing.T) {
	hits := 0

	router := chi.NewRouter()
	router.Get("/documents/validation/list/", func(writer http.ResponseWriter, request *http.Request) {
		hits++
		_, _ = writer.Write([]byte(`{"count": 100000, "next": "http://backend/next", "results": [
			{"id": ` + request.URL.Query().Get("page") + `, "validation_status": "pendiente", "lote": 10, "lote_nombre": "Belén"}
		]}`))
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	service := documents.NewService(httpclient.New(server.URL, time.Second, nil, testkit.Logger()), testkit.Logger())

	grouping, err := service.Grouped(context.Background(), documents.Query{})
	require.NoError(t, err)

	assert.Equal(t, constants.MaxDocumentGroupPages, hits)
	assert.True(t, grouping.Truncated)
	require.Len(t, grouping.Groups, 1)
	assert.Len(t, grouping.Groups[0].Documents, constants.MaxDocumentGroupPages)
}

/*
TestService_GroupedSearch keeps documents whose lot name or title matches,
ignoring accents and case.
*/
func TestService_GroupedSearch(t *testing.T) {
	service, _ := newDocumentService(t)
	ctx := context.Background()

	grouping, err := service.Grouped(ctx, documents.Query{Search: "BELEN"})
	require.NoError(t, err)
	require.Len(t, grouping.Groups, 1)
	assert.Equal(t, "Belén", grouping.Groups[0].LotName)
	assert.Len(t, grouping.Groups[0].Documents, 2)

	grouping, err = service.Grouped(ctx, documents.Query{Search: "plano"})
	require.NoError(t, err)
	require.Len(t, grouping.Groups, 1)
	assert.Equal(t, "Álamo", grouping.Groups[0].LotName)
}
