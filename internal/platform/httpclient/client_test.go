// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package httpclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/apperr"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ctxutil"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/httpclient"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/testkit"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/session"
)

// recorded captures what the fake backend received.
type recorded struct {
	method        string
	authorization string
	contentType   string
	requestID     string
	query         url.Values
	body          map[string]any
}

func backend(t *testing.T, status int, reply string) (*httptest.Server, *recorded) {
	t.Helper()

	seen := &recorded{}
	router := chi.NewRouter()
	router.HandleFunc("/*", func(writer http.ResponseWriter, request *http.Request) {
		seen.method = request.Method
		seen.authorization = request.Header.Get("Authorization")
		seen.contentType = request.Header.Get("Content-Type")
		seen.requestID = request.Header.Get("X-Request-ID")
		seen.query = request.URL.Query()
		_ = json.NewDecoder(request.Body).Decode(&seen.body)

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)
		_, _ = writer.Write([]byte(reply))
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, seen
}

func tokensWith(t *testing.T, access string) *session.TokenStore {
	t.Helper()
	tokens := session.NewTokenStore(session.NewMemoryStore(), testkit.Logger())
	if access != "" {
		require.NoError(t, tokens.SetTokens(context.Background(), session.Pair{Access: access, Refresh: "r"}))
	}
	return tokens
}

/*
TestClient_Headers checks content type, request id and bearer attachment.
*/
func TestClient_Headers(t *testing.T) {
	valid := testkit.Token(t, time.Hour)

	tests := []struct {
		name     string
		access   string
		options  []httpclient.Option
		wantAuth string
	}{
		{"no_token", "", nil, ""},
		{"valid_token", valid, nil, "Bearer " + valid},
		{"expired_token", testkit.Token(t, -time.Minute), nil, ""},
		{"malformed_token", "garbage", nil, ""},
		{"skip_auth", valid, []httpclient.Option{httpclient.WithoutAuth()}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, seen := backend(t, http.StatusOK, `{}`)
			client := httpclient.New(server.URL, time.Second, tokensWith(t, tt.access), testkit.Logger())

			ctx := ctxutil.WithRequestID(context.Background(), "req-1")
			require.NoError(t, client.Get(ctx, "/users/me/", nil, tt.options...))

			assert.Equal(t, tt.wantAuth, seen.authorization)
			assert.Equal(t, "application/json", seen.contentType)
			assert.Equal(t, "req-1", seen.requestID)
		})
	}
}

/*
TestClient_DecodeSuccess decodes a 2xx body and forwards query and payload.
*/
func TestClient_DecodeSuccess(t *testing.T) {
	server, seen := backend(t, http.StatusCreated, `{"id": 9, "name": "Lote 9"}`)
	client := httpclient.New(server.URL+"/api/", time.Second, nil, testkit.Logger())

	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	err := client.Post(context.Background(), "lotes/", map[string]any{"name": "Lote 9"}, &out,
		httpclient.WithQuery(url.Values{"page": {"2"}}))

	require.NoError(t, err)
	assert.Equal(t, 9, out.ID)
	assert.Equal(t, http.MethodPost, seen.method)
	assert.Equal(t, "2", seen.query.Get("page"))
	assert.Equal(t, "Lote 9", seen.body["name"])
	assert.Equal(t, server.URL+"/api", client.BaseURL())
}

/*
TestClient_ErrorShapes covers the uniform error mapping of non-2xx responses.
*/
func TestClient_ErrorShapes(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		reply       string
		wantCode    string
		wantMessage string
		wantFields  []apperr.FieldError
	}{
		{
			name:        "structured",
			status:      http.StatusBadRequest,
			reply:       `{"error": "VALIDATION", "message": "Invalid data", "field_errors": {"phone": "Bad phone", "email": ["Taken", "Invalid"]}}`,
			wantCode:    "VALIDATION",
			wantMessage: "Invalid data",
			wantFields: []apperr.FieldError{
				{Field: "email", Message: "Taken Invalid"},
				{Field: "phone", Message: "Bad phone"},
			},
		},
		{
			name:        "detail_only",
			status:      http.StatusForbidden,
			reply:       `{"detail": "Not allowed"}`,
			wantCode:    "HTTP_ERROR",
			wantMessage: "Not allowed",
		},
		{
			name:        "unparseable",
			status:      http.StatusInternalServerError,
			reply:       `<html>boom</html>`,
			wantCode:    "HTTP_ERROR",
			wantMessage: "Request failed with status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := backend(t, tt.status, tt.reply)
			client := httpclient.New(server.URL, time.Second, nil, testkit.Logger())

			err := client.Get(context.Background(), "/x/", nil)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperr.KindHTTP, appErr.Kind)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantMessage, appErr.Message)
			assert.Equal(t, tt.wantFields, appErr.Details)
		})
	}
}

/*
TestClient_MalformedBody rejects 2xx bodies that do not decode.
*/
func TestClient_MalformedBody(t *testing.T) {
	server, _ := backend(t, http.StatusOK, `not json`)
	client := httpclient.New(server.URL, time.Second, nil, testkit.Logger())

	var out map[string]any
	err := client.Get(context.Background(), "/x/", &out)
	assert.True(t, apperr.IsKind(err, apperr.KindMalformedResponse))
}

/*
TestClient_Timeout maps a slow backend to the 408 timeout kind.
*/
func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		select {
		case <-request.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client := httpclient.New(server.URL, 50*time.Millisecond, nil, testkit.Logger())

	started := time.Now()
	err := client.Get(context.Background(), "/slow/", nil)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.KindTimeout, appErr.Kind)
	assert.Equal(t, http.StatusRequestTimeout, appErr.HTTPStatus)
	assert.Less(t, time.Since(started), 2*time.Second)
}

/*
TestClient_NetworkError maps an unreachable backend to status 0.
*/
func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	address := server.URL
	server.Close()

	client := httpclient.New(address, time.Second, nil, testkit.Logger())
	err := client.Get(context.Background(), "/x/", nil)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.KindNetwork, appErr.Kind)
	assert.Equal(t, apperr.StatusNetworkError, appErr.HTTPStatus)
}
