package bynder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/RoundRobinHood/bynder-taxonomy-sync/rest"
	"github.com/RoundRobinHood/bynder-taxonomy-sync/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(types.ApiConfig{Domain: srv.URL}, srv.Client(), zerolog.Nop())
}

func TestSafeName(t *testing.T) {
	tests := map[string]string{
		"Lip Gloss":         "LIP_GLOSS",
		"  matte-01 ":       "MATTE_01",
		"Rosé #3":           "ROS___3",
		"ABC123":            "ABC123",
		"Product + Shade 2": "PRODUCT___SHADE_2",
	}
	for in, want := range tests {
		assert.Equal(t, want, SafeName(in), in)
	}
}

func TestNewOptionPayload(t *testing.T) {
	p := NewOptionPayload(" Velvet Red ")
	assert.Equal(t, "VELVET_RED", p.Name)
	assert.Equal(t, "Velvet Red", p.Label)
	assert.Equal(t, map[string]string{"en_US": "Velvet Red"}, p.Labels)
	assert.True(t, p.IsSelectable)
}

func TestGetAllOptionsStopsOnEmptyPage(t *testing.T) {
	var pages []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v4/metaproperties/META/options/", r.URL.Path)
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		switch page {
		case "1":
			_, _ = io.WriteString(w, `[{"id":"1","displayLabel":" SKU-1 "},{"id":"2","label":"SKU-2"}]`)
		case "2":
			_, _ = io.WriteString(w, `[{"id":"3","displayLabel":"","label":"SKU-3"},{"id":"4"},"odd"]`)
		default:
			_, _ = io.WriteString(w, `[]`)
		}
	}))

	options, err := client.GetAllOptions(context.Background(), "META")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, pages)
	assert.Equal(t, types.OptionSet{"SKU-1": "1", "SKU-2": "2", "SKU-3": "3"}, options)
}

func TestGetAllOptionsStopsOnErrorPage(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("page") == "2" {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		_, _ = io.WriteString(w, `[{"id":"1","label":"A"}]`)
	}))

	options, err := client.GetAllOptions(context.Background(), "META")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, types.OptionSet{"A": "1"}, options)
}

func TestGetAllOptionsNumericAndMissingIDs(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			_, _ = io.WriteString(w, `[{"id":123,"label":"NumericID"},{"label":"NoID"},{"id":null,"label":"NullID"}]`)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	}))

	options, err := client.GetAllOptions(context.Background(), "META")
	require.NoError(t, err)
	assert.Equal(t, types.OptionSet{"NumericID": "123", "NoID": "", "NullID": ""}, options)

	id, ok := options.ID("NumericID")
	assert.True(t, ok)
	assert.Equal(t, "123", id)
	_, ok = options.ID("NoID")
	assert.False(t, ok)
	assert.True(t, options.Has("NoID"))
}

func TestGetAllOptionsRejectsNonList(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error":"weird"}`)
	}))

	_, err := client.GetAllOptions(context.Background(), "META")
	assert.True(t, errors.Is(err, rest.ErrResponseFailed))
}

func TestCreateOption(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v4/metaproperties/SKU/options/", r.URL.Path)
		require.NoError(t, r.ParseForm())

		var payload types.OptionPayload
		require.NoError(t, json.Unmarshal([]byte(r.PostForm.Get("data")), &payload))
		assert.Equal(t, "AB_12", payload.Name)
		assert.Equal(t, "ab-12", payload.Label)
		assert.Equal(t, "ab-12", payload.Labels["en_US"])
		assert.True(t, payload.IsSelectable)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"NEW-ID"}`)
	}))

	id, err := client.CreateOption(context.Background(), "SKU", " ab-12 ")
	require.NoError(t, err)
	assert.Equal(t, "NEW-ID", id)
}

func TestCreateOptionNumericID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":987}`)
	}))

	id, err := client.CreateOption(context.Background(), "SKU", "x")
	require.NoError(t, err)
	assert.Equal(t, "987", id)
}

func TestCreateOptionFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad label", http.StatusBadRequest)
	}))

	_, err := client.CreateOption(context.Background(), "SKU", "x")
	var se *rest.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Contains(t, se.Body, "bad label")
}

func TestLinkOption(t *testing.T) {
	var mu sync.Mutex
	seen := []string{}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.URL.Path)
		mu.Unlock()
		switch r.URL.Path {
		case "/api/v4/metaproperties/SKU/options/c1/dependencies/p1/":
			w.WriteHeader(http.StatusCreated)
		case "/api/v4/metaproperties/SKU/options/c1/dependencies/p2/":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = fmt.Fprintf(w, `{"message":"%s"}`, AlreadyExistsText)
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message":"invalid option"}`)
		}
	}))

	existed, err := client.LinkOption(context.Background(), "SKU", "c1", "p1")
	require.NoError(t, err)
	assert.False(t, existed)

	existed, err = client.LinkOption(context.Background(), "SKU", "c1", "p2")
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = client.LinkOption(context.Background(), "SKU", "c1", "p3")
	var se *rest.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Len(t, seen, 3)
}

func TestAuthenticate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"tok-123","token_type":"bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/api/v4/metaproperties/M/options/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cnf := types.ApiConfig{Domain: srv.URL}
	httpClient, err := Authenticate(context.Background(), cnf, "client", "secret")
	require.NoError(t, err)

	options, err := NewClient(cnf, httpClient, zerolog.Nop()).GetAllOptions(context.Background(), "M")
	require.NoError(t, err)
	assert.Empty(t, options)
}

func TestAuthenticateFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid_client"}`)
	}))
	defer srv.Close()

	_, err := Authenticate(context.Background(), types.ApiConfig{Domain: srv.URL}, "client", "wrong")
	assert.Error(t, err)
}
