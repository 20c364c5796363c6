package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodiesEqualIgnoresGeneratedFields(t *testing.T) {
	ignore := map[string]struct{}{"_id": {}, "createdAt": {}}
	a := []byte(`[{"_id":"64f0","name":"Salsa","students":3,"createdAt":"2023-01-01"}]`)
	b := []byte(`[{"_id":"9c1e","name":"Salsa","students":3.0}]`)

	assert.True(t, bodiesEqual(a, b, ignore))
	assert.False(t, bodiesEqual(a, []byte(`[{"name":"Tango","students":3}]`), ignore))
}

func TestBodiesEqualPlainText(t *testing.T) {
	assert.True(t, bodiesEqual([]byte("RhythmVerse is running...\n"), []byte("RhythmVerse is running..."), nil))
	assert.False(t, bodiesEqual([]byte("up"), []byte("down"), nil))
}

func TestCompareTargetSendsBearerToken(t *testing.T) {
	var goAuth, legacyAuth string
	goSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		goAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer goSrv.Close()
	legacySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		legacyAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer legacySrv.Close()

	comp := compareTarget(http.DefaultClient,
		side{base: goSrv.URL, token: "go-token"},
		side{base: legacySrv.URL, token: "legacy-token"},
		target{Method: http.MethodGet, Path: "/selected", Auth: true}, nil)

	require.NoError(t, comp.Error)
	assert.True(t, comp.StatusMatch)
	assert.True(t, comp.BodyMatch)
	assert.Equal(t, "Bearer go-token", goAuth)
	assert.Equal(t, "Bearer legacy-token", legacyAuth)
}

func TestIssueToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/jwt", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"abc"}`))
	}))
	defer srv.Close()

	token, err := issueToken(http.DefaultClient, srv.URL, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}
