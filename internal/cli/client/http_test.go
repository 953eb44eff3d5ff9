package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_Get_UnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"id":"abc"}}`))
	}))
	defer srv.Close()

	api := NewAPIClientWithConfig(testToken, srv.URL)

	resp, err := api.Get("/courses/abc")
	require.NoError(t, err)

	var body struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, "abc", body.ID)
}

func TestAPIClient_ErrorStatusBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"course not found","code":"not_found"}`))
	}))
	defer srv.Close()

	api := NewAPIClientWithConfig(testToken, srv.URL)

	_, err := api.Get("/courses/missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "course not found", apiErr.Message)
}

func TestAPIClient_NoContentResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	api := NewAPIClientWithConfig(testToken, srv.URL)

	resp, err := api.Delete("/courses/abc")
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
}

func TestAPIClient_PostFile_SendsMultipart(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("some study notes"), 0600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "notes.txt", header.Filename)
		assert.Equal(t, "text/plain", header.Header.Get("Content-Type"))

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "some study notes", string(content))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"up-1","status":"completed"}}`))
	}))
	defer srv.Close()

	api := NewAPIClientWithConfig(testToken, srv.URL)

	resp, err := api.PostFile("/uploads", tmpFile, "text/plain")
	require.NoError(t, err)

	var upload uploadResponse
	require.NoError(t, json.Unmarshal(resp.Data, &upload))
	assert.Equal(t, "up-1", upload.ID)
}

func TestAPIClient_DownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("downloaded body"))
	}))
	defer srv.Close()

	api := NewAPIClientWithConfig(testToken, srv.URL)

	outPath := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, api.DownloadFile("/uploads/up-1/download", outPath))

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "downloaded body", string(content))
}
