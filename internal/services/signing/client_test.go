package signing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortiva/propflow/internal/models"
)

func TestGenerateDocumentSpreadsMetadata(t *testing.T) {
	var (
		gotPath    string
		gotBody    map[string]interface{}
		gotReqID   string
		gotContent string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotReqID = r.Header.Get("X-Request-Id")
		gotContent = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	doc := &models.Document{
		ID:         "doc-1",
		TemplateID: "tpl-1",
		Metadata: models.JSONB{
			"sellerName": "Jane",
			"buyer":      map[string]interface{}{"name": "John"},
		},
	}

	res := client.GenerateDocument(context.Background(), doc)
	require.True(t, res.OK)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	assert.Equal(t, "/document-generate", gotPath)
	assert.Equal(t, "application/json", gotContent)
	assert.NotEmpty(t, gotReqID)

	// Metadata keys ride at the top level next to the ids.
	assert.Equal(t, "doc-1", gotBody["documentId"])
	assert.Equal(t, "tpl-1", gotBody["templateId"])
	assert.Equal(t, "Jane", gotBody["sellerName"])
	assert.Equal(t, map[string]interface{}{"name": "John"}, gotBody["buyer"])
}

func TestApproveSigning(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/approves-signing", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	res := NewClient(server.URL).ApproveSigning(context.Background(), "doc-7")
	require.True(t, res.OK)
	assert.Equal(t, "doc-7", gotBody["documentId"])
}

func TestPostServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	res := NewClient(server.URL).ApproveSigning(context.Background(), "doc-7")
	assert.False(t, res.OK)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Error(t, res.Err)
}

func TestPostConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // nothing listens anymore

	res := NewClient(server.URL).ApproveSigning(context.Background(), "doc-7")
	assert.False(t, res.OK)
	assert.Equal(t, 0, res.StatusCode)
	assert.Error(t, res.Err)
}

func TestSignStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sign-status", r.URL.Path)
		assert.Equal(t, "doc-9", r.URL.Query().Get("documentId"))
		json.NewEncoder(w).Encode(StatusResponse{Status: "signed", N8nID: "n8n-3"})
	}))
	defer server.Close()

	status, res := NewClient(server.URL).SignStatus(context.Background(), "doc-9")
	require.True(t, res.OK)
	require.NotNil(t, status)
	assert.Equal(t, "signed", status.Status)
	assert.Equal(t, "n8n-3", status.N8nID)
}

func TestSignStatusBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	status, res := NewClient(server.URL).SignStatus(context.Background(), "doc-9")
	assert.Nil(t, status)
	assert.False(t, res.OK)
	assert.Error(t, res.Err)
}

func TestBaseURLTrailingSlash(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer server.Close()

	res := NewClient(server.URL + "/").ApproveSigning(context.Background(), "doc-1")
	require.True(t, res.OK)
	assert.Equal(t, "/approves-signing", gotPath)
}
