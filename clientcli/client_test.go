package clientcli_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/foldery/clientcli"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *clientcli.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL, User: "alice"})
	require.NoError(t, err)
	return client
}

func folderJSON(id uuid.UUID, name string) map[string]any {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return map[string]any{
		"id":             id.String(),
		"owner":          "alice",
		"name":           name,
		"type":           "default",
		"sub_folders":    []string{},
		"required_files": []any{"invoice.pdf"},
		"files":          map[string]any{},
		"created_at":     now,
		"updated_at":     now,
	}
}

func writeBody(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestNew(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{Endpoint: "http://localhost:5710", User: "alice"})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := clientcli.New(nil)
		assert.ErrorIs(t, err, clientcli.ErrConfigRequired)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := clientcli.New(&clientcli.Config{Endpoint: "http://localhost:5710"})
		assert.ErrorIs(t, err, clientcli.ErrUserRequired)
	})
}

func TestClient_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		parent := uuid.New()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/folders/", r.URL.Path)
			assert.Equal(t, "alice", r.Header.Get("auth"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "invoices", body["folder_name"])
			assert.Equal(t, parent.String(), body["folder_parent"])
			_, hasType := body["type"]
			assert.False(t, hasType, "empty type is omitted")

			writeBody(w, http.StatusCreated, folderJSON(id, "invoices"))
		})

		folder, err := client.Create(context.Background(), clientcli.CreateOptions{
			Name:   "invoices",
			Parent: parent.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, id, folder.ID)
		assert.Equal(t, "invoices", folder.Name)
		require.Len(t, folder.RequiredFiles, 1)
		assert.Equal(t, "invoice.pdf", folder.RequiredFiles[0].Name)
	})

	t.Run("empty name is rejected locally", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})

		_, err := client.Create(context.Background(), clientcli.CreateOptions{Name: "  "})
		assert.ErrorIs(t, err, clientcli.ErrEmptyName)
	})

	t.Run("conflict", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeBody(w, http.StatusConflict, map[string]any{
				"error":   "already_exists",
				"message": "Folder with name invoices already exists.",
			})
		})

		_, err := client.Create(context.Background(), clientcli.CreateOptions{Name: "invoices"})
		require.Error(t, err)
		assert.ErrorIs(t, err, clientcli.ErrConflict)

		var apiErr *clientcli.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "already_exists", apiErr.Code)
		assert.Equal(t, "Folder with name invoices already exists.", apiErr.Message)
	})
}

func TestClient_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/folders/", r.URL.Path)
			writeBody(w, http.StatusOK, []any{folderJSON(uuid.New(), "a"), folderJSON(uuid.New(), "b")})
		})

		folders, err := client.List(context.Background())
		require.NoError(t, err)
		require.Len(t, folders, 2)
		assert.Equal(t, "a", folders[0].Name)
		assert.Equal(t, "b", folders[1].Name)
	})

	t.Run("empty", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeBody(w, http.StatusOK, []any{})
		})

		folders, err := client.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, folders)
	})
}

func TestClient_Get(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/folders/"+id.String(), r.URL.Path)
			writeBody(w, http.StatusOK, folderJSON(id, "invoices"))
		})

		folder, err := client.Get(context.Background(), id.String())
		require.NoError(t, err)
		assert.Equal(t, id, folder.ID)
	})

	t.Run("not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeBody(w, http.StatusNotFound, map[string]any{"error": "not_found", "message": "Folder with ID x not found."})
		})

		_, err := client.Get(context.Background(), "x")
		assert.ErrorIs(t, err, clientcli.ErrNotFound)
	})

	t.Run("forbidden", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeBody(w, http.StatusForbidden, map[string]any{"error": "permission_denied", "message": "nope"})
		})

		_, err := client.Get(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, clientcli.ErrForbidden)
		assert.NotErrorIs(t, err, clientcli.ErrNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

		_, err := client.Get(context.Background(), "")
		assert.ErrorIs(t, err, clientcli.ErrEmptyID)
	})
}

func TestClient_Update(t *testing.T) {
	t.Run("sends only set fields", func(t *testing.T) {
		id := uuid.New()
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "renamed", body["folder_name"])
			assert.Contains(t, body, "sub_folders")
			assert.NotContains(t, body, "type")
			assert.NotContains(t, body, "required_files")

			writeBody(w, http.StatusOK, folderJSON(id, "renamed"))
		})

		name := "renamed"
		subs := []uuid.UUID{}
		folder, err := client.Update(context.Background(), id.String(), clientcli.UpdateOptions{
			Name:       &name,
			SubFolders: &subs,
		})
		require.NoError(t, err)
		assert.Equal(t, "renamed", folder.Name)
	})

	t.Run("nothing to send", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})

		_, err := client.Update(context.Background(), uuid.NewString(), clientcli.UpdateOptions{})
		assert.ErrorIs(t, err, clientcli.ErrNothingToSend)
	})
}

func TestClient_Delete(t *testing.T) {
	okID := uuid.NewString()
	missingID := uuid.NewString()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		if r.URL.Path == "/folders/"+okID {
			writeBody(w, http.StatusOK, map[string]any{"message": "Folder deleted successfully"})
			return
		}
		writeBody(w, http.StatusNotFound, map[string]any{"error": "not_found", "message": "missing"})
	})

	results, err := client.Delete(context.Background(), clientcli.DeleteOptions{IDs: []string{okID, missingID}})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Deleted)
	assert.NoError(t, results[0].Err)
	assert.False(t, results[1].Deleted)
	assert.ErrorIs(t, results[1].Err, clientcli.ErrNotFound)
	assert.True(t, clientcli.HasDeleteErrors(results))

	_, err = client.Delete(context.Background(), clientcli.DeleteOptions{})
	assert.ErrorIs(t, err, clientcli.ErrNoIDs)
}

func TestClient_CustomIdentityHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bob", r.Header.Get("X-User-ID"))
		assert.Empty(t, r.Header.Get("auth"))
		writeBody(w, http.StatusOK, []any{})
	}))
	defer server.Close()

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL + "/", User: "bob", IdentityHeader: "X-User-ID"})
	require.NoError(t, err)

	_, err = client.List(context.Background())
	require.NoError(t, err)
}

func TestAPIError(t *testing.T) {
	t.Run("error string with server message", func(t *testing.T) {
		err := &clientcli.APIError{StatusCode: 404, Code: "not_found", Message: "gone"}
		assert.Equal(t, "server error: 404 not_found - gone", err.Error())
	})

	t.Run("error string with raw body", func(t *testing.T) {
		err := &clientcli.APIError{StatusCode: 502, Body: "bad gateway"}
		assert.Equal(t, "server error: 502 - bad gateway", err.Error())
	})

	t.Run("non-json body keeps raw text", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		})

		_, err := client.List(context.Background())
		var apiErr *clientcli.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Empty(t, apiErr.Code)
		assert.Equal(t, "upstream down", apiErr.Body)
	})
}
