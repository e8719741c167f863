package miro

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blimmp/miro-svg-dl/pkg/errors"
	"github.com/Blimmp/miro-svg-dl/pkg/ratelimit"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client := NewClient("test-token", 5*time.Second, ratelimit.NewNop(), nil)
	client.SetBaseURL(serverURL)
	client.SetRetryPolicy(3, time.Millisecond)
	return client
}

func writePage(w http.ResponseWriter, page ItemsPage) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(page)
}

func TestItemsPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		switch r.URL.Query().Get("cursor") {
		case "":
			assert.Equal(t, "image", r.URL.Query().Get("type"))
			writePage(w, ItemsPage{
				Data: []Item{
					{ID: "item1", Type: "image"},
					{ID: "item2", Type: "image"},
				},
				Cursor: "next-page",
			})
		case "next-page":
			writePage(w, ItemsPage{
				Data: []Item{{ID: "item3", Type: "image"}},
			})
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	it := client.Items("board1", ItemTypeImage)

	var ids []string
	for {
		item, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		ids = append(ids, item.ID)
	}

	assert.Equal(t, []string{"item1", "item2", "item3"}, ids)
}

func TestItemsEmptyFirstPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writePage(w, ItemsPage{})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	it := client.Items("board1", ItemTypeFrame)

	_, ok, err := it.Next()
	require.NoError(t, err)
	assert.False(t, ok, "empty listing must read as exhaustion, not error")
}

func TestItemsAuthErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	it := client.Items("board1", ItemTypeImage)

	_, _, err := it.Next()
	require.Error(t, err)
	assert.True(t, errors.IsAuth(err), "403 must surface as auth error, got %v", err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "auth failures must not be retried")
}

func TestItemsRetriesServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writePage(w, ItemsPage{Data: []Item{{ID: "survivor", Type: "image"}}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	it := client.Items("board1", ItemTypeImage)

	item, ok, err := it.Next()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "survivor", item.ID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestItemsTransientAfterBudget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	it := client.Items("board1", ItemTypeImage)

	_, _, err := it.Next()
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err), "exhausted budget must surface as transient, got %v", err)
}

func TestFetchNon2xxIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.Fetch(server.URL + "/missing")

	require.NoError(t, err, "probe fetches report status, not errors")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFetchReturnsBodyAndContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.Fetch(server.URL + "/asset.svg")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.ContentType)
	assert.Contains(t, string(resp.Body), "<svg")
}

func TestFetchTransportError(t *testing.T) {
	client := NewClient("tok", time.Second, ratelimit.NewNop(), nil)

	_, err := client.Fetch("http://127.0.0.1:1/unreachable")
	require.Error(t, err)

	var apiErr *errors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errors.ErrorTypeNetwork, apiErr.Type)
}
