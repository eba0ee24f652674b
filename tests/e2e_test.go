package tests

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"todo-sheets/internal/handler"
	"todo-sheets/internal/repo"
	"todo-sheets/internal/service"
)

func startServer(t *testing.T, store *FakeStore) (*httptest.Server, *http.Client) {
	t.Helper()

	taskRepo := repo.NewTaskRepo(store.Opener(nil), "sheet-e2e", true, zap.NewNop())
	taskService := service.NewTaskService(taskRepo)
	taskHandler := handler.NewTaskHandler(taskService, zap.NewNop(), "e2e-secret")

	r := chi.NewRouter()
	taskHandler.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return srv, &http.Client{Jar: jar}
}

func get(t *testing.T, client *http.Client, url string) string {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func postAndFollow(t *testing.T, client *http.Client, url string, form url.Values) string {
	t.Helper()
	resp, err := client.PostForm(url, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestTaskLifecycle(t *testing.T) {
	store := NewEmptyFakeStore()
	srv, client := startServer(t, store)

	// fresh store: worksheet gets created, page is empty
	body := get(t, client, srv.URL+"/")
	assert.Contains(t, body, "No tasks.")
	require.NotNil(t, store.Todos())
	assert.Equal(t, Header(), store.Todos().Cells[0])

	// add a task, follow the redirect back to the list
	body = postAndFollow(t, client, srv.URL+"/add", url.Values{
		"title":    {"Plan the trip"},
		"content":  {"book hotels"},
		"due_date": {"2025-03-01"},
		"priority": {"high"},
	})
	assert.Contains(t, body, "Task added.")
	assert.Contains(t, body, "Plan the trip")

	// complete it; it leaves the default listing
	body = postAndFollow(t, client, srv.URL+"/complete/2", nil)
	assert.Contains(t, body, "Task completed.")
	assert.NotContains(t, body, "Plan the trip")

	// and shows up in the archive
	body = get(t, client, srv.URL+"/archive")
	assert.Contains(t, body, "Plan the trip")

	// delete it for good
	body = postAndFollow(t, client, srv.URL+"/delete/2", nil)
	assert.Contains(t, body, "Task deleted.")
	assert.Len(t, store.Todos().Cells, 1)
}

func TestValidationKeepsInput(t *testing.T) {
	store := NewFakeStore()
	srv, client := startServer(t, store)

	body := postAndFollow(t, client, srv.URL+"/add", url.Values{
		"title":   {""},
		"content": {"orphaned notes"},
	})
	assert.Contains(t, body, "Title is required.")
	assert.Contains(t, body, "orphaned notes")
	assert.Empty(t, store.Todos().Appended)
}

func TestEditFlow(t *testing.T) {
	store := NewFakeStore(
		[]string{"1", "Draft", "", "", "medium", "2025-01-01 09:00:00", ""},
	)
	srv, client := startServer(t, store)

	body := get(t, client, srv.URL+"/edit/2")
	assert.Contains(t, body, "Draft")

	body = postAndFollow(t, client, srv.URL+"/edit/2", url.Values{
		"title":    {"Final"},
		"priority": {"high"},
	})
	assert.Contains(t, body, "Task updated.")
	assert.Contains(t, body, "Final")

	assert.Equal(t,
		[]string{"1", "Final", "", "", "high", "2025-01-01 09:00:00", ""},
		store.Todos().Cells[1])
}
