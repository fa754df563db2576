package controllers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bionicotaku/anima-library/internal/controllers"
	"github.com/bionicotaku/anima-library/internal/metadata"
	"github.com/stretchr/testify/require"
)

func TestLibraryRoutes_EntryLifecycle(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	const user = "user-1"

	resp := f.call(t, user, http.MethodGet, "/v1/library", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Empty(t, resp.list("entries"))
	require.Equal(t, "all", resp.Body["filter"])
	require.EqualValues(t, 0, resp.Body["total"])

	resp = f.call(t, user, http.MethodPost, "/v1/library/entries", map[string]any{
		"title_id":       "T1",
		"title_name":     "Frieren",
		"total_episodes": 12,
	})
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "planning", resp.object("entry")["status"])
	require.EqualValues(t, 0, resp.object("entry")["progress"])

	resp = f.call(t, user, http.MethodPost, "/v1/library/entries", map[string]any{"title_id": "T1"})
	require.Equal(t, http.StatusConflict, resp.Status)
	require.Equal(t, controllers.ReasonEntryExists, resp.reason())

	resp = f.call(t, user, http.MethodPatch, "/v1/library/entries/T1/progress", map[string]any{"progress": 3})
	require.Equal(t, http.StatusOK, resp.Status)
	entry := resp.object("entry")
	require.Equal(t, "watching", entry["status"])
	require.EqualValues(t, 3, entry["progress"])
	require.NotNil(t, entry["started_at"])

	resp = f.call(t, user, http.MethodPatch, "/v1/library/entries/T1/progress", map[string]any{"progress": 12})
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "completed", resp.object("entry")["status"])
	require.NotNil(t, resp.object("entry")["completed_at"])

	resp = f.call(t, user, http.MethodPatch, "/v1/library/entries/T1/score", map[string]any{"score": 8.5})
	require.Equal(t, http.StatusOK, resp.Status)
	require.EqualValues(t, 8.5, resp.object("entry")["score"])

	resp = f.call(t, user, http.MethodPatch, "/v1/library/entries/T1/notes", map[string]any{"notes": "rewatch S2"})
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "rewatch S2", resp.object("entry")["notes"])

	resp = f.call(t, user, http.MethodPatch, "/v1/library/entries/T1/score", map[string]any{"score": nil})
	require.Equal(t, http.StatusOK, resp.Status)
	require.NotContains(t, resp.object("entry"), "score")

	resp = f.call(t, user, http.MethodGet, "/v1/library/entries/T1", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "Frieren", resp.object("entry")["title_name"])

	resp = f.call(t, user, http.MethodGet, "/v1/library/stats", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	stats := resp.object("stats")
	require.EqualValues(t, 1, stats["total"])
	require.EqualValues(t, 1, stats["completed"])
	require.EqualValues(t, 12, stats["episodes_watched"])

	resp = f.call(t, user, http.MethodGet, "/v1/library/entries/T1/can-post", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, true, resp.Body["can_post"])
	resp = f.call(t, user, http.MethodGet, "/v1/library/entries/T2/can-post", nil)
	require.Equal(t, false, resp.Body["can_post"])

	resp = f.call(t, user, http.MethodDelete, "/v1/library/entries/T1", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, true, resp.Body["removed"])

	resp = f.call(t, user, http.MethodGet, "/v1/library/entries/T1", nil)
	require.Equal(t, http.StatusNotFound, resp.Status)
	require.Equal(t, controllers.ReasonEntryNotFound, resp.reason())

	resp = f.call(t, user, http.MethodPost, "/v1/library:refresh", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Empty(t, resp.list("entries"))
}

func TestLibraryRoutes_FilterView(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	const user = "user-1"

	for _, titleID := range []string{"A", "B", "C"} {
		resp := f.call(t, user, http.MethodPost, "/v1/library/entries", map[string]any{"title_id": titleID})
		require.Equal(t, http.StatusOK, resp.Status)
	}
	resp := f.call(t, user, http.MethodPatch, "/v1/library/entries/B/status", map[string]any{"status": "watching"})
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "watching", resp.object("entry")["status"])

	resp = f.call(t, user, http.MethodPut, "/v1/library/filter", map[string]any{"filter": "WATCHING"})
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "watching", resp.Body["filter"])
	entries := resp.list("entries")
	require.Len(t, entries, 1)
	require.Equal(t, "B", entries[0].(map[string]any)["title_id"])
	require.EqualValues(t, 3, resp.Body["total"])

	resp = f.call(t, user, http.MethodPut, "/v1/library/filter", map[string]any{"filter": "binge"})
	require.Equal(t, http.StatusBadRequest, resp.Status)
	require.Equal(t, controllers.ReasonInvalidArgument, resp.reason())

	resp = f.call(t, user, http.MethodPut, "/v1/library/filter", map[string]any{"filter": "all"})
	require.Equal(t, http.StatusOK, resp.Status)
	titles := make([]string, 0, 3)
	for _, item := range resp.list("entries") {
		titles = append(titles, item.(map[string]any)["title_id"].(string))
	}
	require.Equal(t, []string{"C", "B", "A"}, titles)
}

func TestLibraryRoutes_Validation(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	const user = "user-1"

	resp := f.call(t, user, http.MethodPost, "/v1/library/entries", map[string]any{"title_id": "T1", "status": "binge"})
	require.Equal(t, http.StatusBadRequest, resp.Status)

	resp = f.call(t, user, http.MethodPost, "/v1/library/entries", map[string]any{"title_id": "  "})
	require.Equal(t, http.StatusBadRequest, resp.Status)
	require.Equal(t, controllers.ReasonInvalidArgument, resp.reason())

	resp = f.call(t, user, http.MethodPatch, "/v1/library/entries/T9/status", map[string]any{"status": "paused"})
	require.Equal(t, http.StatusNotFound, resp.Status)
	require.Equal(t, controllers.ReasonEntryNotFound, resp.reason())

	resp = f.call(t, user, http.MethodPatch, "/v1/library/entries/T9/status", map[string]any{"status": "binge"})
	require.Equal(t, http.StatusBadRequest, resp.Status)

	resp = f.call(t, user, http.MethodPatch, "/v1/library/entries/T9/progress", map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestLibraryRoutes_UserResolution(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)

	resp := f.call(t, "", http.MethodGet, "/v1/library", nil)
	require.Equal(t, http.StatusBadRequest, resp.Status)
	require.Equal(t, controllers.ReasonInvalidArgument, resp.reason())

	req := httptest.NewRequest(http.MethodGet, "/v1/library", nil)
	req.Header.Set(metadata.HeaderUserInfo, "!!!invalid!!!")
	resp = f.do(t, req)
	require.Equal(t, http.StatusUnauthorized, resp.Status)
	require.Equal(t, controllers.ReasonUnauthenticated, resp.reason())

	resp = f.call(t, "", http.MethodGet, "/v1/library?user_id=user-9", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "user-9", resp.Body["user_id"])

	resp = f.call(t, "user-1", http.MethodGet, "/v1/library?user_id=user-9", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "user-1", resp.Body["user_id"])
}

func TestLibraryRoutes_DirectoryFault(t *testing.T) {
	t.Parallel()

	f := newServerFixture(t)
	f.directory.listErr = errors.New("directory unavailable")

	resp := f.call(t, "user-1", http.MethodGet, "/v1/library", nil)
	require.Equal(t, http.StatusInternalServerError, resp.Status)
	require.Equal(t, controllers.ReasonInternal, resp.reason())

	f.directory.mu.Lock()
	f.directory.listErr = nil
	f.directory.mu.Unlock()

	resp = f.call(t, "user-1", http.MethodGet, "/v1/library", nil)
	require.Equal(t, http.StatusOK, resp.Status)
}
