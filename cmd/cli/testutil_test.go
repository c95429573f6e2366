package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"telugudb/internal/auth"
	"telugudb/pkg/models"
)

// fakeAPI is a minimal stand-in for the catalog server that records the
// admin keys it sees.
type fakeAPI struct {
	t        *testing.T
	validKey string

	mu       sync.Mutex
	seenKeys []string
	deleted  []string
}

func newFakeAPI(t *testing.T, validKey string) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{t: t, validKey: validKey}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/verify", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Key string `json:"key"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Key != f.validKey {
			respondJSON(t, w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid admin key"})
			return
		}
		respondJSON(t, w, http.StatusOK, map[string]any{"success": true, "message": "Admin key verified"})
	})
	mux.HandleFunc("GET /api/content", func(w http.ResponseWriter, r *http.Request) {
		items := []map[string]any{
			{"_id": "m1", "type": "movie", "title": "RRR", "language": "Telugu"},
			{"_id": "s1", "type": "series", "title": "Farzi", "language": "Hindi", "seasons": []map[string]any{
				{"seasonNumber": 1, "episodes": []map[string]any{{"episodeNumber": 1}, {"episodeNumber": 2}}},
			}},
		}
		if typ := r.URL.Query().Get("type"); typ != "" {
			filtered := items[:0]
			for _, it := range items {
				if it["type"] == typ {
					filtered = append(filtered, it)
				}
			}
			items = filtered
		}
		respondJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": items})
	})
	mux.HandleFunc("GET /api/content/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "m1" {
			respondJSON(t, w, http.StatusNotFound, map[string]any{"success": false, "error": "Content not found"})
			return
		}
		respondJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"_id": "m1", "type": "movie", "title": "RRR"}})
	})
	mux.HandleFunc("POST /api/content", f.admin(func(w http.ResponseWriter, r *http.Request) {
		var doc map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		doc["_id"] = "new1"
		respondJSON(t, w, http.StatusCreated, map[string]any{"success": true, "data": doc, "message": "Content created successfully"})
	}))
	mux.HandleFunc("PUT /api/content/{id}", f.admin(func(w http.ResponseWriter, r *http.Request) {
		var patch map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		patch["_id"] = r.PathValue("id")
		patch["type"] = "movie"
		respondJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": patch, "message": "Content updated successfully"})
	}))
	mux.HandleFunc("DELETE /api/content/{id}", f.admin(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.deleted = append(f.deleted, r.PathValue("id"))
		f.mu.Unlock()
		respondJSON(t, w, http.StatusOK, map[string]any{"success": true, "message": "Content deleted successfully"})
	}))
	mux.HandleFunc("GET /api/admin/stats", f.admin(func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(t, w, http.StatusOK, map[string]any{"success": true, "stats": models.Stats{
			TotalMovies: 3, TotalSeries: 2, TotalEpisodes: 10, TrendingCount: 1,
		}})
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) admin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(auth.HeaderAdminKey)
		f.mu.Lock()
		f.seenKeys = append(f.seenKeys, key)
		f.mu.Unlock()
		if key != f.validKey {
			respondJSON(f.t, w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Unauthorized"})
			return
		}
		next(w, r)
	}
}

func (f *fakeAPI) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func respondJSON(t *testing.T, w http.ResponseWriter, code int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON response: %v", err)
	}
}

// runCLI executes the root command against srvURL with a key file in a
// temp dir and returns stdout.
func runCLI(t *testing.T, srvURL, keyFile string, args ...string) (string, error) {
	t.Helper()

	oldServer, oldKey, oldJSON := serverURL, keyPath, jsonOutput
	t.Cleanup(func() { serverURL, keyPath, jsonOutput = oldServer, oldKey, oldJSON })

	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--server", srvURL, "--key-file", keyFile}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func tempKeyFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "nested", "admin.key")
}

// resetFlags restores every flag to its default so values from an earlier
// run do not leak into the next one.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
