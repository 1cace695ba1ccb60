package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeQdrant is an in-memory stand-in for the REST API, covering just the
// endpoints the client uses.
type fakeQdrant struct {
	mu          sync.Mutex
	collections map[string]int
	points      map[string]map[uint64][]float32
	failures    int // number of 500s to serve before behaving
}

func newFakeQdrant() *fakeQdrant {
	return &fakeQdrant{
		collections: map[string]int{},
		points:      map[string]map[uint64][]float32{},
	}
}

func (f *fakeQdrant) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/collections/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.failures > 0 {
			f.failures--
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		path := r.URL.Path[len("/collections/"):]

		switch {
		case r.Method == http.MethodGet:
			if _, ok := f.collections[path]; !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok"})

		case r.Method == http.MethodPut && r.URL.Query().Get("wait") == "" && !isPointsPath(path):
			var req collectionCreateRequest
			json.NewDecoder(r.Body).Decode(&req)
			if _, ok := f.collections[path]; ok {
				w.WriteHeader(http.StatusConflict)
				return
			}
			f.collections[path] = req.Vectors.Size
			f.points[path] = map[uint64][]float32{}
			json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok"})

		case r.Method == http.MethodPut && isPointsPath(path):
			name := path[:len(path)-len("/points")]
			var req upsertRequest
			json.NewDecoder(r.Body).Decode(&req)
			if _, ok := f.points[name]; !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			for _, p := range req.Points {
				f.points[name][p.ID] = p.Vector
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok"})

		case r.Method == http.MethodPost:
			name := path[:len(path)-len("/points/delete")]
			var req pointsDeleteRequest
			json.NewDecoder(r.Body).Decode(&req)
			for _, id := range req.Points {
				delete(f.points[name], id)
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok"})

		case r.Method == http.MethodDelete:
			delete(f.collections, path)
			delete(f.points, path)
			json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok"})

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	return mux
}

func isPointsPath(p string) bool {
	return len(p) > len("/points") && p[len(p)-len("/points"):] == "/points"
}

func newTestClient(t *testing.T) (*Client, *fakeQdrant) {
	t.Helper()
	fake := newFakeQdrant()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "", 5*time.Second), fake
}

func TestEnsureCollectionCreatesOnce(t *testing.T) {
	client, fake := newTestClient(t)
	ctx := context.Background()

	if err := client.EnsureCollection(ctx, "course", 3); err != nil {
		t.Fatalf("EnsureCollection() error = %v", err)
	}
	if fake.collections["course"] != 3 {
		t.Fatalf("collection size = %d, want 3", fake.collections["course"])
	}

	// second call sees the collection and leaves it alone
	if err := client.EnsureCollection(ctx, "course", 3); err != nil {
		t.Fatalf("EnsureCollection() second call error = %v", err)
	}
	if len(fake.collections) != 1 {
		t.Errorf("collections = %v, want exactly one", fake.collections)
	}
}

func TestUpsertPointOverwrites(t *testing.T) {
	client, fake := newTestClient(t)
	ctx := context.Background()

	if err := client.EnsureCollection(ctx, "course", 2); err != nil {
		t.Fatal(err)
	}

	id := PointID("vid-1")
	if err := client.UpsertPoint(ctx, "course", Point{ID: id, Vector: []float32{1, 2}}); err != nil {
		t.Fatalf("UpsertPoint() error = %v", err)
	}
	if err := client.UpsertPoint(ctx, "course", Point{ID: id, Vector: []float32{3, 4}}); err != nil {
		t.Fatalf("UpsertPoint() second call error = %v", err)
	}

	if len(fake.points["course"]) != 1 {
		t.Fatalf("points = %v, re-upserting the same id must not duplicate", fake.points["course"])
	}
	if got := fake.points["course"][id]; got[0] != 3 || got[1] != 4 {
		t.Errorf("point vector = %v, want the overwritten value", got)
	}
}

func TestDeletePointAndCollection(t *testing.T) {
	client, fake := newTestClient(t)
	ctx := context.Background()

	client.EnsureCollection(ctx, "course", 2)
	id := PointID("vid-1")
	client.UpsertPoint(ctx, "course", Point{ID: id, Vector: []float32{1, 2}})

	if err := client.DeletePoint(ctx, "course", id); err != nil {
		t.Fatalf("DeletePoint() error = %v", err)
	}
	if len(fake.points["course"]) != 0 {
		t.Error("point should be gone")
	}

	if err := client.DeleteCollection(ctx, "course"); err != nil {
		t.Fatalf("DeleteCollection() error = %v", err)
	}
	if _, ok := fake.collections["course"]; ok {
		t.Error("collection should be gone")
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	client, fake := newTestClient(t)
	fake.failures = 2

	exists, err := client.CollectionExists(context.Background(), "course")
	if err != nil {
		t.Fatalf("CollectionExists() should retry past transient 500s, got %v", err)
	}
	if exists {
		t.Error("collection should not exist")
	}
}
