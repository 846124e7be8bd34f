package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mpeters/winnow/internal/prune"
	"github.com/mpeters/winnow/internal/store"
)

func TestCreateAndListMemories(t *testing.T) {
	srv, _ := testServer(t)

	body := `{"content":"prefer table tests in new packages","tags":["convention"],"importance":"high","session_id":"s1"}`
	req := httptest.NewRequest("POST", "/api/memories", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var created store.Memory
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID == 0 {
		t.Fatal("created memory has no id")
	}

	req = httptest.NewRequest("GET", "/api/memories", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list struct {
		Memories []store.Memory `json:"memories"`
		Count    int            `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &list)
	if list.Count != 1 || len(list.Memories) != 1 {
		t.Fatalf("count = %d, memories = %d", list.Count, len(list.Memories))
	}
	if list.Memories[0].Content != "prefer table tests in new packages" {
		t.Errorf("content = %q", list.Memories[0].Content)
	}
}

func TestCreateMemoryValidation(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("POST", "/api/memories", strings.NewReader(`{"tags":["kv"]}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing content: status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	req = httptest.NewRequest("POST", "/api/memories", strings.NewReader(`not json`))
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad json: status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestTouchMemory(t *testing.T) {
	srv, db := testServer(t)

	m := &store.Memory{Content: "recall target"}
	if err := db.CreateMemory(m); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/memories/%d/touch", m.ID), nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}

	got, _ := db.GetMemory(m.ID)
	if got.LastAccessed == 0 {
		t.Error("touch did not set last_accessed")
	}
}

func TestTouchMemoryBadID(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("POST", "/api/memories/abc/touch", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestDeleteMemories(t *testing.T) {
	srv, db := testServer(t)

	var ids []int64
	for _, content := range []string{"a", "b"} {
		m := &store.Memory{Content: content}
		if err := db.CreateMemory(m); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, m.ID)
	}

	body := fmt.Sprintf(`{"ids":[%d,%d]}`, ids[0], ids[1])
	req := httptest.NewRequest("POST", "/api/memories/delete", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	var resp map[string]int
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["deleted"] != 2 {
		t.Errorf("deleted = %d, want 2", resp["deleted"])
	}

	count, _ := db.CountMemories()
	if count != 0 {
		t.Errorf("remaining = %d, want 0", count)
	}
}

func TestDeleteMemoriesRequiresIDs(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("POST", "/api/memories/delete", strings.NewReader(`{"ids":[]}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAnalyzeRoute(t *testing.T) {
	srv, db := testServer(t)

	// One junk record and one healthy one
	if err := db.CreateMemory(&store.Memory{Content: "x"}); err != nil {
		t.Fatal(err)
	}
	healthy := &store.Memory{Content: "a healthy record with plenty of content", Tags: []string{"general"}}
	if err := db.CreateMemory(healthy); err != nil {
		t.Fatal(err)
	}
	if err := db.TouchMemory(healthy.ID); err != nil {
		t.Fatal(err)
	}

	body := `{"session_id":"sess-9"}`
	req := httptest.NewRequest("POST", "/api/prune/analyze", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}

	var analysis prune.Analysis
	if err := json.Unmarshal(w.Body.Bytes(), &analysis); err != nil {
		t.Fatalf("unmarshal analysis: %v", err)
	}
	if analysis.CurrentSessionID != "sess-9" {
		t.Errorf("session = %q", analysis.CurrentSessionID)
	}
	if len(analysis.Candidates) != 1 {
		t.Fatalf("candidates = %d, want 1", len(analysis.Candidates))
	}
	if analysis.Candidates[0].Content != "x" {
		t.Errorf("candidate content = %q", analysis.Candidates[0].Content)
	}
}

func TestAnalyzeRouteConfigOverride(t *testing.T) {
	srv, db := testServer(t)

	m := &store.Memory{Content: "twenty characters ok", Tags: []string{"general"}}
	if err := db.CreateMemory(m); err != nil {
		t.Fatal(err)
	}
	if err := db.TouchMemory(m.ID); err != nil {
		t.Fatal(err)
	}

	// Default config: healthy. Raised min content length: low_content.
	req := httptest.NewRequest("POST", "/api/prune/analyze", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	var analysis prune.Analysis
	json.Unmarshal(w.Body.Bytes(), &analysis)
	if len(analysis.Candidates) != 0 {
		t.Fatalf("default config candidates = %d, want 0", len(analysis.Candidates))
	}

	req = httptest.NewRequest("POST", "/api/prune/analyze",
		strings.NewReader(`{"config":{"min_content_length":50}}`))
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	json.Unmarshal(w.Body.Bytes(), &analysis)
	if len(analysis.Candidates) != 1 {
		t.Fatalf("raised threshold candidates = %d, want 1", len(analysis.Candidates))
	}
}
