package store

import (
	"reflect"
	"testing"
	"time"
)

func TestCreateAndGetMemory(t *testing.T) {
	db := testDB(t)

	m := &Memory{
		Content:    "decided to keep the retry budget at three attempts",
		Tags:       []string{"convention", "http"},
		Importance: "high",
		SessionID:  "sess-42",
	}
	if err := db.CreateMemory(m); err != nil {
		t.Fatalf("CreateMemory: %v", err)
	}
	if m.ID == 0 {
		t.Fatal("CreateMemory did not set id")
	}
	if m.CreatedAt == 0 || m.UpdatedAt == 0 {
		t.Error("timestamps not set on create")
	}

	got, err := db.GetMemory(m.ID)
	if err != nil {
		t.Fatalf("GetMemory: %v", err)
	}
	if got == nil {
		t.Fatal("GetMemory returned nil")
	}
	if got.Content != m.Content {
		t.Errorf("content = %q", got.Content)
	}
	if !reflect.DeepEqual(got.Tags, m.Tags) {
		t.Errorf("tags = %v, want %v", got.Tags, m.Tags)
	}
	if got.SessionID != "sess-42" {
		t.Errorf("session = %q", got.SessionID)
	}
	if got.LastAccessed != 0 {
		t.Errorf("last_accessed = %d, want 0 (never recalled)", got.LastAccessed)
	}
}

func TestCreateMemoryDefaults(t *testing.T) {
	db := testDB(t)

	m := &Memory{Content: "bare minimum record"}
	if err := db.CreateMemory(m); err != nil {
		t.Fatalf("CreateMemory: %v", err)
	}

	got, _ := db.GetMemory(m.ID)
	if got.Importance != "normal" {
		t.Errorf("importance = %q, want normal", got.Importance)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("tags = %#v, want empty slice", got.Tags)
	}
	if got.SessionID != "" {
		t.Errorf("session = %q, want empty", got.SessionID)
	}
}

func TestGetMemoryNotFound(t *testing.T) {
	db := testDB(t)

	got, err := db.GetMemory(9999)
	if err != nil {
		t.Fatalf("GetMemory: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestListMemoriesOrder(t *testing.T) {
	db := testDB(t)

	now := time.Now().UnixMilli()
	older := &Memory{Content: "older", CreatedAt: now - 2000, UpdatedAt: now - 2000}
	newer := &Memory{Content: "newer", CreatedAt: now - 1000, UpdatedAt: now - 1000}
	if err := db.CreateMemory(newer); err != nil {
		t.Fatal(err)
	}
	if err := db.CreateMemory(older); err != nil {
		t.Fatal(err)
	}

	memories, err := db.ListMemories()
	if err != nil {
		t.Fatalf("ListMemories: %v", err)
	}
	if len(memories) != 2 {
		t.Fatalf("len = %d, want 2", len(memories))
	}
	if memories[0].Content != "older" {
		t.Errorf("first = %q, want oldest update first", memories[0].Content)
	}
}

func TestUpdateMemory(t *testing.T) {
	db := testDB(t)

	m := &Memory{Content: "initial", UpdatedAt: 1000, CreatedAt: 1000}
	if err := db.CreateMemory(m); err != nil {
		t.Fatal(err)
	}

	m.Content = "revised"
	m.Tags = []string{"general"}
	m.Importance = "low"
	if err := db.UpdateMemory(m); err != nil {
		t.Fatalf("UpdateMemory: %v", err)
	}

	got, _ := db.GetMemory(m.ID)
	if got.Content != "revised" || got.Importance != "low" {
		t.Errorf("got %+v", got)
	}
	if got.UpdatedAt <= 1000 {
		t.Error("updated_at not bumped")
	}
}

func TestTouchMemory(t *testing.T) {
	db := testDB(t)

	m := &Memory{Content: "recallable"}
	if err := db.CreateMemory(m); err != nil {
		t.Fatal(err)
	}

	if err := db.TouchMemory(m.ID); err != nil {
		t.Fatalf("TouchMemory: %v", err)
	}

	got, _ := db.GetMemory(m.ID)
	if got.LastAccessed == 0 {
		t.Error("last_accessed still zero after touch")
	}
}

func TestDeleteMemories(t *testing.T) {
	db := testDB(t)

	var ids []int64
	for _, content := range []string{"a", "b", "c"} {
		m := &Memory{Content: content}
		if err := db.CreateMemory(m); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, m.ID)
	}

	deleted, err := db.DeleteMemories([]int64{ids[0], ids[2], 9999})
	if err != nil {
		t.Fatalf("DeleteMemories: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	count, _ := db.CountMemories()
	if count != 1 {
		t.Errorf("remaining = %d, want 1", count)
	}

	// Empty input is a no-op
	deleted, err = db.DeleteMemories(nil)
	if err != nil || deleted != 0 {
		t.Errorf("empty delete = (%d, %v), want (0, nil)", deleted, err)
	}
}

func TestMemoryView(t *testing.T) {
	m := Memory{
		ID:           7,
		Content:      "view me",
		Tags:         []string{"kv"},
		Importance:   "critical",
		SessionID:    "s1",
		CreatedAt:    100,
		UpdatedAt:    200,
		LastAccessed: 300,
	}

	v := m.View()
	if v.ID != 7 || v.Content != "view me" || string(v.Importance) != "critical" {
		t.Errorf("view = %+v", v)
	}
	if v.SessionID != "s1" || v.CreatedAt != 100 || v.UpdatedAt != 200 || v.LastAccessed != 300 {
		t.Errorf("view fields = %+v", v)
	}

	views := Views([]Memory{m, m})
	if len(views) != 2 {
		t.Errorf("views len = %d", len(views))
	}
}
