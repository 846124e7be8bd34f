package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mpeters/winnow/internal/prune"
)

// Memory is a stored free-text record: a note, an episodic log entry, or
// a key/value scratch item, distinguished by tags.
type Memory struct {
	ID           int64    `json:"id"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags,omitempty"`
	Importance   string   `json:"importance"`
	SessionID    string   `json:"session_id,omitempty"`
	CreatedAt    int64    `json:"created_at"`
	UpdatedAt    int64    `json:"updated_at"`
	LastAccessed int64    `json:"last_accessed"`
}

// View converts a stored record to the analysis engine's read-only view.
func (m Memory) View() prune.Memory {
	return prune.Memory{
		ID:           m.ID,
		Content:      m.Content,
		Tags:         m.Tags,
		Importance:   prune.Importance(m.Importance),
		SessionID:    m.SessionID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		LastAccessed: m.LastAccessed,
	}
}

// Views converts a memory snapshot for the analysis engine.
func Views(memories []Memory) []prune.Memory {
	out := make([]prune.Memory, len(memories))
	for i, m := range memories {
		out[i] = m.View()
	}
	return out
}

// CreateMemory inserts a new memory. Empty importance defaults to normal.
func (db *DB) CreateMemory(m *Memory) error {
	if m.Importance == "" {
		m.Importance = "normal"
	}
	tags, err := json.Marshal(tagsOrEmpty(m.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	now := time.Now().UnixMilli()
	if m.CreatedAt == 0 {
		m.CreatedAt = now
	}
	if m.UpdatedAt == 0 {
		m.UpdatedAt = now
	}

	result, err := db.Exec(`
		INSERT INTO memories (content, tags, importance, session_id, created_at, updated_at, last_accessed)
		VALUES (?, ?, ?, NULLIF(?, ''), ?, ?, ?)
	`, m.Content, string(tags), m.Importance, m.SessionID, m.CreatedAt, m.UpdatedAt, m.LastAccessed)
	if err != nil {
		return fmt.Errorf("create memory: %w", err)
	}

	id, _ := result.LastInsertId()
	m.ID = id
	return nil
}

// GetMemory returns a memory by id, or nil if not found.
func (db *DB) GetMemory(id int64) (*Memory, error) {
	row := db.QueryRow(`
		SELECT id, content, tags, importance, session_id, created_at, updated_at, last_accessed
		FROM memories WHERE id = ?
	`, id)

	m, err := scanMemory(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get memory %d: %w", id, err)
	}
	return m, nil
}

// ListMemories returns the full snapshot, oldest update first.
func (db *DB) ListMemories() ([]Memory, error) {
	rows, err := db.Query(`
		SELECT id, content, tags, importance, session_id, created_at, updated_at, last_accessed
		FROM memories ORDER BY updated_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()

	var memories []Memory
	for rows.Next() {
		m, err := scanMemory(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		memories = append(memories, *m)
	}
	return memories, rows.Err()
}

// UpdateMemory rewrites a memory's content, tags, and importance, and
// bumps updated_at.
func (db *DB) UpdateMemory(m *Memory) error {
	tags, err := json.Marshal(tagsOrEmpty(m.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	now := time.Now().UnixMilli()
	_, err = db.Exec(`
		UPDATE memories SET content = ?, tags = ?, importance = ?, updated_at = ?
		WHERE id = ?
	`, m.Content, string(tags), m.Importance, now, m.ID)
	if err != nil {
		return fmt.Errorf("update memory %d: %w", m.ID, err)
	}
	m.UpdatedAt = now
	return nil
}

// TouchMemory records an explicit recall (retrieval boost).
func (db *DB) TouchMemory(id int64) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`UPDATE memories SET last_accessed = ? WHERE id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("touch memory %d: %w", id, err)
	}
	return nil
}

// DeleteMemories removes the given records in one transaction and returns
// how many rows were deleted. This is the batch delete a human operator
// triggers after reviewing analysis candidates; the engine never calls it.
func (db *DB) DeleteMemories(ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin delete: %w", err)
	}

	deleted := 0
	for _, id := range ids {
		result, err := tx.Exec("DELETE FROM memories WHERE id = ?", id)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("delete memory %d: %w", id, err)
		}
		n, _ := result.RowsAffected()
		deleted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete: %w", err)
	}
	return deleted, nil
}

// CountMemories returns the total number of stored records.
func (db *DB) CountMemories() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM memories").Scan(&count)
	return count, err
}

func scanMemory(scan func(...any) error) (*Memory, error) {
	var m Memory
	var tags string
	var sessionID sql.NullString
	if err := scan(&m.ID, &m.Content, &tags, &m.Importance, &sessionID,
		&m.CreatedAt, &m.UpdatedAt, &m.LastAccessed); err != nil {
		return nil, err
	}
	m.SessionID = sessionID.String
	if err := json.Unmarshal([]byte(tags), &m.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return &m, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
