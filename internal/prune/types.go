// Package prune scores stored memories and flags deletion candidates.
// It is a pure analysis engine: it never deletes anything and holds no
// state between runs. The caller supplies the memory snapshot, the
// current session id, and optional config overrides; the engine returns
// a ranked, reason-annotated candidate list.
package prune

// Importance is the caller-assigned value of a memory.
type Importance string

const (
	ImportanceLow      Importance = "low"
	ImportanceNormal   Importance = "normal"
	ImportanceHigh     Importance = "high"
	ImportanceCritical Importance = "critical"
)

// MemoryType is the display category a memory classifies into.
type MemoryType string

const (
	TypeKV      MemoryType = "kv"
	TypeNote    MemoryType = "note"
	TypeEpisode MemoryType = "episode"
)

// Memory is the engine's read-only view of a stored record.
// Timestamps are unix milliseconds; LastAccessed == 0 means the record
// was never explicitly recalled.
type Memory struct {
	ID           int64      `json:"id"`
	Content      string     `json:"content"`
	Tags         []string   `json:"tags,omitempty"`
	Importance   Importance `json:"importance"`
	SessionID    string     `json:"session_id,omitempty"`
	CreatedAt    int64      `json:"created_at"`
	UpdatedAt    int64      `json:"updated_at"`
	LastAccessed int64      `json:"last_accessed"`
}

// Reason is a human-readable justification for flagging a candidate.
type Reason string

const (
	ReasonStale            Reason = "stale"
	ReasonOrphanedPath     Reason = "orphaned_path"
	ReasonOrphanedBranch   Reason = "orphaned_branch"
	ReasonOldSession       Reason = "old_session"
	ReasonLowImportance    Reason = "low_importance"
	ReasonDuplicate        Reason = "duplicate"
	ReasonCompletedContext Reason = "completed_context"
	ReasonLowContent       Reason = "low_content"
)

// Risk is the display tier for a reason. It does not affect scoring.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Risk returns the fixed display tier for a reason: how likely deleting
// on this signal alone is to lose something still useful.
func (r Reason) Risk() Risk {
	switch r {
	case ReasonLowContent, ReasonDuplicate, ReasonStale, ReasonLowImportance:
		return RiskLow
	case ReasonOldSession, ReasonOrphanedPath, ReasonOrphanedBranch:
		return RiskMedium
	case ReasonCompletedContext:
		return RiskHigh
	default:
		return RiskMedium
	}
}

// Config controls a single analysis run.
type Config struct {
	StaleAgeDays        int     `json:"stale_age_days"`
	MinScoreThreshold   int     `json:"min_score_threshold"`
	CheckFiles          bool    `json:"check_files"`
	CheckBranches       bool    `json:"check_branches"`
	DetectDuplicates    bool    `json:"detect_duplicates"`
	DuplicateSimilarity float64 `json:"duplicate_similarity"`
	MinContentLength    int     `json:"min_content_length"`
}

// DefaultConfig returns the stock analysis configuration.
func DefaultConfig() Config {
	return Config{
		StaleAgeDays:        30,
		MinScoreThreshold:   30,
		CheckFiles:          true,
		CheckBranches:       true,
		DetectDuplicates:    true,
		DuplicateSimilarity: 0.8,
		MinContentLength:    10,
	}
}

// Overrides selectively replaces config defaults. Nil fields keep the
// default, so a caller can change one knob without restating the rest.
type Overrides struct {
	StaleAgeDays        *int     `json:"stale_age_days,omitempty"`
	MinScoreThreshold   *int     `json:"min_score_threshold,omitempty"`
	CheckFiles          *bool    `json:"check_files,omitempty"`
	CheckBranches       *bool    `json:"check_branches,omitempty"`
	DetectDuplicates    *bool    `json:"detect_duplicates,omitempty"`
	DuplicateSimilarity *float64 `json:"duplicate_similarity,omitempty"`
	MinContentLength    *int     `json:"min_content_length,omitempty"`
}

// Apply returns a copy of c with any non-nil override applied.
func (c Config) Apply(o *Overrides) Config {
	if o == nil {
		return c
	}
	if o.StaleAgeDays != nil {
		c.StaleAgeDays = *o.StaleAgeDays
	}
	if o.MinScoreThreshold != nil {
		c.MinScoreThreshold = *o.MinScoreThreshold
	}
	if o.CheckFiles != nil {
		c.CheckFiles = *o.CheckFiles
	}
	if o.CheckBranches != nil {
		c.CheckBranches = *o.CheckBranches
	}
	if o.DetectDuplicates != nil {
		c.DetectDuplicates = *o.DetectDuplicates
	}
	if o.DuplicateSimilarity != nil {
		c.DuplicateSimilarity = *o.DuplicateSimilarity
	}
	if o.MinContentLength != nil {
		c.MinContentLength = *o.MinContentLength
	}
	return c
}

// Candidate is a memory flagged as prunable. Selected is owned by the
// presentation layer; the engine initializes it to false and never
// touches it afterwards.
type Candidate struct {
	ID           int64      `json:"id"`
	Type         MemoryType `json:"type"`
	Summary      string     `json:"summary"`
	Content      string     `json:"content"`
	Reasons      []Reason   `json:"reasons"`
	Score        int        `json:"score"`
	CreatedAt    int64      `json:"created_at"`
	UpdatedAt    int64      `json:"updated_at"`
	LastAccessed int64      `json:"last_accessed"`
	Importance   Importance `json:"importance,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Paths        []string   `json:"paths,omitempty"`
	Branches     []string   `json:"branches,omitempty"`
	Selected     bool       `json:"selected"`
}

// Stats aggregates a completed analysis run.
type Stats struct {
	TotalByType        map[MemoryType]int `json:"total_by_type"`
	CandidatesByReason map[Reason]int     `json:"candidates_by_reason"`
	CandidatesByType   map[MemoryType]int `json:"candidates_by_type"`
	TotalCandidates    int                `json:"total_candidates"`
	ElapsedMs          int64              `json:"elapsed_ms"`
}

// Analysis is the result of one engine run. Candidates are sorted
// ascending by score, lowest (most prunable) first.
type Analysis struct {
	RunID            string       `json:"run_id"`
	Candidates       []*Candidate `json:"candidates"`
	Stats            Stats        `json:"stats"`
	CurrentSessionID string       `json:"current_session_id"`
	Timestamp        int64        `json:"timestamp"`
}
