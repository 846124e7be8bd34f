package prune

import (
	"math"
	"strings"
	"time"
)

const (
	dayMs           = 24 * 60 * 60 * 1000
	summaryMaxChars = 80
)

// analyzer scores a single memory against one run's config. A fixed
// clock makes runs reproducible in tests.
type analyzer struct {
	cfg     Config
	session string
	now     time.Time
}

// analyzeMemory returns a candidate for m, or nil when the record should
// be kept. Reference and duplicate reasons are added later by the
// orchestrator; this stage is pure arithmetic over the record itself.
func (a *analyzer) analyzeMemory(m Memory) *Candidate {
	nowMs := a.now.UnixMilli()
	days := float64(nowMs-m.UpdatedAt) / dayMs
	typ := classifyMemory(m)

	var reasons []Reason
	lowContent := len(strings.TrimSpace(m.Content)) < a.cfg.MinContentLength
	if lowContent {
		reasons = appendReason(reasons, ReasonLowContent)
	}
	if m.LastAccessed == 0 || days > float64(a.cfg.StaleAgeDays) {
		reasons = appendReason(reasons, ReasonStale)
	}
	// A same-day foreign-session record is not flagged: cross-session
	// handoffs within one working day are legitimate.
	if m.SessionID != "" && m.SessionID != a.session && days > 1 {
		reasons = appendReason(reasons, ReasonOldSession)
	}
	if typ == TypeNote && m.Importance == ImportanceLow && days > 14 {
		reasons = appendReason(reasons, ReasonLowImportance)
	}
	if hasTag(m, "archived") && days > 7 {
		reasons = appendReason(reasons, ReasonStale)
	}
	if (hasTag(m, "completed") || hasTag(m, "resolved")) && days > 1 {
		reasons = appendReason(reasons, ReasonCompletedContext)
	}

	score := scoreMemory(m, typ, nowMs)

	// High-value content is never pruned on staleness alone. Only
	// content-free junk or very old records get past this.
	protected := m.Importance == ImportanceHigh || m.Importance == ImportanceCritical
	if protected && days < 60 && !lowContent {
		return nil
	}

	if len(reasons) == 0 {
		if score >= a.cfg.MinScoreThreshold {
			return nil
		}
		// A low composite score alone is sufficient grounds, but the
		// candidate must still surface a readable reason.
		reasons = appendReason(reasons, ReasonStale)
	}

	return &Candidate{
		ID:           m.ID,
		Type:         typ,
		Summary:      summarize(m.Content),
		Content:      m.Content,
		Reasons:      reasons,
		Score:        score,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		LastAccessed: m.LastAccessed,
		Importance:   m.Importance,
		Tags:         m.Tags,
	}
}

// scoreMemory computes the 0-100 relevance score. Notes weigh caller
// importance heavily; episodes and kv entries are transient, so recency
// and access dominate instead.
func scoreMemory(m Memory, typ MemoryType, nowMs int64) int {
	iw := importanceWeight(m.Importance)
	rec := recencyFactor(float64(nowMs-m.UpdatedAt) / dayMs)
	acc := accessFactor(nowMs, m.LastAccessed, m.CreatedAt)

	var s float64
	if typ == TypeNote {
		s = 0.30*iw + 0.35*rec + 0.35*acc
	} else {
		s = 0.10*iw + 0.45*rec + 0.45*acc
	}
	return int(math.Round(s * 100))
}

func importanceWeight(imp Importance) float64 {
	switch imp {
	case ImportanceCritical:
		return 1.0
	case ImportanceHigh:
		return 0.8
	case ImportanceLow:
		return 0.2
	default:
		return 0.5
	}
}

// recencyFactor steps down as the record ages.
func recencyFactor(days float64) float64 {
	switch {
	case days <= 1:
		return 1.0
	case days <= 7:
		return 0.9
	case days <= 14:
		return 0.7
	case days <= 30:
		return 0.5
	case days <= 60:
		return 0.3
	case days <= 90:
		return 0.2
	default:
		return 0.1
	}
}

// accessFactor rewards records recalled recently relative to their total
// age. A record never recalled scores the floor; one not touched since
// near its creation scores low.
func accessFactor(nowMs, lastAccessed, createdAt int64) float64 {
	if lastAccessed == 0 {
		return 0.1
	}
	age := float64(nowMs - createdAt)
	if age <= 0 {
		return 1.0
	}
	f := 1.0 - float64(nowMs-lastAccessed)/age + 0.3
	if f < 0.1 {
		return 0.1
	}
	if f > 1.0 {
		return 1.0
	}
	return f
}

// appendReason adds r unless already present; the reason list is a set
// with stable insertion order.
func appendReason(reasons []Reason, r Reason) []Reason {
	for _, existing := range reasons {
		if existing == r {
			return reasons
		}
	}
	return append(reasons, r)
}

// summarize produces a single-line preview: first line of content,
// whitespace collapsed, truncated to 80 characters.
func summarize(content string) string {
	line := content
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.Join(strings.Fields(line), " ")
	if len(line) > summaryMaxChars {
		line = strings.TrimSpace(line[:summaryMaxChars]) + "..."
	}
	return line
}
