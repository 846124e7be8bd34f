package prune

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Engine runs prune analyses. It holds no per-run state; the prober is
// the only collaborator with side effects and is created fresh per run
// because it caches the repository's branch list.
type Engine struct {
	newProber func() Prober
}

// New creates an engine. newProber is called once per analysis run; a
// nil factory disables reference enrichment, which still yields a valid
// analysis.
func New(newProber func() Prober) *Engine {
	return &Engine{newProber: newProber}
}

// Request is the input to a single analysis run.
type Request struct {
	Memories  []Memory
	SessionID string
	Overrides *Overrides
	// Now fixes the analysis clock; zero means time.Now(). Identical
	// inputs with the same Now produce identical results.
	Now time.Time
}

// Analyze scores every memory, enriches surviving candidates with
// orphaned-reference checks, runs duplicate detection, and returns the
// candidate list sorted ascending by score. It never deletes anything
// and never fails: probe errors degrade to conservative defaults.
func (e *Engine) Analyze(ctx context.Context, req Request) *Analysis {
	start := time.Now()
	cfg := DefaultConfig().Apply(req.Overrides)

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	a := &analyzer{cfg: cfg, session: req.SessionID, now: now}

	var cands []*Candidate
	for _, m := range req.Memories {
		if c := a.analyzeMemory(m); c != nil {
			cands = append(cands, c)
		}
	}

	if e.newProber != nil && (cfg.CheckFiles || cfg.CheckBranches) {
		prober := e.newProber()
		for _, c := range cands {
			enrich(ctx, prober, cfg, c)
		}
	}

	if cfg.DetectDuplicates {
		markDuplicates(cands, cfg.DuplicateSimilarity)
	}

	// Lowest score first; ties break on id so runs are reproducible.
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score < cands[j].Score
		}
		return cands[i].ID < cands[j].ID
	})

	return &Analysis{
		RunID:            uuid.NewString(),
		Candidates:       cands,
		Stats:            buildStats(req.Memories, cands, time.Since(start)),
		CurrentSessionID: req.SessionID,
		Timestamp:        now.UnixMilli(),
	}
}

// enrich adds orphaned-reference reasons to one candidate. A probe
// failure affects only this candidate's checks, never the run.
func enrich(ctx context.Context, prober Prober, cfg Config, c *Candidate) {
	if cfg.CheckFiles {
		if paths := DetectFilePaths(c.Content); len(paths) > 0 {
			c.Paths = paths
			exists := prober.CheckPaths(ctx, paths)
			for _, p := range paths {
				if !exists[p] {
					c.Reasons = appendReason(c.Reasons, ReasonOrphanedPath)
					break
				}
			}
		}
	}

	if cfg.CheckBranches {
		if branches := DetectBranchRefs(c.Content); len(branches) > 0 {
			c.Branches = branches
			exists := prober.CheckBranches(ctx, branches)
			for _, b := range branches {
				if !exists[b] {
					c.Reasons = appendReason(c.Reasons, ReasonOrphanedBranch)
					break
				}
			}
		}
	}
}

// buildStats aggregates per-type totals over the full input set and
// per-reason/per-type counts over the candidates.
func buildStats(memories []Memory, cands []*Candidate, elapsed time.Duration) Stats {
	stats := Stats{
		TotalByType:        make(map[MemoryType]int),
		CandidatesByReason: make(map[Reason]int),
		CandidatesByType:   make(map[MemoryType]int),
		TotalCandidates:    len(cands),
		ElapsedMs:          elapsed.Milliseconds(),
	}

	for _, m := range memories {
		stats.TotalByType[classifyMemory(m)]++
	}
	for _, c := range cands {
		stats.CandidatesByType[c.Type]++
		for _, r := range c.Reasons {
			stats.CandidatesByReason[r]++
		}
	}
	return stats
}
