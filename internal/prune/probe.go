package prune

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Prober answers whether referenced paths and branches still exist.
// Both checks are best-effort and must not fail the analysis: a prober
// reports existence, never errors.
type Prober interface {
	// CheckPaths returns existence per candidate path. A path that
	// cannot be stat'ed counts as missing.
	CheckPaths(ctx context.Context, paths []string) map[string]bool

	// CheckBranches returns existence per candidate branch. If the
	// branch list cannot be obtained at all, every candidate counts as
	// existing — a missed orphan beats a false one.
	CheckBranches(ctx context.Context, branches []string) map[string]bool
}

// defaultGitTimeout bounds the single branch-listing subprocess call.
const defaultGitTimeout = 5 * time.Second

// SystemProber checks the real filesystem and the local git clone.
// The branch list is loaded at most once per prober, so a prober should
// be created fresh for each analysis run.
type SystemProber struct {
	WorkDir    string
	GitTimeout time.Duration

	branchOnce sync.Once
	branches   map[string]bool
	// branchListUnavailable marks the conservative fallback: the git
	// invocation failed (no git, not a repo, timeout) and all branch
	// candidates are reported as existing.
	branchListUnavailable bool
}

// NewSystemProber returns a prober rooted at workDir. An empty workDir
// means the process working directory.
func NewSystemProber(workDir string) *SystemProber {
	return &SystemProber{WorkDir: workDir, GitTimeout: defaultGitTimeout}
}

// CheckPaths stats each candidate, resolving relative paths against the
// prober's working directory. I/O errors exclude the path silently.
func (p *SystemProber) CheckPaths(ctx context.Context, paths []string) map[string]bool {
	result := make(map[string]bool, len(paths))
	for _, path := range paths {
		if ctx.Err() != nil {
			result[path] = false
			continue
		}
		resolved := path
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(p.WorkDir, resolved)
		}
		_, err := os.Stat(resolved)
		result[path] = err == nil
	}
	return result
}

// CheckBranches matches candidates against the repository's local and
// remote branch names, case-sensitively, with any origin/ prefix
// normalized away.
func (p *SystemProber) CheckBranches(ctx context.Context, branches []string) map[string]bool {
	p.branchOnce.Do(func() { p.loadBranches(ctx) })

	result := make(map[string]bool, len(branches))
	for _, b := range branches {
		if p.branchListUnavailable {
			result[b] = true
			continue
		}
		result[b] = p.branches[strings.TrimPrefix(b, "origin/")]
	}
	return result
}

func (p *SystemProber) loadBranches(ctx context.Context) {
	timeout := p.GitTimeout
	if timeout <= 0 {
		timeout = defaultGitTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "branch", "-a", "--format", "%(refname:short)")
	cmd.Dir = p.WorkDir
	out, err := cmd.Output()
	if err != nil {
		p.branchListUnavailable = true
		return
	}

	p.branches = make(map[string]bool)
	for _, line := range strings.Split(string(out), "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		p.branches[strings.TrimPrefix(name, "origin/")] = true
	}
}
