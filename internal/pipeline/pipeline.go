// Package pipeline orchestrates flowsmith runs: scanning a repository,
// deciding how the diagram should change, driving the LLM, and persisting
// the resulting artifact and run record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianshen/flowsmith/internal/artifact"
	"github.com/julianshen/flowsmith/internal/changemap"
	"github.com/julianshen/flowsmith/internal/config"
	"github.com/julianshen/flowsmith/internal/diagram"
	"github.com/julianshen/flowsmith/internal/integrations"
	"github.com/julianshen/flowsmith/internal/output"
	"github.com/julianshen/flowsmith/internal/prompt"
	"github.com/julianshen/flowsmith/internal/scan"
	"github.com/julianshen/flowsmith/internal/semdiff"
	"github.com/julianshen/flowsmith/internal/state"
	"github.com/julianshen/flowsmith/internal/update"
)

// Pipeline wires together the components of a single flowsmith run against
// one target repository.
type Pipeline struct {
	repoDir string
	cfg     *config.Config
	git     *integrations.GitRunner
	llm     semdiff.Completer
	store   *artifact.Store
	state   *state.Store
	meta    config.Metadata
}

// New creates a pipeline for repoDir. The state store may be nil, in which
// case runs are not recorded.
func New(repoDir string, cfg *config.Config, llm semdiff.Completer, st *state.Store) *Pipeline {
	return &Pipeline{
		repoDir: repoDir,
		cfg:     cfg,
		git:     integrations.NewGitRunner(repoDir),
		llm:     llm,
		store:   artifact.NewStore(filepath.Join(repoDir, cfg.Diagram.Artifact)),
		state:   st,
	}
}

// WithMetadata sets metadata overrides that take precedence over the
// repository's .flowsmith.yaml.
func (p *Pipeline) WithMetadata(md config.Metadata) *Pipeline {
	p.meta = md
	return p
}

// ArtifactPath returns the resolved diagram artifact location.
func (p *Pipeline) ArtifactPath() string {
	return p.store.Path()
}

// UpdateOptions tune a single Update run.
type UpdateOptions struct {
	// ForceFull skips the decision sequence and regenerates from scratch.
	ForceFull bool
	// BaseRef overrides the ref diffs are computed against. Empty means
	// the last recorded run's commit, falling back to the configured ref.
	BaseRef string
	// Threshold overrides the configured full-regeneration percentage.
	// Zero means use the configured value.
	Threshold float64
}

// Generate scans the repository and regenerates the diagram from scratch,
// regardless of any existing artifact.
func (p *Pipeline) Generate(ctx context.Context) (*output.Report, error) {
	start := time.Now()

	report, err := p.regenerate(ctx, "full regeneration requested")
	if err != nil {
		return nil, err
	}

	report.DurationMs = time.Since(start).Milliseconds()
	report.Commit = p.headCommit(ctx)
	p.recordRun(report)
	return report, nil
}

// Update brings an existing diagram in line with recent changes. Depending
// on change impact this is a no-op, an incremental patch of affected steps,
// or a full regeneration.
func (p *Pipeline) Update(ctx context.Context, opts UpdateOptions) (*output.Report, error) {
	start := time.Now()

	if !p.git.IsRepo(ctx) {
		return nil, fmt.Errorf("%s is not a git repository; use generate instead", p.repoDir)
	}
	head, err := p.git.Head(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := p.store.ReadMermaid()
	hasDiagram := err == nil
	if err != nil && !errors.Is(err, artifact.ErrNotFound) {
		return nil, err
	}

	// When there is nothing to patch the decision is full regeneration
	// regardless of what changed, so skip diff collection entirely.
	var (
		diffText   string
		changes    changemap.ChangeSet
		hasChanges bool
	)
	if hasDiagram && !opts.ForceFull {
		diffText, changes, hasChanges, err = p.collectChanges(ctx, head, opts.BaseRef)
		if err != nil {
			return nil, err
		}
	}

	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = p.cfg.Diagram.FullThreshold
	}
	dec := update.Decide(update.Input{
		ForceFull:     opts.ForceFull,
		HasDiagram:    hasDiagram,
		DiagramSource: existing,
		HasChanges:    hasChanges,
		Changes:       changes,
		Threshold:     threshold,
	})

	var report *output.Report
	switch dec.Mode {
	case update.ModeNoop:
		report = &output.Report{
			Mode:      string(dec.Mode),
			Reason:    dec.Reason,
			Tier:      string(dec.Tier),
			NodeCount: nodeCount(dec.Diagram),
		}

	case update.ModeIncremental:
		report, err = p.patch(ctx, existing, diffText, dec)
		if err != nil {
			return nil, err
		}

	default:
		report, err = p.regenerate(ctx, dec.Reason)
		if err != nil {
			return nil, err
		}
		report.Tier = string(dec.Tier)
		report.Percentage = dec.Percentage
		report.AffectedNodes = dec.AffectedNodes
	}

	report.Commit = head
	report.DurationMs = time.Since(start).Milliseconds()
	p.recordRun(report)
	return report, nil
}

// regenerate runs the full scan-prompt-write cycle and reports it with the
// given reason.
func (p *Pipeline) regenerate(ctx context.Context, reason string) (*output.Report, error) {
	files, err := scan.Scan(ctx, p.repoDir, p.cfg.Scan)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", p.repoDir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no supported source files found in %s", p.repoDir)
	}

	contextText := scan.BuildContext(files, p.cfg.Scan)
	promptText, err := prompt.BuildGenerate(contextText, p.metadataSection())
	if err != nil {
		return nil, err
	}

	response, err := p.llm.Complete(ctx, promptText)
	if err != nil {
		return nil, fmt.Errorf("generating diagram: %w", err)
	}

	mermaid := semdiff.StripFences(response)
	if err := p.store.WriteMermaid(mermaid); err != nil {
		return nil, err
	}

	return &output.Report{
		Mode:         string(update.ModeFull),
		Reason:       reason,
		Tier:         string(changemap.TierFull),
		Percentage:   100,
		NodeCount:    len(diagram.Parse(mermaid).Nodes),
		ArtifactPath: p.store.Path(),
	}, nil
}

// patch asks the LLM to rewrite only the affected step labels, then merges
// the response through the original diagram structure so the layout cannot
// drift. A patch that cannot be merged falls back to full regeneration.
func (p *Pipeline) patch(ctx context.Context, existing, diffText string, dec update.Decision) (*output.Report, error) {
	promptText, err := prompt.BuildIncremental(existing, diffText, dec.Contexts, p.metadataSection())
	if err != nil {
		return nil, err
	}

	response, err := p.llm.Complete(ctx, promptText)
	if err != nil {
		return nil, fmt.Errorf("patching diagram: %w", err)
	}

	merged, err := mergePatched(dec.Diagram, semdiff.StripFences(response), dec.AffectedNodes)
	if err == nil {
		err = p.store.WriteMermaid(merged)
	}
	if err != nil {
		log.Printf("WARNING: incremental patch failed (%v), regenerating from scratch", err)
		report, err := p.regenerate(ctx, "incremental patch failed - regenerating from scratch")
		if err != nil {
			return nil, err
		}
		report.AffectedNodes = dec.AffectedNodes
		return report, nil
	}

	return &output.Report{
		Mode:          string(update.ModeIncremental),
		Reason:        dec.Reason,
		Tier:          string(dec.Tier),
		Percentage:    dec.Percentage,
		AffectedNodes: dec.AffectedNodes,
		NodeCount:     nodeCount(dec.Diagram),
		ArtifactPath:  p.store.Path(),
	}, nil
}

// collectChanges works out what changed since the last run. When the last
// recorded run is already at HEAD there is nothing to do; otherwise the diff
// is classified by the LLM, falling back to direct diff parsing when that
// fails.
func (p *Pipeline) collectChanges(ctx context.Context, head, baseRefOverride string) (string, changemap.ChangeSet, bool, error) {
	baseRef := baseRefOverride
	if baseRef == "" {
		if p.state != nil {
			last, err := p.state.LastRun(p.repoDir)
			if err != nil {
				return "", changemap.ChangeSet{}, false, err
			}
			if last != nil {
				if last.Commit == head {
					return "", changemap.ChangeSet{}, false, nil
				}
				baseRef = last.Commit
			}
		}
		if baseRef == "" {
			baseRef = p.cfg.Diagram.BaseRef
		}
	}

	var (
		diffText     string
		changedFiles []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		diffText, err = p.git.Diff(gctx, baseRef)
		return err
	})
	g.Go(func() error {
		// Best effort; the diff itself carries the file list too.
		changedFiles, _ = p.git.ChangedFiles(gctx, baseRef)
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", changemap.ChangeSet{}, false, err
	}
	if strings.TrimSpace(diffText) == "" {
		return "", changemap.ChangeSet{}, false, nil
	}

	changes := p.classifyDiff(ctx, diffText)
	if changes.Legacy != nil && len(changes.Legacy.ChangedFiles) == 0 {
		changes.Legacy.ChangedFiles = changedFiles
	}

	return diffText, changes, true, nil
}

// classifyDiff prefers the LLM's structured classification and falls back to
// regex extraction from the raw diff.
func (p *Pipeline) classifyDiff(ctx context.Context, diffText string) changemap.ChangeSet {
	sem, err := semdiff.Parse(ctx, diffText, p.llm)
	if err == nil && len(sem.Changes) > 0 {
		return changemap.ChangeSet{Semantic: sem}
	}
	if err != nil {
		log.Printf("WARNING: semantic diff analysis failed (%v), falling back to diff parsing", err)
	}
	return changemap.ChangeSet{Legacy: changemap.ParseGitDiff(diffText)}
}

func (p *Pipeline) metadataSection() string {
	md, err := config.LoadMetadata(p.repoDir)
	if err != nil {
		log.Printf("WARNING: %v", err)
		md = config.Metadata{}
	}
	return prompt.MetadataSection(md.Overlay(p.meta))
}

func (p *Pipeline) headCommit(ctx context.Context) string {
	if !p.git.IsRepo(ctx) {
		return ""
	}
	head, err := p.git.Head(ctx)
	if err != nil {
		return ""
	}
	return head
}

func (p *Pipeline) recordRun(report *output.Report) {
	if p.state == nil {
		return
	}
	err := p.state.RecordRun(state.Run{
		RepoPath:      p.repoDir,
		Commit:        report.Commit,
		Mode:          report.Mode,
		Tier:          report.Tier,
		Percentage:    report.Percentage,
		AffectedCount: len(report.AffectedNodes),
		Reason:        report.Reason,
	})
	if err != nil {
		log.Printf("WARNING: recording run: %v", err)
	}
}

func nodeCount(d *diagram.Diagram) int {
	if d == nil {
		return 0
	}
	return len(d.Nodes)
}
