package lint

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/eflint/internal/logging"
	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/csast"
	"github.com/yaklabco/eflint/pkg/rewrite"
	"github.com/yaklabco/eflint/pkg/semantic"
)

// DefaultMaxFixPasses bounds the fix loop. Each pass applies one fix, so this
// is also the most fixes a single file receives per run.
const DefaultMaxFixPasses = 100

// ErrFixBrokeSyntax is returned when a fix would introduce syntax errors into
// a file that parsed cleanly.
var ErrFixBrokeSyntax = errors.New("fix introduced syntax errors")

// FileResult contains the results of linting a single file.
type FileResult struct {
	// Snapshot is the parsed file.
	Snapshot *csast.FileSnapshot

	// Diagnostics contains all issues found, in document order.
	Diagnostics []Diagnostic

	// QueryErrors lists nodes the semantic model could not answer for.
	QueryErrors []*HostQueryError

	// RuleErrors contains any errors from rule execution.
	RuleErrors map[string]error
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// IssueCount returns the total number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// FixableCount returns the number of diagnostics with fixes.
func (fr *FileResult) FixableCount() int {
	count := 0
	for _, d := range fr.Diagnostics {
		if d.HasFix() {
			count++
		}
	}
	return count
}

// FixOutcome is the result of a batch fix over one file.
type FixOutcome struct {
	// Snapshot is the final state of the file.
	Snapshot *csast.FileSnapshot

	// Applied is the number of fixes applied.
	Applied int

	// Passes is the number of lint passes performed.
	Passes int

	// Result is the lint result for Snapshot.
	Result *FileResult
}

// Engine coordinates parsing, symbol binding and rule execution.
type Engine struct {
	// Parser parses C# files into FileSnapshots.
	Parser Parser

	// Registry holds all available rules.
	Registry *Registry

	// Index is the project-wide type index. When nil, each file is bound
	// against an index of its own declarations.
	Index *semantic.Index
}

// NewEngine creates a new Engine with the given parser and registry.
func NewEngine(parser Parser, registry *Registry) *Engine {
	return &Engine{
		Parser:   parser,
		Registry: registry,
	}
}

// WithIndex sets the project index used for binding.
func (e *Engine) WithIndex(index *semantic.Index) *Engine {
	e.Index = index
	return e
}

// LintFile parses and lints a single file.
func (e *Engine) LintFile(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*FileResult, error) {
	snapshot, err := e.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return e.LintSnapshot(ctx, snapshot, cfg)
}

// LintSnapshot runs every enabled rule against a parsed file. Rules run
// concurrently over a shared, read-only set of call sites.
func (e *Engine) LintSnapshot(
	ctx context.Context,
	snapshot *csast.FileSnapshot,
	cfg *config.Config,
) (*FileResult, error) {
	result := &FileResult{
		Snapshot:   snapshot,
		RuleErrors: make(map[string]error),
	}

	model, err := e.bind(snapshot)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", snapshot.Path, err)
	}

	sites, failures := CollectCallSites(model, snapshot.Root)
	result.QueryErrors = failures
	logger := logging.FromContext(ctx)
	for _, failure := range failures {
		logger.Debug("symbol query failed", logging.FieldPath, failure.Path,
			logging.FieldLine, failure.Line, logging.FieldError, failure.Err)
	}

	resolved := ResolveRules(e.Registry, cfg)
	perRule := make([][]Diagnostic, len(resolved))
	ruleErrs := make([]error, len(resolved))

	group, gctx := errgroup.WithContext(ctx)
	for i, rr := range resolved {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			ruleCtx := NewRuleContext(gctx, snapshot, model, cfg, rr.Config).WithCallSites(sites)
			ruleCtx.Registry = e.Registry

			diags, err := rr.Rule.Apply(ruleCtx)
			if err != nil {
				ruleErrs[i] = err
				return nil
			}

			for j := range diags {
				diags[j].Severity = rr.Severity
				if diags[j].FilePath == "" {
					diags[j].FilePath = snapshot.Path
				}
				if diags[j].RuleName == "" {
					diags[j].RuleName = rr.Rule.Name()
				}
				diags[j].Fixable = diags[j].Fixable && rr.Rule.CanFix()
			}
			perRule[i] = diags
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return result, fmt.Errorf("linting cancelled: %w", err)
	}

	for i, rr := range resolved {
		if ruleErrs[i] != nil {
			result.RuleErrors[rr.Rule.ID()] = ruleErrs[i]
			continue
		}
		result.Diagnostics = append(result.Diagnostics, perRule[i]...)
	}
	slices.SortStableFunc(result.Diagnostics, func(a, b Diagnostic) int {
		if a.StartOffset != b.StartOffset {
			return a.StartOffset - b.StartOffset
		}
		return cmp.Compare(a.RuleID, b.RuleID)
	})

	return result, nil
}

// ApplyFix rewrites the call diag was reported on. It re-locates the call in
// snapshot by span start and method name, asks the rule for a plan, applies
// it as a unit and reparses. When the fix does not apply, the original
// snapshot is returned with applied=false.
func (e *Engine) ApplyFix(
	ctx context.Context,
	snapshot *csast.FileSnapshot,
	diag Diagnostic,
	cfg *config.Config,
) (_ *csast.FileSnapshot, applied bool, _ error) {
	if err := ctx.Err(); err != nil {
		return snapshot, false, fmt.Errorf("fix cancelled: %w", err)
	}

	rule, ok := e.Registry.Lookup(diag.RuleID)
	if !ok {
		return snapshot, false, fmt.Errorf("unknown rule %q", diag.RuleID)
	}
	fixer, ok := rule.(Fixer)
	if !ok || !rule.CanFix() {
		return snapshot, false, nil
	}

	call := LocateCall(snapshot, diag.StartOffset, diag.MethodName)
	if call == nil {
		return snapshot, false, nil
	}

	model, err := e.bind(snapshot)
	if err != nil {
		return snapshot, false, fmt.Errorf("bind %s: %w", snapshot.Path, err)
	}

	var ruleCfg *config.RuleConfig
	if cfg != nil {
		if rc, ok := cfg.Rules[rule.ID()]; ok {
			ruleCfg = &rc
		}
	}
	ruleCtx := NewRuleContext(ctx, snapshot, model, cfg, ruleCfg)
	ruleCtx.Registry = e.Registry

	plan, err := fixer.Fix(ruleCtx, call, &diag)
	switch {
	case errors.Is(err, rewrite.ErrUnresolvedSegment), errors.Is(err, rewrite.ErrNoAnchor):
		logging.FromContext(ctx).Debug("fix not applicable",
			logging.FieldRule, diag.RuleID, logging.FieldPath, snapshot.Path, logging.FieldError, err)
		return snapshot, false, nil
	case err != nil:
		return snapshot, false, fmt.Errorf("%s fix: %w", diag.RuleID, err)
	case plan == nil || plan.Empty():
		return snapshot, false, nil
	}

	content, err := plan.Apply()
	if err != nil {
		return snapshot, false, fmt.Errorf("%s fix: %w", diag.RuleID, err)
	}

	if err := ctx.Err(); err != nil {
		return snapshot, false, fmt.Errorf("fix cancelled: %w", err)
	}

	fixed, err := e.Parser.Parse(ctx, snapshot.Path, content)
	if err != nil {
		return snapshot, false, fmt.Errorf("reparse after %s fix: %w", diag.RuleID, err)
	}
	if fixed.HasErrors && !snapshot.HasErrors {
		return snapshot, false, fmt.Errorf("%s fix: %w", diag.RuleID, ErrFixBrokeSyntax)
	}

	return fixed, true, nil
}

// FixAll applies fixes one at a time, relinting after each, until no
// fixable diagnostic can be fixed or maxPasses is reached. Only rules with
// auto-fix enabled in cfg are fixed. Cancellation returns the original
// snapshot and no partial result.
func (e *Engine) FixAll(
	ctx context.Context,
	snapshot *csast.FileSnapshot,
	cfg *config.Config,
	maxPasses int,
) (*FixOutcome, error) {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxFixPasses
	}

	autoFix := make(map[string]bool)
	for _, rr := range ResolveRules(e.Registry, cfg) {
		autoFix[rr.Rule.ID()] = rr.AutoFix
	}

	logger := logging.FromContext(ctx)
	outcome := &FixOutcome{Snapshot: snapshot}
	current := snapshot

	for outcome.Passes < maxPasses {
		result, err := e.LintSnapshot(ctx, current, cfg)
		if err != nil {
			return &FixOutcome{Snapshot: snapshot}, err
		}
		outcome.Passes++
		outcome.Result = result

		fixed := false
		for _, diag := range result.Diagnostics {
			if !diag.Fixable || !autoFix[diag.RuleID] {
				continue
			}

			next, applied, err := e.ApplyFix(ctx, current, diag, cfg)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return &FixOutcome{Snapshot: snapshot}, fmt.Errorf("fix cancelled: %w", ctxErr)
			}
			if err != nil {
				logger.Warn("fix failed", logging.FieldRule, diag.RuleID, logging.FieldPath, diag.FilePath,
					logging.FieldLine, diag.StartLine, logging.FieldError, err)
				continue
			}
			if applied {
				current = next
				outcome.Applied++
				fixed = true
				break
			}
		}

		if !fixed {
			break
		}
	}

	// The last pass may have applied a fix without relinting.
	if outcome.Result == nil || outcome.Result.Snapshot != current {
		result, err := e.LintSnapshot(ctx, current, cfg)
		if err != nil {
			return &FixOutcome{Snapshot: snapshot}, err
		}
		outcome.Result = result
	}
	outcome.Snapshot = current

	return outcome, nil
}

func (e *Engine) bind(snapshot *csast.FileSnapshot) (*semantic.FileModel, error) {
	index := e.Index
	if index == nil {
		index = semantic.NewIndex()
		index.AddFile(snapshot)
	}
	return index.Bind(snapshot)
}
