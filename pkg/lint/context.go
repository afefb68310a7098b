package lint

import (
	"context"

	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/csast"
	"github.com/yaklabco/eflint/pkg/semantic"
)

// RuleContext provides all context needed by a rule to perform linting.
//
// RuleContext stores context.Context as a field (Ctx) rather than passing it
// as a method parameter. It is a short-lived parameter object created per
// rule invocation, so the Rule interface keeps a single Apply method while
// cancellation stays available through Cancelled.
type RuleContext struct {
	// Ctx is the context for cancellation and timeouts.
	Ctx context.Context

	// File is the parsed FileSnapshot.
	File *csast.FileSnapshot

	// Root is the syntax tree root (convenience alias for File.Root).
	Root *csast.Node

	// Model answers symbol questions about File.
	Model semantic.Model

	// Config is the resolved configuration.
	Config *config.Config

	// RuleConfig is the rule-specific configuration (may be nil).
	RuleConfig *config.RuleConfig

	// Registry provides access to the rule registry for name lookups.
	Registry *Registry

	sites     []CallSite
	failures  []*HostQueryError
	collected bool
}

// NewRuleContext creates a RuleContext for the given file and configuration.
func NewRuleContext(
	ctx context.Context,
	file *csast.FileSnapshot,
	model semantic.Model,
	cfg *config.Config,
	ruleCfg *config.RuleConfig,
) *RuleContext {
	var root *csast.Node
	if file != nil {
		root = file.Root
	}

	return &RuleContext{
		Ctx:        ctx,
		File:       file,
		Root:       root,
		Model:      model,
		Config:     cfg,
		RuleConfig: ruleCfg,
	}
}

// WithCallSites installs call sites collected elsewhere, so several rule
// contexts over one file share a single resolution pass.
func (rc *RuleContext) WithCallSites(sites []CallSite) *RuleContext {
	rc.sites = sites
	rc.collected = true
	return rc
}

// Cancelled returns true if the context has been cancelled.
func (rc *RuleContext) Cancelled() bool {
	select {
	case <-rc.Ctx.Done():
		return true
	default:
		return false
	}
}

// CallSites returns the resolved invocations of the file, collecting them on
// first use.
func (rc *RuleContext) CallSites() []CallSite {
	if !rc.collected {
		rc.sites, rc.failures = CollectCallSites(rc.Model, rc.Root)
		rc.collected = true
	}
	return rc.sites
}

// QueryFailures returns the host query failures seen while collecting call
// sites in this context.
func (rc *RuleContext) QueryFailures() []*HostQueryError {
	return rc.failures
}
