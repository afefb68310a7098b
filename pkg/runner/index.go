package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/eflint/internal/logging"
	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/fsutil"
	"github.com/yaklabco/eflint/pkg/langdetect"
	"github.com/yaklabco/eflint/pkg/lint"
	"github.com/yaklabco/eflint/pkg/semantic"
)

// ModelSchema builds the entity schema configured in cfg.Model: the schema
// file (relative paths resolve against workDir) with inline entities merged
// over it. It returns nil when nothing is configured.
func ModelSchema(cfg *config.Config, workDir string) (*semantic.Schema, error) {
	if cfg == nil || (cfg.Model.Schema == "" && len(cfg.Model.Entities) == 0) {
		return nil, nil
	}

	schema := &semantic.Schema{Entities: make(map[string]semantic.Entity)}

	if path := cfg.Model.Schema; path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		loaded, err := semantic.LoadSchema(path)
		if err != nil {
			return nil, err
		}
		for name, entity := range loaded.Entities {
			schema.Entities[name] = entity
		}
	}

	for name, entity := range cfg.Model.Entities {
		schema.Entities[name] = semantic.Entity{
			Namespace:  entity.Namespace,
			Bases:      entity.Bases,
			Properties: entity.Properties,
		}
	}

	return schema, nil
}

// BuildIndex parses files in parallel and records their type declarations.
// It returns the index and, for each file, whether it should be linted:
// vendored and generated files are indexed only, unless includeGenerated.
// Files that cannot be read or parsed are left to the lint phase to report.
func BuildIndex(
	ctx context.Context,
	parser lint.Parser,
	files []string,
	jobs int,
	includeGenerated bool,
) (*semantic.Index, []bool, error) {
	start := time.Now()
	logger := logging.FromContext(ctx)

	index := semantic.NewIndex()
	lintable := make([]bool, len(files))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(max(jobs, 1))

	for i, path := range files {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			source, _, err := fsutil.ReadFile(gctx, path)
			if err != nil {
				lintable[i] = true
				return nil
			}

			kind := langdetect.Classify(path, source)
			lintable[i] = kind == langdetect.KindSource || includeGenerated
			if kind != langdetect.KindSource {
				logger.Debug("indexing without linting", logging.FieldPath, path, logging.FieldKind, kind.String())
			}

			snapshot, err := parser.Parse(gctx, path, source)
			if err != nil {
				lintable[i] = true
				return nil
			}
			index.AddFile(snapshot)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, nil, fmt.Errorf("index cancelled: %w", err)
	}

	logger.Debug("index built",
		logging.FieldFiles, len(files),
		logging.FieldTypesIndexed, index.Len(),
		logging.FieldDuration, time.Since(start))

	return index, lintable, nil
}
