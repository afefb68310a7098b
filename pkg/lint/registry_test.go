package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/eflint/pkg/config"
	"github.com/yaklabco/eflint/pkg/lint"
)

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	reg := twoRuleRegistry()

	tests := []struct {
		key    string
		wantID string
	}{
		{"EF1000", "EF1000"},
		{"ef1000", "EF1000"},
		{"include-string-path", "EF1000"},
		{"Projection-Constructor", "EF1001"},
		{" EF1001 ", "EF1001"},
		{"EF1002", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			rule, ok := reg.Lookup(tt.key)
			if tt.wantID == "" {
				assert.False(t, ok)
				assert.Nil(t, rule)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantID, rule.ID())
		})
	}
}

func TestRegistry_RulesSortedByID(t *testing.T) {
	t.Parallel()

	reg := lint.NewRegistry()
	for _, id := range []string{"EF1002", "EF1000", "EF1001"} {
		reg.Register(newInfoRule(id, "", false, true))
	}

	assert.Equal(t, []string{"EF1000", "EF1001", "EF1002"}, reg.IDs())

	rules := reg.Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, "EF1002", rules[2].ID())
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	t.Parallel()

	reg := lint.NewRegistry()
	reg.Register(newInfoRule("EF1000", "old-name", false, true))
	reg.Register(newInfoRule("EF1000", "include-string-path", true, true))

	assert.Len(t, reg.Rules(), 1)

	_, ok := reg.Lookup("old-name")
	assert.False(t, ok, "replaced rule's name must not resolve")

	rule, ok := reg.Lookup("include-string-path")
	require.True(t, ok)
	assert.True(t, rule.CanFix())
}

func TestNewBaseRule(t *testing.T) {
	t.Parallel()

	base := lint.NewBaseRule(config.RuleInfo{
		ID:          "EF1001",
		Name:        "projection-constructor",
		Description: "Select should not construct objects",
		Tags:        []string{"usage"},
		Enabled:     true,
		CanFix:      true,
	})

	assert.Equal(t, "EF1001", base.ID())
	assert.Equal(t, "projection-constructor", base.Name())
	assert.Equal(t, "Select should not construct objects", base.Description())
	assert.Equal(t, []string{"usage"}, base.Tags())
	assert.True(t, base.DefaultEnabled())
	assert.True(t, base.CanFix())
	assert.Equal(t, config.SeverityWarning, base.DefaultSeverity(), "zero severity defaults to warning")

	info := base.Info()
	assert.Equal(t, config.SeverityWarning, info.Severity)
}
