package fsutil_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/eflint/pkg/fsutil"
)

func TestBackupPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a/Query.cs.eflint.bak", fsutil.BackupPath("a/Query.cs", fsutil.BackupModeSidecar))
	assert.Equal(t, "a/Query.cs.eflint.bak", fsutil.BackupPath("a/Query.cs", "weird"))
	assert.Empty(t, fsutil.BackupPath("a/Query.cs", fsutil.BackupModeNone))
}

func TestDefaultBackupConfig(t *testing.T) {
	t.Parallel()

	cfg := fsutil.DefaultBackupConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, fsutil.BackupModeSidecar, cfg.Mode)
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	enabled := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	t.Run("copies raw bytes", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "\xEF\xBB\xBFclass C {}")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		created, err := fsutil.CreateBackup(ctx, info, enabled)
		require.NoError(t, err)
		assert.True(t, created)

		got, err := os.ReadFile(fsutil.BackupPath(path, enabled.Mode))
		require.NoError(t, err)
		assert.Equal(t, "\xEF\xBB\xBFclass C {}", string(got))
	})

	t.Run("keeps first backup", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "second")
		require.NoError(t, os.WriteFile(path+fsutil.BackupSuffix, []byte("first"), 0o644))
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		created, err := fsutil.CreateBackup(ctx, info, enabled)
		require.NoError(t, err)
		assert.False(t, created)

		got, err := os.ReadFile(path + fsutil.BackupSuffix)
		require.NoError(t, err)
		assert.Equal(t, "first", string(got))
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "x")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		for _, cfg := range []fsutil.BackupConfig{
			fsutil.DefaultBackupConfig(),
			{Enabled: true, Mode: fsutil.BackupModeNone},
		} {
			created, err := fsutil.CreateBackup(ctx, info, cfg)
			require.NoError(t, err)
			assert.False(t, created)
		}
		_, err = os.Stat(path + fsutil.BackupSuffix)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()
		_, err := fsutil.CreateBackup(ctx, nil, enabled)
		require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})
}
