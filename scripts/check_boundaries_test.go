package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, root string, rel string, imports ...string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	src := "package x\n\nimport (\n"
	for _, imp := range imports {
		src += "\t_ \"" + imp + "\"\n"
	}
	src += ")\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
}

func TestCollectViolations(t *testing.T) {
	t.Run("Happy path - layered service passes", func(t *testing.T) {
		root := t.TempDir()
		writeSource(t, root, "contest-engagement/vote-tally/domain/services/tally.go", "sort", "time")
		writeSource(t, root, "contest-engagement/vote-tally/ports/ports.go",
			"context",
			"spotlight/contexts/contest-engagement/vote-tally/domain/entities",
			"spotlight/internal/shared/outbox",
		)
		writeSource(t, root, "contest-engagement/vote-tally/application/commands/vote.go",
			"log/slog",
			"spotlight/contexts/contest-engagement/vote-tally/ports",
			"spotlight/internal/shared/events",
		)
		writeSource(t, root, "contest-engagement/vote-tally/adapters/postgres/repository.go",
			"gorm.io/gorm",
			"spotlight/internal/shared/outbox",
		)
		writeSource(t, root, "contest-engagement/vote-tally/module.go",
			"spotlight/contexts/contest-engagement/vote-tally/adapters/memory",
		)
		assert.Empty(t, collectViolations(root))
	})

	t.Run("Unhappy path - every broken rule is reported in file order", func(t *testing.T) {
		root := t.TempDir()
		writeSource(t, root, "contest-engagement/bonus-ledger/domain/entities/task.go",
			"github.com/google/uuid",
		)
		writeSource(t, root, "contest-engagement/bonus-ledger/application/commands/ledger.go",
			"spotlight/contexts/contest-engagement/vote-tally/ports",
			"spotlight/contexts/contest-engagement/bonus-ledger/adapters/memory",
			"spotlight/internal/platform/metrics",
		)
		writeSource(t, root, "contest-engagement/bonus-ledger/ports/ports.go",
			"spotlight/contexts/contest-engagement/bonus-ledger/application/commands",
		)

		violations := collectViolations(root)
		require.Len(t, violations, 5)

		rules := make([]string, 0, len(violations))
		for _, v := range violations {
			rules = append(rules, v.Rule)
		}
		assert.Equal(t, []string{
			"cross-service imports are forbidden",
			"application must not import adapters",
			"application must not import runtime infrastructure",
			"domain must only use the standard library",
			"ports import is outside explicit allowlist",
		}, rules)
		assert.Equal(t, 4, violations[0].Line)
	})

	t.Run("Unhappy path - unparsable file", func(t *testing.T) {
		root := t.TempDir()
		path := filepath.Join(root, "contest-engagement", "vote-tally", "ports", "broken.go")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("not go"), 0o644))

		violations := collectViolations(root)
		require.Len(t, violations, 1)
		assert.Equal(t, "file must parse", violations[0].Rule)
	})
}
