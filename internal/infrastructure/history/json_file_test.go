package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/pkg/logger"
)

func sampleEntries() []domain.HistoryEntry {
	created := time.Date(2025, 3, 14, 9, 26, 53, 589000000, time.UTC)
	return []domain.HistoryEntry{
		{
			ID:        "1f0c6c1e-0000-4000-8000-000000000001",
			Prompt:    "find big files",
			Command:   "find . -size +100M",
			UseCount:  3,
			LastUsed:  created.Add(2 * time.Hour),
			CreatedAt: created,
		},
		{
			ID:        "1f0c6c1e-0000-4000-8000-000000000002",
			Prompt:    "용량 확인",
			Command:   "du -sh *",
			Alias:     "du",
			UseCount:  1,
			LastUsed:  created.Add(time.Minute),
			CreatedAt: created.Add(time.Minute),
		},
	}
}

func TestJSONFilePersisterRoundTrip(t *testing.T) {
	persister := NewJSONFilePersister(filepath.Join(t.TempDir(), "nested", "history.json"))
	want := sampleEntries()

	require.NoError(t, persister.Save(want))
	got, err := persister.Load()
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONFilePersisterDocumentLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	persister := NewJSONFilePersister(path)
	require.NoError(t, persister.Save(sampleEntries()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "1.0", raw["version"])

	commands, ok := raw["commands"].([]interface{})
	require.True(t, ok)
	require.Len(t, commands, 2)
	first := commands[0].(map[string]interface{})
	for _, key := range []string{"id", "prompt", "command", "use_count", "last_used", "created_at"} {
		assert.Contains(t, first, key)
	}
	assert.NotContains(t, first, "alias")
	assert.Equal(t, "du", commands[1].(map[string]interface{})["alias"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.SecureFilePermissions), info.Mode().Perm())
}

func TestJSONFilePersisterMissingFile(t *testing.T) {
	persister := NewJSONFilePersister(filepath.Join(t.TempDir(), "absent.json"))

	entries, err := persister.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJSONFilePersisterCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewJSONFilePersister(path).Load()
	assert.ErrorIs(t, err, domain.ErrPersistence)

	store := NewStore(NewJSONFilePersister(path), 5, logger.NewNop())
	assert.Equal(t, 0, store.Count())
}

func TestJSONFilePersisterWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := NewJSONFilePersister(filepath.Join(blocker, "history.json")).Save(sampleEntries())
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestStoreWithJSONFileSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	store := NewStore(NewJSONFilePersister(path), 3, logger.NewNop())
	_, err := store.Add("list", "ls -la", "ll")
	require.NoError(t, err)
	_, err = store.Add("list", "ls -la", "")
	require.NoError(t, err)

	reloaded := NewStore(NewJSONFilePersister(path), 3, logger.NewNop())
	entry, ok := reloaded.ByAlias("ll")
	require.True(t, ok)
	assert.Equal(t, 2, entry.UseCount)
}
