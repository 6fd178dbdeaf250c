package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/pkg/filesystem"
	"github.com/doeshing/aicmd/internal/ports"
)

// JSONFilePersister keeps the history as a single versioned JSON document.
type JSONFilePersister struct {
	path string
}

// NewJSONFilePersister stores history at path, defaulting to ~/.aicmd/history.json.
func NewJSONFilePersister(path string) *JSONFilePersister {
	if path == "" {
		path = filesystem.AppPath("history.json")
	}
	return &JSONFilePersister{path: filesystem.ExpandHome(path)}
}

// Path returns the backing file path.
func (p *JSONFilePersister) Path() string {
	return p.path
}

// Load implements ports.HistoryPersister. A missing file is an empty history.
func (p *JSONFilePersister) Load() ([]domain.HistoryEntry, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewPersistenceError("load history", fmt.Sprintf("cannot read %s", p.path), err)
	}

	var doc domain.HistoryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.NewPersistenceError("load history", fmt.Sprintf("malformed history file %s", p.path), err)
	}
	return doc.Commands, nil
}

// Save implements ports.HistoryPersister. The document is written to a
// temporary file in the same directory and renamed over the old one.
func (p *JSONFilePersister) Save(entries []domain.HistoryEntry) error {
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	data, err := json.MarshalIndent(domain.HistoryDocument{
		Version:  domain.HistoryFormatVersion,
		Commands: entries,
	}, "", "  ")
	if err != nil {
		return domain.NewPersistenceError("save history", "cannot encode history", err)
	}

	if err := filesystem.EnsureParentDir(p.path); err != nil {
		return domain.NewPersistenceError("save history", "cannot create history directory", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".history-*.json")
	if err != nil {
		return domain.NewPersistenceError("save history", "cannot write history", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return domain.NewPersistenceError("save history", "cannot write history", err)
	}
	if err := tmp.Chmod(domain.SecureFilePermissions); err != nil {
		tmp.Close()
		return domain.NewPersistenceError("save history", "cannot write history", err)
	}
	if err := tmp.Close(); err != nil {
		return domain.NewPersistenceError("save history", "cannot write history", err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		return domain.NewPersistenceError("save history", fmt.Sprintf("cannot replace %s", p.path), err)
	}
	return nil
}

var _ ports.HistoryPersister = (*JSONFilePersister)(nil)
