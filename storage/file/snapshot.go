package filestore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/feeledger/core/ledger"
)

// snapshotStore keeps the ledger in a single YAML document.
type snapshotStore struct {
	path string
}

var _ ledger.Persistence = (*snapshotStore)(nil) // interface compliance check

func NewSnapshotStore(path string) ledger.Persistence {
	return &snapshotStore{path: path}
}

func (store *snapshotStore) Load(_ context.Context) (ledger.Snapshot, error) {
	data, err := os.ReadFile(store.path)
	if err != nil {
		if os.IsNotExist(err) { // first run
			return ledger.Snapshot{}, nil
		}
		return ledger.Snapshot{}, errors.Wrapf(err, "reading %s", store.path)
	}

	var snap ledger.Snapshot
	if len(bytes.TrimSpace(data)) == 0 {
		return snap, nil
	}
	if err = yaml.Unmarshal(data, &snap); err != nil {
		return ledger.Snapshot{}, errors.Wrapf(err, "decoding %s", store.path)
	}
	return snap, nil
}

// Save writes to a temporary file then renames it over the previous snapshot.
func (store *snapshotStore) Save(ctx context.Context, snap ledger.Snapshot) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return errors.Wrap(err, "encoding snapshot")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "encoding snapshot")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(store.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(store.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temporary snapshot")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing snapshot")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "writing snapshot")
	}
	if err = os.Rename(tmp.Name(), store.path); err != nil {
		return errors.Wrapf(err, "replacing %s", store.path)
	}
	return nil
}
