// Bazzite Sunshine Manager
// Copyright (c) 2026 The Bazzite Sunshine Manager Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Bazzite Sunshine Manager.
//
// Bazzite Sunshine Manager is free software: you can redistribute it and/or
// modify it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Bazzite Sunshine Manager is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Bazzite Sunshine Manager.  If not, see <http://www.gnu.org/licenses/>.

package sunshine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/wadiebs/bazzite-sunshine-manager/pkg/library"
)

const (
	// BackupTimeLayout is the timestamp embedded in backup names.
	BackupTimeLayout = "20060102-150405"

	defaultFileMode os.FileMode = 0o644
)

// ErrBackupFailed wraps any failure to write the pre-merge backup. When it
// is returned the target document has not been touched.
var ErrBackupFailed = errors.New("failed to back up apps document")

// Snapshot is the on-disk state of the document before a merge.
type Snapshot struct {
	// ParseErr is set when the file exists but could not be parsed; Doc is
	// then the skeleton.
	ParseErr error
	Doc      *Document
	Raw      []byte
	Mode     os.FileMode
	Exists   bool
}

// Result describes a completed Apply.
type Result struct {
	BackupPath string
	MergeStats
	// Recovered is true when an unparseable document was backed up and
	// replaced.
	Recovered bool
}

// Store owns one apps.json file for the duration of a merge. It is not
// safe to run two merges against the same file concurrently.
type Store struct {
	fs    afero.Fs
	clock clockwork.Clock
	path  string
	keep  int
}

// NewStore creates a store for the document at path. keep bounds how many
// backups are retained; zero keeps all of them.
func NewStore(fs afero.Fs, clock clockwork.Clock, path string, keep int) *Store {
	return &Store{fs: fs, clock: clock, path: path, keep: keep}
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document. A missing file yields the skeleton; an
// unparseable one yields the skeleton with ParseErr set. Any other read
// failure is returned.
func (s *Store) Load() (*Snapshot, error) {
	info, err := s.fs.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", s.path).Msg("apps document not found, starting from skeleton")
		return &Snapshot{Doc: NewDocument(), Mode: defaultFileMode}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat apps document: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("apps document %s is a directory", s.path)
	}

	raw, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read apps document: %w", err)
	}

	snap := &Snapshot{Raw: raw, Mode: info.Mode().Perm(), Exists: true}
	doc, err := Parse(raw)
	if err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("apps document is unparseable, it will be backed up and replaced")
		snap.ParseErr = err
		doc = NewDocument()
	}
	snap.Doc = doc
	return snap, nil
}

// Backup copies the snapshot's original bytes next to the document and
// prunes old backups. Nothing is written when no document existed.
func (s *Store) Backup(snap *Snapshot) (string, error) {
	if !snap.Exists {
		return "", nil
	}

	dir := filepath.Dir(s.path)
	base := filepath.Base(s.path) + "." + s.clock.Now().Format(BackupTimeLayout)
	name := filepath.Join(dir, base+".bak")
	for n := 1; ; n++ {
		exists, err := afero.Exists(s.fs, name)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrBackupFailed, err)
		}
		if !exists {
			break
		}
		name = filepath.Join(dir, fmt.Sprintf("%s-%d.bak", base, n))
	}

	if err := writeAtomic(s.fs, name, snap.Raw, snap.Mode); err != nil {
		return "", fmt.Errorf("%w: %w", ErrBackupFailed, err)
	}
	log.Info().Str("path", name).Msg("backed up apps document")

	s.prune()
	return name, nil
}

// Backups lists the timestamped backups this store wrote, oldest first.
// Other *.bak files next to the document are ignored.
func (s *Store) Backups() ([]string, error) {
	dir := filepath.Dir(s.path)
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	type backup struct {
		path  string
		stamp string
		n     int
	}
	prefix := filepath.Base(s.path) + "."
	var found []backup
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		stamp, n, ok := backupStamp(info.Name(), prefix)
		if !ok {
			continue
		}
		found = append(found, backup{path: filepath.Join(dir, info.Name()), stamp: stamp, n: n})
	}
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].stamp != found[j].stamp {
			return found[i].stamp < found[j].stamp
		}
		return found[i].n < found[j].n
	})
	out := make([]string, 0, len(found))
	for _, b := range found {
		out = append(out, b.path)
	}
	return out, nil
}

// backupStamp splits a backup name of the form
// <prefix><BackupTimeLayout>[-n].bak into its timestamp and collision
// counter. ok is false for any other name.
func backupStamp(name, prefix string) (stamp string, n int, ok bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".bak") {
		return "", 0, false
	}
	stem := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".bak")
	if len(stem) < len(BackupTimeLayout) {
		return "", 0, false
	}
	stamp = stem[:len(BackupTimeLayout)]
	if _, err := time.Parse(BackupTimeLayout, stamp); err != nil {
		return "", 0, false
	}
	suffix := stem[len(BackupTimeLayout):]
	if suffix == "" {
		return stamp, 0, true
	}
	digits, found := strings.CutPrefix(suffix, "-")
	if !found || digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return "", 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return "", 0, false
	}
	return stamp, n, true
}

func (s *Store) prune() {
	if s.keep <= 0 {
		return
	}
	backups, err := s.Backups()
	if err != nil {
		log.Warn().Err(err).Msg("failed to prune backups")
		return
	}
	for len(backups) > s.keep {
		if err := s.fs.Remove(backups[0]); err != nil {
			log.Warn().Err(err).Str("path", backups[0]).Msg("failed to remove old backup")
		} else {
			log.Debug().Str("path", backups[0]).Msg("removed old backup")
		}
		backups = backups[1:]
	}
}

// Save writes doc over the target atomically with the given file mode.
func (s *Store) Save(doc *Document, mode os.FileMode) error {
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	if err := writeAtomic(s.fs, s.path, data, mode); err != nil {
		return fmt.Errorf("failed to write apps document: %w", err)
	}
	return nil
}

// Apply runs one full merge: load, back up, merge and save. A failed
// backup aborts before anything is written.
func (s *Store) Apply(entries []library.Entry) (Result, error) {
	snap, err := s.Load()
	if err != nil {
		return Result{}, err
	}

	backup, err := s.Backup(snap)
	if err != nil {
		return Result{}, err
	}

	merged, stats, err := Merge(snap.Doc, entries)
	if err != nil {
		return Result{BackupPath: backup}, err
	}

	if err := s.Save(merged, snap.Mode); err != nil {
		return Result{BackupPath: backup}, err
	}

	res := Result{
		MergeStats: stats,
		BackupPath: backup,
		Recovered:  snap.ParseErr != nil,
	}
	log.Info().
		Str("path", s.path).
		Int("written", stats.Written).
		Int("added", stats.Added).
		Int("removed", stats.Removed).
		Int("preserved", stats.Preserved).
		Msg("updated apps document")
	return res, nil
}

// writeAtomic writes data to a temp file in path's directory, syncs it and
// renames it over path. The temp file is removed on any failure.
func writeAtomic(fs afero.Fs, path string, data []byte, mode os.FileMode) error {
	if mode == 0 {
		mode = defaultFileMode
	}
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		if rmErr := fs.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Warn().Err(rmErr).Str("path", tmpName).Msg("error removing temp file")
		}
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fail(fmt.Errorf("failed to write temp file: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fail(fmt.Errorf("failed to sync temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return fail(fmt.Errorf("failed to close temp file: %w", err))
	}
	if err := fs.Chmod(tmpName, mode); err != nil {
		return fail(fmt.Errorf("failed to set file mode: %w", err))
	}
	if err := fs.Rename(tmpName, path); err != nil {
		return fail(fmt.Errorf("failed to rename temp file: %w", err))
	}
	return nil
}
