// Package storage lays retrieved files out on the local filesystem and
// writes a JSON sidecar recording where each file came from. Writes are
// atomic (write to a .tmp path, then rename) and every save computes a
// sha256 digest recorded in the sidecar.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/czajorlukasz/fiskread/fsperr"
)

// Meta is the sidecar metadata written alongside every saved file, at
// <saved path>.meta.json.
type Meta struct {
	OriginalPath string `json:"original_path"`
	SavedPath    string `json:"saved_path"` // absolute
	Size         int    `json:"size"`
	SHA256       string `json:"sha256"`
	SavedAt      string `json:"saved_at"`
}

// Sink writes retrieved files under Root/LocationID/DevicePrefix/<remote
// path>, mirroring the remote archive's own directory structure.
type Sink struct {
	Root         string
	LocationID   string
	DevicePrefix string
}

// New returns a Sink rooted at root, namespaced by locationID and
// devicePrefix.
func New(root, locationID, devicePrefix string) *Sink {
	return &Sink{Root: root, LocationID: locationID, DevicePrefix: devicePrefix}
}

// TargetPath returns the local path a remote path would be saved to,
// without touching the filesystem.
func (s *Sink) TargetPath(remotePath string) string {
	parts := strings.Split(strings.Trim(remotePath, "/"), "/")
	segs := append([]string{s.Root, s.LocationID, s.DevicePrefix}, parts...)
	return filepath.Join(segs...)
}

// Save writes data to the local path derived from remotePath, atomically,
// then writes a .meta.json sidecar describing the save. It returns the
// written Meta.
func (s *Sink) Save(remotePath string, data []byte) (Meta, error) {
	target := s.TargetPath(remotePath)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Meta{}, fsperr.New(fsperr.KindStorage, "storage.Save", target, err)
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Meta{}, fsperr.New(fsperr.KindStorage, "storage.Save", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return Meta{}, fsperr.New(fsperr.KindStorage, "storage.Save", target, err)
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return Meta{}, fsperr.New(fsperr.KindStorage, "storage.Save", target, err)
	}

	sum := sha256.Sum256(data)
	meta := Meta{
		OriginalPath: remotePath,
		SavedPath:    absTarget,
		Size:         len(data),
		SHA256:       hex.EncodeToString(sum[:]),
		SavedAt:      time.Now().UTC().Format("2006-01-02T15:04:05"),
	}

	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return Meta{}, fsperr.New(fsperr.KindStorage, "storage.Save", target+".meta.json", err)
	}
	if err := os.WriteFile(target+".meta.json", metaBytes, 0o644); err != nil {
		return Meta{}, fsperr.New(fsperr.KindStorage, "storage.Save", target+".meta.json", err)
	}
	return meta, nil
}

// Exists reports whether remotePath has already been saved, so a
// resumed run can skip it.
func (s *Sink) Exists(remotePath string) bool {
	_, err := os.Stat(s.TargetPath(remotePath))
	return err == nil
}
