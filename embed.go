// Package phonebook provides the embedded sample bulk-load file and an
// overlay filesystem that checks local disk first, falling back to embedded.
package phonebook

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed seed/init_data.txt
var rawSeed embed.FS

// SeedFile is the name of the sample bulk-load file inside Seed.
const SeedFile = "init_data.txt"

// Seed is the embedded seed filesystem with the "seed/" prefix stripped.
var Seed = mustSub(rawSeed, "seed")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// OverlayFS returns a filesystem that checks localDir on disk first,
// falling back to the embedded filesystem for files not found locally.
func OverlayFS(localDir string, embedded fs.FS) fs.FS {
	return overlayFS{localDir: localDir, embedded: embedded}
}

type overlayFS struct {
	localDir string
	embedded fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := os.Open(filepath.Join(o.localDir, name))
	if err == nil {
		return f, nil
	}
	return o.embedded.Open(name)
}

// SeedFS resolves a configured seed path to a filesystem and file name:
// the file on disk when it exists, otherwise the embedded sample of the
// same base name.
func SeedFS(path string) (fs.FS, string) {
	return OverlayFS(filepath.Dir(path), Seed), filepath.Base(path)
}
