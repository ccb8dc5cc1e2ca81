package utils

import (
	"path/filepath"
	"runtime"
)

// moduleRoot is the directory holding go.mod, derived from where this file was compiled.
func moduleRoot() string {
	//nolint:dogsled
	_, self, _, _ := runtime.Caller(0)
	root, err := filepath.Abs(filepath.Join(filepath.Dir(self), ".."))
	if err != nil {
		panic(err)
	}
	return root
}

// ResolveFile turns a path relative to the module root, such as "urdf/testurdf/biped.urdf", into
// an absolute one so that tests find their fixtures regardless of the package they run in.
func ResolveFile(rel string) string {
	return filepath.Join(moduleRoot(), filepath.FromSlash(rel))
}
