package publish

import (
	"os"
	"os/exec"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/docpublish/internal/foundation/errors"
)

// Resolver locates an executable by name.
type Resolver interface {
	ResolveExecutable(name string) (string, error)
}

// DefaultSearchPaths are consulted, relative to the working directory,
// before $GOBIN, $GOPATH/bin and $PATH.
var DefaultSearchPaths = []string{filepath.Join("node_modules", ".bin"), "bin"}

// PathResolver looks for executables in project-local directories first and
// falls back to the tool directories of the Go toolchain and $PATH.
type PathResolver struct {
	WorkDir     string
	SearchPaths []string
}

// ResolveExecutable implements Resolver.
func (r PathResolver) ResolveExecutable(name string) (string, error) {
	if filepath.IsAbs(name) || filepath.Base(name) != name {
		if isExecutable(name) {
			return name, nil
		}
		return "", notResolved(name, nil)
	}

	for _, dir := range r.candidateDirs() {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	p, err := exec.LookPath(name)
	if err != nil {
		return "", notResolved(name, err)
	}
	return p, nil
}

func (r PathResolver) candidateDirs() []string {
	search := r.SearchPaths
	if search == nil {
		search = DefaultSearchPaths
	}

	dirs := make([]string, 0, len(search)+2)
	for _, dir := range search {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(r.WorkDir, dir)
		}
		dirs = append(dirs, dir)
	}
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		dirs = append(dirs, gobin)
	}
	if gopath := os.Getenv("GOPATH"); gopath != "" {
		for _, p := range filepath.SplitList(gopath) {
			dirs = append(dirs, filepath.Join(p, "bin"))
		}
	}
	return dirs
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}

func notResolved(name string, cause error) error {
	return ferrors.WrapError(cause, ferrors.CategoryResolution, "publishing executable not found").
		WithContext("binary", name).
		UserAction().
		Build()
}

// StaticResolver resolves names from a fixed table.
type StaticResolver map[string]string

// ResolveExecutable implements Resolver.
func (s StaticResolver) ResolveExecutable(name string) (string, error) {
	if p, ok := s[name]; ok {
		return p, nil
	}
	return "", notResolved(name, nil)
}
