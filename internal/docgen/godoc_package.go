package docgen

import (
	"context"
	stderrors "errors"
	"fmt"
	"go/ast"
	"go/build"
	"go/doc"
	"go/parser"
	"go/token"
	"path/filepath"
)

// packageDoc is one parsed package ready to be rendered.
type packageDoc struct {
	// Rel is the slash-separated directory relative to the module root.
	Rel        string
	ImportPath string
	Doc        *doc.Package
	Fset       *token.FileSet
}

// loadPackage parses the non-test Go files selected by the default build
// context in root/rel. It returns nil without error when the directory has
// no buildable files for the current platform.
func loadPackage(ctx context.Context, root, rel, importPath string, unexported bool) (*packageDoc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Join(root, filepath.FromSlash(rel))
	bp, err := build.Default.ImportDir(dir, 0)
	if err != nil {
		var noGo *build.NoGoError
		if stderrors.As(err, &noGo) {
			return nil, nil
		}
		return nil, fmt.Errorf("import %s: %w", rel, err)
	}
	if len(bp.GoFiles) == 0 {
		return nil, nil
	}

	fset := token.NewFileSet()
	files := make([]*ast.File, 0, len(bp.GoFiles))
	for _, name := range bp.GoFiles {
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.ToSlash(filepath.Join(rel, name)), err)
		}
		files = append(files, f)
	}

	var mode doc.Mode
	if unexported {
		mode |= doc.AllDecls
	}
	pkg, err := doc.NewFromFiles(fset, files, importPath, mode)
	if err != nil {
		return nil, fmt.Errorf("extract documentation for %s: %w", rel, err)
	}

	return &packageDoc{Rel: rel, ImportPath: importPath, Doc: pkg, Fset: fset}, nil
}
