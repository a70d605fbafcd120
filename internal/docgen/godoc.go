package docgen

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	ferrors "git.home.luguber.info/inful/docpublish/internal/foundation/errors"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
	"git.home.luguber.info/inful/docpublish/internal/workflow"
)

// GoDocGenerator documents the Go module found in the working directory.
type GoDocGenerator struct {
	outputDir  string
	title      string
	unexported bool
	exclude    []string
	logger     *slog.Logger
	now        func() time.Time
}

// GoDocOption configures a GoDocGenerator.
type GoDocOption func(*GoDocGenerator)

// WithTitle sets the site title used when the invocation does not give one.
func WithTitle(title string) GoDocOption {
	return func(g *GoDocGenerator) { g.title = title }
}

// WithUnexported documents unexported declarations by default.
func WithUnexported(on bool) GoDocOption {
	return func(g *GoDocGenerator) { g.unexported = on }
}

// WithExclude skips the given directories, relative to the working directory.
func WithExclude(dirs ...string) GoDocOption {
	return func(g *GoDocGenerator) { g.exclude = append(g.exclude, dirs...) }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) GoDocOption {
	return func(g *GoDocGenerator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithClock overrides the time source used for lastmod stamps.
func WithClock(now func() time.Time) GoDocOption {
	return func(g *GoDocGenerator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGoDocGenerator creates a generator writing to outputDir (relative to
// the working directory of each run).
func NewGoDocGenerator(outputDir string, opts ...GoDocOption) *GoDocGenerator {
	if outputDir == "" {
		outputDir = workflow.DefaultOutputDir
	}
	g := &GoDocGenerator{
		outputDir: outputDir,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate implements workflow.Generator.
func (g *GoDocGenerator) Generate(ctx context.Context, args []string, opts workflow.Options) error {
	flags, err := ParseFlags(args, Flags{Title: g.title, Unexported: g.unexported})
	if err != nil {
		return ferrors.ValidationError(err.Error()).Build()
	}

	root := opts.Dir
	if root == "" {
		root = "."
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve working directory").Build()
	}

	modulePath := readModulePath(root)
	title := flags.Title
	if title == "" {
		title = modulePath
	}

	outDir := g.outputPath(root)
	skip := slices.Clone(g.exclude)
	if rel, err := filepath.Rel(root, outDir); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		skip = append(skip, rel)
	}

	dirs, err := discoverPackageDirs(root, skip)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "scan module").
			WithContext("dir", root).Build()
	}
	dirs = matchPatterns(dirs, flags.Patterns)

	var pkgs []*packageDoc
	for _, rel := range dirs {
		p, err := loadPackage(ctx, root, rel, importPathFor(modulePath, rel), flags.Unexported)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return ferrors.WrapError(err, ferrors.CategoryGenerate, "load package").
				WithContext("package", rel).Build()
		}
		if p != nil {
			pkgs = append(pkgs, p)
		}
	}
	if len(pkgs) == 0 {
		return ferrors.NewError(ferrors.CategoryGenerate, "no Go packages found").
			WithContext("dir", root).Build()
	}

	pages := make([]string, 0, len(pkgs)+1)
	for _, p := range pkgs {
		body, err := packageMarkdown(p)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryGenerate, "render package").
				WithContext("package", p.Rel).Build()
		}
		fields := map[string]any{
			fieldTitle:      p.ImportPath,
			fieldPackage:    p.Doc.Name,
			fieldImportPath: p.ImportPath,
		}
		page := pagePath(p.Rel)
		if err := g.writePage(outDir, page, fields, body); err != nil {
			return err
		}
		pages = append(pages, htmlPath(page))
		g.logger.Debug("Documented package", logfields.Package(p.ImportPath), logfields.Path(page))
	}

	index := indexMarkdown(title, pkgs)
	if err := g.writePage(outDir, "index.md", map[string]any{fieldTitle: title}, index); err != nil {
		return err
	}
	pages = append(pages, "index.html")

	broken, err := verifyLinks(outDir, pages)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryGenerate, "verify links").Build()
	}
	if len(broken) > 0 {
		targets := make([]string, len(broken))
		for i, b := range broken {
			targets[i] = b.String()
		}
		return ferrors.NewError(ferrors.CategoryGenerate, "generated pages contain broken links").
			WithContext("links", strings.Join(targets, ", ")).Build()
	}

	g.logger.Info("Generated API documentation",
		slog.Int("packages", len(pkgs)),
		logfields.Output(outDir))
	return nil
}

// outputPath resolves the output directory; relative paths are taken from root.
func (g *GoDocGenerator) outputPath(root string) string {
	if filepath.IsAbs(g.outputDir) {
		return filepath.Clean(g.outputDir)
	}
	return filepath.Join(root, g.outputDir)
}

func htmlPath(mdPage string) string {
	return strings.TrimSuffix(mdPage, ".md") + ".html"
}

// writePage writes page (Markdown with front matter) and its HTML rendering.
func (g *GoDocGenerator) writePage(outDir, page string, fields map[string]any, body []byte) error {
	mdPath := filepath.Join(outDir, filepath.FromSlash(page))
	previous, err := readFrontMatter(mdPath)
	if err != nil {
		g.logger.Warn("Ignoring unreadable previous page", logfields.Path(mdPath), logfields.Error(err))
		previous = nil
	}
	if err := stampFrontMatter(fields, previous, body, g.now()); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryGenerate, "build front matter").
			WithContext("page", page).Build()
	}

	md, err := joinFrontMatter(fields, body)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryGenerate, "serialize front matter").
			WithContext("page", page).Build()
	}
	title, _ := fields[fieldTitle].(string)
	rendered, err := renderHTML(title, body)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryGenerate, "render HTML").
			WithContext("page", page).Build()
	}

	if err := os.MkdirAll(filepath.Dir(mdPath), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create output directory").WithContext("path", filepath.Dir(mdPath)).Build()
	}
	if err := writeIfChanged(mdPath, md); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write page").WithContext("path", mdPath).Build()
	}
	htmlFile := filepath.Join(outDir, filepath.FromSlash(htmlPath(page)))
	if err := writeIfChanged(htmlFile, rendered); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write page").WithContext("path", htmlFile).Build()
	}
	return nil
}

func readFrontMatter(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is inside the output directory
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	fields, _, err := splitFrontMatter(data)
	return fields, err
}

func writeIfChanged(path string, data []byte) error {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) { // #nosec G304 -- output path
		return nil
	}
	return os.WriteFile(path, data, 0o600)
}

// indexMarkdown lists every documented package, grouped by top-level directory.
func indexMarkdown(title string, pkgs []*packageDoc) []byte {
	caser := cases.Title(language.English)
	groups := map[string][]*packageDoc{}
	var order []string
	for _, p := range pkgs {
		group := ""
		if p.Rel != "." {
			group = strings.SplitN(p.Rel, "/", 2)[0]
		}
		if _, ok := groups[group]; !ok {
			order = append(order, group)
		}
		groups[group] = append(groups[group], p)
	}
	slices.Sort(order)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", title)
	for _, group := range order {
		heading := "Module"
		if group != "" {
			heading = caser.String(strings.NewReplacer("-", " ", "_", " ").Replace(group))
		}
		fmt.Fprintf(&buf, "## %s\n\n", heading)
		for _, p := range groups[group] {
			link := htmlPath(pagePath(p.Rel))
			fmt.Fprintf(&buf, "- [%s](%s)", p.ImportPath, link)
			if synopsis := p.Doc.Synopsis(p.Doc.Doc); synopsis != "" {
				fmt.Fprintf(&buf, ": %s", synopsis)
			}
			buf.WriteString("\n")
		}
		buf.WriteString("\n")
	}
	return buf.Bytes()
}
