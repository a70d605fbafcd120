package docgen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/doc"
	"go/format"
	"path"
	"strings"
)

// pagePath is the slash-separated location of a package page below the
// output directory.
func pagePath(rel string) string {
	if rel == "." {
		return "pkg/index.md"
	}
	return path.Join("pkg", rel, "index.md")
}

// rootPrefix is the relative path from a page back to the output root.
func rootPrefix(page string) string {
	depth := strings.Count(path.Dir(page), "/") + 1
	if path.Dir(page) == "." {
		depth = 0
	}
	return strings.Repeat("../", depth)
}

// packageMarkdown renders the Markdown body of a package page.
func packageMarkdown(p *packageDoc) ([]byte, error) {
	var buf bytes.Buffer
	pkg := p.Doc
	printer := pkg.Printer()
	printer.HeadingLevel = 3

	fmt.Fprintf(&buf, "# Package %s\n\n", pkg.Name)
	fmt.Fprintf(&buf, "```go\nimport %q\n```\n\n", p.ImportPath)
	fmt.Fprintf(&buf, "[Index](%sindex.html)\n\n", rootPrefix(pagePath(p.Rel)))

	if pkg.Doc != "" {
		buf.Write(printer.Markdown(pkg.Parser().Parse(pkg.Doc)))
		buf.WriteString("\n")
	}

	w := &declWriter{buf: &buf, p: p}
	if len(pkg.Consts) > 0 {
		buf.WriteString("## Constants\n\n")
		w.values(pkg.Consts)
	}
	if len(pkg.Vars) > 0 {
		buf.WriteString("## Variables\n\n")
		w.values(pkg.Vars)
	}
	if len(pkg.Funcs) > 0 {
		buf.WriteString("## Functions\n\n")
		for _, fn := range pkg.Funcs {
			w.fn("###", fn)
		}
	}
	if len(pkg.Types) > 0 {
		buf.WriteString("## Types\n\n")
		for _, t := range pkg.Types {
			fmt.Fprintf(&buf, "### type %s\n\n", t.Name)
			w.decl(t.Decl)
			w.comment(t.Doc)
			w.values(t.Consts)
			w.values(t.Vars)
			for _, fn := range t.Funcs {
				w.fn("####", fn)
			}
			for _, m := range t.Methods {
				w.fn("####", m)
			}
		}
	}
	if w.err != nil {
		return nil, w.err
	}
	return buf.Bytes(), nil
}

type declWriter struct {
	buf *bytes.Buffer
	p   *packageDoc
	err error
}

func (w *declWriter) values(values []*doc.Value) {
	for _, v := range values {
		w.decl(v.Decl)
		w.comment(v.Doc)
	}
}

func (w *declWriter) fn(level string, fn *doc.Func) {
	if fn.Recv != "" {
		fmt.Fprintf(w.buf, "%s func (%s) %s\n\n", level, fn.Recv, fn.Name)
	} else {
		fmt.Fprintf(w.buf, "%s func %s\n\n", level, fn.Name)
	}
	w.decl(fn.Decl)
	w.comment(fn.Doc)
}

func (w *declWriter) decl(node ast.Node) {
	if w.err != nil || node == nil {
		return
	}
	var code bytes.Buffer
	if err := format.Node(&code, w.p.Fset, node); err != nil {
		w.err = fmt.Errorf("format declaration in %s: %w", w.p.ImportPath, err)
		return
	}
	w.buf.WriteString("```go\n")
	w.buf.Write(code.Bytes())
	w.buf.WriteString("\n```\n\n")
}

func (w *declWriter) comment(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	printer := w.p.Doc.Printer()
	printer.HeadingLevel = 5
	w.buf.Write(printer.Markdown(w.p.Doc.Parser().Parse(text)))
	w.buf.WriteString("\n")
}
