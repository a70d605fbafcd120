// Package docgen generates API documentation for a Go module.
//
// GoDocGenerator reads every package below the working directory with
// go/parser and go/doc, writes one Markdown page per package (with YAML front
// matter carrying a stable uid and a content fingerprint) and renders each
// page to HTML. ExecGenerator hands the job to an external tool instead.
package docgen
