// Package publish pushes a generated documentation directory to a static
// hosting branch, either through an installed publishing tool (gh-pages by
// default) or natively with go-git.
package publish
