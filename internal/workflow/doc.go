// Package workflow implements the generate-then-publish documentation workflow.
//
// A run performs at most two steps, strictly in order:
//
//  1. generate: build API documentation into the local output directory.
//  2. publish: push the output directory to the hosting branch.
//
// Before anything runs, the safeguard refuses to publish when the execution
// mode is "test" and the invocation does not carry --dry-run (or -d). The
// dry-run check is a plain membership test over the raw tokens so it cannot
// be affected by flag parsing. With dry-run the publish step is skipped and a
// notice is written to standard output instead.
//
// The first failing step ends the run and its error is returned unchanged.
// Nothing is retried and generated files are left in place when publishing
// fails.
package workflow
