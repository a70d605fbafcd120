package workflow

import (
	"context"
	"sync"

	"git.home.luguber.info/inful/docpublish/internal/history"
)

// callLog records collaborator calls in order.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeGenerator struct {
	log      *callLog
	err      error
	gotArgs  []string
	gotOpts  Options
	panicMsg string
}

func (g *fakeGenerator) Generate(_ context.Context, args []string, opts Options) error {
	g.log.add("generate")
	g.gotArgs = args
	g.gotOpts = opts
	if g.panicMsg != "" {
		panic(g.panicMsg)
	}
	return g.err
}

type fakePublisher struct {
	log        *callLog
	prepareErr error
	publishErr error
	gotDir     string
	gotOpts    Options
}

func (p *fakePublisher) Prepare(_ context.Context, _ Options) error {
	p.log.add("prepare")
	return p.prepareErr
}

func (p *fakePublisher) Publish(_ context.Context, outputDir string, opts Options) error {
	p.log.add("publish")
	p.gotDir = outputDir
	p.gotOpts = opts
	return p.publishErr
}

type memoryRunLog struct {
	runs []history.Run
}

func (m *memoryRunLog) Append(_ context.Context, run history.Run) error {
	m.runs = append(m.runs, run)
	return nil
}
