package ingest

import (
	"context"
	"sort"
	"sync"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 64
)

// job is one sanitized file ready to submit.
type job struct {
	rel      string
	content  string
	modified string
}

// pool fans file submissions out to a fixed set of workers so one slow
// platform round trip does not stall the rest of the run.
type pool struct {
	ctx    context.Context
	ing    *Ingester
	source string
	queue  chan job
	wg     sync.WaitGroup

	mu     sync.Mutex
	result *Result
}

// newPool starts the worker goroutines. The caller submits jobs and then
// calls wait to drain the queue and collect the tallies.
func newPool(ctx context.Context, ing *Ingester, source string, workers uint, result *Result) *pool {
	if workers == 0 {
		workers = defaultNumWorkers
	}

	p := &pool{
		ctx:    ctx,
		ing:    ing,
		source: source,
		queue:  make(chan job, defaultJobQueueSize),
		result: result,
	}

	for range workers {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

func (p *pool) submit(j job) {
	p.queue <- j
}

// wait closes the queue, blocks until every submitted job has finished,
// and leaves FailedFiles in a stable order.
func (p *pool) wait() {
	close(p.queue)
	p.wg.Wait()
	sort.Strings(p.result.FailedFiles)
}

func (p *pool) worker() {
	defer p.wg.Done()

	for j := range p.queue {
		err := p.ing.addOne(p.ctx, p.source, j.rel, j.content, j.modified)

		p.mu.Lock()
		if err != nil {
			p.result.Failed++
			p.result.FailedFiles = append(p.result.FailedFiles, j.rel)
		} else {
			p.result.Ingested++
		}
		p.mu.Unlock()

		if err != nil {
			p.ing.log.Warn("failed to ingest file", "file", j.rel, "error", err)
		} else {
			p.ing.log.Info("ingested file", "file", j.rel, "bytes", len(j.content))
		}
	}
}
