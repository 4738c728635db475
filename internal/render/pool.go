package render

import (
	"context"
	"sync"
)

// bandsPerWorker splits a frame finer than the worker count so a slow band
// does not hold up the whole frame.
const bandsPerWorker = 4

// band is a range of screen columns rendered by one worker.
type band struct {
	job    *frameJob
	x0, x1 int
	done   *sync.WaitGroup
}

// pool keeps its goroutines alive across frames.
type pool struct {
	bands   chan band
	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func newPool(workers int) *pool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &pool{
		bands:   make(chan band, workers*bandsPerWorker),
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
	}

	// Start worker goroutines
	for range workers {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case b := <-p.bands:
			b.job.columns(b.x0, b.x1)
			b.done.Done()
		case <-p.ctx.Done():
			return
		}
	}
}

// run splits width into disjoint column bands and returns once every band
// has been drawn.
func (p *pool) run(job *frameJob, width int) {
	n := min(p.workers*bandsPerWorker, width)
	var done sync.WaitGroup
	done.Add(n)
	for i := 0; i < n; i++ {
		p.bands <- band{
			job:  job,
			x0:   i * width / n,
			x1:   (i + 1) * width / n,
			done: &done,
		}
	}
	done.Wait()
}

// shutdown stops the workers. Bands already queued are dropped, so it must
// not race with run.
func (p *pool) shutdown() {
	p.cancel()
	p.wg.Wait()
}
