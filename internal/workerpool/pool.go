// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package workerpool implements a small bounded goroutine pool. Async
// queries submit one job per call rather than spawning a goroutine
// directly, so a busy dictionary with many concurrent lookups doesn't
// unbound its goroutine count.
package workerpool

import (
	"runtime"
	"sync"
)

// Pool runs submitted jobs on a fixed number of long-lived worker
// goroutines. The zero value is not usable; call New.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup
}

// New starts a Pool with the given number of workers. A workers value
// of 0 or less defaults to runtime.GOMAXPROCS(0).
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{jobs: make(chan func())}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// Submit enqueues job to run on the next free worker. It blocks if
// every worker is busy.
func (p *Pool) Submit(job func()) {
	p.jobs <- job
}

// Close stops accepting new jobs and blocks until every in-flight job
// finishes and all workers exit. Submit must not be called after
// Close.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
