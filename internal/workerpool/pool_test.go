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

package workerpool_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dictkit/btreeidx/internal/workerpool"
)

func TestPool_runsAllJobs(t *testing.T) {
	t.Parallel()

	p := workerpool.New(4)

	var count int64
	var wg sync.WaitGroup
	const jobs = 100
	wg.Add(jobs)
	for i := 0; i < jobs; i++ {
		p.Submit(func() {
			defer wg.Done()
			atomic.AddInt64(&count, 1)
		})
	}
	wg.Wait()
	p.Close()

	if diff := cmp.Diff(int64(jobs), atomic.LoadInt64(&count)); diff != "" {
		t.Errorf("completed job count diff (-want +got):\n%s", diff)
	}
}

func TestPool_defaultsWorkerCount(t *testing.T) {
	t.Parallel()

	p := workerpool.New(0)
	done := make(chan struct{})
	p.Submit(func() { close(done) })
	<-done
	p.Close()
}
