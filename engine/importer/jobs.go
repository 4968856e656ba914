package importer

import (
	"fmt"
	"sync"
)

// importJob is one queued import: the work itself plus the callbacks that
// consume its outcome.
type importJob struct {
	run        func() (*Result, error)
	onComplete func(result *Result)
	onFail     func(err error)
}

type jobQueue struct {
	numWorkers int
	jobs       chan importJob
	wg         sync.WaitGroup
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func newJobQueue(numWorkers int, channelSize int) (*jobQueue, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	jq := &jobQueue{
		numWorkers: numWorkers,
		jobs:       make(chan importJob, channelSize),
	}
	jq.start()

	return jq, nil
}

func (jq *jobQueue) start() {
	for i := 0; i < jq.numWorkers; i++ {
		jq.wg.Add(1)
		go func() {
			defer jq.wg.Done()
			for job := range jq.jobs {
				result, err := job.run()
				if err != nil {
					if job.onFail != nil {
						job.onFail(err)
					}
					continue
				}
				if job.onComplete != nil {
					job.onComplete(result)
				}
			}
		}()
	}
}

// submit queues the job. It blocks once the queue is full, which throttles
// callers that dispatch faster than the workers import.
func (jq *jobQueue) submit(job importJob) {
	jq.jobs <- job
}

// shutdown drains the queue and waits for in-flight imports to finish.
func (jq *jobQueue) shutdown() {
	close(jq.jobs)
	jq.wg.Wait()
}
