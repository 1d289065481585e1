package instanced_mesh

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-cubes/engine/instance"
	"github.com/Carmen-Shannon/oxy-cubes/engine/model"
)

// packInstances marshals records into one contiguous GPUInstance byte slice. Record i
// occupies bytes [i*80, (i+1)*80). Sets larger than one chunk are split across a worker
// pool; each task writes a disjoint range so no locking is needed.
func packInstances(records []instance.Record, chunkSize, workers int) []byte {
	data := make([]byte, len(records)*model.GPUInstanceSize)
	if len(records) <= chunkSize || workers <= 1 {
		packRange(records, data, 0, len(records))
		return data
	}

	chunks := (len(records) + chunkSize - 1) / chunkSize
	pool := worker.NewDynamicWorkerPool(min(workers, chunks), chunks, time.Second)
	defer pool.Stop()

	// The pool's own Wait blocks until workers idle out, so a WaitGroup is the barrier.
	var wg sync.WaitGroup
	for id := range chunks {
		start := id * chunkSize
		end := min(start+chunkSize, len(records))
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				packRange(records, data, start, end)
				return nil, nil
			},
		})
	}
	wg.Wait()

	return data
}

// packRange marshals records[start:end] into their slots of data.
func packRange(records []instance.Record, data []byte, start, end int) {
	for i := start; i < end; i++ {
		g := model.NewGPUInstance(records[i])
		g.MarshalTo(data[i*model.GPUInstanceSize:])
	}
}
