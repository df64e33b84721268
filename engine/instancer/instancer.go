package instancer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-vbuf/common"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/layout"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/vertex_buffer"
)

var (
	// ErrAttributeNotFound is returned when the target buffer has no attribute with the given name.
	ErrAttributeNotFound = errors.New("attribute not found")
	// ErrNotMat4 is returned when the target attribute is not a 4x4 float matrix.
	ErrNotMat4 = errors.New("attribute is not a mat4")
)

// Instance is the 2D placement of one instance.
type Instance struct {
	X, Y   float32
	Angle  float32
	ScaleX float32
	ScaleY float32
}

// Transform returns the column-major model matrix of the instance.
func (in Instance) Transform() common.Mat4 {
	return common.ModelMatrix(in.X, in.Y, in.Angle, in.ScaleX, in.ScaleY)
}

// AnimateFunc advances one instance to the given time. It runs on a pool worker and
// must only read and return its own instance.
type AnimateFunc func(index int, t float32, in Instance) Instance

// Instancer owns the per-instance placements behind a mat4 attribute of an instanced vertex buffer.
//
// Update animates and transforms instances in parallel on a worker pool, waits for every
// worker, then writes the matrices into the buffer on the calling goroutine. The buffer is
// therefore never mutated concurrently and is fully written before the caller syncs it.
type Instancer interface {
	// Len returns the number of instances, equal to the buffer's element count.
	Len() int

	// Instance returns the placement of instance i.
	//
	// Parameters:
	//   - i: the instance index
	//
	// Returns:
	//   - Instance: the placement
	//   - bool: false if i is out of range
	Instance(i int) (Instance, bool)

	// Set replaces the placement of instance i; the change is written on the next Update.
	//
	// Parameters:
	//   - i: the instance index
	//   - in: the new placement
	//
	// Returns:
	//   - bool: false if i is out of range
	Set(i int, in Instance) bool

	// Update advances the clock by dt, runs the animate function if one is set, and writes
	// every instance transform into the buffer.
	//
	// Parameters:
	//   - dt: elapsed seconds since the last update
	//
	// Returns:
	//   - int: the number of matrices written
	Update(dt float32) int

	// Buffer returns the instanced vertex buffer being written.
	Buffer() vertex_buffer.VertexBuffer
}

type instancer struct {
	buffer    vertex_buffer.VertexBuffer
	attribute string

	instances  []Instance
	transforms []common.Mat4
	clock      float32

	animate   AnimateFunc
	workers   int
	chunkSize int
	pool      worker.DynamicWorkerPool
}

var _ Instancer = &instancer{}

// NewInstancer creates an Instancer writing to the named mat4 attribute of vb.
// Every instance starts at the origin with unit scale.
//
// Parameters:
//   - vb: the instanced vertex buffer
//   - attributeName: the mat4 attribute holding the transforms
//   - options: optional configuration functions
//
// Returns:
//   - Instancer: the new Instancer
//   - error: ErrAttributeNotFound or ErrNotMat4
func NewInstancer(vb vertex_buffer.VertexBuffer, attributeName string, options ...InstancerBuilderOption) (Instancer, error) {
	e, ok := layout.Find(vb.Layout(), attributeName)
	if !ok {
		return nil, fmt.Errorf("%q in %s: %w", attributeName, vb.Label(), ErrAttributeNotFound)
	}
	if e.ColumnCount != 4 || e.ComponentCount != 16 {
		return nil, fmt.Errorf("%q in %s: %w", attributeName, vb.Label(), ErrNotMat4)
	}

	n := vb.VertexCount()
	in := &instancer{
		buffer:     vb,
		attribute:  attributeName,
		instances:  make([]Instance, n),
		transforms: make([]common.Mat4, n),
		workers:    4,
		chunkSize:  256,
	}
	for i := range in.instances {
		in.instances[i] = Instance{ScaleX: 1, ScaleY: 1}
	}
	for _, opt := range options {
		opt(in)
	}

	in.pool = worker.NewDynamicWorkerPool(in.workers, 256, 1*time.Second)
	return in, nil
}

func (in *instancer) Len() int {
	return len(in.instances)
}

func (in *instancer) Instance(i int) (Instance, bool) {
	if i < 0 || i >= len(in.instances) {
		return Instance{}, false
	}
	return in.instances[i], true
}

func (in *instancer) Set(i int, inst Instance) bool {
	if i < 0 || i >= len(in.instances) {
		return false
	}
	in.instances[i] = inst
	return true
}

func (in *instancer) Buffer() vertex_buffer.VertexBuffer {
	return in.buffer
}

func (in *instancer) Update(dt float32) int {
	in.clock += dt
	t := in.clock

	// Each task owns a disjoint [lo, hi) range of instances and transforms.
	var wg sync.WaitGroup
	taskID := 0
	for lo := 0; lo < len(in.instances); lo += in.chunkSize {
		hi := min(lo+in.chunkSize, len(in.instances))
		wg.Add(1)
		id := taskID
		taskID++
		in.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				in.compute(lo, hi, t)
				return nil, nil
			},
		})
	}
	wg.Wait()

	written := 0
	for i, m := range in.transforms {
		if in.buffer.SetMatrix(in.attribute, i, m) {
			written++
		}
	}
	return written
}

func (in *instancer) compute(lo, hi int, t float32) {
	for i := lo; i < hi; i++ {
		if in.animate != nil {
			in.instances[i] = in.animate(i, t, in.instances[i])
		}
		in.transforms[i] = in.instances[i].Transform()
	}
}
