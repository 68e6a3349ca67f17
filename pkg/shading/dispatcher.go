package shading

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/softshade/pkg/models"
	"github.com/taigrr/softshade/pkg/render"
)

// ErrClosed is returned when work is submitted after Close.
var ErrClosed = errors.New("pipeline closed")

// Pass is one shader run over a set of models.
type Pass struct {
	Shader Shader
	// Index is the shader's position in the pipeline; materials select
	// shaders by it.
	Index int
	// Default is the index of the shader that owns materials set to
	// models.DefaultShader.
	Default int
}

func (p *Pass) canUse(mat *models.Material) bool {
	return canUse(mat, p.Index, p.Default, p.Shader.Global())
}

// rasterStatser is implemented by instances that rasterize.
type rasterStatser interface {
	RasterStats() render.RasterStats
}

type job struct {
	ctx    context.Context
	frame  *FrameContext
	pass   *Pass
	models []*models.Model

	// vertices is the barrier between the vertex and geometry stages.
	vertices sync.WaitGroup
	done     sync.WaitGroup
	stats    []render.RasterStats // Indexed by worker
}

// Dispatcher runs shader passes on a fixed set of worker goroutines. Each
// worker keeps one instance per shader, created the first time it sees
// that shader. A pass runs the vertex stage over disjoint vertex ranges,
// waits for every worker, then runs the geometry stage over all faces with
// each worker confined to its own band of scanlines.
type Dispatcher struct {
	workers int
	queues  []chan *job
	group   *errgroup.Group
	cancel  context.CancelFunc

	mu      sync.Mutex // Serializes Run and Close
	running atomic.Bool
}

// NewDispatcher starts workers goroutines. If workers is 0 or negative,
// GOMAXPROCS is used.
func NewDispatcher(workers int) *Dispatcher {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	d := &Dispatcher{
		workers: workers,
		queues:  make([]chan *job, workers),
		group:   g,
		cancel:  cancel,
	}
	for i := range workers {
		// One slot: Run never queues a second job before the first is done.
		d.queues[i] = make(chan *job, 1)
	}
	d.running.Store(true)

	for i := range workers {
		g.Go(func() error {
			return d.worker(ctx, i)
		})
	}
	return d
}

// Workers returns the number of worker goroutines.
func (d *Dispatcher) Workers() int {
	return d.workers
}

// Run executes pass over ms and blocks until every worker has finished.
// If ctx is cancelled during the vertex stage, the geometry stage is
// skipped and ctx's error is returned. The returned stats take triangle
// and culling counts from one worker, since every worker sees every face,
// and sum the fragments.
func (d *Dispatcher) Run(ctx context.Context, frame *FrameContext, pass Pass, ms []*models.Model) (render.RasterStats, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running.Load() {
		return render.RasterStats{}, ErrClosed
	}
	if err := frame.Validate(); err != nil {
		return render.RasterStats{}, err
	}
	if err := ctx.Err(); err != nil {
		return render.RasterStats{}, err
	}

	j := &job{
		ctx:    ctx,
		frame:  frame,
		pass:   &pass,
		models: ms,
		stats:  make([]render.RasterStats, d.workers),
	}
	j.vertices.Add(d.workers)
	j.done.Add(d.workers)
	for _, q := range d.queues {
		q <- j
	}
	j.done.Wait()

	total := j.stats[0]
	for _, s := range j.stats[1:] {
		total.Fragments += s.Fragments
	}
	return total, ctx.Err()
}

// Close stops the workers and waits for them to exit.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running.Swap(false) {
		return nil
	}
	d.cancel()
	for _, q := range d.queues {
		close(q)
	}
	return d.group.Wait()
}

func (d *Dispatcher) worker(ctx context.Context, id int) error {
	instances := make(map[Shader]Instance)
	part := Partition{Index: id, Count: d.workers}

	for {
		select {
		case <-ctx.Done():
			return nil
		case j, ok := <-d.queues[id]:
			if !ok {
				return nil
			}
			inst, ok := instances[j.pass.Shader]
			if !ok {
				inst = j.pass.Shader.NewInstance()
				instances[j.pass.Shader] = inst
			}
			j.run(inst, part)
		}
	}
}

func (j *job) run(inst Instance, part Partition) {
	defer j.done.Done()

	inst.Initialize(j.frame, part)

	for _, m := range j.models {
		mesh := m.Mesh
		lo, hi := part.Range(len(mesh.Vertices))
		for i := lo; i < hi; i++ {
			v := &mesh.Vertices[i]
			if j.pass.canUse(mesh.Material(v.Material)) {
				inst.Vertex(mesh, v)
			}
		}
	}

	j.vertices.Done()
	j.vertices.Wait()

	if j.ctx.Err() != nil {
		return
	}

	for _, m := range j.models {
		mesh := m.Mesh
		for i := range mesh.Faces {
			f := &mesh.Faces[i]
			if j.pass.canUse(mesh.Material(f.Material)) {
				inst.Geometry(mesh, f)
			}
		}
	}

	if s, ok := inst.(rasterStatser); ok {
		j.stats[part.Index] = s.RasterStats()
	}
}
