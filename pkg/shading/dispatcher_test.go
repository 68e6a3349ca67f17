package shading

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/models"
	"github.com/taigrr/softshade/pkg/render"
)

// recordingShader counts the calls its instances receive.
type recordingShader struct {
	global    bool
	instances atomic.Int32
	vertices  []atomic.Int32 // Indexed by vertex
	faces     atomic.Int32

	mu    sync.Mutex
	bands map[int][2]int // Partition index to band
}

func newRecordingShader(vertices int) *recordingShader {
	return &recordingShader{
		vertices: make([]atomic.Int32, vertices),
		bands:    make(map[int][2]int),
	}
}

func (s *recordingShader) Name() string { return "recording" }

func (s *recordingShader) Global() bool { return s.global }

func (s *recordingShader) NewInstance() Instance {
	s.instances.Add(1)
	return &recordingInstance{shader: s}
}

type recordingInstance struct {
	shader *recordingShader
}

func (r *recordingInstance) Initialize(frame *FrameContext, part Partition) {
	y0, y1 := part.Band(frame.Target.Height)
	r.shader.mu.Lock()
	r.shader.bands[part.Index] = [2]int{y0, y1}
	r.shader.mu.Unlock()
}

func (r *recordingInstance) Vertex(mesh *models.Mesh, v *models.Vertex) {
	r.shader.vertices[v.Index].Add(1)
}

func (r *recordingInstance) Geometry(mesh *models.Mesh, f *models.Face) {
	r.shader.faces.Add(1)
}

func (r *recordingInstance) Fragment(f *render.Fragment) {}

func readyFrame(t *testing.T) *FrameContext {
	t.Helper()
	frame, cam, target := newTestFrame()
	frame.Setup(cam, nil, target)
	return frame
}

func TestDispatcherRun(t *testing.T) {
	const workers = 3
	d := NewDispatcher(workers)
	t.Cleanup(func() { d.Close() })

	box := models.NewModel("box", models.Box("box", fixed.FromInt(2)))
	s := newRecordingShader(box.Mesh.VertexCount())
	frame := readyFrame(t)
	pass := Pass{Shader: s, Index: 0, Default: 0}

	for range 2 {
		if _, err := d.Run(context.Background(), frame, pass, []*models.Model{box}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	}

	if got := s.instances.Load(); got != workers {
		t.Errorf("instances = %d, want one per worker (%d)", got, workers)
	}
	for i := range s.vertices {
		if got := s.vertices[i].Load(); got != 2 {
			t.Errorf("vertex %d shaded %d times, want once per run", i, got)
		}
	}
	if got, want := int(s.faces.Load()), 2*workers*box.Mesh.TriangleCount(); got != want {
		t.Errorf("geometry calls = %d, want %d (every worker sees every face)", got, want)
	}

	next := 0
	for i := range workers {
		band, ok := s.bands[i]
		if !ok {
			t.Fatalf("partition %d never initialized", i)
		}
		if band[0] != next {
			t.Errorf("band %d starts at %d, want %d", i, band[0], next)
		}
		next = band[1]
	}
	if next != frame.Target.Height {
		t.Errorf("bands end at %d, want %d", next, frame.Target.Height)
	}
}

func TestDispatcherMaterialSelection(t *testing.T) {
	tests := []struct {
		name     string
		shader   int
		global   bool
		wantHits bool
	}{
		{"default material on default shader", models.DefaultShader, false, true},
		{"material owned by another shader", 5, false, false},
		{"global shader", 5, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(2)
			defer d.Close()

			mesh := models.Box("box", fixed.FromInt(2))
			mesh.Materials[0].Shader = tt.shader
			box := models.NewModel("box", mesh)

			s := newRecordingShader(mesh.VertexCount())
			s.global = tt.global
			pass := Pass{Shader: s, Index: 0, Default: 0}
			if _, err := d.Run(context.Background(), readyFrame(t), pass, []*models.Model{box}); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got := s.faces.Load() > 0; got != tt.wantHits {
				t.Errorf("faces shaded = %v, want %v", got, tt.wantHits)
			}
			if got := s.vertices[0].Load() > 0; got != tt.wantHits {
				t.Errorf("vertices shaded = %v, want %v", got, tt.wantHits)
			}
		})
	}
}

func TestDispatcherErrors(t *testing.T) {
	box := models.NewModel("box", models.Box("box", fixed.FromInt(2)))
	s := newRecordingShader(box.Mesh.VertexCount())
	pass := Pass{Shader: s}

	t.Run("frame not ready", func(t *testing.T) {
		d := NewDispatcher(2)
		defer d.Close()
		frame, _, _ := newTestFrame()
		_, err := d.Run(context.Background(), frame, pass, []*models.Model{box})
		if !errors.Is(err, ErrFrameNotReady) {
			t.Errorf("Run() error = %v, want ErrFrameNotReady", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		d := NewDispatcher(2)
		defer d.Close()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := d.Run(ctx, readyFrame(t), pass, []*models.Model{box})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	})

	t.Run("closed", func(t *testing.T) {
		d := NewDispatcher(2)
		if err := d.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if err := d.Close(); err != nil {
			t.Fatalf("second Close() error = %v", err)
		}
		_, err := d.Run(context.Background(), readyFrame(t), pass, []*models.Model{box})
		if !errors.Is(err, ErrClosed) {
			t.Errorf("Run() error = %v, want ErrClosed", err)
		}
	})
}

func TestNewDispatcherDefaultsWorkers(t *testing.T) {
	d := NewDispatcher(0)
	defer d.Close()
	if d.Workers() < 1 {
		t.Errorf("Workers() = %d, want at least 1", d.Workers())
	}
}
