package shading

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/models"
	"github.com/taigrr/softshade/pkg/render"
)

var (
	// ErrNoCamera is returned when a scene has no active camera.
	ErrNoCamera = errors.New("scene has no active camera")
	// ErrUnknownShader is returned for shader indices outside the pipeline.
	ErrUnknownShader = errors.New("unknown shader")
)

// Scene is the data rendered by a pipeline. Models must not share meshes:
// per-frame vertex state lives in the mesh.
type Scene struct {
	Models  []*models.Model
	Cameras []*render.Camera
	Lights  []*models.Light
}

// Options configures a Pipeline.
type Options struct {
	Workers         int
	DirectionalSize int // Directional shadow map edge in pixels
	SpotSize        int // Spot shadow map edge in pixels
	LightRange      fixed.Fixed
	Background      render.Color
}

// DefaultOptions returns one worker per CPU, the default shadow map sizes
// and light range, and a sky background.
func DefaultOptions() Options {
	return Options{
		Workers:         runtime.NumCPU(),
		DirectionalSize: DefaultDirectionalMapSize,
		SpotSize:        DefaultSpotMapSize,
		LightRange:      DefaultLightRange,
		Background:      render.ColorSky,
	}
}

// Option modifies Options.
type Option func(*Options)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithShadowMapSize sets the directional and spot shadow map sizes.
func WithShadowMapSize(directional, spot int) Option {
	return func(o *Options) {
		o.DirectionalSize = directional
		o.SpotSize = spot
	}
}

// WithLightRange sets the distance beyond which lights are culled.
func WithLightRange(r fixed.Fixed) Option {
	return func(o *Options) {
		o.LightRange = r
	}
}

// WithBackground sets the color the target is cleared to.
func WithBackground(c render.Color) Option {
	return func(o *Options) {
		o.Background = c
	}
}

// Stats counts the work done by the last Render call.
type Stats struct {
	Cameras      int
	Models       int // Models drawn, summed over cameras
	ModelsCulled int // Models outside a camera's frustum
	Passes       int
	Raster       render.RasterStats
}

// Pipeline renders scenes with an ordered list of shaders. The default
// list draws the directional and spot shadow maps first and then the
// Gouraud shader, which reads them.
type Pipeline struct {
	opts          Options
	shaders       []Shader
	defaultShader int
	dispatcher    *Dispatcher
	frame         *FrameContext

	mu     sync.Mutex
	stats  Stats
	closed bool
}

// New creates a pipeline and starts its workers. Close releases them.
func New(opts ...Option) *Pipeline {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pipeline{
		opts:       o,
		dispatcher: NewDispatcher(o.Workers),
		frame:      NewFrameContext(o.DirectionalSize, o.SpotSize, o.LightRange),
	}
	p.shaders = []Shader{
		NewShadowShader(models.LightDirectional),
		NewShadowShader(models.LightSpot),
		NewGouraudShader(),
	}
	p.defaultShader = len(p.shaders) - 1
	return p
}

// Options returns the options the pipeline was built with.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Shaders returns the shader list in execution order.
func (p *Pipeline) Shaders() []Shader {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Shader(nil), p.shaders...)
}

// AddShader appends s and returns the index materials use to select it.
func (p *Pipeline) AddShader(s Shader) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shaders = append(p.shaders, s)
	return len(p.shaders) - 1
}

// SetDefaultShader selects the shader used by materials set to
// models.DefaultShader.
func (p *Pipeline) SetDefaultShader(i int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.shaders) {
		return fmt.Errorf("set default shader %d: %w", i, ErrUnknownShader)
	}
	p.defaultShader = i
	return nil
}

// DefaultShader returns the index of the default shader.
func (p *Pipeline) DefaultShader() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.defaultShader
}

// Stats returns the counters of the last completed frame.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Frame returns the frame context. Its shadow maps hold the last frame's
// depth after Render returns.
func (p *Pipeline) Frame() *FrameContext {
	return p.frame
}

// Render draws one frame of scene into target. Every active camera is
// rendered in turn, each with every shader in order. Models outside the
// camera frustum are skipped by all but global shaders.
func (p *Pipeline) Render(ctx context.Context, scene *Scene, target *render.Framebuffer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	var cameras []*render.Camera
	for _, c := range scene.Cameras {
		if c != nil && c.Active {
			cameras = append(cameras, c)
		}
	}
	if len(cameras) == 0 {
		return ErrNoCamera
	}

	target.Clear(p.opts.Background)
	target.ClearDepth()

	var active []*models.Model
	for _, m := range scene.Models {
		if m == nil || !m.Active || m.Mesh == nil {
			continue
		}
		m.Mesh.ResetTransient()
		m.UpdateWorld()
		active = append(active, m)
	}

	var stats Stats
	defer p.frame.Reset()
	for _, cam := range cameras {
		cam.Frustum.SetScreenSize(target.Width, target.Height)
		p.frame.Setup(cam, scene.Lights, target)

		visible := cullModels(p.frame, active, &stats)
		stats.Cameras++

		for i, s := range p.shaders {
			ms := visible
			if s.Global() {
				// Occluders outside the view still shadow what is in it.
				ms = active
			}
			rs, err := p.dispatcher.Run(ctx, p.frame, Pass{Shader: s, Index: i, Default: p.defaultShader}, ms)
			if err != nil {
				return fmt.Errorf("render %s pass: %w", s.Name(), err)
			}
			stats.Passes++
			stats.Raster.Triangles += rs.Triangles
			stats.Raster.Culled += rs.Culled
			stats.Raster.Degenerate += rs.Degenerate
			stats.Raster.Fragments += rs.Fragments
		}
	}

	p.stats = stats
	return nil
}

// cullModels returns the models whose world bounds touch the camera
// frustum.
func cullModels(frame *FrameContext, ms []*models.Model, stats *Stats) []*models.Model {
	planes := frame.Camera.Frustum.Planes(frame.View)
	visible := make([]*models.Model, 0, len(ms))
	for _, m := range ms {
		if planes.IntersectAABB(m.WorldBounds()) {
			visible = append(visible, m)
			stats.Models++
		} else {
			stats.ModelsCulled++
		}
	}
	return visible
}

// Close stops the workers. Render fails with ErrClosed afterwards.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.dispatcher.Close()
}
