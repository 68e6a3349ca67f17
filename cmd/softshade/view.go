package main

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/math3d"
	"github.com/taigrr/softshade/pkg/render"
)

func viewCmd() *cobra.Command {
	opts := newSceneOptions()
	var fps int

	cmd := &cobra.Command{
		Use:   "view [model.glb]",
		Short: "Spin the scene in the terminal",
		Long: "view draws the scene with half-block characters.\n\n" +
			"Keys: a/d or arrows spin, space random spin, +/- zoom, r reset, esc quit.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var modelPath string
			if len(args) > 0 {
				modelPath = args[0]
			}
			return runView(cmd.Context(), opts, modelPath, fps)
		},
	}

	opts.register(cmd.Flags())
	cmd.Flags().IntVar(&fps, "fps", 30, "target frames per second")
	return cmd
}

// spinAxis is one rotation axis whose velocity decays through a critically
// damped spring.
type spinAxis struct {
	position float64 // Degrees
	velocity float64 // Degrees per frame
	accel    float64
	spring   harmonica.Spring
}

func newSpinAxis(fps int) spinAxis {
	return spinAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

func (a *spinAxis) update() {
	a.position += a.velocity
	a.velocity, a.accel = a.spring.Update(a.velocity, a.accel, 0)
}

const (
	minDistance = 3
	maxDistance = 20
)

func runView(ctx context.Context, opts *sceneOptions, modelPath string, fps int) error {
	if fps <= 0 {
		return fmt.Errorf("invalid fps %d", fps)
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	// Two pixel rows per terminal cell.
	opts.width, opts.height = width, height*2

	pipe := opts.pipeline()
	defer pipe.Close()

	d, err := buildScene(opts, pipe, modelPath)
	if err != nil {
		return err
	}
	fb := render.NewFramebuffer(opts.width, opts.height)

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	yaw := newSpinAxis(fps)
	yaw.velocity = 2
	distance := 8.0
	frame := uint64(0)

	place := func() {
		// Orbit the camera at a fixed height ratio around the model.
		dir := d.camera.Transform.Location.Sub(math3d.V3(0, fixed.One, 0)).Normalize()
		d.camera.SetPosition(math3d.V3(0, fixed.One, 0).Add(dir.Scale(fixed.FromFloat(distance))))
	}
	place()

	events := term.Events()
	tick := time.NewTicker(time.Second / time.Duration(fps))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				fb = render.NewFramebuffer(width, height*2)
			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c"):
					return nil
				case ev.MatchString("a", "left"):
					yaw.velocity -= 1.5
				case ev.MatchString("d", "right"):
					yaw.velocity += 1.5
				case ev.MatchString("space"):
					kick := fixed.RandomRange(frame, fixed.FromInt(-6), fixed.FromInt(6))
					yaw.velocity += kick.Float()
				case ev.MatchString("r"):
					yaw = newSpinAxis(fps)
					distance = 8
					place()
				case ev.MatchString("+", "="):
					distance = max(minDistance, distance-0.5)
					place()
				case ev.MatchString("-", "_"):
					distance = min(maxDistance, distance+0.5)
					place()
				}
			}
		case <-tick.C:
			frame++
			yaw.update()
			d.model.Transform.Rotation.Y = fixed.FromFloat(yaw.position)

			if err := pipe.Render(ctx, d.scene, fb); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			fb.Draw(term, image.Rect(0, 0, width, height))
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
