// softshade renders scenes with a fixed-point software pipeline: shadow
// maps, Gouraud lighting, and a multi-threaded rasterizer.
//
// Usage:
//
//	softshade render [model.glb] -o out.png
//	softshade view [model.glb]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/render"
	"github.com/taigrr/softshade/pkg/shading"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, rootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "softshade",
		Short: "Fixed-point software renderer",
		Long: "softshade draws a model over a ground plane with directional and spot\n" +
			"shadows. Without a model argument it draws a box.",
		SilenceUsage: true,
	}
	root.AddCommand(renderCmd(), viewCmd())
	return root
}

func renderCmd() *cobra.Command {
	opts := newSceneOptions()
	var (
		output string
		scale  int
		yaw    float64
	)

	cmd := &cobra.Command{
		Use:   "render [model.glb]",
		Short: "Render one frame to a PNG file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var modelPath string
			if len(args) > 0 {
				modelPath = args[0]
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), opts, modelPath, output, scale, yaw)
		},
	}

	fs := cmd.Flags()
	opts.register(fs)
	fs.IntVar(&opts.width, "width", opts.width, "image width in pixels")
	fs.IntVar(&opts.height, "height", opts.height, "image height in pixels")
	fs.StringVarP(&output, "output", "o", "softshade.png", "output PNG path")
	fs.IntVar(&scale, "scale", 1, "upscale factor for the saved image")
	fs.Float64Var(&yaw, "yaw", 30, "model rotation around the vertical axis in degrees")
	return cmd
}

func runRender(ctx context.Context, w io.Writer, opts *sceneOptions, modelPath, output string, scale int, yaw float64) error {
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("invalid size %dx%d", opts.width, opts.height)
	}

	pipe := opts.pipeline()
	defer pipe.Close()

	d, err := buildScene(opts, pipe, modelPath)
	if err != nil {
		return err
	}
	d.model.Transform.Rotation.Y = fixed.FromFloat(yaw)

	fb := render.NewFramebuffer(opts.width, opts.height)
	start := time.Now()
	if err := pipe.Render(ctx, d.scene, fb); err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := fb.SavePNG(output, scale); err != nil {
		return err
	}

	printStats(w, filepath.Base(output), opts.width, opts.height, pipe.Stats(), elapsed)
	return nil
}

func printStats(w io.Writer, name string, width, height int, s shading.Stats, elapsed time.Duration) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%s: %dx%d in %v\n", name, width, height, elapsed.Round(time.Microsecond))
	p.Fprintf(w, "  models     %d drawn, %d culled\n", s.Models, s.ModelsCulled)
	p.Fprintf(w, "  triangles  %d submitted, %d culled, %d degenerate\n",
		s.Raster.Triangles, s.Raster.Culled, s.Raster.Degenerate)
	p.Fprintf(w, "  fragments  %d over %d passes\n", s.Raster.Fragments, s.Passes)
}
