package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/achilleasa/go-pathtrace/renderer"
	"github.com/achilleasa/go-pathtrace/scene"
	"github.com/achilleasa/go-pathtrace/scene/reader"
	"github.com/achilleasa/go-pathtrace/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame and save it as a png file.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts := renderOptions(ctx)
	if err := opts.Validate(); err != nil {
		return err
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	pipeline := renderer.DefaultPipeline(opts)
	pipeline.PostProcess = append(pipeline.PostProcess, renderer.SavePNG(ctx.String("out")))

	r, err := renderer.NewDefault(sc, blockScheduler(ctx), pipeline, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	renderCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger.Noticef("rendering %d frame(s) at %dx%d", opts.Frames, opts.FrameW, opts.FrameH)
	start := time.Now()
	if _, err = r.Render(renderCtx, opts.Frames); err != nil {
		return err
	}
	logger.Noticef("rendered and saved frame to %s in %d ms", ctx.String("out"), time.Since(start).Nanoseconds()/1e6)

	displayFrameStats(r.Stats())
	return nil
}

// Open a window that displays the renderer output as it accumulates. The
// camera can be moved with the arrow keys and rotated by dragging the mouse.
func RenderInteractive(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts := renderOptions(ctx)
	if err := opts.Validate(); err != nil {
		return err
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	// glfw requires all window calls to originate from the main thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	r, err := renderer.NewInteractive(sc, blockScheduler(ctx), renderer.DefaultPipeline(opts), opts)
	if err != nil {
		return err
	}
	defer r.Close()

	renderCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if _, err = r.Render(renderCtx, opts.Frames); err != nil && err != renderer.ErrInterrupted {
		return err
	}

	displayFrameStats(r.Stats())
	return nil
}

// Map command flags to render options.
func renderOptions(ctx *cli.Context) renderer.Options {
	opts := renderer.DefaultOptions()
	opts.FrameW = uint32(ctx.Int("width"))
	opts.FrameH = uint32(ctx.Int("height"))
	opts.Frames = uint32(ctx.Int("frames"))
	opts.JitterGrid = uint32(ctx.Int("jitter"))
	opts.NumTracers = uint32(ctx.Int("workers"))
	opts.Exposure = float32(ctx.Float64("exposure"))
	opts.Denoise = ctx.Bool("denoise")
	opts.DenoiseSigmaSpatial = float32(ctx.Float64("sigma-spatial"))
	opts.DenoiseSigmaRange = float32(ctx.Float64("sigma-range"))
	opts.Seed = ctx.Int64("seed")
	return opts
}

// Select the block scheduler requested by the user.
func blockScheduler(ctx *cli.Context) tracer.BlockScheduler {
	if ctx.String("scheduler") == "naive" {
		return tracer.NaiveScheduler()
	}
	return tracer.PerfectScheduler()
}

// Load the scene passed as the first command argument or fall back to the
// built-in cornell box scene.
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	if ctx.NArg() == 0 {
		logger.Notice("no scene file specified; using the built-in cornell box scene")
		return scene.CornellBox(), nil
	}

	return reader.ReadScene(ctx.Args().First())
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block height", "% of frame", "Last block", "Mean block", "Std dev"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
			stat.MeanTime.String(),
			stat.StdDevTime.String(),
		})
	}
	table.SetFooter([]string{
		"", "",
		fmt.Sprintf("%d samples", stats.Samples),
		fmt.Sprintf("post %s", stats.PostProcessTime),
		"TOTAL",
		stats.RenderTime.String(),
	})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
