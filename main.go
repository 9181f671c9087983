package main

import (
	"os"

	"github.com/achilleasa/go-pathtrace/cmd"
	"github.com/achilleasa/go-pathtrace/log"
	"github.com/urfave/cli"
)

var logger = log.New("go-pathtrace")

// Flags shared by the render commands.
func renderFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		cli.IntFlag{
			Name:   "width",
			Value:  512,
			Usage:  "frame width",
			EnvVar: "PATHTRACE_WIDTH",
		},
		cli.IntFlag{
			Name:   "height",
			Value:  512,
			Usage:  "frame height",
			EnvVar: "PATHTRACE_HEIGHT",
		},
		cli.IntFlag{
			Name:   "jitter",
			Value:  1,
			Usage:  "sub-pixel jitter grid size; each frame issues jitter*jitter draws",
			EnvVar: "PATHTRACE_JITTER",
		},
		cli.IntFlag{
			Name:   "workers",
			Value:  0,
			Usage:  "number of tracer workers (0 = one per cpu core)",
			EnvVar: "PATHTRACE_WORKERS",
		},
		cli.StringFlag{
			Name:  "scheduler",
			Value: "perfect",
			Usage: "block scheduler to use (naive or perfect)",
		},
		cli.Float64Flag{
			Name:  "exposure",
			Value: 1.0,
			Usage: "camera exposure for tone-mapping",
		},
		cli.BoolFlag{
			Name:  "denoise",
			Usage: "apply a bilateral denoise filter to the accumulated frame",
		},
		cli.Float64Flag{
			Name:  "sigma-spatial",
			Value: 2.0,
			Usage: "spatial sigma for the denoise filter",
		},
		cli.Float64Flag{
			Name:  "sigma-range",
			Value: 0.1,
			Usage: "color range sigma for the denoise filter",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "seed for the per-draw random seed generator",
		},
	}
	return append(flags, extra...)
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-pathtrace"
	app.Usage = "render scenes using progressive path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "log level (debug, info, notice, warning, error)",
			EnvVar: "PATHTRACE_LOG_LEVEL",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render scene",
			Subcommands: []cli.Command{
				{
					Name:  "frame",
					Usage: "render single frame",
					Description: `
Accumulate the requested number of frames and save the tone-mapped result as
a png file. If no scene file is specified, the built-in cornell box scene is
rendered.`,
					ArgsUsage: "[scene.obj | scene.zip]",
					Flags: renderFlags(
						cli.IntFlag{
							Name:   "frames",
							Value:  16,
							Usage:  "number of frames to accumulate",
							EnvVar: "PATHTRACE_FRAMES",
						},
						cli.StringFlag{
							Name:  "out, o",
							Value: "frame.png",
							Usage: "image filename for the rendered frame",
						},
					),
					Action: cmd.RenderFrame,
				},
				{
					Name:  "interactive",
					Usage: "render interactive view of the scene",
					Description: `
Display a continuously refining view of the scene. Use the arrow and page
up/down keys to move the camera (hold shift to move faster) and drag with the
left mouse button to rotate it. Press tab to toggle the tracer block overlay.
Any camera change resets the accumulated samples.

Requires a binary built with the 'interactive' build tag.`,
					ArgsUsage: "[scene.obj | scene.zip]",
					Flags: renderFlags(
						cli.IntFlag{
							Name:   "frames",
							Value:  0,
							Usage:  "stop accumulating after this many frames (0 = never stop)",
							EnvVar: "PATHTRACE_FRAMES",
						},
					),
					Action: cmd.RenderInteractive,
				},
			},
		},
		{
			Name:  "scene",
			Usage: "compile scenes and inspect their contents",
			Subcommands: []cli.Command{
				{
					Name:  "compile",
					Usage: "compile wavefront scenes into a binary compressed format",
					Description: `
Parse a scene definition from a wavefront obj file and write it to a zip
archive next to the input file. The archive can be supplied as an argument to
the render commands.`,
					ArgsUsage: "scene_file1.obj scene_file2.obj ...",
					Action:    cmd.CompileScene,
				},
				{
					Name:      "info",
					Usage:     "print scene contents",
					ArgsUsage: "scene.obj | scene.zip",
					Action:    cmd.ShowSceneInfo,
				},
			},
		},
		{
			Name:  "debug",
			Usage: "dump primary ray intersection buffers as png files",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.StringFlag{
					Name:  "out-dir",
					Value: ".",
					Usage: "folder for the generated images",
				},
			},
			ArgsUsage: "[scene.obj | scene.zip]",
			Action:    cmd.Debug,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
