package cmd

import (
	"github.com/achilleasa/go-pathtrace/renderer"
	"github.com/urfave/cli"
)

// Dump primary ray intersection buffers (depth, normals and materials) for
// the scene as png files.
func Debug(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	written, err := renderer.DebugPrimaryRays(
		sc,
		uint32(ctx.Int("width")),
		uint32(ctx.Int("height")),
		renderer.PrimaryRayIntersectionDepth|renderer.PrimaryRayIntersectionNormals|renderer.PrimaryRayMaterials,
		ctx.String("out-dir"),
	)
	if err != nil {
		return err
	}

	for _, imgFile := range written {
		logger.Noticef("wrote %s", imgFile)
	}
	return nil
}
