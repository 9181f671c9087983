package renderer

import (
	"path/filepath"

	"github.com/achilleasa/go-pathtrace/kernel"
	"github.com/achilleasa/go-pathtrace/scene"
	"github.com/achilleasa/go-pathtrace/types"
)

// Debug flags.
type DebugFlag uint16

const (
	Off                           DebugFlag = 0
	PrimaryRayIntersectionDepth   DebugFlag = 1 << iota
	PrimaryRayIntersectionNormals
	PrimaryRayMaterials
)

// Intersect the primary rays for every pixel of the frame and dump the
// requested debug buffers as png files into outDir. Returns the list of
// written files.
func DebugPrimaryRays(sc *scene.Scene, frameW, frameH uint32, flags DebugFlag, outDir string) ([]string, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if frameW == 0 || frameH == 0 {
		return nil, ErrInvalidFrameDims
	}

	w, h := int(frameW), int(frameH)
	d := kernel.NewDrawParams(sc.Camera, w, h, 0, types.Vec3{}, types.Vec2{})

	hits := make([]kernel.HitInfo, w*h)
	found := make([]bool, w*h)
	var maxDepth float32
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ray := d.PrimaryRay(float32(x)+0.5, float32(y)+0.5)
			hit, ok := kernel.FindNearest(sc, ray)
			hits[y*w+x], found[y*w+x] = hit, ok
			if ok && hit.Dist > maxDepth {
				maxDepth = hit.Dist
			}
		}
	}

	type debugBuffer struct {
		flag    DebugFlag
		imgFile string
		shade   func(hit *kernel.HitInfo) types.Vec3
	}
	buffers := []debugBuffer{
		{PrimaryRayIntersectionDepth, "debug-primary-intersection-depth.png", func(hit *kernel.HitInfo) types.Vec3 {
			v := 1 - hit.Dist/maxDepth
			return types.Vec3{v, v, v}
		}},
		{PrimaryRayIntersectionNormals, "debug-primary-intersection-normals.png", func(hit *kernel.HitInfo) types.Vec3 {
			return hit.Normal.Normalize().Mul(0.5).Add(types.Vec3{0.5, 0.5, 0.5})
		}},
		{PrimaryRayMaterials, "debug-primary-materials.png", func(hit *kernel.HitInfo) types.Vec3 {
			mat := &sc.Materials[hit.MaterialIndex]
			return mat.Albedo.Add(mat.Emission).Clamp(0, 1)
		}},
	}

	written := make([]string, 0)
	for _, dbg := range buffers {
		if flags&dbg.flag != dbg.flag {
			continue
		}

		buf := NewAccumBuffer(w, h)
		for index, hit := range hits {
			if found[index] {
				buf.Set(index%w, index/w, dbg.shade(&hit).Vec4(1))
			}
		}

		imgFile := filepath.Join(outDir, dbg.imgFile)
		if _, err := SavePNG(imgFile)(buf); err != nil {
			return written, err
		}
		written = append(written, imgFile)
	}

	return written, nil
}
