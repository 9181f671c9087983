package reader

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/go-pathtrace/asset"
	"github.com/achilleasa/go-pathtrace/log"
	"github.com/achilleasa/go-pathtrace/scene"
	"github.com/achilleasa/go-pathtrace/types"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Name of the material assigned to surfaces parsed before any usemtl.
	defaultMaterialName = "default"

	// Focal length used when the scene does not define one.
	defaultFocalLength = scene.CornellFocalLength
)

type wavefrontMaterial struct {
	Name string

	// Diffuse/Albedo color.
	Kd types.Vec3

	// Emissive color.
	Ke types.Vec3

	// Specular mix factor.
	Pm float32

	// True if this material is used by at least one primitive.
	Used bool
}

// Triangles and spheres are buffered until parsing completes so that unused
// materials can be pruned before primitives reference them.
type wavefrontSceneReader struct {
	logger log.Logger

	// A map of material names to parsed wavefront materials
	matNameToIndex map[string]int

	// Currently selected material.
	curMaterial *wavefrontMaterial

	// Parsed wavefront materials.
	materials []*wavefrontMaterial

	triangles []scene.Triangle
	spheres   []scene.Sphere
	camera    *scene.Camera

	// List of vertices and normals.
	vertexList []types.Vec3
	normalList []types.Vec3

	// An error stack that provides additional error information when
	// scene files include other files (models, mat libs e.t.c)
	errStack []string
}

// Create a new wavefront scene reader.
func newWavefrontReader() *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger:         log.New("wavefront scene reader"),
		matNameToIndex: make(map[string]int, 0),
		vertexList:     make([]types.Vec3, 0),
		normalList:     make([]types.Vec3, 0),
		errStack:       make([]string, 0),
	}
}

// Read scene definition.
func (r *wavefrontSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	err := r.parse(sceneRes)
	if err != nil {
		return nil, err
	}

	sc, err := r.buildScene()
	if err != nil {
		return nil, err
	}

	r.logger.Noticef("parsed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

// Assemble the scene from the parsed data. Only materials referenced by at
// least one primitive are added; primitive material indices are remapped
// accordingly.
func (r *wavefrontSceneReader) buildScene() (*scene.Scene, error) {
	sc := scene.NewScene()

	if r.camera == nil {
		r.logger.Warning("scene does not define a camera; using default camera at the origin")
		r.camera = scene.NewCamera(defaultFocalLength)
	}
	sc.SetCamera(r.camera)

	wfMaterialToSceneMaterial := make(map[int]int, 0)
	pruned := 0
	for wfIndex, wfMat := range r.materials {
		if !wfMat.Used {
			r.logger.Infof("skipping unused material %q", wfMat.Name)
			pruned++
			continue
		}

		matIndex, err := sc.AddMaterial(scene.Material{
			Name:     wfMat.Name,
			Albedo:   wfMat.Kd,
			Emission: wfMat.Ke,
			Specular: wfMat.Pm,
		})
		if err != nil {
			return nil, r.emitError("", 0, err.Error())
		}
		wfMaterialToSceneMaterial[wfIndex] = matIndex
	}
	if pruned > 0 {
		r.logger.Noticef("pruned %d unused materials", pruned)
	}

	for _, tri := range r.triangles {
		tri.MaterialIndex = wfMaterialToSceneMaterial[tri.MaterialIndex]
		if err := sc.AddTriangle(tri); err != nil {
			return nil, r.emitError("", 0, err.Error())
		}
	}
	for _, sphere := range r.spheres {
		sphere.MaterialIndex = wfMaterialToSceneMaterial[sphere.MaterialIndex]
		if err := sc.AddSphere(sphere); err != nil {
			return nil, r.emitError("", 0, err.Error())
		}
	}

	return sc, nil
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n"))
	} else {
		errMsg = fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n"))
	}

	return fmt.Errorf("%s", strings.Trim(errMsg, "\n"))
}

// Push a frame to the error stack.
func (r *wavefrontSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Select the default material for surfaces not using one, creating it if needed.
func (r *wavefrontSceneReader) defaultMaterial() *wavefrontMaterial {
	matIndex, exists := r.matNameToIndex[defaultMaterialName]
	if !exists {
		r.materials = append(r.materials, &wavefrontMaterial{Name: defaultMaterialName, Kd: types.Vec3{0.7, 0.7, 0.7}})
		matIndex = len(r.materials) - 1
		r.matNameToIndex[defaultMaterialName] = matIndex
	}
	r.curMaterial = r.materials[matIndex]
	return r.curMaterial
}

// Get the index of the active material and flag it as used.
func (r *wavefrontSceneReader) useCurrentMaterial() int {
	if r.curMaterial == nil {
		r.curMaterial = r.defaultMaterial()
	}
	r.curMaterial.Used = true
	return r.matNameToIndex[r.curMaterial.Name]
}

// Get the scene camera, creating it if needed.
func (r *wavefrontSceneReader) sceneCamera() *scene.Camera {
	if r.camera == nil {
		r.camera = scene.NewCamera(defaultFocalLength)
	}
	return r.camera
}

// Parse wavefront object scene format.
func (r *wavefrontSceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0

	// Included object files use 1-based indices relative to their own
	// vertex lists; track the offsets so faces select the right coords.
	relVertexOffset := len(r.vertexList)
	relNormalOffset := len(r.normalList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call", "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))

			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}

			switch lineTokens[0] {
			case "call":
				err = r.parse(incRes)
			case "mtllib":
				err = r.parseMaterials(incRes)
			}
			incRes.Close()

			if err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matIndex, exists := r.matNameToIndex[lineTokens[1]]
			if !exists {
				return r.emitError(res.Path(), lineNum, `undefined material with name "%s"`, lineTokens[1])
			}
			r.curMaterial = r.materials[matIndex]
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
			r.normalList = append(r.normalList, v)
		case "f":
			triList, err := r.parseFace(lineTokens, relVertexOffset, relNormalOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
			r.triangles = append(r.triangles, triList...)
		case "sphere":
			sphere, err := r.parseSphere(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
			r.spheres = append(r.spheres, sphere)
		case "camera_focal":
			focal, err := parseFloat32(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
			if !(focal > 0) {
				return r.emitError(res.Path(), lineNum, "camera focal length must be positive; got %v", focal)
			}
			r.sceneCamera().FocalLength = focal
		case "camera_eye":
			eye, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
			r.sceneCamera().Position = eye
		case "camera_rot":
			rot, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err.Error())
			}
			r.sceneCamera().Rotation = types.Vec3{
				mgl32.DegToRad(rot[0]),
				mgl32.DegToRad(rot[1]),
				mgl32.DegToRad(rot[2]),
			}
		case "vt", "g", "o", "s":
			// Ignored
		default:
			r.logger.Debugf(`[%s: %d] skipping unsupported directive "%s"`, res.Path(), lineNum, lineTokens[0])
		}
	}

	return scanner.Err()
}

// Parse a triangular or quad face. Quads are split into two triangles. If the
// face does not reference vertex normals, the face normal is used instead.
func (r *wavefrontSceneReader) parseFace(lineTokens []string, relVertexOffset, relNormalOffset int) ([]scene.Triangle, error) {
	if len(lineTokens) < 4 || len(lineTokens) > 5 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got %d. Select the triangulation option in your exporter`, len(lineTokens)-1)
	}

	var vertices [4]types.Vec3
	var normals [4]types.Vec3
	expIndices := 0
	hasNormals := false
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return nil, fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[vOffset]

		if expIndices > 2 && vTokens[2] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[2], len(r.normalList), relNormalOffset)
			if err != nil {
				return nil, fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			normals[arg] = r.normalList[vOffset].Normalize()
			hasNormals = true
		}
	}

	matIndex := r.useCurrentMaterial()

	indiceList := [][3]int{{0, 1, 2}}
	if len(lineTokens) == 5 {
		indiceList = append(indiceList, [3]int{0, 2, 3})
	}

	triangles := make([]scene.Triangle, 0, len(indiceList))
	for _, indices := range indiceList {
		tri := scene.NewTriangle(vertices[indices[0]], vertices[indices[1]], vertices[indices[2]], matIndex)
		if hasNormals {
			for triIndex, selectIndex := range indices {
				tri.Normals[triIndex] = normals[selectIndex]
			}
		}
		triangles = append(triangles, tri)
	}

	return triangles, nil
}

// Parse a sphere definition: sphere cx cy cz radius
func (r *wavefrontSceneReader) parseSphere(lineTokens []string) (scene.Sphere, error) {
	if len(lineTokens) != 5 {
		return scene.Sphere{}, fmt.Errorf(`unsupported syntax for "sphere"; expected 4 arguments; got %d`, len(lineTokens)-1)
	}

	center, err := parseVec3(lineTokens[:4])
	if err != nil {
		return scene.Sphere{}, err
	}
	radius, err := parseFloat32([]string{lineTokens[0], lineTokens[4]})
	if err != nil {
		return scene.Sphere{}, err
	}
	if !(radius > 0) {
		return scene.Sphere{}, fmt.Errorf("sphere radius must be positive; got %v", radius)
	}

	return scene.Sphere{
		Center:        center,
		Radius:        radius,
		MaterialIndex: r.useCurrentMaterial(),
	}, nil
}

// Parse a wavefront material library.
func (r *wavefrontSceneReader) parseMaterials(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	r.logger.Infof(`parsing material library "%s"`, res.Path())

	var curMaterial *wavefrontMaterial
	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		if lineTokens[0] == "newmtl" {
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName := lineTokens[1]
			if _, exists := r.matNameToIndex[matName]; exists {
				return r.emitError(res.Path(), lineNum, `material "%s" already defined`, matName)
			}

			curMaterial = &wavefrontMaterial{Name: matName}
			r.materials = append(r.materials, curMaterial)
			r.matNameToIndex[matName] = len(r.materials) - 1
			continue
		}

		if curMaterial == nil {
			return r.emitError(res.Path(), lineNum, `got "%s" without a "newmtl"`, lineTokens[0])
		}

		switch lineTokens[0] {
		case "Kd":
			curMaterial.Kd, err = parseVec3(lineTokens)
			if clamped := curMaterial.Kd.Clamp(0, 1); clamped != curMaterial.Kd {
				r.logger.Warningf(`[%s: %d] clamping albedo of material "%s" to [0, 1]`, res.Path(), lineNum, curMaterial.Name)
				curMaterial.Kd = clamped
			}
		case "Ke":
			curMaterial.Ke, err = parseVec3(lineTokens)
			if clamped := curMaterial.Ke.Clamp(0, math.MaxFloat32); clamped != curMaterial.Ke {
				r.logger.Warningf(`[%s: %d] clamping negative emission of material "%s" to 0`, res.Path(), lineNum, curMaterial.Name)
				curMaterial.Ke = clamped
			}
		case "Pm":
			curMaterial.Pm, err = parseFloat32(lineTokens)
			curMaterial.Pm = mgl32.Clamp(curMaterial.Pm, 0, 1)
		default:
			r.logger.Debugf(`[%s: %d] skipping unsupported material directive "%s"`, res.Path(), lineNum, lineTokens[0])
		}

		if err != nil {
			return r.emitError(res.Path(), lineNum, err.Error())
		}
	}

	return scanner.Err()
}

// Given an index for a face coord type (vertex, normal) calculate the proper
// offset into the coord list. Negative indices reference elements from the
// end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a float scalar value.
func parseFloat32(lineTokens []string) (float32, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	val, err := strconv.ParseFloat(lineTokens[1], 32)
	if err != nil {
		return 0, err
	}

	return float32(val), nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
