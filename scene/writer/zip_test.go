package writer

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/achilleasa/go-pathtrace/log"
	"github.com/achilleasa/go-pathtrace/scene"
	"github.com/achilleasa/go-pathtrace/scene/reader"
	"github.com/achilleasa/go-pathtrace/types"
)

func init() {
	log.SetLevel(log.Error)
}

func TestWriteAndReadBack(t *testing.T) {
	sc := scene.CornellBox()
	sc.Camera.Rotate(types.Vec3{0.1, -0.2, 0})

	sceneFile := filepath.Join(t.TempDir(), "cornell.zip")
	if err := WriteScene(sc, sceneFile); err != nil {
		t.Fatal(err)
	}

	loaded, err := reader.ReadScene(sceneFile)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(sc.Materials, loaded.Materials) {
		t.Fatalf("expected materials %v; got %v", sc.Materials, loaded.Materials)
	}
	if !reflect.DeepEqual(sc.Triangles, loaded.Triangles) {
		t.Fatal("expected triangles to survive the round trip")
	}
	if !reflect.DeepEqual(sc.Spheres, loaded.Spheres) {
		t.Fatalf("expected spheres %v; got %v", sc.Spheres, loaded.Spheres)
	}
	if *sc.Camera != *loaded.Camera {
		t.Fatalf("expected camera %v; got %v", *sc.Camera, *loaded.Camera)
	}
}

func TestWriteInvalidScene(t *testing.T) {
	sc := scene.NewScene()
	err := WriteScene(sc, filepath.Join(t.TempDir(), "empty.zip"))
	if err != scene.ErrCameraNotDefined {
		t.Fatalf("expected to get ErrCameraNotDefined; got %v", err)
	}
}

func TestWriteToMissingFolder(t *testing.T) {
	err := WriteScene(scene.CornellBox(), filepath.Join(t.TempDir(), "missing", "scene.zip"))
	if err == nil {
		t.Fatal("expected an error")
	}
}
