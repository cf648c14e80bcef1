package pointcloud

import (
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/pointclouds/engine"
)

// Two exchange formats: PCD records go through the engine, applying the
// ownership protocol on load; the tagged-container format is a CBOR map
// with a required "cloud" key and an optional "normals" key that is null
// when no normals are carried.

// LoadPCD reads a PCD record through the engine.
func LoadPCD(g engine.Geometry, path string) (Cloud, error) {
	pts, err := engine.LoadPCD(g, path)
	if err != nil {
		return nil, err
	}
	return pts, nil
}

// SavePCD writes the cloud as an unorganized ASCII PCD record through the
// engine.
func SavePCD(g engine.Geometry, path string, cloud Cloud) error {
	return engine.SavePCD(g, path, cloud)
}

// SaveOrganizedPCD writes the cloud as an organized height x width PCD
// record, laid out row-major. The shape must account for every point
// exactly; otherwise a ShapeMismatchError is returned and nothing is
// written.
func SaveOrganizedPCD(g engine.Geometry, path string, cloud Cloud, height, width int) error {
	if height*width != len(cloud) {
		return &ShapeMismatchError{Height: height, Width: width, Points: len(cloud)}
	}
	return engine.SaveOrganizedPCD(g, path, cloud, height, width)
}

type cloudContainer struct {
	Cloud   [][3]float64 `cbor:"cloud"`
	Normals [][3]float64 `cbor:"normals"`
}

func toTriples(vs []r3.Vector) [][3]float64 {
	if vs == nil {
		return nil
	}
	out := make([][3]float64, len(vs))
	for i, v := range vs {
		out[i] = [3]float64{v.X, v.Y, v.Z}
	}
	return out
}

func fromTriples(ts [][3]float64) []r3.Vector {
	if ts == nil {
		return nil
	}
	out := make([]r3.Vector, len(ts))
	for i, t := range ts {
		out[i] = r3.Vector{X: t[0], Y: t[1], Z: t[2]}
	}
	return out
}

// SaveCloudFile writes the cloud, and normals when supplied, as a CBOR
// tagged container. Absent normals are written as null.
func SaveCloudFile(path string, cloud Cloud, normals Normals) (err error) {
	if err = checkAligned(cloud, normals); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return &engine.IOError{Op: "save", Path: path, Cause: err}
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	doc := cloudContainer{Cloud: toTriples(cloud), Normals: toTriples(normals)}
	if encErr := cbor.NewEncoder(f).Encode(&doc); encErr != nil {
		return &engine.IOError{Op: "save", Path: path, Cause: encErr}
	}
	return nil
}

// LoadCloudFile reads a CBOR tagged container, returning the cloud and its
// normals, nil when the container carries none.
func LoadCloudFile(path string) (Cloud, Normals, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &engine.IOError{Op: "load", Path: path, Cause: err}
	}
	defer utils.UncheckedErrorFunc(f.Close)

	var doc cloudContainer
	if decErr := cbor.NewDecoder(f).Decode(&doc); decErr != nil {
		return nil, nil, &engine.IOError{Op: "load", Path: path, Cause: decErr}
	}
	if doc.Cloud == nil {
		return nil, nil, &engine.IOError{Op: "load", Path: path, Cause: errors.New("container has no cloud key")}
	}
	if doc.Normals != nil && len(doc.Normals) != len(doc.Cloud) {
		return nil, nil, &engine.IOError{
			Op: "load", Path: path,
			Cause: errors.Errorf("normals length %d does not match %d points", len(doc.Normals), len(doc.Cloud)),
		}
	}
	return fromTriples(doc.Cloud), fromTriples(doc.Normals), nil
}
