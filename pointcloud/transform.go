package pointcloud

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/pointclouds/engine"
)

// TransformCloud applies the homogeneous transform t to every point and,
// when normals are supplied, rotates each normal by t's upper-left 3x3
// block with no translation. t must be 4x4; its bottom row is assumed to be
// [0 0 0 1] and is not applied, so a non-affine t gives unspecified
// results. Rotated normals are not re-normalized: a non-orthonormal
// rotation block leaves them non-unit.
func TransformCloud(t *mat.Dense, cloud Cloud, normals Normals) (Cloud, Normals, error) {
	if r, c := t.Dims(); r != 4 || c != 4 {
		return nil, nil, &engine.ConfigurationError{Reason: fmt.Sprintf("transform must be 4x4, got %dx%d", r, c)}
	}
	if err := checkAligned(cloud, normals); err != nil {
		return nil, nil, err
	}

	outCloud := make(Cloud, len(cloud))
	for i, p := range cloud {
		outCloud[i] = r3.Vector{
			X: t.At(0, 0)*p.X + t.At(0, 1)*p.Y + t.At(0, 2)*p.Z + t.At(0, 3),
			Y: t.At(1, 0)*p.X + t.At(1, 1)*p.Y + t.At(1, 2)*p.Z + t.At(1, 3),
			Z: t.At(2, 0)*p.X + t.At(2, 1)*p.Y + t.At(2, 2)*p.Z + t.At(2, 3),
		}
	}
	if normals == nil {
		return outCloud, nil, nil
	}
	outNormals := make(Normals, len(normals))
	for i, n := range normals {
		outNormals[i] = r3.Vector{
			X: t.At(0, 0)*n.X + t.At(0, 1)*n.Y + t.At(0, 2)*n.Z,
			Y: t.At(1, 0)*n.X + t.At(1, 1)*n.Y + t.At(1, 2)*n.Z,
			Z: t.At(2, 0)*n.X + t.At(2, 1)*n.Y + t.At(2, 2)*n.Z,
		}
	}
	return outCloud, outNormals, nil
}

// Identity returns the 4x4 identity transform.
func Identity() *mat.Dense {
	t := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		t.Set(i, i, 1)
	}
	return t
}
