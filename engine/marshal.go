package engine

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// PackVectors flattens vectors into the row-major xyz float32 layout the
// engine consumes. The result is freshly allocated; the input is not
// retained.
func PackVectors(vs []r3.Vector) []float32 {
	packed := make([]float32, 3*len(vs))
	for i, v := range vs {
		packed[3*i] = float32(v.X)
		packed[3*i+1] = float32(v.Y)
		packed[3*i+2] = float32(v.Z)
	}
	return packed
}

// UnpackVectors is the inverse of PackVectors. len(packed) must be a
// multiple of 3.
func UnpackVectors(packed []float32) []r3.Vector {
	vs := make([]r3.Vector, len(packed)/3)
	for i := range vs {
		vs[i] = r3.Vector{
			X: float64(packed[3*i]),
			Y: float64(packed[3*i+1]),
			Z: float64(packed[3*i+2]),
		}
	}
	return vs
}

// CopyVectors moves an engine-owned float buffer into a freshly owned
// vector slice. The buffer is released exactly once on every path, and the
// raw buffer never escapes: a failed copy yields a *ResourceError and no
// usable result. The buffer must come from a successful engine call.
func CopyVectors(buf FloatBuffer) ([]r3.Vector, error) {
	defer buf.Release()
	n := buf.Len()
	if n%3 != 0 {
		return nil, &ResourceError{Reason: fmt.Sprintf("float buffer length %d is not a multiple of 3", n)}
	}
	packed := make([]float32, n)
	if err := buf.Take(packed); err != nil {
		return nil, &ResourceError{Reason: "copying engine float buffer", Cause: err}
	}
	return UnpackVectors(packed), nil
}

// CopyIndices moves an engine-owned index buffer into a freshly owned int
// slice, with the same ownership guarantees as CopyVectors.
func CopyIndices(buf IntBuffer) ([]int, error) {
	defer buf.Release()
	raw := make([]int32, buf.Len())
	if err := buf.Take(raw); err != nil {
		return nil, &ResourceError{Reason: "copying engine index buffer", Cause: err}
	}
	indices := make([]int, len(raw))
	for i, v := range raw {
		indices[i] = int(v)
	}
	return indices, nil
}

// EstimateNormals invokes the engine and marshals the result, mapping the
// operation's failure classes into typed errors. On success the returned
// normals are owned by the caller and index-aligned with pts.
func EstimateNormals(g Geometry, pts []r3.Vector, k int, radius float64) ([]r3.Vector, error) {
	buf, s := g.EstimateNormals(PackVectors(pts), k, float32(radius))
	if !s.OK() {
		switch s {
		case StatusInvalidArgument:
			return nil, &ConfigurationError{
				Reason: fmt.Sprintf("exactly one of k (%d) or radius (%v) must be positive", k, radius),
			}
		case StatusSizeMismatch:
			return nil, &SizeMismatchError{Want: len(pts), Got: -1}
		default:
			return nil, statusError("normal estimation", s)
		}
	}
	normals, err := CopyVectors(buf)
	if err != nil {
		return nil, err
	}
	if len(normals) != len(pts) {
		return nil, &SizeMismatchError{Want: len(pts), Got: len(normals)}
	}
	return normals, nil
}

// Voxelize invokes the engine's voxel grid downsampler and marshals the
// reduced cloud.
func Voxelize(g Geometry, pts []r3.Vector, voxelSize float64) ([]r3.Vector, error) {
	buf, s := g.Voxelize(PackVectors(pts), float32(voxelSize))
	if !s.OK() {
		if s == StatusInvalidArgument {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("voxel size %v must be positive", voxelSize)}
		}
		return nil, statusError("voxel downsampling", s)
	}
	return CopyVectors(buf)
}

// RemoveStatisticalOutliers invokes the engine's statistical outlier filter
// and marshals the retained points.
func RemoveStatisticalOutliers(g Geometry, pts []r3.Vector, meanK int, stddevMulThresh float64) ([]r3.Vector, error) {
	buf, s := g.RemoveStatisticalOutliers(PackVectors(pts), meanK, float32(stddevMulThresh))
	if !s.OK() {
		if s == StatusInvalidArgument {
			return nil, &ConfigurationError{
				Reason: fmt.Sprintf("meanK %d must be at least 1 and stddevMulThresh %v must be positive", meanK, stddevMulThresh),
			}
		}
		return nil, statusError("statistical outlier removal", s)
	}
	return CopyVectors(buf)
}

// SegmentPlane invokes the engine's planar segmentation and marshals the
// inlier indices of the largest detected plane, empty when none was found.
func SegmentPlane(g Geometry, pts []r3.Vector, distanceThreshold float64) ([]int, error) {
	buf, s := g.SegmentPlane(PackVectors(pts), float32(distanceThreshold))
	if !s.OK() {
		if s == StatusInvalidArgument {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("distance threshold %v must be positive", distanceThreshold)}
		}
		return nil, statusError("plane segmentation", s)
	}
	return CopyIndices(buf)
}

// LoadPCD reads a PCD record through the engine and marshals its points.
func LoadPCD(g Geometry, path string) ([]r3.Vector, error) {
	buf, s := g.LoadPCD(path)
	if !s.OK() {
		return nil, &IOError{Op: "load", Path: path}
	}
	return CopyVectors(buf)
}

// SavePCD writes pts as an unorganized ASCII PCD record through the engine.
func SavePCD(g Geometry, path string, pts []r3.Vector) error {
	if s := g.SavePCD(path, PackVectors(pts)); !s.OK() {
		return &IOError{Op: "save", Path: path}
	}
	return nil
}

// SaveOrganizedPCD writes pts as an organized height x width PCD record
// through the engine. The caller is responsible for height*width matching
// the point count.
func SaveOrganizedPCD(g Geometry, path string, pts []r3.Vector, height, width int) error {
	if s := g.SaveOrganizedPCD(path, PackVectors(pts), height, width); !s.OK() {
		return &IOError{Op: "save organized", Path: path}
	}
	return nil
}
