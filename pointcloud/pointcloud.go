// Package pointcloud provides point cloud processing primitives backed by a
// native geometry engine: index-aligned filtering, rigid transforms,
// surface normal estimation with viewpoint-consistent orientation, voxel
// downsampling, statistical outlier removal, plane segmentation, and record
// I/O in two exchange formats.
//
// Clouds, normals, and viewpoints are plain r3.Vector slices kept in strict
// 1:1 index correspondence through every operation. Public operations never
// mutate their inputs; each returns freshly owned slices, so a failed call
// leaves caller state untouched. All operations are synchronous and carry
// no cancellation; a large input simply blocks longer.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
)

// Cloud is an ordered sequence of 3D points.
type Cloud []r3.Vector

// Normals holds one surface normal per cloud point, index-aligned with the
// cloud it was derived from.
type Normals []r3.Vector

// Viewpoints holds, per point, the sensor origin the point was observed
// from, used to disambiguate normal sign.
type Viewpoints []r3.Vector

// Indices is an ordered sequence of indices into a Cloud, such as the
// inliers of a segmented plane. No uniqueness or ordering is imposed beyond
// what the producing operation returns.
type Indices []int

// Axis selects a coordinate axis.
type Axis int

// The three coordinate axes.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) of(v r3.Vector) float64 {
	switch a {
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	default:
		return v.X
	}
}

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min, Max float64
}

// Workspace is an axis-aligned box given as one Range per axis, in XYZ
// order.
type Workspace [3]Range

// Contains reports whether p lies inside the box, bounds inclusive.
func (w Workspace) Contains(p r3.Vector) bool {
	return p.X >= w[0].Min && p.X <= w[0].Max &&
		p.Y >= w[1].Min && p.Y <= w[1].Max &&
		p.Z >= w[2].Min && p.Z <= w[2].Max
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finiteVector(v r3.Vector) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}
