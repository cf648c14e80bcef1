// Package engine defines the boundary to the native geometry engine that
// backs normal estimation, voxel downsampling, statistical outlier removal,
// plane segmentation, and PCD record I/O.
//
// The engine speaks the native wrapper's C ABI: flat row-major xyz float32
// arrays with explicit counts in, engine-owned output buffers plus result
// counts out, and small integer status codes where negative values denote
// operation specific failure classes. Everything above this package works in
// r3.Vector slices; the packing and the ownership handoff for engine output
// buffers happen here and only here.
package engine

// Status is the raw result code of an engine call. Zero or positive means
// success. Negative values are operation specific failure classes and must
// be mapped to typed errors before leaving this package.
type Status int32

// Failure classes shared by the engine's operations. Individual operations
// document which of these they can return.
const (
	// StatusInvalidArgument reports a precondition violation, such as an
	// ambiguous neighborhood selector.
	StatusInvalidArgument Status = -1
	// StatusSizeMismatch reports that the engine produced an output count
	// inconsistent with the input count.
	StatusSizeMismatch Status = -2
)

// OK reports whether the status denotes success.
func (s Status) OK() bool {
	return s >= 0
}

// FloatBuffer is an engine-owned float output buffer. It is valid only
// between the successful call that produced it and the first Take or
// Release, and must end up released exactly once. Buffers are not safe for
// concurrent use; the copy-then-release sequence for one buffer should
// complete before further engine calls unless the bound engine documents
// reentrant semantics.
type FloatBuffer interface {
	// Len returns the number of float elements in the buffer.
	Len() int

	// Take copies the buffer's contents into dst, which must have length
	// Len(), and releases the underlying engine allocation. It may be
	// called at most once, and not after Release.
	Take(dst []float32) error

	// Release frees the allocation without copying. It is a no-op if the
	// buffer was already taken or released.
	Release()
}

// IntBuffer is an engine-owned integer output buffer with the same
// lifetime rules as FloatBuffer.
type IntBuffer interface {
	Len() int
	Take(dst []int32) error
	Release()
}

// Geometry is the set of native operations this library fronts. Inputs are
// caller-owned and read-only; implementations must not retain or mutate
// them. Point arrays are flat row-major xyz triples, so the point count is
// len(points)/3.
//
// All calls are synchronous and single-shot; results are deterministic for
// a given input, so callers should not retry failures with unchanged
// arguments.
type Geometry interface {
	// EstimateNormals computes one surface normal per input point. Exactly
	// one of k (neighbor count) or radius (search sphere) must be
	// positive; the unused selector is given a non-positive sentinel.
	// Fails with StatusInvalidArgument when both or neither are positive,
	// and StatusSizeMismatch when the engine's normal count differs from
	// the input point count.
	EstimateNormals(points []float32, k int, radius float32) (FloatBuffer, Status)

	// Voxelize reduces the cloud to one representative point per occupied
	// cell of a regular grid with the given edge length. The
	// representative selection policy is engine internal.
	Voxelize(points []float32, voxelSize float32) (FloatBuffer, Status)

	// RemoveStatisticalOutliers drops points whose mean distance to their
	// meanK nearest neighbors deviates from the cloud-wide distribution
	// by more than stddevMulThresh standard deviations.
	RemoveStatisticalOutliers(points []float32, meanK int, stddevMulThresh float32) (FloatBuffer, Status)

	// SegmentPlane returns the point indices of the inliers of the
	// largest planar model within distanceThreshold, empty when no plane
	// is found.
	SegmentPlane(points []float32, distanceThreshold float32) (IntBuffer, Status)

	// LoadPCD reads a PCD record, returning its points. Fails with a
	// negative status on unreadable or malformed input.
	LoadPCD(path string) (FloatBuffer, Status)

	// SavePCD writes the points as an unorganized ASCII PCD record.
	SavePCD(path string, points []float32) Status

	// SaveOrganizedPCD writes the points as an organized height x width
	// PCD record in row-major order. The caller guarantees
	// height*width == len(points)/3.
	SaveOrganizedPCD(path string, points []float32, height, width int) Status
}
