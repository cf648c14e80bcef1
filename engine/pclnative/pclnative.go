//go:build cgo

// Package pclnative binds the geometry boundary to the native PCL wrapper
// shared library (libpclwrap). The wrapper exposes a flat C ABI over PCL's
// normal estimation, voxel grid, statistical outlier removal, RANSAC plane
// segmentation, and PCD I/O; outputs are arrays allocated by the wrapper
// whose only deallocator, CopyAndFree, copies and frees in one call.
package pclnative

/*
#cgo LDFLAGS: -lpclwrap
#include <stdlib.h>

extern int PclComputeNormals(float* pointsIn, int nPointsIn, int kNeighborhood, float radiusNeighborhood, float** normalsOut);
extern int PclVoxelize(float* pointsIn, int nPointsIn, float voxelSize, float** pointsOut, int* nPointsOut);
extern int PclRemoveStatisticalOutliers(float* pointsIn, int nPointsIn, int meanK, float stddevMulThresh, float** pointsOut, int* nPointsOut);
extern int PclSegmentPlane(float* pointsIn, int nPointsIn, float distanceThreshold, int** indicesOut, int* nIndicesOut);
extern int PclLoadPcd(char* fileName, float** ppoints, int* nPoints);
extern int PclSavePcd(char* fileName, float* points, int nPoints);
extern int PclSaveOrganizedPcd(char* fileName, float* points, int nPoints, int height, int width);
extern int CopyAndFree(float* in, float* out, int nPoints);
extern int CopyAndFreeInt(int* in, int* out, int nIndices);
*/
import "C"

import (
	"unsafe"

	"github.com/pkg/errors"

	"go.viam.com/pointclouds/engine"
)

type nativeEngine struct{}

// New returns a Geometry backed by the native wrapper library.
func New() (engine.Geometry, error) {
	return &nativeEngine{}, nil
}

func floatsIn(points []float32) *C.float {
	if len(points) == 0 {
		return nil
	}
	return (*C.float)(unsafe.Pointer(&points[0]))
}

// floatBuffer wraps a wrapper-allocated float array. n counts float
// elements, always a multiple of 3.
type floatBuffer struct {
	ptr  *C.float
	n    int
	done bool
}

func (b *floatBuffer) Len() int {
	return b.n
}

func (b *floatBuffer) Take(dst []float32) error {
	if b.done {
		return errors.New("take of released native buffer")
	}
	if len(dst) != b.n {
		return errors.Errorf("take into %d floats, buffer holds %d", len(dst), b.n)
	}
	C.CopyAndFree(b.ptr, floatsIn(dst), C.int(b.n/3))
	b.done = true
	return nil
}

func (b *floatBuffer) Release() {
	if b.done {
		return
	}
	// CopyAndFree is the wrapper's only deallocator, so an abandoned
	// buffer is drained into scratch space to free it.
	scratch := make([]float32, b.n)
	C.CopyAndFree(b.ptr, floatsIn(scratch), C.int(b.n/3))
	b.done = true
}

type intBuffer struct {
	ptr  *C.int
	n    int
	done bool
}

func (b *intBuffer) Len() int {
	return b.n
}

func intsOut(dst []int32) *C.int {
	if len(dst) == 0 {
		return nil
	}
	return (*C.int)(unsafe.Pointer(&dst[0]))
}

func (b *intBuffer) Take(dst []int32) error {
	if b.done {
		return errors.New("take of released native buffer")
	}
	if len(dst) != b.n {
		return errors.Errorf("take into %d ints, buffer holds %d", len(dst), b.n)
	}
	C.CopyAndFreeInt(b.ptr, intsOut(dst), C.int(b.n))
	b.done = true
	return nil
}

func (b *intBuffer) Release() {
	if b.done {
		return
	}
	scratch := make([]int32, b.n)
	C.CopyAndFreeInt(b.ptr, intsOut(scratch), C.int(b.n))
	b.done = true
}

func (e *nativeEngine) EstimateNormals(points []float32, k int, radius float32) (engine.FloatBuffer, engine.Status) {
	n := len(points) / 3
	var out *C.float
	s := C.PclComputeNormals(floatsIn(points), C.int(n), C.int(k), C.float(radius), &out)
	if s < 0 {
		return nil, engine.Status(s)
	}
	return &floatBuffer{ptr: out, n: 3 * n}, engine.Status(s)
}

func (e *nativeEngine) Voxelize(points []float32, voxelSize float32) (engine.FloatBuffer, engine.Status) {
	var out *C.float
	var nOut C.int
	s := C.PclVoxelize(floatsIn(points), C.int(len(points)/3), C.float(voxelSize), &out, &nOut)
	if s < 0 {
		return nil, engine.Status(s)
	}
	return &floatBuffer{ptr: out, n: 3 * int(nOut)}, engine.Status(s)
}

func (e *nativeEngine) RemoveStatisticalOutliers(points []float32, meanK int, stddevMulThresh float32) (engine.FloatBuffer, engine.Status) {
	var out *C.float
	var nOut C.int
	s := C.PclRemoveStatisticalOutliers(floatsIn(points), C.int(len(points)/3), C.int(meanK), C.float(stddevMulThresh), &out, &nOut)
	if s < 0 {
		return nil, engine.Status(s)
	}
	return &floatBuffer{ptr: out, n: 3 * int(nOut)}, engine.Status(s)
}

func (e *nativeEngine) SegmentPlane(points []float32, distanceThreshold float32) (engine.IntBuffer, engine.Status) {
	var out *C.int
	var nOut C.int
	s := C.PclSegmentPlane(floatsIn(points), C.int(len(points)/3), C.float(distanceThreshold), &out, &nOut)
	if s < 0 {
		return nil, engine.Status(s)
	}
	return &intBuffer{ptr: out, n: int(nOut)}, engine.Status(s)
}

func (e *nativeEngine) LoadPCD(path string) (engine.FloatBuffer, engine.Status) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	var out *C.float
	var nOut C.int
	s := C.PclLoadPcd(cPath, &out, &nOut)
	if s < 0 {
		return nil, engine.Status(s)
	}
	return &floatBuffer{ptr: out, n: 3 * int(nOut)}, engine.Status(s)
}

func (e *nativeEngine) SavePCD(path string, points []float32) engine.Status {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	return engine.Status(C.PclSavePcd(cPath, floatsIn(points), C.int(len(points)/3)))
}

func (e *nativeEngine) SaveOrganizedPCD(path string, points []float32, height, width int) engine.Status {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	return engine.Status(C.PclSaveOrganizedPcd(cPath, floatsIn(points), C.int(len(points)/3), C.int(height), C.int(width)))
}
