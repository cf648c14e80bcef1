// Package fake provides a pure-Go engine.Geometry for tests and for
// development without the native library. Each operation can be scripted
// per test; unscripted operations fall back to simple deterministic
// behaviors that honor the boundary contract, and the PCD operations use a
// real ASCII codec. The engine also counts buffer allocations and releases
// so tests can assert the ownership protocol.
package fake

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/pointclouds/engine"
)

// Engine is a scripted engine.Geometry. The zero value is usable.
type Engine struct {
	// Per-operation overrides. When nil, a default takes over: normals
	// are (0,0,1) per point, voxelization keeps one centroid per occupied
	// cell, outlier removal retains everything, and plane segmentation
	// finds nothing.
	NormalsFn  func(points []float32, k int, radius float32) ([]float32, engine.Status)
	VoxelizeFn func(points []float32, voxelSize float32) ([]float32, engine.Status)
	OutliersFn func(points []float32, meanK int, stddevMulThresh float32) ([]float32, engine.Status)
	PlaneFn    func(points []float32, distanceThreshold float32) ([]int32, engine.Status)

	// FailTake makes every buffer Take fail, for exercising the copy
	// failure path without releasing the buffer.
	FailTake bool

	// Allocated and Released count output buffers handed out and
	// released. The ownership protocol holds iff they are equal once all
	// calls have returned.
	Allocated int
	Released  int
}

type floatBuffer struct {
	eng  *Engine
	data []float32
	done bool
}

func (b *floatBuffer) Len() int {
	return len(b.data)
}

func (b *floatBuffer) Take(dst []float32) error {
	if b.done {
		return errors.New("take of released float buffer")
	}
	if b.eng.FailTake {
		return errors.New("scripted take failure")
	}
	if len(dst) != len(b.data) {
		return errors.Errorf("take into %d floats, buffer holds %d", len(dst), len(b.data))
	}
	copy(dst, b.data)
	b.done = true
	b.eng.Released++
	return nil
}

func (b *floatBuffer) Release() {
	if b.done {
		return
	}
	b.done = true
	b.eng.Released++
}

type intBuffer struct {
	eng  *Engine
	data []int32
	done bool
}

func (b *intBuffer) Len() int {
	return len(b.data)
}

func (b *intBuffer) Take(dst []int32) error {
	if b.done {
		return errors.New("take of released int buffer")
	}
	if b.eng.FailTake {
		return errors.New("scripted take failure")
	}
	if len(dst) != len(b.data) {
		return errors.Errorf("take into %d ints, buffer holds %d", len(dst), len(b.data))
	}
	copy(dst, b.data)
	b.done = true
	b.eng.Released++
	return nil
}

func (b *intBuffer) Release() {
	if b.done {
		return
	}
	b.done = true
	b.eng.Released++
}

func (e *Engine) newFloatBuffer(data []float32) engine.FloatBuffer {
	e.Allocated++
	return &floatBuffer{eng: e, data: data}
}

func (e *Engine) newIntBuffer(data []int32) engine.IntBuffer {
	e.Allocated++
	return &intBuffer{eng: e, data: data}
}

// EstimateNormals returns one normal per point, (0,0,1) unless scripted.
// The neighborhood selector contract matches the native wrapper: exactly
// one of k or radius positive.
func (e *Engine) EstimateNormals(points []float32, k int, radius float32) (engine.FloatBuffer, engine.Status) {
	if (k > 0) == (radius > 0) {
		return nil, engine.StatusInvalidArgument
	}
	if e.NormalsFn != nil {
		data, s := e.NormalsFn(points, k, radius)
		if !s.OK() {
			return nil, s
		}
		return e.newFloatBuffer(data), s
	}
	normals := make([]float32, len(points))
	for i := 0; i < len(normals); i += 3 {
		normals[i+2] = 1
	}
	return e.newFloatBuffer(normals), 0
}

// Voxelize keeps one centroid per occupied cell of a voxelSize grid. Cell
// order follows first occupancy, which is deterministic for a given input.
func (e *Engine) Voxelize(points []float32, voxelSize float32) (engine.FloatBuffer, engine.Status) {
	if voxelSize <= 0 {
		return nil, engine.StatusInvalidArgument
	}
	if e.VoxelizeFn != nil {
		data, s := e.VoxelizeFn(points, voxelSize)
		if !s.OK() {
			return nil, s
		}
		return e.newFloatBuffer(data), s
	}

	type cell struct{ i, j, k int64 }
	sums := map[cell][4]float64{}
	order := []cell{}
	for p := 0; p < len(points); p += 3 {
		c := cell{
			i: int64(math.Floor(float64(points[p]) / float64(voxelSize))),
			j: int64(math.Floor(float64(points[p+1]) / float64(voxelSize))),
			k: int64(math.Floor(float64(points[p+2]) / float64(voxelSize))),
		}
		s, seen := sums[c]
		if !seen {
			order = append(order, c)
		}
		s[0] += float64(points[p])
		s[1] += float64(points[p+1])
		s[2] += float64(points[p+2])
		s[3]++
		sums[c] = s
	}
	out := make([]float32, 0, 3*len(order))
	for _, c := range order {
		s := sums[c]
		out = append(out, float32(s[0]/s[3]), float32(s[1]/s[3]), float32(s[2]/s[3]))
	}
	return e.newFloatBuffer(out), 0
}

// RemoveStatisticalOutliers retains every point unless scripted.
func (e *Engine) RemoveStatisticalOutliers(points []float32, meanK int, stddevMulThresh float32) (engine.FloatBuffer, engine.Status) {
	if meanK < 1 || stddevMulThresh <= 0 {
		return nil, engine.StatusInvalidArgument
	}
	if e.OutliersFn != nil {
		data, s := e.OutliersFn(points, meanK, stddevMulThresh)
		if !s.OK() {
			return nil, s
		}
		return e.newFloatBuffer(data), s
	}
	kept := make([]float32, len(points))
	copy(kept, points)
	return e.newFloatBuffer(kept), 0
}

// SegmentPlane finds no plane unless scripted.
func (e *Engine) SegmentPlane(points []float32, distanceThreshold float32) (engine.IntBuffer, engine.Status) {
	if distanceThreshold <= 0 {
		return nil, engine.StatusInvalidArgument
	}
	if e.PlaneFn != nil {
		data, s := e.PlaneFn(points, distanceThreshold)
		if !s.OK() {
			return nil, s
		}
		return e.newIntBuffer(data), s
	}
	return e.newIntBuffer(nil), 0
}

// LoadPCD reads an ASCII PCD record from the local filesystem.
func (e *Engine) LoadPCD(path string) (engine.FloatBuffer, engine.Status) {
	points, err := readPCDFile(path)
	if err != nil {
		return nil, engine.StatusInvalidArgument
	}
	return e.newFloatBuffer(points), 0
}

// SavePCD writes an unorganized ASCII PCD record.
func (e *Engine) SavePCD(path string, points []float32) engine.Status {
	if err := writePCDFile(path, points, 1, len(points)/3); err != nil {
		return engine.StatusInvalidArgument
	}
	return 0
}

// SaveOrganizedPCD writes an organized height x width ASCII PCD record.
func (e *Engine) SaveOrganizedPCD(path string, points []float32, height, width int) engine.Status {
	if height*width != len(points)/3 {
		return engine.StatusSizeMismatch
	}
	if err := writePCDFile(path, points, height, width); err != nil {
		return engine.StatusInvalidArgument
	}
	return 0
}
