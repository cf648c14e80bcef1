package pointcloud

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/pointclouds/engine"
	"go.viam.com/pointclouds/engine/fake"
)

func TestVoxelize(t *testing.T) {
	eng := &fake.Engine{}
	cloud := Cloud{
		{X: 0.1, Y: 0.1, Z: 0.1},
		{X: 0.3, Y: 0.3, Z: 0.3}, // same cell as the first
		{X: 5, Y: 5, Z: 5},
	}
	got, err := Voxelize(eng, cloud, 1.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(got), test.ShouldEqual, 2)
	test.That(t, got[0].X, test.ShouldAlmostEqual, 0.2, 1e-6)
	test.That(t, eng.Released, test.ShouldEqual, eng.Allocated)
}

func TestVoxelizeBadSize(t *testing.T) {
	eng := &fake.Engine{}
	_, err := Voxelize(eng, Cloud{{X: 1}}, 0)
	var cfgErr *engine.ConfigurationError
	test.That(t, errors.As(err, &cfgErr), test.ShouldBeTrue)
	// the engine was never called
	test.That(t, eng.Allocated, test.ShouldEqual, 0)
}

func TestRemoveStatisticalOutliers(t *testing.T) {
	eng := &fake.Engine{
		OutliersFn: func(points []float32, meanK int, stddevMulThresh float32) ([]float32, engine.Status) {
			// drop the last point
			return points[:len(points)-3], 0
		},
	}
	cloud := Cloud{{X: 1}, {X: 2}, {X: 100}}
	got, err := RemoveStatisticalOutliers(eng, cloud, 2, 1.0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, Cloud{{X: 1}, {X: 2}})

	_, err = RemoveStatisticalOutliers(eng, cloud, 0, 1.0)
	var cfgErr *engine.ConfigurationError
	test.That(t, errors.As(err, &cfgErr), test.ShouldBeTrue)

	_, err = RemoveStatisticalOutliers(eng, cloud, 2, 0)
	test.That(t, errors.As(err, &cfgErr), test.ShouldBeTrue)
}

func TestSegmentPlane(t *testing.T) {
	eng := &fake.Engine{
		PlaneFn: func(points []float32, distanceThreshold float32) ([]int32, engine.Status) {
			return []int32{0, 2}, 0
		},
	}
	cloud := Cloud{{Z: 0}, {Z: 5}, {Z: 0.001}}
	inliers, err := SegmentPlane(eng, cloud, 0.01)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, inliers, test.ShouldResemble, Indices{0, 2})

	_, err = SegmentPlane(eng, cloud, 0)
	var cfgErr *engine.ConfigurationError
	test.That(t, errors.As(err, &cfgErr), test.ShouldBeTrue)
}

func TestSegmentPlaneNoneFound(t *testing.T) {
	eng := &fake.Engine{}
	inliers, err := SegmentPlane(eng, Cloud{{X: 1}, {Y: 2}}, 0.01)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(inliers), test.ShouldEqual, 0)
}

func TestSelectAndRemoveIndices(t *testing.T) {
	cloud := Cloud{{X: 0}, {X: 1}, {X: 2}, {X: 3}}
	normals := Normals{{Z: 1}, {Z: 2}, {Z: 3}, {Z: 4}}
	inliers := Indices{1, 3}

	selCloud, selNormals, err := SelectIndices(cloud, normals, inliers)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, selCloud, test.ShouldResemble, Cloud{{X: 1}, {X: 3}})
	test.That(t, selNormals, test.ShouldResemble, Normals{{Z: 2}, {Z: 4}})

	restCloud, restNormals, err := RemoveIndices(cloud, normals, inliers)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, restCloud, test.ShouldResemble, Cloud{{X: 0}, {X: 2}})
	test.That(t, restNormals, test.ShouldResemble, Normals{{Z: 1}, {Z: 3}})

	_, _, err = SelectIndices(cloud, nil, Indices{4})
	test.That(t, err, test.ShouldNotBeNil)
	_, _, err = RemoveIndices(cloud, nil, Indices{-1})
	test.That(t, err, test.ShouldNotBeNil)
}
