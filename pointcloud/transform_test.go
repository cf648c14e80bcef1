package pointcloud

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestTransformIdentity(t *testing.T) {
	cloud := Cloud{
		{X: 1, Y: 2, Z: 3},
		{X: -4, Y: 0.5, Z: 0},
	}
	got, _, err := TransformCloud(Identity(), cloud, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, cloud)
}

func TestTransformRoundTrip(t *testing.T) {
	// rotation of pi/3 about z plus a translation
	c, s := math.Cos(math.Pi/3), math.Sin(math.Pi/3)
	fwd := mat.NewDense(4, 4, []float64{
		c, -s, 0, 1.5,
		s, c, 0, -2,
		0, 0, 1, 0.25,
		0, 0, 0, 1,
	})
	var inv mat.Dense
	err := inv.Inverse(fwd)
	test.That(t, err, test.ShouldBeNil)

	cloud := Cloud{
		{X: 1, Y: 2, Z: 3},
		{X: 0, Y: 0, Z: 0},
		{X: -7, Y: 0.1, Z: 4.5},
	}
	there, _, err := TransformCloud(fwd, cloud, nil)
	test.That(t, err, test.ShouldBeNil)
	back, _, err := TransformCloud(&inv, there, nil)
	test.That(t, err, test.ShouldBeNil)
	for i := range cloud {
		test.That(t, back[i].X, test.ShouldAlmostEqual, cloud[i].X, 1e-9)
		test.That(t, back[i].Y, test.ShouldAlmostEqual, cloud[i].Y, 1e-9)
		test.That(t, back[i].Z, test.ShouldAlmostEqual, cloud[i].Z, 1e-9)
	}
}

func TestTransformNormalsIgnoreTranslation(t *testing.T) {
	translation := mat.NewDense(4, 4, []float64{
		1, 0, 0, 10,
		0, 1, 0, 20,
		0, 0, 1, 30,
		0, 0, 0, 1,
	})
	cloud := Cloud{{X: 1, Y: 1, Z: 1}}
	normals := Normals{{X: 0, Y: 0, Z: 1}}

	gotCloud, gotNormals, err := TransformCloud(translation, cloud, normals)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, gotCloud, test.ShouldResemble, Cloud{{X: 11, Y: 21, Z: 31}})
	test.That(t, gotNormals, test.ShouldResemble, normals)
	// the inputs were not aliased
	test.That(t, &gotNormals[0], test.ShouldNotEqual, &normals[0])
}

func TestTransformRotatesNormals(t *testing.T) {
	// pi/2 about z maps +x to +y
	rot := mat.NewDense(4, 4, []float64{
		0, -1, 0, 0,
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	_, gotNormals, err := TransformCloud(rot, Cloud{{X: 0, Y: 0, Z: 0}}, Normals{{X: 1}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, gotNormals[0].X, test.ShouldAlmostEqual, 0)
	test.That(t, gotNormals[0].Y, test.ShouldAlmostEqual, 1)
	test.That(t, gotNormals[0].Z, test.ShouldAlmostEqual, 0)
}

func TestTransformBadShape(t *testing.T) {
	_, _, err := TransformCloud(mat.NewDense(3, 3, nil), Cloud{{X: 1}}, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "4x4")
}
