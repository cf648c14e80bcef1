package pointcloud

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/pointclouds/engine"
	"go.viam.com/pointclouds/engine/fake"
)

func TestPCDRoundTrip(t *testing.T) {
	eng := &fake.Engine{}
	path := filepath.Join(t.TempDir(), "cloud.pcd")
	cloud := Cloud{
		{X: 1.5, Y: -2, Z: 0.25},
		{X: 0, Y: 0, Z: 0},
		{X: 100, Y: 200, Z: 300},
	}
	test.That(t, SavePCD(eng, path, cloud), test.ShouldBeNil)

	got, err := LoadPCD(eng, path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, cloud)
	test.That(t, eng.Released, test.ShouldEqual, eng.Allocated)
}

func TestLoadPCDMissing(t *testing.T) {
	eng := &fake.Engine{}
	_, err := LoadPCD(eng, filepath.Join(t.TempDir(), "nope.pcd"))
	var ioErr *engine.IOError
	test.That(t, errors.As(err, &ioErr), test.ShouldBeTrue)
	test.That(t, ioErr.Op, test.ShouldEqual, "load")
}

func TestSaveOrganizedPCD(t *testing.T) {
	eng := &fake.Engine{}
	path := filepath.Join(t.TempDir(), "organized.pcd")
	cloud := make(Cloud, 6)
	for i := range cloud {
		cloud[i].X = float64(i)
	}
	test.That(t, SaveOrganizedPCD(eng, path, cloud, 2, 3), test.ShouldBeNil)

	got, err := LoadPCD(eng, path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, cloud)
}

func TestSaveOrganizedPCDShapeMismatch(t *testing.T) {
	eng := &fake.Engine{}
	path := filepath.Join(t.TempDir(), "bad.pcd")
	cloud := make(Cloud, 5)

	err := SaveOrganizedPCD(eng, path, cloud, 2, 3)
	var shapeErr *ShapeMismatchError
	test.That(t, errors.As(err, &shapeErr), test.ShouldBeTrue)
	test.That(t, shapeErr.Points, test.ShouldEqual, 5)

	// nothing was written
	_, statErr := os.Stat(path)
	test.That(t, os.IsNotExist(statErr), test.ShouldBeTrue)
	test.That(t, eng.Allocated, test.ShouldEqual, 0)
}

func TestCloudFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloud.pcc")
	cloud := Cloud{{X: 1, Y: 2, Z: 3}, {X: -1, Y: 0, Z: 0.5}}
	normals := Normals{{Z: 1}, {X: 1}}

	test.That(t, SaveCloudFile(path, cloud, normals), test.ShouldBeNil)
	gotCloud, gotNormals, err := LoadCloudFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, gotCloud, test.ShouldResemble, cloud)
	test.That(t, gotNormals, test.ShouldResemble, normals)
}

func TestCloudFileWithoutNormals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloud.pcc")
	cloud := Cloud{{X: 1, Y: 2, Z: 3}}

	test.That(t, SaveCloudFile(path, cloud, nil), test.ShouldBeNil)
	gotCloud, gotNormals, err := LoadCloudFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, gotCloud, test.ShouldResemble, cloud)
	test.That(t, gotNormals, test.ShouldBeNil)
}

func TestCloudFileMisaligned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloud.pcc")
	err := SaveCloudFile(path, Cloud{{X: 1}, {X: 2}}, Normals{{Z: 1}})
	test.That(t, err, test.ShouldNotBeNil)
	_, statErr := os.Stat(path)
	test.That(t, os.IsNotExist(statErr), test.ShouldBeTrue)
}

func TestLoadCloudFileMissing(t *testing.T) {
	_, _, err := LoadCloudFile(filepath.Join(t.TempDir(), "nope.pcc"))
	var ioErr *engine.IOError
	test.That(t, errors.As(err, &ioErr), test.ShouldBeTrue)
}
