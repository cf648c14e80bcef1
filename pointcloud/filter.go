package pointcloud

import (
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/pointclouds/engine"
)

// Filtering stages are pure and order-preserving: each retains a subset of
// points by a per-point predicate, applying the identical mask to normals
// when supplied, so point/normal correspondence survives any composition of
// stages.

func checkAligned(cloud Cloud, normals Normals) error {
	if normals != nil && len(normals) != len(cloud) {
		return &engine.ConfigurationError{
			Reason: fmt.Sprintf("normals length %d does not match %d points", len(normals), len(cloud)),
		}
	}
	return nil
}

func filter(cloud Cloud, normals Normals, keep func(r3.Vector) bool) (Cloud, Normals) {
	outCloud := make(Cloud, 0, len(cloud))
	var outNormals Normals
	if normals != nil {
		outNormals = make(Normals, 0, len(cloud))
	}
	for i, p := range cloud {
		if !keep(p) {
			continue
		}
		outCloud = append(outCloud, p)
		if normals != nil {
			outNormals = append(outNormals, normals[i])
		}
	}
	return outCloud, outNormals
}

// FilterNaNs returns the points whose coordinates are all finite, in their
// original order.
func FilterNaNs(cloud Cloud) Cloud {
	kept, _ := filter(cloud, nil, finiteVector)
	return kept
}

// FilterAxisRange retains the points whose coordinate on the given axis
// lies in [min, max], bounds inclusive. Normals may be nil; when supplied
// they must be index-aligned and the same mask is applied to them.
func FilterAxisRange(axis Axis, min, max float64, cloud Cloud, normals Normals) (Cloud, Normals, error) {
	if axis < AxisX || axis > AxisZ {
		return nil, nil, &engine.ConfigurationError{Reason: fmt.Sprintf("axis %d out of range", axis)}
	}
	if err := checkAligned(cloud, normals); err != nil {
		return nil, nil, err
	}
	outCloud, outNormals := filter(cloud, normals, func(p r3.Vector) bool {
		c := axis.of(p)
		return c >= min && c <= max
	})
	return outCloud, outNormals, nil
}

// FilterWorkspace retains the points inside the axis-aligned box, bounds
// inclusive on every axis, applying the identical mask to normals when
// supplied.
func FilterWorkspace(ws Workspace, cloud Cloud, normals Normals) (Cloud, Normals, error) {
	if err := checkAligned(cloud, normals); err != nil {
		return nil, nil, err
	}
	outCloud, outNormals := filter(cloud, normals, ws.Contains)
	return outCloud, outNormals, nil
}
