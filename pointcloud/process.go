package pointcloud

import (
	"fmt"

	"go.viam.com/pointclouds/engine"
)

// Voxelize downsamples the cloud to one representative point per occupied
// cell of a regular grid with the given edge length. The representative
// selection policy belongs to the bound engine (PCL's voxel grid uses the
// cell centroid).
func Voxelize(g engine.Geometry, cloud Cloud, voxelSize float64) (Cloud, error) {
	if voxelSize <= 0 {
		return nil, &engine.ConfigurationError{Reason: fmt.Sprintf("voxel size %v must be positive", voxelSize)}
	}
	out, err := engine.Voxelize(g, cloud, voxelSize)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveStatisticalOutliers drops points whose mean distance to their meanK
// nearest neighbors deviates from the cloud-wide distribution by more than
// stddevMulThresh standard deviations. The exact statistics belong to the
// bound engine.
func RemoveStatisticalOutliers(g engine.Geometry, cloud Cloud, meanK int, stddevMulThresh float64) (Cloud, error) {
	if meanK < 1 {
		return nil, &engine.ConfigurationError{Reason: fmt.Sprintf("meanK %d must be at least 1", meanK)}
	}
	if stddevMulThresh <= 0 {
		return nil, &engine.ConfigurationError{Reason: fmt.Sprintf("stddevMulThresh %v must be positive", stddevMulThresh)}
	}
	out, err := engine.RemoveStatisticalOutliers(g, cloud, meanK, stddevMulThresh)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SegmentPlane returns the indices of the inliers of the largest planar
// model within distanceThreshold of the plane, empty when the engine finds
// none.
func SegmentPlane(g engine.Geometry, cloud Cloud, distanceThreshold float64) (Indices, error) {
	if distanceThreshold <= 0 {
		return nil, &engine.ConfigurationError{Reason: fmt.Sprintf("distance threshold %v must be positive", distanceThreshold)}
	}
	out, err := engine.SegmentPlane(g, cloud, distanceThreshold)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SelectIndices returns the points named by indices, in index order,
// applying the identical selection to normals when supplied. The natural
// consumer of SegmentPlane output.
func SelectIndices(cloud Cloud, normals Normals, indices Indices) (Cloud, Normals, error) {
	if err := checkAligned(cloud, normals); err != nil {
		return nil, nil, err
	}
	outCloud := make(Cloud, 0, len(indices))
	var outNormals Normals
	if normals != nil {
		outNormals = make(Normals, 0, len(indices))
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(cloud) {
			return nil, nil, &engine.ConfigurationError{
				Reason: fmt.Sprintf("index %d out of range for %d points", idx, len(cloud)),
			}
		}
		outCloud = append(outCloud, cloud[idx])
		if normals != nil {
			outNormals = append(outNormals, normals[idx])
		}
	}
	return outCloud, outNormals, nil
}

// RemoveIndices returns the points not named by indices, preserving their
// original order, applying the identical mask to normals when supplied.
func RemoveIndices(cloud Cloud, normals Normals, indices Indices) (Cloud, Normals, error) {
	if err := checkAligned(cloud, normals); err != nil {
		return nil, nil, err
	}
	drop := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(cloud) {
			return nil, nil, &engine.ConfigurationError{
				Reason: fmt.Sprintf("index %d out of range for %d points", idx, len(cloud)),
			}
		}
		drop[idx] = true
	}
	outCloud := make(Cloud, 0, len(cloud)-len(drop))
	var outNormals Normals
	if normals != nil {
		outNormals = make(Normals, 0, len(cloud)-len(drop))
	}
	for i, p := range cloud {
		if drop[i] {
			continue
		}
		outCloud = append(outCloud, p)
		if normals != nil {
			outNormals = append(outNormals, normals[i])
		}
	}
	return outCloud, outNormals, nil
}
