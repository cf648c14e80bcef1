package pointcloud

import (
	"fmt"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/pointclouds/engine"
)

// Neighborhood selects the support region for normal estimation. Exactly
// one of K (nearest-neighbor count) or Radius (search sphere) must be
// positive.
type Neighborhood struct {
	K      int
	Radius float64
}

// defaultNormal stands in for normals the engine could not define, e.g.
// over a neighborhood with no usable support.
var defaultNormal = r3.Vector{X: 1}

// Files the orientation resolver dumps the working arrays to when the
// viewing angle is undefined.
const (
	degenerateCloudFile   = "cloud_error.pcd"
	degenerateNormalsFile = "normals_error.pcd"
)

// EstimateNormals computes one surface normal per cloud point through the
// engine, replaces any normal with a non-finite component by a fixed
// default, and, when viewpoints are supplied, flips each normal to face the
// viewpoint its point was observed from.
//
// A viewpoint coinciding with its point makes the viewing angle undefined;
// that is fatal, returning a NumericDegeneracyError after a best-effort
// dump of the working cloud and normals to PCD files in the working
// directory. A dump failure is attached to the returned error but never
// replaces it.
func EstimateNormals(
	g engine.Geometry,
	cloud Cloud,
	viewpoints Viewpoints,
	nb Neighborhood,
	logger golog.Logger,
) (Normals, error) {
	if (nb.K > 0) == (nb.Radius > 0) {
		return nil, &engine.ConfigurationError{
			Reason: fmt.Sprintf("exactly one of k (%d) or radius (%v) must be positive", nb.K, nb.Radius),
		}
	}
	if viewpoints != nil && len(viewpoints) != len(cloud) {
		return nil, &engine.ConfigurationError{
			Reason: fmt.Sprintf("viewpoints length %d does not match %d points", len(viewpoints), len(cloud)),
		}
	}

	// the unused selector gets a non-positive sentinel, per the engine contract
	k, radius := nb.K, nb.Radius
	if k > 0 {
		radius = -1
	} else {
		k = -1
	}
	normals, err := engine.EstimateNormals(g, cloud, k, radius)
	if err != nil {
		return nil, err
	}

	replaced := 0
	for i, n := range normals {
		if !finiteVector(n) {
			normals[i] = defaultNormal
			replaced++
		}
	}
	if replaced > 0 {
		logger.Debugf("replaced %d undefined normals with %v", replaced, defaultNormal)
	}
	if viewpoints == nil {
		return normals, nil
	}

	// normals is already our own copy, so flipping in place is safe
	for i := range normals {
		view := viewpoints[i].Sub(cloud[i])
		theta := view.Mul(1 / view.Norm()).Dot(normals[i])
		if !isFinite(theta) {
			derr := &NumericDegeneracyError{Index: i}
			if dumpErr := dumpDegenerate(g, cloud, normals, logger); dumpErr != nil {
				return nil, multierr.Append(derr, dumpErr)
			}
			return nil, derr
		}
		if theta < 0 {
			normals[i] = normals[i].Mul(-1)
		}
	}
	return normals, nil
}

func dumpDegenerate(g engine.Geometry, cloud Cloud, normals Normals, logger golog.Logger) error {
	err := multierr.Combine(
		engine.SavePCD(g, degenerateCloudFile, cloud),
		engine.SavePCD(g, degenerateNormalsFile, normals),
	)
	if err != nil {
		logger.Errorw("failed to dump degenerate orientation state", "error", err)
		return errors.Wrap(err, "dumping orientation diagnostics")
	}
	logger.Infow("dumped degenerate orientation state",
		"cloud", degenerateCloudFile, "normals", degenerateNormalsFile)
	return nil
}
