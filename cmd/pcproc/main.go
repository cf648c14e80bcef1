// pcproc is a command line front end over the point cloud processing
// primitives: format conversion, voxel downsampling, statistical outlier
// removal, plane segmentation, and normal estimation. It requires the
// native geometry engine, so a cgo-enabled build.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"

	"go.viam.com/pointclouds/engine"
	"go.viam.com/pointclouds/engine/pclnative"
	"go.viam.com/pointclouds/pointcloud"
)

var logger = golog.NewDevelopmentLogger("pcproc")

func main() {
	app := &cli.App{
		Name:            "pcproc",
		Usage:           "process point cloud records",
		HideHelpCommand: true,
		Commands: []*cli.Command{
			{
				Name:  "convert",
				Usage: "convert between PCD records and cloud container files",
				Flags: ioFlags(
					&cli.IntFlag{Name: "height", Usage: "write an organized PCD with this grid height"},
					&cli.IntFlag{Name: "width", Usage: "write an organized PCD with this grid width"},
				),
				Action: convertAction,
			},
			{
				Name:  "voxelize",
				Usage: "downsample to one point per occupied voxel",
				Flags: ioFlags(
					&cli.Float64Flag{Name: "size", Usage: "voxel edge length", Required: true},
				),
				Action: voxelizeAction,
			},
			{
				Name:  "outliers",
				Usage: "remove statistical outliers",
				Flags: ioFlags(
					&cli.IntFlag{Name: "mean-k", Usage: "neighbors to analyze per point", Value: 50},
					&cli.Float64Flag{Name: "stddev", Usage: "standard deviation multiplier", Value: 1.0},
				),
				Action: outliersAction,
			},
			{
				Name:  "plane",
				Usage: "segment the largest plane and split the cloud by it",
				Flags: ioFlags(
					&cli.Float64Flag{Name: "threshold", Usage: "max distance to the plane", Required: true},
					&cli.StringFlag{Name: "rest", Usage: "also write the non-plane points to `FILE`"},
				),
				Action: planeAction,
			},
			{
				Name:  "normals",
				Usage: "estimate surface normals",
				Flags: ioFlags(
					&cli.IntFlag{Name: "k", Usage: "neighbor count selector"},
					&cli.Float64Flag{Name: "radius", Usage: "search radius selector"},
				),
				Action: normalsAction,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}

func ioFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "in", Usage: "input `FILE` (.pcd or cloud container)", Required: true},
		&cli.StringFlag{Name: "out", Usage: "output `FILE`", Required: true},
	}
	return append(flags, extra...)
}

func load(g engine.Geometry, path string) (pointcloud.Cloud, pointcloud.Normals, error) {
	if filepath.Ext(path) == ".pcd" {
		cloud, err := pointcloud.LoadPCD(g, path)
		return cloud, nil, err
	}
	return pointcloud.LoadCloudFile(path)
}

func save(g engine.Geometry, path string, cloud pointcloud.Cloud, normals pointcloud.Normals) error {
	if filepath.Ext(path) == ".pcd" {
		if normals != nil {
			logger.Warnw("PCD records carry no normals, dropping them", "path", path)
		}
		return pointcloud.SavePCD(g, path, cloud)
	}
	return pointcloud.SaveCloudFile(path, cloud, normals)
}

func convertAction(c *cli.Context) error {
	g, err := pclnative.New()
	if err != nil {
		return err
	}
	cloud, normals, err := load(g, c.String("in"))
	if err != nil {
		return err
	}
	out := c.String("out")
	if h, w := c.Int("height"), c.Int("width"); h > 0 || w > 0 {
		if filepath.Ext(out) != ".pcd" {
			return fmt.Errorf("organized output requires a .pcd path, got %q", out)
		}
		return pointcloud.SaveOrganizedPCD(g, out, cloud, h, w)
	}
	return save(g, out, cloud, normals)
}

func voxelizeAction(c *cli.Context) error {
	g, err := pclnative.New()
	if err != nil {
		return err
	}
	cloud, _, err := load(g, c.String("in"))
	if err != nil {
		return err
	}
	reduced, err := pointcloud.Voxelize(g, cloud, c.Float64("size"))
	if err != nil {
		return err
	}
	logger.Infow("voxelized", "in", len(cloud), "out", len(reduced))
	return save(g, c.String("out"), reduced, nil)
}

func outliersAction(c *cli.Context) error {
	g, err := pclnative.New()
	if err != nil {
		return err
	}
	cloud, _, err := load(g, c.String("in"))
	if err != nil {
		return err
	}
	kept, err := pointcloud.RemoveStatisticalOutliers(g, cloud, c.Int("mean-k"), c.Float64("stddev"))
	if err != nil {
		return err
	}
	logger.Infow("removed outliers", "in", len(cloud), "out", len(kept))
	return save(g, c.String("out"), kept, nil)
}

func planeAction(c *cli.Context) error {
	g, err := pclnative.New()
	if err != nil {
		return err
	}
	cloud, normals, err := load(g, c.String("in"))
	if err != nil {
		return err
	}
	inliers, err := pointcloud.SegmentPlane(g, cloud, c.Float64("threshold"))
	if err != nil {
		return err
	}
	logger.Infow("segmented plane", "points", len(cloud), "inliers", len(inliers))
	planeCloud, planeNormals, err := pointcloud.SelectIndices(cloud, normals, inliers)
	if err != nil {
		return err
	}
	if err := save(g, c.String("out"), planeCloud, planeNormals); err != nil {
		return err
	}
	if rest := c.String("rest"); rest != "" {
		restCloud, restNormals, err := pointcloud.RemoveIndices(cloud, normals, inliers)
		if err != nil {
			return err
		}
		return save(g, rest, restCloud, restNormals)
	}
	return nil
}

func normalsAction(c *cli.Context) error {
	g, err := pclnative.New()
	if err != nil {
		return err
	}
	cloud, _, err := load(g, c.String("in"))
	if err != nil {
		return err
	}
	nb := pointcloud.Neighborhood{K: c.Int("k"), Radius: c.Float64("radius")}
	normals, err := pointcloud.EstimateNormals(g, cloud, nil, nb, logger)
	if err != nil {
		return err
	}
	return save(g, c.String("out"), cloud, normals)
}
