package fake

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// ASCII PCD subset: xyz-only fields, version .7, the same header line order
// PCL emits. Organized records carry the grid shape in HEIGHT and WIDTH
// with points laid out row-major.

var pcdHeaderFields = []string{"VERSION", "FIELDS", "SIZE", "TYPE", "COUNT", "WIDTH", "HEIGHT", "VIEWPOINT", "POINTS", "DATA"}

func writePCDFile(path string, points []float32, height, width int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	w := bufio.NewWriter(f)
	if _, err = fmt.Fprintf(w, "VERSION .7\n"+
		"FIELDS x y z\n"+
		"SIZE 4 4 4\n"+
		"TYPE F F F\n"+
		"COUNT 1 1 1\n"+
		"WIDTH %d\n"+
		"HEIGHT %d\n"+
		"VIEWPOINT 0 0 0 1 0 0 0\n"+
		"POINTS %d\n"+
		"DATA ascii\n",
		width, height, height*width); err != nil {
		return err
	}
	for p := 0; p < len(points); p += 3 {
		if _, err = fmt.Fprintf(w, "%g %g %g\n", points[p], points[p+1], points[p+2]); err != nil {
			return err
		}
	}
	return w.Flush()
}

func readPCDFile(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	in := bufio.NewReader(f)
	nPoints := -1
	width, height := 0, 0
	for _, name := range pcdHeaderFields {
		line, err := in.ReadString('\n')
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s header line", name)
		}
		field, value, _ := strings.Cut(strings.TrimSpace(line), " ")
		if field != name {
			return nil, errors.Errorf("header line starts with %q, want %q", field, name)
		}
		switch name {
		case "FIELDS":
			if value != "x y z" {
				return nil, errors.Errorf("unsupported fields %q", value)
			}
		case "WIDTH":
			if width, err = strconv.Atoi(value); err != nil {
				return nil, errors.Wrap(err, "parsing WIDTH")
			}
		case "HEIGHT":
			if height, err = strconv.Atoi(value); err != nil {
				return nil, errors.Wrap(err, "parsing HEIGHT")
			}
		case "POINTS":
			if nPoints, err = strconv.Atoi(value); err != nil {
				return nil, errors.Wrap(err, "parsing POINTS")
			}
			if nPoints != width*height {
				return nil, errors.Errorf("POINTS %d does not match WIDTH*HEIGHT %d", nPoints, width*height)
			}
		case "DATA":
			if value != "ascii" {
				return nil, errors.Errorf("unsupported data encoding %q", value)
			}
		}
	}

	points := make([]float32, 0, 3*nPoints)
	for i := 0; i < nPoints; i++ {
		line, err := in.ReadString('\n')
		if err != nil {
			return nil, errors.Wrapf(err, "reading point %d", i)
		}
		tokens := strings.Fields(line)
		if len(tokens) != 3 {
			return nil, errors.Errorf("point %d has %d fields, want 3", i, len(tokens))
		}
		for _, token := range tokens {
			v, err := strconv.ParseFloat(token, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing point %d", i)
			}
			points = append(points, float32(v))
		}
	}
	return points, nil
}
