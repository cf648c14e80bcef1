package pointcloud

import "fmt"

// ShapeMismatchError reports an organized record shape inconsistent with
// the number of points to be written.
type ShapeMismatchError struct {
	Height, Width, Points int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("organized shape %dx%d does not match %d points", e.Height, e.Width, e.Points)
}

// NumericDegeneracyError reports an undefined viewing angle during normal
// orientation, typically a viewpoint coinciding with its point. It is not
// recoverable; the working arrays are dumped for diagnosis before it is
// returned.
type NumericDegeneracyError struct {
	Index int
}

func (e *NumericDegeneracyError) Error() string {
	return fmt.Sprintf("undefined normal orientation angle at point %d", e.Index)
}
