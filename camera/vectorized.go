package camera

import (
	"context"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/viamrobotics/camrig/utils"
)

// Project3Vectorized projects every column of a 3xN matrix of points. Column i of the returned 2xN
// matrix and results[i] are what Project3 returns for column i. An empty input gives an empty output.
func (c *Camera) Project3Vectorized(points *mat.Dense) (*mat.Dense, []ProjectionResult) {
	if points == nil || points.IsEmpty() {
		return &mat.Dense{}, []ProjectionResult{}
	}
	rows, n := points.Dims()
	if rows != 3 {
		utils.ContractViolation("vectorized projection expects 3 rows, got %d", rows)
	}
	keypoints := mat.NewDense(2, n, nil)
	results := make([]ProjectionResult, n)
	//nolint:errcheck
	utils.GroupWorkParallel(context.Background(), n, func(_, from, to int) error {
		for i := from; i < to; i++ {
			kp, result := c.Project3(r3.Vector{X: points.At(0, i), Y: points.At(1, i), Z: points.At(2, i)})
			keypoints.Set(0, i, kp.X)
			keypoints.Set(1, i, kp.Y)
			results[i] = result
		}
		return nil
	})
	return keypoints, results
}

// BackProject3Vectorized back-projects every column of a 2xN matrix of keypoints into a 3xN matrix of
// bearings. success[i] is what BackProject3 reports for column i.
func (c *Camera) BackProject3Vectorized(keypoints *mat.Dense) (*mat.Dense, []bool) {
	if keypoints == nil || keypoints.IsEmpty() {
		return &mat.Dense{}, []bool{}
	}
	rows, n := keypoints.Dims()
	if rows != 2 {
		utils.ContractViolation("vectorized back-projection expects 2 rows, got %d", rows)
	}
	bearings := mat.NewDense(3, n, nil)
	success := make([]bool, n)
	//nolint:errcheck
	utils.GroupWorkParallel(context.Background(), n, func(_, from, to int) error {
		for i := from; i < to; i++ {
			bearing, ok := c.BackProject3(r2.Point{X: keypoints.At(0, i), Y: keypoints.At(1, i)})
			bearings.Set(0, i, bearing.X)
			bearings.Set(1, i, bearing.Y)
			bearings.Set(2, i, bearing.Z)
			success[i] = ok
		}
		return nil
	})
	return bearings, success
}
