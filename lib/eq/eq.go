/*package eq is a simple package for telling whether two arrays are equal to
one another, exactly or to within a tolerance.*/
package eq

import (
	"math"
)

// Ints returns true if two []int arrays are the same and false otherwise.
func Ints(x, y []int) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Float64s returns true if two []float64 arrays are the same and false
// otherwise.
func Float64s(x, y []float64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Float64sEps returns true if the two []float64 arrays are within eps of one
// another and false otherwise.
func Float64sEps(x, y []float64, eps float64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] + eps < y[i] || x[i] - eps > y[i] {
			return false
		}
	}
	return true
}

// Float64sRel returns true if the two []float64 arrays agree to within a
// relative tolerance eps and false otherwise.
func Float64sRel(x, y []float64, eps float64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if !Float64Rel(x[i], y[i], eps) { return false }
	}
	return true
}

// Float64Rel returns true if two float64 values agree to within a relative
// tolerance eps and false otherwise. Two exact zeros always agree.
func Float64Rel(x, y, eps float64) bool {
	if x == y { return true }
	scale := math.Max(math.Abs(x), math.Abs(y))
	return math.Abs(x - y) <= eps*scale
}
