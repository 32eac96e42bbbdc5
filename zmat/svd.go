// SPDX-License-Identifier: MIT

package zmat

import (
	"fmt"
	"math"
)

// SingularValues returns the singular values of a in descending order.
// They are computed as the eigenvalue square roots of the smaller of
// aᴴ·a and a·aᴴ, which matches the accuracy needs of subspace rank
// counting (values are compared against O(1) thresholds).
// Time: O(min(r,c)²·max(r,c) + min(r,c)³).
func SingularValues(a *Dense) ([]float64, error) {
	r, c := a.Dims()
	k := min(r, c)
	if k == 0 {
		return nil, nil
	}
	gram := new(Dense)
	if c <= r {
		gram.MulCH(a, a)
	} else {
		gram.MulHC(a, a)
	}
	vals, _, err := EigHermitian(gram)
	if err != nil {
		return nil, fmt.Errorf("zmat: singular values: %w", err)
	}
	// Ascending eigenvalues of the Gram matrix become descending
	// singular values; clamp tiny negatives from roundoff.
	sv := make([]float64, k)
	for i := 0; i < k; i++ {
		v := vals[k-1-i]
		if v < 0 {
			v = 0
		}
		sv[i] = math.Sqrt(v)
	}
	return sv, nil
}
