// SPDX-License-Identifier: MIT

package lead_test

import (
	"fmt"
	"math/cmplx"

	"github.com/katalvlaran/bandknit/lead"
	"github.com/katalvlaran/bandknit/zmat"
)

// A single-orbital chain with unit hopping has the textbook surface
// self-energy; at ω = 2i its modulus is √2−1.
func ExampleSolver_Factors() {
	one := zmat.NewDenseData(1, 1, []complex128{1})
	s, err := lead.NewSolver(one, zmat.NewDense(1, 1), one)
	if err != nil {
		fmt.Println(err)
		return
	}
	f, err := s.Factors(2i)
	if err != nil {
		fmt.Println(err)
		return
	}
	sigma, err := f.SigmaRight()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("|Σ| = %.3f\n", cmplx.Abs(sigma.At(0, 0)))
	// Output:
	// |Σ| = 0.414
}

func ExampleSolver_GreenSlicer() {
	one := zmat.NewDenseData(1, 1, []complex128{1})
	s, err := lead.NewSolver(one, zmat.NewDense(1, 1), one)
	if err != nil {
		fmt.Println(err)
		return
	}
	sl, err := s.GreenSlicer(2i)
	if err != nil {
		fmt.Println(err)
		return
	}
	ratio := cmplx.Abs(sl.G(3, 0).At(0, 0)) / cmplx.Abs(sl.G(0, 0).At(0, 0))
	fmt.Printf("|G(3,0)| / |G(0,0)| = %.3f\n", ratio)
	// Output:
	// |G(3,0)| / |G(0,0)| = 0.071
}
