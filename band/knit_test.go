package band_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/bandknit/band"
	"github.com/katalvlaran/bandknit/mesh"
	"github.com/katalvlaran/bandknit/zmat"
)

// twoPointMesh is a minimal base mesh with one edge, so every seam runs
// between the columns at parameter 0 and 1.
func twoPointMesh(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := mesh.NewLinear([][]float64{{0}, {1}}, mesh.LinearOptions{Points: 2})
	require.NoError(t, err)
	return m
}

// basisStates builds an n×len(cols) state block from selected canonical
// basis columns.
func basisStates(n int, cols ...int) *zmat.Dense {
	s := zmat.NewDense(n, len(cols))
	for j, c := range cols {
		s.Set(c, j, 1)
	}
	return s
}

// TestKnit_SubspaceConnections pairs a degenerate two-dimensional cluster
// against differently shaped clusters across one seam: connections exist
// exactly where the cross projector carries weight.
func TestKnit_SubspaceConnections(t *testing.T) {
	solver := funcSolver(func(k []float64) (band.Spectrum, error) {
		if k[0] < 0.5 {
			return band.Spectrum{Energies: []float64{1, 1, 2}, States: zmat.Identity(3)}, nil
		}
		return band.Spectrum{Energies: []float64{1, 2, 2}, States: zmat.Identity(3)}, nil
	})

	b, err := band.Compute(solver, twoPointMesh(t), band.WithLogger(nil))
	require.NoError(t, err)

	// Column 0 clusters into span{e1,e2} and span{e3}; column 1 into
	// span{e1} and span{e2,e3}.
	require.Len(t, b.Verts, 4)
	assert.Equal(t, 2, b.Verts[0].Degeneracy())
	assert.InDelta(t, 1.0, b.Verts[0].Energy, 1e-15, "cluster mean energy")
	assert.Equal(t, 1, b.Verts[1].Degeneracy())
	assert.Equal(t, 1, b.Verts[2].Degeneracy())
	assert.Equal(t, 2, b.Verts[3].Degeneracy())

	assert.Equal(t, []int{2, 3}, b.Neighbors(0), "span{e1,e2} overlaps both clusters")
	assert.Equal(t, []int{3}, b.Neighbors(1), "span{e3} only reaches span{e2,e3}")
	assert.Equal(t, []int{0}, b.Neighbors(2))
	assert.Equal(t, []int{0, 1}, b.Neighbors(3))
}

// TestKnit_OverlapThreshold sweeps a one-dimensional state across the
// connection threshold: weight 0.36 stays disconnected, 0.49 connects,
// and raising the threshold disconnects it again.
func TestKnit_OverlapThreshold(t *testing.T) {
	tilted := func(c float64) funcSolver {
		s := math.Sqrt(1 - c*c)
		return func(k []float64) (band.Spectrum, error) {
			if k[0] < 0.5 {
				return band.Spectrum{Energies: []float64{0}, States: basisStates(2, 0)}, nil
			}
			st := zmat.NewDenseData(2, 1, []complex128{complex(c, 0), complex(s, 0)})
			return band.Spectrum{Energies: []float64{0}, States: st}, nil
		}
	}

	b, err := band.Compute(tilted(0.6), twoPointMesh(t), band.WithLogger(nil))
	require.NoError(t, err)
	assert.Empty(t, b.Neighbors(0), "|⟨a|b⟩|² = 0.36 is below threshold")
	assert.Empty(t, b.Simplices)

	b, err = band.Compute(tilted(0.7), twoPointMesh(t), band.WithLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, b.Neighbors(0), "|⟨a|b⟩|² = 0.49 connects")

	b, err = band.Compute(tilted(0.7), twoPointMesh(t),
		band.WithConnectThreshold(0.6), band.WithLogger(nil))
	require.NoError(t, err)
	assert.Empty(t, b.Neighbors(0), "raised threshold rejects the same overlap")
}

// TestKnit_DependentStatesDropped feeds a degenerate cluster whose second
// column repeats the first: orthonormalization keeps one normalized
// direction.
func TestKnit_DependentStatesDropped(t *testing.T) {
	solver := funcSolver(func(k []float64) (band.Spectrum, error) {
		st := zmat.NewDenseData(2, 2, []complex128{3, 3, 0, 0})
		return band.Spectrum{Energies: []float64{0, 0}, States: st}, nil
	})

	b, err := band.Compute(solver, twoPointMesh(t), band.WithLogger(nil))
	require.NoError(t, err)

	require.Len(t, b.Verts, 2)
	for i, v := range b.Verts {
		assert.Equal(t, 1, v.Degeneracy(), "vertex %d keeps one independent direction", i)
		assert.InDelta(t, 1.0, real(v.States.At(0, 0)), 1e-15, "vertex %d state normalized", i)
		assert.InDelta(t, 0.0, imag(v.States.At(0, 0)), 1e-15)
	}
	assert.Equal(t, []int{1}, b.Neighbors(0))
}

// TestKnit_DegeneracyTolerance widens the gap tolerance until separate
// levels merge into one cluster.
func TestKnit_DegeneracyTolerance(t *testing.T) {
	solver := funcSolver(func(k []float64) (band.Spectrum, error) {
		return band.Spectrum{Energies: []float64{0, 0.5, 1}, States: zmat.Identity(3)}, nil
	})

	b, err := band.Compute(solver, twoPointMesh(t), band.WithLogger(nil))
	require.NoError(t, err)
	assert.Len(t, b.Verts, 6, "default tolerance keeps the levels apart")

	b, err = band.Compute(solver, twoPointMesh(t),
		band.WithDegeneracyTol(0.6), band.WithLogger(nil))
	require.NoError(t, err)
	require.Len(t, b.Verts, 2)
	assert.Equal(t, 3, b.Verts[0].Degeneracy())
	assert.InDelta(t, 0.5, b.Verts[0].Energy, 1e-15, "merged cluster mean")
}
