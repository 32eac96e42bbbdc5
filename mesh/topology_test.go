package mesh_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/bandknit/mesh"
)

// TestSplitEdge_Diagonal splits the shared diagonal of a 2×2 marching mesh.
// The new vertex must link to all four corners, both triangles must be cut
// in two and every resulting triangle stays positively oriented.
func TestSplitEdge_Diagonal(t *testing.T) {
	m, err := mesh.NewMarching([][2]float64{{0, 1}, {0, 1}}, []int{2, 2})
	require.NoError(t, err)
	require.Equal(t, 4, m.NumVerts())
	require.Len(t, m.Simplices(), 2)

	v, err := m.SplitEdge(0, 3, []float64{0.5, 0.5})
	require.NoError(t, err)
	assert.Equal(t, 4, v, "new vertex appended at the end")

	assert.Equal(t, 5, m.NumVerts())
	assert.Equal(t, []int{0, 1, 2, 3}, m.Neighbors(v), "split vertex links the corners")
	assert.NotContains(t, m.Neighbors(0), 3, "split edge removed")
	assert.NotContains(t, m.Neighbors(3), 0)

	require.Len(t, m.Simplices(), 4, "each incident triangle splits in two")
	for k, s := range m.Simplices() {
		assert.Len(t, s, 3)
		assert.Contains(t, s, v, "simplex %d includes the split vertex", k)
		assert.Greater(t, simplexDet(m, s), 0.0, "simplex %d orientation", k)
	}
}

// TestSplitEdge_Chain splits an interval of a 1-D path mesh.
func TestSplitEdge_Chain(t *testing.T) {
	m, err := mesh.NewLinear([][]float64{{0}, {2}}, mesh.LinearOptions{Points: 3})
	require.NoError(t, err)
	require.Equal(t, 3, m.NumVerts())

	v, err := m.SplitEdge(0, 1, []float64{0.5})
	require.NoError(t, err)
	require.Equal(t, 3, v)

	assert.Equal(t, []int{0, 1}, m.Neighbors(v))
	assert.Equal(t, []int{3}, m.Neighbors(0))
	assert.Equal(t, []int{2, 3}, m.Neighbors(1))
	assert.Len(t, m.Simplices(), 3)
	for _, s := range m.Simplices() {
		assert.Len(t, s, 2)
	}
}

// TestSplitEdge_Validation exercises the rejection paths.
func TestSplitEdge_Validation(t *testing.T) {
	m, err := mesh.NewMarching([][2]float64{{0, 1}, {0, 1}}, []int{2, 2})
	require.NoError(t, err)

	_, err = m.SplitEdge(1, 2, []float64{0.5, 0.5})
	assert.ErrorIs(t, err, mesh.ErrUnknownEdge, "corners across the diagonal share no edge")

	_, err = m.SplitEdge(0, 9, []float64{0.5, 0.5})
	assert.ErrorIs(t, err, mesh.ErrUnknownEdge, "vertex out of range")

	_, err = m.SplitEdge(0, 3, []float64{0.5})
	assert.ErrorIs(t, err, mesh.ErrDimension, "coordinate length mismatch")
}

// TestCliques_CompleteGraph enumerates cliques of K4: four triangles, one
// tetrahedron, and nothing of size five.
func TestCliques_CompleteGraph(t *testing.T) {
	adj := [][]int{
		{1, 2, 3},
		{0, 2, 3},
		{0, 1, 3},
		{0, 1, 2},
	}

	assert.Equal(t, [][]int{
		{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3},
	}, mesh.Cliques(adj, 3))
	assert.Equal(t, [][]int{{0, 1, 2, 3}}, mesh.Cliques(adj, 4))
	assert.Len(t, mesh.Cliques(adj, 2), 6, "edges of K4")
	assert.Len(t, mesh.Cliques(adj, 1), 4)
	assert.Empty(t, mesh.Cliques(adj, 5))
}

// TestCliques_Sparse checks a graph whose only triangle is {1,2,4}.
func TestCliques_Sparse(t *testing.T) {
	adj := [][]int{
		{1},
		{0, 2, 4},
		{1, 3, 4},
		{2},
		{1, 2},
	}

	assert.Equal(t, [][]int{{1, 2, 4}}, mesh.Cliques(adj, 3))
	assert.Empty(t, mesh.Cliques(adj, 4))
}

// TestOrientSimplices_FlipsNegative checks that a backwards triangle gets
// its last two vertices swapped while an already positive one is kept.
func TestOrientSimplices_FlipsNegative(t *testing.T) {
	coords := [][]float64{{0, 0}, {1, 0}, {0, 1}}
	coord := func(i int) []float64 { return coords[i] }

	simps := [][]int{{0, 2, 1}, {0, 1, 2}}
	mesh.OrientSimplices(simps, 2, coord)

	assert.Equal(t, []int{0, 1, 2}, simps[0], "negative triangle flipped")
	assert.Equal(t, []int{0, 1, 2}, simps[1], "positive triangle untouched")
}
