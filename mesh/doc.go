// Package mesh builds and mutates the simplicial parameter meshes that the
// band tracker sweeps: axis-aligned marching meshes (Kuhn triangulation of a
// D-dimensional box) and subdivided linear paths through a list of nodes,
// optionally closed into a cycle and optionally measured through a metric
// basis.
//
// A Mesh is a set of embedded vertices with a symmetric adjacency and a list
// of oriented D-simplices. The only mutation is SplitEdge, which replaces one
// edge by two through a new vertex and retriangulates the incident simplices,
// keeping the structure simplicial. Vertex indices are append-only: splitting
// never renumbers existing vertices, which lets callers hold indices across
// mutations.
//
// Cliques enumerates complete subgraphs of an arbitrary adjacency and is what
// turns a knitted band graph back into simplices; OrientSimplices fixes their
// orientation by the sign of the base-coordinate volume.
package mesh
