// Package marching extracts isosurfaces (3D) and isolines (2D) from scalar
// fields sampled on regular grids.
//
// All variants share one batch pipeline: an intersect finder locates every
// grid edge straddling the level and interpolates a crossing point, a cell
// classifier folds the corner sign pattern of every cell into a type code,
// an ambiguity resolver rewrites codes whose pattern admits more than one
// triangulation, a geometry table maps each resolved code to local edge
// templates, and an index converter turns global edge ids into dense vertex
// indices. Each stage is a whole-grid pass; the ambiguity correction is a
// masked merge, not a branch per cell.
//
// Supported variants:
//
//   - MarchingCubes: 3D volumes, triangles (Lorensen classification with
//     face-test disambiguation of saddle cases).
//   - MarchingSquares: 2D volumes, segments (saddle cases 5/10 resolved).
//   - MarchingTriangles / MarchingTrianglesReversed: 2D volumes split along
//     either diagonal, segments, no ambiguous cases.
//   - DualContour: 3D volumes, one vertex per sign-changing cell placed by
//     a least-squares fit, quads across crossing edges.
//
// Output vertices are in grid space. Scaling and offsetting to physical
// units, smoothing, and file export are caller concerns.
package marching
