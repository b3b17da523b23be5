package marching

// MarchingCubes extracts the triangle mesh of the level isosurface from a
// rank 3 volume. Samples at or above the level are inside. Saddle faces
// are disambiguated with the face test unless disabled by option.
func MarchingCubes(v *Volume, level float64, opts ...Option) (*Mesh, error) {
	v, cfg, err := prepare(v, 3, opts)
	if err != nil {
		return nil, err
	}
	inside := v.test(level)
	mult := v.sizeMultiplier(len(cubeDirs))
	cr := findCrossings(v, inside, level, cubeDirs, mult, cfg.interp)
	conv := newConverter(cr.ids)
	codes := classifyCells(v, inside, cubeCorners)
	tab := cubeGeometry()
	if cfg.resolve {
		resolveCubes(codes, v, level, tab)
	}
	idx := lookupGeometry(codes, cellShape(v.shape), tab.prims, mult, conv)
	mesh := &Mesh{
		Vertices:  make([][3]float64, len(cr.positions)),
		Triangles: make([][3]int, len(idx)),
	}
	for i, p := range cr.positions {
		mesh.Vertices[i] = [3]float64{p[0], p[1], p[2]}
	}
	for i, t := range idx {
		mesh.Triangles[i] = [3]int{t[0], t[1], t[2]}
	}
	return mesh, nil
}

// MarchingSquares extracts the segment contour of the level isoline from a
// rank 2 volume. Saddle cells are disambiguated with the corner product
// test unless disabled by option.
func MarchingSquares(v *Volume, level float64, opts ...Option) (*Contour, error) {
	v, cfg, err := prepare(v, 2, opts)
	if err != nil {
		return nil, err
	}
	if cfg.resolve {
		return contour(v, level, cfg, squareDirs, squareTable(), resolveSquares)
	}
	return contour(v, level, cfg, squareDirs, squareTable(), nil)
}

// MarchingTriangles extracts the isoline contour with each cell split
// along the diagonal from its minimum corner. The split leaves no
// ambiguous cases, so the resolution option has no effect.
func MarchingTriangles(v *Volume, level float64, opts ...Option) (*Contour, error) {
	v, cfg, err := prepare(v, 2, opts)
	if err != nil {
		return nil, err
	}
	return contour(v, level, cfg, triangleDirs, triangleTable(), nil)
}

// MarchingTrianglesReversed is MarchingTriangles with cells split along
// the opposite diagonal.
func MarchingTrianglesReversed(v *Volume, level float64, opts ...Option) (*Contour, error) {
	v, cfg, err := prepare(v, 2, opts)
	if err != nil {
		return nil, err
	}
	return contour(v, level, cfg, triangleRevDirs, triangleRevTable(), nil)
}

// prepare applies options and validates the volume, resampling it first
// when a step size is set.
func prepare(v *Volume, rank int, opts []Option) (*Volume, config, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.step < 1 {
		return nil, cfg, ErrBadStep
	}
	if err := checkVolume(v, rank, 2); err != nil {
		return nil, cfg, err
	}
	if cfg.step > 1 {
		v = v.downsample(cfg.step)
		if err := checkVolume(v, rank, 2); err != nil {
			return nil, cfg, err
		}
	}
	return v, cfg, nil
}

// contour runs the shared 2D pipeline for one variant.
func contour(v *Volume, level float64, cfg config, dirs []edgeDirection, prims map[uint16][][]cellEdge, resolve func([]uint16, *Volume, float64)) (*Contour, error) {
	inside := v.test(level)
	mult := v.sizeMultiplier(len(dirs))
	cr := findCrossings(v, inside, level, dirs, mult, cfg.interp)
	conv := newConverter(cr.ids)
	codes := classifyCells(v, inside, squareCorners)
	if resolve != nil {
		resolve(codes, v, level)
	}
	idx := lookupGeometry(codes, cellShape(v.shape), prims, mult, conv)
	c := &Contour{
		Vertices: make([][2]float64, len(cr.positions)),
		Segments: make([][2]int, len(idx)),
	}
	for i, p := range cr.positions {
		c.Vertices[i] = [2]float64{p[0], p[1]}
	}
	for i, s := range idx {
		c.Segments[i] = [2]int{s[0], s[1]}
	}
	return c, nil
}
