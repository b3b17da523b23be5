package marching

// Interpolation selects how the crossing point along a straddling edge is
// placed between the two endpoint samples.
type Interpolation int

const (
	// Linear interpolates the crossing at t = v0/(v0-v1) on the
	// level-referenced samples. The default.
	Linear Interpolation = iota
	// Halfway places every crossing at the edge midpoint. Fast, but gives
	// geometry a blocky appearance.
	Halfway
	// Cosine interpolates the crossing at t = acos((v1+v0)/(v1-v0))/pi.
	Cosine
)

type config struct {
	interp  Interpolation
	step    int
	resolve bool
}

func defaultConfig() config {
	return config{interp: Linear, step: 1, resolve: true}
}

// Option adjusts how a variant runs.
type Option func(*config)

// WithInterpolation selects the crossing interpolation mode.
func WithInterpolation(i Interpolation) Option {
	return func(c *config) { c.interp = i }
}

// WithStepSize resamples the volume with every step-th sample per axis
// before the pipeline runs. A step of 1 (the default) uses the full grid.
func WithStepSize(step int) Option {
	return func(c *config) { c.step = step }
}

// WithoutAmbiguityResolution skips the face-test correction pass and emits
// the raw table triangulation for ambiguous cells.
func WithoutAmbiguityResolution() Option {
	return func(c *config) { c.resolve = false }
}
