package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/chazu/isomesh/pkg/engine"
	"github.com/chazu/isomesh/pkg/export"
	"github.com/chazu/isomesh/pkg/field"
	"github.com/chazu/isomesh/pkg/marching"
	"github.com/deadsy/sdfx/sdf"
)

// The isomesh version number. Set at build.
var version = "v0.1.0"

type config struct {
	Script        string  `cli:"" env:"ISOMESH_SCRIPT"        help:"Path of the shape script to evaluate."`
	Output        string  `cli:"" env:"ISOMESH_OUTPUT"        help:"Path of the STL file to write."`
	Cells         int     `cli:"" env:"ISOMESH_CELLS"         help:"Samples along the longest axis of the shape bounding box."`
	Pad           float64 `cli:"" env:"ISOMESH_PAD"           help:"World space padding around the shape bounding box."`
	Algorithm     string  `cli:"" env:"ISOMESH_ALGORITHM"     help:"Extraction algorithm (cubes|dual|squares)."`
	SliceZ        float64 `cli:"" env:"ISOMESH_SLICE_Z"       help:"Slicing plane height for the squares algorithm."`
	Interpolation string  `cli:"" env:"ISOMESH_INTERPOLATION" help:"Edge interpolation mode (linear|halfway|cosine)."`
	Step          int     `cli:"" env:"ISOMESH_STEP"          help:"Keep every step-th grid sample per axis."`
	LogLevel      string  `cli:"" env:"ISOMESH_LOG_LEVEL"     help:"Log level (debug|info|warning|error)."`
	LogIndent     bool    `cli:"" env:"ISOMESH_LOG_INDENT"    help:"Indent logs."`
	Version       bool    `cli:"" env:"-"                     help:"Show version."`
}

func main() {
	conf := config{
		Output:        "out.stl",
		Cells:         128,
		Pad:           1,
		Algorithm:     "cubes",
		Interpolation: "linear",
		Step:          1,
		LogLevel:      logs.InfoLevel.String(),
	}

	cli.Register().
		Help("Evaluates a shape script and writes the extracted isosurface mesh as STL.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	if err := run(conf); err != nil {
		logs.Fatal(err)
	}
}

func run(conf config) error {
	interp, err := parseInterpolation(conf.Interpolation)
	if err != nil {
		return err
	}
	if conf.Script == "" {
		return errors.New("no shape script given")
	}

	src, err := os.ReadFile(conf.Script)
	if err != nil {
		return errors.New("reading shape script failed").Wrap(err)
	}

	shape, evalErrs, err := engine.NewEngine().Evaluate(string(src))
	if err != nil {
		return errors.New("evaluating shape script failed").Wrap(err)
	}
	if len(evalErrs) != 0 {
		for _, e := range evalErrs {
			logs.WithTag("script", conf.Script).Error(e)
		}
		return errors.New("shape script has errors").WithTag("count", len(evalErrs))
	}

	opts := []marching.Option{
		marching.WithInterpolation(interp),
		marching.WithStepSize(conf.Step),
	}
	if conf.Algorithm == "squares" {
		return runSlice(conf, shape, opts)
	}

	grid := field.Bounds(shape, conf.Cells, conf.Pad)
	logs.WithTag("script", conf.Script).
		WithTag("samples", grid.Samples).
		Info("sampling shape")

	start := time.Now()
	volume, err := field.Sample3(field.FromSDF3(shape), grid)
	if err != nil {
		return errors.New("sampling shape failed").Wrap(err)
	}

	var mesh *marching.Mesh
	switch conf.Algorithm {
	case "cubes":
		mesh, err = marching.MarchingCubes(volume, 0, opts...)
	case "dual":
		mesh, err = marching.DualContour(volume, 0, opts...)
	default:
		return errors.Newf("unknown algorithm %q", conf.Algorithm)
	}
	if err != nil {
		return errors.New("extracting isosurface failed").Wrap(err)
	}
	if mesh.IsEmpty() {
		return errors.New("the shape produced no surface").
			WithTag("script", conf.Script)
	}

	logs.WithTag("vertices", mesh.VertexCount()).
		WithTag("triangles", mesh.TriangleCount()).
		WithTag("duration", time.Since(start)).
		Info("isosurface extracted")

	if err := export.SaveSTL(conf.Output, grid.WorldMesh(mesh)); err != nil {
		return errors.New("writing STL failed").Wrap(err)
	}
	logs.WithTag("output", conf.Output).Info("mesh written")
	return nil
}

// runSlice contours the shape on a horizontal plane and writes the
// segments as text.
func runSlice(conf config, shape sdf.SDF3, opts []marching.Option) error {
	g3 := field.Bounds(shape, conf.Cells, conf.Pad)
	grid := field.Grid2{
		Min:     [2]float64{g3.Min[0], g3.Min[1]},
		Max:     [2]float64{g3.Max[0], g3.Max[1]},
		Samples: [2]int{g3.Samples[0], g3.Samples[1]},
	}
	logs.WithTag("script", conf.Script).
		WithTag("z", conf.SliceZ).
		WithTag("samples", grid.Samples).
		Info("sampling slice")

	volume, err := field.Sample2(field.Slice(field.FromSDF3(shape), conf.SliceZ), grid)
	if err != nil {
		return errors.New("sampling slice failed").Wrap(err)
	}
	contour, err := marching.MarchingSquares(volume, 0, opts...)
	if err != nil {
		return errors.New("extracting contour failed").Wrap(err)
	}
	if contour.IsEmpty() {
		return errors.New("the slicing plane misses the shape").
			WithTag("z", conf.SliceZ)
	}

	if err := export.SaveSegments(conf.Output, grid.WorldContour(contour)); err != nil {
		return errors.New("writing segments failed").Wrap(err)
	}
	logs.WithTag("output", conf.Output).
		WithTag("segments", contour.SegmentCount()).
		Info("contour written")
	return nil
}

func parseInterpolation(name string) (marching.Interpolation, error) {
	switch name {
	case "linear", "":
		return marching.Linear, nil
	case "halfway":
		return marching.Halfway, nil
	case "cosine":
		return marching.Cosine, nil
	}
	return marching.Linear, errors.Newf("unknown interpolation mode %q", name)
}
