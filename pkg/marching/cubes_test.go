package marching

import (
	"reflect"
	"testing"
)

func TestCubeTableClassicCases(t *testing.T) {
	tab := cubeGeometry()
	t.Run("empty codes", func(t *testing.T) {
		if len(tab.prims[0]) != 0 || len(tab.prims[255]) != 0 {
			t.Error("codes 0 and 255 must produce no geometry")
		}
	})
	t.Run("single corner", func(t *testing.T) {
		want := [][]cellEdge{{cubeEdges[0], cubeEdges[8], cubeEdges[3]}}
		if !reflect.DeepEqual(tab.prims[1], want) {
			t.Errorf("code 1 = %v, want %v", tab.prims[1], want)
		}
	})
	t.Run("adjacent corners", func(t *testing.T) {
		// Corners 0 and 1 share the bottom front edge; the contour is a
		// quad, split into two triangles.
		if got := len(tab.prims[3]); got != 2 {
			t.Errorf("code 3 has %d triangles, want 2", got)
		}
	})
	t.Run("opposite corners", func(t *testing.T) {
		// Corners 0 and 6 touch no common face: two separate caps.
		if got := len(tab.prims[65]); got != 2 {
			t.Errorf("code 65 has %d triangles, want 2", got)
		}
	})
	t.Run("full face", func(t *testing.T) {
		// The bottom face entirely inside: a quad sliced off the cube.
		if got := len(tab.prims[15]); got != 2 {
			t.Errorf("code 15 has %d triangles, want 2", got)
		}
	})
}

// TestCubeTableComplementSymmetry checks that inverting a corner pattern
// keeps the triangle count: the complement crosses the same edges, so its
// contour polygons differ only in winding.
func TestCubeTableComplementSymmetry(t *testing.T) {
	tab := cubeGeometry()
	for code := uint16(0); code < 256; code++ {
		got, want := len(tab.prims[code]), len(tab.prims[255^code])
		if got != want {
			t.Errorf("code %d has %d triangles, complement %d has %d",
				code, got, 255^code, want)
		}
	}
}

// TestCubeTableCrossingEdges checks every generated triangulation uses
// each crossing edge of its corner pattern, and nothing else.
func TestCubeTableCrossingEdges(t *testing.T) {
	tab := cubeGeometry()
	wantEdges := func(code uint16) map[int]bool {
		w := make(map[int]bool)
		for e, cc := range cubeEdgeCorners {
			if cornerInside(code, cc[0]) != cornerInside(code, cc[1]) {
				w[e] = true
			}
		}
		return w
	}
	check := func(code, raw uint16) {
		want := wantEdges(raw)
		got := make(map[int]bool)
		for _, tri := range tab.prims[code] {
			for _, e := range tri {
				for n, ce := range cubeEdges {
					if reflect.DeepEqual(ce, e) {
						got[n] = true
					}
				}
			}
		}
		if !reflect.DeepEqual(got, want) && !(len(got) == 0 && len(want) == 0) {
			t.Errorf("code %d (raw %d): edges %v, want %v", code, raw, got, want)
		}
	}
	for raw := uint16(0); raw < 256; raw++ {
		check(raw, raw)
		for _, ext := range tab.extended[raw][min(1, len(tab.extended[raw])):] {
			check(ext, raw)
		}
	}
}

func TestCubeTableExtendedCodes(t *testing.T) {
	tab := cubeGeometry()
	seen := make(map[uint16]bool)
	for raw, variants := range tab.extended {
		amb := tab.ambFaces[raw]
		if len(amb) == 0 {
			t.Fatalf("raw %d has variants but no ambiguous faces", raw)
		}
		if len(variants) != 1<<len(amb) {
			t.Errorf("raw %d: %d variants for %d ambiguous faces", raw, len(variants), len(amb))
		}
		if variants[0] != raw {
			t.Errorf("raw %d: variants[0] = %d", raw, variants[0])
		}
		for _, ext := range variants[1:] {
			if ext < 256 {
				t.Errorf("raw %d: extended code %d below 256", raw, ext)
			}
			if seen[ext] {
				t.Errorf("extended code %d assigned twice", ext)
			}
			seen[ext] = true
			if _, ok := tab.prims[ext]; !ok {
				t.Errorf("extended code %d has no geometry", ext)
			}
		}
	}
}

func TestAmbiguousFaces(t *testing.T) {
	tests := []struct {
		name string
		code uint16
		want []int
	}{
		{"bottom saddle", 0x05, []int{0}},
		{"top saddle", 0x50, []int{1}},
		{"no saddle", 0x03, nil},
		{"single corner", 0x01, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ambiguousFaces(tt.code); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ambiguousFaces(%#x) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestFaceConnected(t *testing.T) {
	// Bottom face saddle with the anchor diagonal strongly inside: the
	// large products keep it connected; weakening it flips the choice.
	build := func(d0, d2 float64) *Volume {
		data := make([]float64, 8)
		set := func(x, y, z int, val float64) { data[(x*2+y)*2+z] = val }
		set(0, 0, 0, d0)
		set(1, 1, 0, d2)
		set(1, 0, 0, -1)
		set(0, 1, 0, -1)
		set(0, 0, 1, -1)
		set(1, 0, 1, -1)
		set(1, 1, 1, -1)
		set(0, 1, 1, -1)
		v, _ := NewVolume([]int{2, 2, 2}, data)
		return v
	}
	if !faceConnected(build(2, 2), 0, 0, 0, 0, 0) {
		t.Error("strong diagonal not connected")
	}
	if faceConnected(build(0.5, 0.5), 0, 0, 0, 0, 0) {
		t.Error("weak diagonal connected")
	}
}
