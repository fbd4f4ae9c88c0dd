package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"
)

// Heightmap is a square grid of height samples stored row by row.
type Heightmap struct {
	Size    int
	Heights []float32
}

// At returns the height at grid cell (x, z), clamping to the edges.
func (h *Heightmap) At(x, z int) float32 {
	x = clampInt(x, 0, h.Size-1)
	z = clampInt(z, 0, h.Size-1)
	return h.Heights[z*h.Size+x]
}

// HeightmapParams controls procedural terrain generation.
type HeightmapParams struct {
	Size      int     // samples per side
	Scale     float64 // base noise frequency per sample
	Amplitude float64 // peak height
	Octaves   int     // fractal octaves
	Seed      int64
}

// GenerateHeightmap builds fractal simplex-noise terrain. The result is
// deterministic for a given seed.
func GenerateHeightmap(p HeightmapParams) (*Heightmap, error) {
	if p.Size < 2 {
		return nil, fmt.Errorf("heightmap size must be at least 2, got %d", p.Size)
	}
	if p.Octaves < 1 {
		p.Octaves = 1
	}

	noise := opensimplex.New(p.Seed)
	h := &Heightmap{
		Size:    p.Size,
		Heights: make([]float32, p.Size*p.Size),
	}

	for z := 0; z < p.Size; z++ {
		for x := 0; x < p.Size; x++ {
			freq, amp, sum, norm := p.Scale, 1.0, 0.0, 0.0
			for o := 0; o < p.Octaves; o++ {
				sum += amp * noise.Eval2(float64(x)*freq, float64(z)*freq)
				norm += amp
				freq *= 2
				amp *= 0.5
			}
			// Eval2 is in [-1, 1]; remap to [0, amplitude]
			h.Heights[z*p.Size+x] = float32((sum/norm*0.5 + 0.5) * p.Amplitude)
		}
	}
	return h, nil
}

// FromHeightmap triangulates a heightmap into a mesh centered on the origin
// with cellSize world units between samples, raised by offsetY. Normals are
// computed from central differences and texture coordinates span [0, 1].
func FromHeightmap(h *Heightmap, cellSize, offsetY float32) (*Mesh, error) {
	n := h.Size
	if n < 2 {
		return nil, fmt.Errorf("heightmap size must be at least 2, got %d", n)
	}
	if n*n > MaxVertices {
		return nil, fmt.Errorf("heightmap %dx%d exceeds the uint16 index limit", n, n)
	}

	half := float32(n-1) * cellSize / 2
	m := &Mesh{
		Positions: make([]mgl32.Vec3, 0, n*n),
		Normals:   make([]mgl32.Vec3, 0, n*n),
		TexCoords: make([]mgl32.Vec2, 0, n*n),
		Indices:   make([]uint16, 0, 6*(n-1)*(n-1)),
	}

	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			m.Positions = append(m.Positions, mgl32.Vec3{
				float32(x)*cellSize - half,
				h.At(x, z) + offsetY,
				float32(z)*cellSize - half,
			})

			dx := h.At(x+1, z) - h.At(x-1, z)
			dz := h.At(x, z+1) - h.At(x, z-1)
			m.Normals = append(m.Normals, mgl32.Vec3{-dx, 2 * cellSize, -dz}.Normalize())

			m.TexCoords = append(m.TexCoords, mgl32.Vec2{
				float32(x) / float32(n-1),
				float32(z) / float32(n-1),
			})
		}
	}

	for z := 0; z < n-1; z++ {
		for x := 0; x < n-1; x++ {
			i00 := uint16(z*n + x)
			i10 := i00 + 1
			i01 := i00 + uint16(n)
			i11 := i01 + 1
			// Counter-clockwise seen from above (+y)
			m.Indices = append(m.Indices, i00, i01, i10, i10, i01, i11)
		}
	}
	return m, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
