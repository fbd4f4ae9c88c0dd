package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGenerateHeightmapDeterministic(t *testing.T) {
	p := HeightmapParams{Size: 32, Scale: 0.1, Amplitude: 4, Octaves: 3, Seed: 7}

	a, err := GenerateHeightmap(p)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := GenerateHeightmap(p)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(a.Heights) != 32*32 {
		t.Fatalf("expected %d samples, got %d", 32*32, len(a.Heights))
	}
	for i := range a.Heights {
		if a.Heights[i] != b.Heights[i] {
			t.Fatalf("sample %d differs between runs: %f vs %f", i, a.Heights[i], b.Heights[i])
		}
	}

	// Roughly within [0, amplitude], and not flat
	var lo, hi float32 = a.Heights[0], a.Heights[0]
	for _, h := range a.Heights {
		if h < lo {
			lo = h
		}
		if h > hi {
			hi = h
		}
	}
	if lo < -0.5 || hi > 4.5 {
		t.Errorf("heights outside expected range: [%f, %f]", lo, hi)
	}
	if hi-lo < 0.01 {
		t.Errorf("expected varied terrain, got range %f", hi-lo)
	}
}

func TestGenerateHeightmapRejectsTinySize(t *testing.T) {
	if _, err := GenerateHeightmap(HeightmapParams{Size: 1}); err == nil {
		t.Error("expected error for size 1")
	}
}

func TestFromHeightmapFlat(t *testing.T) {
	h := &Heightmap{Size: 3, Heights: make([]float32, 9)}

	m, err := FromHeightmap(h, 2, -1)
	if err != nil {
		t.Fatalf("FromHeightmap: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if m.VertexCount() != 9 {
		t.Errorf("expected 9 vertices, got %d", m.VertexCount())
	}
	if m.TriangleCount() != 8 {
		t.Errorf("expected 8 triangles, got %d", m.TriangleCount())
	}

	// Centered on the origin, lowered by offsetY
	min, max := m.Bounds()
	if min != (mgl32.Vec3{-2, -1, -2}) || max != (mgl32.Vec3{2, -1, 2}) {
		t.Errorf("unexpected bounds %v..%v", min, max)
	}

	for i := 0; i < m.TriangleCount(); i++ {
		if n := m.FaceNormal(i); !n.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
			t.Errorf("triangle %d: expected up-facing, got %v", i, n)
		}
	}
	for i, n := range m.Normals {
		if !n.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
			t.Errorf("vertex %d: expected up normal, got %v", i, n)
		}
	}
	if m.TexCoords[8] != (mgl32.Vec2{1, 1}) {
		t.Errorf("expected last texcoord (1,1), got %v", m.TexCoords[8])
	}
}

func TestFromHeightmapSlopeNormal(t *testing.T) {
	// Height rises along +x
	h := &Heightmap{Size: 3, Heights: []float32{
		0, 1, 2,
		0, 1, 2,
		0, 1, 2,
	}}

	m, err := FromHeightmap(h, 1, 0)
	if err != nil {
		t.Fatalf("FromHeightmap: %v", err)
	}

	// Center vertex normal leans toward -x
	n := m.Normals[4]
	if n.X() >= 0 || n.Y() <= 0 {
		t.Errorf("expected normal leaning -x and up, got %v", n)
	}
}

func TestFromHeightmapTooLarge(t *testing.T) {
	h := &Heightmap{Size: 300, Heights: make([]float32, 300*300)}
	if _, err := FromHeightmap(h, 1, 0); err == nil {
		t.Error("expected index limit error")
	}
}
