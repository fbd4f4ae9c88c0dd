// Package scene builds the static geometry drawn around the fountain and
// stores it as ECS entities.
package scene

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fountain/components"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/mesh"
)

// Scene holds the world and the mappers used to create and query entities.
type Scene struct {
	world *ecs.World

	mapper   *ecs.Map2[components.Transform, components.Model]
	filter   *ecs.Filter2[components.Transform, components.Model]
	modelMap *ecs.Map1[components.Model]

	emitter ecs.Entity
}

// New creates an empty scene.
func New() *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world:    world,
		mapper:   ecs.NewMap2[components.Transform, components.Model](world),
		filter:   ecs.NewFilter2[components.Transform, components.Model](world),
		modelMap: ecs.NewMap1[components.Model](world),
	}
}

// Build creates the ground, the optional terrain and the emitter marker.
func Build(cfg *config.Config) (*Scene, error) {
	s := New()
	sc := &cfg.Scene

	ground := mesh.Plane(float32(sc.PlaneSize), 0)
	s.Add(components.Transform{Scale: 1}, components.Model{
		Kind: components.KindGround,
		Mesh: ground,
		Tint: color.RGBA{R: 96, G: 104, B: 96, A: 255},
	})

	if sc.Terrain.Enabled {
		t := sc.Terrain
		hm, err := mesh.GenerateHeightmap(mesh.HeightmapParams{
			Size:      t.Size,
			Scale:     t.Scale,
			Amplitude: t.Height,
			Octaves:   t.Octaves,
			Seed:      t.Seed,
		})
		if err != nil {
			return nil, fmt.Errorf("generating terrain: %w", err)
		}
		terrain, err := mesh.FromHeightmap(hm, float32(t.CellSize), float32(t.OffsetY))
		if err != nil {
			return nil, fmt.Errorf("meshing terrain: %w", err)
		}
		s.Add(components.Transform{Scale: 1}, components.Model{
			Kind: components.KindTerrain,
			Mesh: terrain,
			Tint: color.RGBA{R: 84, G: 120, B: 72, A: 255},
		})
	}

	emitterMesh, err := loadEmitterMesh(sc.EmitterMesh)
	if err != nil {
		return nil, err
	}
	// The marker sits just under the origin so particles appear at its tip
	origin := cfg.Derived.Origin
	size := float32(sc.EmitterSize)
	_, top := emitterMesh.Bounds()
	s.emitter = s.Add(components.Transform{
		Position: origin.Sub(mgl32.Vec3{0, top.Y() * size, 0}),
		Scale:    size,
	}, components.Model{
		Kind:      components.KindEmitter,
		Mesh:      emitterMesh,
		Tint:      color.RGBA{R: 200, G: 170, B: 90, A: 255},
		Wireframe: true,
	})

	slog.Info("scene built",
		"entities", s.Len(),
		"triangles", s.Triangles(),
		"terrain", sc.Terrain.Enabled,
		"emitter_mesh", sc.EmitterMesh,
	)

	return s, nil
}

// loadEmitterMesh reads the configured PLY file, or returns the built-in
// pyramid when path is empty.
func loadEmitterMesh(path string) (*mesh.Mesh, error) {
	if path == "" {
		return mesh.Pyramid(1), nil
	}
	m, err := mesh.LoadPLY(path)
	if err != nil {
		return nil, fmt.Errorf("loading emitter mesh: %w", err)
	}
	return m, nil
}

// Add creates an entity from a transform and model.
func (s *Scene) Add(tr components.Transform, model components.Model) ecs.Entity {
	return s.mapper.NewEntity(&tr, &model)
}

// Each calls fn for every entity with a transform and a model.
func (s *Scene) Each(fn func(tr *components.Transform, model *components.Model)) {
	query := s.filter.Query()
	for query.Next() {
		tr, model := query.Get()
		fn(tr, model)
	}
}

// Len returns the number of scene entities.
func (s *Scene) Len() int {
	n := 0
	s.Each(func(*components.Transform, *components.Model) { n++ })
	return n
}

// Triangles returns the total triangle count across all meshes.
func (s *Scene) Triangles() int {
	n := 0
	s.Each(func(_ *components.Transform, model *components.Model) {
		if model.Mesh != nil {
			n += model.Mesh.TriangleCount()
		}
	})
	return n
}

// Emitter returns the emitter marker model, or nil when the scene has none.
func (s *Scene) Emitter() *components.Model {
	if s.emitter.IsZero() || !s.world.Alive(s.emitter) {
		return nil
	}
	return s.modelMap.Get(s.emitter)
}

// SetHidden shows or hides every entity of the given kind.
func (s *Scene) SetHidden(kind components.Kind, hidden bool) {
	s.Each(func(_ *components.Transform, model *components.Model) {
		if model.Kind == kind {
			model.Hidden = hidden
		}
	})
}
