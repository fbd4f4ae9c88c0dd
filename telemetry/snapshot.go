package telemetry

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gocarina/gocsv"
)

// ParticleRow is one particle in a snapshot CSV.
type ParticleRow struct {
	Index   int     `csv:"index"`
	X       float32 `csv:"x"`
	Y       float32 `csv:"y"`
	Z       float32 `csv:"z"`
	VelX    float32 `csv:"vel_x"`
	VelY    float32 `csv:"vel_y"`
	VelZ    float32 `csv:"vel_z"`
	Elapsed float32 `csv:"elapsed"`
}

// Snapshot holds the particle state captured at one frame.
type Snapshot struct {
	Frame uint64
	Rows  []ParticleRow
}

// NewSnapshot copies particle state into a snapshot. velocities and elapsed
// may be nil; when set they must be as long as positions.
func NewSnapshot(frame uint64, positions, velocities []mgl32.Vec3, elapsed []float32) (*Snapshot, error) {
	if velocities != nil && len(velocities) != len(positions) {
		return nil, fmt.Errorf("snapshot: %d velocities for %d positions", len(velocities), len(positions))
	}
	if elapsed != nil && len(elapsed) != len(positions) {
		return nil, fmt.Errorf("snapshot: %d elapsed times for %d positions", len(elapsed), len(positions))
	}

	rows := make([]ParticleRow, len(positions))
	for i, p := range positions {
		row := ParticleRow{Index: i, X: p.X(), Y: p.Y(), Z: p.Z()}
		if velocities != nil {
			v := velocities[i]
			row.VelX, row.VelY, row.VelZ = v.X(), v.Y(), v.Z()
		}
		if elapsed != nil {
			row.Elapsed = elapsed[i]
		}
		rows[i] = row
	}

	return &Snapshot{Frame: frame, Rows: rows}, nil
}

// Positions returns the snapshot positions in index order.
func (s *Snapshot) Positions() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = mgl32.Vec3{r.X, r.Y, r.Z}
	}
	return out
}

// SaveSnapshot writes a snapshot to a CSV file.
func SaveSnapshot(snapshot *Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}

	if err := gocsv.MarshalFile(&snapshot.Rows, f); err != nil {
		f.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return f.Close()
}

// LoadSnapshot reads a snapshot CSV written by SaveSnapshot.
func LoadSnapshot(path string, frame uint64) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()

	var rows []ParticleRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	for i, r := range rows {
		if r.Index != i {
			return nil, fmt.Errorf("snapshot row %d has index %d", i, r.Index)
		}
	}

	return &Snapshot{Frame: frame, Rows: rows}, nil
}
