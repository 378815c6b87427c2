package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	kitlog "github.com/go-kit/kit/log"
	"github.com/rabotin-labs/nbody"
)

func TestWriteEventLinesFormat(t *testing.T) {
	rows := [][4]float64{
		{1.5, 0, 1, 0.25},
		{2.0, 1, 2, 0.1},
	}
	var buf bytes.Buffer
	if err := WriteEventLines(&buf, rows); err != nil {
		t.Fatalf("WriteEventLines: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	fields := strings.Fields(lines[0])
	if len(fields) != 4 {
		t.Fatalf("expected 4 fields per line, got %d: %q", len(fields), lines[0])
	}
	if fields[1] != "0" || fields[2] != "1" {
		t.Fatalf("expected indices 0 1, got %s %s", fields[1], fields[2])
	}
}

func TestWriteEventCSVHasHeader(t *testing.T) {
	rows := [][4]float64{{1.0, 0, 1, 0.5}}
	var buf bytes.Buffer
	if err := WriteEventCSV(&buf, rows); err != nil {
		t.Fatalf("WriteEventCSV: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected a header line plus one row, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "time,i,j,separation" {
		t.Fatalf("header = %q, want time,i,j,separation", lines[0])
	}
}

func newCollisionState(t *testing.T) *nbody.State {
	t.Helper()
	s, err := nbody.InitializeCode(1, 0, 2, 4, 4, 0)
	if err != nil {
		t.Fatalf("InitializeCode: %v", err)
	}
	s.SetLogger(kitlog.NewNopLogger())
	pos := []float64{0, 0, 0, 0.05, 0, 0}
	vel := []float64{0, 0, 0, -1, 0, 0}
	mass := []float64{1, 1}
	radius := []float64{0.1, 0.1}
	if err := s.SetState(pos, vel, mass, radius, 2, 1, 0); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	return s
}

func TestBuildCatalogCapturesCollision(t *testing.T) {
	s := newCollisionState(t)
	status, err := s.IntegrateRK(0, 10, 1e-2)
	if err != nil {
		t.Fatalf("IntegrateRK: %v", err)
	}
	if status != nbody.StatusCollision {
		t.Fatalf("status = %v, want StatusCollision", status)
	}
	cat := BuildCatalog("collision-run", status, s)
	if cat.Status != "collision" {
		t.Fatalf("catalog status = %q, want collision", cat.Status)
	}
	if len(cat.Collisions) == 0 {
		t.Fatal("expected at least one collision row in the catalog")
	}
	if cat.CollisionOverflowed {
		t.Fatal("a single collision should not overflow a capacity-4 buffer")
	}
}

func TestWriteCatalogRoundTripsThroughJSON(t *testing.T) {
	s := newCollisionState(t)
	status, err := s.IntegrateRK(0, 10, 1e-2)
	if err != nil {
		t.Fatalf("IntegrateRK: %v", err)
	}
	cat := BuildCatalog("roundtrip", status, s)

	var buf bytes.Buffer
	if err := WriteCatalog(&buf, cat); err != nil {
		t.Fatalf("WriteCatalog: %v", err)
	}

	var decoded Catalog
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if decoded.Name != "roundtrip" {
		t.Fatalf("decoded.Name = %q, want roundtrip", decoded.Name)
	}
	if len(decoded.Collisions) != len(cat.Collisions) {
		t.Fatalf("decoded collision count = %d, want %d", len(decoded.Collisions), len(cat.Collisions))
	}
}
