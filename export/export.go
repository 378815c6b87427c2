// Package export renders the N-body core's event buffers to the
// outside world: a plain-text line format and a JSON run catalog. It
// is an external collaborator, not part of the core — nothing in the
// nbody package imports it.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/rabotin-labs/nbody"
)

// WriteEventLines renders event rows (time, i, j, separation) to the
// plain-text wire format, one row per line: "<time> <i> <j>
// <distance>\n", with time and distance printed to 17 significant
// digits. It writes only to w; naming or opening any file is left to
// the caller.
func WriteEventLines(w io.Writer, rows [][4]float64) error {
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%.17g %d %d %.17g\n", r[0], int(r[1]), int(r[2]), r[3]); err != nil {
			return err
		}
	}
	return nil
}

// WriteEventCSV writes the same rows as a headered CSV table.
func WriteEventCSV(w io.Writer, rows [][4]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "i", "j", "separation"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.FormatFloat(r[0], 'g', -1, 64),
			strconv.Itoa(int(r[1])),
			strconv.Itoa(int(r[2])),
			strconv.FormatFloat(r[3], 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Catalog is a JSON summary of one integration run's event buffers,
// grounded on export.go's CgCatalog/CgItems shape but scoped to this
// core's collision/close-encounter reporting rather than Cosmographia
// visualization assets.
type Catalog struct {
	Version             string       `json:"version"`
	Name                string       `json:"name"`
	Status              string       `json:"status"`
	CloseEncounters     [][4]float64 `json:"closeEncounters,omitempty"`
	Collisions          [][4]float64 `json:"collisions,omitempty"`
	CEOverflowed        bool         `json:"closeEncountersOverflowed"`
	CollisionOverflowed bool         `json:"collisionsOverflowed"`
}

// BuildCatalog snapshots a State's status and event buffers into a
// Catalog.
func BuildCatalog(name string, status nbody.Status, s *nbody.State) Catalog {
	return Catalog{
		Version:             "1.0",
		Name:                name,
		Status:              status.String(),
		CloseEncounters:     s.CloseEncounterBuffer(),
		Collisions:          s.CollisionBuffer(),
		CEOverflowed:        s.CloseEncounterOverflowed(),
		CollisionOverflowed: s.CollisionOverflowed(),
	}
}

// WriteCatalog writes c to w as indented JSON.
func WriteCatalog(w io.Writer, c Catalog) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
