package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/techpills/internal/sim"
)

// ExportData is the JSON form of a session.
type ExportData struct {
	Meta   SessionMetadata `json:"meta"`
	Frames []ExportFrame   `json:"frames"`
}

type ExportFrame struct {
	Seq       uint64       `json:"seq"`
	Time      float64      `json:"time"`
	Positions [][2]float64 `json:"positions"`
}

func ExportJSON(w io.Writer, meta SessionMetadata, frames []sim.Frame) error {
	data := ExportData{
		Meta:   meta,
		Frames: make([]ExportFrame, len(frames)),
	}
	for i, f := range frames {
		ef := ExportFrame{Seq: f.Seq, Time: f.Time, Positions: make([][2]float64, len(f.Positions))}
		for j, p := range f.Positions {
			ef.Positions[j] = [2]float64{p.X, p.Y}
		}
		data.Frames[i] = ef
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteFramesCSV writes one row per frame: seq, time, then x,y per body.
func WriteFramesCSV(w io.Writer, frames []sim.Frame) error {
	cw := csv.NewWriter(w)

	n := 0
	if len(frames) > 0 {
		n = len(frames[0].Positions)
	}
	header := []string{"seq", "time"}
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := make([]string, 0, 2+2*len(f.Positions))
		row = append(row, strconv.FormatUint(f.Seq, 10), strconv.FormatFloat(f.Time, 'f', 6, 64))
		for _, p := range f.Positions {
			row = append(row, strconv.FormatFloat(p.X, 'f', 4, 64), strconv.FormatFloat(p.Y, 'f', 4, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
