package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/ropesim/internal/sim"
)

type ExportData struct {
	Scenario string             `json:"scenario"`
	Preset   string             `json:"preset,omitempty"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Ticks    int                `json:"ticks"`
	Resets   int                `json:"resets"`
	Samples  []SampleData       `json:"samples"`
	Tears    []sim.TearEvent    `json:"tears"`
	Metrics  map[string]float64 `json:"metrics"`
}

type SampleData struct {
	Time       float64    `json:"t"`
	Tip        [3]float64 `json:"tip"`
	MaxStretch float64    `json:"max_stretch"`
	Torn       int        `json:"torn"`
	Substeps   int        `json:"substeps"`
	Iterations int        `json:"iterations"`
}

func NewExportData(scenario, preset string, dt, duration float64, result *sim.Result) ExportData {
	data := ExportData{
		Scenario: scenario,
		Preset:   preset,
		Dt:       dt,
		Duration: duration,
		Ticks:    result.Ticks,
		Resets:   result.Resets,
		Samples:  make([]SampleData, len(result.Samples)),
		Tears:    result.Tears,
		Metrics:  result.Metrics,
	}
	if data.Tears == nil {
		data.Tears = []sim.TearEvent{}
	}
	for i, s := range result.Samples {
		data.Samples[i] = SampleData{
			Time:       s.Time,
			Tip:        s.Tip,
			MaxStretch: s.MaxStretch,
			Torn:       s.Torn,
			Substeps:   s.Substeps,
			Iterations: s.Iterations,
		}
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}
