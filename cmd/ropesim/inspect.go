package main

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ropesim/internal/analysis"
	"github.com/san-kum/ropesim/internal/export"
	"github.com/san-kum/ropesim/internal/sim"
	"github.com/san-kum/ropesim/internal/storage"
	"github.com/spf13/cobra"
)

// settleBand is the max-stretch tolerance used by analyze.
const settleBand = 0.01

func loadRun(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	result := &sim.Result{
		Samples: samples,
		Tears:   meta.Tears,
		Metrics: meta.Metrics,
		Ticks:   meta.Ticks,
		Resets:  meta.Resets,
	}
	return meta, result, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.Samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(result.Samples))

	stretch := make([]float64, len(result.Samples))
	substeps := make([]float64, len(result.Samples))
	for i, s := range result.Samples {
		stretch[i] = s.MaxStretch
		substeps[i] = float64(s.Substeps)
	}

	series := []struct {
		caption string
		data    []float64
	}{
		{"tip height", result.TipSeries(1)},
		{"max stretch ratio", stretch},
		{"substeps per tick", substeps},
	}
	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if len(meta.Tears) > 0 {
		fmt.Println("tears:")
		for _, t := range meta.Tears {
			fmt.Printf("  t=%.3fs edge %d\n", t.Time, t.Edge)
		}
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.Samples) < 4 {
		return fmt.Errorf("not enough samples")
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	times := result.Times()
	sampleDt := (times[len(times)-1] - times[0]) / float64(len(times)-1)

	ps := analysis.PowerSpectrum(result.TipSeries(0), sampleDt)
	plotData := ps.Power
	if len(plotData) > 8 {
		plotData = plotData[:len(plotData)/4]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (tip x)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := ps.Dominant()
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	stretch := make([]float64, len(result.Samples))
	tips := make([]mgl64.Vec3, len(result.Samples))
	for i, s := range result.Samples {
		stretch[i] = s.MaxStretch
		tips[i] = s.Tip
	}
	if t, ok := analysis.SettleTime(times, stretch, settleBand); ok {
		fmt.Printf("stretch settles after: %.3f s\n", t)
	} else {
		fmt.Println("stretch never settles")
	}

	fmt.Println("\ntip trace (x/y):")
	fmt.Println(analysis.TraceToASCII(tips, 60, 20))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	data := export.NewExportData(meta.Scenario, meta.Preset, meta.Dt, meta.Duration, result)
	if outPath == "" {
		return export.WriteJSON(os.Stdout, data)
	}
	if err := export.ExportJSON(outPath, data); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}
