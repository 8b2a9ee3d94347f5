package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/rope"
	"github.com/san-kum/ropesim/internal/scenario"
	"github.com/san-kum/ropesim/internal/sim"
	"github.com/san-kum/ropesim/internal/storage"
	"github.com/san-kum/ropesim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	verbose     bool
	preset      string
	configFile  string
	dt          float64
	duration    float64
	segments    int
	mode        string
	sampleEvery int
	noTear      bool
	noSave      bool
	outPath     string
	svgWidth    int
	svgHeight   int
	ratios      []float64
	watchConfig bool
	themeName   string
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func main() {
	rootCmd := &cobra.Command{
		Use:   "ropesim",
		Short: "rope simulation lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := tea.NewProgram(viz.NewMenu(scenario.NewRegistry()), tea.WithAltScreen()).Run()
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ropesim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and record it",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot tip height, stretch and substeps of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "swing frequency and settling of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a recorded run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportOBJCmd := &cobra.Command{
		Use:   "export-obj [scenario]",
		Short: "run a scenario and write the final tube mesh as OBJ",
		Args:  cobra.ExactArgs(1),
		RunE:  exportOBJ,
	}
	addConfigFlags(exportOBJCmd)
	exportOBJCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <scenario>.obj)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [scenario]",
		Short: "run a scenario and draw the final centreline as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	addConfigFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <scenario>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")
	exportSVGCmd.Flags().StringVar(&themeName, "theme", "cyberpunk", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().BoolVarP(&watchConfig, "watch", "w", false, "reload --config when the file changes")
	liveCmd.Flags().StringVar(&themeName, "theme", "cyberpunk", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "run a scenario once per tear ratio in parallel",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&ratios, "ratios", []float64{1.1, 1.25, 1.5, 2, 3}, "tear stretch ratios")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := scenario.NewRegistry()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SCENARIO\tPRESETS\tDESCRIPTION")
			for _, name := range reg.List() {
				fmt.Fprintf(w, "%s\t%v\t%s\n", name, config.ListPresets(name), reg.Describe(name))
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportOBJCmd, exportSVGCmd, liveCmd, sweepCmd, presetsCmd, scenariosCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&segments, "segments", config.DefaultSegments, "number of chain points")
	cmd.Flags().StringVar(&mode, "mode", "advanced", "collision mode (simple, advanced)")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", 1, "record one sample per N ticks")
	cmd.Flags().BoolVar(&noTear, "no-tear", false, "disable tearing")
}

// resolveConfig layers the preset, then the config file, then any flag the
// user set explicitly.
func resolveConfig(cmd *cobra.Command, name string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(name, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Changed("segments") {
		cfg.Rope.Segments = segments
	}
	if flags.Changed("mode") {
		cfg.Collision.Mode = mode
	}
	if flags.Changed("sample-every") {
		cfg.Run.SampleEvery = sampleEvery
	}
	if flags.Changed("no-tear") {
		cfg.Tear.Enabled = !noTear
	}
	cfg.Scenario = name

	if err := rope.Validate(cfg); err != nil {
		logger.Warn("config adjusted", "err", err)
	}
	cfg.Clamp()
	return cfg, nil
}

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{Dt: cfg.Run.Dt, Duration: cfg.Run.Duration, SampleEvery: cfg.Run.SampleEvery}
}

type tearLogger struct{}

func (tearLogger) OnTick(f sim.Frame) {
	for _, edge := range f.Torn {
		logger.Debug("edge torn", "edge", edge, "t", f.Time)
	}
}

// simulate builds and runs the scene. Ctrl-C stops the run early and keeps
// what was simulated so far.
func simulate(cmd *cobra.Command, name string) (*scenario.Scene, *config.Config, *sim.Result, error) {
	cfg, err := resolveConfig(cmd, name)
	if err != nil {
		return nil, nil, nil, err
	}
	scene, err := scenario.NewRegistry().Build(name, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	simulator := scene.Simulator()
	simulator.AddObserver(tearLogger{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("running", "scenario", name, "points", cfg.Rope.Segments, "dt", cfg.Run.Dt, "duration", cfg.Run.Duration)
	result, err := simulator.Run(ctx, simConfig(cfg))
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return nil, nil, nil, err
		}
		logger.Warn("run interrupted", "ticks", result.Ticks)
	}
	if result.Resets > 0 {
		logger.Warn(rope.ErrUnstable.Error(), "resets", result.Resets)
	}
	return scene, cfg, result, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	name := args[0]

	fmt.Printf("running %s scenario...\n", name)
	start := time.Now()
	_, cfg, result, err := simulate(cmd, name)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("ticks: %d\n", result.Ticks)
	fmt.Printf("tears: %d\n", len(result.Tears))

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(preset, cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tPRESET\tTIME\tDURATION\tDT\tPOINTS\tMODE\tTEARS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%s\t%d\n",
			run.ID,
			run.Scenario,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Segments,
			run.Collision,
			len(run.Tears),
		)
	}

	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	name := args[0]
	base, err := resolveConfig(cmd, name)
	if err != nil {
		return err
	}
	if len(ratios) == 0 {
		return fmt.Errorf("no ratios given")
	}

	reg := scenario.NewRegistry()
	ensemble := sim.NewEnsemble(func(idx int) (*sim.Simulator, error) {
		cfg := base.Clone()
		cfg.Tear.Enabled = true
		cfg.Tear.StretchRatio = ratios[idx]
		scene, err := reg.Build(name, cfg)
		if err != nil {
			return nil, err
		}
		return scene.Simulator(), nil
	}, len(ratios))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("sweeping %s over %d tear ratios...\n\n", name, len(ratios))
	results, err := ensemble.Run(ctx, simConfig(base))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RATIO\tTEARS\tFIRST TEAR\tPEAK STRETCH\tSTABILITY")
	for i, res := range results {
		first := "-"
		if len(res.Tears) > 0 {
			first = fmt.Sprintf("%.3fs", res.Tears[0].Time)
		}
		fmt.Fprintf(w, "%.3f\t%d\t%s\t%.4f\t%.3f\n",
			ratios[i], len(res.Tears), first, res.Metrics["peak_stretch"], res.Metrics["stability"])
	}
	return w.Flush()
}
