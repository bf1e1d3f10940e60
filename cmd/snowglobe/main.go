package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/config"
	"github.com/san-kum/snowglobe/internal/export"
	"github.com/san-kum/snowglobe/internal/metrics"
	"github.com/san-kum/snowglobe/internal/morph"
	"github.com/san-kum/snowglobe/internal/ornament"
	"github.com/san-kum/snowglobe/internal/scene"
	"github.com/san-kum/snowglobe/internal/shape"
	"github.com/san-kum/snowglobe/internal/sim"
	"github.com/san-kum/snowglobe/internal/storage"
	"github.com/san-kum/snowglobe/internal/viz"
)

var (
	configFile string
	preset     string
	seed       int64
	particles  int
	text       string
	theme      string
	logLevel   string
	logFile    string
	dataDir    string

	// run
	dt        float64
	schedule  string
	scenario  string
	plot      bool
	runs      int
	save      bool
	metricArg string

	// export
	format    string
	output    string
	mode      string
	frames    int
	svgWidth  int
	svgHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "snowglobe",
		Short:         "particle cloud that morphs between a tree, a heart and text",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closeLog, err := newLogger(true)
			if err != nil {
				return err
			}
			defer closeLog()
			return viz.RunLauncher(func(cfg *config.Config) { applyFlags(cmd, cfg) }, log)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "default", "preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.IntVar(&particles, "particles", config.DefaultParticles, "particle count")
	pf.StringVar(&text, "text", config.DefaultText, "text for the text silhouette")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	pf.StringVar(&dataDir, "data", ".snowglobe", "data directory for saved runs")

	liveCmd := &cobra.Command{
		Use:   "live [silhouette]",
		Short: "open the live view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	runCmd := &cobra.Command{
		Use:   "run [silhouette]",
		Short: "run a mode schedule headless and report metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSchedule,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 1.0/config.DefaultFPS, "frame time in seconds")
	runCmd.Flags().StringVar(&schedule, "schedule", "dispersed:3,settled:4", "mode schedule (mode:seconds,...)")
	runCmd.Flags().StringVar(&scenario, "scenario", "", "scenario file (yaml), overrides --schedule")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot the mean distance")
	runCmd.Flags().IntVar(&runs, "runs", 1, "number of seeds to average")
	runCmd.Flags().BoolVar(&save, "save", false, "store the run in the data directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&metricArg, "metric", "mean_distance", "series to plot")
	plotCmd.Flags().StringVarP(&output, "output", "o", "", "write the plot as svg to this file")

	exportCmd := &cobra.Command{
		Use:   "export [silhouette]",
		Short: "export a frame of the cloud",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportFrame,
	}
	exportCmd.Flags().StringVar(&format, "format", "svg", "output format (svg, csv, json)")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	exportCmd.Flags().StringVar(&mode, "mode", "settled", "mode to step in before exporting")
	exportCmd.Flags().IntVar(&frames, "frames", 0, "frames to step before exporting")
	exportCmd.Flags().IntVar(&svgWidth, "width", 640, "svg width")
	exportCmd.Flags().IntVar(&svgHeight, "height", 640, "svg height")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the morph step",
		RunE:  bench,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	ornamentsCmd := &cobra.Command{
		Use:   "ornaments",
		Short: "print the ornament layout",
		RunE:  listOrnaments,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, nil)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, exportCmd, benchCmd, presetsCmd, ornamentsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newLogger builds the slog logger from the flags. Terminal views discard
// logs unless --log-file is set so the alt screen stays clean.
func newLogger(tui bool) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	var w io.Writer = os.Stderr
	if tui {
		w = io.Discard
	}
	closeFn := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { f.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}

// applyFlags overlays the flags the user actually set onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("text") {
		cfg.Text.Value = text
	}
	if flags.Changed("theme") {
		cfg.Live.Theme = theme
	}
}

// resolveConfig starts from the preset, replaces it with the config file when
// one is given, then applies flags and the optional silhouette argument.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	applyFlags(cmd, cfg)
	if len(args) > 0 {
		cfg.Silhouette = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSession(cmd *cobra.Command, args []string, tui bool) (*scene.Session, *slog.Logger, func(), error) {
	log, closeLog, err := newLogger(tui)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		closeLog()
		return nil, nil, nil, err
	}
	s, err := scene.New(cfg, log)
	if err != nil {
		closeLog()
		return nil, nil, nil, err
	}
	return s, log, closeLog, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	s, log, closeLog, err := newSession(cmd, args, true)
	if err != nil {
		return err
	}
	defer closeLog()
	return viz.Run(s, log)
}

func loadSchedule() (sim.Schedule, float64, string, error) {
	if scenario == "" {
		sched, err := sim.ParseSchedule(schedule)
		return sched, dt, "", err
	}
	sc, err := sim.LoadScenario(scenario)
	if err != nil {
		return nil, 0, "", err
	}
	sched, err := sc.Schedule()
	if err != nil {
		return nil, 0, "", fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	step := dt
	if sc.Dt > 0 {
		step = sc.Dt
	}
	return sched, step, sc.Preset, nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	sched, step, scenarioPreset, err := loadSchedule()
	if err != nil {
		return err
	}
	if scenarioPreset != "" && !cmd.Flags().Changed("preset") {
		preset = scenarioPreset
	}

	log, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = cfg.ResolveSeed()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	simCfg := sim.Config{Dt: step, Schedule: sched}
	build := func(seed int64) (sim.Stepper, []sim.Metric, error) {
		c := cfg.Clone()
		c.Seed = seed
		s, err := scene.New(c, log)
		if err != nil {
			return nil, nil, err
		}
		return s, metrics.Standard(c.Motion.WrapLow, c.Motion.WrapHigh, c.Motion.Velocity), nil
	}

	fmt.Printf("running %s on %s (%d particles, %d frames)...\n", sched, cfg.Silhouette, cfg.Particles, totalFrames(sched, step))
	start := time.Now()

	if runs > 1 {
		results, err := sim.NewEnsemble(build, runs, cfg.Seed).Run(ctx, simCfg)
		if err != nil {
			return err
		}
		fmt.Printf("completed %d runs in %v\n", runs, time.Since(start))
		printMetrics(sim.MeanMetrics(results))
		return nil
	}

	st, ms, err := build(cfg.Seed)
	if err != nil {
		return err
	}
	runner := sim.New(st)
	for _, m := range ms {
		runner.AddMetric(m)
	}
	result, err := runner.Run(ctx, simCfg)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("seed: %d\n", cfg.Seed)
	fmt.Printf("steps: %d\n", result.Steps)
	printMetrics(result.Metrics)

	if plot {
		fmt.Println()
		fmt.Println(asciigraph.Plot(result.Series["mean_distance"],
			asciigraph.Height(12), asciigraph.Width(70), asciigraph.Caption("mean distance to target")))
	}

	if save {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		runID, err := store.Save(storage.RunMetadata{
			Preset:     preset,
			Silhouette: cfg.Silhouette,
			Seed:       cfg.Seed,
			Particles:  cfg.Particles,
			Dt:         step,
			Schedule:   sched.String(),
		}, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func totalFrames(sched sim.Schedule, step float64) int {
	n := 0
	for _, seg := range sched {
		n += seg.Frames(step)
	}
	return n
}

func printMetrics(m map[string]float64) {
	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range []string{"mean_distance", "band_escape", "spread"} {
		if v, ok := m[name]; ok {
			fmt.Fprintf(w, "  %s\t%.6f\n", name, v)
		}
	}
	w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	list, err := st.List()
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSHAPE\tTIME\tPARTICLES\tSTEPS\tSCHEDULE\tDISTANCE")
	for _, run := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%.4f\n",
			run.ID,
			run.Silhouette,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Steps,
			run.Schedule,
			run.Metrics["mean_distance"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	values := series.Values[metricArg]
	if len(values) == 0 {
		return fmt.Errorf("run %s has no %s series", runID, metricArg)
	}

	if output != "" {
		svg := export.SeriesToSVG(series.Times, values, 800, 300, "#3CB371")
		if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", output)
		return nil
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("shape: %s\n", meta.Silhouette)
	fmt.Printf("schedule: %s\n\n", meta.Schedule)
	fmt.Println(asciigraph.Plot(values, asciigraph.Height(12), asciigraph.Width(70), asciigraph.Caption(metricArg)))
	return nil
}

func exportFrame(cmd *cobra.Command, args []string) error {
	s, _, closeLog, err := newSession(cmd, args, false)
	if err != nil {
		return err
	}
	defer closeLog()

	m := cloud.ParseMode(mode)
	step := 1 / float64(s.Config().Live.FPS)
	for i := 0; i < frames; i++ {
		s.Advance(m, step)
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "svg":
		_, err = io.WriteString(w, export.CloudToSVG(s, viz.NewCamera(), svgWidth, svgHeight)+"\n")
	case "csv":
		err = export.WriteCSV(w, export.Capture(s))
	case "json":
		err = export.WriteJSON(w, export.Capture(s))
	default:
		return fmt.Errorf("unknown format: %s (available: svg, csv, json)", format)
	}
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Printf("wrote %s\n", output)
	}
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	const steps = 300
	counts := []int{2000, 8000, 20000}
	workers := []int{1, 4}

	fmt.Printf("benchmarking %d steps per run\n\n", steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tWORKERS\tMODE\tTIME\tSTEPS/SEC\tPARTICLES/SEC")

	for _, n := range counts {
		rng := rand.New(rand.NewSource(42))
		tree, err := shape.Tree(rng, n, shape.DefaultGeometry())
		if err != nil {
			return err
		}
		vel, err := morph.NewVelocityField(rng, n, morph.DefaultVelocity)
		if err != nil {
			return err
		}
		for _, wk := range workers {
			for _, md := range []cloud.Mode{cloud.ModeSettled, cloud.ModeDispersed} {
				params := morph.DefaultParams()
				params.Workers = wk
				eng, err := morph.New(tree, vel, params)
				if err != nil {
					return err
				}

				start := time.Now()
				for i := 0; i < steps; i++ {
					eng.Step(md, 1.0/30, float64(i)/30)
				}
				elapsed := time.Since(start)

				fmt.Fprintf(w, "%d\t%d\t%s\t%v\t%.0f\t%.0f\n",
					n, wk, md, elapsed, steps/elapsed.Seconds(), float64(n*steps)/elapsed.Seconds())
			}
		}
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tORNAMENTS\tFRAMES\tVELOCITY\tSWIRL\tFPS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.3f\t%.3f\t%d\n",
			name, p.Particles, p.Ornaments, p.Frames, p.Motion.Velocity, p.Motion.Swirl, p.Live.FPS)
	}
	return w.Flush()
}

func listOrnaments(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(cfg.ResolveSeed()))
	anchors, err := ornament.Place(rng, cfg.Ornaments, cfg.Tree)
	if err != nil {
		return err
	}
	photos, err := ornament.Frames(cfg.Frames, cfg.Tree)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tKIND\tX\tY\tZ")
	for i, a := range anchors {
		fmt.Fprintf(w, "%d\t%s\t%.3f\t%.3f\t%.3f\n", i, a.Tag, a.Pos.X, a.Pos.Y, a.Pos.Z)
	}
	for _, f := range photos {
		fmt.Fprintf(w, "%d\tphoto\t%.3f\t%.3f\t%.3f\n", f.Index, f.Pos.X, f.Pos.Y, f.Pos.Z)
	}
	star := ornament.NewStar(cfg.Tree)
	fmt.Fprintf(w, "-\tstar\t%.3f\t%.3f\t%.3f\n", star.Pos.X, star.Pos.Y, star.Pos.Z)
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ngold share: %.2f\n", ornament.GoldFraction(anchors))
	return nil
}
