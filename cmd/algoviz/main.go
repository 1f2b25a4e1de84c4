package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/san-kum/algoviz/internal/algorithms"
	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/dataset"
	"github.com/san-kum/algoviz/internal/export"
	"github.com/san-kum/algoviz/internal/input"
	"github.com/san-kum/algoviz/internal/logging"
	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/playback"
	"github.com/san-kum/algoviz/internal/scenario"
	"github.com/san-kum/algoviz/internal/storage"
	"github.com/san-kum/algoviz/internal/tui"
)

var (
	dataDir     string
	logLevel    string
	metricsAddr string
	configFile  string
	preset      string

	speedMs   int
	size      int
	seed      int64
	inputText string
	stopAfter time.Duration
	plot      bool
	noSave    bool

	svgPath   string
	svgWidth  int
	svgHeight int

	sizes     string
	sweepSeed int64
	trials    int
	trialSize int
	trialSeed int64
)

var (
	registry  = algorithms.NewRegistry()
	logger    = slog.Default()
	observers []playback.Observer
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "algoviz",
		Short:         "step through algorithms in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := logging.ParseLevel(logLevel); err != nil {
				return err
			}
			logger = logging.New(logLevel, os.Stderr)
			slog.SetDefault(logger)
			if metricsAddr != "" {
				observers = append(observers, metrics.New(prometheus.DefaultRegisterer))
				go serveMetrics(metricsAddr)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlayer(cmd, "")
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".algoviz", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "preset name, or category/name")

	runCmd := &cobra.Command{
		Use:   "run [algorithm]",
		Short: "run an algorithm and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAlgorithm,
	}
	addDataFlags(runCmd)
	runCmd.Flags().DurationVar(&stopAfter, "stop-after", 0, "stop the run after this long")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot the final values")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	playCmd := &cobra.Command{
		Use:   "play [algorithm]",
		Short: "open the interactive player",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alg := ""
			if len(args) > 0 {
				alg = args[0]
			}
			return runPlayer(cmd, alg)
		},
	}
	addDataFlags(playCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list algorithms",
		RunE:  listAlgorithms,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [category]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as json, or its final data as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&svgPath, "svg", "", "write the final data as svg to this file")
	exportCmd.Flags().IntVar(&svgWidth, "width", 800, "svg width")
	exportCmd.Flags().IntVar(&svgHeight, "height", 400, "svg height")

	compareCmd := &cobra.Command{
		Use:   "compare [algorithm] [algorithm] ...",
		Short: "run several algorithms on the same input",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareAlgorithms,
	}
	addDataFlags(compareCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [algorithm]",
		Short: "count snapshots over growing input sizes",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sizes, "sizes", "4,8,16,32,64", "comma separated input sizes")
	sweepCmd.Flags().Int64Var(&sweepSeed, "seed", 1, "random seed")

	trialsCmd := &cobra.Command{
		Use:   "trials [algorithm]",
		Short: "repeat an algorithm on random inputs",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrials,
	}
	trialsCmd.Flags().IntVar(&trials, "n", 20, "number of trials")
	trialsCmd.Flags().IntVar(&trialSize, "size", config.DefaultSize, "input size")
	trialsCmd.Flags().Int64Var(&trialSeed, "seed", 0, "base seed (0 picks one)")

	rootCmd.AddCommand(runCmd, playCmd, listCmd, presetsCmd, runsCmd, showCmd, exportCmd, compareCmd, scenarioCmd, sweepCmd, trialsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&speedMs, "speed", config.DefaultSpeedMs, "milliseconds per step")
	cmd.Flags().IntVar(&size, "size", config.DefaultSize, "number of generated elements")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().StringVar(&inputText, "input", "", "custom input, e.g. \"5,3,8,1\" or \"A-B:4, B-C\"")
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server", "error", err)
	}
}

// resolveConfig layers defaults, the config file, a preset and finally any
// flags the user set explicitly.
func resolveConfig(cmd *cobra.Command, algorithm string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if algorithm != "" {
		cfg.Algorithm = algorithm
	}

	if preset != "" {
		category, name, ok := strings.Cut(preset, "/")
		if !ok {
			alg, err := registry.Get(cfg.Algorithm)
			if err != nil {
				return nil, err
			}
			category, name = string(alg.Category), preset
		}
		p := config.GetPreset(category, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available for %s: %v)", name, category, config.ListPresets(category))
		}
		cfg.Apply(p)
		if algorithm != "" {
			cfg.Algorithm = algorithm
		}
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.SpeedMs = speedMs
	}
	if flags.Changed("size") {
		cfg.Size = size
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("input") {
		cfg.Input = inputText
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	} else if configFile == "" {
		cfg.DataDir = dataDir
	}
	return cfg, cfg.Validate()
}

func runAlgorithm(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	cfg, err := resolveConfig(cmd, name)
	if err != nil {
		return err
	}
	alg, err := registry.Get(cfg.Algorithm)
	if err != nil {
		return err
	}
	data, usedSeed, err := input.Resolve(alg.Category, cfg.Input, cfg.Size, cfg.Seed)
	if err != nil {
		return err
	}

	ctrl := playback.New(playback.Config{
		Name:        alg.Key,
		Speed:       cfg.Speed(),
		LogCapacity: cfg.LogCapacity,
		Logger:      logger,
		Observers:   observers,
	})
	if err := ctrl.Load(alg.Runner, alg.Key, data); err != nil {
		return err
	}

	ctx := cmd.Context()
	if stopAfter > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, stopAfter)
		defer cancel()
	}

	fmt.Printf("running %s on %d elements (seed %d)...\n", alg.Name, len(data), usedSeed)
	res, err := ctrl.Start(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s in %v\n", res.Outcome, res.Elapsed.Round(time.Millisecond))
	fmt.Printf("snapshots: %d\n", res.Snapshots)
	if v := ctrl.View(); len(v.Log) > 0 {
		fmt.Println("\nlast steps:")
		for i := len(v.Log) - 1; i >= 0; i-- {
			fmt.Printf("  %s\n", v.Log[i])
		}
	}
	fmt.Println()
	if err := printData(alg.Category, res.Final); err != nil {
		return err
	}
	if plot {
		plotValues(res.Final, alg.Name)
	}

	if !noSave {
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.NewRecord(res, alg.Category, cfg.Speed(), usedSeed))
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}

	if res.Outcome == playback.StateFailed {
		return res.Err
	}
	return nil
}

func printData(c dataset.Category, d dataset.DataSet) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	switch c {
	case dataset.CategoryArray:
		fmt.Fprintln(w, "ID\tVALUE\tTAG")
		for _, e := range d {
			fmt.Fprintf(w, "%s\t%g\t%s\n", e.ID, e.Value, e.Tag)
		}
	case dataset.CategoryGeometry:
		fmt.Fprintln(w, "ID\tX\tY\tTAG")
		for _, e := range d {
			if e.Point != nil {
				fmt.Fprintf(w, "%s\t%g\t%g\t%s\n", e.ID, e.Point.X, e.Point.Y, e.Tag)
			}
		}
	case dataset.CategoryGrid:
		counts := map[dataset.Tag]int{}
		for _, e := range d {
			counts[e.Tag]++
		}
		fmt.Fprintln(w, "TAG\tCELLS")
		for _, t := range []dataset.Tag{dataset.TagPath, dataset.TagVisited, dataset.TagWall, dataset.TagDefault} {
			fmt.Fprintf(w, "%s\t%d\n", t, counts[t])
		}
	default:
		fmt.Fprintln(w, "ID\tTEXT\tTAG\tNEIGHBORS")
		for _, e := range d {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", e.ID, e.Text, e.Tag, len(e.Neighbors))
		}
	}
	return w.Flush()
}

func plotValues(d dataset.DataSet, caption string) {
	vals := d.Values()
	if len(vals) < 2 {
		return
	}
	graph := asciigraph.Plot(vals,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println()
	fmt.Println(graph)
}

func runPlayer(cmd *cobra.Command, algorithm string) error {
	cfg, err := resolveConfig(cmd, algorithm)
	if err != nil {
		return err
	}
	if _, err := registry.Get(cfg.Algorithm); err != nil {
		return err
	}

	f, err := logging.OpenFile(cfg.DataDir, "algoviz.log")
	if err != nil {
		return err
	}
	defer f.Close()

	return tui.Run(cmd.Context(), tui.Options{
		Registry:  registry,
		Config:    cfg,
		Logger:    logging.New(cfg.LogLevel, f),
		Observers: observers,
	})
}

func listAlgorithms(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tCATEGORY\tNAME\tDESCRIPTION")
	for _, c := range dataset.Categories() {
		for _, a := range registry.ByCategory(c) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Key, a.Category, a.Name, a.Description)
		}
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	categories := dataset.Categories()
	if len(args) > 0 {
		c, err := dataset.ParseCategory(args[0])
		if err != nil {
			return err
		}
		categories = []dataset.Category{c}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tALGORITHM\tSPEED\tINPUT")
	for _, c := range categories {
		for _, name := range config.ListPresets(string(c)) {
			p := config.GetPreset(string(c), name)
			in := p.Input
			if in == "" {
				in = fmt.Sprintf("random, size %d", p.Size)
			}
			fmt.Fprintf(w, "%s/%s\t%s\t%dms\t%s\n", c, name, p.Algorithm, p.SpeedMs, in)
		}
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tALGORITHM\tTIME\tOUTCOME\tSNAPSHOTS\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%dms\n",
			run.ID,
			run.Algorithm,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Outcome,
			run.Snapshots,
			run.ElapsedMs,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rec, err := st.Load(args[0])
	if err != nil {
		return err
	}
	final, err := st.LoadFinal(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run:        %s\n", rec.ID)
	fmt.Printf("algorithm:  %s (%s)\n", rec.Algorithm, rec.Category)
	fmt.Printf("outcome:    %s\n", rec.Outcome)
	fmt.Printf("snapshots:  %d\n", rec.Snapshots)
	fmt.Printf("speed:      %dms\n", rec.SpeedMs)
	fmt.Printf("seed:       %d\n", rec.Seed)
	fmt.Printf("elapsed:    %dms\n", rec.ElapsedMs)
	if rec.Error != "" {
		fmt.Printf("error:      %s\n", rec.Error)
	}
	fmt.Println()
	if err := printData(rec.Category, final); err != nil {
		return err
	}
	if rec.Category == dataset.CategoryArray {
		plotValues(final, rec.Algorithm)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rec, err := st.Load(args[0])
	if err != nil {
		return err
	}
	final, err := st.LoadFinal(args[0])
	if err != nil {
		return err
	}

	if svgPath != "" {
		svg := export.DataSetToSVG(rec.Category, final, svgWidth, svgHeight)
		if svg == "" {
			return fmt.Errorf("run %s has nothing to draw", rec.ID)
		}
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
		return nil
	}

	out := struct {
		*storage.Record
		Final dataset.DataSet `json:"final"`
	}{rec, final}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func compareAlgorithms(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	entries := make([]playback.Entry, 0, len(args))
	var category dataset.Category
	for i, key := range args {
		alg, err := registry.Get(key)
		if err != nil {
			return err
		}
		if i == 0 {
			category = alg.Category
		} else if alg.Category != category {
			return fmt.Errorf("%s works on %s data, %s on %s", args[0], category, key, alg.Category)
		}
		entries = append(entries, playback.Entry{Name: alg.Key, Runner: alg.Runner})
	}

	data, usedSeed, err := input.Resolve(category, cfg.Input, cfg.Size, cfg.Seed)
	if err != nil {
		return err
	}

	fmt.Printf("comparing on %d %s elements (seed %d, %dms/step)\n\n", len(data), category, usedSeed, cfg.SpeedMs)
	results, err := playback.Compare(cmd.Context(), entries, data, playback.Config{
		Speed:       cfg.Speed(),
		LogCapacity: cfg.LogCapacity,
		Logger:      logger,
		Observers:   observers,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%-16s  %-10s  %10s  %10s\n", "algorithm", "outcome", "snapshots", "time_ms")
	fmt.Println(strings.Repeat("-", 52))
	for _, r := range results {
		fmt.Printf("%-16s  %-10s  %10d  %10d\n", r.Name, r.Outcome, r.Snapshots, r.Elapsed.Milliseconds())
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario %s: %s\n\n", sc.Name, sc.Description)
	results, err := scenario.Run(cmd.Context(), sc, scenario.Options{
		Registry:  registry,
		Store:     st,
		Logger:    logger,
		Observers: observers,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tALGORITHM\tOUTCOME\tSNAPSHOTS\tSEED\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\n", r.Step, r.Result.Name, r.Result.Outcome, r.Result.Snapshots, r.Seed, r.RunID)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func parseSizes(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > config.MaxSize {
			return nil, fmt.Errorf("invalid size %q (1..%d)", part, config.MaxSize)
		}
		out = append(out, n)
	}
	return out, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	ns, err := parseSizes(sizes)
	if err != nil {
		return err
	}
	points, err := scenario.RunSweep(cmd.Context(), scenario.Sweep{Algorithm: args[0], Sizes: ns, Seed: sweepSeed},
		scenario.Options{Registry: registry, Logger: logger, Observers: observers})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tSNAPSHOTS\tTIME")
	counts := make([]float64, len(points))
	for i, p := range points {
		fmt.Fprintf(w, "%d\t%d\t%v\n", p.Size, p.Snapshots, p.Elapsed.Round(time.Microsecond))
		counts[i] = float64(p.Snapshots)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(counts) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(counts,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(args[0]+": snapshots by input size"),
		))
	}
	return nil
}

func runTrials(cmd *cobra.Command, args []string) error {
	st, err := scenario.RunTrials(cmd.Context(), args[0], trialSize, trials, trialSeed,
		scenario.Options{Registry: registry, Logger: logger, Observers: observers})
	if err != nil {
		return err
	}
	fmt.Printf("%s over %d random inputs of size %d\n", args[0], st.Trials, trialSize)
	fmt.Printf("  snapshots min %d  mean %.1f  max %d\n", st.Min, st.Mean, st.Max)
	if st.Failed > 0 {
		fmt.Printf("  failed: %d\n", st.Failed)
	}
	return nil
}
