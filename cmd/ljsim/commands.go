package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ljsim/internal/config"
	"github.com/san-kum/ljsim/internal/experiment"
	"github.com/san-kum/ljsim/internal/sim"
	"github.com/san-kum/ljsim/internal/storage"
	"github.com/san-kum/ljsim/internal/viz"
	"github.com/spf13/cobra"
)

// findPreset looks name up under engine, or under every engine when engine
// is empty.
func findPreset(engine, name string) (*config.Config, error) {
	if engine != "" {
		if cfg := config.GetPreset(engine, name); cfg != nil {
			return cfg, nil
		}
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets(engine))
	}
	engines := make([]string, 0, len(config.Presets))
	for e := range config.Presets {
		engines = append(engines, e)
	}
	sort.Strings(engines)
	for _, e := range engines {
		if cfg := config.GetPreset(e, name); cfg != nil {
			return cfg, nil
		}
	}
	return nil, fmt.Errorf("unknown preset: %s", name)
}

// buildConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	if len(args) > 0 {
		engine = args[0]
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := findPreset(engine, preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if engine != "" {
		cfg.Engine = engine
	}
	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("box") {
		cfg.SystemSize = boxLength
	}
	if flags.Changed("particles") {
		cfg.NParticles = nparticles
		cfg.Topology = nil
	}
	if flags.Changed("init") {
		cfg.Init = initMode
		cfg.Topology = nil
	}
	if flags.Changed("epsilon") {
		cfg.Params.Epsilon = epsilon
	}
	if flags.Changed("sigma") {
		cfg.Params.Sigma = sigma
	}
	if flags.Changed("temperature") {
		cfg.Params.Temperature = temperature
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupExperiment(cfg *config.Config) (*experiment.Experiment, error) {
	ec, err := experiment.FromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	registry := experiment.NewRegistry()
	exp := experiment.New(ec)
	if err := exp.Setup(registry, registry.DefaultMetrics(cfg.Engine)); err != nil {
		return nil, err
	}
	return exp, nil
}

func metadataFor(cfg *config.Config, exp *experiment.Experiment) storage.RunMetadata {
	return storage.RunMetadata{
		Engine:      cfg.Engine,
		Preset:      preset,
		Seed:        exp.Seed(),
		SystemSize:  cfg.SystemSize,
		NParticles:  exp.Config().Params.NParticles,
		Epsilon:     cfg.Params.Epsilon,
		Sigma:       cfg.Params.Sigma,
		Temperature: cfg.Params.Temperature,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := setupExperiment(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running simulation", "engine", cfg.Engine, "steps", cfg.Steps)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	elapsed := time.Since(start)

	runID, err := saveResult(st, metadataFor(cfg, exp), result, runErr)
	if err != nil {
		return err
	}
	if runErr != nil {
		fmt.Printf("interrupted after %d steps, partial run id: %s\n", result.StepsTaken, runID)
		return nil
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	return nil
}

// saveResult stores result when the run finished or was interrupted. Other
// run errors are returned without saving.
func saveResult(st *storage.Store, meta storage.RunMetadata, result *sim.Result, runErr error) (string, error) {
	if runErr != nil && (result == nil || !errors.Is(runErr, context.Canceled)) {
		return "", runErr
	}
	return st.Save(meta, result)
}

func pickPreset() (*config.Config, bool, error) {
	var items []viz.PickerItem
	engines := make([]string, 0, len(config.Presets))
	for e := range config.Presets {
		engines = append(engines, e)
	}
	sort.Strings(engines)
	for _, e := range engines {
		for _, name := range config.ListPresets(e) {
			items = append(items, viz.PickerItem{Engine: e, Name: name, Summary: presetSummary(config.GetPreset(e, name))})
		}
	}

	final, err := tea.NewProgram(viz.NewPicker(items)).Run()
	if err != nil {
		return nil, false, err
	}
	it, ok := final.(viz.Picker).Selected()
	if !ok {
		return nil, false, nil
	}
	preset = it.Name
	return config.GetPreset(it.Engine, it.Name), true, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	if preset == "" && configFile == "" && len(args) == 0 {
		picked, ok, err := pickPreset()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		cfg = picked
	} else {
		var err error
		if cfg, err = buildConfig(cmd, args); err != nil {
			return err
		}
	}

	// The alternate screen owns the terminal while the model runs.
	logger.SetOutput(io.Discard)

	exp, err := setupExperiment(cfg)
	if err != nil {
		return err
	}

	title := cfg.Engine
	if preset != "" {
		title += " " + preset
	}
	model := viz.NewModel(exp.Engine(), viz.LiveOptions{
		Title:         title,
		BoxLength:     cfg.SystemSize,
		MaxSteps:      cfg.Steps,
		StepsPerFrame: stepsPerFrame,
		FPS:           frameRate,
		OnSample:      exp.Observe,
	})

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if lm, ok := final.(viz.Model); ok && lm.Err() != nil {
		return lm.Err()
	}

	if !saveLive {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(metadataFor(cfg, exp), exp.Result())
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func presetSummary(cfg *config.Config) string {
	n := cfg.NParticles
	if len(cfg.Topology) > 0 {
		n = len(cfg.Topology)
	}
	return fmt.Sprintf("%d particles, box %g Å, %s, %d steps", n, cfg.SystemSize, cfg.Params.Temperature, cfg.Steps)
}

func listPresets(cmd *cobra.Command, args []string) error {
	engines := make([]string, 0, len(config.Presets))
	if len(args) > 0 {
		engines = append(engines, args[0])
	} else {
		for e := range config.Presets {
			engines = append(engines, e)
		}
		sort.Strings(engines)
	}

	for _, e := range engines {
		presets := config.ListPresets(e)
		if len(presets) == 0 {
			fmt.Printf("no presets for engine: %s\n", e)
			continue
		}
		fmt.Printf("presets for %s:\n", e)
		for _, p := range presets {
			fmt.Printf("  %-10s %s\n", p, presetSummary(config.GetPreset(e, p)))
		}
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
	fmt.Fprintln(w, "ID\tENGINE\tTIME\tSTEPS\tN\tBOX\tTEMP")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\t%s\n",
			run.ID,
			run.Engine,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.NParticles,
			run.SystemSize,
			run.Temperature,
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

	energies, err := st.LoadEnergies(runID)
	if err != nil {
		return err
	}

	if len(energies.Potential) == 0 {
		return fmt.Errorf("no data to plot")
	}

	var data []float64
	switch series {
	case "potential":
		data = energies.Potential
	case "kinetic":
		data = energies.Kinetic
	case "total":
		data = make([]float64, len(energies.Potential))
		for i := range data {
			data[i] = energies.Potential[i] + energies.Kinetic[i]
		}
	default:
		return fmt.Errorf("unknown series: %s", series)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("engine: %s\n", meta.Engine)
	fmt.Printf("samples: %d\n\n", len(data))

	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(series+" energy (kcal/mol) vs step"),
	)
	fmt.Println(graph)

	if meta.Engine == "mc" && len(energies.Accepted) > 1 {
		accepted := 0
		for _, ok := range energies.Accepted[1:] {
			if ok {
				accepted++
			}
		}
		fmt.Printf("\naccepted: %d/%d\n", accepted, len(energies.Accepted)-1)
	}
	return nil
}

func outputWriter() (io.Writer, func() error, error) {
	if outPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	w, closeFn, err := outputWriter()
	if err != nil {
		return err
	}
	if err := st.ExportCSV(args[0], w); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(outPath, meta, result)
}
