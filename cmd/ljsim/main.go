package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/ljsim/internal/config"
	"github.com/san-kum/ljsim/internal/experiment"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	logger   *log.Logger

	configFile  string
	preset      string
	engine      string
	steps       int
	seed        int64
	boxLength   float64
	nparticles  int
	initMode    string
	epsilon     string
	sigma       string
	temperature string

	// live view
	frameRate     int
	stepsPerFrame int
	saveLive      bool

	series  string
	outPath string
)

// main registers the commands and flags and executes the root command.
// Defaults for the data directory and log level come from the environment.
func main() {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:          "ljsim",
		Short:        "Lennard-Jones Monte Carlo and molecular dynamics",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			logger = log.NewWithOptions(os.Stderr, log.Options{
				Level:           lvl,
				Prefix:          "ljsim",
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
			})
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", env.DataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", env.LogLevel, "log level (debug, info, warn, error)")

	engines := experiment.NewRegistry().ListEngines()
	engineArgs := cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs)

	runCmd := &cobra.Command{
		Use:       "run [engine]",
		Short:     "run a simulation and store it",
		Long:      fmt.Sprintf("Run a simulation and store it. Engines: %s.\nAn interrupted run (ctrl+c) is stored with the steps taken so far.", strings.Join(engines, ", ")),
		Args:      engineArgs,
		ValidArgs: engines,
		RunE:      runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:       "live [engine]",
		Short:     "run a simulation in the terminal",
		Args:      engineArgs,
		ValidArgs: engines,
		RunE:      runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().IntVar(&stepsPerFrame, "speed", 1, "steps per frame")
	liveCmd.Flags().BoolVar(&saveLive, "save", false, "store the run on exit")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energies of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&series, "series", "potential", "series to plot (potential, kinetic, total)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the energy table of a run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [engine]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().Float64Var(&boxLength, "box", config.DefaultSystemSize, "box edge length (angstrom)")
	cmd.Flags().IntVar(&nparticles, "particles", config.DefaultNParticles, "number of particles")
	cmd.Flags().StringVar(&initMode, "init", config.DefaultInit, "initial topology (lattice, random)")
	cmd.Flags().StringVar(&epsilon, "epsilon", config.DefaultEpsilon, "LJ well depth, e.g. \"0.238 kcal/mol\"")
	cmd.Flags().StringVar(&sigma, "sigma", config.DefaultSigma, "LJ size, e.g. \"3.4 angstrom\"")
	cmd.Flags().StringVar(&temperature, "temperature", config.DefaultTemperature, "temperature, e.g. \"298 K\"")
}
