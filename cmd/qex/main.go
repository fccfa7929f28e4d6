// Package main runs the built-in demo experiments through the ideal
// simulator backend and records the results. It is the thin caller that
// wires the runner to the result store; the runner itself never touches
// persistence.
package main

import (
	"math"

	"github.com/aristath/qex/internal/backend"
	"github.com/aristath/qex/internal/config"
	"github.com/aristath/qex/internal/demos"
	"github.com/aristath/qex/internal/experiment"
	"github.com/aristath/qex/internal/quantum"
	"github.com/aristath/qex/internal/runner"
	"github.com/aristath/qex/internal/store"
	"github.com/aristath/qex/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting qex")

	resultStore, err := store.Open(cfg.StorePath(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open result store")
	}
	defer func() {
		if err := resultStore.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close result store")
		}
	}()

	run, err := runner.New(backend.NewIdeal(), cfg.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize runner")
	}

	shots := []struct {
		experiment *experiment.Experiment
		params     experiment.Params
		config     *runner.Config
	}{
		{demos.XGate(), experiment.Params{}, nil},
		{demos.Hadamard(), experiment.Params{}, nil},
		{demos.RYSweep(), experiment.Params{"theta": math.Pi / 4}, nil},
		{demos.BellState(), experiment.Params{}, &runner.Config{
			Qubits: []quantum.Qubit{quantum.GridQubit(0, 0), quantum.GridQubit(0, 1)},
		}},
	}

	for _, shot := range shots {
		record, err := run.Run(shot.experiment, shot.params, shot.config)
		if err != nil {
			log.Fatal().Err(err).Str("experiment", shot.experiment.Name()).Msg("Run failed")
		}
		if err := resultStore.SaveRun(record); err != nil {
			log.Fatal().Err(err).Str("run_id", record.RunID).Msg("Failed to save run record")
		}
		log.Info().
			Str("run_id", record.RunID).
			Str("experiment", record.ExperimentName).
			Str("density_matrix", record.DensityMatrixPath).
			Msg("Recorded run")
	}

	records, err := resultStore.ListRuns("")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list runs")
	}
	log.Info().Int("total_runs", len(records)).Msg("Demo runs complete")
}
