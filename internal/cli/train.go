package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dojo-rl/dojo/internal/config"
	"github.com/dojo-rl/dojo/internal/logger"
	"github.com/dojo-rl/dojo/pkg/session"
)

var (
	trainSeed          int64
	trainParallel      int
	trainSequential    int
	trainCheckpoint    string
	trainCheckpointDir string
	trainOutputDir     string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train an agent on an environment",
	Long: `Train assembles the experiment described by the configuration file
and command-line overrides, resuming from a prior run's checkpoint when
checkpoint_output_dir is set, and runs the trainer to completion.`,
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().Int64Var(&trainSeed, "seed", 0, "random seed")
	trainCmd.Flags().IntVar(&trainParallel, "parallel", 1, "number of parallel environment workers")
	trainCmd.Flags().IntVar(&trainSequential, "sequential", 1, "number of sequential environments per worker")
	trainCmd.Flags().StringVar(&trainCheckpoint, "checkpoint", config.CheckpointLast, "checkpoint selector (last, first, none, or a step id)")
	trainCmd.Flags().StringVar(&trainCheckpointDir, "checkpoint-output-dir", "", "output directory of a prior run to resume from")
	trainCmd.Flags().StringVar(&trainOutputDir, "output-dir", "", "output directory for this run")
}

func runTrain(cmd *cobra.Command, args []string) error {
	log, err := logger.New(logger.Config{
		Level:   logLevel,
		Console: true,
		Pretty:  true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer log.Close()

	exp, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyOverrides(cmd, exp)

	outputDir := trainOutputDir
	if outputDir == "" {
		outputDir = defaultOutputDir(exp)
	}

	entryPoint, err := os.Executable()
	if err != nil {
		entryPoint = "dojo"
	}

	assembler := session.NewAssembler(*log.Zerolog())
	sess, err := assembler.Assemble(exp, outputDir, entryPoint)
	if err != nil {
		return err
	}
	defer sess.Close()

	return sess.Run()
}

// applyOverrides copies flags the user actually set onto the loaded
// experiment, so the file keeps its values for everything else.
func applyOverrides(cmd *cobra.Command, exp *config.Experiment) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		exp.Seed = trainSeed
	}
	if flags.Changed("parallel") {
		exp.Parallel = trainParallel
	}
	if flags.Changed("sequential") {
		exp.Sequential = trainSequential
	}
	if flags.Changed("checkpoint") {
		exp.Checkpoint = trainCheckpoint
	}
	if flags.Changed("checkpoint-output-dir") {
		exp.CheckpointOutputDir = trainCheckpointDir
	}
}

// defaultOutputDir names the run after its environment and trainer
// plus a short unique suffix.
func defaultOutputDir(exp *config.Experiment) string {
	envName := exp.Environment.Type
	if envName == "" {
		envName = "experiment"
	}
	trainerName := exp.Trainer.Type
	if trainerName == "" {
		trainerName = "trainer"
	}
	runID := uuid.NewString()[:8]
	return filepath.Join("outputs", fmt.Sprintf("%s-%s-%s", envName, trainerName, runID))
}
