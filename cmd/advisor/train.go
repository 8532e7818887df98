package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OldStager01/energy-advisor/internal/training"
	"github.com/OldStager01/energy-advisor/pkg/config"
)

type trainOptions struct {
	dataset   string
	out       string
	neighbors int
}

func newTrainCmd(configPath *string) *cobra.Command {
	var opts trainOptions

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the appliance encoder and neighbor model and write the artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			result, dir, err := runTrain(cfg, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "model %s: %d households, %d appliances, written to %s\n",
				result.Index.ID, result.Index.Len(), result.Encoder.Width(), dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "YAML training dataset (built-in examples when empty)")
	cmd.Flags().StringVar(&opts.out, "out", "", "output directory (defaults to artifacts.dir)")
	cmd.Flags().IntVar(&opts.neighbors, "neighbors", 0, "neighbors per query (defaults to advisor.neighbors)")
	return cmd
}

func runTrain(cfg *config.Config, opts trainOptions) (*training.Result, string, error) {
	ds := training.DefaultDataset()
	if opts.dataset != "" {
		var err error
		ds, err = training.LoadDataset(opts.dataset)
		if err != nil {
			return nil, "", err
		}
	}

	k := cfg.Advisor.Neighbors
	if opts.neighbors > 0 {
		k = opts.neighbors
	}

	dir := cfg.Artifacts.Dir
	if opts.out != "" {
		dir = opts.out
	}

	result, err := training.Train(ds, k)
	if err != nil {
		return nil, "", err
	}

	if err := result.Save(dir, cfg.Artifacts.ModelFile, cfg.Artifacts.EncoderFile, cfg.Artifacts.TipsFile); err != nil {
		return nil, "", fmt.Errorf("failed to save artifacts: %w", err)
	}
	return result, dir, nil
}
