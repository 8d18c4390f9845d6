package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ironsheep/slicecrop/internal/config"
	"github.com/ironsheep/slicecrop/internal/pipeline"
)

func newRootCmd() *cobra.Command {
	var configFile string

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.Debug() {
			log.Printf("slicecrop v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		}
		return cfg, nil
	}

	root := &cobra.Command{
		Use:   "slicecrop",
		Short: "Crop marked scan pages into cells and outline their shapes",
		Long: `slicecrop finds the marker glyphs on every thresholded page in the input
folder, crops the page into one image per grid cell and writes a copy of
each crop with its contours drawn.

Settings come from slicecrop.yaml in the working directory (or --config)
and SLICECROP_* environment variables, e.g. SLICECROP_LOG_LEVEL=debug.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			p, err := pipeline.New(cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			report, err := p.Run()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d page(s), %d crop(s), %d boundary file(s), %d failure(s)\n",
				len(report.Pages), report.Artifacts(), report.Annotated,
				len(report.Failures)+len(report.AnnotationFailures))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./slicecrop.yaml)")

	cropCmd := &cobra.Command{
		Use:   "crop",
		Short: "Crop the source pages without annotating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			p, err := pipeline.New(cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			report, err := p.Crop()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d page(s), %d crop(s), %d failure(s)\n",
				len(report.Pages), report.Artifacts(), len(report.Failures))
			return nil
		},
	}

	annotateCmd := &cobra.Command{
		Use:   "annotate",
		Short: "Annotate the crops already in the crop folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			report, err := pipeline.AnnotateExisting(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d boundary file(s), %d failure(s)\n",
				report.Annotated, len(report.AnnotationFailures))
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "slicecrop %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}

	root.AddCommand(cropCmd, annotateCmd, versionCmd)
	return root
}
