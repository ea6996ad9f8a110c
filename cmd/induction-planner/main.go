/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/common/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/fleet-induction-planner/api/v1alpha1"
	"github.com/llm-d/fleet-induction-planner/internal/config"
	"github.com/llm-d/fleet-induction-planner/internal/logging"
	"github.com/llm-d/fleet-induction-planner/internal/optimizer"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the induction-planner command tree. Running the root
// command without a subcommand serves the API.
func newRootCommand() *cobra.Command {
	v := viper.New()
	var configFile string

	loadConfig := func(cmd *cobra.Command) (*config.Config, error) {
		if err := config.BindFlags(v, cmd.Flags()); err != nil {
			return nil, err
		}
		cfg, err := config.Load(v, configFile)
		if err != nil {
			return nil, err
		}
		logging.NewLogger(logging.Options{
			Development: cfg.Logging.Development,
			Verbosity:   cfg.Logging.Verbosity,
			Output:      cmd.ErrOrStderr(),
		})
		return cfg, nil
	}

	serve := func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !cfg.Logging.Development {
			gin.SetMode(gin.ReleaseMode)
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx = ctrl.LoggerInto(ctx, ctrl.Log.WithName("induction-planner"))

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		return a.serve(ctx)
	}

	root := &cobra.Command{
		Use:          "induction-planner",
		Short:        "Assigns daily Ready, Standby and Maintenance status to a trainset fleet",
		SilenceUsage: true,
		RunE:         serve,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Optional YAML configuration file")
	config.AddFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the induction planner API",
			Args:  cobra.NoArgs,
			RunE:  serve,
		},
		newVersionCommand(),
		newOptimizeCommand(loadConfig),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Print("induction-planner"))
			return err
		},
	}
}

// newOptimizeCommand runs one cycle against the configured fleet source and
// prints the optimization response as JSON.
func newOptimizeCommand(loadConfig func(*cobra.Command) (*config.Config, error)) *cobra.Command {
	var ready, standby, maintenance int
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Run one optimization cycle and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := ctrl.LoggerInto(cmd.Context(), ctrl.Log.WithName("induction-planner"))

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}

			req := &v1alpha1.OptimizationRequest{}
			if cmd.Flags().Changed("ready") {
				req.TargetReady = &ready
			}
			if cmd.Flags().Changed("standby") {
				req.TargetStandby = &standby
			}
			if cmd.Flags().Changed("maintenance") {
				req.TargetMaintenance = &maintenance
			}
			targets, err := optimizer.ResolveTargets(req, cfg.Optimization.DefaultTargets)
			if err != nil {
				return err
			}
			result, err := a.optimizer.Run(ctx, a.store, targets)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result.Response())
		},
	}
	cmd.Flags().IntVar(&ready, "ready", 0, "Ready target (defaults to --default-ready)")
	cmd.Flags().IntVar(&standby, "standby", 0, "Standby target (defaults to --default-standby)")
	cmd.Flags().IntVar(&maintenance, "maintenance", 0, "Maintenance target (defaults to --default-maintenance)")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
