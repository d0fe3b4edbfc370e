package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ChamsBouzaiene/subtrans/internal/checkpoint"
	"github.com/ChamsBouzaiene/subtrans/internal/config"
)

func checkpointsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checkpoints",
		Aliases: []string{"cp"},
		Short:   "Inspect or clear saved chunk checkpoints",
	}
	cmd.AddCommand(checkpointsListCmd(), checkpointsClearCmd())
	return cmd
}

func openCheckpointStore(cmd *cobra.Command) (*checkpoint.Store, error) {
	m, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(m.Dir(), "checkpoints.db")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return checkpoint.Open(cmd.Context(), path)
}

func checkpointsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List unfinished jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCheckpointStore(cmd)
			if err != nil || store == nil {
				if err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "No checkpoints.")
				}
				return err
			}
			defer store.Close()

			jobs, err := store.Jobs(cmd.Context())
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No checkpoints.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "JOB\tINPUT\tLANGS\tCHUNKS\tSTARTED")
			for _, j := range jobs {
				fmt.Fprintf(w, "%s\t%s\t%s→%s\t%d\t%s ago\n",
					j.JobID, j.InputPath, j.SourceLang, j.TargetLang, j.Chunks, units.HumanDuration(time.Since(j.CreatedAt)))
			}
			return w.Flush()
		},
	}
}

func checkpointsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all checkpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCheckpointStore(cmd)
			if err != nil || store == nil {
				return err
			}
			defer store.Close()

			n, err := store.ClearAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s cleared %d job(s)\n", color.GreenString("✓"), n)
			return nil
		},
	}
}
