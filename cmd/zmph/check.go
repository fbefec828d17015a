package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/PaNDa2code/zmph/internal/verify"
)

func newCheckCmd() *cobra.Command {
	var (
		bf      buildFlags
		workers int
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "build over a word list and verify every lookup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			words, m, err := bf.load(ctx, cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Verifying...")
			start := time.Now()
			if err := verify.Bijection(m, words); err != nil {
				return err
			}
			if err := verify.Lookups(ctx, m, words, workers); err != nil {
				return err
			}
			fmt.Fprintf(out, "OK: %d keys verified in %v\n", len(words), time.Since(start).Round(time.Microsecond))
			printStats(out, m.Stats())
			return nil
		},
	}
	bf.register(cmd)
	cmd.Flags().IntVar(&workers, "workers", 0, "verification goroutines (0 = GOMAXPROCS)")
	return cmd
}
