package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLookupCmd() *cobra.Command {
	var bf buildFlags
	cmd := &cobra.Command{
		Use:   "lookup KEY...",
		Short: "build over a word list and print the value of each key",
		Long: `lookup prints the line number stored for each KEY.

A key that is not in the word list still resolves to some line number;
such keys are marked "(absent)" by comparing against the loaded list.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, m, err := bf.load(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, k := range args {
				v := m.Lookup(k)
				if _, ok := words[k]; !ok {
					fmt.Fprintf(out, "%s:%d (absent)\n", k, v)
					continue
				}
				fmt.Fprintf(out, "%s:%d\n", k, v)
			}
			return nil
		},
	}
	bf.register(cmd)
	return cmd
}
