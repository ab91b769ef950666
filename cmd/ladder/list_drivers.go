package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conn-castle/ladder/internal/config"
	"github.com/conn-castle/ladder/internal/messages"
)

func newListDriversCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.ListDriversUse,
		Short: messages.ListDriversShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, d := range newEngine(config.Default()).Drivers() {
				if _, err := fmt.Fprintf(out, messages.ListDriversLineFmt, d.Name(), strings.Join(d.SupportedVersions(), " → ")); err != nil {
					return err
				}
				deps := d.Dependencies()
				if len(deps) == 0 {
					continue
				}
				names := make([]string, 0, len(deps))
				for _, dep := range deps {
					names = append(names, dep.Name())
				}
				if _, err := fmt.Fprintf(out, messages.ListDriversDepsFmt, strings.Join(names, ", ")); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
