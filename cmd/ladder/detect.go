package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/ladder/internal/config"
	"github.com/conn-castle/ladder/internal/engine"
	"github.com/conn-castle/ladder/internal/messages"
)

func newDetectCmd() *cobra.Command {
	var asJSON bool
	var configPath string

	cmd := &cobra.Command{
		Use:   messages.DetectUse,
		Short: messages.DetectShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			root, err := resolveProject(path)
			if err != nil {
				return err
			}
			cfg, _, err := config.Load(root, configPath)
			if err != nil {
				return err
			}
			found, err := newEngine(cfg).DetectDrivers(root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				if found == nil {
					found = []engine.Detection{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(found)
			}
			if len(found) == 0 {
				_, err := fmt.Fprintln(out, messages.DetectNone)
				return err
			}
			if _, err := fmt.Fprintf(out, messages.DetectHeaderFmt, root); err != nil {
				return err
			}
			for _, d := range found {
				if _, err := fmt.Fprintf(out, messages.DetectLineFmt, d.Driver, color.GreenString(d.Version)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, messages.DetectFlagJSON)
	cmd.Flags().StringVar(&configPath, "config", "", messages.UpgradeFlagConfig)
	return cmd
}
