package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-onthisday/internal/config"
	"github.com/tartampluch/go-onthisday/internal/engine"
)

type exportFlags struct {
	output   string
	reminder string
}

func newExportCmd(a *cli) *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:       config.CmdExportUse,
		Short:     config.CmdExportShort,
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.SupportedExports,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, a, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, config.FlagOutput, "o", "", config.FlagDescOutput)
	cmd.Flags().StringVar(&flags.reminder, config.FlagReminder, "", config.FlagDescReminder)
	return cmd
}

func runExport(cmd *cobra.Command, a *cli, kind string, flags exportFlags) error {
	if !slices.Contains(config.SupportedExports, kind) {
		return fmt.Errorf("%s: %q", config.ErrExportKind, kind)
	}

	s, err := a.settings()
	if err != nil {
		return err
	}
	loader, err := a.loader()
	if err != nil {
		return err
	}
	res, err := loader.Run(cmd.Context(), sourceConfig(s))
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(cmd.OutOrStdout(), flags.output)
	if err != nil {
		return err
	}

	switch kind {
	case config.ExportVCard:
		if _, err := engine.WriteVCards(w, res.Dataset); err != nil {
			_ = closeOut()
			return err
		}

	default:
		reminder := s.Reminder
		if flags.reminder != "" {
			reminder = flags.reminder
		}
		data, err := engine.BuildCalendar(res.Events, res.Now, reminder)
		if err != nil {
			_ = closeOut()
			return err
		}
		if _, err := w.Write(data); err != nil {
			_ = closeOut()
			return fmt.Errorf("%s: %w", config.ErrOutputFile, err)
		}
	}

	return closeOut()
}
