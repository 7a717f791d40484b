package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-onthisday/internal/config"
	"github.com/tartampluch/go-onthisday/internal/engine"
	"github.com/tartampluch/go-onthisday/internal/render"
)

type showFlags struct {
	format string
	lang   string
	output string
}

func newShowCmd(a *cli) *cobra.Command {
	var flags showFlags

	cmd := &cobra.Command{
		Use:   config.CmdShowUse,
		Short: config.CmdShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, a, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, config.FlagFormat, "f", config.FormatText, config.FlagDescFormat)
	cmd.Flags().StringVarP(&flags.lang, config.FlagLang, "l", "", config.FlagDescLang)
	cmd.Flags().StringVarP(&flags.output, config.FlagOutput, "o", "", config.FlagDescOutput)

	return cmd
}

func runShow(cmd *cobra.Command, a *cli, flags showFlags) error {
	if !slices.Contains(config.SupportedFormats, flags.format) {
		return fmt.Errorf("%s: %q", config.ErrFormat, flags.format)
	}

	s, err := a.settings()
	if err != nil {
		return err
	}
	lang := s.Language
	if flags.lang != "" {
		if !slices.Contains(config.SupportedLanguages, flags.lang) {
			return fmt.Errorf("%s: %q", config.ErrLanguage, flags.lang)
		}
		lang = flags.lang
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
	if err := writeHighlights(w, flags.format, res.Highlights, render.NewTranslator(lang)); err != nil {
		_ = closeOut()
		return fmt.Errorf("%s: %w", config.ErrRender, err)
	}
	return closeOut()
}

func writeHighlights(w io.Writer, format string, h engine.Highlights, tr *render.Translator) error {
	switch format {
	case config.FormatHTML:
		return render.WriteHTML(w, h, tr)
	case config.FormatJSON:
		return render.WriteJSON(w, h)
	default:
		return render.WriteText(w, h, tr)
	}
}
