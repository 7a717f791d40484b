package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-onthisday/internal/auth"
	"github.com/tartampluch/go-onthisday/internal/config"
)

func newCredentialsCmd(a *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdCredentialsUse,
		Short: config.CmdCredentialsShort,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   config.CmdCredSetUse,
		Short: config.CmdCredSetShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCredentialsSet(cmd, a)
		},
	})
	return cmd
}

// runCredentialsSet stores the web source password under the configured username,
// prompting for the username when the settings do not name one.
func runCredentialsSet(cmd *cobra.Command, a *cli) error {
	s, err := a.settings()
	if err != nil {
		return err
	}

	p := newPrompter(os.Stdin, cmd.ErrOrStderr())

	user := s.Source.Username
	if user == "" {
		if user, err = p.line(config.PromptUsername); err != nil {
			return err
		}
	}
	if user == "" {
		return errors.New(config.ErrUsernameEmpty)
	}

	pw, err := p.newPassword()
	if err != nil {
		return err
	}
	if err := config.StoreSourcePassword(user, pw); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), config.MsgPasswordStored, user)
	return nil
}

type hashPasswordFlags struct {
	output    string
	overwrite bool
}

func newHashPasswordCmd(a *cli) *cobra.Command {
	var flags hashPasswordFlags

	cmd := &cobra.Command{
		Use:   config.CmdHashPasswordUse,
		Short: config.CmdHashPassShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHashPassword(cmd, a, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, config.FlagOutput, "o", "", config.FlagDescOutput)
	cmd.Flags().BoolVar(&flags.overwrite, config.FlagOverwrite, false, config.FlagDescOverwrite)
	return cmd
}

// runHashPassword writes the serve-mode auth file. The target is --output,
// then server.auth_file from the settings, then the default location.
func runHashPassword(cmd *cobra.Command, a *cli, flags hashPasswordFlags) error {
	path := flags.output
	if path == "" {
		s, err := a.settings()
		if err != nil {
			return err
		}
		path = s.Server.AuthFile
	}
	if path == "" {
		p, err := auth.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	p := newPrompter(os.Stdin, cmd.ErrOrStderr())

	user, err := p.line(config.PromptUsername)
	if err != nil {
		return err
	}
	pw, err := p.newPassword()
	if err != nil {
		return err
	}

	if err := auth.WriteFile(path, user, pw, flags.overwrite); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), config.MsgAuthFileSaved, path)
	return nil
}
