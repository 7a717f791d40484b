package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-onthisday/internal/auth"
	"github.com/tartampluch/go-onthisday/internal/config"
	"github.com/tartampluch/go-onthisday/internal/render"
	"github.com/tartampluch/go-onthisday/internal/server"
	"github.com/tartampluch/go-onthisday/internal/worker"
)

func newServeCmd(a *cli) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   config.CmdServeUse,
		Short: config.CmdServeShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, a, port)
		},
	}

	cmd.Flags().StringVarP(&port, config.FlagPort, "p", "", config.FlagDescPort)
	return cmd
}

func runServe(cmd *cobra.Command, a *cli, port string) error {
	logStartupInfo()

	s, err := a.settings()
	if err != nil {
		return err
	}
	if port != "" {
		if err := config.ValidatePort(port); err != nil {
			return err
		}
		s.Server.Port = port
	}

	creds, err := loadCredentials(s)
	if err != nil {
		return err
	}

	loader, err := a.loader()
	if err != nil {
		return err
	}

	srv := server.New(s.Server.Port, creds)
	w := &worker.Worker{
		Loader:     loader,
		Source:     sourceConfig(s),
		Translator: render.NewTranslator(s.Language),
		Reminder:   s.Reminder,
		Schedule:   s.Refresh,
		Publisher:  srv,
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	workerErr := make(chan error, config.ChannelBufferSize)
	go func() {
		err := w.Start(ctx)
		if err != nil {
			cancel()
		}
		workerErr <- err
	}()

	srvErr := srv.Start(ctx)
	cancel()
	if err := <-workerErr; err != nil {
		return err
	}
	if srvErr != nil {
		return srvErr
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return nil
}

// loadCredentials reads the auth file. A missing file disables authentication.
func loadCredentials(s *config.Settings) (*auth.Credentials, error) {
	path := s.Server.AuthFile
	if path == "" {
		p, err := auth.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	c, err := auth.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug(config.MsgAuthDisabled,
			config.LogKeyComponent, config.CompAuth,
			config.LogKeyFile, path,
		)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}
