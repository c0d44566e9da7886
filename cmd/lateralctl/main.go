// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command lateralctl drives the 360Lateral backend from a terminal.
//
// It shares the portal's services and keeps its session in a file
// (SESSION_FILE, default <user config dir>/lateral/session.json) so that a
// login survives between invocations.
//
// Usage:
//
//	lateralctl login -email ana@lateral.co -password ...
//	lateralctl whoami [-refresh]
//	lateralctl users list|get|update|delete ...
//	lateralctl lots list [-search ...] [-status ...]
//	lateralctl mapgis <cbml>
//	lateralctl logout
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/apperr"
)

const usage = `usage: lateralctl <command> [flags]

commands:
  login     -email <email> -password <password>
  whoami    [-refresh]
  logout
  users     list [-page N -limit N] | get <id> | update <id> [flags] | delete <id>
  lots      list [-search text] [-status status] [-page N -limit N]
  mapgis    <cbml>
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}

// run executes one command line and writes its result to stdout.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("missing command")
	}

	app, err := newApp(stdout, stderr)
	if err != nil {
		return err
	}

	command, rest := args[0], args[1:]
	switch command {
	case "login":
		return app.login(ctx, rest)
	case "whoami":
		return app.whoami(ctx, rest)
	case "logout":
		return app.logout(ctx)
	case "users":
		return app.users(ctx, rest)
	case "lots":
		return app.lots(ctx, rest)
	case "mapgis":
		return app.mapgis(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// describe renders errors the way a terminal user needs them.
func describe(err error) string {
	appErr := apperr.As(err)
	if appErr == nil {
		return err.Error()
	}

	message := fmt.Sprintf("%s (%s)", appErr.Message, appErr.Code)
	for _, detail := range appErr.Details {
		message += fmt.Sprintf("\n  %s: %s", detail.Field, detail.Message)
	}
	if appErr.Cause != nil {
		slog.Debug("error_cause", slog.Any("cause", appErr.Cause))
	}
	return message
}
