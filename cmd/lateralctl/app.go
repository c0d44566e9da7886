// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/lots"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/mapgis"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/config"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/httpclient"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ident"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ratelimit"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/sec"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/session"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/account"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/auth"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/pagination"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/pointer"
)

// app holds the services of the CLI's single session.
type app struct {
	stdout io.Writer

	session  *auth.Service
	accounts *account.Service
	lotList  *lots.Service
	lookup   *mapgis.Service
}

func newApp(stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	path, err := cfg.SessionFilePath()
	if err != nil {
		return nil, err
	}

	attemptsPath, err := cfg.LoginAttemptsFilePath()
	if err != nil {
		return nil, err
	}

	// Each invocation is a new process, so failed logins are counted on disk.
	tokens := session.NewTokenStore(session.NewFileStore(path), logger)
	policy := auth.LoginPolicy{MaxAttempts: cfg.LoginMaxAttempts, Window: cfg.LoginWindow}
	limiter := ratelimit.New(ratelimit.NewFileStore(attemptsPath), logger)

	authService := auth.NewService(httpclient.New(cfg.BackendURL, cfg.RequestTimeout, nil, logger), tokens, limiter, policy, logger)
	client := authService.Client()

	return &app{
		stdout:   stdout,
		session:  authService,
		accounts: account.NewService(client, authService, logger),
		lotList:  lots.NewService(client, logger),
		lookup:   mapgis.NewService(client, mapgis.NewMemoryCache(), cfg.MapGISCacheTTL, logger),
	}, nil
}

// print writes value as indented JSON.
func (cli *app) print(value any) error {
	encoder := json.NewEncoder(cli.stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// # Session Commands

func (cli *app) login(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ContinueOnError)
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	if err := flags.Parse(args); err != nil {
		return err
	}

	result, err := cli.session.Login(ctx, auth.Credentials{Email: *email, Password: *password})
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.stdout, "Logged in as %s (%s)\n", result.User.FullName(), result.User.Role)
	return nil
}

func (cli *app) whoami(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("whoami", flag.ContinueOnError)
	refresh := flags.Bool("refresh", false, "fetch the profile from the backend")
	if err := flags.Parse(args); err != nil {
		return err
	}

	var (
		user *account.User
		err  error
	)
	if *refresh {
		user, err = cli.session.Profile(ctx)
	} else {
		user, err = cli.session.CurrentUser(ctx)
	}
	if err != nil {
		return err
	}

	return cli.print(struct {
		*account.User
		Permissions sec.Permissions `json:"permissions"`
	}{user, user.Permissions()})
}

func (cli *app) logout(ctx context.Context) error {
	if err := cli.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.stdout, "Logged out")
	return nil
}

// # User Commands

func (cli *app) users(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("users: expected list, get, update or delete")
	}

	action, rest := args[0], args[1:]
	switch action {
	case "list":
		params, _, err := pageFlags("users list", rest)
		if err != nil {
			return err
		}
		page, err := cli.accounts.List(ctx, params)
		if err != nil {
			return err
		}
		return cli.print(page)

	case "get":
		id, err := positional("users get", rest)
		if err != nil {
			return err
		}
		user, err := cli.accounts.Get(ctx, ident.ID(id))
		if err != nil {
			return err
		}
		return cli.print(user)

	case "update":
		return cli.updateUser(ctx, rest)

	case "delete":
		id, err := positional("users delete", rest)
		if err != nil {
			return err
		}
		if err := cli.accounts.Delete(ctx, ident.ID(id)); err != nil {
			return err
		}
		fmt.Fprintf(cli.stdout, "User %s deleted\n", id)
		return nil

	default:
		return fmt.Errorf("users: unknown action %q", action)
	}
}

// updateUser sends only the flags that were set.
func (cli *app) updateUser(ctx context.Context, args []string) error {
	id, err := positional("users update", args)
	if err != nil {
		return err
	}

	flags := flag.NewFlagSet("users update", flag.ContinueOnError)
	firstName := flags.String("first-name", "", "first name")
	lastName := flags.String("last-name", "", "last name")
	phone := flags.String("phone", "", "phone")
	company := flags.String("company", "", "company")
	role := flags.String("role", "", "role (admin, owner, developer)")
	active := flags.Bool("active", true, "whether the account is active")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	var patch account.Patch
	var parseErr error
	flags.Visit(func(set *flag.Flag) {
		switch set.Name {
		case "first-name":
			patch.FirstName = firstName
		case "last-name":
			patch.LastName = lastName
		case "phone":
			patch.Phone = phone
		case "company":
			patch.Company = company
		case "active":
			patch.IsActive = active
		case "role":
			parsed, err := sec.ParseRole(*role)
			if err != nil {
				parseErr = err
				return
			}
			patch.Role = pointer.To(parsed)
		}
	})
	if parseErr != nil {
		return parseErr
	}

	user, err := cli.accounts.Update(ctx, ident.ID(id), patch)
	if err != nil {
		return err
	}
	return cli.print(user)
}

// # Lot Commands

func (cli *app) lots(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return errors.New("lots: expected list")
	}

	var filter lots.Filter
	params, flags, err := pageFlags("lots list", args[1:], func(flags *flag.FlagSet) {
		flags.StringVar(&filter.Search, "search", "", "name, address or CBML")
		flags.Func("status", "lot status", func(value string) error {
			filter.Status = lots.Status(value)
			return nil
		})
	})
	if err != nil {
		return err
	}
	if flags.NArg() > 0 {
		return fmt.Errorf("lots list: unexpected arguments %s", strings.Join(flags.Args(), " "))
	}

	page, err := cli.lotList.List(ctx, params, filter)
	if err != nil {
		return err
	}
	return cli.print(page)
}

// # MapGIS Commands

func (cli *app) mapgis(ctx context.Context, args []string) error {
	cbml, err := positional("mapgis", args)
	if err != nil {
		return err
	}

	result, err := cli.lookup.LookupCBML(ctx, cbml)
	if err != nil {
		return err
	}
	return cli.print(result)
}

// # Argument Helpers

// pageFlags parses -page and -limit plus any extra flags registered by extend.
func pageFlags(name string, args []string, extend ...func(*flag.FlagSet)) (pagination.Params, *flag.FlagSet, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	page := flags.Int("page", pagination.DefaultPage, "page number")
	limit := flags.Int("limit", pagination.DefaultLimit, "items per page")
	for _, register := range extend {
		register(flags)
	}

	if err := flags.Parse(args); err != nil {
		return pagination.Params{}, nil, err
	}
	return pagination.Params{Page: *page, Limit: *limit}.Normalize(), flags, nil
}

// positional returns the first argument, which must not look like a flag.
func positional(name string, args []string) (string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", fmt.Errorf("%s: missing argument", name)
	}
	return args[0], nil
}
