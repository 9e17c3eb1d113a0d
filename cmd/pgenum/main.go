// Command pgenum renders, migrates and checks the enum types of the pgenumtest catalog.
//
//	pgenum [flags] <ddl|migrate|check|labels NAME|version>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	goversion "github.com/caarlos0/go-version"
	"github.com/xy-planning-network/pgenum"
	"github.com/xy-planning-network/pgenum/logger"
	"github.com/xy-planning-network/pgenum/pgenumtest"
	"github.com/xy-planning-network/pgenum/postgres"
	"github.com/xy-planning-network/pgenum/ranger"
)

const (
	exitOK = iota
	exitFailure
	exitUsage
)

var (
	version   = "0.0.1"
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pgenum", flag.ContinueOnError)
	fs.SetOutput(stderr)
	env := fs.String("env", "", "Environment to run in; defaults to the ENVIRONMENT env var, then DEVELOPMENT")
	drop := fs.Bool("drop", false, "Prefix ddl output with DROP TYPE statements")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: pgenum [flags] <ddl|migrate|check|labels NAME|version>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	cat := pgenumtest.Catalog
	switch cmd := fs.Arg(0); cmd {
	case "version":
		fmt.Fprintln(stdout, buildVersion(version, commit, date, builtBy, treeState).String())
		return exitOK

	case "ddl":
		for _, def := range cat.All() {
			if *drop {
				fmt.Fprintf(stdout, "%s;\n", def.DropSQL())
			}

			fmt.Fprintf(stdout, "%s;\n", def.CreateSQL())
		}
		return exitOK

	case "migrate", "check", "labels":
		if cmd == "labels" && fs.NArg() != 2 {
			fs.Usage()
			return exitUsage
		}

		e := pgenum.Environment(strings.ToUpper(*env))
		if e.Valid() != nil {
			e = pgenum.EnvVarOrEnv("ENVIRONMENT", pgenum.Development)
		}

		rng, err := ranger.New(
			cat,
			ranger.WithContext(ctx),
			ranger.WithEnv(e.String()),
			ranger.WithLogger(ranger.NewCLILogger(e, stderr)),
			ranger.WithMigrations(pgenumtest.Migrations...),
		)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitFailure
		}
		defer rng.Close()

		return dispatch(ctx, rng, cmd, fs.Args()[1:], stdout)

	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return exitUsage
	}
}

func dispatch(ctx context.Context, rng *ranger.Ranger, cmd string, args []string, stdout io.Writer) int {
	l := rng.EmitLogger()

	switch cmd {
	case "migrate":
		ran, err := postgres.RanMigrations(rng.EmitDB().DB())
		if err != nil {
			l.Error("listing migrations", &logger.LogContext{Error: err})
			return exitFailure
		}

		for _, key := range ran {
			fmt.Fprintln(stdout, key)
		}

	case "check":
		if err := rng.Check(ctx); err != nil {
			var merr *pgenum.MismatchError
			if errors.As(err, &merr) {
				fmt.Fprintln(stdout, err)
			}

			l.Error("enum types differ from the database", &logger.LogContext{Error: err})
			return exitFailure
		}

		fmt.Fprintln(stdout, "ok")

	case "labels":
		labels, err := rng.EmitDB().EnumLabels(args[0])
		if err != nil {
			l.Error("reading labels", &logger.LogContext{Error: err, Data: map[string]any{"enum_type": args[0]}})
			return exitFailure
		}

		for _, label := range labels {
			fmt.Fprintln(stdout, label)
		}
	}

	return exitOK
}

func buildVersion(version, commit, date, builtBy, treeState string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("pgenum", "Maps Go string constants onto PostgreSQL enum types.", "https://github.com/xy-planning-network/pgenum"),
		func(i *goversion.Info) {
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
