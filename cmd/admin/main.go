// Command admin performs maintenance tasks against the MyCESE data store:
//
//	admin [-config file] create-admin <name> <email>
//	admin [-config file] export-xlsx <file>
//	admin [-config file] backup <file>
//	admin [-config file] restore <file>
//
// Backups written here include password hashes so that restore brings
// accounts back unchanged. Stop the server before restoring.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mmynk/mycese/internal/app"
	"github.com/mmynk/mycese/internal/config"
	"github.com/mmynk/mycese/internal/export"
	"github.com/mmynk/mycese/internal/finance"
	"github.com/mmynk/mycese/pkg/logging"
)

const usage = `usage: admin [-config file] <command> [args]

commands:
  create-admin <name> <email>   create an administrator (password read from the terminal)
  export-xlsx <file>            write the finance workbook
  backup <file>                 write a JSON backup including credentials
  restore <file>                replace users, events and payments from a backup`

var errUsage = errors.New(usage)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	configPath := flag.String("config", os.Getenv("MYCESE_CONFIG"), "path to the YAML config file")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Log.Level)

	if err := run(context.Background(), cfg, logger, flag.Args(), os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	switch cmd, rest := args[0], args[1:]; cmd {
	case "create-admin":
		if len(rest) != 2 {
			return errUsage
		}
		password, err := promptPassword(stdin, stdout)
		if err != nil {
			return err
		}
		user, err := a.CreateAdmin(ctx, rest[0], rest[1], password)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "created administrator %s (%s)\n", user.Email, user.MyceseNumber)
		return nil

	case "export-xlsx":
		if len(rest) != 1 {
			return errUsage
		}
		wb, err := export.Collect(a.Engine, a.Aggregator, finance.LastMonths(cfg.Reports.Window), a.Clock.Now().Location())
		if err != nil {
			return err
		}
		return writeFile(rest[0], func(w io.Writer) error { return export.WriteWorkbook(w, wb) })

	case "backup":
		if len(rest) != 1 {
			return errUsage
		}
		snap, err := a.Store.Snapshot()
		if err != nil {
			return err
		}
		data, err := export.BackupJSON(snap, a.Clock.Now(), true)
		if err != nil {
			return err
		}
		return writeFile(rest[0], func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		})

	case "restore":
		if len(rest) != 1 {
			return errUsage
		}
		data, err := os.ReadFile(rest[0])
		if err != nil {
			return err
		}
		snap, err := export.ParseBackup(data)
		if err != nil {
			return err
		}
		if err := a.Store.Restore(ctx, snap); err != nil {
			return err
		}
		logger.Info("Backup restored", "users", len(snap.Users), "events", len(snap.Events), "payments", len(snap.Payments))
		return nil

	default:
		return errUsage
	}
}

// promptPassword reads the password twice without echo from a terminal, or
// a single line when stdin is not one.
func promptPassword(stdin io.Reader, stdout io.Writer) (string, error) {
	f, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	fmt.Fprint(stdout, "Password: ")
	first, err := readPassword(int(f.Fd()))
	fmt.Fprintln(stdout)
	if err != nil {
		return "", err
	}
	fmt.Fprint(stdout, "Repeat password: ")
	second, err := readPassword(int(f.Fd()))
	fmt.Fprintln(stdout)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
