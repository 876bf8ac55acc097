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
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/danielhkuo/quickly-tally/ballots"
	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/methods"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/receipt"
	"github.com/danielhkuo/quickly-tally/report"
	"github.com/danielhkuo/quickly-tally/tally"
)

func main() {
	// Cancel store queries on Ctrl-C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, interactive); err != nil {
		slog.Error("quickly-tally failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// run executes one command. Reports go to stdout, logs to stderr.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, interactive bool) error {
	in := bufio.NewReader(stdin)

	if len(args) > 0 && args[0] == "verify" {
		return runVerify(args[1:], in, stdout, interactive)
	}

	cfg, err := cliparse.ParseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}
	setupLogging(cfg.LogLevel)

	if err := methods.Validate(cfg.Method, cfg.DuelMode()); err != nil {
		return err
	}

	if cfg.NeedsCandidates() {
		if !interactive {
			return cliparse.ErrCandidatesRequired
		}
		n, err := promptCandidates(in, stdout)
		if err != nil {
			return err
		}
		cfg.Candidates = n
	}

	input, err := loadInput(ctx, cfg)
	if err != nil {
		return err
	}

	r, err := methods.Run(cfg.Method, input)
	if err != nil {
		return err
	}

	if cfg.OutputFile != "" {
		if err := report.WriteJSONFile(cfg.OutputFile, r); err != nil {
			return err
		}
		slog.Info("report written", "path", cfg.OutputFile, "run_id", r.RunID)
	}

	if cfg.Format == cliparse.FormatJSON {
		return report.WriteJSON(stdout, r)
	}
	return report.WriteText(stdout, r)
}

func setupLogging(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadInput reads ballots from a CSV file, a duel file or the ballot store
func loadInput(ctx context.Context, cfg cliparse.Config) (methods.Input, error) {
	switch {
	case cfg.DuelFile != "":
		d, err := ballots.ReadDuelFile(cfg.DuelFile, cfg.Candidates)
		if err != nil {
			return methods.Input{}, err
		}
		slog.Info("duel tally loaded", "path", cfg.DuelFile, "candidates", d.Size())
		return methods.Input{Source: cfg.DuelFile, Duel: d}, nil

	case cfg.ElectionID != "":
		store, err := openStore(ctx, cfg)
		if err != nil {
			return methods.Input{}, err
		}
		defer store.Close()

		b, err := store.LoadBallots(ctx, cfg.ElectionID)
		if err != nil {
			return methods.Input{}, err
		}
		slog.Info("ballots loaded", "election_id", cfg.ElectionID,
			"candidates", b.NumCandidates(), "ballots", b.NumBallots())
		return methods.Input{Source: "election " + cfg.ElectionID, Ballots: b}, nil
	}

	opts := ballots.Options{Candidates: cfg.Candidates}
	if cfg.Method == models.MethodJudgement {
		opts.MaxValue = tally.WorstGrade
	}
	b, err := ballots.ReadFile(cfg.InputFile, opts)
	if err != nil {
		return methods.Input{}, err
	}
	slog.Info("ballots loaded", "path", cfg.InputFile,
		"candidates", b.NumCandidates(), "ballots", b.NumBallots())

	if cfg.ImportName != "" {
		store, err := openStore(ctx, cfg)
		if err != nil {
			return methods.Input{}, err
		}
		defer store.Close()

		id, err := store.ImportBallots(ctx, cfg.ImportName, b)
		if err != nil {
			return methods.Input{}, err
		}
		slog.Info("ballots imported", "election", cfg.ImportName, "election_id", id)
	}

	return methods.Input{Source: cfg.InputFile, Ballots: b}, nil
}

func openStore(ctx context.Context, cfg cliparse.Config) (*db.Store, error) {
	store, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := store.CreateSchema(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("schema creation failed: %w", err)
	}
	return store, nil
}

func promptCandidates(in *bufio.Reader, out io.Writer) (int, error) {
	s, err := prompt(in, out, "Number of candidates: ")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid candidate count %q", s)
	}
	return n, nil
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.TrimSuffix(label, ": "), err)
	}
	return strings.TrimSpace(line), nil
}

// runVerify looks up a voter's receipt in a published ballot file
func runVerify(args []string, in *bufio.Reader, stdout io.Writer, interactive bool) error {
	cfg, err := cliparse.ParseVerifyFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}

	if missing := cfg.Missing(); len(missing) > 0 {
		if !interactive {
			return fmt.Errorf("missing %s (use -key, -last and -first)", strings.Join(missing, ", "))
		}
		fields := map[string]*string{"key": &cfg.Key, "last": &cfg.LastName, "first": &cfg.FirstName}
		labels := map[string]string{"key": "Your key: ", "last": "Your last name: ", "first": "Your first name: "}
		for _, m := range missing {
			v, err := prompt(in, stdout, labels[m])
			if err != nil {
				return err
			}
			*fields[m] = v
		}
	}

	hash := receipt.Hash(cfg.Key, cfg.LastName, cfg.FirstName)
	slog.Debug("receipt hash computed", "hash", hash)

	f, err := os.Open(cfg.InputFile)
	if err != nil {
		return fmt.Errorf("failed to open receipt file: %w", err)
	}
	defer f.Close()

	r, err := receipt.Find(f, hash)
	if errors.Is(err, receipt.ErrNotFound) {
		fmt.Fprintf(stdout, "Hash: %s\nVote not found\n", hash)
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Hash: %s\nVote found on line %d\n", hash, r.Line)
	for _, field := range r.Fields {
		fmt.Fprintf(stdout, "  %s: %s\n", field.Header, field.Value)
	}
	return nil
}
