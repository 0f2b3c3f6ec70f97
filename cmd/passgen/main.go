package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
)

const (
	msgNoCharacterSets = "Select at least one character set."
	msgCopyFailed      = "Copy failed. Select and copy manually."

	meterCells = 10
)

// Config holds the parsed CLI options.
type Config struct {
	Policy       crypto.Policy
	Count        int
	Copy         bool
	ShowStrength bool
}

// Clipboard is the system clipboard as seen by the CLI.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// ParseFlags registers and parses command-line flags, returning a Config.
// It uses the provided FlagSet so that tests can call it without affecting
// the global flag state.
func ParseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	def := crypto.DefaultPolicy()
	cfg := Config{Policy: def}
	var allowAmbiguous bool

	fs.IntVar(&cfg.Policy.Length, "length", def.Length, "Password length (8-64)")
	fs.IntVar(&cfg.Policy.Length, "l", def.Length, "Password length (shorthand)")

	fs.BoolVar(&cfg.Policy.Lowercase, "lower", def.Lowercase, "Include lowercase letters")
	fs.BoolVar(&cfg.Policy.Uppercase, "upper", def.Uppercase, "Include uppercase letters")

	fs.BoolVar(&cfg.Policy.Numbers, "numbers", def.Numbers, "Include digits (0-9)")
	fs.BoolVar(&cfg.Policy.Numbers, "n", def.Numbers, "Include digits (shorthand)")

	fs.BoolVar(&cfg.Policy.Symbols, "symbols", def.Symbols, "Include special symbols")
	fs.BoolVar(&cfg.Policy.Symbols, "s", def.Symbols, "Include symbols (shorthand)")

	fs.BoolVar(&allowAmbiguous, "ambiguous", !def.ExcludeAmbiguous, "Allow look-alike characters (I, l, 1, O, 0)")
	fs.BoolVar(&cfg.Policy.Chunked, "chunks", def.Chunked, "Split passwords of 12+ characters into dash-separated groups of 4")

	fs.IntVar(&cfg.Count, "count", 1, "Number of passwords to generate")
	fs.IntVar(&cfg.Count, "c", 1, "Number of passwords (shorthand)")

	fs.BoolVar(&cfg.Copy, "copy", false, "Copy the first password, without dashes, to the clipboard")
	fs.BoolVar(&cfg.ShowStrength, "show-strength", false, "Print the strength meter even when output is not a terminal")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Policy.ExcludeAmbiguous = !allowAmbiguous
	return cfg, nil
}

// RunInteractive prompts the user for options via r and returns a Config.
// The reader/writer parameters allow testing without real stdin/stdout.
func RunInteractive(r io.Reader, w io.Writer) Config {
	scanner := bufio.NewScanner(r)
	def := crypto.DefaultPolicy()
	cfg := Config{Policy: def, Count: 1}

	fmt.Fprintln(w, "=== Password Generator (interactive mode) ===")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Password length (%d-%d) [%d]: ", crypto.MinLength, crypto.MaxLength, def.Length)
	if scanner.Scan() {
		if v, err := strconv.Atoi(strings.TrimSpace(scanner.Text())); err == nil && v > 0 {
			cfg.Policy.Length = v
		}
	}

	prompts := []struct {
		label string
		dst   *bool
	}{
		{"Include lowercase letters?", &cfg.Policy.Lowercase},
		{"Include uppercase letters?", &cfg.Policy.Uppercase},
		{"Include digits (0-9)?", &cfg.Policy.Numbers},
		{"Include special symbols?", &cfg.Policy.Symbols},
		{"Avoid ambiguous characters?", &cfg.Policy.ExcludeAmbiguous},
		{"Readable chunks?", &cfg.Policy.Chunked},
	}
	for _, p := range prompts {
		hint := "[y/N]"
		if *p.dst {
			hint = "[Y/n]"
		}
		fmt.Fprintf(w, "%s %s: ", p.label, hint)
		if scanner.Scan() {
			*p.dst = parseYesNo(scanner.Text(), *p.dst)
		}
	}

	fmt.Fprintf(w, "How many passwords? [1]: ")
	if scanner.Scan() {
		if v, err := strconv.Atoi(strings.TrimSpace(scanner.Text())); err == nil && v > 0 {
			cfg.Count = v
		}
	}

	fmt.Fprintln(w)
	return cfg
}

// parseYesNo returns true for "y"/"yes" and false for "n"/"no"
// (case-insensitive). Anything else keeps the default.
func parseYesNo(s string, fallback bool) bool {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return fallback
	}
}

// Run generates passwords for cfg.
func Run(svc *service.GeneratorService, cfg Config) ([]model.PasswordResponse, error) {
	p := cfg.Policy
	resp, err := svc.Generate(model.GenerateRequest{
		Length:           p.Length,
		Lowercase:        &p.Lowercase,
		Uppercase:        &p.Uppercase,
		Numbers:          &p.Numbers,
		Symbols:          &p.Symbols,
		ExcludeAmbiguous: &p.ExcludeAmbiguous,
		Chunked:          &p.Chunked,
		Count:            cfg.Count,
	})
	if err != nil {
		return nil, err
	}
	return resp.Passwords, nil
}

// meterLine renders a strength bar such as "[#######...] Good 6.9".
func meterLine(s model.StrengthResponse) string {
	filled := (s.Meter*meterCells + 50) / 100
	filled = max(0, min(meterCells, filled))
	bar := strings.Repeat("#", filled) + strings.Repeat(".", meterCells-filled)
	return fmt.Sprintf("[%s] %s %.1f", bar, s.Label, s.Score)
}

// Print writes one password per line, followed by its meter when withMeter is set.
func Print(w io.Writer, passwords []model.PasswordResponse, withMeter bool) {
	for _, pw := range passwords {
		if withMeter {
			fmt.Fprintf(w, "%s  %s\n", pw.Password, meterLine(pw.Strength))
			continue
		}
		fmt.Fprintln(w, pw.Password)
	}
}

// run is main without the process-global state and returns the exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, tty bool, cb Clipboard) int {
	var cfg Config
	if len(args) == 0 {
		cfg = RunInteractive(stdin, stdout)
	} else {
		fs := flag.NewFlagSet("passgen", flag.ContinueOnError)
		fs.SetOutput(stderr)
		var err error
		if cfg, err = ParseFlags(fs, args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 0
			}
			return 2
		}
	}

	passwords, err := Run(service.NewGeneratorService(), cfg)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoCharacterTypes):
			fmt.Fprintln(stderr, msgNoCharacterSets)
		case service.IsValidationError(err):
			fmt.Fprintf(stderr, "error: %v\n", err)
		default:
			slog.Error("password generation failed", "error", err)
		}
		return 1
	}

	Print(stdout, passwords, tty || cfg.ShowStrength)

	if cfg.Copy && len(passwords) > 0 {
		if err := cb.WriteAll(passwords[0].Raw); err != nil {
			slog.Debug("clipboard write failed", "error", err)
			fmt.Fprintln(stderr, msgCopyFailed)
		} else if tty {
			fmt.Fprintln(stderr, "Copied to clipboard.")
		}
	}

	return 0
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, tty, systemClipboard{}))
}
