// Command receipt-parse parses the OCR text of a Publix receipt and prints the
// resulting document as JSON.
//
//	receipt-parse [--compact] [--strict] FILE
//
// With no FILE, or FILE "-", the text is read from standard input.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/ybae45/chopchop/internal/parsing"
)

func main() {
	fs := ff.NewFlagSet("receipt-parse")
	var (
		compact = fs.BoolLong("compact", "Print JSON on a single line")
		strict  = fs.BoolLong("strict", "Exit non-zero when the receipt has no transaction datetime")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("RECEIPT_PARSE")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(fs.GetArgs(), os.Stdin, os.Stdout, *compact, *strict); err != nil {
		slog.Error("Failed to parse receipt", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer, compact, strict bool) error {
	in := stdin
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	text, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	doc, parseErr := parsing.NewParser().Parse(string(text))
	if parseErr != nil && !errors.Is(parseErr, parsing.ErrMissingDateTime) {
		return parseErr
	}
	for _, d := range doc.Diagnostics {
		slog.Warn("Parse diagnostic", "diagnostic", d)
	}

	enc := json.NewEncoder(stdout)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	if parseErr != nil {
		if strict {
			return parseErr
		}
		slog.Warn("Receipt has no transaction datetime; transaction omitted")
	}
	return nil
}
