// Command pdflayout is the CLI front-end spec.md §6 declares "out of
// core" but specifies the surface of: flags select ExtractionUnits,
// SemanticRoles, serialization format, and input/output paths, with
// exit codes 0 success, 1 usage error, 2 parse error, 3 I/O error, 4
// cancelled.
//
// Grounded directly on the teacher's example/main.go: the same
// webassembly.Init/pool.GetInstance/pool.Close pdfium lifecycle, the
// same github.com/urfave/cli/v3 Command/Flag shape, extended with
// --units/--roles/--format.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/pdflayout/pdflayout/config"
	"github.com/pdflayout/pdflayout/observer"
	"github.com/pdflayout/pdflayout/pipeline"
)

// Exit codes, per spec.md §6.
const (
	exitSuccess    = 0
	exitUsageError = 1
	exitParseError = 2
	exitIOError    = 3
	exitCancelled  = 4
)

func main() {
	cmd := &cli.Command{
		Name:  "pdflayout",
		Usage: "Recover the logical reading structure of a PDF document",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "Input PDF file path", Required: true},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path (default: stdout)"},
			&cli.IntFlag{Name: "start-page", Usage: "Start page number (0-indexed)", Value: -1},
			&cli.IntFlag{Name: "end-page", Usage: "End page number (0-indexed)", Value: -1},
			&cli.StringFlag{Name: "units", Usage: "Comma-separated ExtractionUnits: character,word,paragraph,figure,shape,page", Value: "character,word,paragraph,figure,shape,page"},
			&cli.StringFlag{Name: "roles", Usage: "Comma-separated SemanticRoles to include (default: all)"},
			&cli.StringFlag{Name: "format", Usage: "Serialization format: xml,json,txt,markdown", Value: "xml"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
	os.Exit(exitSuccess)
}

func run(_ context.Context, cmd *cli.Command) error {
	inputPath := cmd.String("input")
	outputPath := cmd.String("output")

	cfg := config.Default()
	cfg.Units = parseUnits(cmd.String("units"))
	if roles := cmd.String("roles"); roles != "" {
		cfg.Roles = parseRoles(roles)
	}
	cfg.Format = parseFormat(cmd.String("format"))

	pdfBytes, err := os.ReadFile(inputPath)
	if err != nil {
		return cliError{code: exitIOError, err: fmt.Errorf("failed to read input: %w", err)}
	}

	opts := pipeline.Options{StartPage: int(cmd.Int("start-page")), EndPage: int(cmd.Int("end-page"))}
	obs := observer.NewStdLogObserver(nil)

	out, err := pipeline.Run(pdfBytes, cfg, opts, obs)
	if err != nil {
		return cliError{code: exitCodeForPipelineError(err), err: err}
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, out, 0644); err != nil {
			return cliError{code: exitIOError, err: fmt.Errorf("failed to write output: %w", err)}
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", outputPath)
		return nil
	}
	fmt.Println(string(out))
	return nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
