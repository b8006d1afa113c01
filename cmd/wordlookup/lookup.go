package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/k3a/html2text"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/wordlookup/internal/assets"
	"github.com/at-ishikawa/wordlookup/internal/dictionary"
	"github.com/at-ishikawa/wordlookup/internal/lookup"
)

type Format string

func (f *Format) Set(val string) error {
	for _, format := range allFormats {
		if val == string(format) {
			*f = format
			return nil
		}
	}
	return fmt.Errorf("invalid format: %s", val)
}

func (f Format) String() string {
	return string(f)
}

func (f *Format) Type() string {
	return "Format"
}

const (
	FormatText  Format = "text"
	FormatHTML  Format = "html"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

var (
	_          pflag.Value = (*Format)(nil)
	allFormats             = []Format{FormatText, FormatHTML, FormatTable, FormatYAML}
)

func newLookupCommand() *cobra.Command {
	format := FormatText
	command := &cobra.Command{
		Use:   "lookup WORD...",
		Short: "Look up words and print their definitions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			renderer, err := assets.NewRenderer(cfg.Templates.Directory)
			if err != nil {
				return fmt.Errorf("assets.NewRenderer > %w", err)
			}
			controller := lookup.NewController(
				lookup.NewPage("cli"),
				newDictionaryClient(cfg),
				renderer,
				lookup.WithHistoryOnFailure(cfg.Lookup.HistoryOnFailure),
			)

			out := cmd.OutOrStdout()
			var failed []string
			for _, word := range args {
				outcome := controller.Search(cmd.Context(), word)
				if outcome.Skipped() {
					continue
				}
				if err := printOutcome(out, format, outcome); err != nil {
					return fmt.Errorf("printOutcome > %w", err)
				}
				if outcome.Err != nil {
					failed = append(failed, outcome.Word)
				}
			}
			if len(failed) > 0 {
				return fmt.Errorf("failed to look up %s", strings.Join(failed, ", "))
			}
			return nil
		},
	}
	command.Flags().Var(&format, "format", fmt.Sprintf("Output format. Possible values are %v", allFormats))
	return command
}

type lookupDocument struct {
	Word    string             `yaml:"word"`
	Entries []dictionary.Entry `yaml:"entries,omitempty"`
	Error   string             `yaml:"error,omitempty"`
	Kind    string             `yaml:"kind,omitempty"`
}

func printOutcome(w io.Writer, format Format, outcome lookup.LookupOutcome) error {
	switch format {
	case FormatHTML:
		_, err := fmt.Fprintln(w, outcome.Fragment)
		return err
	case FormatTable:
		return printTable(w, outcome)
	case FormatYAML:
		document := lookupDocument{
			Word:    outcome.Word,
			Entries: outcome.Entries,
		}
		if outcome.Err != nil {
			document.Error = outcome.Err.Error()
			document.Kind = outcome.Kind.String()
		}
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode([]lookupDocument{document}); err != nil {
			return fmt.Errorf("encoder.Encode > %w", err)
		}
		return encoder.Close()
	case FormatText:
		fallthrough
	default:
		heading := color.New(color.Bold, color.FgCyan)
		if _, err := heading.Fprintln(w, outcome.Word); err != nil {
			return err
		}
		text := html2text.HTML2TextWithOptions(string(outcome.Fragment), html2text.WithUnixLineBreaks())
		_, err := fmt.Fprintln(w, text)
		return err
	}
}

func printTable(w io.Writer, outcome lookup.LookupOutcome) error {
	tbl := table.New("Word", "Part of speech", "Definitions").
		WithWriter(w).
		WithHeaderFormatter(color.New(color.Bold, color.Underline).SprintfFunc())
	if outcome.Err != nil {
		tbl.AddRow(outcome.Word, "-", outcome.Kind.String())
		tbl.Print()
		return nil
	}
	for _, card := range assets.NewCards(outcome.Entries) {
		tbl.AddRow(card.Word, card.PartOfSpeech, len(card.Definitions))
	}
	tbl.Print()
	return nil
}
