package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordlookup/internal/dictionary"
	"github.com/at-ishikawa/wordlookup/internal/lookup"
)

func newWordOfTheDayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "word-of-the-day",
		Short: "Pick a random word and show its first definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			words := dictionary.NewRandomWordClient(cfg.RandomWord.BaseURL, cfg.Dictionary.Timeout)
			defer func() {
				_ = words.Close()
			}()

			wordOfTheDay := lookup.NewWordOfTheDay(words, newDictionaryClient(cfg), cfg.WordOfTheDay.Attempts)
			result := wordOfTheDay.Fetch(cmd.Context())
			if result.Err != nil {
				return fmt.Errorf("wordOfTheDay.Fetch > %w", result.Err)
			}
			return printFeatured(cmd.OutOrStdout(), result.Featured)
		},
	}
}

func printFeatured(w io.Writer, featured lookup.Featured) error {
	bold := color.New(color.Bold)
	if _, err := bold.Fprintln(w, featured.Title); err != nil {
		return err
	}
	lines := []string{
		featured.Pronunciation,
		featured.PartOfSpeech,
		featured.Definition,
		featured.Example,
	}
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
