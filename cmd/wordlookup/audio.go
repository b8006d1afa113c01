package main

import (
	"errors"
	"fmt"
	"net/url"
	"path"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordlookup/internal/dictionary"
	"github.com/at-ishikawa/wordlookup/internal/lookup"
)

var errNoPronunciation = errors.New("no pronunciation with audio")

func newAudioCommand() *cobra.Command {
	var output string
	command := &cobra.Command{
		Use:   "audio WORD",
		Short: "Download the pronunciation of a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := newDictionaryClient(cfg)

			word := lookup.NormalizeQuery(args[0])
			entries, err := client.Lookup(cmd.Context(), word)
			if err != nil {
				return fmt.Errorf("client.Lookup > %w", err)
			}
			phonetic, ok := firstPlayable(entries)
			if !ok {
				return fmt.Errorf("%s: %w", word, errNoPronunciation)
			}

			if output == "" {
				output, err = audioFileName(phonetic.Audio)
				if err != nil {
					return err
				}
			}
			if err := client.DownloadAudio(cmd.Context(), phonetic.Audio, output); err != nil {
				return fmt.Errorf("client.DownloadAudio > %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s > %s\n", phonetic.Text, phonetic.Audio, output)
			return err
		},
	}
	command.Flags().StringVarP(&output, "output", "o", "", "output file path. Defaults to the file name of the audio URL")
	return command
}

func firstPlayable(entries []dictionary.Entry) (dictionary.Phonetic, bool) {
	for _, entry := range entries {
		if phonetic, ok := entry.FirstPlayable(); ok {
			return phonetic, true
		}
	}
	return dictionary.Phonetic{}, false
}

func audioFileName(audioURL string) (string, error) {
	u, err := url.Parse(audioURL)
	if err != nil {
		return "", fmt.Errorf("url.Parse > %w", err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("no file name in %s", audioURL)
	}
	return name, nil
}
