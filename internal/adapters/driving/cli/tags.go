package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

var tagsFile string

var tagsCmd = &cobra.Command{
	Use:   "tags [title]",
	Short: "Classify a PR title into topical tags",
	Long: `Runs the tag classifier on an ad hoc title and prints the resulting
tags. Useful for checking how the configured classifier mode (rules,
embedding or hybrid) would label a record.

With --file, classifies every non-empty line of the file instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTags,
}

func init() {
	tagsCmd.Flags().StringVar(&tagsFile, "file", "", "classify every line of this file")
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, args []string) error {
	if tagClassifier == nil {
		return errors.New("tag classifier not configured")
	}

	if tagsFile != "" {
		return classifyFile(cmd, tagsFile)
	}
	if len(args) == 0 {
		return errors.New("provide a title or --file")
	}

	return classifyTitle(cmd, args[0])
}

func classifyTitle(cmd *cobra.Command, title string) error {
	tags, err := tagClassifier.Classify(cmd.Context(), title, nil, domain.Sections{})
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	if len(tags) == 0 {
		cmd.Println("(no tags)")
		return nil
	}
	cmd.Println(strings.Join(tags, ", "))
	return nil
}

func classifyFile(cmd *cobra.Command, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		title := strings.TrimSpace(scanner.Text())
		if title == "" {
			continue
		}

		tags, err := tagClassifier.Classify(cmd.Context(), title, nil, domain.Sections{})
		if err != nil {
			return fmt.Errorf("classification failed for %q: %w", title, err)
		}

		label := "(no tags)"
		if len(tags) > 0 {
			label = strings.Join(tags, ", ")
		}
		cmd.Printf("%s\t%s\n", title, label)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}
