package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/endeavored/seatwatch/internal/pkg/extractor"
	"github.com/endeavored/seatwatch/internal/pkg/helpers"
	"github.com/endeavored/seatwatch/internal/pkg/requests"
	"github.com/spf13/cobra"
)

type checkFlags struct {
	url       string
	file      string
	threshold int
	label     string
}

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	flags := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check [--url <page> | --file <page.html>]",
		Short: "Fetches a class page once and prints its open seats.",
		RunE: func(cmd *cobra.Command, args []string) error {
			markup, err := flags.markup()
			if err != nil {
				return err
			}
			label := flags.label
			if label == "" {
				label, _ = helpers.GetSectionLabel(markup)
			}
			e, err := extractor.New(extractor.Options{Threshold: flags.threshold, Label: label})
			if err != nil {
				return err
			}
			verdict, err := e.ExtractVerdict(markup)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), verdict.Message)
			fmt.Fprintf(cmd.OutOrStdout(), "available: %t (threshold %d)\n", verdict.IsAvailable, verdict.Threshold)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.url, "url", "", "Class page to fetch.")
	cmd.Flags().StringVar(&flags.file, "file", "", "Read a saved class page instead of fetching.")
	cmd.Flags().IntVar(&flags.threshold, "threshold", extractor.DefaultThreshold, "Open seats needed before the section counts as available.")
	cmd.Flags().StringVar(&flags.label, "label", "", "Section name used in the message. Read from the page when empty.")
	cmd.MarkFlagsMutuallyExclusive("url", "file")
	return cmd
}

func (f *checkFlags) markup() (string, error) {
	switch {
	case f.file != "":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case f.url != "":
		body, err := requests.NewClient(time.Minute).Get(f.url)
		if err != nil {
			return "", err
		}
		return string(body), nil
	default:
		return "", errors.New("one of --url or --file is required")
	}
}
