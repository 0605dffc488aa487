package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cufee/botto-verify/media"
	"github.com/cufee/botto-verify/oracle"
	"github.com/cufee/botto-verify/verify"
	"github.com/spf13/cobra"
)

var checkMarker string

// checkImageCmd runs the configured oracle against a local file
var checkImageCmd = &cobra.Command{
	Use:   "check-image <file>",
	Short: "Read a screenshot with the configured oracle",
	Long: `Read a local screenshot with the configured oracle and print the extracted text.

With --marker the verification decision is printed as well, which helps when
tuning a server's marker against real screenshots.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RequireOracle(); err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		img, err := media.Sniff(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		ex, err := oracle.New(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("build oracle: %w", err)
		}
		text, err := ex.ExtractText(cmd.Context(), img.Data, img.MimeType)
		if err != nil {
			return fmt.Errorf("%s: %w", ex.Name(), err)
		}
		return printCheck(cmd.OutOrStdout(), ex.Name(), text, checkMarker)
	},
}

func printCheck(w io.Writer, oracleName, text, marker string) error {
	if _, err := fmt.Fprintf(w, "oracle: %s\n---\n%s\n---\n", oracleName, text); err != nil {
		return err
	}
	if marker == "" {
		_, err := fmt.Fprintf(w, "suggested marker: %q\n", verify.MarkerFromText(text))
		return err
	}
	verdict := "rejected"
	if verify.Decide(text, marker) {
		verdict = "verified"
	}
	_, err := fmt.Fprintf(w, "marker %q: %s\n", marker, verdict)
	return err
}
