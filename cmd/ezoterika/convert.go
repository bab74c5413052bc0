package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/ezoterika/richtext"
)

var convertTo string

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert rich text between editor HTML and Markdown",
	Long: `Read rich text from stdin and write it to stdout. With --to markdown
the input is editor HTML; with --to html it is the Markdown dialect.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		var out string
		switch strings.ToLower(convertTo) {
		case "markdown", "md":
			out = richtext.ToMarkdown(string(in))
		case "html":
			out = richtext.ToHTML(string(in))
		default:
			return fmt.Errorf("unknown target %q: use markdown or html", convertTo)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "markdown", "Target format: markdown or html")
	rootCmd.AddCommand(convertCmd)
}
