package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eringen/ezoterika/content"
)

var (
	parseTitle   string
	parsePreview string
	parseVisible bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse stored content into JSON blocks",
	Long: `Read stored article content from stdin and print its blocks as JSON.
With --visible the leading block that restates --title and --preview is
left out, as on the article page.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		blocks := content.Parse(string(in))
		if parseVisible {
			blocks = content.Visible(blocks, parseTitle, parsePreview)
		}
		if blocks == nil {
			blocks = []content.Block{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(blocks)
	},
}

var serializeCmd = &cobra.Command{
	Use:   "serialize",
	Short: "Serialize JSON blocks into stored content",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var blocks []content.Block
		if err := json.NewDecoder(cmd.InOrStdin()).Decode(&blocks); err != nil {
			return fmt.Errorf("decode blocks: %w", err)
		}
		for i := range blocks {
			blocks[i].Kind = content.ParseKind(string(blocks[i].Kind))
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), content.Serialize(blocks))
		return err
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseTitle, "title", "", "Post title used by --visible")
	parseCmd.Flags().StringVar(&parsePreview, "preview", "", "Post preview text used by --visible")
	parseCmd.Flags().BoolVar(&parseVisible, "visible", false, "Drop a leading block that repeats the post header")
	rootCmd.AddCommand(parseCmd, serializeCmd)
}
