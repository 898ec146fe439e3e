// Package cmd — import command.
// Converts a DOCX or HTML document (local file or URL) into canonical
// Markdown plus a formatting sidecar, so a later convert can reproduce the
// source's look.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/docpipe/core"
	"github.com/gaurav-prasanna/docpipe/core/fetch"
	"github.com/gaurav-prasanna/docpipe/core/importer"
	"github.com/gaurav-prasanna/docpipe/core/output"
)

var flagImportOutputDir string

var importCmd = &cobra.Command{
	Use:   "import <input.docx|input.html|url>",
	Short: "Import a document into Markdown plus a formatting sidecar",
	Long: `Import converts a DOCX or HTML document into <name>.md and
<name>.formatting.json. URLs are fetched and imported as HTML.

Examples:
  docpipe import report.docx
  docpipe import page.html --output_dir ./out
  docpipe import https://example.com/docs/intro`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&flagImportOutputDir, "output_dir", "", "Output directory (default: current directory)")
}

func runImport(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx := context.Background()

	data, imp, err := loadSource(ctx, input)
	if err != nil {
		return err
	}

	res, err := imp.Import(ctx, data)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	log.Info("imported",
		zap.String("input", input),
		zap.String("title", res.Title),
		zap.Int("markdown_bytes", len(res.Markdown)))

	writer, err := output.New(flagImportOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	mdPath, err := writer.Write(input, []byte(res.Markdown), ".md")
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", mdPath)

	sidecar, err := json.MarshalIndent(res.Formatting, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding formatting sidecar: %w", err)
	}
	sidePath, err := writer.WriteSidecar(input, sidecar, ".formatting.json")
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", sidePath)
	return nil
}

// loadSource reads the input bytes and picks the importer: URLs fetch as
// HTML, local files dispatch on extension.
func loadSource(ctx context.Context, input string) ([]byte, core.Importer, error) {
	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		res, err := fetch.New().Fetch(ctx, input)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch: %w", err)
		}
		return []byte(res.Body), importer.NewHTMLImporter(), nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", input, err)
	}
	switch strings.ToLower(filepath.Ext(input)) {
	case ".docx":
		return data, importer.NewDocxImporter(), nil
	case ".html", ".htm":
		return data, importer.NewHTMLImporter(), nil
	}
	return nil, nil, fmt.Errorf("%w: cannot import %s (expected .docx, .html, or a URL)",
		core.ErrUnsupportedFormat, input)
}
