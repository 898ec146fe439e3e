// Package cmd — convert command.
// Orchestrates the export pipeline: read markdown → resolve formatting →
// render → write. Handles flag validation and renderer selection.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/docpipe/core"
	"github.com/gaurav-prasanna/docpipe/core/mdast"
	"github.com/gaurav-prasanna/docpipe/core/meta"
	"github.com/gaurav-prasanna/docpipe/core/output"
	"github.com/gaurav-prasanna/docpipe/core/render"
)

var (
	flagPDF        bool
	flagDocx       bool
	flagXlsx       bool
	flagMarkdown   bool
	flagText       bool
	flagJSON       bool
	flagFormatting string
	flagOutputDir  string
	flagTitle      string
	flagAuthor     string
	flagSubject    string
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.md>",
	Short: "Convert a Markdown file to the specified output format",
	Long: `Convert reads a Markdown file and renders it as PDF, DOCX, XLSX, plain
text, structured JSON, or Markdown with front matter.

Examples:
  docpipe convert notes.md --pdf
  docpipe convert notes.md --docx --output_dir ./out
  docpipe convert report.md --pdf --formatting report.formatting.json
  docpipe convert notes.md --markdown --title "Notes" --author "A. Writer"`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	// Output format flags (mutually exclusive).
	convertCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")
	convertCmd.Flags().BoolVar(&flagDocx, "docx", false, "Output DOCX")
	convertCmd.Flags().BoolVar(&flagXlsx, "xlsx", false, "Output XLSX")
	convertCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown with front matter")
	convertCmd.Flags().BoolVar(&flagText, "text", false, "Output plain text")
	convertCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")

	convertCmd.Flags().StringVar(&flagFormatting, "formatting", "", "Formatting sidecar JSON from a previous import")
	convertCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	convertCmd.Flags().StringVar(&flagTitle, "title", "", "Document title")
	convertCmd.Flags().StringVar(&flagAuthor, "author", "", "Document author")
	convertCmd.Flags().StringVar(&flagSubject, "subject", "", "Document subject (default: content summary)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	format, err := selectedFormat()
	if err != nil {
		return err
	}

	source, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}
	markdown := string(source)

	formatting, err := resolveFormatting(input)
	if err != nil {
		return err
	}

	renderer, err := selectRenderer(format, formatting, filepath.Dir(input))
	if err != nil {
		return err
	}

	subject := flagSubject
	if subject == "" {
		subject = subjectLine(markdown, formatting.ParamsFor(format).Styles)
	}

	docMeta := core.DocumentMetadata{
		Title:     flagTitle,
		Author:    flagAuthor,
		Subject:   subject,
		CreatedAt: time.Now().UTC(),
		Generator: "docpipe",
	}

	log.Info("converting",
		zap.String("input", input),
		zap.String("format", string(format)))

	data, err := renderer.Render(markdown, docMeta)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	path, err := writer.Write(input, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)
	return nil
}

// subjectLine summarizes the document content for the metadata byline,
// e.g. "3 sections, 1 table, 2 images". Empty when nothing is countable.
func subjectLine(markdown string, styles mdast.StyleSet) string {
	doc, err := mdast.Parse(markdown, styles)
	if err != nil {
		return ""
	}
	s := doc.Structure

	var parts []string
	count := func(n int, singular, plural string) {
		switch {
		case n == 1:
			parts = append(parts, "1 "+singular)
		case n > 1:
			parts = append(parts, fmt.Sprintf("%d %s", n, plural))
		}
	}
	count(len(s.Headings), "section", "sections")
	count(s.Tables, "table", "tables")
	count(s.Lists, "list", "lists")
	count(s.CodeBlocks, "code block", "code blocks")
	count(s.Images, "image", "images")
	return strings.Join(parts, ", ")
}

// resolveFormatting layers the three formatting sources: per-format
// defaults, then the config file, then the --formatting sidecar. A sidecar
// named <input>.formatting.json is picked up automatically.
func resolveFormatting(input string) (meta.Formatting, error) {
	f, err := configFormatting()
	if err != nil {
		return meta.Formatting{}, err
	}

	sidecar := flagFormatting
	if sidecar == "" {
		auto := strings.TrimSuffix(input, filepath.Ext(input)) + ".formatting.json"
		if _, err := os.Stat(auto); err == nil {
			sidecar = auto
		}
	}
	if sidecar == "" {
		return f, nil
	}

	data, err := os.ReadFile(sidecar)
	if err != nil {
		return meta.Formatting{}, fmt.Errorf("reading formatting sidecar: %w", err)
	}
	var side meta.Formatting
	if err := json.Unmarshal(data, &side); err != nil {
		return meta.Formatting{}, fmt.Errorf("decoding formatting sidecar %s: %w", sidecar, err)
	}
	log.Debug("applied formatting sidecar", zap.String("file", sidecar))
	return f.Merge(side), nil
}

// selectedFormat checks that exactly one output format flag is set.
func selectedFormat() (core.Format, error) {
	var picked []core.Format
	for _, c := range []struct {
		set    bool
		format core.Format
	}{
		{flagPDF, core.FormatPDF},
		{flagDocx, core.FormatDocx},
		{flagXlsx, core.FormatXlsx},
		{flagMarkdown, core.FormatMarkdown},
		{flagText, core.FormatText},
		{flagJSON, core.FormatJSON},
	} {
		if c.set {
			picked = append(picked, c.format)
		}
	}
	if len(picked) == 0 {
		return "", fmt.Errorf("exactly one output format is required: --pdf, --docx, --xlsx, --markdown, --text, or --json")
	}
	if len(picked) > 1 {
		return "", fmt.Errorf("only one output format allowed per run (got %d)", len(picked))
	}
	return picked[0], nil
}

// selectRenderer creates the appropriate Renderer. Image references in the
// source resolve relative to the input file's directory.
func selectRenderer(format core.Format, f meta.Formatting, baseDir string) (core.Renderer, error) {
	loader := fileImageLoader(baseDir)
	switch format {
	case core.FormatPDF:
		return render.NewPDFRenderer(f.ParamsFor(format), loader), nil
	case core.FormatDocx:
		return render.NewDocxRenderer(f.ParamsFor(format), loader), nil
	case core.FormatXlsx:
		return render.NewXlsxRenderer(f.ParamsFor(format)), nil
	case core.FormatMarkdown:
		return render.NewMarkdownRenderer(), nil
	case core.FormatText:
		return render.NewTextRenderer(), nil
	case core.FormatJSON:
		return render.NewJSONRenderer(), nil
	}
	return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, format)
}

// fileImageLoader reads local image references relative to baseDir.
// Absolute paths pass through; remote URLs are rejected so a render never
// performs network I/O.
func fileImageLoader(baseDir string) core.ImageLoader {
	return func(src string) ([]byte, error) {
		if strings.Contains(src, "://") {
			return nil, fmt.Errorf("remote image %s not fetched during render", src)
		}
		if !filepath.IsAbs(src) {
			src = filepath.Join(baseDir, src)
		}
		return os.ReadFile(src)
	}
}
