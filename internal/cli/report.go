package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"idea-analyzer/internal/ideas"
	"idea-analyzer/internal/report"
	"idea-analyzer/internal/submission"
)

func newReportCmd(opts *options) *cobra.Command {
	flags := &analyzeFlags{}
	var (
		ideaPath string
		title    string
		outPath  string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the PDF report for an idea",
		Long: `Report renders the downloadable PDF report. The idea is either read
from a saved JSON file (as returned by GET /api/v1/ideas/:id) or
analyzed on the spot from --text or --file.

Example:
  ideactl report --idea idea.json
  ideactl report --text "Mobile bike repair" --title "Fix Cycle" --out fix.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var idea ideas.SubmittedIdea
			if ideaPath != "" {
				data, err := os.ReadFile(ideaPath)
				if err != nil {
					return fmt.Errorf("read %s: %w", ideaPath, err)
				}
				if err := json.Unmarshal(data, &idea); err != nil {
					return fmt.Errorf("decode %s: %w", ideaPath, err)
				}
				if !idea.Band.Valid() {
					idea.Band = ideas.BandFor(idea.Result)
				}
			} else {
				result, _, err := runAnalysis(cmd.Context(), opts, flags)
				if err != nil {
					return err
				}
				candidate, _ := candidateFromFlags(flags)
				input, _ := submission.Validate(candidate)
				idea = ideas.SubmittedIdea{
					ID:          uuid.NewString(),
					Title:       ideas.DeriveTitle(title, input),
					InputKind:   input.Kind,
					SubmittedAt: time.Now().UTC(),
					Band:        ideas.BandFor(&result),
					Result:      &result,
				}
			}

			data, err := report.Render(idea)
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = report.Filename(idea.Title)
			}
			if dir := filepath.Dir(outPath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(opts.out, "OK: wrote %s (%d bytes)\n", outPath, len(data))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&ideaPath, "idea", "", "saved idea JSON to render instead of analyzing")
	cmd.Flags().StringVar(&title, "title", "", "idea title (default: derived from the input)")
	cmd.Flags().StringVar(&outPath, "out", "", "output path (default: derived from the title)")
	return cmd
}
