package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"idea-analyzer/internal/analysis"
	"idea-analyzer/internal/analyzer/httpclient"
	"idea-analyzer/internal/ideas"
	"idea-analyzer/internal/submission"
)

type analyzeFlags struct {
	text    string
	file    string
	baseURL string
	timeout time.Duration
	format  string
}

func (f *analyzeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.text, "text", "", "idea description to analyze")
	cmd.Flags().StringVar(&f.file, "file", "", "PDF business plan or audio recording to analyze")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "analysis service URL (default: ANALYSIS_BASE_URL)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "request timeout (default: ANALYSIS_TIMEOUT)")
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	flags := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an idea and print the normalized result",
		Long: `Analyze sends a text description or a file to the analysis service
and prints the normalized result. Fields the service left out are
listed on stderr.

Example:
  ideactl analyze --text "Solar kiosks for rural markets"
  ideactl analyze --file plan.pdf --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, defaulted, err := runAnalysis(cmd.Context(), opts, flags)
			if err != nil {
				return err
			}
			if len(defaulted) > 0 {
				fmt.Fprintf(opts.errOut, "defaulted fields: %s\n", strings.Join(defaulted, ", "))
			}
			return printResult(opts, flags.format, result)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.format, "format", "o", "yaml", "output format (yaml, json)")
	return cmd
}

// runAnalysis validates the candidate, calls the service and normalizes the answer.
func runAnalysis(ctx context.Context, opts *options, flags *analyzeFlags) (analysis.AnalysisResult, []string, error) {
	candidate, err := candidateFromFlags(flags)
	if err != nil {
		return analysis.AnalysisResult{}, nil, err
	}
	input, err := submission.Validate(candidate)
	if err != nil {
		return analysis.AnalysisResult{}, nil, err
	}

	cfg := opts.config()
	baseURL := flags.baseURL
	if baseURL == "" {
		baseURL = cfg.AnalysisBaseURL
	}
	timeout := flags.timeout
	if timeout <= 0 {
		timeout = cfg.AnalysisTimeout
	}
	client, err := httpclient.New(httpclient.Options{
		BaseURL:          baseURL,
		Timeout:          timeout,
		MaxResponseBytes: cfg.AnalysisMaxResponseBytes,
	})
	if err != nil {
		return analysis.AnalysisResult{}, nil, err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	opts.logf("analyzing %s input %q via %s", input.Kind, input.Name(), baseURL)
	raw, err := client.Analyze(ctx, input)
	if err != nil {
		return analysis.AnalysisResult{}, nil, &ideas.SubmitError{Cause: err}
	}
	result, prov := analysis.NormalizeTraced(raw)
	return result, prov.Defaulted(), nil
}

func candidateFromFlags(flags *analyzeFlags) (submission.Candidate, error) {
	candidate := submission.Candidate{Text: flags.text}
	if flags.file == "" {
		return candidate, nil
	}
	data, err := os.ReadFile(flags.file)
	if err != nil {
		return submission.Candidate{}, fmt.Errorf("read %s: %w", flags.file, err)
	}
	file := &submission.File{
		Name:     filepath.Base(flags.file),
		MIMEType: mimeFromExt(flags.file),
		Data:     data,
	}
	if strings.HasPrefix(file.MIMEType, "audio/") {
		candidate.Audio = file
	} else {
		candidate.Document = file
	}
	return candidate, nil
}

func mimeFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	case ".ogg":
		return "audio/ogg"
	case ".webm":
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}

func printResult(opts *options, format string, v any) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(opts.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "":
		data, err := jsonAsYAML(v)
		if err != nil {
			return err
		}
		_, err = opts.out.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}

// jsonAsYAML renders v as block YAML using its JSON field names and order.
func jsonAsYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("reparse as yaml: %w", err)
	}
	blockStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return out, nil
}

func blockStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle
	for _, c := range n.Content {
		blockStyle(c)
	}
}
