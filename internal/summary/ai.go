package summary

import (
	"context"
	"fmt"
	"os"
	"sheetDiff/internal/compare"
	"sheetDiff/internal/logger"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Options configures the Gemini model used for summaries
type Options struct {
	Model       string
	Temperature float64
	Timeout     time.Duration
	ChunkSize   int
	// DebugDir receives a dump of every prompt and response when set
	DebugDir string
}

// Summarizer explains a comparison report in plain language
type Summarizer struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	timeout   time.Duration
	chunkSize int
	debugDir  string
}

// NewSummarizer creates a new summarizer instance
func NewSummarizer(ctx context.Context, apiKey string, opts Options) (*Summarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.0-flash"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 100
	}

	logger.Info("Initializing summarizer with Gemini API")
	logger.Debug("API key length", "length", len(apiKey))

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		logger.Error("Failed to create Gemini client", "error", err)
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	model.SetTemperature(float32(opts.Temperature))

	logger.Info("Summarizer initialized successfully", "model", opts.Model, "temperature", opts.Temperature)

	return &Summarizer{
		client:    client,
		model:     model,
		modelName: opts.Model,
		timeout:   opts.Timeout,
		chunkSize: opts.ChunkSize,
		debugDir:  opts.DebugDir,
	}, nil
}

// Close cleans up the summarizer resources
func (s *Summarizer) Close() error {
	if s.client != nil {
		logger.Debug("Closing summarizer client")
		return s.client.Close()
	}
	return nil
}

// Summarize asks the model to describe the differences in report. Reports
// without differences are answered locally.
func (s *Summarizer) Summarize(ctx context.Context, report *compare.Report) (string, error) {
	pairs := uniquePairs(report.Differences)
	if len(pairs) == 0 {
		return fmt.Sprintf("All %d sheets of %s agree on every compared cell.", len(report.DataSheets), report.File), nil
	}

	chunks := chunkDifferences(pairs, s.chunkSize)
	logger.Info("Generating summary",
		"file", report.File,
		"differences", len(pairs),
		"chunks", len(chunks))

	var parts []string
	var lastErr error
	for i, chunk := range chunks {
		prompt := buildPrompt(report, chunk, i+1, len(chunks))
		logger.Debug("AI Prompt", "chunk", i+1, "content", prompt)

		text, err := s.generate(ctx, prompt)
		saveSummaryDebug(s.debugDir, prompt, text, err)
		if err != nil {
			logger.Error("Failed to process chunk", "chunk", i+1, "error", err)
			// Continue with other chunks instead of failing completely
			lastErr = err
			continue
		}

		parts = append(parts, strings.TrimSpace(text))

		if i+1 < len(chunks) {
			logger.Debug("Waiting between chunks to avoid rate limiting", "delay", "2s")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no summary generated: %w", lastErr)
	}

	return strings.Join(parts, "\n\n"), nil
}

func (s *Summarizer) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger.Info("Sending request to Gemini API", "model", s.modelName, "timeout", s.timeout)

	type apiResult struct {
		resp *genai.GenerateContentResponse
		err  error
	}

	resultChan := make(chan apiResult, 1)
	start := time.Now()

	go func() {
		resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
		resultChan <- apiResult{resp: resp, err: err}
	}()

	select {
	case result := <-resultChan:
		if result.err != nil {
			logger.Error("Gemini API request failed", "error", result.err, "duration", time.Since(start))
			return "", fmt.Errorf("failed to generate AI response: %w", result.err)
		}
		logger.Info("Received response from Gemini API", "duration", time.Since(start))
		return extractText(result.resp)

	case <-ctx.Done():
		logger.Error("Gemini API request timed out", "timeout", s.timeout, "actual_duration", time.Since(start))
		return "", fmt.Errorf("API request timed out after %v", s.timeout)
	}
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response generated from AI")
	}

	var b strings.Builder
	for i, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		} else {
			logger.Warn("Non-text part in response", "index", i, "type", fmt.Sprintf("%T", part))
		}
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("no response generated from AI")
	}
	return b.String(), nil
}

// uniquePairs drops the mirrored half of every difference: the comparison
// visits (A, B) and (B, A) for each mismatching cell.
func uniquePairs(diffs []compare.Difference) []compare.Difference {
	type key struct {
		row, col    int
		first, last string
	}

	seen := make(map[key]bool, len(diffs))
	var out []compare.Difference
	for _, d := range diffs {
		k := key{row: d.Row, col: d.Col, first: d.Sheet, last: d.Other}
		if k.first > k.last {
			k.first, k.last = k.last, k.first
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out
}

func chunkDifferences(diffs []compare.Difference, size int) [][]compare.Difference {
	var chunks [][]compare.Difference
	for i := 0; i < len(diffs); i += size {
		end := i + size
		if end > len(diffs) {
			end = len(diffs)
		}
		chunks = append(chunks, diffs[i:end])
	}
	return chunks
}

// buildPrompt creates a prompt describing one chunk of differences
func buildPrompt(report *compare.Report, diffs []compare.Difference, chunk, total int) string {
	var b strings.Builder

	b.WriteString(`You are an expert data analyst reviewing an Excel workbook whose sheets should hold the same table.

TASK: Summarize how the sheets disagree. Group related differences, point out patterns (a shifted row, a renamed header, a column of changed numbers) and call out anything that looks like a data entry mistake.

`)
	fmt.Fprintf(&b, "WORKBOOK: %s\n", report.File)
	fmt.Fprintf(&b, "SHEETS: %s\n", strings.Join(report.DataSheets, ", "))

	if len(report.Headers) > 0 {
		headers := make([]string, len(report.Headers))
		for i, h := range report.Headers {
			headers[i] = h.String()
		}
		fmt.Fprintf(&b, "HEADER ROW: %s\n", strings.Join(headers, " | "))
	}

	if total > 1 {
		fmt.Fprintf(&b, "PART: %d of %d\n", chunk, total)
	}

	b.WriteString("\nDIFFERENCES (cell: sheet=value | other sheet=value):\n")
	for _, d := range diffs {
		fmt.Fprintf(&b, "- %s: %s=%s | %s=%s\n", d.Cell(), d.Sheet, quote(d.Value.String()), d.Other, quote(d.OtherValue.String()))
	}

	b.WriteString(`
INSTRUCTIONS:
1. Refer to cells by their A1 reference
2. Keep the summary under 200 words
3. Do not invent values that are not listed above

Now provide the summary:`)

	return b.String()
}

func quote(s string) string {
	if s == "" {
		return "(empty)"
	}
	return fmt.Sprintf("%q", s)
}

// GetGeminiAPIKey gets the API key from environment variable
func GetGeminiAPIKey() string {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY environment variable not set")
	} else {
		logger.Debug("GEMINI_API_KEY found", "length", len(apiKey))
	}
	return apiKey
}
