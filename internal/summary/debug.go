package summary

import (
	"fmt"
	"os"
	"path/filepath"
	"sheetDiff/internal/logger"
	"time"
)

// saveSummaryDebug writes the prompt and the model's answer to
// <dir>/ai_debug. Nothing is written when dir is empty.
func saveSummaryDebug(dir, prompt, response string, err error) {
	if dir == "" {
		return
	}

	debugDir := filepath.Join(dir, "ai_debug")
	if mkErr := os.MkdirAll(debugDir, 0755); mkErr != nil {
		logger.Warn("Failed to create AI debug directory", "dir", debugDir, "error", mkErr)
		return
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	file, fileErr := os.CreateTemp(debugDir, fmt.Sprintf("summary_%s_*.txt", timestamp))
	if fileErr != nil {
		logger.Warn("Failed to create AI debug file", "dir", debugDir, "error", fileErr)
		return
	}
	defer file.Close()

	fmt.Fprintf(file, "AI Summary Debug - %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(file, "===========================================\n\n")

	fmt.Fprintf(file, "PROMPT:\n%s\n", prompt)

	fmt.Fprintf(file, "\nAI RESPONSE:\n")
	if err != nil {
		fmt.Fprintf(file, "ERROR: %v\n", err)
	} else {
		fmt.Fprintf(file, "%s\n", response)
	}

	fmt.Fprintf(file, "\n===========================================\n")
}
