package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"sheetDiff/internal/logger"
	"strings"
)

type SheetInfo struct {
	Name    string
	Rows    int
	Columns int
	Headers []string
}

type WorkbookInfo struct {
	Path   string
	Sheets []SheetInfo
}

// ScanResult lists the readable workbooks of a directory and the files that
// could not be opened.
type ScanResult struct {
	Workbooks []WorkbookInfo
	Skipped   []string
}

// FindWorkbooks returns all .xlsx files under dir. Excel lock files ("~$...")
// are ignored.
func FindWorkbooks(dir string) ([]string, error) {
	var xlsxFiles []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		name := info.Name()
		if !info.IsDir() && strings.ToLower(filepath.Ext(name)) == ".xlsx" && !strings.HasPrefix(name, "~$") {
			xlsxFiles = append(xlsxFiles, path)
		}

		return nil
	})

	return xlsxFiles, err
}

// ScanDirectory reports the sheets and populated extents of every workbook under dir.
func ScanDirectory(dir string) (*ScanResult, error) {
	files, err := FindWorkbooks(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get xlsx files: %w", err)
	}

	result := &ScanResult{}
	for _, path := range files {
		info, err := ScanWorkbook(path)
		if err != nil {
			logger.Warn("Failed to scan workbook", "file", path, "error", err)
			result.Skipped = append(result.Skipped, path)
			continue
		}
		result.Workbooks = append(result.Workbooks, *info)
	}

	logger.Info("Scanned directory",
		"directory", dir,
		"workbooks", len(result.Workbooks),
		"skipped", len(result.Skipped))
	return result, nil
}

// ScanWorkbook reports the sheets and populated extents of one workbook.
func ScanWorkbook(path string) (*WorkbookInfo, error) {
	editor, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer editor.Close()

	info := &WorkbookInfo{Path: path}
	for _, name := range editor.GetSheetNames() {
		sheet, err := editor.ReadSheet(name)
		if err != nil {
			return nil, err
		}

		headers := make([]string, 0, sheet.MaxColumn())
		for col := 1; col <= sheet.MaxColumn(); col++ {
			headers = append(headers, sheet.Value(1, col).String())
		}

		info.Sheets = append(info.Sheets, SheetInfo{
			Name:    name,
			Rows:    sheet.MaxRow(),
			Columns: sheet.MaxColumn(),
			Headers: headers,
		})
	}
	return info, nil
}
