package main

import (
	"fmt"
	"log"
	"os"
	"sheetDiff/internal/compare"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: sheetdiff-lite <workbook.xlsx>")
		os.Exit(2)
	}

	if err := compare.CompareSheets(os.Args[1]); err != nil {
		log.Fatal("Error comparing sheets: ", err)
	}
}
