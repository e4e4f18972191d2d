package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mind-engage/mindengage-quiz/internal/history"
	"github.com/mind-engage/mindengage-quiz/internal/question"
)

func main() {
	input := flag.String("input", "", "Path to the question bank (.txt or .xlsx)")
	output := flag.String("output", "", "Path to output JSON file (defaults to stdout)")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	if *input == "" {
		fmt.Fprintf(os.Stderr, "Error: input file required\n")
		fmt.Fprintf(os.Stderr, "Usage: quizparse -input <bank-file> [-output <json-file>] [-verbose]\n")
		os.Exit(1)
	}

	raw, err := os.ReadFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v: %v\n", question.ErrUnreadable, err)
		os.Exit(1)
	}

	var qs []question.Question
	if strings.EqualFold(filepath.Ext(*input), ".xlsx") {
		qs, err = question.ParseXLSX(bytes.NewReader(raw))
	} else {
		qs, err = question.ParseBank(question.Text(raw))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, question.ErrNoQuestions) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Parsed %d questions from %s (source id %s)\n",
			len(qs), *input, history.SourceID(raw))
	}

	data, err := json.MarshalIndent(qs, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		os.Exit(1)
	}
	if *output == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", *output)
	}
}
