package question

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var xlsxColumns = []string{"statement", "a", "b", "c", "d", "answer"}

// ParseXLSX reads questions from the first sheet of a workbook. The first row is
// a header naming the columns statement, a, b, c, d and answer. Rows that do not
// form a valid question are skipped.
func ParseXLSX(r io.Reader) ([]Question, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoQuestions
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read rows: %v", ErrUnreadable, err)
	}
	if len(rows) < 2 {
		return nil, ErrNoQuestions
	}

	header := map[string]int{}
	for i, h := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range xlsxColumns {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("%w: missing required column: %s", ErrUnreadable, col)
		}
	}

	out := []Question{}
	for _, row := range rows[1:] {
		get := func(key string) string {
			idx := header[key]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		q := Question{
			Statement:    get("statement"),
			Options:      [4]string{get("a"), get("b"), get("c"), get("d")},
			CorrectLabel: Label(strings.ToUpper(get("answer"))),
		}
		if !q.Valid() {
			continue
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, ErrNoQuestions
	}
	return out, nil
}
