package question

import (
	"regexp"
	"strings"
)

var (
	optionLinePattern = regexp.MustCompile(`^[ABCD]\)\s?`)
	answerLinePattern = regexp.MustCompile(`^ANSWER:\s*([ABCD])\s*$`)
)

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

func isOptionLine(s string) bool { return optionLinePattern.MatchString(strings.TrimSpace(s)) }

// optionText drops the two-character "X)" prefix. The printed letter is not
// checked against the slot the line fills.
func optionText(s string) string {
	return strings.TrimSpace(strings.TrimSpace(s)[2:])
}

// Text decodes an uploaded bank as UTF-8. A leading byte order mark is
// dropped and invalid byte sequences become U+FFFD.
func Text(raw []byte) string {
	s := strings.TrimPrefix(string(raw), "\ufeff")
	return strings.ToValidUTF8(s, "\uFFFD")
}

// Parse turns a question bank into validated questions. A malformed record is
// skipped and scanning resumes at the next record boundary; Parse never fails.
// Option lines with no statement in front of them are skipped up to the next
// blank line and parsing continues, rather than ending there, so a stray
// option block cannot hide the valid records after it.
//
// Block layout:
//
//	statement line(s)
//	A) option
//	B) option
//	C) option
//	D) option
//	ANSWER: X
func Parse(raw string) []Question {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	out := []Question{}

	i := 0
	skipBlank := func() {
		for i < len(lines) && isBlank(lines[i]) {
			i++
		}
	}
	skipToBlank := func() {
		for i < len(lines) && !isBlank(lines[i]) {
			i++
		}
	}

	for i < len(lines) {
		skipBlank()
		if i >= len(lines) {
			break
		}

		var stmt []string
		for i < len(lines) && !isOptionLine(lines[i]) {
			stmt = append(stmt, lines[i])
			i++
		}
		statement := strings.TrimSpace(strings.Join(stmt, "\n"))
		if statement == "" {
			// option lines with no statement in front of them
			skipToBlank()
			continue
		}

		var opts [4]string
		n := 0
		for ; n < 4; n++ {
			if i >= len(lines) || !isOptionLine(lines[i]) {
				break
			}
			opts[n] = optionText(lines[i])
			i++
		}
		if n != 4 {
			skipToBlank()
			continue
		}

		skipBlank()
		if i >= len(lines) {
			break
		}
		ans := strings.TrimSpace(lines[i])
		i++

		m := answerLinePattern.FindStringSubmatch(ans)
		if m == nil {
			continue
		}

		q := Question{Statement: statement, Options: opts, CorrectLabel: Label(m[1])}
		if !q.Valid() {
			continue
		}
		out = append(out, q)
	}
	return out
}

// ParseBank parses raw and reports ErrNoQuestions when nothing valid was found.
func ParseBank(raw string) ([]Question, error) {
	qs := Parse(raw)
	if len(qs) == 0 {
		return nil, ErrNoQuestions
	}
	return qs, nil
}
