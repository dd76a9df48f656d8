package service

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"vocab-quiz/internal/domain"
)

// ErrTargetMismatch is returned when a review item's first option is not the
// requested target word.
var ErrTargetMismatch = fmt.Errorf("%w: first option does not match target word", domain.ErrMalformedResponse)

// ErrKnownNewWord is returned when a new-word item introduces a word that is
// already in the vocabulary.
var ErrKnownNewWord = fmt.Errorf("%w: new word is already known", domain.ErrMalformedResponse)

// ParsedQuestion is the structured form of a generator response.
type ParsedQuestion struct {
	Definition string
	Gloss      string
	Options    []string
}

// ParseQuestion turns raw generator text into a ParsedQuestion. The expected
// shape is a labelled definition, an optional labelled reading and four
// numbered options:
//
//	Definition: ...
//	Reading: ...
//	1) ...
//	2) ...
//	3) ...
//	4) ...
//
// Everything before "1)" is the header. The definition and the reading may
// each span several lines; only their first line carries the label. With a
// reading the header splits into two halves of equal length, the first being
// the definition and the second the reading.
func ParseQuestion(raw string, withGloss bool) (*ParsedQuestion, error) {
	lines := nonEmptyLines(stripModelNoise(raw))

	definitionLines := 1
	if withGloss {
		definitionLines = 2
	}
	required := definitionLines + domain.OptionCount
	if len(lines) < required {
		return nil, fmt.Errorf("%w: expected at least %d lines, got %d", domain.ErrMalformedResponse, required, len(lines))
	}

	first := firstOptionLine(lines)
	if first < 0 {
		return nil, fmt.Errorf("%w: no line numbered 1", domain.ErrMalformedResponse)
	}
	if first < definitionLines {
		return nil, fmt.Errorf("%w: expected %d header lines before the options, got %d",
			domain.ErrMalformedResponse, definitionLines, first)
	}
	if len(lines) < first+domain.OptionCount {
		return nil, fmt.Errorf("%w: expected %d options, got %d",
			domain.ErrMalformedResponse, domain.OptionCount, len(lines)-first)
	}

	header := lines[:first]
	parsed := &ParsedQuestion{}
	if withGloss {
		if len(header)%2 != 0 {
			return nil, fmt.Errorf("%w: reading must have as many lines as the definition", domain.ErrMalformedResponse)
		}
		half := len(header) / 2
		definition, err := labelledBlock(header[:half])
		if err != nil {
			return nil, err
		}
		gloss, err := labelledBlock(header[half:])
		if err != nil {
			return nil, err
		}
		parsed.Definition, parsed.Gloss = definition, gloss
	} else {
		definition, err := labelledBlock(header)
		if err != nil {
			return nil, err
		}
		parsed.Definition = definition
	}

	for i, line := range lines[first : first+domain.OptionCount] {
		text, err := parseOptionLine(line, i+1)
		if err != nil {
			return nil, err
		}
		parsed.Options = append(parsed.Options, text)
	}
	return parsed, nil
}

// firstOptionLine returns the index of the first "1) ..." line, or -1.
func firstOptionLine(lines []string) int {
	for i, line := range lines {
		prefix, _, ok := strings.Cut(line, ")")
		if ok && strings.TrimSpace(prefix) == "1" {
			return i
		}
	}
	return -1
}

// labelledBlock strips the label of the first line and joins the rest
// unchanged.
func labelledBlock(lines []string) (string, error) {
	head, err := labelledValue(lines[0])
	if err != nil {
		return "", err
	}
	out := append([]string{head}, lines[1:]...)
	return strings.Join(out, "\n"), nil
}

// parseOptionLine accepts "<index>) <text>" where index is the expected
// 1-based position.
func parseOptionLine(line string, want int) (string, error) {
	prefix, text, ok := strings.Cut(line, ")")
	if !ok {
		return "", fmt.Errorf("%w: option line %q has no index", domain.ErrMalformedResponse, line)
	}
	index, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil {
		return "", fmt.Errorf("%w: option line %q has a non-numeric index", domain.ErrMalformedResponse, line)
	}
	if index != want {
		return "", fmt.Errorf("%w: option %d is numbered %d", domain.ErrMalformedResponse, want, index)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: option %d is empty", domain.ErrMalformedResponse, want)
	}
	return text, nil
}

func labelledValue(line string) (string, error) {
	idx := strings.IndexAny(line, ":：")
	if idx < 0 {
		return "", fmt.Errorf("%w: line %q has no label", domain.ErrMalformedResponse, line)
	}
	_, size := utf8.DecodeRuneInString(line[idx:])
	value := strings.TrimSpace(line[idx+size:])
	if value == "" {
		return "", fmt.Errorf("%w: line %q has an empty value", domain.ErrMalformedResponse, line)
	}
	return value, nil
}

// stripModelNoise removes reasoning blocks and code fences some models wrap
// around their answer.
func stripModelNoise(raw string) string {
	s := strings.TrimSpace(raw)
	if thinkStart := strings.Index(s, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(s, "</think>"); thinkEnd > thinkStart {
			s = s[:thinkStart] + s[thinkEnd+len("</think>"):]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return s
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
