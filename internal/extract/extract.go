// Package extract pulls fenced code blocks out of model responses.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMinLength is the trimmed length, in characters, a fragment must
// exceed to be kept.
// Shorter fences are usually empty placeholders the model emitted.
const DefaultMinLength = 20

// DefaultLanguage is the fence hint the generation prompt asks for.
const DefaultLanguage = "php"

// Extractor finds ```<language> fences. Only fences tagged with Language are
// matched; inline code and untagged fences are ignored.
type Extractor struct {
	language  string
	minLength int
	pattern   *regexp.Regexp
}

// New creates an extractor for language with the default length filter.
func New(language string) *Extractor {
	return NewWithMinLength(language, DefaultMinLength)
}

// NewWithMinLength creates an extractor for language keeping fragments whose
// trimmed length exceeds minLength.
func NewWithMinLength(language string, minLength int) *Extractor {
	if language == "" {
		language = DefaultLanguage
	}
	if minLength < 0 {
		minLength = 0
	}

	// The hint must be followed by a line break or blanks so that ```phpx
	// is not read as a php fence. The body is matched non-greedily so that
	// adjacent fences stay separate.
	pattern := regexp.MustCompile(fmt.Sprintf("(?s)```%s(?:[ \\t]*\\r?\\n|[ \\t]+)(.*?)```", regexp.QuoteMeta(language)))

	return &Extractor{
		language:  language,
		minLength: minLength,
		pattern:   pattern,
	}
}

// Language returns the fence hint this extractor matches.
func (e *Extractor) Language() string {
	return e.language
}

// Extract returns the contents of every qualifying fence in text, in order of
// appearance. No match is a normal outcome and yields an empty slice.
func (e *Extractor) Extract(text string) []string {
	matches := e.pattern.FindAllStringSubmatch(text, -1)

	fragments := make([]string, 0, len(matches))
	for _, match := range matches {
		body := match[1]
		if utf8.RuneCountInString(strings.TrimSpace(body)) <= e.minLength {
			continue
		}
		fragments = append(fragments, trimFence(body))
	}

	return fragments
}

var php = New(DefaultLanguage)

// Extract pulls ```php fences out of text with the default length filter.
func Extract(text string) []string {
	return php.Extract(text)
}

// trimFence drops leading blank lines and trailing whitespace while keeping
// the indentation of the first code line.
func trimFence(body string) string {
	body = strings.TrimRightFunc(body, unicode.IsSpace)
	for {
		i := strings.IndexByte(body, '\n')
		if i < 0 || strings.TrimSpace(body[:i]) != "" {
			break
		}
		body = body[i+1:]
	}
	return body
}
