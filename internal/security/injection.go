package security

import (
	"regexp"
	"strings"

	"sentinel/pkg/errors"
)

// MaxTextLength is the maximum document text length accepted into a prompt.
const MaxTextLength = 100000

// injectionPatterns matches instruction-override attempts in document content.
// Checked case-insensitively against both user-supplied text and model output.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+instructions?`),
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?above`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?previous`),
	regexp.MustCompile(`(?i)forget\s+(all\s+)?previous`),
	regexp.MustCompile(`(?i)you\s+are\s+now`),
	regexp.MustCompile(`(?i)new\s+instructions?`),
	regexp.MustCompile(`(?i)system\s*:\s*`),
	regexp.MustCompile(`(?i)<\|im_start\|>`),
	regexp.MustCompile(`(?i)<\|im_end\|>`),
	regexp.MustCompile(`(?i)###\s*instruction`),
	regexp.MustCompile(`(?i)ENDOFINPUT`),
	regexp.MustCompile(`(?i)roleplay\s+as`),
	regexp.MustCompile(`(?i)pretend\s+(you\s+are|to\s+be)`),
	regexp.MustCompile(`(?i)act\s+as\s+(if|though)`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Sanitize validates document text before it enters a model prompt.
// Returns ErrInvalidInput for empty or oversized text, ErrSuspiciousContent
// when an instruction-override pattern matches. On success runs of whitespace
// are collapsed to single spaces and the ends are trimmed.
func Sanitize(text string) (string, error) {
	if text == "" {
		return "", errors.Wrap(errors.ErrInvalidInput, "text content cannot be empty")
	}

	if len(text) > MaxTextLength {
		return "", errors.Wrapf(errors.ErrInvalidInput, "text too long, maximum %d characters allowed", MaxTextLength)
	}

	for _, pattern := range injectionPatterns {
		if pattern.MatchString(text) {
			return "", errors.Wrap(errors.ErrSuspiciousContent, "document contains content that may indicate a prompt injection attack")
		}
	}

	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " ")), nil
}

// CheckModelOutput re-applies the injection pattern check to strings produced
// by the model (findings, recommendations, insights). A match here means the
// model was manipulated by document content, so the whole response is rejected
// rather than filtered.
func CheckModelOutput(items []string) error {
	for _, item := range items {
		for _, pattern := range injectionPatterns {
			if pattern.MatchString(item) {
				return errors.Wrap(errors.ErrSuspiciousContent, "model response contained suspicious content, analysis rejected")
			}
		}
	}
	return nil
}
