package classify

import (
	"regexp"
	"strings"
)

// Contact patterns run over a cleaned copy of the whole transcription:
// characters outside letters, digits, underscore, whitespace and @.+-() are
// stripped and whitespace runs collapse to single spaces. Stray OCR symbol
// noise disappears while emails, phone numbers and URLs survive intact.
var (
	noiseChars     = regexp.MustCompile(`[^\p{L}\p{N}_\s@.+()-]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// cleanText normalizes raw OCR output for pattern extraction
func cleanText(text string) string {
	cleaned := noiseChars.ReplaceAllString(text, "")
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(cleaned, " "))
}

var emailPattern = regexp.MustCompile(`(?i)\b[\p{L}\p{N}._%+-]+@[\p{L}\p{N}.-]+\.\p{L}{2,}\b`)

// phonePatterns is a tiered candidate set: the specific NANP shape wins
// over the generic international one, and separators between digit groups
// are folded into a single candidate.
var phonePatterns = []*regexp.Regexp{
	// optional +1 country code, then 3-3-4 digit groups
	regexp.MustCompile(`(?:\+?1[\s.-]*)?\(?\d{3}\)?[\s.-]*\d{3}[\s.-]*\d{4}\b`),
	// + followed by grouped digits
	regexp.MustCompile(`\+\d[\d\s().-]{6,18}\d`),
}

// websitePattern captures a domain with an alphabetic TLD. Cleaning already
// strips the "://" of any scheme, so a glued http/https remnant is
// tolerated and dropped, along with a leading www., by capturing only the
// bare domain.
var websitePattern = regexp.MustCompile(`(?i)\b(?:https?)?(?:www\.)?([\p{L}\p{N}][\p{L}\p{N}-]*(?:\.[\p{L}\p{N}-]+)*\.\p{L}{2,})\b`)

// match is a single contact-pattern hit. The raw matched text is kept for
// the line exclusion checks; the value is what lands on the card.
type match struct {
	raw   string
	value string
}

// contactMatches holds the pattern extraction results for one card
type contactMatches struct {
	email   match
	phone   match
	website match
}

// extractContactMatches pulls email, phone and website candidates out of
// the cleaned transcription. The earliest match wins within each pattern,
// and the website may not overlap the email.
func extractContactMatches(cleaned string) contactMatches {
	var m contactMatches

	emailSpan := emailPattern.FindStringIndex(cleaned)
	if emailSpan != nil {
		raw := cleaned[emailSpan[0]:emailSpan[1]]
		m.email = match{raw: raw, value: strings.ToLower(raw)}
	}

	for _, pattern := range phonePatterns {
		if raw := pattern.FindString(cleaned); raw != "" {
			m.phone = match{raw: raw, value: normalizePhone(raw)}
			break
		}
	}

	m.website = findWebsite(cleaned, emailSpan)

	return m
}

// findWebsite returns the first domain candidate that is not part of the
// email address
func findWebsite(cleaned string, emailSpan []int) match {
	for _, span := range websitePattern.FindAllStringSubmatchIndex(cleaned, -1) {
		if emailSpan != nil && span[0] < emailSpan[1] && span[1] > emailSpan[0] {
			continue
		}
		return match{
			raw:   cleaned[span[0]:span[1]],
			value: cleaned[span[2]:span[3]],
		}
	}
	return match{}
}

// normalizePhone reduces a matched candidate to digits plus any leading +
func normalizePhone(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
