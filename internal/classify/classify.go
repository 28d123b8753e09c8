package classify

import (
	"strings"
	"unicode/utf8"
)

// Source records how the card image entered the system
type Source string

const (
	SourceCamera Source = "camera"
	SourceUpload Source = "upload"
)

// Card is the structured result of classifying recognized card text. Empty
// fields mean "not detected": the heuristics never guess, and RawText keeps
// the verbatim transcription so a reviewer can recover anything they
// missed.
type Card struct {
	Name       string  `json:"name,omitempty"`
	JobTitle   string  `json:"job_title,omitempty"`
	Company    string  `json:"company,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Email      string  `json:"email,omitempty"`
	Website    string  `json:"website,omitempty"`
	Location   string  `json:"location,omitempty"`
	RawText    string  `json:"raw_text"`
	Source     Source  `json:"source"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Classify turns raw recognized text into a structured contact card. It is
// pure and deterministic, and it never fails: malformed or empty input
// yields a card with all optional fields unset and the input preserved in
// RawText.
func Classify(text string, confidence float64, source Source) Card {
	card := Card{
		RawText:    text,
		Source:     source,
		Confidence: confidence,
	}

	doc := newDocument(text)
	card.Email = doc.matches.email.value
	card.Phone = doc.matches.phone.value
	card.Website = doc.matches.website.value

	fields := doc.applyRules(lineRules)
	card.Name = fields[fieldName]
	card.Company = fields[fieldCompany]
	card.JobTitle = fields[fieldJobTitle]
	card.Location = fields[fieldLocation]

	return card
}

// document is the working state for one classification pass
type document struct {
	lines   []string // trimmed survivor lines, original text
	cleaned []string // noise-stripped copies used for containment checks
	matches contactMatches
	claimed map[int]bool
}

func newDocument(text string) *document {
	lines := prepareLines(text)
	cleaned := make([]string, len(lines))
	for i, line := range lines {
		cleaned[i] = cleanText(line)
	}
	return &document{
		lines:   lines,
		cleaned: cleaned,
		matches: extractContactMatches(cleanText(text)),
		claimed: make(map[int]bool),
	}
}

// prepareLines splits the transcription into trimmed lines, dropping
// anything too short to carry a field
func prepareLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= 1 {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// applyRules walks the rule table, letting each rule claim at most one
// line. The claimed set guarantees a line feeds at most one field no
// matter how many rules accept it.
func (d *document) applyRules(rules []lineRule) map[fieldKind]string {
	fields := make(map[fieldKind]string)
	indexes := make(map[fieldKind]int)

	for _, rule := range rules {
		if _, done := fields[rule.field]; done {
			continue
		}
		idx, ok := d.claim(rule)
		if !ok {
			continue
		}
		d.claimed[idx] = true
		fields[rule.field] = d.lines[idx]
		indexes[rule.field] = idx
	}

	d.extendLocation(fields, indexes)

	return fields
}

// claim returns the index of the first unclaimed eligible line the rule
// accepts
func (d *document) claim(rule lineRule) (int, bool) {
	limit := len(d.lines)
	if rule.maxIndex > 0 && rule.maxIndex < limit {
		limit = rule.maxIndex
	}
	for i := 0; i < limit; i++ {
		if d.claimed[i] || !d.eligible(i, rule.avoid) {
			continue
		}
		if rule.match(d.lines[i]) {
			return i, true
		}
	}
	return 0, false
}

// eligible applies a rule's exclusion set. Containment is checked against
// the cleaned line so whitespace collapse cannot hide a hit.
func (d *document) eligible(idx int, avoid avoidSet) bool {
	switch avoid {
	case avoidContactText:
		return !d.lineContains(idx, d.matches.email) &&
			!d.lineContains(idx, d.matches.phone) &&
			!d.lineContains(idx, d.matches.website)
	case avoidEmailPhoneText:
		return !d.lineContains(idx, d.matches.email) &&
			!d.lineContains(idx, d.matches.phone)
	default:
		return true
	}
}

func (d *document) lineContains(idx int, m match) bool {
	return m.raw != "" && strings.Contains(d.cleaned[idx], m.raw)
}

// extendLocation joins a street line with the city or postal line that
// immediately follows it, collapsing a two-line address into one string
func (d *document) extendLocation(fields map[fieldKind]string, indexes map[fieldKind]int) {
	idx, ok := indexes[fieldLocation]
	if !ok || !hasStreetSuffix(d.lines[idx]) {
		return
	}

	next := idx + 1
	if next >= len(d.lines) || d.claimed[next] || !d.eligible(next, avoidEmailPhoneText) {
		return
	}
	if isCityStateZip(d.lines[next]) || isPostalCode6(d.lines[next]) || isPostalCode5(d.lines[next]) {
		d.claimed[next] = true
		fields[fieldLocation] += ", " + d.lines[next]
	}
}
