package classify

import (
	"regexp"
	"strings"
)

// fieldKind names the line-level fields the rule table can claim
type fieldKind int

const (
	fieldName fieldKind = iota
	fieldCompany
	fieldJobTitle
	fieldLocation
)

// avoidSet restricts which lines a rule may claim based on the contact
// patterns already extracted
type avoidSet int

const (
	avoidNothing avoidSet = iota
	// avoidContactText skips lines containing the matched email, phone
	// or website text
	avoidContactText
	// avoidEmailPhoneText skips lines containing the matched email or
	// phone text
	avoidEmailPhoneText
)

// lineRule claims the first unclaimed eligible line its predicate accepts.
// Rules run strictly in table order and a rule whose field is already
// filled is skipped, so the table is the entire control flow: the name rule
// outranks company, keyword rules outrank positional fallbacks, and the
// location patterns run most-specific first.
type lineRule struct {
	field    fieldKind
	maxIndex int // cap on eligible line indexes, 0 means unrestricted
	avoid    avoidSet
	match    func(line string) bool
}

var lineRules = []lineRule{
	{field: fieldName, maxIndex: 4, avoid: avoidContactText, match: isPersonName},
	{field: fieldCompany, match: hasCompanyKeyword},
	{field: fieldCompany, maxIndex: 5, match: isTitleCaseStart},
	{field: fieldJobTitle, match: hasJobTitleKeyword},
	{field: fieldLocation, avoid: avoidEmailPhoneText, match: hasStreetSuffix},
	{field: fieldLocation, avoid: avoidEmailPhoneText, match: isCityStateZip},
	{field: fieldLocation, avoid: avoidEmailPhoneText, match: isPostalCode6},
	{field: fieldLocation, avoid: avoidEmailPhoneText, match: isPostalCode5},
}

// companyKeywords mark legal entities and industries. Matched on word
// boundaries: bare substring matching would claim "Principal Engineer" for
// the "inc" in "Principal". Extend the vocabulary, not the control flow,
// to cover new shapes.
var companyKeywords = []string{
	"inc", "incorporated", "llc", "llp", "ltd", "limited", "corp",
	"corporation", "company", "gmbh", "group", "holdings",
	"enterprises", "industries", "international", "global",
	"solutions", "technologies", "technology", "labs", "systems",
	"software", "consulting", "services", "partners", "associates",
	"agency", "studio", "studios", "ventures", "capital", "media",
	"networks", "logistics", "bank", "insurance",
}

// jobTitleKeywords mark roles and seniority
var jobTitleKeywords = []string{
	"ceo", "cto", "cfo", "coo", "cio", "president", "vice president",
	"vp", "chief", "director", "manager", "management", "head",
	"lead", "senior", "junior", "principal", "staff", "founder",
	"co-founder", "owner", "partner", "engineer", "engineering",
	"developer", "designer", "architect", "consultant", "analyst",
	"specialist", "strategist", "scientist", "researcher",
	"coordinator", "administrator", "officer", "executive",
	"supervisor", "advisor", "attorney", "accountant", "recruiter",
	"intern",
}

// streetSuffixes mark the first line of a postal address
var streetSuffixes = []string{
	"street", "st", "avenue", "ave", "road", "rd", "drive", "dr",
	"lane", "ln", "boulevard", "blvd", "way", "court", "ct",
	"plaza", "square", "suite", "ste", "floor",
}

var (
	companyKeywordPattern  = keywordPattern(companyKeywords)
	jobTitleKeywordPattern = keywordPattern(jobTitleKeywords)
	streetSuffixPattern    = keywordPattern(streetSuffixes)

	personNamePattern     = regexp.MustCompile(`^\p{Lu}[\p{Ll}'-]+(?: \p{Lu}[\p{Ll}'-]+){1,2}$`)
	titleCaseStartPattern = regexp.MustCompile(`^\p{Lu}\p{Ll}`)
	cityStateZipPattern   = regexp.MustCompile(`\b\p{Lu}[\p{L} .'-]*,\s*[A-Z]{2}\s+\d{5}(?:-\d{4})?\b`)
	postalCode6Pattern    = regexp.MustCompile(`\b\d{6}\b`)
	postalCode5Pattern    = regexp.MustCompile(`\b\d{5}\b`)
)

// keywordPattern builds a case-insensitive word-boundary alternation from a
// vocabulary
func keywordPattern(words []string) *regexp.Regexp {
	escaped := make([]string, len(words))
	for i, word := range words {
		escaped[i] = regexp.QuoteMeta(word)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(escaped, "|") + `)\b`)
}

// isPersonName matches two or three Title-Case words with no digits.
// All-caps and unusually cased names intentionally fall through to manual
// review rather than risk claiming a company line.
func isPersonName(line string) bool {
	return personNamePattern.MatchString(line)
}

func hasCompanyKeyword(line string) bool {
	return companyKeywordPattern.MatchString(line)
}

// isTitleCaseStart is the positional company fallback for cards whose
// company line carries no keyword
func isTitleCaseStart(line string) bool {
	return titleCaseStartPattern.MatchString(line)
}

func hasJobTitleKeyword(line string) bool {
	return jobTitleKeywordPattern.MatchString(line)
}

func hasStreetSuffix(line string) bool {
	return streetSuffixPattern.MatchString(line)
}

func isCityStateZip(line string) bool {
	return cityStateZipPattern.MatchString(line)
}

func isPostalCode6(line string) bool {
	return postalCode6Pattern.MatchString(line)
}

func isPostalCode5(line string) bool {
	return postalCode5Pattern.MatchString(line)
}
