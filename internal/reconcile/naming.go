package reconcile

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/itassets/identity-sync/internal/ascender"
)

var (
	titleExceptions = []string{"the", "of", "for", "and"}                     //nolint:gochecknoglobals
	titleAcronyms   = []string{"OIM", "IT", "PVS", "SFM", "OT", "NP", "FMDP"} //nolint:gochecknoglobals
)

// TitleExcept title-cases a position title, keeping known acronyms upper case and
// short joining words lower case. An "A/" (acting) prefix is preserved.
func TitleExcept(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	out := make([]string, 0, len(words))

	switch first := words[0]; {
	case strings.HasPrefix(first, "A/"):
		out = append(out, "A/"+capitalize(strings.ReplaceAll(first, "A/", "")))
	case slices.Contains(titleAcronyms, first):
		out = append(out, first)
	default:
		out = append(out, capitalize(first))
	}

	for _, word := range words[1:] {
		word = strings.ToLower(word)

		var pre, post string

		if strings.HasPrefix(word, "(") {
			pre = "("
			word = strings.ReplaceAll(word, "(", "")
		}

		if strings.HasSuffix(word, ")") {
			post = ")"
			word = strings.ReplaceAll(word, ")", "")
		}

		switch {
		case slices.Contains(titleAcronyms, strings.ToUpper(word)):
			word = strings.ToUpper(word)
		case slices.Contains(titleExceptions, word):
		default:
			word = capitalize(word)
		}

		out = append(out, pre+word+post)
	}

	return strings.Join(out, " ")
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) == 0 {
		return ""
	}

	r[0] = unicode.ToUpper(r[0])

	return string(r)
}

// titleCase upper-cases every letter that follows a non-letter and lower-cases the rest,
// so "o'NEIL-smith" becomes "O'Neil-Smith".
func titleCase(s string) string {
	out := make([]rune, 0, len(s))
	prevLetter := false

	for _, r := range s {
		if prevLetter {
			out = append(out, unicode.ToLower(r))
		} else {
			out = append(out, unicode.ToUpper(r))
		}

		prevLetter = unicode.IsLetter(r)
	}

	return string(out)
}

// emailLocalPart folds diacritics, lower-cases and drops white space.
func emailLocalPart(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return unicode.ToLower(r)
	}, folded)
}

// emailCandidates returns the addresses tried for a new account, in order of preference:
// given.surname, then givensecond.surname.
func emailCandidates(job *ascender.Job, domain string) []string {
	given := emailLocalPart(job.GivenName())
	surname := emailLocalPart(job.Surname)

	if given == "" || surname == "" {
		return nil
	}

	second := emailLocalPart(job.SecondName)

	var out []string

	for _, local := range []string{given + "." + surname, given + second + "." + surname} {
		addr := local + "@" + domain
		if !slices.Contains(out, addr) {
			out = append(out, addr)
		}
	}

	return out
}

// displayName is "{Given} {Surname}" in title case, or "" when either is missing.
func displayName(job *ascender.Job) string {
	given := strings.TrimSpace(titleCase(job.GivenName()))
	surname := strings.TrimSpace(titleCase(job.Surname))

	if given == "" || surname == "" {
		return ""
	}

	return given + " " + surname
}
