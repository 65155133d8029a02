package patient

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Name holds the parsed components of a raw patient name.
type Name struct {
	Salutation string
	First      string
	Middle     string
	Last       string
	Suffix     string
	Full       string
}

// ErrUnparseableName is returned when a raw name has no usable name parts.
var ErrUnparseableName = errors.New("name has no parsable parts")

var salutations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "miss": true, "mx": true, "master": true,
	"dr": true, "prof": true, "sir": true, "dame": true, "rev": true, "lady": true, "lord": true,
}

var suffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true, "v": true,
	"md": true, "phd": true, "esq": true,
}

// Lowercase particles that bind to the following word of a surname.
var surnameParticles = map[string]bool{
	"van": true, "von": true, "de": true, "del": true, "della": true, "der": true,
	"da": true, "di": true, "du": true, "la": true, "le": true, "st": true, "bin": true, "al": true,
}

// ParseName splits a free-text name into components. Accepted shapes:
//
//	[Salutation] First [Middle...] Last [Suffix]
//	Last, [Salutation] First [Middle...] [Suffix]
//
// Components are title-cased. Parsing is best effort.
func ParseName(raw string) (Name, error) {
	raw = strings.Join(strings.Fields(raw), " ")
	if !strings.ContainsFunc(raw, unicode.IsLetter) {
		return Name{}, ErrUnparseableName
	}

	var name Name
	var tokens []string
	var last []string

	if before, after, ok := strings.Cut(raw, ","); ok {
		afterTokens := strings.Fields(after)
		if len(afterTokens) == 1 && isSuffix(afterTokens[0]) {
			// "John Smith, Jr."
			name.Suffix = afterTokens[0]
			tokens = strings.Fields(before)
		} else {
			last = strings.Fields(before)
			tokens = afterTokens
		}
	} else {
		tokens = strings.Fields(raw)
	}

	if len(tokens) > 0 && salutations[normalizeToken(tokens[0])] {
		name.Salutation = tokens[0]
		tokens = tokens[1:]
	}
	if name.Suffix == "" && len(tokens) > 1 && isSuffix(tokens[len(tokens)-1]) {
		name.Suffix = tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
	}

	if last == nil && len(tokens) > 1 {
		cut := len(tokens) - 1
		for cut > 1 && surnameParticles[normalizeToken(tokens[cut-1])] {
			cut--
		}
		last = tokens[cut:]
		tokens = tokens[:cut]
	}

	if len(tokens) > 0 {
		name.First = tokens[0]
	}
	if len(tokens) > 1 {
		name.Middle = strings.Join(tokens[1:], " ")
	}
	name.Last = strings.Join(last, " ")

	if name.First == "" && name.Last == "" {
		return Name{}, ErrUnparseableName
	}

	caser := cases.Title(language.English)
	name.Salutation = caser.String(name.Salutation)
	name.First = caser.String(name.First)
	name.Middle = caser.String(name.Middle)
	name.Last = caser.String(name.Last)
	name.Suffix = caser.String(name.Suffix)

	parts := make([]string, 0, 3)
	for _, s := range []string{name.First, name.Middle, name.Last} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	name.Full = strings.Join(parts, " ")
	return name, nil
}

// WithParsedName re-derives the parsed name fields from RawName. On parse
// failure every parsed field is cleared and RawName is kept.
func WithParsedName(p Patient) Patient {
	n, err := ParseName(p.RawName)
	if err != nil {
		n = Name{}
	}
	p.Salutation = n.Salutation
	p.FirstName = n.First
	p.MiddleName = n.Middle
	p.LastName = n.Last
	p.Suffix = n.Suffix
	p.FullName = n.Full
	return p
}

func isSuffix(tok string) bool {
	return suffixes[normalizeToken(tok)]
}

func normalizeToken(tok string) string {
	return strings.Trim(strings.ToLower(tok), ".")
}
