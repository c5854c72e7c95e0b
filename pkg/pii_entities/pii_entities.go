// Package pii_entities provides the PII labels known to the service, the
// regular expressions used by the regex matchers and the checksum validators
// that filter their false positives.
package pii_entities

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Entity is the label attached to a detected span. Labels are upper case so
// they can be embedded verbatim in placeholders.
type Entity string

const (
	// Regex-backed entities
	Email      Entity = "EMAIL"
	Phone      Entity = "PHONE"
	IBAN       Entity = "IBAN"
	CNP        Entity = "CNP"
	IDCard     Entity = "ID_CARD"
	CardNumber Entity = "CARD_NUMBER"
	IPAddress  Entity = "IP_ADDRESS"
	Address    Entity = "ADDRESS"

	// Model (RONEC) entities
	Person    Entity = "PERSON"
	Org       Entity = "ORG"
	GPE       Entity = "GPE"
	Loc       Entity = "LOC"
	Facility  Entity = "FACILITY"
	NatRelPol Entity = "NAT_REL_POL"
	Event     Entity = "EVENT"
	Language  Entity = "LANGUAGE"
	WorkOfArt Entity = "WORK_OF_ART"
	DateTime  Entity = "DATETIME"
	Period    Entity = "PERIOD"
	Money     Entity = "MONEY"
	Quantity  Entity = "QUANTITY"
	Numeric   Entity = "NUMERIC"
	Ordinal   Entity = "ORDINAL"
)

// ValueGroup is the name of the capture group that, when present in a
// pattern, delimits the span instead of the whole match.
const ValueGroup = "value"

// Patterns contains regex patterns for each regex-backed entity type
var Patterns = map[Entity]*regexp.Regexp{
	Email: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	Phone: regexp.MustCompile(
		`(?:^|[^\w+])(?P<value>(?:\+40|0040|0)\s?7\d{2}[\s.-]?\d{3}[\s.-]?\d{3}|(?:\+40|0040|0)\s?[23]\d{1,2}[\s.-]?\d{3}[\s.-]?\d{3,4})\b`,
	),
	IBAN:       regexp.MustCompile(`\b[A-Z]{2}\d{2}(?: ?[A-Z0-9]{4}){2,7}(?: ?\d{1,3})?\b`),
	CNP:        regexp.MustCompile(`\b[1-8]\d{2}(?:0[1-9]|1[0-2])(?:0[1-9]|[12]\d|3[01])\d{6}\b`),
	IDCard:     regexp.MustCompile(`\b(?:[Ss]eria\s+)?[A-Z]{2}\s?(?:nr\.?\s?)?\d{6}\b`),
	CardNumber: regexp.MustCompile(`\b(?:\d[ -]?){12,18}\d\b`),
	IPAddress:  regexp.MustCompile(`\b((25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`),
	Address: regexp.MustCompile(
		`(?i)(?:^|[^\p{L}])(?P<value>(?:str\.|strada|bd\.|b-dul|bulevardul|calea|aleea|șos\.|sos\.|șoseaua|soseaua|piața|piata)\s+\p{L}[\p{L}\s.\-]{0,40}?,?\s+(?:nr\.?\s*)?\d+[A-Za-z]?)`,
	),
}

// Validators reject regex matches that have the right shape but fail a checksum.
var Validators = map[Entity]func(string) bool{
	IBAN:       ValidIBAN,
	CNP:        ValidCNP,
	CardNumber: ValidLuhn,
}

// DetectionOrder defines the order in which regex entities are registered
// (more specific patterns first, they win ties in overlap resolution)
var DetectionOrder = []Entity{
	IBAN,
	CNP,
	CardNumber,
	Email,
	Phone,
	IDCard,
	IPAddress,
	Address,
}

// ModelEntities lists the labels produced by the RONEC token classifier.
var ModelEntities = []Entity{
	Person, Org, GPE, Loc, Facility, NatRelPol, Event, Language,
	WorkOfArt, DateTime, Period, Money, Quantity, Numeric, Ordinal,
}

// DefaultModelEntities are the model labels treated as PII unless configured otherwise.
var DefaultModelEntities = []Entity{Person, Org, GPE, Loc, Facility}

// AllEntities contains all valid entity types for validation
var AllEntities = func() map[Entity]bool {
	all := make(map[Entity]bool, len(DetectionOrder)+len(ModelEntities))
	for _, e := range DetectionOrder {
		all[e] = true
	}
	for _, e := range ModelEntities {
		all[e] = true
	}
	return all
}()

// IsValid checks if an entity type is valid
func IsValid(entity string) bool {
	return AllEntities[Entity(strings.ToUpper(entity))]
}

// GetPattern returns the regex pattern for an entity type
func GetPattern(entity Entity) *regexp.Regexp {
	return Patterns[entity]
}

// GetValidator returns the checksum validator for an entity type, or nil.
func GetValidator(entity Entity) func(string) bool {
	return Validators[entity]
}

var cnpWeights = []int{2, 7, 9, 1, 4, 6, 3, 5, 8, 2, 7, 9}

// ValidCNP checks the control digit of a Romanian personal numeric code.
func ValidCNP(value string) bool {
	digits := onlyDigits(value)
	if len(digits) != 13 {
		return false
	}
	sum := 0
	for i, w := range cnpWeights {
		sum += int(digits[i]-'0') * w
	}
	control := sum % 11
	if control == 10 {
		control = 1
	}
	return int(digits[12]-'0') == control
}

// ValidLuhn checks a payment card number with the Luhn algorithm.
func ValidLuhn(value string) bool {
	digits := onlyDigits(value)
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ValidIBAN checks the ISO 13616 mod-97 checksum.
func ValidIBAN(value string) bool {
	compact := strings.ToUpper(strings.Join(strings.Fields(value), ""))
	if len(compact) < 15 || len(compact) > 34 {
		return false
	}
	rearranged := compact[4:] + compact[:4]
	var b strings.Builder
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteString(strconv.Itoa(int(r-'A') + 10))
		default:
			return false
		}
	}
	n, ok := new(big.Int).SetString(b.String(), 10)
	if !ok {
		return false
	}
	return new(big.Int).Mod(n, big.NewInt(97)).Int64() == 1
}

func onlyDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
