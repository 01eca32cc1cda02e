package classifier

import (
	"regexp"
	"strings"
)

var (
	tikkieNoteRe  = regexp.MustCompile(`(?i)Omschrijving:\s*(.*?)\s*Kenmerk:`)
	incassoNaamRe = regexp.MustCompile(`(?i)Naam:\s*(.*?)\s*(?:Machtiging|Omschrijving|IBAN|Kenmerk|Voor:|$)`)
	naamRe        = regexp.MustCompile(`(?i)Naam:\s*(.+?)\s*(?:Omschrijving|IBAN|Kenmerk|Voor:|$)`)
	cardRe        = regexp.MustCompile(`(?i)(?:Google Pay\s+|\s*Betaalpas\s+)([^,]+),PAS`)
	beaRe         = regexp.MustCompile(`\bBEA\b`)

	tikkieRe      = regexp.MustCompile(`(?i)\btikkie\b`)
	idealRe       = regexp.MustCompile(`(?i)\bideal\b`)
	incassoRe     = regexp.MustCompile(`(?i)\bsepa incasso\b`)
	overboekingRe = regexp.MustCompile(`(?i)\bsepa overboeking\b`)
)

// Transaction types derived from a description.
const (
	TypeIDEAL           = "iDEAL"
	TypeSEPATransfer    = "SEPA Overboeking"
	TypeSEPADirectDebit = "SEPA Incasso"
	TypeTikkie          = "Tikkie"
	TypePaymentTerminal = "Payment Terminal"
	TypeUnknown         = "Unknown"
)

// ExtractMerchant returns the lowercased counterparty named in a bank
// description, or "" when none can be found.
func ExtractMerchant(description string) string {
	lower := strings.ToLower(description)

	if strings.Contains(lower, "sepa ideal") {
		if strings.Contains(lower, "tikkie") {
			if note := tikkieNote(description); note != "" {
				return strings.ToLower(note)
			}
		}
		if m := firstGroup(naamRe, description); m != "" {
			return strings.ToLower(m)
		}
	}
	if strings.Contains(lower, "sepa incasso") {
		if m := firstGroup(incassoNaamRe, description); m != "" {
			return strings.ToLower(m)
		}
	}
	if m := firstGroup(naamRe, description); m != "" {
		return strings.ToLower(m)
	}
	if m := firstGroup(cardRe, description); m != "" {
		return strings.ToLower(m)
	}
	return ""
}

// TransactionType classifies how a payment was made.
func TransactionType(description string) string {
	switch {
	case tikkieRe.MatchString(description):
		return TypeTikkie
	case idealRe.MatchString(description):
		return TypeIDEAL
	case incassoRe.MatchString(description):
		return TypeSEPADirectDebit
	case overboekingRe.MatchString(description):
		return TypeSEPATransfer
	case beaRe.MatchString(description), cardRe.MatchString(description):
		return TypePaymentTerminal
	}
	return TypeUnknown
}

func tikkieNote(description string) string {
	return firstGroup(tikkieNoteRe, description)
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
