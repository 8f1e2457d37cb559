package comparison

import (
	"regexp"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
)

// CategoryPatterns is one ordered pattern set per category, in match order.
type CategoryPatterns struct {
	Category domain.Category
	Patterns []*regexp.Regexp
}

func mustCompileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

// PatternCatalogue is tested top to bottom; within a category the first
// matching pattern is recorded as MatchedPattern.
//
// The currency symbol, percent sign and slash-date patterns need $, % and /,
// which Normalize removes. Records produced by CompareTexts never reach them;
// they apply when Categorize is called on records built from raw text.
var PatternCatalogue = []CategoryPatterns{
	{
		Category: domain.CategoryFinancial,
		Patterns: mustCompileAll(
			`\$\s?[\d,]+(\.\d{2})?`,
			`\b\d[\d,]*(\.\d+)?\s*(usd|eur|gbp|dollars?|euros?|pounds?)\b`,
			`\b(payment|payments|pay|paid|payable)\b`,
			`\b(fee|fees|price|pricing|cost|costs|compensation|salary|wage|wages|remuneration)\b`,
			`\b(invoice|invoices|billing|penalty|penalties|interest|refund|deposit|royalt(y|ies))\b`,
			`\b\d+(\.\d+)?\s*(%|percent)`,
		),
	},
	{
		Category: domain.CategoryDates,
		Patterns: mustCompileAll(
			`\b\d{1,2}/\d{1,2}/\d{2,4}\b`,
			`\b\d{4}-\d{2}-\d{2}\b`,
			`\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}\b`,
			`\b\d{1,2}\s+(january|february|march|april|may|june|july|august|september|october|november|december)\b`,
			`\b(deadline|due date|effective date|commencement date|expir(y|ation|es|e))\b`,
			`\bwithin\s+\d+\s+(business\s+)?(days?|weeks?|months?|years?)\b`,
			`\b\d+\s+(business\s+)?(days?|weeks?|months?|years?)\b`,
		),
	},
	{
		Category: domain.CategoryParties,
		Patterns: mustCompileAll(
			`\b(party|parties)\b`,
			`\b(licensor|licensee|employer|employee|contractor|subcontractor|consultant)\b`,
			`\b(client|customer|vendor|supplier|buyer|seller|purchaser|landlord|tenant|lessor|lessee)\b`,
			`\b(affiliate|affiliates|successor|successors|assigns?)\b`,
		),
	},
	{
		Category: domain.CategoryObligations,
		Patterns: mustCompileAll(
			`\b(shall|must)\b`,
			`\b(obligat(ed|ion|ions)|required to|responsible for)\b`,
			`\b(agrees?|undertakes?|covenants?)\s+to\b`,
			`\b(comply|compliance)\b`,
		),
	},
	{
		Category: domain.CategoryTermination,
		Patterns: mustCompileAll(
			`\bterminat(e|es|ed|ion)\b`,
			`\b(cancel|cancels|cancelled|cancellation|rescind|rescission)\b`,
			`\b(notice period|breach|material breach)\b`,
			`\b(renew|renewal|non-renewal|expire)\b`,
		),
	},
	{
		Category: domain.CategoryLiability,
		Patterns: mustCompileAll(
			`\b(liable|liability|liabilities)\b`,
			`\b(indemnif(y|ies|ied|ication)|indemnity|hold harmless)\b`,
			`\b(damages|losses|negligence|gross negligence)\b`,
			`\b(warrant|warrants|warranty|warranties|disclaim(er|s)?)\b`,
			`\blimitation of\b`,
		),
	},
	{
		Category: domain.CategoryIntellectualProperty,
		Patterns: mustCompileAll(
			`\bintellectual property\b`,
			`\b(copyright|copyrights|patent|patents|trademark|trademarks|trade secret|trade secrets)\b`,
			`\b(license|licence|licensed|licensing|sublicense)\b`,
			`\b(proprietary|work product|derivative works?)\b`,
		),
	},
	{
		Category: domain.CategoryConfidentiality,
		Patterns: mustCompileAll(
			`\bconfidential(ity)?\b`,
			`\b(non-disclosure|nda)\b`,
			`\b(disclose|disclosure|disclosed)\b`,
			`\b(privacy|private|secret|secrecy)\b`,
		),
	},
}
