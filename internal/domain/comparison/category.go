package comparison

// Category is a legal topic bucket for a change.
type Category string

const (
	CategoryFinancial            Category = "financial"
	CategoryDates                Category = "dates"
	CategoryParties              Category = "parties"
	CategoryObligations          Category = "obligations"
	CategoryTermination          Category = "termination"
	CategoryLiability            Category = "liability"
	CategoryIntellectualProperty Category = "intellectual_property"
	CategoryConfidentiality      Category = "confidentiality"
	CategoryOther                Category = "other"
)

// MatchOrder is the fixed order in which categories are tested. The first
// match wins; CategoryOther is the fallback and never tested.
var MatchOrder = []Category{
	CategoryFinancial,
	CategoryDates,
	CategoryParties,
	CategoryObligations,
	CategoryTermination,
	CategoryLiability,
	CategoryIntellectualProperty,
	CategoryConfidentiality,
}

// AllCategories is MatchOrder followed by CategoryOther.
var AllCategories = append(append([]Category{}, MatchOrder...), CategoryOther)

// Importance ranks how much attention a categorized change deserves.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// ImportanceOf maps a category to its tier.
func ImportanceOf(c Category) Importance {
	switch c {
	case CategoryFinancial, CategoryLiability, CategoryTermination:
		return ImportanceHigh
	case CategoryObligations, CategoryDates, CategoryParties:
		return ImportanceMedium
	default:
		return ImportanceLow
	}
}

// Label returns a title-cased display name.
func (c Category) Label() string {
	switch c {
	case CategoryFinancial:
		return "Financial"
	case CategoryDates:
		return "Dates & Deadlines"
	case CategoryParties:
		return "Parties"
	case CategoryObligations:
		return "Obligations"
	case CategoryTermination:
		return "Termination"
	case CategoryLiability:
		return "Liability"
	case CategoryIntellectualProperty:
		return "Intellectual Property"
	case CategoryConfidentiality:
		return "Confidentiality"
	default:
		return "Other"
	}
}

// CategorizedChange is a ChangeRecord tagged with its topic.
type CategorizedChange struct {
	ChangeRecord
	Category       Category   `json:"category"`
	Importance     Importance `json:"importance"`
	MatchedPattern string     `json:"matchedPattern,omitempty"`
}

// KeyChanges maps every category, including other, to its changes in input
// order. All nine keys are always present.
type KeyChanges map[Category][]CategorizedChange

// NewKeyChanges returns a KeyChanges with an empty slice per category.
func NewKeyChanges() KeyChanges {
	kc := make(KeyChanges, len(AllCategories))
	for _, c := range AllCategories {
		kc[c] = []CategorizedChange{}
	}
	return kc
}

// Count returns the number of changes in category c.
func (k KeyChanges) Count(c Category) int {
	return len(k[c])
}

// Total returns the number of changes across all categories.
func (k KeyChanges) Total() int {
	n := 0
	for _, v := range k {
		n += len(v)
	}
	return n
}
