package comparison

// ChangeType tags the variant of a ChangeRecord.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
)

// ChangeRecord is one semantic difference between the two documents.
//
// It is a tagged union keyed by Type. Added and removed records use Content;
// modified records use OldContent and NewContent plus Similarity. Use the
// constructors and Text/Texts accessors rather than reading fields by hand.
type ChangeRecord struct {
	ID         int        `json:"id"`
	Type       ChangeType `json:"type"`
	Content    string     `json:"content,omitempty"`
	OldContent string     `json:"oldContent,omitempty"`
	NewContent string     `json:"newContent,omitempty"`
	LineNumber int        `json:"lineNumber"`
	Confidence float64    `json:"confidence"`
	Similarity float64    `json:"similarity,omitempty"`
	Context    string     `json:"context"`
}

// NewAdded builds an added record.
func NewAdded(id int, content string, line int, confidence float64, context string) ChangeRecord {
	return ChangeRecord{ID: id, Type: ChangeAdded, Content: content, LineNumber: line, Confidence: confidence, Context: context}
}

// NewRemoved builds a removed record.
func NewRemoved(id int, content string, line int, confidence float64, context string) ChangeRecord {
	return ChangeRecord{ID: id, Type: ChangeRemoved, Content: content, LineNumber: line, Confidence: confidence, Context: context}
}

// NewModified merges a removed record with its matched added record. The
// result keeps the removed record's id, line number and context.
func NewModified(removed, added ChangeRecord, similarity float64) ChangeRecord {
	conf := removed.Confidence
	if added.Confidence > conf {
		conf = added.Confidence
	}
	return ChangeRecord{
		ID:         removed.ID,
		Type:       ChangeModified,
		OldContent: removed.Content,
		NewContent: added.Content,
		LineNumber: removed.LineNumber,
		Confidence: conf,
		Similarity: similarity,
		Context:    removed.Context,
	}
}

// Text returns the representative text of the record: Content for added and
// removed, NewContent for modified with OldContent and Content as fallbacks.
func (c ChangeRecord) Text() string {
	switch c.Type {
	case ChangeAdded, ChangeRemoved:
		return c.Content
	case ChangeModified:
		if c.NewContent != "" {
			return c.NewContent
		}
		if c.OldContent != "" {
			return c.OldContent
		}
		return c.Content
	default:
		return c.Content
	}
}

// Texts returns every non-empty text the record carries.
func (c ChangeRecord) Texts() []string {
	var out []string
	switch c.Type {
	case ChangeAdded, ChangeRemoved:
		out = appendNonEmpty(out, c.Content)
	case ChangeModified:
		out = appendNonEmpty(out, c.OldContent)
		out = appendNonEmpty(out, c.NewContent)
		out = appendNonEmpty(out, c.Content)
	default:
		out = appendNonEmpty(out, c.Content)
	}
	return out
}

func appendNonEmpty(dst []string, s string) []string {
	if s == "" {
		return dst
	}
	return append(dst, s)
}

// Valid reports whether Type is one of the three known variants.
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeAdded, ChangeRemoved, ChangeModified:
		return true
	}
	return false
}
