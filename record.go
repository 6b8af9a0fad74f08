package xhsnote

// DefaultTitle is the title given to records whose title could not be extracted.
const DefaultTitle = "无标题"

// DefaultCount is the value of an interaction counter that could not be extracted.
const DefaultCount = "0"

// Interaction holds note interaction counters. Counts are strings because
// the platform renders them with unit suffixes (e.g. "1.2万").
type Interaction struct {
	Likes    string `json:"likes" yaml:"likes"`
	Comments string `json:"comments" yaml:"comments"`
	Collects string `json:"collects" yaml:"collects"`
}

// Record is the canonical extraction result for a single note.
//
// While a record moves through the parser an empty field means "not found".
// Normalize replaces those with defaults before the record is returned.
type Record struct {
	URL             string      `json:"url" yaml:"url"`
	Title           string      `json:"title" yaml:"title"`
	Content         string      `json:"content" yaml:"content"`
	Hashtags        []string    `json:"hashtags" yaml:"hashtags"`
	InteractionInfo Interaction `json:"interaction_info" yaml:"interaction_info"`
	Images          []string    `json:"images" yaml:"images"`
	SavedImages     []string    `json:"saved_images" yaml:"saved_images"`
}

// LowConfidence reports whether the record carries neither a title nor
// body content. Such records trigger preset fallback.
func (r *Record) LowConfidence() bool {
	return r.Title == "" && r.Content == ""
}

// Normalize applies defaults to every missing field so the record is fully
// shaped. It is idempotent.
func (r *Record) Normalize() {
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	if r.InteractionInfo.Likes == "" {
		r.InteractionInfo.Likes = DefaultCount
	}
	if r.InteractionInfo.Comments == "" {
		r.InteractionInfo.Comments = DefaultCount
	}
	if r.InteractionInfo.Collects == "" {
		r.InteractionInfo.Collects = DefaultCount
	}
	if r.Hashtags == nil {
		r.Hashtags = []string{}
	}
	if r.Images == nil {
		r.Images = []string{}
	}
	if r.SavedImages == nil {
		r.SavedImages = []string{}
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	c.Hashtags = cloneStrings(r.Hashtags)
	c.Images = cloneStrings(r.Images)
	c.SavedImages = cloneStrings(r.SavedImages)
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

// PresetService serves curated records for known note identifiers.
// Implementations are loaded once and never mutated during request handling.
type PresetService interface {
	// Lookup returns a copy of the preset for noteID, if one exists.
	Lookup(noteID string) (*Record, bool)
}
