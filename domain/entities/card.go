package entities

// ErrorItem describes one grammar or usage mistake found in the focus window.
type ErrorItem struct {
	Title       string `json:"title"`
	Wrong       string `json:"wrong"`
	Fix         string `json:"fix"`
	Explanation string `json:"explanation"`
}

// Definition is a simple-English definition for a word from the focus window.
type Definition struct {
	Word      string `json:"word"`
	Pos       string `json:"pos"`
	SimpleDef string `json:"simple_def"`
}

// Synonym lists alternatives for a word from the focus window.
type Synonym struct {
	Word string   `json:"word"`
	Pos  string   `json:"pos"`
	List []string `json:"list"`
}

// HintCard is the structured output of one analysis call. All three slices
// are always non-nil so the JSON form always carries three arrays.
type HintCard struct {
	Errors      []ErrorItem  `json:"errors"`
	Definitions []Definition `json:"definitions"`
	Synonyms    []Synonym    `json:"synonyms"`
}

// NewEmptyCard returns a card with three empty, non-nil arrays.
func NewEmptyCard() HintCard {
	return HintCard{
		Errors:      []ErrorItem{},
		Definitions: []Definition{},
		Synonyms:    []Synonym{},
	}
}

// IsEmpty reports whether all three sections of the card are empty.
func (c HintCard) IsEmpty() bool {
	return len(c.Errors) == 0 && len(c.Definitions) == 0 && len(c.Synonyms) == 0
}

// Normalize replaces nil slices with empty ones so marshaled cards never
// contain JSON null arrays.
func (c *HintCard) Normalize() {
	if c.Errors == nil {
		c.Errors = []ErrorItem{}
	}
	if c.Definitions == nil {
		c.Definitions = []Definition{}
	}
	if c.Synonyms == nil {
		c.Synonyms = []Synonym{}
	}
}
