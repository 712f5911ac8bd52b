package types

// Rule is the recognizer definition for one type.
type Rule struct {
	Type             Type     `json:"type"`                        // resolved from ID
	ID               string   `json:"id"`                          // canonical type name, e.g. "ipv4"
	Name             string   `json:"name"`                        // human-readable name
	Pattern          string   `json:"pattern"`                     // regexp2 pattern
	Keywords         []string `json:"keywords,omitempty"`          // lower-case literals for Aho-Corasick prefiltering
	WholeLine        bool     `json:"whole_line,omitempty"`        // extraction is the full line when the pattern matches
	Trim             string   `json:"trim,omitempty"`              // trailing characters stripped from extractions
	Group            string   `json:"group,omitempty"`             // named capture handed to the verifier, if any
	Description      string   `json:"description,omitempty"`       // optional
	Examples         []string `json:"examples,omitempty"`          // positive test cases
	NegativeExamples []string `json:"negative_examples,omitempty"` // negative test cases
	References       []string `json:"references,omitempty"`        // documentation URLs
}
