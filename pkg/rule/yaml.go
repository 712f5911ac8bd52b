package rule

// yamlRule is the intermediate struct for parsing recognizer rule files.
// Maps YAML fields to types.Rule structure.
type yamlRule struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	Pattern          string   `yaml:"pattern"`
	Keywords         []string `yaml:"keywords,omitempty"`
	WholeLine        bool     `yaml:"whole_line,omitempty"`
	Trim             string   `yaml:"trim,omitempty"`
	Group            string   `yaml:"group,omitempty"`
	Description      string   `yaml:"description,omitempty"`
	Examples         []string `yaml:"examples,omitempty"`
	NegativeExamples []string `yaml:"negative_examples,omitempty"`
	References       []string `yaml:"references,omitempty"`
}

// yamlRulesFile represents the top-level structure of a rules YAML file.
type yamlRulesFile struct {
	Rules []yamlRule `yaml:"rules"`
}
