package content

// document is one YAML content file. Several documents merge into one
// Content before names are resolved.
type document struct {
	Stats   []statDef   `yaml:"stats"`
	Sheets  []sheetDef  `yaml:"sheets"`
	Effects []effectDef `yaml:"effects"`
}

type statDef struct {
	Name   string `yaml:"name"`
	Parent string `yaml:"parent"`
}

type sheetDef struct {
	Name    string     `yaml:"name"`
	Parents []string   `yaml:"parents"`
	Entries []entryDef `yaml:"entries"`
}

// entryDef bounds: a missing min or max leaves that side unbounded.
type entryDef struct {
	Stat    string   `yaml:"stat"`
	Initial float64  `yaml:"initial"`
	Min     *float64 `yaml:"min"`
	Max     *float64 `yaml:"max"`
}

type effectDef struct {
	Name       string            `yaml:"name"`
	Mode       string            `yaml:"mode"`
	Params     map[string]string `yaml:"params"`
	StackType  string            `yaml:"stack_type"`
	StackLevel int32             `yaml:"stack_level"`
	Modifiers  []modifierDef     `yaml:"modifiers"`
}

type modifierDef struct {
	Stat  string  `yaml:"stat"`
	Op    string  `yaml:"op"`
	Value float64 `yaml:"value"`
}
