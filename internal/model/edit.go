package model

// Edit replaces Source[Start:End] with Text.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Skip records an occurrence that matched a rule but was left untouched.
type Skip struct {
	Line   int    `yaml:"line"`
	Column int    `yaml:"column"`
	Text   string `yaml:"text"`
	Reason string `yaml:"reason"`
}

// Outcome is the result of migrating one source.
type Outcome struct {
	Output  []byte
	Changed bool
	Edits   []Edit
	Skips   []Skip
	// Ignored is true when a file-level directive excluded the source.
	Ignored bool
}
