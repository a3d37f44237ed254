// Package extract recovers command declarations from annotated methods
// on types that embed a command-module marker type.
package extract

// CommandModule is one recognized module type and its commands, in
// declaration order.
type CommandModule struct {
	Name     string    `yaml:"name"` // qualified declared name
	Path     string    `yaml:"path"` // repository-relative source path
	Commands []Command `yaml:"commands"`
}

// Command is one annotated method exposed as an invocable action. Name
// stays empty when the annotation did not resolve one.
type Command struct {
	Location    string     `yaml:"location"` // marker-relative path with 1-based line span
	File        string     `yaml:"file"`     // repository-relative path for permalinks
	StartLine   int        `yaml:"startLine"`
	EndLine     int        `yaml:"endLine"`
	Method      string     `yaml:"method"` // declared method name
	Name        string     `yaml:"name,omitempty"`
	Description string     `yaml:"description,omitempty"`
	Aliases     []string   `yaml:"aliases,omitempty"`
	Custom      []string   `yaml:"custom,omitempty"` // annotation names the extractor defers
	Arguments   []Argument `yaml:"arguments,omitempty"`
}

// Argument is one recognized method parameter.
type Argument struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"` // declared type, as written
	Optional    bool     `yaml:"optional,omitempty"`
	Remaining   bool     `yaml:"remaining,omitempty"`
	DefaultText string   `yaml:"default,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Custom      []string `yaml:"custom,omitempty"`
}
