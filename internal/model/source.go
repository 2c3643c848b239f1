// Package model defines the data structures shared by the migration engine.
package model

import (
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// Dialect identifies which syntax adapter understands a file.
type Dialect string

const (
	// DialectStylesheet covers CSS and SCSS sources.
	DialectStylesheet Dialect = "stylesheet"

	// DialectScript covers TypeScript, TSX and JavaScript sources whose string
	// literals carry style references.
	DialectScript Dialect = "script"

	// DialectUnknown is returned for extensions no adapter handles.
	DialectUnknown Dialect = ""
)

var dialectByExt = map[string]Dialect{
	".css":  DialectStylesheet,
	".scss": DialectStylesheet,
	".ts":   DialectScript,
	".tsx":  DialectScript,
	".js":   DialectScript,
	".jsx":  DialectScript,
	".mjs":  DialectScript,
}

// Ext returns the lower-cased extension of the path, including the dot.
func (p Path) Ext() string {
	return strings.ToLower(filepath.Ext(string(p)))
}

// DialectOf reports the dialect for the path's extension.
func DialectOf(path Path) Dialect {
	return dialectByExt[path.Ext()]
}

// Source is a single file loaded for migration.
type Source struct {
	Path    Path
	Content []byte
	Hash    string
}

// Options is recognized by every migration entry point.
type Options struct {
	// Namespace replaces the file path as the selector subject when set.
	Namespace string `yaml:"namespace,omitempty"`
	// ReplacementMaps points to a YAML replacement-map file for migrations
	// that take their rules from the caller.
	ReplacementMaps Path `yaml:"replacement_maps,omitempty"`
}
