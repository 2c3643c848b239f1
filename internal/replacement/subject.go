package replacement

import (
	"path/filepath"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

// SelectSubject returns the string used to pick a selector: the namespace
// option verbatim when set, otherwise the cleaned, slash-separated path.
func SelectSubject(path m.Path, opts m.Options) string {
	if opts.Namespace != "" {
		return opts.Namespace
	}

	if path == "" {
		return ""
	}

	return filepath.ToSlash(filepath.Clean(string(path)))
}
