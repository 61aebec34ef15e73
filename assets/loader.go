// Package assets deals with the filesystem side of styling: loading
// stylesheets, resolving resource paths mentioned in them and watching
// loaded sheets for edits.
package assets

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"ecss/css"
)

// Loader reads and parses stylesheets relative to a root directory. It also
// doubles as the engine's asset resolver, answering path lookups for fonts
// and images.
type Loader struct {
	log    *zap.Logger
	parser *css.Parser
	root   string
}

func NewLoader(root string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		log:    log.Named("assets"),
		parser: css.NewParser(log),
		root:   root,
	}
}

// Load reads and parses one stylesheet. The returned sheet carries a fresh
// identity even when the file content did not change, so reloading always
// invalidates downstream caches.
func (l *Loader) Load(path string) (*css.Stylesheet, error) {
	full := l.abs(path)
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("unable to read stylesheet: %w", err)
	}
	sheet := l.parser.Parse(data, path)
	l.log.Debug("stylesheet loaded",
		zap.String("path", path),
		zap.Int("rules", len(sheet.Rules)),
		zap.Int("diagnostics", len(sheet.Diagnostics)))
	return sheet, nil
}

// Resolve implements the engine's asset lookup. It verifies the path exists
// under the loader root and hands back the absolute location.
func (l *Loader) Resolve(path string) (any, error) {
	full := l.abs(path)
	if _, err := os.Stat(full); err != nil {
		return nil, fmt.Errorf("unable to resolve asset %q: %w", path, err)
	}
	return full, nil
}

func (l *Loader) abs(path string) string {
	if filepath.IsAbs(path) || l.root == "" {
		return path
	}
	return filepath.Join(l.root, path)
}
