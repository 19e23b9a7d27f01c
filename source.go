package fontatlas

import (
	"fmt"
	"os"

	"github.com/flopp/go-findfont"
)

// resolveSource returns the path of an outline font source. A source that is
// not an existing file is looked up by name among the system fonts.
func resolveSource(source string) (string, error) {
	if source == "" {
		return "", fmt.Errorf("%w: empty font source", ErrSourceUnavailable)
	}
	if fi, err := os.Stat(source); err == nil && !fi.IsDir() {
		return source, nil
	}
	path, err := findfont.Find(source)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrSourceUnavailable, source, err)
	}
	Logger().Debug("fontatlas: resolved system font", "source", source, "path", path)
	return path, nil
}
