package content

import (
	"errors"
	"fmt"

	"github.com/go-i2p/weblog/locale"
)

// ErrInvalidDate is returned by ParseDate for strings that are not in one of
// the accepted ISO-8601 layouts.
var ErrInvalidDate = errors.New("content: invalid date")

// ErrUnsupportedLocale is returned when a repository is asked for a locale
// outside its locale set.
var ErrUnsupportedLocale = locale.ErrUnsupported

// ReadError reports a content file that does not exist or cannot be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("ReadError: %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// FrontMatterError reports a header block that is unterminated or is not
// valid YAML for the recognized keys.
type FrontMatterError struct {
	Path string
	Err  error
}

func (e *FrontMatterError) Error() string {
	return fmt.Sprintf("FrontMatterError: %s: %v", e.Path, e.Err)
}

func (e *FrontMatterError) Unwrap() error { return e.Err }
