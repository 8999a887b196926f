package content

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// frontMatter lists every key the parser recognizes. Keys outside this set
// are ignored so they never reach a Post.
type frontMatter struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Summary     string     `yaml:"summary"`
	Date        string     `yaml:"date"`
	Published   *bool      `yaml:"published"`
	Featured    bool       `yaml:"featured"`
	Tags        stringList `yaml:"tags"`
	Author      string     `yaml:"author"`
	Image       string     `yaml:"image"`
}

// stringList accepts either a YAML sequence of strings or a single scalar.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.ShortTag() == "!!null" || value.Value == "" {
			*l = nil
			return nil
		}
		*l = stringList{value.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	return fmt.Errorf("line %d: tags must be a string or a list of strings", value.Line)
}

var errUnterminated = errors.New("front matter opened with --- but never closed")

// splitFrontMatter separates a leading "---" fenced header from the body.
// Input without an opening fence has no header and is returned whole as the
// body. The newline after the closing fence is not part of the body.
func splitFrontMatter(src []byte) (header []byte, body []byte, err error) {
	src = bytes.TrimPrefix(src, []byte("\xef\xbb\xbf"))
	first, rest, _ := cutLine(src)
	if !isFence(first) {
		return nil, src, nil
	}
	start := len(src) - len(rest)
	for pos := start; pos < len(src); {
		line, next, _ := cutLine(src[pos:])
		if isFence(line) {
			return src[start:pos], next, nil
		}
		pos = len(src) - len(next)
	}
	return nil, nil, errUnterminated
}

// cutLine returns the first line of b without its terminator and the rest.
func cutLine(b []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, found
}

func isFence(line []byte) bool {
	return string(bytes.TrimRight(line, " \t")) == delimiter
}

func decodeFrontMatter(header []byte) (frontMatter, error) {
	var fm frontMatter
	if len(bytes.TrimSpace(header)) == 0 {
		return fm, nil
	}
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return fm, err
	}
	return fm, nil
}
