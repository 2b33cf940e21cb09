package session

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// Known hint attributes. Matching against a fixed set keeps unknown-attribute
// detection exhaustive instead of silently non-matching.
const (
	attrName     = "name"
	attrClass    = "class"
	attrDesktop  = "desktop"
	attrGeometry = "geometry"
	attrPosition = "position"
)

var knownAttributes = []string{attrName, attrClass, attrDesktop, attrGeometry, attrPosition}

type compiledHint struct {
	attr    string
	pattern *regexp.Regexp
}

// compileHints validates and compiles a spec's hints. Patterns are standard Go
// regular expressions, case-sensitive, matched anywhere in the attribute
// value; use ^ and $ for an exact match. An unknown attribute name or an
// invalid pattern is a ConfigurationError.
func compileHints(spec WindowSpec) ([]compiledHint, error) {
	switch spec.HintMethod {
	case "", HintMethodAnd, HintMethodOr:
	default:
		return nil, &ConfigurationError{
			Window: spec.Name,
			Err:    fmt.Errorf("unknown hint_method %q (expected AND or OR)", spec.HintMethod),
		}
	}

	attrs := make([]string, 0, len(spec.Hints))
	for attr := range spec.Hints {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)

	hints := make([]compiledHint, 0, len(attrs))
	for _, attr := range attrs {
		if !isKnownAttribute(attr) {
			return nil, &ConfigurationError{
				Window: spec.Name,
				Err:    fmt.Errorf("unknown hint attribute %q (expected one of %v)", attr, knownAttributes),
			}
		}
		pattern, err := regexp.Compile(spec.Hints[attr])
		if err != nil {
			return nil, &ConfigurationError{
				Window: spec.Name,
				Err:    fmt.Errorf("hint %q: %w", attr, err),
			}
		}
		hints = append(hints, compiledHint{attr: attr, pattern: pattern})
	}
	return hints, nil
}

func isKnownAttribute(attr string) bool {
	for _, known := range knownAttributes {
		if attr == known {
			return true
		}
	}
	return false
}

// attributeValue returns the record attribute a hint matches against. An empty
// name or class is treated as absent.
func attributeValue(record WindowRecord, attr string) (string, bool) {
	switch attr {
	case attrName:
		return record.Name, record.Name != ""
	case attrClass:
		return record.Class, record.Class != ""
	case attrDesktop:
		return strconv.Itoa(record.Desktop), true
	case attrGeometry:
		return fmt.Sprintf("%dx%d", record.Geometry.Width, record.Geometry.Height), true
	case attrPosition:
		return fmt.Sprintf("%d,%d", record.Position.X, record.Position.Y), true
	default:
		return "", false
	}
}

// matches reports whether a record satisfies a compiled hint set. Absent
// attributes never match. With no hints at all the record trivially matches;
// the resolver is responsible for the degraded hint-less ordering.
func matches(record WindowRecord, hints []compiledHint, method HintMethod) bool {
	if len(hints) == 0 {
		return true
	}
	for _, hint := range hints {
		value, ok := attributeValue(record, hint.attr)
		matched := ok && hint.pattern.MatchString(value)
		if method == HintMethodOr {
			if matched {
				return true
			}
			continue
		}
		if !matched {
			return false
		}
	}
	return method != HintMethodOr
}
