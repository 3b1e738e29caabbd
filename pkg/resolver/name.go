package resolver

import "strings"

// MaxNameLen is the maximum length of a single path component in bytes.
const MaxNameLen = 255

// Name is a single path component.
//
// Names are compared byte-exactly (case-sensitive), contain no separator or
// NUL byte and are never empty. "." and ".." are ordinary names at this
// layer; whether they resolve is up to the store.
type Name string

// ParseName validates s as a single path component.
func ParseName(s string) (Name, error) {
	if s == "" {
		return "", NewInvalidArgumentError("name must not be empty")
	}
	if len(s) > MaxNameLen {
		return "", NewNameTooLongError(s)
	}
	if strings.ContainsAny(s, "/\x00") {
		return "", NewInvalidArgumentError("name must not contain '/' or NUL")
	}
	return Name(s), nil
}

// Path is an ordered sequence of names rooted at "/".
// A zero-length Path denotes the root itself.
type Path []Name

// ParsePath parses an absolute slash-delimited path string.
//
// The path must begin with '/'. Repeated separators are collapsed, so
// "/a//b/" parses the same as "/a/b". A relative path is rejected with an
// InvalidArgument error; component validation failures propagate from
// ParseName.
func ParsePath(s string) (Path, error) {
	if s == "" || s[0] != '/' {
		return nil, NewInvalidArgumentError("path must be absolute")
	}

	var p Path
	for _, seg := range strings.Split(s, "/") {
		if seg == "" {
			continue
		}
		name, err := ParseName(seg)
		if err != nil {
			return nil, err
		}
		p = append(p, name)
	}
	return p, nil
}

// String reassembles the path into its canonical absolute form.
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, name := range p {
		sb.WriteByte('/')
		sb.WriteString(string(name))
	}
	return sb.String()
}
