package stage

import "strings"

// PathSep separates segments of prim and joint paths.
const PathSep = "/"

// ParentPath returns the path with its last segment removed.
// The root path "/" and single-segment names return "".
func ParentPath(path string) string {
	i := strings.LastIndex(path, PathSep)
	switch {
	case i < 0:
		return ""
	case i == 0:
		if path == PathSep {
			return ""
		}
		return PathSep
	default:
		return path[:i]
	}
}

// BaseName returns the last segment of the path.
func BaseName(path string) string {
	i := strings.LastIndex(path, PathSep)
	if i < 0 {
		return path
	}
	return path[i+1:]
}

// JoinPath appends a child segment to a parent path.
func JoinPath(parent, name string) string {
	if parent == "" || parent == PathSep {
		return PathSep + name
	}
	return parent + PathSep + name
}

// SplitPath breaks an absolute path into its segments.
func SplitPath(path string) []string {
	trimmed := strings.Trim(path, PathSep)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, PathSep)
}
