package engine

import (
	"fmt"
	"strings"
)

// Issue codes shared with the public package. The root package maps these to
// its exported error kinds; the engine only ever reports codes.
const (
	CodeInvalidTarget = "invalid_target"
	CodeInvalidSource = "invalid_source"
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeCyclicSchema  = "cyclic_schema"
	CodeMaxDepth      = "max_depth"
)

// IssueError is the engine-level structured failure. The public package
// translates it into its Issue/Issues model; the engine never wraps or
// collects, the first violation aborts the call.
type IssueError struct {
	Path    string
	Code    string
	Message string
	Params  map[string]any
}

func (e IssueError) Error() string {
	p := e.Path
	if p == "" {
		p = "/"
	}
	if e.Message == "" {
		return e.Code + " at " + p
	}
	return e.Code + " at " + p + ": " + e.Message
}

func issueAt(path, code, msg string, kv ...any) IssueError {
	ie := IssueError{Path: path, Code: code, Message: msg}
	if len(kv) > 0 {
		ie.Params = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			ie.Params[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	if ie.Path == "" {
		ie.Path = "/"
	}
	return ie
}

// escapePointer escapes a single JSON Pointer segment per RFC 6901
// ('~' -> '~0', '/' -> '~1').
func escapePointer(seg string) string {
	if !strings.ContainsAny(seg, "~/") {
		return seg
	}
	return strings.ReplaceAll(strings.ReplaceAll(seg, "~", "~0"), "/", "~1")
}

func childPath(base, seg string) string {
	return base + "/" + escapePointer(seg)
}
