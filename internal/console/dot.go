package console

import (
	"regexp"
	"strings"
)

// dotCall matches "<Kind>.<method>(<args>)".
var dotCall = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\.([a-z]+)\((.*)\)$`)

// dotMethods are the commands reachable through dot syntax.
var dotMethods = map[string]bool{
	"all":     true,
	"count":   true,
	"show":    true,
	"destroy": true,
	"update":  true,
}

// rewriteDot turns `User.show("id")` into `show User "id"`. ok is false
// when line is not a dot call.
func rewriteDot(line string) (string, bool) {
	m := dotCall.FindStringSubmatch(line)
	if m == nil || !dotMethods[m[2]] {
		return "", false
	}
	kind, method, inner := m[1], m[2], strings.TrimSpace(m[3])

	var args []string
	if method == "update" && strings.Contains(inner, "{") {
		id, dict, _ := strings.Cut(inner, ",")
		args = []string{strings.TrimSpace(id), strings.TrimSpace(dict)}
	} else {
		args = splitArgs(inner)
	}
	return strings.Join(append([]string{method, kind}, args...), " "), true
}
