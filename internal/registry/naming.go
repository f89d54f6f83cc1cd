package registry

import (
	"strconv"
	"strings"
)

// sessionPrefix is the literal prefix every daemon-owned multiplexer
// session name carries. It is the only persisted state between daemon
// restarts (spec §3, §9): the multiplexer's session list is parsed back
// into registry entries using this exact contract.
const sessionPrefix = "loom-"

// Name builds the multiplexer session name for id, optionally tagging it
// with a role and instance index. Without role/instance this produces the
// older "loom-<id>" form; with them, the newer "loom-<id>-<role>-<instance>"
// form (spec §3, Open Question). Both forms parse back to id via ParseID.
func Name(id, role string, instance int) string {
	if role == "" {
		return sessionPrefix + id
	}
	return sessionPrefix + id + "-" + role + "-" + strconv.Itoa(instance)
}

// ParseID extracts the id from a multiplexer session name. It recognizes
// anything beginning with "loom-"; the id is the segment up to (but not
// including) the next hyphen, and everything after that is preserved
// verbatim by the caller but not interpreted here (spec §4.3, §9).
func ParseID(sessionName string) (id string, ok bool) {
	rest, found := strings.CutPrefix(sessionName, sessionPrefix)
	if !found || rest == "" {
		return "", false
	}
	if idx := strings.IndexByte(rest, '-'); idx >= 0 {
		return rest[:idx], true
	}
	return rest, true
}

// HasPrefix reports whether name is a daemon-owned session name.
func HasPrefix(name string) bool {
	return strings.HasPrefix(name, sessionPrefix)
}
