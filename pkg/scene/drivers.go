package scene

import (
	"strconv"
	"strings"
)

// DriverTarget is the decoded form of a driver data path such as
// nodes["Math"].inputs[1].default_value.
type DriverTarget struct {
	Node      string
	HasSocket bool
	Direction Direction
	Index     int    // Socket index, or -1 when the socket is addressed by name
	SocketKey string // Socket name when addressed by name
	Property  string // Last path segment (default_value, operation, ...)
}

// ParseDriverPath decodes a driver data path. Paths that do not start inside
// the nodes collection are rejected.
func ParseDriverPath(path string) (DriverTarget, bool) {
	const prefix = `nodes[`
	if !strings.HasPrefix(path, prefix) {
		return DriverTarget{}, false
	}
	name, rest, ok := readSubscript(path[len(prefix)-1:])
	if !ok || name == "" {
		return DriverTarget{}, false
	}
	t := DriverTarget{Node: name, Index: -1}

	for _, coll := range []struct {
		prefix string
		dir    Direction
	}{{".inputs[", Input}, {".outputs[", Output}} {
		if !strings.HasPrefix(rest, coll.prefix) {
			continue
		}
		key, after, ok := readSubscript(rest[len(coll.prefix)-1:])
		if !ok {
			return DriverTarget{}, false
		}
		t.HasSocket = true
		t.Direction = coll.dir
		if i, err := strconv.Atoi(key); err == nil && !strings.HasPrefix(rest[len(coll.prefix):], `"`) {
			t.Index = i
		} else {
			t.SocketKey = key
		}
		rest = after
		break
	}

	if strings.HasPrefix(rest, ".") {
		t.Property = rest[1:]
	} else if rest != "" {
		return DriverTarget{}, false
	}
	return t, true
}

// readSubscript reads a [..] subscript at the start of s and returns its
// unquoted content and the remainder.
func readSubscript(s string) (key, rest string, ok bool) {
	if !strings.HasPrefix(s, "[") {
		return "", "", false
	}
	s = s[1:]
	if strings.HasPrefix(s, `"`) {
		var b strings.Builder
		for i := 1; i < len(s); i++ {
			switch c := s[i]; {
			case c == '\\' && i+1 < len(s):
				i++
				b.WriteByte(s[i])
			case c == '"':
				if i+1 >= len(s) || s[i+1] != ']' {
					return "", "", false
				}
				return b.String(), s[i+2:], true
			default:
				b.WriteByte(c)
			}
		}
		return "", "", false
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return "", "", false
	}
	return s[:end], s[end+1:], true
}

// DriverSocketName resolves the socket or property a driver on n targets.
// The second result is false when the driver does not belong to n or names
// a socket n does not have.
func DriverSocketName(n *Node, t DriverTarget) (string, bool) {
	if t.Node != n.ID {
		return "", false
	}
	if !t.HasSocket {
		return t.Property, t.Property != ""
	}
	sockets := n.Sockets(t.Direction)
	if t.Index >= 0 {
		if t.Index >= len(sockets) {
			return "", false
		}
		return sockets[t.Index].Name, true
	}
	for _, s := range sockets {
		if s.Identifier == t.SocketKey || s.Name == t.SocketKey {
			return s.Name, true
		}
	}
	return "", false
}
