package defender

var scopedTypes = map[string]struct{}{
	"docker":    {},
	"cri":       {},
	"daemonset": {},
}

// InScope reports whether a Defender type is one the freshness check covers.
func InScope(defenderType string) bool {
	_, ok := scopedTypes[defenderType]
	return ok
}

// Filter returns the connected, in-scope agents in their original order.
func Filter(agents []Agent) []Agent {
	out := make([]Agent, 0, len(agents))
	for _, a := range agents {
		if a.Connected && InScope(a.Type) {
			out = append(out, a)
		}
	}
	return out
}
