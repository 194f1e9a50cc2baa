package platform

// Rule maps a platform to a resource path. Zero Arch or Bitness fields
// match any value; OS must always be set.
type Rule struct {
	Path    string
	OS      OS
	Arch    Arch
	Bitness Bitness
}

func (r Rule) matches(h Host) bool {
	if r.OS == OSUnknown || r.OS != h.OS {
		return false
	}

	if r.Arch != ArchUnknown && r.Arch != h.Arch {
		return false
	}

	if r.Bitness != BitnessUnknown && r.Bitness != h.Bitness {
		return false
	}

	return true
}

// Table is an ordered list of rules. The first matching rule wins.
type Table []Rule

// Lookup returns the path of the first rule matching h. It reports false
// when no rule matches, including for any host with an unknown OS.
func (t Table) Lookup(h Host) (string, bool) {
	for _, r := range t {
		if r.matches(h) {
			return r.Path, true
		}
	}

	return "", false
}
