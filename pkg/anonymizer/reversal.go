package anonymizer

// ReplacementMap records placeholder to original associations for one
// anonymization call. In label mode several originals share a placeholder;
// the forward lookup returns the first one recorded and Originals returns
// all of them in recording order.
type ReplacementMap struct {
	forward map[string][]string
	reverse map[string]string
	order   []string
}

func NewReplacementMap() *ReplacementMap {
	return &ReplacementMap{
		forward: make(map[string][]string),
		reverse: make(map[string]string),
	}
}

// ReplacementMapFromEntities rebuilds the map an anonymization call produced.
func ReplacementMapFromEntities(entities []Entity) *ReplacementMap {
	m := NewReplacementMap()
	for _, e := range sortedByStart(entities) {
		if e.Replacement == "" {
			continue
		}
		m.Record(e.Replacement, e.Text)
	}
	return m
}

func (m *ReplacementMap) Record(placeholder, original string) {
	if _, ok := m.forward[placeholder]; !ok {
		m.order = append(m.order, placeholder)
	}
	m.forward[placeholder] = append(m.forward[placeholder], original)
	if _, ok := m.reverse[original]; !ok {
		m.reverse[original] = placeholder
	}
}

func (m *ReplacementMap) Lookup(placeholder string) (string, bool) {
	originals, ok := m.forward[placeholder]
	if !ok || len(originals) == 0 {
		return "", false
	}
	return originals[0], true
}

func (m *ReplacementMap) Originals(placeholder string) []string {
	return m.forward[placeholder]
}

func (m *ReplacementMap) PlaceholderFor(original string) (string, bool) {
	p, ok := m.reverse[original]
	return p, ok
}

// Placeholders lists the placeholders in recording order.
func (m *ReplacementMap) Placeholders() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

func (m *ReplacementMap) Len() int {
	return len(m.order)
}
