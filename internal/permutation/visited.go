package permutation

// VisitedSet holds the keys proposed since the last accepted move.
type VisitedSet struct {
	seen map[Permutation]struct{}
}

func NewVisitedSet() *VisitedSet {
	return &VisitedSet{seen: make(map[Permutation]struct{})}
}

func (v *VisitedSet) Add(p Permutation) {
	v.seen[p] = struct{}{}
}

func (v *VisitedSet) Contains(p Permutation) bool {
	_, ok := v.seen[p]
	return ok
}

// Clear empties the set. Called on every acceptance.
func (v *VisitedSet) Clear() {
	clear(v.seen)
}

func (v *VisitedSet) Len() int {
	return len(v.seen)
}
