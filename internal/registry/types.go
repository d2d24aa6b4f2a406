package registry

// TypeChecker decides whether an output channel may feed an input channel.
type TypeChecker interface {
	// Classify reports whether out connects to in strictly (identical or
	// adapted types) or only dynamically.
	Classify(out *OutputSignal, in *InputSignal) (strict, dynamic bool)
}

// TypeSystem is a TypeChecker over string type names plus declared adapters.
// The zero value accepts identical types only.
type TypeSystem struct {
	adapters map[string]map[string]struct{}
}

var _ TypeChecker = (*TypeSystem)(nil)

// NewTypeSystem returns an empty type system.
func NewTypeSystem() *TypeSystem {
	return &TypeSystem{adapters: make(map[string]map[string]struct{})}
}

func (t *TypeSystem) addAdapter(from, to string) {
	if t.adapters == nil {
		t.adapters = make(map[string]map[string]struct{})
	}
	if t.adapters[from] == nil {
		t.adapters[from] = make(map[string]struct{})
	}
	t.adapters[from][to] = struct{}{}
}

// Convertible reports whether values of type from may be delivered to a
// channel of type to.
func (t *TypeSystem) Convertible(from, to string) bool {
	if from == to {
		return true
	}
	if t == nil || t.adapters == nil {
		return false
	}
	_, ok := t.adapters[from][to]
	return ok
}

// Classify implements TypeChecker.
func (t *TypeSystem) Classify(out *OutputSignal, in *InputSignal) (strict, dynamic bool) {
	if t.Convertible(out.Type, in.Type) {
		return true, false
	}
	if out.Dynamic() && t.Convertible(in.Type, out.Type) {
		return false, true
	}
	return false, false
}

// Adapters lists every declared (from, to) pair.
func (t *TypeSystem) Adapters() [][2]string {
	var pairs [][2]string
	for from, tos := range t.adapters {
		for to := range tos {
			pairs = append(pairs, [2]string{from, to})
		}
	}
	return pairs
}
