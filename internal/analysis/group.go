package analysis

// ordered accumulates values per key and remembers the order in which keys
// were first seen. Iteration order is therefore deterministic and matches
// the input, which is what the argmax tie-break relies on.
type ordered[A any] struct {
	keys []string
	idx  map[string]int
	acc  []A
}

func newOrdered[A any]() *ordered[A] {
	return &ordered[A]{idx: map[string]int{}}
}

// at returns the accumulator for key, creating a zero value on first use.
func (o *ordered[A]) at(key string) *A {
	i, ok := o.idx[key]
	if !ok {
		i = len(o.acc)
		o.idx[key] = i
		o.keys = append(o.keys, key)
		var zero A
		o.acc = append(o.acc, zero)
	}
	return &o.acc[i]
}

func (o *ordered[A]) len() int { return len(o.keys) }

// argmax returns the index of the largest element; on ties the earliest
// index wins. It returns -1 for n == 0.
func argmax(n int, greater func(i, j int) bool) int {
	best := -1
	for i := 0; i < n; i++ {
		if best < 0 || greater(i, best) {
			best = i
		}
	}
	return best
}
