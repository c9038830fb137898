package bnfuzz

// ClusterSize is the number of operand slots in a Cluster. It is fixed even
// for ops that read fewer slots.
const ClusterSize = 4

// Cluster holds the borrowed native operands of one op invocation.
//
// Every read through At consults the Source: it draws a bool, and if that
// is true, draws a byte and takes slot byte%ClusterSize instead of the
// requested slot, but only if the two slots hold equal values. The library
// under test therefore sometimes sees the same object passed for two
// parameters, while the operation's meaning is unchanged. An exhausted
// Source never substitutes.
type Cluster[N any] struct {
	src     *Source
	equal   func(a, b N) bool
	slots   [ClusterSize]N
	rewired int
}

// NewCluster builds a cluster over slots. equal should be the library's own
// comparison. A nil src never substitutes.
func NewCluster[N any](src *Source, equal func(a, b N) bool, slots [ClusterSize]N) *Cluster[N] {
	return &Cluster[N]{src: src, equal: equal, slots: slots}
}

// At returns the operand for slot index, possibly an equal operand from
// another slot. An index outside [0, ClusterSize) panics.
func (c *Cluster[N]) At(index int) N {
	if index < 0 || index >= ClusterSize {
		panic("bnfuzz: cluster index out of range")
	}
	if c.src == nil {
		return c.slots[index]
	}
	if rewire, err := c.src.Bool(); err != nil || !rewire {
		return c.slots[index]
	}
	b, err := c.src.Uint8()
	if err != nil {
		return c.slots[index]
	}
	alt := int(b) % ClusterSize
	if alt != index && c.equal(c.slots[alt], c.slots[index]) {
		c.rewired++
		return c.slots[alt]
	}
	return c.slots[index]
}

// Slot returns slot index without consulting the Source, for ops that
// write into an operand.
func (c *Cluster[N]) Slot(index int) N {
	if index < 0 || index >= ClusterSize {
		panic("bnfuzz: cluster index out of range")
	}
	return c.slots[index]
}

// Rewired returns how many reads through At were substituted.
func (c *Cluster[N]) Rewired() int { return c.rewired }
