package particle

// ColumnStore is a minimal in-memory Store, used by tests and the
// example driver. Real simulation codes keep their own
// particle buffer and only need to implement Store.
type ColumnStore struct {
	dims int

	pos [3][]float64
	mom [3][]float64

	weight []float64
	charge []int
	tau    []float64
	chi    []float64
	keys   []int

	hasChi bool
	hasTau bool
}

// NewColumnStore allocates an empty store for the given spatial
// dimensionality and capability flags.
func NewColumnStore(dims int, hasQuantumParameter, hasMonteCarlo bool) *ColumnStore {
	return &ColumnStore{
		dims:   dims,
		hasChi: hasQuantumParameter,
		hasTau: hasMonteCarlo,
	}
}

func (c *ColumnStore) Len() int { return len(c.weight) }

func (c *ColumnStore) Position(d int) []float64 { return c.pos[d] }
func (c *ColumnStore) Momentum(d int) []float64 { return c.mom[d] }
func (c *ColumnStore) Weight() []float64        { return c.weight }
func (c *ColumnStore) Charge() []int             { return c.charge }
func (c *ColumnStore) Tau() []float64            { return c.tau }
func (c *ColumnStore) Chi() []float64            { return c.chi }
func (c *ColumnStore) CellKeys() []int           { return c.keys }

func (c *ColumnStore) Dimensions() int          { return c.dims }
func (c *ColumnStore) HasQuantumParameter() bool { return c.hasChi }
func (c *ColumnStore) HasMonteCarlo() bool       { return c.hasTau }

func (c *ColumnStore) CreateParticles(n int) {
	for d := 0; d < c.dims; d++ {
		c.pos[d] = append(c.pos[d], make([]float64, n)...)
	}
	for d := 0; d < 3; d++ {
		c.mom[d] = append(c.mom[d], make([]float64, n)...)
	}
	c.weight = append(c.weight, make([]float64, n)...)
	c.charge = append(c.charge, make([]int, n)...)
	c.keys = append(c.keys, make([]int, n)...)
	if c.hasTau {
		tau := make([]float64, n)
		for i := range tau {
			tau[i] = TauUnset
		}
		c.tau = append(c.tau, tau...)
	}
	if c.hasChi {
		c.chi = append(c.chi, make([]float64, n)...)
	}
}

// AppendParticle is a test/driver convenience that creates one slot and
// fills it from the given fields, returning its index.
func (c *ColumnStore) AppendParticle(pos, mom [3]float64, weight float64, charge int) int {
	i := c.Len()
	c.CreateParticles(1)
	for d := 0; d < c.dims; d++ {
		c.pos[d][i] = pos[d]
	}
	for d := 0; d < 3; d++ {
		c.mom[d][i] = mom[d]
	}
	c.weight[i] = weight
	c.charge[i] = charge
	c.keys[i] = i
	return i
}
