package decomposition

// DefaultEpsilon is the threshold below which an amount counts as zero.
// It suppresses spurious near-zero rows from floating-point noise.
const DefaultEpsilon = 1e-9

// Allocation is the result of decomposing one cell's baseline/actual pair.
type Allocation struct {
	Flows      []SwitchFlow
	Efficiency Series
	Remaining  Series

	TotalDecrease float64
	TotalIncrease float64
	Matched       float64
}

// Allocator decomposes per-fuel deltas between a baseline and an actual
// series into pairwise switch flows plus efficiency and remaining residuals.
// It is a pure function of its inputs.
type Allocator struct {
	epsilon float64
}

// NewAllocator constructs an Allocator. A non-positive epsilon falls back to
// DefaultEpsilon.
func NewAllocator(epsilon float64) Allocator {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return Allocator{epsilon: epsilon}
}

// Allocate decomposes the difference between baseline and actual for one
// cell. Fuels missing from either series are treated as zero. Every source's
// outgoing flow is proportional to its share of the total decrease and every
// sink's incoming flow to its share of the total increase, so flows sum
// exactly to the matched volume. Decrease without a compensating increase
// becomes efficiency improvement; actual consumption not fed by a switch
// becomes remaining consumption, which also absorbs any increase in excess
// of the total decrease.
func (a Allocator) Allocate(baseline, actual Series) (Allocation, error) {
	if err := baseline.Validate(); err != nil {
		return Allocation{}, err
	}
	if err := actual.Validate(); err != nil {
		return Allocation{}, err
	}

	eps := a.epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}

	fuels := unionFuels(baseline, actual)
	delta := make(Series, len(fuels))
	var sources, sinks []string
	var totalDecrease, totalIncrease float64
	for _, fuel := range fuels {
		d := baseline[fuel] - actual[fuel]
		if d > -eps && d < eps {
			d = 0
		}
		delta[fuel] = d
		switch {
		case d > 0:
			sources = append(sources, fuel)
			totalDecrease += d
		case d < 0:
			sinks = append(sinks, fuel)
			totalIncrease += -d
		}
	}

	matched := totalDecrease
	if totalIncrease < matched {
		matched = totalIncrease
	}
	if len(sources) == 0 || len(sinks) == 0 {
		matched = 0
	}

	alloc := Allocation{
		Efficiency:    make(Series),
		Remaining:     make(Series),
		TotalDecrease: totalDecrease,
		TotalIncrease: totalIncrease,
		Matched:       matched,
	}

	incoming := make(Series, len(sinks))
	if matched > 0 {
		for _, from := range sources {
			for _, to := range sinks {
				amount := matched * (delta[from] / totalDecrease) * (-delta[to] / totalIncrease)
				if amount <= eps {
					continue
				}
				alloc.Flows = append(alloc.Flows, SwitchFlow{FromFuel: from, ToFuel: to, Amount: amount})
				incoming[to] += amount
			}
		}
	}

	if totalDecrease > 0 {
		unmatched := totalDecrease - totalIncrease
		if unmatched > 0 {
			for _, fuel := range sources {
				saved := delta[fuel] * unmatched / totalDecrease
				if saved > eps {
					alloc.Efficiency[fuel] = saved
				}
			}
		}
	}

	for _, fuel := range fuels {
		remaining := actual[fuel] - incoming[fuel]
		if remaining <= eps {
			continue
		}
		alloc.Remaining[fuel] = remaining
	}

	return alloc, nil
}
