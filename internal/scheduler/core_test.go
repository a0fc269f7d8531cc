package scheduler_test

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/scheduler"
)

var (
	programs = []string{"Program A", "Program B", "Program C", "Program D", "Program E"}
	ratings  = map[string]float64{
		"Program A": 8, "Program B": 5, "Program C": 9,
		"Program D": 6, "Program E": 7,
	}
)

// requirePermutation fails unless got is a permutation of items.
func requirePermutation(t *testing.T, items []string, got scheduler.Schedule) {
	t.Helper()
	require.Len(t, got, len(items))
	a := slices.Clone(items)
	b := slices.Clone([]string(got))
	slices.Sort(a)
	slices.Sort(b)
	require.Equal(t, a, b, "schedule must contain every item exactly once")
}

type OperatorsSuite struct {
	suite.Suite
	rng *rand.Rand
}

func (s *OperatorsSuite) SetupTest() {
	s.rng = rand.New(rand.NewSource(42))
}

// TestInitializePopulation: every individual is a permutation, size matches.
func (s *OperatorsSuite) TestInitializePopulation() {
	pop, err := scheduler.InitializePopulation(s.rng, programs, 50)
	require.NoError(s.T(), err)
	require.Len(s.T(), pop, 50)
	for _, sch := range pop {
		requirePermutation(s.T(), programs, sch)
	}
}

// TestInitializePopulationDoesNotAliasItems: shuffling never touches the input.
func (s *OperatorsSuite) TestInitializePopulationDoesNotAliasItems() {
	items := slices.Clone(programs)
	_, err := scheduler.InitializePopulation(s.rng, items, 10)
	require.NoError(s.T(), err)
	require.Equal(s.T(), programs, items)
}

func (s *OperatorsSuite) TestInitializePopulationInvalidInput() {
	_, err := scheduler.InitializePopulation(s.rng, nil, 10)
	require.ErrorIs(s.T(), err, scheduler.ErrInvalidInput)

	_, err = scheduler.InitializePopulation(s.rng, programs, 0)
	require.ErrorIs(s.T(), err, scheduler.ErrInvalidInput)

	_, err = scheduler.InitializePopulation(s.rng, programs, -3)
	require.ErrorIs(s.T(), err, scheduler.ErrInvalidInput)
}

// TestFitnessIsOrderIndependent: the objective is a plain sum of ratings.
func (s *OperatorsSuite) TestFitnessIsOrderIndependent() {
	f1, err := scheduler.Fitness(programs, ratings)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 35.0, f1)

	reversed := slices.Clone(programs)
	slices.Reverse(reversed)
	f2, err := scheduler.Fitness(reversed, ratings)
	require.NoError(s.T(), err)
	require.Equal(s.T(), f1, f2)
}

func (s *OperatorsSuite) TestFitnessMissingRating() {
	_, err := scheduler.Fitness(scheduler.Schedule{"Program A", "Program Z"}, ratings)
	require.ErrorIs(s.T(), err, scheduler.ErrMissingRating)

	var mre *scheduler.MissingRatingError
	require.True(s.T(), errors.As(err, &mre))
	require.Equal(s.T(), "Program Z", mre.Item)
}

// TestSelectionKeepsFitterHalf: population of two keeps exactly the fitter one.
func (s *OperatorsSuite) TestSelectionKeepsFitterHalf() {
	r := map[string]float64{"x": 1, "y": 2, "z": 10}
	weak := scheduler.Schedule{"x", "y"}
	strong := scheduler.Schedule{"z", "y"}

	selected, err := scheduler.Selection([]scheduler.Schedule{weak, strong}, r)
	require.NoError(s.T(), err)
	require.Len(s.T(), selected, 1)
	require.Equal(s.T(), strong, selected[0])
}

// TestSelectionSingleIndividual: floor(1/2) would be empty, the pool keeps one.
func (s *OperatorsSuite) TestSelectionSingleIndividual() {
	only := scheduler.Schedule(slices.Clone(programs))
	selected, err := scheduler.Selection([]scheduler.Schedule{only}, ratings)
	require.NoError(s.T(), err)
	require.Len(s.T(), selected, 1)
	require.Equal(s.T(), only, selected[0])
}

// TestSelectionStableOnTies: equal fitness keeps original order.
func (s *OperatorsSuite) TestSelectionStableOnTies() {
	pop := []scheduler.Schedule{
		{"Program A", "Program B", "Program C", "Program D", "Program E"},
		{"Program E", "Program D", "Program C", "Program B", "Program A"},
		{"Program C", "Program A", "Program B", "Program E", "Program D"},
		{"Program B", "Program C", "Program A", "Program D", "Program E"},
		{"Program D", "Program E", "Program A", "Program C", "Program B"},
	}
	selected, err := scheduler.Selection(pop, ratings)
	require.NoError(s.T(), err)
	require.Equal(s.T(), pop[:2], selected)
}

func (s *OperatorsSuite) TestSelectionMissingRating() {
	pop := []scheduler.Schedule{{"Program A"}, {"Program Q"}}
	_, err := scheduler.Selection(pop, ratings)
	require.ErrorIs(s.T(), err, scheduler.ErrMissingRating)
}

// TestCrossoverProducesPermutation over many random parent pairs.
func (s *OperatorsSuite) TestCrossoverProducesPermutation() {
	pop, err := scheduler.InitializePopulation(s.rng, programs, 200)
	require.NoError(s.T(), err)

	for i := 0; i+1 < len(pop); i += 2 {
		child := scheduler.Crossover(s.rng, pop[i], pop[i+1])
		requirePermutation(s.T(), programs, child)
	}
}

// TestCrossoverKeepsParentPrefix: the child starts with a non-empty, non-full prefix of parent1
// and the rest follows parent2's order.
func (s *OperatorsSuite) TestCrossoverKeepsParentPrefix() {
	p1 := scheduler.Schedule{"Program A", "Program B", "Program C", "Program D", "Program E"}
	p2 := scheduler.Schedule{"Program E", "Program D", "Program C", "Program B", "Program A"}

	for range 100 {
		child := scheduler.Crossover(s.rng, p1, p2)

		point := 0
		for point < len(child) && child[point] == p1[point] {
			point++
		}
		require.GreaterOrEqual(s.T(), point, 1)

		// p2 is p1 reversed, so the suffix must be the remaining items in descending order.
		suffix := child[point:]
		for k := 1; k < len(suffix); k++ {
			require.Less(s.T(), slices.Index(p2, suffix[k-1]), slices.Index(p2, suffix[k]))
		}
		require.GreaterOrEqual(s.T(), len(suffix), 1)
	}
}

// TestCrossoverDegenerate: N < 3 has no interior cut point and clones parent1.
func (s *OperatorsSuite) TestCrossoverDegenerate() {
	p1 := scheduler.Schedule{"x", "y"}
	p2 := scheduler.Schedule{"y", "x"}
	child := scheduler.Crossover(s.rng, p1, p2)
	require.Equal(s.T(), p1, child)

	child[0] = "changed"
	require.Equal(s.T(), "x", p1[0], "child must not alias parent1")

	single := scheduler.Crossover(s.rng, scheduler.Schedule{"x"}, scheduler.Schedule{"x"})
	require.Equal(s.T(), scheduler.Schedule{"x"}, single)
}

// TestMutatePreservesPermutation for the whole rate range.
func (s *OperatorsSuite) TestMutatePreservesPermutation() {
	for _, rate := range []float64{0, 0.01, 0.05, 0.5, 1} {
		for range 50 {
			in := scheduler.Schedule(slices.Clone(programs))
			out := scheduler.Mutate(s.rng, in, rate)
			requirePermutation(s.T(), programs, out)
			require.Equal(s.T(), scheduler.Schedule(programs), in, "input must not be modified")
		}
	}
}

func (s *OperatorsSuite) TestMutateZeroRateIsIdentity() {
	in := scheduler.Schedule(slices.Clone(programs))
	out := scheduler.Mutate(s.rng, in, 0)
	require.Equal(s.T(), in, out)
}

func TestOperatorsSuite(t *testing.T) {
	suite.Run(t, new(OperatorsSuite))
}
