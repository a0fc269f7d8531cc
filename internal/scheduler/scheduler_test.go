package scheduler_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/scheduler"
)

type SchedulerSuite struct {
	suite.Suite
	params scheduler.Parameters
}

func (s *SchedulerSuite) SetupTest() {
	s.params = scheduler.Parameters{
		PopulationSize: 100,
		Generations:    20,
		CrossoverRate:  0.8,
		MutationRate:   0.02,
	}
}

// TestEndToEnd: the reference catalog always scores 35 after one generation.
func (s *SchedulerSuite) TestEndToEnd() {
	for _, gens := range []int{1, 10} {
		p := s.params
		p.Generations = gens
		res, err := scheduler.Run(rand.New(rand.NewSource(7)), programs, ratings, p)
		require.NoError(s.T(), err)
		require.Equal(s.T(), 35.0, res.Fitness)
		requirePermutation(s.T(), programs, res.Schedule)
		require.Equal(s.T(), gens, res.Generations)
		require.Len(s.T(), res.History, gens)
	}
}

// TestDeterministicWithSeed: same seed, same inputs, same output.
func (s *SchedulerSuite) TestDeterministicWithSeed() {
	r1, err := scheduler.Run(rand.New(rand.NewSource(2024)), programs, ratings, s.params)
	require.NoError(s.T(), err)
	r2, err := scheduler.Run(rand.New(rand.NewSource(2024)), programs, ratings, s.params)
	require.NoError(s.T(), err)

	require.Equal(s.T(), r1.Schedule, r2.Schedule)
	require.Equal(s.T(), r1.Fitness, r2.Fitness)
	require.Equal(s.T(), r1.History, r2.History)
}

// TestHistoryNonDecreasing: best-so-far never gets worse.
func (s *SchedulerSuite) TestHistoryNonDecreasing() {
	res, err := scheduler.Run(rand.New(rand.NewSource(1)), programs, ratings, s.params)
	require.NoError(s.T(), err)
	for g := 1; g < len(res.History); g++ {
		require.GreaterOrEqual(s.T(), res.History[g], res.History[g-1])
	}
	require.Equal(s.T(), res.Fitness, res.History[len(res.History)-1])
}

// TestZeroRatingsStillReturnSchedule: an all-zero catalog never improves on zero
// but a schedule is still returned.
func (s *SchedulerSuite) TestZeroRatingsStillReturnSchedule() {
	zero := map[string]float64{}
	for _, p := range programs {
		zero[p] = 0
	}
	res, err := scheduler.Run(rand.New(rand.NewSource(3)), programs, zero, s.params)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 0.0, res.Fitness)
	requirePermutation(s.T(), programs, res.Schedule)
}

// TestTinyInputs: population of one and fewer than three items.
func (s *SchedulerSuite) TestTinyInputs() {
	p := scheduler.Parameters{PopulationSize: 1, Generations: 5, CrossoverRate: 1, MutationRate: 1}
	items := []string{"x", "y"}
	res, err := scheduler.Run(rand.New(rand.NewSource(5)), items, map[string]float64{"x": 1, "y": 2}, p)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 3.0, res.Fitness)
	requirePermutation(s.T(), items, res.Schedule)

	res, err = scheduler.Run(rand.New(rand.NewSource(5)), []string{"solo"}, map[string]float64{"solo": 4}, p)
	require.NoError(s.T(), err)
	require.Equal(s.T(), scheduler.Schedule{"solo"}, res.Schedule)
}

func (s *SchedulerSuite) TestInvalidInput() {
	rng := rand.New(rand.NewSource(1))

	cases := map[string]func(p *scheduler.Parameters){
		"zero population":    func(p *scheduler.Parameters) { p.PopulationSize = 0 },
		"zero generations":   func(p *scheduler.Parameters) { p.Generations = 0 },
		"negative crossover": func(p *scheduler.Parameters) { p.CrossoverRate = -0.1 },
		"mutation above one": func(p *scheduler.Parameters) { p.MutationRate = 1.5 },
	}
	for name, mutate := range cases {
		p := s.params
		mutate(&p)
		_, err := scheduler.Run(rng, programs, ratings, p)
		require.ErrorIs(s.T(), err, scheduler.ErrInvalidInput, name)
	}

	_, err := scheduler.Run(rng, nil, ratings, s.params)
	require.ErrorIs(s.T(), err, scheduler.ErrInvalidInput)

	_, err = scheduler.Run(rng, []string{"Program A", "Program A"}, ratings, s.params)
	require.ErrorIs(s.T(), err, scheduler.ErrInvalidInput)

	_, err = scheduler.Run(rng, []string{"Program A"}, map[string]float64{"Program A": -1}, s.params)
	require.ErrorIs(s.T(), err, scheduler.ErrInvalidInput)

	_, err = scheduler.New(&s.params, programs, ratings, nil)
	require.Error(s.T(), err)
}

// TestMissingRatingFailsBeforeRun: no partial result is produced.
func (s *SchedulerSuite) TestMissingRatingFailsBeforeRun() {
	res, err := scheduler.Run(rand.New(rand.NewSource(1)), append(programs[:4:4], "Program F"), ratings, s.params)
	require.ErrorIs(s.T(), err, scheduler.ErrMissingRating)
	require.Nil(s.T(), res)
}

// TestCancelledContext stops the loop.
func (s *SchedulerSuite) TestCancelledContext() {
	sch, err := scheduler.New(&s.params, programs, ratings, rand.New(rand.NewSource(1)))
	require.NoError(s.T(), err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := sch.Schedule(ctx)
	require.ErrorIs(s.T(), err, context.Canceled)
	require.Nil(s.T(), res)
}

// TestCatalogIsCopied: mutating the caller's inputs after New does not affect the run.
func (s *SchedulerSuite) TestCatalogIsCopied() {
	items := append([]string(nil), programs...)
	r := map[string]float64{}
	for k, v := range ratings {
		r[k] = v
	}

	sch, err := scheduler.New(&s.params, items, r, rand.New(rand.NewSource(9)))
	require.NoError(s.T(), err)

	items[0] = "Program X"
	delete(r, "Program C")

	res, err := sch.Schedule(context.Background())
	require.NoError(s.T(), err)
	require.Equal(s.T(), 35.0, res.Fitness)
	requirePermutation(s.T(), programs, res.Schedule)
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerSuite))
}
