package presenter_test

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/presenter"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/utils"
)

func TestCatalog(t *testing.T) {
	items, ratings := presenter.Catalog(domain.DefaultPrograms)
	require.Equal(t, []string{"Program A", "Program B", "Program C", "Program D", "Program E"}, items)
	require.Equal(t, 9.0, ratings["Program C"])
	require.Len(t, ratings, 5)
}

func TestBuildResultAndFormat(t *testing.T) {
	res := &scheduler.Result{
		Schedule:    scheduler.Schedule{"Program C", "Program A", "Program E", "Program D", "Program B"},
		Fitness:     35,
		Generations: 3,
		Evaluations: 60,
		History:     []float64{35, 35, 35},
		Duration:    1500 * time.Millisecond,
	}
	params := domain.SchedulingParameters{PopulationSize: 10, Generations: 3, CrossoverRate: 0.8, MutationRate: 0.02}

	out := presenter.BuildResult(res, domain.DefaultPrograms, params)
	require.Len(t, out.Slots, 5)
	require.Equal(t, domain.SchedulingResultSlot{Slot: 1, ProgramCode: "Program C", ProgramTitle: "Program C", Rating: 9}, out.Slots[0])
	require.Equal(t, int64(1500), out.DurationMS)
	require.Equal(t, params, out.Parameters)
	require.NoError(t, utils.ValidateSchedulingResultWithPrograms(out, domain.DefaultPrograms))

	// history is copied, not shared
	res.History[0] = -1
	require.Equal(t, 35.0, out.History[0])

	table := presenter.FormatTable(out)
	lines := strings.Split(table, "\n")
	require.True(t, strings.HasPrefix(lines[0], "Time Slot"))
	require.True(t, strings.HasPrefix(lines[1], "Slot 1"))
	require.Contains(t, lines[1], "Program C")
	require.Contains(t, table, "Total Rating (Fitness): 35")
}

// TestEngineToPresenter runs the engine over the reference catalog and renders it.
func TestEngineToPresenter(t *testing.T) {
	items, ratings := presenter.Catalog(domain.DefaultPrograms)
	res, err := scheduler.Run(rand.New(rand.NewSource(11)), items, ratings, scheduler.Parameters{
		PopulationSize: 100, Generations: 10, CrossoverRate: 0.8, MutationRate: 0.02,
	})
	require.NoError(t, err)

	out := presenter.BuildResult(res, domain.DefaultPrograms, domain.SchedulingParameters{})
	require.NoError(t, utils.ValidateSchedulingResultWithPrograms(out, domain.DefaultPrograms))
	require.Equal(t, 35.0, out.Fitness)
}
