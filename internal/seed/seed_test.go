package seed_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/seed"
)

type fakeCreator struct {
	codes map[string]bool
	fail  bool
}

func (f *fakeCreator) CreateProgram(p *domain.Program) error {
	if f.fail {
		return errors.New("connection refused")
	}
	if f.codes[p.Code] {
		return &pgconn.PgError{Code: "23505", ConstraintName: "programs_code_key"}
	}
	f.codes[p.Code] = true
	return nil
}

func TestSeedDefaultProgramsIsIdempotent(t *testing.T) {
	r := &fakeCreator{codes: map[string]bool{}}

	inserted, skipped := seed.SeedDefaultPrograms(r)
	require.Equal(t, len(domain.DefaultPrograms), inserted)
	require.Zero(t, skipped)

	inserted, skipped = seed.SeedDefaultPrograms(r)
	require.Zero(t, inserted)
	require.Equal(t, len(domain.DefaultPrograms), skipped)

	// 参考节目表本身不能被修改
	require.Zero(t, domain.DefaultPrograms[0].ID)
}

func TestSeedRandomPrograms(t *testing.T) {
	r := &fakeCreator{codes: map[string]bool{}}
	inserted, skipped := seed.SeedRandomPrograms(r, rand.New(rand.NewSource(1)), 20)
	require.Equal(t, 20, inserted+skipped)
	require.Len(t, r.codes, inserted)
}

func TestSeedCountsOnlySuccessfulInserts(t *testing.T) {
	inserted, skipped := seed.SeedDefaultPrograms(&fakeCreator{fail: true})
	require.Zero(t, inserted)
	require.Zero(t, skipped)
}
