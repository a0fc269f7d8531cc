package utils_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/utils"
)

func TestGenerateProgramCode(t *testing.T) {
	require.Equal(t, "xin-wen-lian-bo", utils.GenerateProgramCode("新闻联播"))
	require.Equal(t, "program-a", utils.GenerateProgramCode("Program A"))
	require.Equal(t, "cctv-xin-wen", utils.GenerateProgramCode("CCTV新闻"))
}

func TestGenerateRandomProgram(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for range 20 {
		p := utils.GenerateRandomProgram(rng)
		require.NoError(t, utils.ValidateProgram(p))
		require.GreaterOrEqual(t, p.Rating, 1.0)
		require.LessOrEqual(t, p.Rating, 10.0)
	}
}

func TestGenerateRandomID(t *testing.T) {
	id := utils.GenerateRandomID(rand.New(rand.NewSource(1)), 3, 4)
	require.Len(t, id, 7)
	for _, r := range id[3:] {
		require.True(t, r >= '0' && r <= '9')
	}
}
