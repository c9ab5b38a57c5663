package settings

import (
	"testing"

	"github.com/aristath/wealthplan/internal/modules/projection"
	testhelpers "github.com/aristath/wealthplan/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	db, cleanup := testhelpers.NewTestDB(t, "settings")
	t.Cleanup(cleanup)

	log := zerolog.New(nil).Level(zerolog.Disabled)
	repo := NewRepository(db.Conn(), log)
	return NewService(repo, log), repo
}

func TestRepositoryTypedAccessors(t *testing.T) {
	_, repo := newTestService(t)

	v, err := repo.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	f, err := repo.GetFloat("missing", 1.5)
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)

	require.NoError(t, repo.SetFloat("ratio", 0.25))
	f, err = repo.GetFloat("ratio", 0)
	require.NoError(t, err)
	assert.Equal(t, 0.25, f)

	require.NoError(t, repo.Set("count", "12.0", nil))
	n, err := repo.GetInt("count", 0)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	require.NoError(t, repo.Set("flag", "yes", nil))
	b, err := repo.GetBool("flag", false)
	require.NoError(t, err)
	assert.True(t, b)

	require.NoError(t, repo.Set("junk", "abc", nil))
	f, err = repo.GetFloat("junk", 3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, f, "unparsable values fall back to the default")

	require.NoError(t, repo.Delete("flag"))
	b, err = repo.GetBool("flag", false)
	require.NoError(t, err)
	assert.False(t, b)
}

func TestGetAllMergesDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	all, err := svc.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, len(SettingDefaults))
	assert.Equal(t, "standard-v1", all[KeyWeightSet])
	assert.Equal(t, 2.33, all[KeyRiskZScore])

	require.NoError(t, svc.Set(KeyRiskZScore, 1.65))
	require.NoError(t, svc.Set(KeySuccessEstimator, "monte-carlo"))

	all, err = svc.GetAll()
	require.NoError(t, err)
	assert.Equal(t, 1.65, all[KeyRiskZScore])
	assert.Equal(t, "monte-carlo", all[KeySuccessEstimator])
}

func TestSetValidation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{"unknown key", "trading_mode", "live"},
		{"unknown weight set", KeyWeightSet, "aggressive-v9"},
		{"string setting with number", KeyWeightSet, 1.0},
		{"unknown estimator", KeySuccessEstimator, "oracle"},
		{"bad horizons", KeyProjectionHorizons, "1,x"},
		{"negative horizon", KeyProjectionHorizons, "-5"},
		{"zero z-score", KeyRiskZScore, 0.0},
		{"too many trials", KeyMonteCarloTrials, 5_000_000.0},
		{"non-binary toggle", KeyIncludeAlternatives, 0.5},
		{"unsupported type", KeyRiskTailMultiplier, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, svc.Set(tt.key, tt.value))
		})
	}

	assert.NoError(t, svc.Set(KeyIncludeAlternatives, false))
	assert.NoError(t, svc.Set(KeyMonteCarloTrials, "500"))
}

func TestGetFallsBackToDefault(t *testing.T) {
	svc, repo := newTestService(t)

	require.NoError(t, repo.Set(KeyRiskDownsideFactor, "garbage", nil))
	v, err := svc.Get(KeyRiskDownsideFactor)
	require.NoError(t, err)
	assert.Equal(t, 0.7, v)

	_, err = svc.Get("nope")
	assert.Error(t, err)
}

func TestEngineParams(t *testing.T) {
	svc, _ := newTestService(t)

	params, err := svc.EngineParams()
	require.NoError(t, err)
	assert.Equal(t, DefaultEngineParams(), params)

	require.NoError(t, svc.Set(KeySuccessEstimator, projection.EstimatorMonteCarlo))
	require.NoError(t, svc.Set(KeyMonteCarloTrials, 250))
	require.NoError(t, svc.Set(KeyMonteCarloSeed, 7))
	require.NoError(t, svc.Set(KeyIncludeAlternatives, 0))
	require.NoError(t, svc.Set(KeyProjectionHorizons, "30, 5,5,1"))
	require.NoError(t, svc.Set(KeyRiskTailMultiplier, 1.5))

	params, err = svc.EngineParams()
	require.NoError(t, err)
	assert.Equal(t, projection.EstimatorMonteCarlo, params.SuccessEstimator)
	assert.Equal(t, 250, params.MonteCarloTrials)
	assert.Equal(t, uint64(7), params.MonteCarloSeed)
	assert.False(t, params.IncludeAlternatives)
	assert.Equal(t, []int{1, 5, 30}, params.ProjectionHorizons)
	assert.Equal(t, 1.5, params.Risk.TailMultiplier)

	require.NoError(t, svc.Reset(KeyProjectionHorizons))
	params, err = svc.EngineParams()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 10, 20}, params.ProjectionHorizons)
}

func TestParseHorizons(t *testing.T) {
	h, err := ParseHorizons(" 10,1 ,,20")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 10, 20}, h)

	_, err = ParseHorizons("")
	assert.Error(t, err)
	_, err = ParseHorizons("0")
	assert.Error(t, err)
}
