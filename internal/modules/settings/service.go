package settings

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aristath/wealthplan/internal/modules/projection"
	"github.com/aristath/wealthplan/internal/modules/scoring"
	"github.com/aristath/wealthplan/internal/utils"
	"github.com/rs/zerolog"
)

// Service provides settings business logic
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a new settings service
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "settings").Logger(),
	}
}

// GetAll retrieves all settings merged over their defaults
func (s *Service) GetAll() (map[string]interface{}, error) {
	dbValues, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	result := make(map[string]interface{}, len(SettingDefaults))
	for key, defaultValue := range SettingDefaults {
		result[key] = defaultValue
		dbValue, exists := dbValues[key]
		if !exists {
			continue
		}
		if StringSettings[key] {
			result[key] = dbValue
			continue
		}
		if floatVal, err := strconv.ParseFloat(dbValue, 64); err == nil {
			result[key] = floatVal
		}
	}

	return result, nil
}

// Get retrieves a setting value with fallback to default
func (s *Service) Get(key string) (interface{}, error) {
	defaultValue, known := SettingDefaults[key]
	if !known {
		return nil, fmt.Errorf("unknown setting: %s", key)
	}

	dbValue, err := s.repo.Get(key)
	if err != nil {
		return nil, err
	}
	if dbValue == nil {
		return defaultValue, nil
	}
	if StringSettings[key] {
		return *dbValue, nil
	}
	if floatVal, err := strconv.ParseFloat(*dbValue, 64); err == nil {
		return floatVal, nil
	}
	return defaultValue, nil
}

// Set validates and stores a setting value
func (s *Service) Set(key string, value interface{}) error {
	if _, known := SettingDefaults[key]; !known {
		return fmt.Errorf("unknown setting: %s", key)
	}

	var stored string
	if StringSettings[key] {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("setting %s requires a string value", key)
		}
		if err := validateString(key, str); err != nil {
			return err
		}
		stored = strings.TrimSpace(str)
	} else {
		f, err := toFloat(value)
		if err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
		if err := validateNumber(key, f); err != nil {
			return err
		}
		stored = strconv.FormatFloat(f, 'f', -1, 64)
	}

	description := SettingDescriptions[key]
	if err := s.repo.Set(key, stored, &description); err != nil {
		return err
	}

	s.log.Info().Str("key", key).Str("value", stored).Msg("Setting updated")
	return nil
}

// Reset removes a stored override so the default applies again
func (s *Service) Reset(key string) error {
	if _, known := SettingDefaults[key]; !known {
		return fmt.Errorf("unknown setting: %s", key)
	}
	return s.repo.Delete(key)
}

// EngineParams resolves the stored settings into engine configuration
func (s *Service) EngineParams() (EngineParams, error) {
	all, err := s.GetAll()
	if err != nil {
		return EngineParams{}, err
	}

	params := DefaultEngineParams()
	params.WeightSet = all[KeyWeightSet].(string)
	params.SuccessEstimator = all[KeySuccessEstimator].(string)
	params.Risk.ZScore = all[KeyRiskZScore].(float64)
	params.Risk.TailMultiplier = all[KeyRiskTailMultiplier].(float64)
	params.Risk.DownsideFactor = all[KeyRiskDownsideFactor].(float64)
	params.MonteCarloTrials = int(all[KeyMonteCarloTrials].(float64))
	params.MonteCarloSeed = uint64(all[KeyMonteCarloSeed].(float64))
	params.IncludeAlternatives = all[KeyIncludeAlternatives].(float64) != 0

	if horizons, err := ParseHorizons(all[KeyProjectionHorizons].(string)); err == nil {
		params.ProjectionHorizons = horizons
	} else {
		s.log.Warn().Err(err).Msg("Stored projection horizons are invalid, using defaults")
	}

	if err := params.Risk.Validate(); err != nil {
		s.log.Warn().Err(err).Msg("Stored risk parameters are invalid, using defaults")
		params.Risk = DefaultEngineParams().Risk
	}

	return params, nil
}

// ParseHorizons parses a comma separated list of positive year counts.
// The result is sorted and deduplicated.
func ParseHorizons(raw string) ([]int, error) {
	seen := make(map[int]bool)
	var out []int
	for _, part := range utils.ParseCSV(raw) {
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid horizon %q", part)
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one horizon is required")
	}
	sort.Ints(out)
	return out, nil
}

func validateString(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case KeyWeightSet:
		if _, err := scoring.LookupWeightSet(value); err != nil {
			return err
		}
	case KeySuccessEstimator:
		if value != projection.EstimatorHeuristic && value != projection.EstimatorMonteCarlo {
			return fmt.Errorf("unknown success estimator: %s", value)
		}
	case KeyProjectionHorizons:
		if _, err := ParseHorizons(value); err != nil {
			return err
		}
	}
	return nil
}

func validateNumber(key string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("setting %s must be finite", key)
	}
	switch key {
	case KeyRiskZScore, KeyRiskTailMultiplier, KeyRiskDownsideFactor:
		if value <= 0 {
			return fmt.Errorf("setting %s must be positive", key)
		}
	case KeyMonteCarloTrials:
		if value < 1 || value > 1_000_000 {
			return fmt.Errorf("setting %s must be between 1 and 1000000", key)
		}
	case KeyMonteCarloSeed:
		if value < 0 {
			return fmt.Errorf("setting %s must not be negative", key)
		}
	case KeyIncludeAlternatives:
		if value != 0 && value != 1 {
			return fmt.Errorf("setting %s must be 0 or 1", key)
		}
	}
	return nil
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("unsupported value type %T", value)
	}
}
