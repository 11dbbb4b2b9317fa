package engine

// Default engine constants. K, D and the initial rating follow the standard
// tennis Elo parameterization; the default rank is what an unranked player
// resolves to in the feature vector.
const (
	DefaultEloK              = 32.0
	DefaultEloRatingDiff     = 400.0
	DefaultEloInitialRating  = 1500.0
	DefaultEloMomentumWindow = 5
	DefaultPlayerRank        = 500
)

// Feature-window shapes. These are part of the feature vector's column set,
// so they are fixed rather than configurable.
const (
	formWindow         = 10
	rollingWindowShort = 20
	rollingWindowLong  = 50
	fatigueShortDays   = 7
	fatigueLongDays    = 14
)

// Config holds the tunable constants of the rating engine. A zero Config is
// usable; zero fields fall back to the defaults above.
type Config struct {
	EloK              float64
	EloRatingDiff     float64
	EloInitialRating  float64
	EloMomentumWindow int
	DefaultRank       int
}

// DefaultConfig returns the documented default parameterization.
func DefaultConfig() Config {
	return Config{
		EloK:              DefaultEloK,
		EloRatingDiff:     DefaultEloRatingDiff,
		EloInitialRating:  DefaultEloInitialRating,
		EloMomentumWindow: DefaultEloMomentumWindow,
		DefaultRank:       DefaultPlayerRank,
	}
}

func (c Config) withDefaults() Config {
	if c.EloK == 0 {
		c.EloK = DefaultEloK
	}
	if c.EloRatingDiff == 0 {
		c.EloRatingDiff = DefaultEloRatingDiff
	}
	if c.EloInitialRating == 0 {
		c.EloInitialRating = DefaultEloInitialRating
	}
	if c.EloMomentumWindow == 0 {
		c.EloMomentumWindow = DefaultEloMomentumWindow
	}
	if c.DefaultRank == 0 {
		c.DefaultRank = DefaultPlayerRank
	}
	return c
}
