package physics

// Default simulation constants. Distances are world pixels, time is ticks.
const (
	DefaultRepulsion          = -900.0
	DefaultCollidePadding     = 8.0
	DefaultCollideIterations  = 3
	DefaultCenterStrength     = 0.004
	DefaultDamping            = 0.6
	DefaultTimeStep           = 1.0
	DefaultAlphaDecay         = 0.035
	DefaultAlphaMin           = 0.001
	DefaultDragAlphaTarget    = 0.3
	DefaultMaxSpeed           = 40.0
	DefaultEpsilon            = 0.01
	DefaultTheta              = 0.9
	DefaultBarnesHutThreshold = 150
	DefaultMinRadius          = 10.0
)

// Config tunes the engine. The zero value is not useful; start from
// [DefaultConfig].
type Config struct {
	// Repulsion is the many-body strength. Negative values repel; the force
	// between two bodies falls off with the inverse of their distance.
	Repulsion float64 `toml:"repulsion" json:"repulsion" validate:"lte=0"`

	// CollidePadding is added to the sum of radii when resolving overlap.
	CollidePadding    float64 `toml:"collide_padding" json:"collide_padding" validate:"gte=0"`
	CollideIterations int     `toml:"collide_iterations" json:"collide_iterations" validate:"gte=1,lte=16"`

	// CenterStrength pulls every body toward the viewport center.
	CenterStrength float64 `toml:"center_strength" json:"center_strength" validate:"gte=0,lt=1"`

	// Damping is the fraction of velocity kept after each tick.
	Damping  float64 `toml:"damping" json:"damping" validate:"gt=0,lt=1"`
	TimeStep float64 `toml:"time_step" json:"time_step" validate:"gt=0"`

	AlphaDecay      float64 `toml:"alpha_decay" json:"alpha_decay" validate:"gt=0,lt=1"`
	AlphaMin        float64 `toml:"alpha_min" json:"alpha_min" validate:"gt=0,lt=1"`
	DragAlphaTarget float64 `toml:"drag_alpha_target" json:"drag_alpha_target" validate:"gte=0,lte=1"`

	// MaxSpeed caps the distance a body can travel in one tick.
	MaxSpeed float64 `toml:"max_speed" json:"max_speed" validate:"gt=0"`

	// Epsilon is the separation applied to coincident bodies.
	Epsilon float64 `toml:"epsilon" json:"epsilon" validate:"gt=0"`

	Theta              float64 `toml:"theta" json:"theta" validate:"gte=0,lte=2"`
	BarnesHutThreshold int     `toml:"barnes_hut_threshold" json:"barnes_hut_threshold" validate:"gte=0"`

	// MinRadius is the smallest radius a body is simulated with.
	MinRadius float64 `toml:"min_radius" json:"min_radius" validate:"gte=0"`
}

// DefaultConfig returns the built-in constants.
func DefaultConfig() Config {
	return Config{
		Repulsion:          DefaultRepulsion,
		CollidePadding:     DefaultCollidePadding,
		CollideIterations:  DefaultCollideIterations,
		CenterStrength:     DefaultCenterStrength,
		Damping:            DefaultDamping,
		TimeStep:           DefaultTimeStep,
		AlphaDecay:         DefaultAlphaDecay,
		AlphaMin:           DefaultAlphaMin,
		DragAlphaTarget:    DefaultDragAlphaTarget,
		MaxSpeed:           DefaultMaxSpeed,
		Epsilon:            DefaultEpsilon,
		Theta:              DefaultTheta,
		BarnesHutThreshold: DefaultBarnesHutThreshold,
		MinRadius:          DefaultMinRadius,
	}
}
