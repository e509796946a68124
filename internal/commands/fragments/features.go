package fragmentscmd

// FeatureGates exposes runtime feature toggles required by fragment command handlers.
// Callers should supply closures that read from relnotes.Config.Features.Fragments so
// handlers stay decoupled from configuration while honouring feature flags.
type FeatureGates struct {
	FragmentsEnabled func() bool
}

func (g FeatureGates) fragmentsEnabled() bool {
	if g.FragmentsEnabled == nil {
		return true
	}
	return g.FragmentsEnabled()
}
