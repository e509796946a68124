package changelogcmd

// FeatureGates exposes runtime feature toggles required by changelog command handlers.
// Callers should supply closures that read from relnotes.Config.Features so handlers
// stay decoupled from configuration while honouring feature flags.
type FeatureGates struct {
	ChangelogEnabled func() bool
	ArchiveEnabled   func() bool
}

func (g FeatureGates) changelogEnabled() bool {
	if g.ChangelogEnabled == nil {
		return true
	}
	return g.ChangelogEnabled()
}

func (g FeatureGates) archiveEnabled() bool {
	if g.ArchiveEnabled == nil {
		return true
	}
	return g.ArchiveEnabled()
}
