package relnotes

import "github.com/goliatone/go-relnotes/internal/runtimeconfig"

var (
	ErrFragmentsDirRequired    = runtimeconfig.ErrFragmentsDirRequired
	ErrArchiveFeatureRequired  = runtimeconfig.ErrArchiveFeatureRequired
	ErrArchiveDSNRequired      = runtimeconfig.ErrArchiveDSNRequired
	ErrArchiveDriverUnknown    = runtimeconfig.ErrArchiveDriverUnknown
	ErrPruneRequiresArchive    = runtimeconfig.ErrPruneRequiresArchive
	ErrChangelogFormatInvalid  = runtimeconfig.ErrChangelogFormatInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	FragmentsConfig = runtimeconfig.FragmentsConfig
	ChangelogConfig = runtimeconfig.ChangelogConfig
	ParserConfig    = runtimeconfig.ParserConfig
	LinksConfig     = runtimeconfig.LinksConfig
	ArchiveConfig   = runtimeconfig.ArchiveConfig
	CacheConfig     = runtimeconfig.CacheConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	CommandsConfig  = runtimeconfig.CommandsConfig
	Features        = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
