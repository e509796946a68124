package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-relnotes/internal/archive"
	"github.com/goliatone/go-relnotes/internal/changelog"
	"github.com/goliatone/go-relnotes/internal/fragments"
	"github.com/goliatone/go-relnotes/internal/logging"
	"github.com/goliatone/go-relnotes/internal/logging/gologger"
	"github.com/goliatone/go-relnotes/internal/runtimeconfig"
	"github.com/goliatone/go-relnotes/internal/validation"
	"github.com/goliatone/go-relnotes/pkg/interfaces"
)

// Container wires module dependencies from configuration, allowing hosts to
// override individual bindings through options.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	routeManager *urlkit.RouteManager

	fragmentSvc  interfaces.FragmentService
	changelogSvc interfaces.ChangelogService
	archiveSvc   interfaces.ArchiveService
	parser       interfaces.MarkdownParser
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider derived from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies an externally managed archive database connection.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service used by archive repositories.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithRouteManager overrides the route manager used for issue links.
func WithRouteManager(manager *urlkit.RouteManager) Option {
	return func(c *Container) {
		c.routeManager = manager
	}
}

// WithFragmentService overrides the default fragment service binding.
func WithFragmentService(svc interfaces.FragmentService) Option {
	return func(c *Container) {
		c.fragmentSvc = svc
	}
}

// WithChangelogService overrides the default changelog service binding.
func WithChangelogService(svc interfaces.ChangelogService) Option {
	return func(c *Container) {
		c.changelogSvc = svc
	}
}

// WithArchiveService overrides the default archive service binding.
func WithArchiveService(svc interfaces.ArchiveService) Option {
	return func(c *Container) {
		c.archiveSvc = svc
	}
}

// WithParser overrides the markdown parser used for HTML previews.
func WithParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.parser = parser
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureCache(); err != nil {
		return nil, err
	}
	if err := c.configureRouteManager(); err != nil {
		return nil, err
	}
	if err := c.configureFragments(); err != nil {
		return nil, err
	}
	c.configureChangelog()
	if err := c.configureArchive(); err != nil {
		return nil, err
	}

	return c, nil
}

// Close releases resources owned by the container, currently the archive
// database when the container opened it itself.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	return c.bunDB.Close()
}

// LoggerProvider returns the configured logger provider, possibly nil when
// logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	if c == nil {
		return nil
	}
	return c.loggerProvider
}

// FragmentService returns the configured fragment service.
func (c *Container) FragmentService() interfaces.FragmentService {
	return c.fragmentSvc
}

// ChangelogService returns the configured changelog service.
func (c *Container) ChangelogService() interfaces.ChangelogService {
	return c.changelogSvc
}

// ArchiveService returns the configured archive service, nil when the archive
// feature is disabled.
func (c *Container) ArchiveService() interfaces.ArchiveService {
	return c.archiveSvc
}

// Parser returns the markdown parser used for previews.
func (c *Container) Parser() interfaces.MarkdownParser {
	return c.parser
}

// DB exposes the archive database connection for advanced integrations.
func (c *Container) DB() *bun.DB {
	if c == nil {
		return nil
	}
	return c.bunDB
}

// RouteManager exposes the urlkit route manager when link routes are configured.
func (c *Container) RouteManager() *urlkit.RouteManager {
	if c == nil {
		return nil
	}
	return c.routeManager
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case "console", "":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:  c.Config.Logging.Level,
			Format: "console",
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		return fmt.Errorf("relnotes container: unsupported logging provider %q", c.Config.Logging.Provider)
	}
	return nil
}

func (c *Container) configureCache() error {
	if !c.Config.Cache.Enabled || c.cacheService != nil {
		return nil
	}

	cacheCfg := repocache.DefaultConfig()
	ttl := c.Config.Cache.DefaultTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	cacheCfg.TTL = ttl

	service, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		return fmt.Errorf("relnotes container: cache service: %w", err)
	}
	c.cacheService = service
	c.keySerializer = repocache.NewDefaultKeySerializer()
	return nil
}

func (c *Container) configureRouteManager() error {
	if c.routeManager != nil || c.Config.Links.RouteConfig == nil {
		return nil
	}
	c.routeManager = urlkit.NewRouteManager(c.Config.Links.RouteConfig)
	return nil
}

func (c *Container) configureFragments() error {
	if c.fragmentSvc != nil {
		return nil
	}

	metaSchema := c.Config.Fragments.MetaSchema
	if strings.TrimSpace(metaSchema) == "" {
		metaSchema = validation.MetaJSONSchema
	}

	svc, err := fragments.NewService(fragments.Config{
		BasePath:   c.Config.Fragments.Dir,
		Pattern:    c.Config.Fragments.Pattern,
		Recursive:  c.Config.Fragments.Recursive,
		MetaSchema: metaSchema,
	}, logging.FragmentsLogger(c.loggerProvider))
	if err != nil {
		return err
	}
	c.fragmentSvc = svc
	return nil
}

func (c *Container) configureChangelog() {
	if c.changelogSvc != nil {
		return
	}

	parseDefaults := interfaces.ParseOptions{
		Extensions: c.Config.Changelog.Parser.Extensions,
		Sanitize:   c.Config.Changelog.Parser.Sanitize,
		HardWraps:  c.Config.Changelog.Parser.HardWraps,
		SafeMode:   c.Config.Changelog.Parser.SafeMode,
	}
	if c.parser == nil {
		c.parser = changelog.NewGoldmarkParser(parseDefaults)
	}

	links := changelog.NewLinkResolver(changelog.LinkResolverOptions{
		Manager:    c.routeManager,
		Group:      c.Config.Links.Group,
		IssueRoute: c.Config.Links.IssueRoute,
		PRRoute:    c.Config.Links.PRRoute,
		Param:      c.Config.Links.Param,
	})

	c.changelogSvc = changelog.NewService(changelog.Config{
		Format: interfaces.Format(c.Config.Changelog.Format),
		Parser: parseDefaults,
	}, links, c.parser, logging.ChangelogLogger(c.loggerProvider))
}

func (c *Container) configureArchive() error {
	if c.archiveSvc != nil || !c.Config.Archive.Enabled {
		return nil
	}

	if c.bunDB == nil {
		db, err := archive.OpenDB(c.Config.Archive.Driver, c.Config.Archive.DSN)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}

	if err := archive.EnsureSchema(context.Background(), c.bunDB); err != nil {
		return err
	}

	releases := archive.NewBunReleaseRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	records := archive.NewBunFragmentRecordRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)

	c.archiveSvc = archive.NewService(releases, records,
		archive.WithLogger(logging.ArchiveLogger(c.loggerProvider)))
	return nil
}
