package changelog

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

// LinkResolverOptions configures the go-urlkit backed issue link resolver.
type LinkResolverOptions struct {
	Manager *urlkit.RouteManager
	// Group names the urlkit route group holding the tracker routes.
	Group string
	// IssueRoute and PRRoute select the route templates; both default to the
	// conventional names.
	IssueRoute string
	PRRoute    string
	// Param is the route parameter receiving the numeric identifier.
	Param string
}

// LinkResolver builds issue and pull-request URLs from configured route
// templates so generated notes can reference the tracker that assigned the
// fragment identifiers.
type LinkResolver struct {
	manager    *urlkit.RouteManager
	group      string
	issueRoute string
	prRoute    string
	param      string
}

// NewLinkResolver constructs a resolver backed by go-urlkit. A nil manager
// yields a resolver that returns empty URLs, keeping link rendering optional.
func NewLinkResolver(opts LinkResolverOptions) *LinkResolver {
	if opts.IssueRoute == "" {
		opts.IssueRoute = "issue"
	}
	if opts.PRRoute == "" {
		opts.PRRoute = "pr"
	}
	if opts.Param == "" {
		opts.Param = "id"
	}

	return &LinkResolver{
		manager:    opts.Manager,
		group:      strings.TrimSpace(opts.Group),
		issueRoute: opts.IssueRoute,
		prRoute:    opts.PRRoute,
		param:      opts.Param,
	}
}

// IssueURL returns the tracker URL for an issue identifier, or "" when no
// route manager is configured.
func (r *LinkResolver) IssueURL(issue int64) (string, error) {
	return r.build(r.issueRoute, issue)
}

// PRURL returns the tracker URL for a pull-request identifier.
func (r *LinkResolver) PRURL(pr int64) (string, error) {
	return r.build(r.prRoute, pr)
}

func (r *LinkResolver) build(route string, id int64) (string, error) {
	if r == nil || r.manager == nil || r.group == "" || route == "" {
		return "", nil
	}

	group, err := lookupGroup(r.manager, r.group)
	if err != nil || group == nil {
		return "", err
	}

	builder, err := safeBuilder(group, route)
	if err != nil || builder == nil {
		return "", err
	}

	builder.WithParam(r.param, id)

	url, err := builder.Build()
	if err != nil {
		return "", err
	}
	return url, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("changelog: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("changelog: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("changelog: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}
