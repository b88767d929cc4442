// Package resolver unifies the registry and user tool stores behind a
// single lookup with registry precedence.
package resolver

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"toolhub/internal/domain"
	"toolhub/internal/infra/registry"
	"toolhub/internal/infra/userstore"
)

type Resolver struct {
	logger   *zap.Logger
	registry *registry.Store
	users    *userstore.Store
	metrics  domain.Metrics
}

func New(reg *registry.Store, users *userstore.Store, logger *zap.Logger, metrics domain.Metrics) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = domain.NopMetrics()
	}
	return &Resolver{
		logger:   logger.Named("resolver"),
		registry: reg,
		users:    users,
		metrics:  metrics,
	}
}

// Resolve looks up a tool by id. The registry wins ties: a user tool
// sharing an id with a shipped tool is unreachable here by design.
func (r *Resolver) Resolve(id string) (domain.Tool, error) {
	if tool, ok := r.registry.GetByID(id); ok {
		r.metrics.ObserveResolve(domain.ToolTypePublic, nil)
		return tool, nil
	}
	if tool, ok := r.users.GetByID(id); ok {
		r.metrics.ObserveResolve(domain.ToolTypeUser, nil)
		return tool, nil
	}
	err := domain.E(domain.CodeNotFound, "resolver.Resolve", "no tool with id "+id, domain.ErrToolNotFound)
	r.metrics.ObserveResolve("", err)
	return nil, err
}

// LoadHTML returns a tool's payload, dispatching on the variant tag.
func (r *Resolver) LoadHTML(ctx context.Context, tool domain.Tool) (string, error) {
	switch t := tool.(type) {
	case domain.PublicTool:
		return r.registry.LoadPayload(ctx, t)
	case domain.UserTool:
		return t.HTMLContent, nil
	default:
		return "", domain.E(domain.CodeInvalidArgument, "resolver.LoadHTML", "unknown tool variant", nil)
	}
}

// All returns the merged catalog, registry entries first.
func (r *Resolver) All() []domain.Tool {
	shipped := r.registry.List()
	authored := r.users.ListAll()
	out := make([]domain.Tool, 0, len(shipped)+len(authored))
	for _, tool := range shipped {
		out = append(out, tool)
	}
	for _, tool := range authored {
		out = append(out, tool)
	}
	return out
}

// Search filters tools by a case-insensitive substring match over
// title, description and tags. An empty query matches everything.
func (r *Resolver) Search(tools []domain.Tool, query string) []domain.Tool {
	needle := strings.ToLower(query)
	out := make([]domain.Tool, 0, len(tools))
	for _, tool := range tools {
		if matches(tool.Base(), needle) {
			out = append(out, tool)
		}
	}
	r.metrics.ObserveSearch(len(out))
	return out
}

func matches(base domain.BaseTool, needle string) bool {
	if strings.Contains(strings.ToLower(base.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(base.Description), needle) {
		return true
	}
	for _, tag := range base.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// RelatedTo keeps pool entries sharing the tool's category or at least
// one tag, in pool order, truncated to limit.
func (r *Resolver) RelatedTo(tool domain.Tool, pool []domain.Tool, limit int) []domain.Tool {
	if limit <= 0 {
		limit = domain.DefaultRelatedLimit
	}
	base := tool.Base()
	tags := make(map[string]struct{}, len(base.Tags))
	for _, tag := range base.Tags {
		tags[strings.ToLower(tag)] = struct{}{}
	}

	out := make([]domain.Tool, 0, limit)
	for _, candidate := range pool {
		cb := candidate.Base()
		if cb.ID == base.ID {
			continue
		}
		if cb.Category == base.Category || sharesTag(cb.Tags, tags) {
			out = append(out, candidate)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func sharesTag(candidates []string, tags map[string]struct{}) bool {
	for _, tag := range candidates {
		if _, ok := tags[strings.ToLower(tag)]; ok {
			return true
		}
	}
	return false
}
