package collector

import (
	"context"

	"vkleads/pkg/models"
	"vkleads/pkg/paginate"
)

// SearchGroups pages through groups.search until limit groups were found.
// A failed page returns the groups gathered so far together with the error.
func (c *Collector) SearchGroups(ctx context.Context, query string, limit int) ([]models.Group, error) {
	opts := paginate.Options{
		PageSize: SearchPageSize,
		Limit:    limit,
		Limiter:  c.opts.SearchLimiter,
	}

	res, err := paginate.Fetch(ctx, opts, func(ctx context.Context, offset, count int) (paginate.Page[models.Group], error) {
		list, err := c.api.SearchGroups(ctx, query, offset, count)
		if err != nil {
			return paginate.Page[models.Group]{}, err
		}
		return paginate.Page[models.Group]{Items: list.Items, Total: list.Count}, nil
	}, nil)

	c.logger.DebugWithFields("Group search finished", map[string]interface{}{
		"query": query,
		"found": len(res.Items),
		"calls": res.Calls,
	})

	// groups.search may answer with decorated records; only the persisted
	// shape survives
	groups := make([]models.Group, len(res.Items))
	for i, g := range res.Items {
		groups[i] = models.Group{ID: g.ID, ScreenName: g.ScreenName, Name: g.Name}
	}
	return groups, err
}

// ExcludeOwn removes the first group matching ownID or ownShortName and
// returns it. Both matches are exact. Nothing is removed when neither is set.
func ExcludeOwn(groups []models.Group, ownID int64, ownShortName string) ([]models.Group, *models.Group) {
	if ownID == 0 && ownShortName == "" {
		return groups, nil
	}

	for i, g := range groups {
		if (ownID != 0 && g.ID == ownID) || (ownShortName != "" && g.ScreenName == ownShortName) {
			removed := g
			out := make([]models.Group, 0, len(groups)-1)
			out = append(out, groups[:i]...)
			out = append(out, groups[i+1:]...)
			return out, &removed
		}
	}
	return groups, nil
}
