package gallery

import (
	"sort"

	"github.com/artfolio/artfolio-api/internal/domain/project"
)

// FilterAll selects every project regardless of category
const FilterAll = "all"

// Filter returns the projects visible under the given category filter.
// "all" (or empty) passes everything; any other value selects projects whose
// category set contains it, which leaves projects without categories out of
// every specific filter.
func Filter(projects []*project.Project, categoryID string) []*project.Project {
	if categoryID == "" || categoryID == FilterAll {
		out := make([]*project.Project, len(projects))
		copy(out, projects)
		return out
	}

	out := make([]*project.Project, 0, len(projects))
	for _, p := range projects {
		if p.HasCategory(categoryID) {
			out = append(out, p)
		}
	}
	return out
}

// SortByOrder returns the projects ascending by effective order. Projects
// without an order sort last; ties keep their incoming positions.
func SortByOrder(projects []*project.Project) []*project.Project {
	out := make([]*project.Project, len(projects))
	copy(out, projects)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveOrder() < out[j].EffectiveOrder()
	})
	return out
}
