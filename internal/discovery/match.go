package discovery

import (
	"fmt"
	"slices"
	"strings"
)

// Match reports whether target identifies the resource. A target matches on
// the plural name, the singular name, any short name, or the group-qualified
// plural name ("deployments.apps").
func Match(target string, resource Resource) bool {
	if target == resource.Name || target == resource.SingularName {
		return true
	}
	if slices.Contains(resource.ShortNames, target) {
		return true
	}
	return resource.Group != "" && target == resource.QualifiedName()
}

// Find returns the first catalog entry matching target.
func Find(target string, catalog []Resource) (Resource, bool) {
	for _, resource := range catalog {
		if Match(target, resource) {
			return resource, true
		}
	}
	return Resource{}, false
}

// FindAll resolves every target against the catalog, deduplicating targets
// that resolve to the same resource. It fails if any target is unresolved,
// naming all of them.
func FindAll(targets []string, catalog []Resource) ([]Resource, error) {
	var matched []Resource
	seen := make(map[string]bool)
	var unresolved []string

	for _, target := range targets {
		resource, ok := Find(target, catalog)
		if !ok {
			unresolved = append(unresolved, target)
			continue
		}
		key := resource.QualifiedName()
		if !seen[key] {
			seen[key] = true
			matched = append(matched, resource)
		}
	}

	if len(unresolved) > 0 {
		return nil, fmt.Errorf("resource not found: %s", strings.Join(unresolved, ", "))
	}
	return matched, nil
}
