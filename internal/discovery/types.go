package discovery

// GroupVersion identifies one discoverable API surface. An empty Group denotes
// the core (legacy) group.
type GroupVersion struct {
	Group   string
	Version string
}

// String renders the group-version the way discovery endpoints spell it:
// "v1" for the core group, "apps/v1" otherwise.
func (gv GroupVersion) String() string {
	if gv.Group == "" {
		return gv.Version
	}
	return gv.Group + "/" + gv.Version
}

// Resource describes one discoverable resource type.
type Resource struct {
	// Group is the API group, "" for the core group.
	Group string `json:"group"`

	// Version is the group version this descriptor was taken from.
	Version string `json:"version"`

	// Name is the plural resource name, e.g. "deployments".
	Name string `json:"name"`

	// SingularName is the singular form, e.g. "deployment".
	SingularName string `json:"singularName"`

	// Kind is the object kind, e.g. "Deployment".
	Kind string `json:"kind"`

	// Namespaced reports whether the resource is namespace-scoped.
	Namespaced bool `json:"namespaced"`

	// ShortNames are the recognized abbreviations, e.g. ["deploy"].
	ShortNames []string `json:"shortNames,omitempty"`

	// Verbs are the supported operations, e.g. ["get", "list", "watch"].
	Verbs []string `json:"verbs,omitempty"`
}

// GroupVersion returns the group-version this descriptor was taken from.
func (r Resource) GroupVersion() GroupVersion {
	return GroupVersion{Group: r.Group, Version: r.Version}
}

// APIVersion renders the descriptor's apiVersion field value.
func (r Resource) APIVersion() string {
	return r.GroupVersion().String()
}

// QualifiedName returns the group-qualified plural name, e.g.
// "deployments.apps", or the bare name for core resources.
func (r Resource) QualifiedName() string {
	if r.Group == "" {
		return r.Name
	}
	return r.Name + "." + r.Group
}
