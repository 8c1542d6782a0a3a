package discovery

import "fmt"

// RootDiscoveryError indicates that the initial core/groups listing failed.
// Nothing proceeds after it; there is no partial catalog.
type RootDiscoveryError struct {
	Err error
}

func (e *RootDiscoveryError) Error() string {
	return fmt.Sprintf("root discovery failed: %v", e.Err)
}

func (e *RootDiscoveryError) Unwrap() error {
	return e.Err
}

// GroupVersionError indicates that the resource list for one group-version
// could not be fetched. The whole discovery call fails with it; callers
// resolving short names need a complete catalog to avoid silently missing
// matches.
type GroupVersionError struct {
	Group   string
	Version string
	Err     error
}

func (e *GroupVersionError) Error() string {
	gv := GroupVersion{Group: e.Group, Version: e.Version}
	return fmt.Sprintf("failed to list resources for group version %q: %v", gv.String(), e.Err)
}

func (e *GroupVersionError) Unwrap() error {
	return e.Err
}
