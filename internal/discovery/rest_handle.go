package discovery

import (
	"context"
	"fmt"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/rest"
)

const (
	legacyAPIPrefix = "/api"
	apisPrefix      = "/apis"
)

// restHandle implements ClientHandle over a raw REST client. It speaks the
// standard Kubernetes discovery document shapes and decodes them into the
// closed set of apimachinery types at the boundary.
type restHandle struct {
	client rest.Interface
}

// NewRESTHandle wraps a REST client as a ClientHandle. The client must be
// configured for unversioned, absolute-path requests (see k8s.NewRESTClient).
func NewRESTHandle(client rest.Interface) ClientHandle {
	return &restHandle{client: client}
}

// ServerGroups merges the legacy core versions from /api with the named
// groups from /apis, core group first. A cluster that serves no legacy root
// (404/403 on /api) is tolerated; any other failure of either fetch is a root
// discovery failure.
func (h *restHandle) ServerGroups(ctx context.Context) (*metav1.APIGroupList, error) {
	var merged metav1.APIGroupList

	coreVersions := &metav1.APIVersions{}
	err := h.client.Get().AbsPath(legacyAPIPrefix).Do(ctx).Into(coreVersions)
	switch {
	case err == nil:
		merged.Groups = append(merged.Groups, coreGroup(coreVersions))
	case apierrors.IsNotFound(err) || apierrors.IsForbidden(err):
		// No legacy API root on this cluster.
	default:
		return nil, fmt.Errorf("fetching %s: %w", legacyAPIPrefix, err)
	}

	namedGroups := &metav1.APIGroupList{}
	if err := h.client.Get().AbsPath(apisPrefix).Do(ctx).Into(namedGroups); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", apisPrefix, err)
	}
	merged.Groups = append(merged.Groups, namedGroups.Groups...)

	return &merged, nil
}

// ServerResourcesForGroupVersion fetches the resource list for one
// group-version discovery document.
func (h *restHandle) ServerResourcesForGroupVersion(ctx context.Context, groupVersion string) (*metav1.APIResourceList, error) {
	// Core group-versions have no group segment: "v1" lives under /api/v1.
	path := apisPrefix + "/" + groupVersion
	if !strings.Contains(groupVersion, "/") {
		path = legacyAPIPrefix + "/" + groupVersion
	}

	list := &metav1.APIResourceList{}
	if err := h.client.Get().AbsPath(path).Do(ctx).Into(list); err != nil {
		return nil, err
	}
	return list, nil
}

// coreGroup synthesizes an APIGroup for the legacy core versions. The legacy
// root declares no preferred version; the first listed version stands in.
func coreGroup(versions *metav1.APIVersions) metav1.APIGroup {
	group := metav1.APIGroup{Name: ""}
	for _, version := range versions.Versions {
		group.Versions = append(group.Versions, metav1.GroupVersionForDiscovery{
			GroupVersion: version,
			Version:      version,
		})
	}
	if len(group.Versions) > 0 {
		group.PreferredVersion = group.Versions[0]
	}
	return group
}
