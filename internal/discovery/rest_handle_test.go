package discovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
)

// discoveryServer serves canned discovery documents and records request paths.
type discoveryServer struct {
	*httptest.Server

	mu    sync.Mutex
	paths []string

	legacyStatus int
}

func newDiscoveryServer(t *testing.T) *discoveryServer {
	t.Helper()
	ds := &discoveryServer{legacyStatus: http.StatusOK}

	ds.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ds.mu.Lock()
		ds.paths = append(ds.paths, r.URL.Path)
		ds.mu.Unlock()

		var body interface{}
		switch r.URL.Path {
		case "/api":
			if ds.legacyStatus != http.StatusOK {
				w.WriteHeader(ds.legacyStatus)
				return
			}
			body = metav1.APIVersions{
				TypeMeta: metav1.TypeMeta{Kind: "APIVersions"},
				Versions: []string{"v1"},
			}
		case "/apis":
			body = metav1.APIGroupList{
				TypeMeta: metav1.TypeMeta{Kind: "APIGroupList", APIVersion: "v1"},
				Groups: []metav1.APIGroup{
					{
						Name: "apps",
						Versions: []metav1.GroupVersionForDiscovery{
							{GroupVersion: "apps/v1", Version: "v1"},
						},
						PreferredVersion: metav1.GroupVersionForDiscovery{GroupVersion: "apps/v1", Version: "v1"},
					},
				},
			}
		case "/api/v1":
			body = metav1.APIResourceList{
				TypeMeta:     metav1.TypeMeta{Kind: "APIResourceList", APIVersion: "v1"},
				GroupVersion: "v1",
				APIResources: []metav1.APIResource{
					{Name: "pods", SingularName: "pod", Kind: "Pod", Namespaced: true, ShortNames: []string{"po"}},
				},
			}
		case "/apis/apps/v1":
			body = metav1.APIResourceList{
				TypeMeta:     metav1.TypeMeta{Kind: "APIResourceList", APIVersion: "v1"},
				GroupVersion: "apps/v1",
				APIResources: []metav1.APIResource{
					{Name: "deployments", SingularName: "deployment", Kind: "Deployment", Namespaced: true},
				},
			}
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(ds.Close)

	return ds
}

func (ds *discoveryServer) restClient(t *testing.T) rest.Interface {
	t.Helper()
	config := &rest.Config{
		Host: ds.URL,
		ContentConfig: rest.ContentConfig{
			NegotiatedSerializer: scheme.Codecs.WithoutConversion(),
		},
	}
	client, err := rest.UnversionedRESTClientFor(config)
	require.NoError(t, err)
	return client
}

func TestRESTHandleServerGroups(t *testing.T) {
	t.Run("merges legacy core group first", func(t *testing.T) {
		server := newDiscoveryServer(t)
		handle := NewRESTHandle(server.restClient(t))

		groups, err := handle.ServerGroups(context.Background())
		require.NoError(t, err)
		require.Len(t, groups.Groups, 2)

		core := groups.Groups[0]
		assert.Empty(t, core.Name)
		require.Len(t, core.Versions, 1)
		assert.Equal(t, "v1", core.Versions[0].Version)
		assert.Equal(t, "v1", core.PreferredVersion.Version)

		assert.Equal(t, "apps", groups.Groups[1].Name)
	})

	t.Run("tolerates a cluster without a legacy root", func(t *testing.T) {
		server := newDiscoveryServer(t)
		server.legacyStatus = http.StatusNotFound
		handle := NewRESTHandle(server.restClient(t))

		groups, err := handle.ServerGroups(context.Background())
		require.NoError(t, err)
		require.Len(t, groups.Groups, 1)
		assert.Equal(t, "apps", groups.Groups[0].Name)
	})
}

func TestRESTHandleServerResourcesForGroupVersion(t *testing.T) {
	server := newDiscoveryServer(t)
	handle := NewRESTHandle(server.restClient(t))

	t.Run("core group version uses the legacy prefix", func(t *testing.T) {
		list, err := handle.ServerResourcesForGroupVersion(context.Background(), "v1")
		require.NoError(t, err)
		require.Len(t, list.APIResources, 1)
		assert.Equal(t, "pods", list.APIResources[0].Name)
		assert.Contains(t, server.paths, "/api/v1")
	})

	t.Run("named group version uses the apis prefix", func(t *testing.T) {
		list, err := handle.ServerResourcesForGroupVersion(context.Background(), "apps/v1")
		require.NoError(t, err)
		require.Len(t, list.APIResources, 1)
		assert.Equal(t, "deployments", list.APIResources[0].Name)
		assert.Contains(t, server.paths, "/apis/apps/v1")
	})

	t.Run("missing group version fails", func(t *testing.T) {
		_, err := handle.ServerResourcesForGroupVersion(context.Background(), "missing/v1")
		assert.Error(t, err)
	})
}

func TestRESTHandleAgainstDiscoveryClient(t *testing.T) {
	// End to end: the handle feeding the discovery client against an HTTP
	// fixture.
	server := newDiscoveryServer(t)
	client := New(NewRESTHandle(server.restClient(t)))

	catalog, err := client.ListAPIResources(context.Background())
	require.NoError(t, err)

	require.Len(t, catalog, 2)
	assert.Equal(t, "pods", catalog[0].Name)
	assert.Equal(t, "deployments", catalog[1].Name)
	assert.Equal(t, "apps", catalog[1].Group)
}
