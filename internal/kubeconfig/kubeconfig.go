package kubeconfig

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"k8s.io/client-go/tools/clientcmd"
)

const (
	// DefaultServiceAccountDir is the conventional in-cluster service account mount.
	DefaultServiceAccountDir = "/var/run/secrets/kubernetes.io/serviceaccount"

	// ServiceAccountTokenFile is the token file name inside the mount.
	ServiceAccountTokenFile = "token"

	// ServiceAccountCACertFile is the CA certificate file name inside the mount.
	ServiceAccountCACertFile = "ca.crt"

	// ServiceAccountNamespaceFile is the namespace file name inside the mount.
	ServiceAccountNamespaceFile = "namespace"
)

// ContextInfo describes one named context from the kubeconfig.
type ContextInfo struct {
	Name      string
	Cluster   string
	User      string
	Namespace string
	Current   bool
}

// LoadOptions controls how a Source is materialized.
type LoadOptions struct {
	// KubeconfigPath is an explicit kubeconfig location. When empty, the
	// default loading rules apply (KUBECONFIG, then ~/.kube/config).
	KubeconfigPath string

	// ServiceAccountDir overrides the in-cluster service account mount
	// location. Used by tests; defaults to DefaultServiceAccountDir.
	ServiceAccountDir string

	// Logger receives warnings about unreadable configuration sources.
	Logger *slog.Logger
}

// Source is an immutable snapshot of the inputs to context and namespace
// resolution. Construct it with Load; the zero value behaves like a fully
// absent configuration.
type Source struct {
	currentContext     string
	contexts           map[string]ContextInfo
	inCluster          bool
	inClusterNamespace string
}

// Load reads the kubeconfig and in-cluster signals into a Source.
// It never fails: unreadable or malformed inputs simply leave the
// corresponding lookups empty.
func Load(opts LoadOptions) *Source {
	src := &Source{contexts: map[string]ContextInfo{}}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if opts.KubeconfigPath != "" {
		loadingRules.ExplicitPath = expandHome(opts.KubeconfigPath)
	}

	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules,
		&clientcmd.ConfigOverrides{},
	)

	rawConfig, err := clientConfig.RawConfig()
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Warn("failed to load kubeconfig, continuing without it", "error", err)
		}
	} else {
		src.currentContext = rawConfig.CurrentContext
		for name, kctx := range rawConfig.Contexts {
			if kctx == nil {
				continue
			}
			src.contexts[name] = ContextInfo{
				Name:      name,
				Cluster:   kctx.Cluster,
				User:      kctx.AuthInfo,
				Namespace: kctx.Namespace,
				Current:   name == rawConfig.CurrentContext,
			}
		}
	}

	saDir := opts.ServiceAccountDir
	if saDir == "" {
		saDir = DefaultServiceAccountDir
	}
	src.inCluster, src.inClusterNamespace = detectInCluster(saDir)

	return src
}

// CurrentContext returns the current-context recorded in the kubeconfig.
func (s *Source) CurrentContext() (string, bool) {
	if s.currentContext == "" {
		return "", false
	}
	return s.currentContext, true
}

// NamespaceFor returns the default namespace recorded for the named context.
func (s *Source) NamespaceFor(context string) (string, bool) {
	info, ok := s.contexts[context]
	if !ok || info.Namespace == "" {
		return "", false
	}
	return info.Namespace, true
}

// InClusterNamespace returns the namespace of the pod this process runs in,
// when running inside a cluster with a mounted service account.
func (s *Source) InClusterNamespace() (string, bool) {
	if !s.inCluster || s.inClusterNamespace == "" {
		return "", false
	}
	return s.inClusterNamespace, true
}

// InCluster reports whether in-cluster execution was detected.
func (s *Source) InCluster() bool {
	return s.inCluster
}

// Contexts returns every context from the kubeconfig, current context first,
// remaining contexts sorted by name. Used for shell completion.
func (s *Source) Contexts() []ContextInfo {
	infos := make([]ContextInfo, 0, len(s.contexts))
	for _, info := range s.contexts {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Current != infos[j].Current {
			return infos[i].Current
		}
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// ContextNames returns the names of every context, ordered like Contexts.
func (s *Source) ContextNames() []string {
	infos := s.Contexts()
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names
}

// detectInCluster checks the standard Kubernetes downward signals: the service
// host/port environment variables injected into every pod, and a readable
// namespace file under the service account mount.
func detectInCluster(saDir string) (bool, string) {
	host, port := os.Getenv("KUBERNETES_SERVICE_HOST"), os.Getenv("KUBERNETES_SERVICE_PORT")
	if host == "" || port == "" {
		return false, ""
	}

	data, err := os.ReadFile(filepath.Join(saDir, ServiceAccountNamespaceFile))
	if err != nil {
		return true, ""
	}
	return true, strings.TrimSpace(string(data))
}

// expandHome resolves a leading ~/ in a kubeconfig path.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
