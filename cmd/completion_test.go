package cmd

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTestKubeconfig points the package flags at a fresh kubeconfig for the
// duration of a test.
func withTestKubeconfig(t *testing.T) {
	t.Helper()
	flagKubeconfig = writeTestKubeconfig(t)
	t.Cleanup(func() { flagKubeconfig = "" })
	t.Setenv("KUBERNETES_SERVICE_HOST", "")
	t.Setenv("KUBERNETES_SERVICE_PORT", "")
}

func TestCompleteContexts(t *testing.T) {
	withTestKubeconfig(t)

	t.Run("lists every context with annotations", func(t *testing.T) {
		completions, directive := completeContexts(rootCmd, nil, "")
		assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
		require.Len(t, completions, 2)

		// Current context comes first.
		assert.Equal(t, "prod\t[current] cluster=prod-cluster namespace=team-a", completions[0])
		assert.Equal(t, "staging\tcluster=staging-cluster", completions[1])
	})

	t.Run("filters by prefix", func(t *testing.T) {
		completions, _ := completeContexts(rootCmd, nil, "stag")
		require.Len(t, completions, 1)
		assert.Contains(t, completions[0], "staging")
	})

	t.Run("no match", func(t *testing.T) {
		completions, directive := completeContexts(rootCmd, nil, "zzz")
		assert.Empty(t, completions)
		assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	})
}

func TestCompleteNamespaces(t *testing.T) {
	withTestKubeconfig(t)

	t.Run("collects kubeconfig namespaces plus default", func(t *testing.T) {
		completions, directive := completeNamespaces(rootCmd, nil, "")
		assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
		assert.Equal(t, []string{"default", "team-a"}, completions)
	})

	t.Run("filters by prefix", func(t *testing.T) {
		completions, _ := completeNamespaces(rootCmd, nil, "team")
		assert.Equal(t, []string{"team-a"}, completions)
	})
}

func TestCompleteWithoutKubeconfig(t *testing.T) {
	t.Setenv("KUBERNETES_SERVICE_HOST", "")
	t.Setenv("KUBERNETES_SERVICE_PORT", "")
	t.Setenv("KUBECONFIG", filepath.Join(t.TempDir(), "no-such-kubeconfig"))

	contexts, _ := completeContexts(rootCmd, nil, "")
	assert.Empty(t, contexts)

	namespaces, _ := completeNamespaces(rootCmd, nil, "")
	assert.Equal(t, []string{"default"}, namespaces)
}
