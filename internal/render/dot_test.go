package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursemark/coursemark/internal/history"
)

func TestDOT(t *testing.T) {
	g, err := history.NewGraph(
		[]string{"c", "b", "a"},
		[][]string{{"b"}, {"a"}, {}},
	)
	require.NoError(t, err)
	paths := []history.BranchPath{{Commits: []string{"a", "b", "c"}}}

	t.Run("PathsBecomeEdgeChains", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, DOT(&buf, paths, nil, g))
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "strict digraph commits {\n"))
		assert.Contains(t, out, `"a" -> "b" -> "c";`)
		assert.True(t, strings.HasSuffix(out, "}\n"))
	})

	t.Run("RefsDecorateInWindowCommits", func(t *testing.T) {
		var buf bytes.Buffer
		refs := map[string]string{"master": "c", "stale": "zz"}
		require.NoError(t, DOT(&buf, paths, refs, g))
		out := buf.String()
		assert.Contains(t, out, `"(master)" -> "c"`)
		assert.Contains(t, out, `fillcolor = "#ddddff"`)
		assert.NotContains(t, out, "stale", "refs outside the window are skipped")
	})

	t.Run("RefOrderIsDeterministic", func(t *testing.T) {
		refs := map[string]string{"zeta": "a", "alpha": "b", "mid": "c"}
		var first bytes.Buffer
		require.NoError(t, DOT(&first, paths, refs, g))
		for i := 0; i < 5; i++ {
			var again bytes.Buffer
			require.NoError(t, DOT(&again, paths, refs, g))
			assert.Equal(t, first.String(), again.String())
		}
		assert.Less(t, strings.Index(first.String(), "(alpha)"), strings.Index(first.String(), "(zeta)"))
	})

	t.Run("EmptyPathSkipped", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, DOT(&buf, []history.BranchPath{{}}, nil, g))
		assert.NotContains(t, buf.String(), "->")
	})
}
