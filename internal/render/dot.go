// Package render turns reconstructed branch paths into Graphviz DOT
// documents. Each path becomes a node group so layout keeps a branch's
// commits in one column; refs are drawn as boxed labels tied to their
// commit with a dotted edge.
package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/coursemark/coursemark/internal/history"
)

// DOT writes a strict digraph for the given paths and refs. Refs whose
// commit does not appear in the window are silently skipped, matching
// the path reconstruction rules. Output is deterministic: paths in
// input order, refs sorted by name.
func DOT(w io.Writer, paths []history.BranchPath, refs map[string]string, g *history.Graph) error {
	if _, err := fmt.Fprintf(w, "strict digraph commits {\n"); err != nil {
		return err
	}
	if err := writePaths(w, paths); err != nil {
		return err
	}
	if err := writeRefs(w, refs, g); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "}\n")
	return err
}

func writePaths(w io.Writer, paths []history.BranchPath) error {
	for i, path := range paths {
		if len(path.Commits) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "\tnode[group=\"%d\"];\n\t", i); err != nil {
			return err
		}
		for j, id := range path.Commits {
			sep := " -> "
			if j == len(path.Commits)-1 {
				sep = ";\n"
			}
			if _, err := fmt.Fprintf(w, "%q%s", id, sep); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "\n")
	return err
}

func writeRefs(w io.Writer, refs map[string]string, g *history.Graph) error {
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		target := refs[name]
		if !g.Contains(target) {
			continue
		}
		label := fmt.Sprintf("(%s)", name)
		if _, err := fmt.Fprintf(w, "\tsubgraph Decorate%d\n\t{\n", i); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "\t\trank = \"same\";\n"); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "\t\t%q [shape = \"box\", style = \"filled\", fillcolor = \"#ddddff\"];\n", label); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "\t\t%q -> %q [weight = 0, arrowhead = \"none\", style = \"dotted\"];\n\t}\n", label, target); err != nil {
			return err
		}
	}
	return nil
}
