package search

import (
	"fmt"
	"slices"
	"strings"
)

const maxLabelLength = 140

type graphEdge struct {
	from  string
	to    string
	attrs map[string]string
}

// Graph records the expansion trace of a search run: one node per generated
// state, one edge per expansion, plus the pop order as an iteration chain.
// It is write-only instrumentation; searchers never read it back.
type Graph struct {
	nodeIDs    map[string]string
	nodeOrder  []string
	nodeLabels map[string]string
	nodeAttrs  map[string]map[string]string
	edges      []graphEdge
	iterations []string
}

func newGraph() *Graph {
	return &Graph{
		nodeIDs:    make(map[string]string),
		nodeLabels: make(map[string]string),
		nodeAttrs:  make(map[string]map[string]string),
	}
}

func safeLabel(label string) string {
	label = strings.ReplaceAll(label, "\n", " ")
	if len(label) > maxLabelLength {
		label = label[:maxLabelLength-3] + "..."
	}
	return label
}

func (graph *Graph) ensureNode(state State) string {
	key := state.Key()
	if id, ok := graph.nodeIDs[key]; ok {
		return id
	}

	id := fmt.Sprintf("n%v", len(graph.nodeOrder))
	graph.nodeIDs[key] = id
	graph.nodeOrder = append(graph.nodeOrder, id)
	graph.nodeLabels[id] = safeLabel(key)
	graph.nodeAttrs[id] = map[string]string{}
	return id
}

func (graph *Graph) addEdge(parent, child State, label string) {
	parentID := graph.ensureNode(parent)
	childID := graph.ensureNode(child)

	attrs := map[string]string{}
	if label != "" {
		attrs["label"] = safeLabel(label)
	}
	graph.edges = append(graph.edges, graphEdge{from: parentID, to: childID, attrs: attrs})
}

func (graph *Graph) addIteration(state State) {
	graph.iterations = append(graph.iterations, graph.ensureNode(state))
}

func (graph *Graph) markStart(state State) {
	id := graph.ensureNode(state)
	graph.nodeAttrs[id]["shape"] = "octagon"
	graph.nodeAttrs[id]["color"] = "blue"
	graph.nodeAttrs[id]["penwidth"] = "2"
}

func (graph *Graph) markGoal(state State) {
	id := graph.ensureNode(state)
	graph.nodeAttrs[id]["shape"] = "doubleoctagon"
	graph.nodeAttrs[id]["color"] = "green"
	graph.nodeAttrs[id]["penwidth"] = "2"
}

func (graph *Graph) Nodes() int {
	return len(graph.nodeOrder)
}

func (graph *Graph) Edges() int {
	return len(graph.edges)
}

// ToDOT renders the trace as Graphviz source. Node declarations follow
// creation order and attributes are sorted, so the output is reproducible.
func (graph *Graph) ToDOT() string {
	var builder strings.Builder
	builder.WriteString("digraph Search {\n")
	builder.WriteString("  rankdir=LR;\n")
	builder.WriteString("  node [shape=box, fontsize=10, fontname=Helvetica];\n")
	builder.WriteString("  edge [fontsize=9, fontname=Helvetica];\n")

	for _, id := range graph.nodeOrder {
		attrs := map[string]string{"label": graph.nodeLabels[id]}
		for key, value := range graph.nodeAttrs[id] {
			attrs[key] = value
		}
		fmt.Fprintf(&builder, "  %v [%v];\n", id, formatAttrs(attrs))
	}

	for _, edge := range graph.edges {
		if len(edge.attrs) > 0 {
			fmt.Fprintf(&builder, "  %v -> %v [%v];\n", edge.from, edge.to, formatAttrs(edge.attrs))
		} else {
			fmt.Fprintf(&builder, "  %v -> %v;\n", edge.from, edge.to)
		}
	}

	// Dotted chain showing the order states were popped
	for i := 1; i < len(graph.iterations); i++ {
		fmt.Fprintf(&builder, "  %v -> %v [style=dotted, color=gray, constraint=false];\n", graph.iterations[i-1], graph.iterations[i])
	}

	builder.WriteString("}")
	return builder.String()
}

func formatAttrs(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value := strings.ReplaceAll(attrs[key], "\"", "\\\"")
		parts = append(parts, fmt.Sprintf("%v=\"%v\"", key, value))
	}
	return strings.Join(parts, ", ")
}
