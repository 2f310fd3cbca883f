package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/rust2mojo/internal/ir"
)

// RecursionWarning reports a group of functions that can call themselves.
//
// Recursion is legal in both languages, so this is informational only: Mojo
// has no tail-call guarantee and deep Rust recursion that relied on
// optimisation may overflow after translation.
type RecursionWarning struct {
	Path    []string `json:"path"`    // call path: ["a", "b", "a"]
	Message string   `json:"message"` // human-readable description
	Level   string   `json:"level"`   // "warning" or "info"
}

// AnalyzeRecursion builds the static call graph of unit and reports every
// strongly connected component that forms a cycle.
//
// Functions are keyed by name; methods as Type::method. Calls are resolved
// by name only, so calls through values, traits or closures are not seen.
// Results are ordered by the first function of each cycle.
func AnalyzeRecursion(unit *ir.CompilationUnit) []RecursionWarning {
	if unit == nil {
		return nil
	}
	graph := buildCallGraph(unit)
	if len(graph) == 0 {
		return nil
	}

	var warnings []RecursionWarning
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			warnings = append(warnings, sccToWarning(scc, graph))
		}
	}
	slices.SortFunc(warnings, func(a, b RecursionWarning) int {
		return strings.Compare(a.Path[0], b.Path[0])
	})
	return warnings
}

// callGraph maps a function key to the sorted keys it calls.
type callGraph map[string][]string

type callCollector struct {
	graph callGraph
	// bodies to scan once all function keys are known
	pending []pendingBody
}

type pendingBody struct {
	key    string
	target string // impl target, empty for free functions
	fn     *ir.Function
}

func buildCallGraph(unit *ir.CompilationUnit) callGraph {
	c := &callCollector{graph: make(callGraph)}
	c.items(unit.Items)
	for _, p := range c.pending {
		edges := map[string]bool{}
		ir.Walk(p.fn, func(n any) bool {
			if callee := c.callee(n, p.target); callee != "" {
				if _, known := c.graph[callee]; known {
					edges[callee] = true
				}
			}
			return true
		})
		for callee := range edges {
			c.graph[p.key] = append(c.graph[p.key], callee)
		}
		slices.Sort(c.graph[p.key])
	}
	return c.graph
}

func (c *callCollector) items(items []ir.Item) {
	for _, it := range items {
		switch n := it.(type) {
		case *ir.Function:
			c.add(n.Name, "", n)
		case *ir.Impl:
			target := implTarget(n.Target)
			for _, m := range n.Items {
				if fn, ok := m.(*ir.Function); ok {
					c.add(target+"::"+fn.Name, target, fn)
				}
			}
		case *ir.Module:
			c.items(n.Items)
		}
	}
}

func (c *callCollector) add(key, target string, fn *ir.Function) {
	if _, dup := c.graph[key]; dup {
		return
	}
	c.graph[key] = []string{}
	c.pending = append(c.pending, pendingBody{key: key, target: target, fn: fn})
}

// callee returns the function key a call node refers to, or "".
func (c *callCollector) callee(n any, target string) string {
	switch n := n.(type) {
	case *ir.Call:
		switch f := n.Func.(type) {
		case *ir.Identifier:
			return f.Name
		case *ir.PathExpr:
			segs := f.Segments
			for len(segs) > 1 && (segs[0] == "crate" || segs[0] == "self" || segs[0] == "super") {
				segs = segs[1:]
			}
			if len(segs) == 2 && segs[0] == "Self" && target != "" {
				return target + "::" + segs[1]
			}
			if len(segs) >= 2 {
				return segs[len(segs)-2] + "::" + segs[len(segs)-1]
			}
			if len(segs) == 1 {
				return segs[0]
			}
		}
	case *ir.MethodCall:
		if id, ok := n.Receiver.(*ir.Identifier); ok && id.Name == "self" && target != "" {
			return target + "::" + n.Method
		}
	}
	return ""
}

func implTarget(t ir.Type) string {
	if p, ok := t.(*ir.PathType); ok {
		segs := strings.Split(p.Name, "::")
		return segs[len(segs)-1]
	}
	return ir.TypeString(t)
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph callGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in sorted order so the result is deterministic.
func tarjanSCC(graph callGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root: pop its component
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			slices.Sort(scc)
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	slices.Sort(nodes)
	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

func sccToWarning(scc []string, graph callGraph) RecursionWarning {
	if len(scc) == 1 {
		fn := scc[0]
		return RecursionWarning{
			Path:    []string{fn, fn},
			Message: fmt.Sprintf("recursive function: %s calls itself", fn),
			Level:   "info",
		}
	}
	path := reconstructCyclePath(scc, graph)
	return RecursionWarning{
		Path:    path,
		Message: fmt.Sprintf("mutual recursion: %s", strings.Join(path, " -> ")),
		Level:   "warning",
	}
}

// reconstructCyclePath walks edges inside the component from its first
// (smallest) member until it returns to the start.
func reconstructCyclePath(scc []string, graph callGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}
	members := make(map[string]bool, len(scc))
	for _, node := range scc {
		members[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)
	for {
		visited[current] = true
		var next string
		for _, neighbor := range graph[current] {
			if members[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}
