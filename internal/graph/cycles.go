package graph

// Elementary-cycle enumeration (Johnson's algorithm). Each circuit is found
// exactly once, rooted at its smallest node in sorted order, so the output
// is deterministic for a given graph.

// Cycles returns every distinct elementary cycle as an ordered path list.
// A cycle of length 1 is impossible because Build never adds self-edges.
func (g *Graph) Cycles() [][]string {
	n := len(g.Nodes)
	index := make(map[string]int, n)
	for i, v := range g.Nodes {
		index[v] = i
	}
	adj := make([][]int, n)
	for i, v := range g.Nodes {
		for _, w := range g.Edges[v].Sorted() {
			if j, ok := index[w]; ok {
				adj[i] = append(adj[i], j)
			}
		}
	}

	j := &johnson{nodes: g.Nodes, adj: adj}
	return j.run()
}

type johnson struct {
	nodes   []string
	adj     [][]int
	scc     [][]int // adjacency restricted to the current component
	blocked []bool
	b       []map[int]bool
	stack   []int
	cycles  [][]string
}

func (j *johnson) run() [][]string {
	n := len(j.nodes)
	j.cycles = make([][]string, 0)
	j.blocked = make([]bool, n)
	j.b = make([]map[int]bool, n)

	for s := 0; s < n; s++ {
		component := sccContaining(j.adj, s)
		if len(component) < 2 {
			continue
		}
		inComponent := make(map[int]bool, len(component))
		for _, v := range component {
			inComponent[v] = true
		}
		j.scc = make([][]int, n)
		for _, v := range component {
			for _, w := range j.adj[v] {
				if inComponent[w] {
					j.scc[v] = append(j.scc[v], w)
				}
			}
		}
		for _, v := range component {
			j.blocked[v] = false
			j.b[v] = make(map[int]bool)
		}
		j.circuit(s, s)
	}
	return j.cycles
}

func (j *johnson) circuit(v, s int) bool {
	found := false
	j.stack = append(j.stack, v)
	j.blocked[v] = true

	for _, w := range j.scc[v] {
		if w == s {
			cycle := make([]string, len(j.stack))
			for i, u := range j.stack {
				cycle[i] = j.nodes[u]
			}
			j.cycles = append(j.cycles, cycle)
			found = true
		} else if !j.blocked[w] {
			if j.circuit(w, s) {
				found = true
			}
		}
	}

	if found {
		j.unblock(v)
	} else {
		for _, w := range j.scc[v] {
			if j.b[w] == nil {
				j.b[w] = make(map[int]bool)
			}
			j.b[w][v] = true
		}
	}
	j.stack = j.stack[:len(j.stack)-1]
	return found
}

func (j *johnson) unblock(v int) {
	j.blocked[v] = false
	for w := range j.b[v] {
		delete(j.b[v], w)
		if j.blocked[w] {
			j.unblock(w)
		}
	}
}

// sccContaining runs Tarjan's algorithm over the subgraph induced by
// vertices >= s and returns the strongly connected component containing s.
func sccContaining(adj [][]int, s int) []int {
	n := len(adj)
	const unvisited = -1

	indexOf := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range indexOf {
		indexOf[i] = unvisited
	}
	var stack []int
	counter := 0
	var result []int

	var strongconnect func(v int)
	strongconnect = func(v int) {
		indexOf[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if w < s {
				continue
			}
			if indexOf[w] == unvisited {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] && indexOf[w] < lowlink[v] {
				lowlink[v] = indexOf[w]
			}
		}

		if lowlink[v] == indexOf[v] {
			var component []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			for _, w := range component {
				if w == s {
					result = component
					return
				}
			}
		}
	}

	strongconnect(s)
	return result
}
