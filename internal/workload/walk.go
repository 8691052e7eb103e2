package workload

import "math/rand"

// Graph is an undirected graph over nodes [0, len(Graph)),
// stored as adjacency lists.
type Graph [][]int

// RandomGraph links every node to its predecessor (so the
// graph is connected), then adds degree random links per node.
// Links are bidirectional: a walker can always go back.
func RandomGraph(rng *rand.Rand, nodes, degree int) Graph {
	graph := make(Graph, nodes)
	link := func(a, b int) {
		graph[a] = append(graph[a], b)
		graph[b] = append(graph[b], a)
	}
	for node := 1; node < nodes; node++ {
		link(node, node-1)
	}
	for node := range nodes {
		for range degree {
			if other := rng.Intn(nodes); other != node {
				link(node, other)
			}
		}
	}
	return graph
}

// RandomTree attaches every node after the root
// to a uniformly chosen earlier node.
// Links are bidirectional (child to parent and back).
func RandomTree(rng *rand.Rand, nodes int) Graph {
	tree := make(Graph, nodes)
	for node := 1; node < nodes; node++ {
		parent := rng.Intn(node)
		tree[parent] = append(tree[parent], node)
		tree[node] = append(tree[node], parent)
	}
	return tree
}

// Walk follows random links from node 0,
// emitting each visited node.
// A node without links is revisited.
// g must hold at least one node.
func (g Graph) Walk(rng *rand.Rand, length int) []int {
	var (
		trace   = make([]int, length)
		current int
	)
	for i := range trace {
		trace[i] = current
		if links := g[current]; len(links) > 0 {
			current = links[rng.Intn(len(links))]
		}
	}
	return trace
}

// GraphWalk simulates a user following links between pages,
// like browsing between sites.
func GraphWalk(rng *rand.Rand, nodes, degree, length int) []int {
	return RandomGraph(rng, nodes, degree).Walk(rng, length)
}

// TreeWalk simulates a user descending into and
// returning from directories.
func TreeWalk(rng *rand.Rand, nodes, length int) []int {
	return RandomTree(rng, nodes).Walk(rng, length)
}
