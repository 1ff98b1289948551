package planner

import (
	"container/heap"
	"math"

	"cspace-planner/internal/geometry"
)

// Path is an ordered list of waypoints from start to goal with its total length
type Path struct {
	Points []geometry.Point `json:"points"`
	Cost   float64          `json:"cost"`
}

// item is a queued tentative distance. seq is the node's position in the graph
// so equal distances settle the earliest scanned node first.
type item struct {
	seq   int
	dist  float64
	index int // Index in the heap
}

// priorityQueue implements heap.Interface ordered by (dist, seq)
type priorityQueue []*item

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := len(*pq)
	it := x.(*item)
	it.index = n
	*pq = append(*pq, it)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*pq = old[0 : n-1]
	return it
}

// ShortestPath runs Dijkstra from Start to Goal. It returns false when Goal
// cannot be reached. Relaxation is strict, so among equal-cost routes the one
// found first is kept.
func ShortestPath(g *Graph) (*Path, bool) {
	startIdx, okStart := g.order[StartName]
	goalIdx, okGoal := g.order[GoalName]
	if !okStart || !okGoal {
		return nil, false
	}

	start, goal := g.Nodes[startIdx], g.Nodes[goalIdx]
	if start.Center.Equal(goal.Center) {
		return &Path{Points: []geometry.Point{start.Center}, Cost: 0}, true
	}

	dist := make([]float64, len(g.Nodes))
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[startIdx] = 0

	previous := make(map[int]int)
	settled := make([]bool, len(g.Nodes))

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &item{seq: startIdx, dist: 0})

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*item)
		if settled[current.seq] {
			continue
		}
		settled[current.seq] = true

		if current.seq == goalIdx {
			break
		}

		name := g.Nodes[current.seq].Name
		for _, neighbor := range g.Neighbors(name) {
			next := g.order[neighbor.Name]
			if settled[next] {
				continue
			}

			tentative := dist[current.seq] + g.Adjacency[name][neighbor.Name]
			if tentative < dist[next] {
				dist[next] = tentative
				previous[next] = current.seq
				heap.Push(pq, &item{seq: next, dist: tentative})
			}
		}
	}

	if _, ok := previous[goalIdx]; !ok {
		return nil, false
	}

	points := []geometry.Point{}
	for n := goalIdx; ; n = previous[n] {
		points = append(points, g.Nodes[n].Center)
		if n == startIdx {
			break
		}
	}
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}

	return &Path{Points: points, Cost: dist[goalIdx]}, true
}
