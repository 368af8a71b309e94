// Package store provides the in-memory graph store backing a plan's step
// graph. Vertices are step identifiers; edges are dependency links.
package store

import (
	"fmt"
	"sync"

	"github.com/dominikbraun/graph"
)

// PlanStore is the store contract required by a plan graph. It extends
// graph.Store with in-place vertex property updates, used to attach labels
// after the fact.
type PlanStore[K comparable, T any] interface {
	graph.Store[K, T]
	UpdateVertex(k K, options ...func(*graph.VertexProperties))
	CreatesCycle(source, target K) (bool, error)
}

// MemoryStore keeps the step graph in maps guarded by one RWMutex, so
// concurrent reads from multiple executing steps are safe.
type MemoryStore[K comparable, T any] struct {
	lock       sync.RWMutex
	vertices   map[K]T
	properties map[K]*graph.VertexProperties

	// dependency edges in both directions for O(1) lookups:
	// children maps a step to its dependents, parents the reverse.
	children map[K]map[K]graph.Edge[K]
	parents  map[K]map[K]graph.Edge[K]
}

// NewMemoryStore creates an empty store.
func NewMemoryStore[K comparable, T any]() PlanStore[K, T] {
	return &MemoryStore[K, T]{
		vertices:   make(map[K]T),
		properties: make(map[K]*graph.VertexProperties),
		children:   make(map[K]map[K]graph.Edge[K]),
		parents:    make(map[K]map[K]graph.Edge[K]),
	}
}

func (s *MemoryStore[K, T]) AddVertex(k K, t T, p graph.VertexProperties) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[k]; ok {
		return graph.ErrVertexAlreadyExists
	}

	s.vertices[k] = t
	s.properties[k] = &p

	return nil
}

func (s *MemoryStore[K, T]) ListVertices() ([]K, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	hashes := make([]K, 0, len(s.vertices))
	for k := range s.vertices {
		hashes = append(hashes, k)
	}

	return hashes, nil
}

func (s *MemoryStore[K, T]) VertexCount() (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.vertices), nil
}

func (s *MemoryStore[K, T]) Vertex(k K) (T, graph.VertexProperties, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	v, ok := s.vertices[k]
	if !ok {
		return v, graph.VertexProperties{}, graph.ErrVertexNotFound
	}

	return v, *s.properties[k], nil
}

func (s *MemoryStore[K, T]) RemoveVertex(k K) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[k]; !ok {
		return graph.ErrVertexNotFound
	}

	if len(s.parents[k]) > 0 || len(s.children[k]) > 0 {
		return graph.ErrVertexHasEdges
	}
	delete(s.parents, k)
	delete(s.children, k)
	delete(s.vertices, k)
	delete(s.properties, k)

	return nil
}

func (s *MemoryStore[K, T]) AddEdge(sourceHash, targetHash K, edge graph.Edge[K]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.children[sourceHash]; !ok {
		s.children[sourceHash] = make(map[K]graph.Edge[K])
	}
	s.children[sourceHash][targetHash] = edge

	if _, ok := s.parents[targetHash]; !ok {
		s.parents[targetHash] = make(map[K]graph.Edge[K])
	}
	s.parents[targetHash][sourceHash] = edge

	return nil
}

// UpdateVertex applies the options to the stored vertex properties in place.
func (s *MemoryStore[K, T]) UpdateVertex(k K, options ...func(*graph.VertexProperties)) {
	s.lock.Lock()
	defer s.lock.Unlock()

	properties, ok := s.properties[k]
	if !ok {
		return
	}
	for _, opt := range options {
		opt(properties)
	}
}

func (s *MemoryStore[K, T]) UpdateEdge(sourceHash, targetHash K, edge graph.Edge[K]) error {
	if _, err := s.Edge(sourceHash, targetHash); err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.children[sourceHash][targetHash] = edge
	s.parents[targetHash][sourceHash] = edge

	return nil
}

func (s *MemoryStore[K, T]) RemoveEdge(sourceHash, targetHash K) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.parents[targetHash], sourceHash)
	delete(s.children[sourceHash], targetHash)

	return nil
}

func (s *MemoryStore[K, T]) Edge(sourceHash, targetHash K) (graph.Edge[K], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	edges, ok := s.children[sourceHash]
	if !ok {
		return graph.Edge[K]{}, graph.ErrEdgeNotFound
	}

	edge, ok := edges[targetHash]
	if !ok {
		return graph.Edge[K]{}, graph.ErrEdgeNotFound
	}

	return edge, nil
}

func (s *MemoryStore[K, T]) ListEdges() ([]graph.Edge[K], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	res := make([]graph.Edge[K], 0)
	for _, edges := range s.children {
		for _, edge := range edges {
			res = append(res, edge)
		}
	}

	return res, nil
}

// CreatesCycle walks the ancestors of source without building a full
// predecessor map. Adding source -> target creates a cycle exactly when
// target is already an ancestor of source.
func (s *MemoryStore[K, T]) CreatesCycle(source, target K) (bool, error) {
	if _, _, err := s.Vertex(source); err != nil {
		return false, fmt.Errorf("could not get vertex with hash %v: %w", source, err)
	}
	if _, _, err := s.Vertex(target); err != nil {
		return false, fmt.Errorf("could not get vertex with hash %v: %w", target, err)
	}
	if source == target {
		return true, nil
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	stack := []K{source}
	visited := make(map[K]struct{})
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := visited[current]; ok {
			continue
		}
		if current == target {
			return true, nil
		}
		visited[current] = struct{}{}

		for parent := range s.parents[current] {
			stack = append(stack, parent)
		}
	}

	return false, nil
}
