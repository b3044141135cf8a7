package graph

import "errors"

// Structural errors returned by Graph edits.
var (
	ErrGraphFrozen      = errors.New("graph is frozen")
	ErrInvalidVertex    = errors.New("invalid vertex")
	ErrDuplicateVertex  = errors.New("duplicate vertex label")
	ErrVertexNotFound   = errors.New("vertex not found")
	ErrVertexHasEdges   = errors.New("vertex still has incident edges")
	ErrInvalidEdge      = errors.New("invalid edge")
	ErrEdgeAlreadyAdded = errors.New("edge already added to a graph")
	ErrEdgeNotFound     = errors.New("edge not found")
	ErrSelfMerge        = errors.New("cannot merge a vertex into itself")
)

// Defects raised by StateEditor. They indicate a bug in an edge
// implementation and are delivered as panics wrapping these values.
var (
	ErrNegativeWeight   = errors.New("negative weight increment")
	ErrNegativeDuration = errors.New("negative time increment")
	ErrNegativeDistance = errors.New("negative walk distance increment")
	ErrEditorSpent      = errors.New("state editor already produced its state")
)
