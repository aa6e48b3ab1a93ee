// Package mindmap generates and stores study mind maps.
//
// Maps are produced by the mind-map key group of the AI client as strict
// JSON, validated against size limits before anything touches the
// database, and rendered server-side (HTML outline for the web,
// ASCII tree for the CLI). The model output is untrusted input: a map
// that is too deep, too wide or too large is rejected, never truncated.
package mindmap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Limits for a parsed map. The prompt asks the model to stay inside
// them; validation enforces them.
const (
	// MaxDepth counts levels including the root.
	MaxDepth = 4

	// MaxChildren caps direct children per node.
	MaxChildren = 8

	// MaxNodes caps the total node count of the whole tree.
	MaxNodes = 200

	// MaxTopicLen caps the topic in runes before it reaches the prompt.
	MaxTopicLen = 120
)

// Sentinel errors for map generation and validation.
var (
	// ErrEmptyTopic indicates the requested topic was blank.
	ErrEmptyTopic = errors.New("empty topic")

	// ErrBadMapJSON indicates the model output could not be parsed
	// into a valid map tree.
	ErrBadMapJSON = errors.New("invalid mind map JSON")

	// ErrTooDeep indicates the tree exceeds MaxDepth levels.
	ErrTooDeep = errors.New("mind map too deep")

	// ErrTooWide indicates a node exceeds MaxChildren children.
	ErrTooWide = errors.New("mind map too wide")

	// ErrTooManyNodes indicates the tree exceeds MaxNodes nodes.
	ErrTooManyNodes = errors.New("mind map too large")

	// ErrNotFound indicates the map does not exist or belongs to
	// another user.
	ErrNotFound = errors.New("mind map not found")
)

// Node is one entry in the map tree.
type Node struct {
	Label    string  `json:"label"`
	Children []*Node `json:"children,omitempty"`
}

// MindMap is a stored map. Root is nil on list results, which carry
// only the identifying columns.
type MindMap struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Topic     string
	Root      *Node
	CreatedAt time.Time
}

// NodeCount returns the total number of nodes in the tree.
func (m *MindMap) NodeCount() int {
	return countNodes(m.Root)
}

// Validate checks the tree against the package limits.
// It returns the first violation found, wrapping the matching sentinel.
func Validate(root *Node) error {
	if root == nil {
		return fmt.Errorf("%w: missing root", ErrBadMapJSON)
	}
	if n := countNodes(root); n > MaxNodes {
		return fmt.Errorf("%w: %d nodes (limit %d)", ErrTooManyNodes, n, MaxNodes)
	}
	return validateNode(root, 1)
}

func validateNode(n *Node, depth int) error {
	if strings.TrimSpace(n.Label) == "" {
		return fmt.Errorf("%w: node with empty label", ErrBadMapJSON)
	}
	if depth > MaxDepth {
		return fmt.Errorf("%w: depth %d (limit %d)", ErrTooDeep, depth, MaxDepth)
	}
	if len(n.Children) > MaxChildren {
		return fmt.Errorf("%w: %q has %d children (limit %d)",
			ErrTooWide, n.Label, len(n.Children), MaxChildren)
	}
	for _, c := range n.Children {
		if c == nil {
			return fmt.Errorf("%w: null node", ErrBadMapJSON)
		}
		if err := validateNode(c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func countNodes(n *Node) int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += countNodes(c)
	}
	return total
}
