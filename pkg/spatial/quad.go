/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package spatial

/*****************************************************************************************************************/

import (
	"errors"

	"github.com/arcfield/starcore/pkg/quad"
	"gonum.org/v1/gonum/spatial/vptree"
)

/*****************************************************************************************************************/

// Match holds the matched Quad and the distance between the generated Quad and the matched Quad:
type QuadMatch struct {
	Quad     quad.Quad
	Distance float64
}

/*****************************************************************************************************************/

type QuadMatcher struct {
	Tree *vptree.Tree
}

/*****************************************************************************************************************/

// NewQuadMatcher builds a vantage-point tree over the given source quads.
func NewQuadMatcher(quads []quad.Quad) (*QuadMatcher, error) {
	// Convert []quad.Quad to []vptree.Comparable
	comparables := make([]vptree.Comparable, len(quads))

	for i, q := range quads {
		comparables[i] = q
	}

	// Initialize the VP-Tree with effort=1 (can be adjusted)
	tree, err := vptree.New(comparables, 1, nil) // effort=1, src=nil for default randomness
	if err != nil {
		return nil, err
	}

	return &QuadMatcher{
		Tree: tree,
	}, nil
}

/*****************************************************************************************************************/

// MatchQuad finds the nearest source Quad to the generated Quad, and fails if it
// lies farther than tolerance. No per-star usage limit is applied.
func (m *QuadMatcher) MatchQuad(q quad.Quad, tolerance float64) (*QuadMatch, error) {
	// Query the VP-Tree for the nearest neighbor
	nearest, distance := m.Tree.Nearest(q)

	if distance > tolerance {
		return nil, errors.New("no match found within the specified distance")
	}

	matchedQuad, ok := nearest.(quad.Quad)

	if !ok {
		return nil, errors.New("matched element is not of type Quad")
	}

	// Create a copy of the matchedQuad to avoid modifying the original source Quad
	qc := matchedQuad

	// Ensure we set the designations of the matched Quad:
	qc.A.Designation = q.A.Designation
	qc.B.Designation = q.B.Designation
	qc.C.Designation = q.C.Designation
	qc.D.Designation = q.D.Designation

	return &QuadMatch{
		Quad:     qc,
		Distance: distance,
	}, nil
}

/*****************************************************************************************************************/

// MatchQuads finds matches for all generated quads.
// Returns a slice of Match containing successful matches.
func (m *QuadMatcher) MatchQuads(quads []quad.Quad, tolerance float64) ([]QuadMatch, error) {
	matches := []QuadMatch{}

	for _, q := range quads {
		match, err := m.MatchQuad(q, tolerance)
		if err != nil {
			// Handle quads with no matches or exceeded usage as needed, e.g., skip or log
			continue
		}

		matches = append(matches, *match)
	}

	return matches, nil
}

/*****************************************************************************************************************/
