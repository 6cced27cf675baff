/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package catalog

/*****************************************************************************************************************/

import (
	"errors"
	"fmt"

	"github.com/arcfield/starcore/pkg/astrometry"
	"github.com/arcfield/starcore/pkg/quad"
)

/*****************************************************************************************************************/

// MultiIndex opens an ordered list of sky indexes and treats them as the union
// of their quad sets, per the Index Provider contract's multi-index semantics:
// a solve is never limited to a single index file. Order matters only for
// StarRadec, where the first index to recognise a UID wins.
type MultiIndex struct {
	indices []*SkyIndex
	paths   []string
}

/*****************************************************************************************************************/

// OpenSkyIndices opens every index in paths, in order, failing (and closing
// whatever was already opened) on the first one that can't be opened.
func OpenSkyIndices(paths []string) (*MultiIndex, error) {
	if len(paths) == 0 {
		return nil, errors.New("no sky index paths given")
	}

	m := &MultiIndex{indices: make([]*SkyIndex, 0, len(paths)), paths: paths}

	for _, path := range paths {
		idx, err := OpenSkyIndex(path)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("opening index %q: %w", path, err)
		}
		m.indices = append(m.indices, idx)
	}

	return m, nil
}

/*****************************************************************************************************************/

// NewMultiIndexFromOpen wraps already-open indexes into a MultiIndex, for
// callers (such as tests against an in-memory sqlite database) that can't
// reopen an index from a path.
func NewMultiIndexFromOpen(indices []*SkyIndex) *MultiIndex {
	return &MultiIndex{indices: indices}
}

/*****************************************************************************************************************/

// Close releases every underlying index's sqlite connection, continuing past
// individual close failures to maximise the number that do get released.
func (m *MultiIndex) Close() error {
	var firstErr error
	for _, idx := range m.indices {
		if err := idx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

/*****************************************************************************************************************/

// Paths returns the ordered list of index files this MultiIndex was opened
// from, for logging.
func (m *MultiIndex) Paths() []string {
	return m.paths
}

/*****************************************************************************************************************/

// ScaleRange returns the widest plate-scale range (arcsec/pixel) spanned by
// any constituent index, so a solve against several indexes built at different
// resolutions is not limited to their intersection.
func (m *MultiIndex) ScaleRange() (low, high float64, err error) {
	found := false

	for _, idx := range m.indices {
		l, h, err := idx.ScaleRange()
		if err != nil {
			continue
		}

		if !found || l < low {
			low = l
		}
		if !found || h > high {
			high = h
		}
		found = true
	}

	if !found {
		return 0, 0, errors.New("no constituent index has a recorded scale range")
	}

	return low, high, nil
}

/*****************************************************************************************************************/

// QuadsInScaleRange returns the union of quads_in_scale_range across every
// constituent index.
func (m *MultiIndex) QuadsInScaleRange(minArcsec, maxArcsec float64) ([]quad.Quad, error) {
	var all []quad.Quad

	for _, idx := range m.indices {
		quads, err := idx.QuadsInScaleRange(minArcsec, maxArcsec)
		if err != nil {
			return nil, err
		}
		all = append(all, quads...)
	}

	return all, nil
}

/*****************************************************************************************************************/

// StarRadec looks up a source's equatorial coordinate, trying each index in
// the order the MultiIndex was opened with.
func (m *MultiIndex) StarRadec(uid string) (astrometry.ICRSEquatorialCoordinate, error) {
	for _, idx := range m.indices {
		eq, err := idx.StarRadec(uid)
		if err == nil {
			return eq, nil
		}
	}

	return astrometry.ICRSEquatorialCoordinate{}, fmt.Errorf("star %q not found in any of %d indices", uid, len(m.indices))
}

/*****************************************************************************************************************/
