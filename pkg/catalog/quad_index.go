/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package catalog

/*****************************************************************************************************************/

import (
	"sort"

	"github.com/arcfield/starcore/pkg/astrometry"
	"github.com/arcfield/starcore/pkg/quad"
	"github.com/arcfield/starcore/pkg/star"
)

/*****************************************************************************************************************/

// QuadRecord is a precomputed, position-independent quad-code row: the four
// source correspondences that formed it plus its normalised C/D hash and its
// angular diameter (|AB|, in arcseconds), written once by cmd/genindex and read
// many times by the Plate Solver. Storing the hash and diameter alongside the
// four sources lets quads_in_scale_range and codes_within both be answered by a
// single table scan/query rather than re-deriving quads from raw sources at
// solve time.
type QuadRecord struct {
	ID        uint    `gorm:"primaryKey"`
	HealPixel int     `gorm:"column:healpixel;index"`
	Diameter  float64 `gorm:"column:diameter;index"` // |AB|, arcseconds

	HashCx float64 `gorm:"column:hash_cx"`
	HashCy float64 `gorm:"column:hash_cy"`
	HashDx float64 `gorm:"column:hash_dx"`
	HashDy float64 `gorm:"column:hash_dy"`

	AUID string  `gorm:"column:a_uid"`
	ARA  float64 `gorm:"column:a_ra"`
	ADec float64 `gorm:"column:a_dec"`

	BUID string  `gorm:"column:b_uid"`
	BRA  float64 `gorm:"column:b_ra"`
	BDec float64 `gorm:"column:b_dec"`

	CUID string  `gorm:"column:c_uid"`
	CRA  float64 `gorm:"column:c_ra"`
	CDec float64 `gorm:"column:c_dec"`

	DUID string  `gorm:"column:d_uid"`
	DRA  float64 `gorm:"column:d_ra"`
	DDec float64 `gorm:"column:d_dec"`
}

/*****************************************************************************************************************/

// TableName pins the gorm table name, mirroring Source.TableName.
func (QuadRecord) TableName() string {
	return "quads"
}

/*****************************************************************************************************************/

// IndexMeta is a singleton row recording the plate-scale range an index was
// built to support, answering the Index Provider's scale_range() query without
// re-deriving it from the quad table on every call.
type IndexMeta struct {
	ID        uint    `gorm:"primaryKey"`
	ScaleLow  float64 `gorm:"column:scale_low"`  // arcsec/pixel
	ScaleHigh float64 `gorm:"column:scale_high"` // arcsec/pixel
}

/*****************************************************************************************************************/

func (IndexMeta) TableName() string {
	return "index_meta"
}

/*****************************************************************************************************************/

const arcsecPerDegree = 3600.0

/*****************************************************************************************************************/

// quadToRecord flattens a quad built from catalog sources (per buildIndexQuads)
// into its persisted row shape.
func quadToRecord(pixel int, q quad.Quad) QuadRecord {
	return QuadRecord{
		HealPixel: pixel,
		Diameter:  q.Diameter(),
		HashCx:    q.NormalisedC.X,
		HashCy:    q.NormalisedC.Y,
		HashDx:    q.NormalisedD.X,
		HashDy:    q.NormalisedD.Y,
		AUID:      q.A.Designation,
		ARA:       q.A.RA,
		ADec:      q.A.Dec,
		BUID:      q.B.Designation,
		BRA:       q.B.RA,
		BDec:      q.B.Dec,
		CUID:      q.C.Designation,
		CRA:       q.C.RA,
		CDec:      q.C.Dec,
		DUID:      q.D.Designation,
		DRA:       q.D.RA,
		DDec:      q.D.Dec,
	}
}

/*****************************************************************************************************************/

// recordToQuad reconstructs a quad.Quad directly from a persisted row, without
// re-running NewQuad's determination/normalisation - the row already carries
// the normalised hash a build-time NewQuad call produced, so reconstructing it
// is just a field copy.
func recordToQuad(r QuadRecord) quad.Quad {
	a := star.Star{Designation: r.AUID, X: r.ARA * arcsecPerDegree, Y: r.ADec * arcsecPerDegree, RA: r.ARA, Dec: r.ADec}
	b := star.Star{Designation: r.BUID, X: r.BRA * arcsecPerDegree, Y: r.BDec * arcsecPerDegree, RA: r.BRA, Dec: r.BDec}
	c := star.Star{Designation: r.CUID, X: r.CRA * arcsecPerDegree, Y: r.CDec * arcsecPerDegree, RA: r.CRA, Dec: r.CDec}
	d := star.Star{Designation: r.DUID, X: r.DRA * arcsecPerDegree, Y: r.DDec * arcsecPerDegree, RA: r.DRA, Dec: r.DDec}

	return quad.Quad{
		A: a, B: b, C: c, D: d,
		NormalisedC: star.Star{X: r.HashCx, Y: r.HashCy},
		NormalisedD: star.Star{X: r.HashDx, Y: r.HashDy},
		Hash:        [4]float64{r.HashCx, r.HashCy, r.HashDx, r.HashDy},
		Precision:   3,
	}
}

/*****************************************************************************************************************/

// buildIndexQuads forms quads from every combination of four sources (the
// brightest 60, to bound combinatorial growth), treating RA/Dec directly as a
// local Euclidean plane in arcseconds - the same projection cmd/genindex used
// to build quads before this review and the Plate Solver still assumes when
// decoding a QuadRecord back into a quad.Quad.
func buildIndexQuads(sources []Source) []quad.Quad {
	sorted := make([]Source, len(sources))
	copy(sorted, sources)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PhotometricGMeanMagnitude < sorted[j].PhotometricGMeanMagnitude
	})

	n := len(sorted)
	if n > 60 {
		n = 60
	}
	sorted = sorted[:n]

	projected := make([]star.Star, n)
	for i, src := range sorted {
		projected[i] = star.Star{
			Designation: src.UID,
			X:           src.RA * arcsecPerDegree,
			Y:           src.Dec * arcsecPerDegree,
			RA:          src.RA,
			Dec:         src.Dec,
		}
	}

	quads := []quad.Quad{}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				for l := k + 1; l < n; l++ {
					q, err := quad.NewQuad(projected[i], projected[j], projected[k], projected[l], 3)
					if err != nil {
						continue
					}
					quads = append(quads, q)
				}
			}
		}
	}

	return quads
}

/*****************************************************************************************************************/

// PutQuads forms and persists the quad-code catalogue for a single HEALPix
// pixel's worth of sources, the precomputed counterpart to Put's raw source
// storage. Per the Index Provider contract, these rows - not a live radial
// search - are what quads_in_scale_range and codes_within answer from.
func (idx *SkyIndex) PutQuads(pixel int, sources []Source) error {
	quads := buildIndexQuads(sources)
	if len(quads) == 0 {
		return nil
	}

	records := make([]QuadRecord, len(quads))
	for i, q := range quads {
		records[i] = quadToRecord(pixel, q)
	}

	return idx.db.CreateInBatches(records, 500).Error
}

/*****************************************************************************************************************/

// SetScaleRange persists the plate-scale range (arcsec/pixel) this index was
// built to support, overwriting any previously-recorded range.
func (idx *SkyIndex) SetScaleRange(low, high float64) error {
	meta := IndexMeta{ID: 1, ScaleLow: low, ScaleHigh: high}
	return idx.db.Save(&meta).Error
}

/*****************************************************************************************************************/

// ScaleRange returns the plate-scale range (arcsec/pixel) this index was built
// to support, per the Index Provider contract's scale_range().
func (idx *SkyIndex) ScaleRange() (low, high float64, err error) {
	var meta IndexMeta
	if err := idx.db.First(&meta, 1).Error; err != nil {
		return 0, 0, err
	}
	return meta.ScaleLow, meta.ScaleHigh, nil
}

/*****************************************************************************************************************/

// QuadsInScaleRange returns every precomputed quad whose angular diameter
// (|AB|, arcseconds) falls within [minArcsec, maxArcsec], the Index Provider
// contract's quads_in_scale_range. The Plate Solver derives the bound from its
// configured pixel-scale fractions and the caller's assumed plate-scale range,
// so this query - not a live radial search - is what seeds the solver's
// codes_within lookup.
func (idx *SkyIndex) QuadsInScaleRange(minArcsec, maxArcsec float64) ([]quad.Quad, error) {
	var records []QuadRecord

	err := idx.db.
		Where("diameter BETWEEN ? AND ?", minArcsec, maxArcsec).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	quads := make([]quad.Quad, len(records))
	for i, r := range records {
		quads[i] = recordToQuad(r)
	}

	return quads, nil
}

/*****************************************************************************************************************/

// StarRadec looks up a catalogued source's equatorial coordinate by its unique
// identifier, per the Index Provider contract's star_radec().
func (idx *SkyIndex) StarRadec(uid string) (astrometry.ICRSEquatorialCoordinate, error) {
	var source Source

	if err := idx.db.Where("uid = ?", uid).First(&source).Error; err != nil {
		return astrometry.ICRSEquatorialCoordinate{}, err
	}

	return astrometry.ICRSEquatorialCoordinate{RA: source.RA, Dec: source.Dec}, nil
}

/*****************************************************************************************************************/
