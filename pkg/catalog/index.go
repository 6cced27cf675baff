/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package catalog

/*****************************************************************************************************************/

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/oklog/ulid"

	"github.com/arcfield/starcore/pkg/astrometry"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*****************************************************************************************************************/

// SkyIndex is a sqlite-backed store of catalog Source rows and their
// precomputed quads, built offline by cmd/genindex. The Plate Solver reads its
// quads; its raw sources are read back only by cmd/genindex --source=offline.
type SkyIndex struct {
	id string
	db *gorm.DB
}

/*****************************************************************************************************************/

// OpenSkyIndex opens (and, if necessary, migrates) the sqlite database at path.
func OpenSkyIndex(path string) (*SkyIndex, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Source{}, &QuadRecord{}, &IndexMeta{}); err != nil {
		return nil, err
	}

	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	id := ulid.MustNew(ulid.Timestamp(t), entropy).String()

	return &SkyIndex{id: id, db: db}, nil
}

/*****************************************************************************************************************/

// ID returns the handle's unique identifier, for correlating logs when a host
// has more than one sky index open at once.
func (idx *SkyIndex) ID() string {
	return idx.id
}

/*****************************************************************************************************************/

// Put inserts (or replaces) a batch of sources, tagged with the HEALPix pixel
// they were generated for.
func (idx *SkyIndex) Put(pixel int, sources []Source) error {
	for i := range sources {
		sources[i].HealPixel = pixel
	}

	return idx.db.CreateInBatches(sources, 500).Error
}

/*****************************************************************************************************************/

// PerformRadialSearch returns up to limit sources within radius degrees of eq,
// ordered by apparent brightness (brightest first), searching a square
// bounding box in RA/Dec as a coarse pre-filter and then exact Euclidean
// pruning - adequate at degree-scale search radii.
func (idx *SkyIndex) PerformRadialSearch(eq astrometry.ICRSEquatorialCoordinate, radius float64, limit int) ([]Source, error) {
	var candidates []Source

	cosDec := math.Cos(eq.Dec * math.Pi / 180)
	if cosDec < 1e-6 {
		cosDec = 1e-6
	}

	raHalfWidth := radius / cosDec

	err := idx.db.
		Where("dec BETWEEN ? AND ?", eq.Dec-radius, eq.Dec+radius).
		Where("ra BETWEEN ? AND ?", eq.RA-raHalfWidth, eq.RA+raHalfWidth).
		Order("magnitude ASC").
		Find(&candidates).Error

	if err != nil {
		return nil, err
	}

	filtered := candidates[:0]
	for _, s := range candidates {
		dRA := (s.RA - eq.RA) * cosDec
		dDec := s.Dec - eq.Dec
		if math.Hypot(dRA, dDec) <= radius {
			filtered = append(filtered, s)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].PhotometricGMeanMagnitude < filtered[j].PhotometricGMeanMagnitude
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return filtered, nil
}

/*****************************************************************************************************************/

// Close releases the underlying sqlite connection.
func (idx *SkyIndex) Close() error {
	db, err := idx.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

/*****************************************************************************************************************/
