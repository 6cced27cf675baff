/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package catalog

/*****************************************************************************************************************/

import (
	"errors"

	"github.com/arcfield/starcore/pkg/astrometry"
	"github.com/arcfield/starcore/pkg/geometry"
)

/*****************************************************************************************************************/

type Catalog int

/*****************************************************************************************************************/

const (
	GAIA Catalog = iota
	SIMBAD
	// OFFLINE sources a sky index built ahead of time by cmd/genindex rather than
	// reaching out to a live catalog service, see NewOfflineCatalogService.
	OFFLINE
)

/*****************************************************************************************************************/

// Source is a single catalogued star, whether retrieved live from GAIA/SIMBAD or
// read back from an offline sky index. The gorm tags let it double as the row
// shape for the sqlite-backed sky index written by cmd/genindex.
type Source struct {
	UID                       string  `json:"uid" gorm:"column:uid;index" gaia:"source_id" simbad:"uid"`                     // Source ID (unique)
	Designation               string  `json:"designation" gorm:"column:designation" gaia:"designation" simbad:"designation"` // Source Designation
	RA                        float64 `json:"ra" gorm:"column:ra;index" gaia:"ra" simbad:"ra"`                               // Right Ascension (in degrees)
	Dec                       float64 `json:"dec" gorm:"column:dec;index" gaia:"dec" simbad:"dec"`                           // Declination (in degrees)
	ProperMotionRA            float64 `json:"pmra" gorm:"column:pmra" gaia:"pmra" simbad:"pmra"`                            // Proper Motion in RA (in mas/yr)
	ProperMotionDec           float64 `json:"pmdec" gorm:"column:pmdec" gaia:"pmdec" simbad:"pmdec"`                        // Proper Motion in Dec (in mas/yr)
	Parallax                  float64 `json:"parallax" gorm:"column:parallax" gaia:"parallax" simbad:"parallax"`            // Parallax (in mas)
	PhotometricGMeanFlux      float64 `json:"flux" gorm:"column:flux" gaia:"phot_g_mean_flux" simbad:"flux"`                // G-band Mean Flux (in e-/s)
	PhotometricGMeanMagnitude float64 `json:"magnitude" gorm:"column:magnitude" gaia:"phot_g_mean_mag" simbad:"magnitude"`  // G-band Mean Magnitude (in mag)
	HealPixel                 int     `json:"healpixel" gorm:"column:healpixel;index"`                                      // Owning HEALPix pixel at index build NSide
}

/*****************************************************************************************************************/

// TableName pins the gorm table name so repeated index builds at different
// resolutions don't collide with gorm's pluralisation of "Source".
func (Source) TableName() string {
	return "sources"
}

/*****************************************************************************************************************/

type SourceAsterism struct {
	A        Source
	B        Source
	C        Source
	Features geometry.InvariantFeatures
}

/*****************************************************************************************************************/

type CatalogService struct {
	Catalog   Catalog
	Limit     int
	Threshold float64
	Index     *SkyIndex // only populated when Catalog == OFFLINE
}

/*****************************************************************************************************************/

type Params struct {
	RA        float64
	Dec       float64
	Radius    float64
	Limit     int
	Threshold float64
}

/*****************************************************************************************************************/

func NewCatalogService(
	catalog Catalog,
	params Params,
) *CatalogService {
	return &CatalogService{
		Catalog:   catalog,
		Limit:     params.Limit,
		Threshold: params.Threshold,
	}
}

/*****************************************************************************************************************/

// NewOfflineCatalogService builds a CatalogService backed by a previously-built
// sky index rather than a live GAIA/SIMBAD lookup.
func NewOfflineCatalogService(index *SkyIndex, params Params) *CatalogService {
	return &CatalogService{
		Catalog:   OFFLINE,
		Limit:     params.Limit,
		Threshold: params.Threshold,
		Index:     index,
	}
}

/*****************************************************************************************************************/

func (c *CatalogService) PerformRadialSearch(
	eq astrometry.ICRSEquatorialCoordinate,
	radius float64,
) ([]Source, error) {
	switch c.Catalog {
	case GAIA:
		// Create a new GAIA service client:
		q := NewGAIAServiceClient()
		// Perform a radial search with the given center and radius, for all sources brighter than the threshold magnitude:
		return q.PerformRadialSearch(eq, radius, c.Threshold)
	case SIMBAD:
		// Create a new SIMBAD service client:
		q := NewSIMBADServiceClient()
		// Perform a radial search with the given center and radius, for up to Limit sources ordered by magnitude:
		return q.PerformRadialSearch(eq, radius, c.Limit, c.Threshold)
	case OFFLINE:
		if c.Index == nil {
			return nil, errors.New("offline catalog selected without a loaded sky index")
		}
		return c.Index.PerformRadialSearch(eq, radius, c.Limit)
	default:
		return nil, errors.New("unsupported catalog")
	}
}

/*****************************************************************************************************************/
