package cases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ONSdigital/dp-covid-area-stats/config"
	"github.com/ONSdigital/log.go/v2/log"
)

// Options control which datasets a load refreshes
type Options struct {
	// ForceLoad refetches all three national datasets even if cached
	ForceLoad bool
	// EnglandAreaType selects the local-authority granularity of the
	// England and Wales datasets. Empty means the configured default.
	EnglandAreaType AreaType
}

// Store caches the three national matrices together with the area type they
// were loaded with. A zero Store is empty and ready to use.
//
// The store's mutex serialises loads and reads through it, so a single
// Store can back concurrent requests and be shared between Datasets
// instances.
type Store struct {
	mu       sync.Mutex
	england  *Matrix
	wales    *Matrix
	scotland *Matrix
	areaType AreaType
}

// NewStore returns an empty Store
func NewStore() *Store {
	return &Store{}
}

// Datasets provides COVID-19 case counts for England, Wales and Scotland.
// Each national dataset is fetched and reshaped at most once per parameter
// set; instances sharing a Store reuse each other's data. Safe for
// concurrent use: the underlying store serialises loads and reads.
type Datasets struct {
	cfg     config.Config
	fetcher Fetcher
	store   *Store
}

// NewDatasets creates a new Datasets provider backed by the given store
func NewDatasets(cfg config.Config, f Fetcher, store *Store) *Datasets {
	return &Datasets{
		cfg:     cfg,
		fetcher: f,
		store:   store,
	}
}

// Load makes sure the store holds all three national matrices. England and
// Wales are (re)loaded when absent, when ForceLoad is set, or when the
// requested area type differs from the one the store was populated with;
// Scotland when absent or forced. A failed load leaves any datasets already
// refreshed in place; there is no all-or-nothing guarantee across nations.
func (d *Datasets) Load(ctx context.Context, opts Options) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	return d.load(ctx, opts)
}

func (d *Datasets) load(ctx context.Context, opts Options) error {
	areaType := opts.EnglandAreaType
	if areaType == "" {
		areaType = AreaType(d.cfg.DefaultAreaType)
	}
	if !areaType.IsValid() {
		return NewError(
			errors.New("invalid england area type"),
			log.Data{"area_type": areaType},
		)
	}

	reloadCases := opts.ForceLoad || d.store.areaType != areaType

	if d.store.england == nil || reloadCases {
		m, err := d.loadCases(ctx, England, areaType)
		if err != nil {
			return fmt.Errorf("failed to load England cases: %w", err)
		}
		d.store.england = m
	}

	if d.store.wales == nil || reloadCases {
		m, err := d.loadCases(ctx, Wales, areaType)
		if err != nil {
			return fmt.Errorf("failed to load Wales cases: %w", err)
		}
		d.store.wales = m
	}

	if d.store.scotland == nil || opts.ForceLoad {
		m, err := d.loadScotlandCases(ctx)
		if err != nil {
			return fmt.Errorf("failed to load Scotland cases: %w", err)
		}
		d.store.scotland = m
	}

	d.store.areaType = areaType
	return nil
}

// CasesData returns the unified dataset: the three national matrices
// concatenated row-wise with their date columns reconciled. It loads
// whatever the store is missing first, per Load's cache rules. The store
// lock is held across the load and the concatenation so a concurrent
// reload cannot swap matrices out mid-read.
func (d *Datasets) CasesData(ctx context.Context, opts Options) (*Matrix, error) {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	if err := d.load(ctx, opts); err != nil {
		return nil, err
	}
	return Concat(d.store.england, d.store.wales, d.store.scotland)
}

func (d *Datasets) loadCases(ctx context.Context, country Country, areaType AreaType) (*Matrix, error) {
	url := strings.ReplaceAll(d.cfg.UKCasesURL, config.AreaTypeToken, string(areaType))

	log.Info(ctx, "loading cases dataset", log.Data{"country": country, "url": url})
	table, err := d.fetcher.GetCSV(ctx, url, false)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "cases dataset loaded", log.Data{"country": country, "rows": len(table.Rows)})

	return reshapeCases(table, country)
}

func (d *Datasets) loadScotlandCases(ctx context.Context) (*Matrix, error) {
	log.Info(ctx, "loading scotland cases dataset", log.Data{"url": d.cfg.ScotlandCasesURL})
	// the health-board export has contained ragged rows before, so ask for
	// lenient parsing and keep whatever decodes
	table, err := d.fetcher.GetCSV(ctx, d.cfg.ScotlandCasesURL, true)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "scotland cases dataset loaded", log.Data{"rows": len(table.Rows)})

	return reshapeScotlandCases(table)
}
