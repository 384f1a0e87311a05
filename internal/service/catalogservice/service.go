// Package catalogservice owns the single shared list engine and coordinates it
// with the product API and the optional snapshot store.
package catalogservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/erauner12/catalogview/internal/catalog"
	"github.com/erauner12/catalogview/internal/export"
	"github.com/erauner12/catalogview/internal/listview"
	"github.com/erauner12/catalogview/internal/snapshot"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNotLoaded is returned by reads that need a dataset before one was loaded
	ErrNotLoaded = errors.New("dataset has not been loaded yet")

	// ErrPageSizeTooLarge is returned for page sizes above the configured cap
	ErrPageSizeTooLarge = errors.New("page size exceeds the maximum")

	// ErrSnapshotsDisabled is returned when no snapshot store is configured
	ErrSnapshotsDisabled = errors.New("snapshot store is not configured")
)

// Dataset sources reported by Status.
const (
	SourceNone     = ""
	SourceAPI      = "api"
	SourceSnapshot = "snapshot"
	SourceLocal    = "local" // populated by a create before any load
)

// ProductAPI is the remote product backend.
type ProductAPI interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	CreateProduct(ctx context.Context, in catalog.CreateInput) (catalog.Product, error)
	UpdateProduct(ctx context.Context, id int, in catalog.UpdateInput) (catalog.Patch, error)
}

// SnapshotStore persists the dataset between runs.
type SnapshotStore interface {
	Save(ctx context.Context, products []catalog.Product) error
	Load(ctx context.Context) (snapshot.Snapshot, error)
}

// Recorder receives operational counters.
type Recorder interface {
	ViewOperation(op string)
	SetDatasetRecords(n int)
	ValidationFailure(field string)
}

// Options configures a Service. Store and Recorder may be nil.
type Options struct {
	PageSize    int
	MaxPageSize int
	Store       SnapshotStore
	Recorder    Recorder
}

// Status describes the dataset for the info endpoint and the CLI.
type Status struct {
	Loaded      bool      `json:"loaded"`
	Source      string    `json:"source,omitempty"`
	LoadedAt    time.Time `json:"loadedAt,omitzero"`
	Records     int       `json:"records"`
	PageSize    int       `json:"pageSize"`
	MaxPageSize int       `json:"maxPageSize"`
}

// CreateResult is a successful create.
type CreateResult struct {
	Product catalog.Product `json:"product"`
	View    listview.View   `json:"view"`
}

// UpdateResult is a successful remote update. Applied is false when the
// product is not in the local dataset; the remote change still happened.
type UpdateResult struct {
	Patch   catalog.Patch `json:"patch"`
	Applied bool          `json:"applied"`
	View    listview.View `json:"view"`
}

// Service serializes access to one listview.Engine. Network mutations are
// serialized separately so a slow upstream call never blocks reads.
type Service struct {
	api         ProductAPI
	store       SnapshotStore
	rec         Recorder
	maxPageSize int

	opMu sync.Mutex // held across load, create and update

	mu       sync.RWMutex
	engine   *listview.Engine
	source   string
	loadedAt time.Time
}

// New creates a service with an empty dataset.
func New(api ProductAPI, opts Options) *Service {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = listview.DefaultPageSize
	}
	maxPageSize := max(opts.MaxPageSize, pageSize)

	rec := opts.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}

	return &Service{
		api:         api,
		store:       opts.Store,
		rec:         rec,
		maxPageSize: maxPageSize,
		engine:      listview.NewEngine(pageSize),
	}
}

// Load fetches the full catalog from the product API and replaces the dataset.
// On failure the previous dataset and view are left untouched.
func (s *Service) Load(ctx context.Context) (listview.View, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	logger := log.Ctx(ctx)
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load products")
		return listview.View{}, fmt.Errorf("load products: %w", err)
	}

	view := s.replaceDataset(products, SourceAPI, time.Now())
	logger.Info().Int("records", len(products)).Msg("dataset loaded from product API")

	s.saveSnapshot(ctx, products)
	return view, nil
}

// LoadFromSnapshot replaces the dataset with the stored snapshot.
func (s *Service) LoadFromSnapshot(ctx context.Context) (listview.View, error) {
	if s.store == nil {
		return listview.View{}, ErrSnapshotsDisabled
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return listview.View{}, fmt.Errorf("load snapshot: %w", err)
	}

	view := s.replaceDataset(snap.Products, SourceSnapshot, snap.TakenAt)
	log.Ctx(ctx).Info().
		Int("records", len(snap.Products)).
		Time("takenAt", snap.TakenAt).
		Msg("dataset loaded from snapshot")
	return view, nil
}

func (s *Service) replaceDataset(products []catalog.Product, source string, at time.Time) listview.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.engine.Load(products)
	s.source = source
	s.loadedAt = at
	s.rec.ViewOperation("load")
	s.rec.SetDatasetRecords(s.engine.Len())
	return view
}

// View returns the current page.
func (s *Service) View() listview.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.View()
}

// Search applies a raw search query and returns to page 1.
func (s *Service) Search(query string) listview.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.ViewOperation("search")
	return s.engine.Search(query)
}

// Sort applies a column header click. Unknown columns leave the view as is.
func (s *Service) Sort(column listview.Column) listview.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.ViewOperation("sort")
	return s.engine.SortBy(column)
}

// GoToPage moves to page n; out-of-range pages report changed=false.
func (s *Service) GoToPage(n int) (v listview.View, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.ViewOperation("page")
	return s.engine.GoToPage(n)
}

// SetPageSize changes the page size within [1, MaxPageSize].
func (s *Service) SetPageSize(n int) (listview.View, error) {
	if n > s.maxPageSize {
		return listview.View{}, fmt.Errorf("%w (%d)", ErrPageSizeTooLarge, s.maxPageSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.ViewOperation("page_size")
	return s.engine.SetPageSize(n)
}

// Query evaluates a stateless view over the dataset without touching the
// shared view state.
func (s *Service) Query(q listview.Query) (listview.View, error) {
	if q.Page.PageSize <= 0 {
		return listview.View{}, listview.ErrInvalidPageSize
	}
	if q.Page.PageSize > s.maxPageSize {
		return listview.View{}, fmt.Errorf("%w (%d)", ErrPageSizeTooLarge, s.maxPageSize)
	}

	s.mu.RLock()
	if s.source == SourceNone {
		s.mu.RUnlock()
		return listview.View{}, ErrNotLoaded
	}
	dataset := s.engine.Dataset()
	s.mu.RUnlock()

	s.rec.ViewOperation("query")
	return listview.Evaluate(dataset, q), nil
}

// Create validates the input, creates the product remotely and prepends it to
// the dataset. Invalid input never reaches the network.
func (s *Service) Create(ctx context.Context, in catalog.CreateInput) (CreateResult, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		s.recordValidation(err)
		return CreateResult{}, err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	logger := log.Ctx(ctx)
	product, err := s.api.CreateProduct(ctx, in)
	if err != nil {
		logger.Error().Err(err).Str("title", in.Title).Msg("failed to create product")
		return CreateResult{}, fmt.Errorf("create product: %w", err)
	}

	s.mu.Lock()
	view := s.engine.ApplyCreate(product)
	dataset := s.engine.Dataset()
	if s.source == SourceNone {
		s.source = SourceLocal
		s.loadedAt = time.Now()
	}
	s.rec.ViewOperation("create")
	s.rec.SetDatasetRecords(len(dataset))
	s.mu.Unlock()

	logger.Info().Int("id", product.ID).Str("title", product.Title).Msg("product created")
	s.saveSnapshot(ctx, dataset)
	return CreateResult{Product: product, View: view}, nil
}

// Update validates the input, updates the product remotely and merges the
// server's response into the local record.
func (s *Service) Update(ctx context.Context, id int, in catalog.UpdateInput) (UpdateResult, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		s.recordValidation(err)
		return UpdateResult{}, err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	logger := log.Ctx(ctx).With().Int("id", id).Logger()
	patch, err := s.api.UpdateProduct(ctx, id, in)
	if err != nil {
		logger.Error().Err(err).Msg("failed to update product")
		return UpdateResult{}, fmt.Errorf("update product %d: %w", id, err)
	}

	s.mu.Lock()
	view, found := s.engine.ApplyUpdate(id, patch)
	dataset := s.engine.Dataset()
	s.rec.ViewOperation("update")
	s.mu.Unlock()

	if !found {
		logger.Warn().Msg("updated product is not in the local dataset")
		return UpdateResult{Patch: patch, Applied: false, View: view}, nil
	}

	logger.Info().Msg("product updated")
	s.saveSnapshot(ctx, dataset)
	return UpdateResult{Patch: patch, Applied: true, View: view}, nil
}

// Export writes the whole working set, not just the current page, as CSV.
func (s *Service) Export(w io.Writer, opts export.Options) (int, error) {
	s.mu.RLock()
	if s.source == SourceNone {
		s.mu.RUnlock()
		return 0, ErrNotLoaded
	}
	working := s.engine.WorkingSet()
	s.mu.RUnlock()

	s.rec.ViewOperation("export")
	return export.WriteCSV(w, working, opts)
}

// ExportQuery writes the working set described by q's search and sort as CSV.
// It neither reads nor changes the shared view; q.Page is ignored.
func (s *Service) ExportQuery(w io.Writer, q listview.Query, opts export.Options) (int, error) {
	s.mu.RLock()
	if s.source == SourceNone {
		s.mu.RUnlock()
		return 0, ErrNotLoaded
	}
	dataset := s.engine.Dataset()
	s.mu.RUnlock()

	s.rec.ViewOperation("export")
	return export.WriteCSV(w, listview.Derive(dataset, q.Search, q.Sort), opts)
}

// Find returns a product from the dataset.
func (s *Service) Find(id int) (catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Find(id)
}

// Status reports what is loaded.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Loaded:      s.source != SourceNone,
		Source:      s.source,
		LoadedAt:    s.loadedAt,
		Records:     s.engine.Len(),
		PageSize:    s.engine.PageSpec().PageSize,
		MaxPageSize: s.maxPageSize,
	}
}

// MaxPageSize returns the page size cap.
func (s *Service) MaxPageSize() int {
	return s.maxPageSize
}

// saveSnapshot is best effort: the dataset in memory stays authoritative.
func (s *Service) saveSnapshot(ctx context.Context, products []catalog.Product) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, products); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to save dataset snapshot")
	}
}

func (s *Service) recordValidation(err error) {
	var ve *catalog.ValidationError
	if errors.As(err, &ve) {
		s.rec.ValidationFailure(ve.Field)
	}
}

type nopRecorder struct{}

func (nopRecorder) ViewOperation(string)     {}
func (nopRecorder) SetDatasetRecords(int)    {}
func (nopRecorder) ValidationFailure(string) {}
