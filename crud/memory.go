package crud

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reoring/shapekit"
)

// Item is a stored record of a schema-driven entity: the declared fields plus
// id, createdAt and updatedAt.
type Item map[string]any

// ID returns the record id.
func (it Item) ID() string {
	id, _ := it[shapekit.FieldID].(string)
	return id
}

// MemoryOption configures a MemoryService.
type MemoryOption func(*MemoryService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryService) { s.now = now }
}

// WithIDGenerator replaces the default uuid.NewString.
func WithIDGenerator(next func() string) MemoryOption {
	return func(s *MemoryService) { s.nextID = next }
}

// MemoryService is an in-memory Service for schema-driven records. Listing
// order is insertion order. It is safe for concurrent use.
type MemoryService struct {
	schema shapekit.EntitySchema
	now    func() time.Time
	nextID func() string

	mu    sync.RWMutex
	items map[string]Item
	order []string
}

var _ Service[Item, map[string]any, map[string]any] = (*MemoryService)(nil)

// NewMemoryService returns an empty store for records of schema.
func NewMemoryService(schema shapekit.EntitySchema, opts ...MemoryOption) *MemoryService {
	s := &MemoryService{
		schema: schema,
		now:    time.Now,
		nextID: uuid.NewString,
		items:  map[string]Item{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindAll returns a copy of the requested page.
func (s *MemoryService) FindAll(_ context.Context, opts PageOptions) (Page[Item], error) {
	opts = opts.Normalize()
	s.mu.RLock()
	defer s.mu.RUnlock()

	page := Page[Item]{Data: []Item{}, Total: len(s.order), Page: opts.Page, PageSize: opts.PageSize}
	start := (opts.Page - 1) * opts.PageSize
	if start >= len(s.order) {
		return page, nil
	}
	end := min(start+opts.PageSize, len(s.order))
	for _, id := range s.order[start:end] {
		page.Data = append(page.Data, maps.Clone(s.items[id]))
	}
	return page, nil
}

// FindByID returns nil, nil for an unknown id.
func (s *MemoryService) FindByID(_ context.Context, id string) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	out := maps.Clone(it)
	return &out, nil
}

// Create stores the declared fields of input. Unknown keys are dropped.
func (s *MemoryService) Create(_ context.Context, input map[string]any) (Item, error) {
	it := Item{}
	s.assign(it, input)
	now := s.now().UTC()
	it[shapekit.FieldCreatedAt] = now
	it[shapekit.FieldUpdatedAt] = now

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID()
	it[shapekit.FieldID] = id
	s.items[id] = it
	s.order = append(s.order, id)
	return maps.Clone(it), nil
}

// Update overwrites the declared fields present in input. Null and absent
// fields are left unchanged.
func (s *MemoryService) Update(_ context.Context, id string, input map[string]any) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	it = maps.Clone(it)
	s.assign(it, input)
	it[shapekit.FieldUpdatedAt] = s.now().UTC()
	s.items[id] = it
	return maps.Clone(it), nil
}

// Delete removes the record with id.
func (s *MemoryService) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// assign copies declared fields from input into it, normalized to their Go
// representation: string, float64, bool or time.Time. Values of the wrong
// kind are skipped; the handler rejects them before they get here.
func (s *MemoryService) assign(it Item, input map[string]any) {
	r, ok := shapekit.AsRecord(input, shapekit.RecordRule{})
	if !ok {
		return
	}
	for _, f := range s.schema.Fields {
		var (
			v  any
			ok bool
		)
		switch f.Kind {
		case shapekit.KindText:
			v, ok = r.Text(f.Name)
		case shapekit.KindNumber:
			v, ok = r.Number(f.Name)
		case shapekit.KindBoolean:
			v, ok = r.Bool(f.Name)
		case shapekit.KindTimestamp:
			var t time.Time
			t, ok = r.Time(f.Name)
			v = t.UTC()
		}
		if ok {
			it[f.Name] = v
		}
	}
}

// NewMemoryHandler serves svc over HTTP.
func NewMemoryHandler(svc *MemoryService, opts ...Option) (*Handler[Item, map[string]any, map[string]any], error) {
	return NewHandler[Item, map[string]any, map[string]any](svc.schema, svc, opts...)
}
