package service

import (
	"context"
	"io"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	schederrors "slotwise/internal/scheduling/errors"
	"slotwise/internal/scheduling/repository"
	"slotwise/internal/scheduling/validator"
	"slotwise/pkg/config"
	mongotx "slotwise/pkg/db/mongo"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  "json",
		Output:  io.Discard,
		Service: "test",
	})
}

func testConfig() *config.Config {
	return &config.Config{
		Timezone:               "UTC",
		DefaultSlotDurationMin: 30,
		DefaultStartOfDay:      "09:00",
		DefaultEndOfDay:        "17:00",
		ReadTimeout:            5 * time.Second,
		WriteTimeout:           5 * time.Second,
		Log:                    testLogger(),
	}
}

// In-memory booking repository

type memoryBookingRepository struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
}

func newMemoryBookingRepository() *memoryBookingRepository {
	return &memoryBookingRepository{bookings: make(map[string]*model.Booking)}
}

func (m *memoryBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *booking
	m.bookings[booking.ID] = &clone
	return nil
}

func (m *memoryBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, schederrors.ErrNotFound
	}
	clone := *booking
	return &clone, nil
}

func (m *memoryBookingRepository) all() []*model.Booking {
	var out []*model.Booking
	for _, b := range m.bookings {
		clone := *b
		out = append(out, &clone)
	}
	return out
}

func (m *memoryBookingRepository) FindAll(ctx context.Context, filter repository.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.all() {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.EventTypeID != "" && b.EventTypeID != filter.EventTypeID {
			continue
		}
		if filter.From != nil && b.StartTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !b.StartTime.Before(*filter.To) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *memoryBookingRepository) Count(ctx context.Context, filter repository.BookingFilter) (int64, error) {
	all, _ := m.FindAll(ctx, filter, 0, 0)
	return int64(len(all)), nil
}

func (m *memoryBookingRepository) FindOverlapping(ctx context.Context, startTime, endTime time.Time) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.all() {
		if b.Status == model.BookingStatusCancelled {
			continue
		}
		if b.StartTime.Before(endTime) && b.EndTime.After(startTime) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryBookingRepository) FindByEmail(ctx context.Context, email string) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.all() {
		if b.GuestEmail == email {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryBookingRepository) FindActive(ctx context.Context) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.all() {
		if b.Status != model.BookingStatusCancelled && b.Status != model.BookingStatusCompleted {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return schederrors.ErrNotFound
	}
	clone := *booking
	clone.ID = id
	m.bookings[id] = &clone
	return nil
}

func (m *memoryBookingRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return schederrors.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *memoryBookingRepository) Restore(ctx context.Context, bookings []*model.Booking) error {
	for _, b := range bookings {
		if err := m.Create(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

// Lock repository: duplicate detection without Mongo

type memoryLockRepository struct {
	mu    sync.Mutex
	held  map[string]bool
	fail  bool
	calls int
}

func newMemoryLockRepository() *memoryLockRepository {
	return &memoryLockRepository{held: make(map[string]bool)}
}

func (m *memoryLockRepository) Create(ctx context.Context, lock *model.BookingLock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail || m.held[lock.ID] {
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	m.held[lock.ID] = true
	return nil
}

func (m *memoryLockRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, id)
	return nil
}

// Event type repository

type mockEventTypeRepository struct {
	eventTypes map[string]*model.EventType
}

func newMockEventTypeRepository(eventTypes ...*model.EventType) *mockEventTypeRepository {
	m := &mockEventTypeRepository{eventTypes: make(map[string]*model.EventType)}
	for _, et := range eventTypes {
		m.eventTypes[et.ID] = et
	}
	return m
}

func (m *mockEventTypeRepository) Create(ctx context.Context, eventType *model.EventType) error {
	m.eventTypes[eventType.ID] = eventType
	return nil
}

func (m *mockEventTypeRepository) FindByID(ctx context.Context, id string) (*model.EventType, error) {
	et, ok := m.eventTypes[id]
	if !ok {
		return nil, schederrors.ErrNotFound
	}
	return et, nil
}

func (m *mockEventTypeRepository) FindBySlug(ctx context.Context, slug string) (*model.EventType, error) {
	for _, et := range m.eventTypes {
		if et.Slug == slug {
			return et, nil
		}
	}
	return nil, schederrors.ErrNotFound
}

func (m *mockEventTypeRepository) FindAll(ctx context.Context, activeOnly bool) ([]*model.EventType, error) {
	var out []*model.EventType
	for _, et := range m.eventTypes {
		if activeOnly && !et.IsActive {
			continue
		}
		out = append(out, et)
	}
	return out, nil
}

func (m *mockEventTypeRepository) CountBySlug(ctx context.Context, slug, excludeID string) (int64, error) {
	var count int64
	for _, et := range m.eventTypes {
		if et.Slug == slug && et.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (m *mockEventTypeRepository) Update(ctx context.Context, id string, eventType *model.EventType) error {
	if _, ok := m.eventTypes[id]; !ok {
		return schederrors.ErrNotFound
	}
	m.eventTypes[id] = eventType
	return nil
}

func (m *mockEventTypeRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.eventTypes[id]; !ok {
		return schederrors.ErrNotFound
	}
	delete(m.eventTypes, id)
	return nil
}

// Settings repository

type mockSettingsRepository struct {
	stored *model.BookingSettings
}

func (m *mockSettingsRepository) Get(ctx context.Context) (*model.BookingSettings, error) {
	if m.stored == nil {
		return nil, schederrors.ErrNotFound
	}
	return m.stored, nil
}

func (m *mockSettingsRepository) Upsert(ctx context.Context, settings *model.BookingSettings) error {
	clone := *settings
	m.stored = &clone
	return nil
}

// Broadcaster recording published events in order

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
	data   []any
}

func (b *recordingBroadcaster) Publish(ctx context.Context, event string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	b.data = append(b.data, data)
}

func (b *recordingBroadcaster) published() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

// In-memory lead repository

type memoryLeadRepository struct {
	mu    sync.Mutex
	leads map[string]*model.Lead
}

func newMemoryLeadRepository() *memoryLeadRepository {
	return &memoryLeadRepository{leads: make(map[string]*model.Lead)}
}

func (m *memoryLeadRepository) Create(ctx context.Context, lead *model.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *lead
	m.leads[lead.ID] = &clone
	return nil
}

func (m *memoryLeadRepository) FindByID(ctx context.Context, id string) (*model.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return nil, schederrors.ErrNotFound
	}
	clone := *lead
	return &clone, nil
}

func (m *memoryLeadRepository) matching(filter repository.LeadFilter) []*model.Lead {
	var out []*model.Lead
	for _, l := range m.leads {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && l.Priority != filter.Priority {
			continue
		}
		if filter.Source != "" && l.Source != filter.Source {
			continue
		}
		if filter.Email != "" && l.Email != filter.Email {
			continue
		}
		clone := *l
		out = append(out, &clone)
	}
	return out
}

func (m *memoryLeadRepository) FindAll(ctx context.Context, filter repository.LeadFilter, limit int, offset int64) ([]*model.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matching(filter), nil
}

func (m *memoryLeadRepository) Count(ctx context.Context, filter repository.LeadFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.matching(filter))), nil
}

func (m *memoryLeadRepository) FindActiveByEmail(ctx context.Context, email string) (*model.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.leads {
		if l.Email == email && !l.IsTerminal() {
			clone := *l
			return &clone, nil
		}
	}
	return nil, schederrors.ErrNotFound
}

func (m *memoryLeadRepository) Update(ctx context.Context, id string, lead *model.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leads[id]; !ok {
		return schederrors.ErrNotFound
	}
	clone := *lead
	clone.ID = id
	m.leads[id] = &clone
	return nil
}

func (m *memoryLeadRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leads[id]; !ok {
		return schederrors.ErrNotFound
	}
	delete(m.leads, id)
	return nil
}

func (m *memoryLeadRepository) CountByField(ctx context.Context, field string) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64)
	for _, l := range m.leads {
		switch field {
		case "status":
			out[l.Status]++
		case "priority":
			out[l.Priority]++
		case "source":
			out[l.Source]++
		}
	}
	return out, nil
}

// Wiring helper

type testEnv struct {
	bookings    BookingService
	leads       LeadService
	eventTypes  EventTypeService
	settings    SettingsService
	bookingRepo *memoryBookingRepository
	lockRepo    *memoryLockRepository
	leadRepo    *memoryLeadRepository
	etRepo      *mockEventTypeRepository
	setRepo     *mockSettingsRepository
	broadcast   *recordingBroadcaster
}

func newTestEnv(eventTypes ...*model.EventType) *testEnv {
	cfg := testConfig()
	log := cfg.Log

	env := &testEnv{
		bookingRepo: newMemoryBookingRepository(),
		lockRepo:    newMemoryLockRepository(),
		leadRepo:    newMemoryLeadRepository(),
		etRepo:      newMockEventTypeRepository(eventTypes...),
		setRepo:     &mockSettingsRepository{},
		broadcast:   &recordingBroadcaster{},
	}

	env.settings = NewSettingsService(env.setRepo, validator.NewSettingsValidator(log), env.broadcast, cfg, log)
	env.bookings = NewBookingService(
		env.bookingRepo,
		env.lockRepo,
		env.etRepo,
		env.settings,
		validator.NewBookingValidator(log),
		env.broadcast,
		cfg,
		log,
	)
	env.leads = NewLeadService(env.leadRepo, env.settings, validator.NewLeadValidator(log), env.broadcast, log)
	env.eventTypes = NewEventTypeService(env.etRepo, validator.NewEventTypeValidator(log), env.broadcast, log)
	return env
}
