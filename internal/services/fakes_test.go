package services

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/embedded-iot/unified-be/internal/constants"
	"github.com/embedded-iot/unified-be/internal/models"
	"github.com/embedded-iot/unified-be/internal/repository"
)

// memStore mimics the Mongo collections: newest first by createdAt, then _id.
type memStore[T any] struct {
	mu      sync.Mutex
	docs    []T
	id      func(*T) primitive.ObjectID
	created func(*T) time.Time
}

func (m *memStore[T]) insert(doc *T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, *doc)
}

func (m *memStore[T]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

func (m *memStore[T]) sorted(match func(*T) bool) []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []T
	for i := range m.docs {
		if match(&m.docs[i]) {
			out = append(out, m.docs[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := m.created(&out[i]), m.created(&out[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		a, b := m.id(&out[i]), m.id(&out[j])
		return bytes.Compare(a[:], b[:]) > 0
	})
	return out
}

func (m *memStore[T]) first(match func(*T) bool) (*T, error) {
	docs := m.sorted(match)
	if len(docs) == 0 {
		return nil, repository.ErrNotFound
	}
	doc := docs[0]
	return &doc, nil
}

func (m *memStore[T]) byID(id primitive.ObjectID) (*T, error) {
	return m.first(func(doc *T) bool { return m.id(doc) == id })
}

func (m *memStore[T]) page(match func(*T) bool, req repository.PageRequest) *models.Page[T] {
	if req.Page < 1 {
		req.Page = constants.DefaultPage
	}
	if req.Limit < 1 {
		req.Limit = constants.DefaultLimit
	}
	docs := m.sorted(match)
	total := int64(len(docs))
	start := (req.Page - 1) * req.Limit
	if start > len(docs) {
		start = len(docs)
	}
	end := start + req.Limit
	if end > len(docs) {
		end = len(docs)
	}
	return models.NewPage(docs[start:end], req.Page, req.Limit, total)
}

func (m *memStore[T]) update(id primitive.ObjectID, apply func(*T)) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.docs {
		if m.id(&m.docs[i]) == id {
			apply(&m.docs[i])
			doc := m.docs[i]
			return &doc, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore[T]) remove(id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.docs {
		if m.id(&m.docs[i]) == id {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func inWindow(created time.Time, q repository.RecordQuery) bool {
	if q.From != nil && created.Before(*q.From) {
		return false
	}
	if q.To != nil && created.After(*q.To) {
		return false
	}
	return true
}

var updatedAt = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeMasters struct {
	memStore[models.Master]
	insertErr error
}

func newFakeMasters(masters ...models.Master) *fakeMasters {
	f := &fakeMasters{memStore: memStore[models.Master]{
		id:      func(m *models.Master) primitive.ObjectID { return m.ID },
		created: func(m *models.Master) time.Time { return m.CreatedAt },
	}}
	for i := range masters {
		f.insert(&masters[i])
	}
	return f
}

func (f *fakeMasters) Insert(_ context.Context, master *models.Master) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.insert(master)
	return nil
}

func (f *fakeMasters) FindByID(_ context.Context, id primitive.ObjectID) (*models.Master, error) {
	return f.byID(id)
}

func (f *fakeMasters) FindByKey(_ context.Context, masterKey string) (*models.Master, error) {
	return f.first(func(m *models.Master) bool { return m.MasterKey == masterKey })
}

func (f *fakeMasters) IsMasterKeyTaken(_ context.Context, masterKey string, excludeID primitive.ObjectID) (bool, error) {
	docs := f.sorted(func(m *models.Master) bool { return m.MasterKey == masterKey && m.ID != excludeID })
	return len(docs) > 0, nil
}

func (f *fakeMasters) List(_ context.Context, q repository.MasterQuery) (*models.Page[models.Master], error) {
	return f.page(func(m *models.Master) bool { return q.User.IsZero() || m.User == q.User }, q.PageRequest), nil
}

func (f *fakeMasters) Update(_ context.Context, id primitive.ObjectID, u models.MasterUpdate) (*models.Master, error) {
	return f.update(id, func(m *models.Master) {
		if u.Name != nil {
			m.Name = *u.Name
		}
		if u.Description != nil {
			m.Description = *u.Description
		}
		m.UpdatedAt = updatedAt
	})
}

func (f *fakeMasters) Delete(_ context.Context, id primitive.ObjectID) error {
	return f.remove(id)
}

type fakeGateways struct {
	memStore[models.Gateway]
}

func newFakeGateways(gateways ...models.Gateway) *fakeGateways {
	f := &fakeGateways{memStore: memStore[models.Gateway]{
		id:      func(g *models.Gateway) primitive.ObjectID { return g.ID },
		created: func(g *models.Gateway) time.Time { return g.CreatedAt },
	}}
	for i := range gateways {
		f.insert(&gateways[i])
	}
	return f
}

func (f *fakeGateways) Insert(_ context.Context, gateway *models.Gateway) error {
	f.insert(gateway)
	return nil
}

func (f *fakeGateways) FindByID(_ context.Context, id primitive.ObjectID) (*models.Gateway, error) {
	return f.byID(id)
}

func (f *fakeGateways) FindByGatewayID(_ context.Context, gatewayID string) (*models.Gateway, error) {
	return f.first(func(g *models.Gateway) bool { return g.GatewayID == gatewayID })
}

func (f *fakeGateways) IsGatewayIDTaken(ctx context.Context, gatewayID string) (bool, error) {
	_, err := f.FindByGatewayID(ctx, gatewayID)
	return err == nil, nil
}

func (f *fakeGateways) List(_ context.Context, q repository.GatewayQuery) (*models.Page[models.Gateway], error) {
	return f.page(func(g *models.Gateway) bool { return q.Master.IsZero() || g.Master == q.Master }, q.PageRequest), nil
}

func (f *fakeGateways) Delete(_ context.Context, id primitive.ObjectID) error {
	return f.remove(id)
}

type fakeDevices struct {
	memStore[models.Device]
}

func newFakeDevices(devices ...models.Device) *fakeDevices {
	f := &fakeDevices{memStore: memStore[models.Device]{
		id:      func(d *models.Device) primitive.ObjectID { return d.ID },
		created: func(d *models.Device) time.Time { return d.CreatedAt },
	}}
	for i := range devices {
		f.insert(&devices[i])
	}
	return f
}

func (f *fakeDevices) Insert(_ context.Context, device *models.Device) error {
	f.insert(device)
	return nil
}

func (f *fakeDevices) FindByID(_ context.Context, id primitive.ObjectID) (*models.Device, error) {
	return f.byID(id)
}

func (f *fakeDevices) FindByDeviceID(_ context.Context, gateway primitive.ObjectID, deviceID string) (*models.Device, error) {
	return f.first(func(d *models.Device) bool { return d.Gateway == gateway && d.DeviceID == deviceID })
}

func (f *fakeDevices) IsDeviceIDTaken(ctx context.Context, gateway primitive.ObjectID, deviceID string) (bool, error) {
	_, err := f.FindByDeviceID(ctx, gateway, deviceID)
	return err == nil, nil
}

func (f *fakeDevices) List(_ context.Context, q repository.DeviceQuery) (*models.Page[models.Device], error) {
	return f.page(func(d *models.Device) bool { return q.Gateway.IsZero() || d.Gateway == q.Gateway }, q.PageRequest), nil
}

func (f *fakeDevices) Delete(_ context.Context, id primitive.ObjectID) error {
	return f.remove(id)
}

type fakeActivityLogs struct {
	memStore[models.ActivityLog]
}

func newFakeActivityLogs() *fakeActivityLogs {
	return &fakeActivityLogs{memStore: memStore[models.ActivityLog]{
		id:      func(l *models.ActivityLog) primitive.ObjectID { return l.ID },
		created: func(l *models.ActivityLog) time.Time { return l.CreatedAt },
	}}
}

func (f *fakeActivityLogs) Insert(_ context.Context, log *models.ActivityLog) error {
	f.insert(log)
	return nil
}

func (f *fakeActivityLogs) FindByID(_ context.Context, id primitive.ObjectID) (*models.ActivityLog, error) {
	return f.byID(id)
}

func (f *fakeActivityLogs) List(_ context.Context, q repository.RecordQuery) (*models.Page[models.ActivityLog], error) {
	return f.page(func(l *models.ActivityLog) bool {
		return (q.OwnerID.IsZero() || l.Master == q.OwnerID) && inWindow(l.CreatedAt, q)
	}, q.PageRequest), nil
}

func (f *fakeActivityLogs) Latest(_ context.Context, master primitive.ObjectID) (*models.ActivityLog, error) {
	return f.first(func(l *models.ActivityLog) bool { return master.IsZero() || l.Master == master })
}

func (f *fakeActivityLogs) Update(_ context.Context, id primitive.ObjectID, u models.ActivityLogUpdate) (*models.ActivityLog, error) {
	return f.update(id, func(l *models.ActivityLog) {
		if u.Master != nil {
			l.Master = *u.Master
		}
		if u.Category != nil {
			l.Category = *u.Category
		}
		if u.Type != nil {
			l.Type = *u.Type
		}
		if u.Description != nil {
			l.Description = *u.Description
		}
		if u.ActivityLogData != nil {
			l.ActivityLogData = u.ActivityLogData
		}
		l.UpdatedAt = updatedAt
	})
}

func (f *fakeActivityLogs) Delete(_ context.Context, id primitive.ObjectID) error {
	return f.remove(id)
}

type fakeFaults struct {
	memStore[models.Fault]
}

func newFakeFaults() *fakeFaults {
	return &fakeFaults{memStore: memStore[models.Fault]{
		id:      func(f *models.Fault) primitive.ObjectID { return f.ID },
		created: func(f *models.Fault) time.Time { return f.CreatedAt },
	}}
}

func (f *fakeFaults) Insert(_ context.Context, fault *models.Fault) error {
	f.insert(fault)
	return nil
}

func (f *fakeFaults) FindByID(_ context.Context, id primitive.ObjectID) (*models.Fault, error) {
	return f.byID(id)
}

func (f *fakeFaults) List(_ context.Context, q repository.RecordQuery) (*models.Page[models.Fault], error) {
	return f.page(func(fault *models.Fault) bool {
		return (q.OwnerID.IsZero() || fault.Gateway == q.OwnerID) && inWindow(fault.CreatedAt, q)
	}, q.PageRequest), nil
}

func (f *fakeFaults) Latest(_ context.Context, gateway primitive.ObjectID) (*models.Fault, error) {
	return f.first(func(fault *models.Fault) bool { return gateway.IsZero() || fault.Gateway == gateway })
}

func (f *fakeFaults) Update(_ context.Context, id primitive.ObjectID, u models.FaultUpdate) (*models.Fault, error) {
	return f.update(id, func(fault *models.Fault) {
		if u.Gateway != nil {
			fault.Gateway = *u.Gateway
		}
		if u.Device != nil {
			fault.Device = *u.Device
		}
		if u.Category != nil {
			fault.Category = *u.Category
		}
		if u.Type != nil {
			fault.Type = *u.Type
		}
		if u.Event != nil {
			fault.Event = *u.Event
		}
		if u.Position != nil {
			fault.Position = *u.Position
		}
		if u.Description != nil {
			fault.Description = *u.Description
		}
		if u.Reason != nil {
			fault.Reason = *u.Reason
		}
		if u.Suggest != nil {
			fault.Suggest = *u.Suggest
		}
		if u.FaultData != nil {
			fault.FaultData = u.FaultData
		}
		fault.UpdatedAt = updatedAt
	})
}

func (f *fakeFaults) Delete(_ context.Context, id primitive.ObjectID) error {
	return f.remove(id)
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// fixedClock returns successive instants one second apart, starting at start.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Second)
		return t
	}
}
