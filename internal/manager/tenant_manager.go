// internal/manager/tenant_manager.go
package manager

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"fuelmap/internal/ingest"
	"fuelmap/internal/messaging"
	"fuelmap/internal/model"
	"fuelmap/internal/storage"
)

// keyedLocks serializes writes per scope. Tenant A's write never blocks
// tenant B's anything.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedLocks) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}

// TenantManager owns tenant lifecycle: the tenant record, its ingest queue
// and consumer, and the per-scope write locks every mutation goes through.
type TenantManager struct {
	rabbitConn *amqp.Connection
	rabbit     *messaging.RabbitClient
	store      storage.Store
	pipeline   *ingest.Pipeline

	tenantLocks  *keyedLocks
	mappingLocks *keyedLocks

	mu        sync.RWMutex
	consumers map[uuid.UUID]*ingest.Consumer
}

func NewTenantManager(
	rabbitConn *amqp.Connection,
	rabbit *messaging.RabbitClient,
	store storage.Store,
	pipeline *ingest.Pipeline,
) *TenantManager {
	return &TenantManager{
		rabbitConn:   rabbitConn,
		rabbit:       rabbit,
		store:        store,
		pipeline:     pipeline,
		tenantLocks:  newKeyedLocks(),
		mappingLocks: newKeyedLocks(),
		consumers:    make(map[uuid.UUID]*ingest.Consumer),
	}
}

// CreateTenant persists the record, declares the ingest queue, and spawns
// the consumer.
func (tm *TenantManager) CreateTenant(name, contactEmail string, quotaMB float64) (*model.Tenant, error) {
	tenant, err := model.NewTenant(name, contactEmail, quotaMB)
	if err != nil {
		return nil, err
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	if err := tm.store.PutTenant(tenant); err != nil {
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}

	if err := tm.attachConsumer(tenant.ID); err != nil {
		return nil, err
	}

	log.Printf("Tenant %s (%s) created and consumer started", tenant.ID, tenant.Name)
	return tenant, nil
}

// RecoverTenant reattaches queue and consumer for an existing record.
func (tm *TenantManager) RecoverTenant(tenantID uuid.UUID) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if _, exists := tm.consumers[tenantID]; exists {
		return nil // already running
	}
	return tm.attachConsumer(tenantID)
}

func (tm *TenantManager) attachConsumer(tenantID uuid.UUID) error {
	if err := tm.rabbit.DeclareIngestQueue(tenantID.String()); err != nil {
		return err
	}

	c, err := ingest.StartConsumer(tm.rabbitConn, tenantID.String(), tm.handleJob)
	if err != nil {
		return err
	}
	tm.consumers[tenantID] = c
	return nil
}

// RemoveTenant stops the consumer, deletes the queues, and removes the
// record. The tenant's datasets are left in place; bulk delete is separate.
func (tm *TenantManager) RemoveTenant(tenantID uuid.UUID) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if c, exists := tm.consumers[tenantID]; exists {
		c.Stop()
		delete(tm.consumers, tenantID)
	}

	if err := tm.rabbit.DeleteIngestQueue(tenantID.String()); err != nil {
		log.Printf("Failed to delete queues for %s: %v", tenantID, err)
	}

	if err := tm.store.DeleteTenant(tenantID); err != nil {
		log.Printf("Failed to remove tenant record: %v", err)
	}

	log.Printf("Tenant %s removed and consumer stopped", tenantID)
	return nil
}

// EnqueueUpload publishes an ingest job to the owning tenant's queue.
func (tm *TenantManager) EnqueueUpload(job ingest.Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return tm.rabbit.PublishJob(job.TenantID.String(), body)
}

// handleJob is the consumer callback: it takes the tenant write lock so
// concurrent writes to the same tenant's datasets never interleave.
func (tm *TenantManager) handleJob(tenantID string, msg amqp.Delivery) {
	id, err := uuid.Parse(tenantID)
	if err != nil {
		log.Printf("Invalid tenant ID %s", tenantID)
		_ = msg.Nack(false, false)
		return
	}

	var job ingest.Job
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		log.Printf("Tenant %s: malformed ingest job: %v", tenantID, err)
		_ = msg.Nack(false, false) // send to DLQ
		return
	}
	job.TenantID = id

	lock := tm.tenantLocks.get(tenantID)
	lock.Lock()
	_, err = tm.pipeline.Process(job)
	lock.Unlock()

	ingest.HandleResult(id, err)
	if err != nil {
		log.Printf("Tenant %s: ingest failed: %v", tenantID, err)
		_ = msg.Nack(false, false)
		return
	}
	_ = msg.Ack(false)
}

// BulkDelete removes every dataset the tenant owns. The tenant write lock
// is held for the duration so a concurrent query sees either the full
// pre-delete set or the empty post-delete set.
func (tm *TenantManager) BulkDelete(tenantID uuid.UUID) (storage.PurgeResult, error) {
	lock := tm.tenantLocks.get(tenantID.String())
	lock.Lock()
	defer lock.Unlock()

	res, err := tm.store.PurgeOwner(tenantID)
	if err != nil {
		return storage.PurgeResult{}, fmt.Errorf("purge tenant %s: %w", tenantID, err)
	}
	log.Printf("Tenant %s: bulk deleted %d datasets (%.2fMB)", tenantID, res.DeletedCount, res.DeletedSizeMB)
	return res, nil
}

// UpdateMapping applies a read-modify-write to one mapping record under its
// key lock. The mutation must leave the counters consistent or the write is
// rejected and prior state preserved.
func (tm *TenantManager) UpdateMapping(sourceSystem string, seed func() *model.ClassMapping, mutate func(*model.ClassMapping) error) (*model.ClassMapping, error) {
	lock := tm.mappingLocks.get(sourceSystem)
	lock.Lock()
	defer lock.Unlock()

	m, err := tm.store.GetMapping(sourceSystem)
	if err == storage.ErrNotFound && seed != nil {
		m = seed()
	} else if err != nil {
		return nil, fmt.Errorf("load mapping %s: %w", sourceSystem, err)
	}

	if err := mutate(m); err != nil {
		return nil, err
	}
	if err := m.SyncCounters(); err != nil {
		return nil, err
	}
	if err := tm.store.PutMapping(m); err != nil {
		return nil, fmt.Errorf("save mapping %s: %w", sourceSystem, err)
	}
	return m, nil
}

// ShutdownAll stops every tenant consumer.
func (tm *TenantManager) ShutdownAll() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for id, c := range tm.consumers {
		c.Stop()
		log.Printf("Stopped tenant %s", id)
	}
	tm.consumers = make(map[uuid.UUID]*ingest.Consumer)
}

// ListTenantIDs returns all currently running tenant consumers.
func (tm *TenantManager) ListTenantIDs() []string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	ids := make([]string, 0, len(tm.consumers))
	for id := range tm.consumers {
		ids = append(ids, id.String())
	}
	return ids
}
