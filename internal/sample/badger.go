package sample

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/apibridge/apibridge/internal/common"
)

// BadgerRepository persists the procurement data in a BadgerDB store so
// requisitions and purchase documents survive restarts.
type BadgerRepository struct {
	store  *badgerhold.Store
	logger *common.Logger
}

// NewBadgerRepository opens (or creates) a Badger store at path and seeds
// the reference data on first use.
func NewBadgerRepository(path string, fx Fixtures, logger *common.Logger) (*BadgerRepository, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("badger store opened")

	repo := &BadgerRepository{store: store, logger: logger}
	if err := repo.ensureSeeded(fx); err != nil {
		store.Close()
		return nil, err
	}
	return repo, nil
}

// ensureSeeded loads the reference fixtures once. Seeding is detected by
// the presence of any supplier record.
func (b *BadgerRepository) ensureSeeded(fx Fixtures) error {
	var existing []Supplier
	if err := b.store.Find(&existing, nil); err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, s := range fx.Suppliers {
		if err := b.store.Upsert(s.ID, &s); err != nil {
			return fmt.Errorf("failed to seed supplier %s: %w", s.ID, err)
		}
	}
	for _, r := range fx.PurchaseHistory {
		if err := b.store.Upsert(r.ID, &r); err != nil {
			return fmt.Errorf("failed to seed purchase record %s: %w", r.ID, err)
		}
	}
	for _, item := range fx.Inventory {
		item.Key = inventoryKey(item.ItemName, item.Brand, item.Model)
		if err := b.store.Upsert(item.Key, &item); err != nil {
			return fmt.Errorf("failed to seed inventory %s: %w", item.Key, err)
		}
	}
	for _, p := range fx.Products {
		p.Key = productKey(p)
		if err := b.store.Upsert(p.Key, &p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.Key, err)
		}
	}

	b.logger.Info().
		Int("suppliers", len(fx.Suppliers)).
		Int("inventory", len(fx.Inventory)).
		Int("products", len(fx.Products)).
		Msg("seeded procurement reference data")
	return nil
}

func (b *BadgerRepository) PurchaseHistory() ([]PurchaseRecord, error) {
	var out []PurchaseRecord
	if err := b.store.Find(&out, nil); err != nil {
		return nil, fmt.Errorf("failed to load purchase history: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (b *BadgerRepository) Inventory() ([]InventoryItem, error) {
	var out []InventoryItem
	if err := b.store.Find(&out, nil); err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (b *BadgerRepository) UpdateInventory(item InventoryItem) error {
	item.Key = inventoryKey(item.ItemName, item.Brand, item.Model)
	if err := b.store.Upsert(item.Key, &item); err != nil {
		return fmt.Errorf("failed to update inventory %s: %w", item.Key, err)
	}
	return nil
}

func (b *BadgerRepository) Suppliers() ([]Supplier, error) {
	var out []Supplier
	if err := b.store.Find(&out, nil); err != nil {
		return nil, fmt.Errorf("failed to load suppliers: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (b *BadgerRepository) Products() ([]Product, error) {
	var out []Product
	if err := b.store.Find(&out, nil); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (b *BadgerRepository) Requisitions() ([]Requisition, error) {
	var out []Requisition
	if err := b.store.Find(&out, nil); err != nil {
		return nil, fmt.Errorf("failed to load requisitions: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequisitionID < out[j].RequisitionID })
	return out, nil
}

func (b *BadgerRepository) AddRequisition(r Requisition) error {
	if err := b.store.Insert(r.RequisitionID, &r); err != nil {
		return fmt.Errorf("failed to store requisition %s: %w", r.RequisitionID, err)
	}
	return nil
}

func (b *BadgerRepository) PurchaseRequests() ([]PurchaseRequest, error) {
	var out []PurchaseRequest
	if err := b.store.Find(&out, nil); err != nil {
		return nil, fmt.Errorf("failed to load purchase requests: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PRID < out[j].PRID })
	return out, nil
}

func (b *BadgerRepository) FindPurchaseRequest(id string) (PurchaseRequest, bool, error) {
	var pr PurchaseRequest
	err := b.store.Get(id, &pr)
	if err == badgerhold.ErrNotFound {
		return PurchaseRequest{}, false, nil
	}
	if err != nil {
		return PurchaseRequest{}, false, fmt.Errorf("failed to get purchase request %s: %w", id, err)
	}
	return pr, true, nil
}

func (b *BadgerRepository) AddPurchaseRequest(pr PurchaseRequest) error {
	if err := b.store.Insert(pr.PRID, &pr); err != nil {
		return fmt.Errorf("failed to store purchase request %s: %w", pr.PRID, err)
	}
	return nil
}

func (b *BadgerRepository) UpdatePurchaseRequest(pr PurchaseRequest) error {
	if err := b.store.Update(pr.PRID, &pr); err != nil {
		return fmt.Errorf("failed to update purchase request %s: %w", pr.PRID, err)
	}
	return nil
}

func (b *BadgerRepository) PurchaseOrders() ([]PurchaseOrder, error) {
	var out []PurchaseOrder
	if err := b.store.Find(&out, nil); err != nil {
		return nil, fmt.Errorf("failed to load purchase orders: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].POID < out[j].POID })
	return out, nil
}

func (b *BadgerRepository) AddPurchaseOrder(po PurchaseOrder) error {
	if err := b.store.Insert(po.POID, &po); err != nil {
		return fmt.Errorf("failed to store purchase order %s: %w", po.POID, err)
	}
	return nil
}

// Close closes the underlying store.
func (b *BadgerRepository) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}
