package sample

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Repository is the persistence boundary for the procurement backend.
// Implementations must be safe for concurrent use.
type Repository interface {
	PurchaseHistory() ([]PurchaseRecord, error)
	Inventory() ([]InventoryItem, error)
	UpdateInventory(item InventoryItem) error

	Suppliers() ([]Supplier, error)
	Products() ([]Product, error)

	Requisitions() ([]Requisition, error)
	AddRequisition(r Requisition) error

	PurchaseRequests() ([]PurchaseRequest, error)
	FindPurchaseRequest(id string) (PurchaseRequest, bool, error)
	AddPurchaseRequest(pr PurchaseRequest) error
	UpdatePurchaseRequest(pr PurchaseRequest) error

	PurchaseOrders() ([]PurchaseOrder, error)
	AddPurchaseOrder(po PurchaseOrder) error

	Close() error
}

// inventoryKey identifies one stock row.
func inventoryKey(itemName, brand, model string) string {
	return strings.ToLower(itemName + "|" + brand + "|" + model)
}

// productKey identifies one supplier quote.
func productKey(p Product) string {
	return strings.ToLower(p.Supplier + "|" + p.Brand + "|" + p.Model + "|" + p.Spec)
}

// MemoryRepository keeps everything in process memory. It is the default
// backend and resets on restart.
type MemoryRepository struct {
	mu sync.RWMutex

	history      []PurchaseRecord
	inventory    []InventoryItem
	suppliers    []Supplier
	products     []Product
	requisitions []Requisition
	requests     []PurchaseRequest
	orders       []PurchaseOrder
}

// NewMemoryRepository creates an in-memory repository preloaded with the
// given fixtures.
func NewMemoryRepository(fx Fixtures) *MemoryRepository {
	repo := &MemoryRepository{
		history:   append([]PurchaseRecord(nil), fx.PurchaseHistory...),
		suppliers: append([]Supplier(nil), fx.Suppliers...),
	}
	for _, item := range fx.Inventory {
		item.Key = inventoryKey(item.ItemName, item.Brand, item.Model)
		repo.inventory = append(repo.inventory, item)
	}
	for _, p := range fx.Products {
		p.Key = productKey(p)
		repo.products = append(repo.products, p)
	}
	return repo
}

func (m *MemoryRepository) PurchaseHistory() ([]PurchaseRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]PurchaseRecord(nil), m.history...), nil
}

func (m *MemoryRepository) Inventory() ([]InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]InventoryItem(nil), m.inventory...), nil
}

func (m *MemoryRepository) UpdateInventory(item InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := inventoryKey(item.ItemName, item.Brand, item.Model)
	for i := range m.inventory {
		if m.inventory[i].Key == key {
			item.Key = key
			m.inventory[i] = item
			return nil
		}
	}
	return fmt.Errorf("inventory item not found: %s", key)
}

func (m *MemoryRepository) Suppliers() ([]Supplier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Supplier(nil), m.suppliers...), nil
}

func (m *MemoryRepository) Products() ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Product(nil), m.products...), nil
}

func (m *MemoryRepository) Requisitions() ([]Requisition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Requisition(nil), m.requisitions...), nil
}

func (m *MemoryRepository) AddRequisition(r Requisition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requisitions = append(m.requisitions, r)
	return nil
}

func (m *MemoryRepository) PurchaseRequests() ([]PurchaseRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]PurchaseRequest(nil), m.requests...)
	sort.Slice(out, func(i, j int) bool { return out[i].PRID < out[j].PRID })
	return out, nil
}

func (m *MemoryRepository) FindPurchaseRequest(id string) (PurchaseRequest, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, pr := range m.requests {
		if pr.PRID == id {
			return pr, true, nil
		}
	}
	return PurchaseRequest{}, false, nil
}

func (m *MemoryRepository) AddPurchaseRequest(pr PurchaseRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, pr)
	return nil
}

func (m *MemoryRepository) UpdatePurchaseRequest(pr PurchaseRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.requests {
		if m.requests[i].PRID == pr.PRID {
			m.requests[i] = pr
			return nil
		}
	}
	return fmt.Errorf("purchase request not found: %s", pr.PRID)
}

func (m *MemoryRepository) PurchaseOrders() ([]PurchaseOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]PurchaseOrder(nil), m.orders...)
	sort.Slice(out, func(i, j int) bool { return out[i].POID < out[j].POID })
	return out, nil
}

func (m *MemoryRepository) AddPurchaseOrder(po PurchaseOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, po)
	return nil
}

func (m *MemoryRepository) Close() error { return nil }
