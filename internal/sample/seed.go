package sample

// Fixtures holds the reference data the backend starts with. Requisitions,
// purchase requests, and purchase orders always start empty.
type Fixtures struct {
	PurchaseHistory []PurchaseRecord
	Inventory       []InventoryItem
	Suppliers       []Supplier
	Products        []Product
}

// DefaultFixtures returns the built-in demo dataset: a year of purchase
// history, current warehouse stock, four suppliers, and a cross-supplier
// product catalog for price comparison.
func DefaultFixtures() Fixtures {
	return Fixtures{
		PurchaseHistory: []PurchaseRecord{
			{
				ID: "PH001", ItemName: "Laptop", Brand: "Dell", Model: "Latitude 5540",
				Spec: "Intel i7-1365U, 16GB RAM, 512GB SSD", Quantity: 10, UnitPrice: 1350,
				Supplier: "TechData Solutions", PurchaseDate: "2025-06-15",
				Department: "Engineering", Purpose: "New hire workstations",
			},
			{
				ID: "PH002", ItemName: "Laptop", Brand: "Lenovo", Model: "ThinkPad T14s",
				Spec: "Intel i7-1360P, 32GB RAM, 1TB SSD", Quantity: 5, UnitPrice: 1680,
				Supplier: "Synnex International", PurchaseDate: "2025-08-20",
				Department: "IT", Purpose: "Senior engineer refresh",
			},
			{
				ID: "PH003", ItemName: "Monitor", Brand: "Dell", Model: "U2723QE",
				Spec: "27-inch 4K IPS", Quantity: 20, UnitPrice: 590,
				Supplier: "TechData Solutions", PurchaseDate: "2025-09-10",
				Department: "Company-wide", Purpose: "Office equipment upgrade",
			},
			{
				ID: "PH004", ItemName: "Mechanical keyboard", Brand: "Logitech", Model: "MX Mechanical",
				Spec: "Tactile switches, wireless", Quantity: 30, UnitPrice: 145,
				Supplier: "OfficeHub Direct", PurchaseDate: "2025-10-01",
				Department: "Company-wide", Purpose: "Employee benefit",
			},
		},
		Inventory: []InventoryItem{
			{ItemName: "Laptop", Brand: "Dell", Model: "Latitude 5540", Available: 3, Reserved: 2, Location: "HQ warehouse"},
			{ItemName: "Laptop", Brand: "Lenovo", Model: "ThinkPad T14s", Available: 0, Reserved: 0, Location: "HQ warehouse"},
			{ItemName: "Monitor", Brand: "Dell", Model: "U2723QE", Available: 8, Reserved: 5, Location: "HQ warehouse"},
			{ItemName: "Mechanical keyboard", Brand: "Logitech", Model: "MX Mechanical", Available: 15, Reserved: 3, Location: "HQ warehouse"},
			{ItemName: "Mouse", Brand: "Logitech", Model: "MX Master 3S", Available: 20, Reserved: 0, Location: "HQ warehouse"},
		},
		Suppliers: []Supplier{
			{
				ID: "SUP001", Name: "TechData Solutions",
				Category: []string{"laptops", "monitors", "peripherals"},
				Rating:   4.8, DeliveryDays: 3, PaymentTerms: "Net 30",
				Contact: "+1-415-555-0134", HistoryOrders: 45, OnTimeRate: 0.96,
			},
			{
				ID: "SUP002", Name: "Synnex International",
				Category: []string{"laptops", "servers", "networking"},
				Rating:   4.6, DeliveryDays: 5, PaymentTerms: "Net 45",
				Contact: "+1-415-555-0178", HistoryOrders: 32, OnTimeRate: 0.92,
			},
			{
				ID: "SUP003", Name: "OfficeHub Direct",
				Category: []string{"peripherals", "office supplies", "laptops"},
				Rating:   4.2, DeliveryDays: 2, PaymentTerms: "Net 30",
				Contact: "+1-415-555-0102", HistoryOrders: 78, OnTimeRate: 0.88,
			},
			{
				ID: "SUP004", Name: "Apex Computing",
				Category: []string{"laptops", "phones", "tablets"},
				Rating:   4.5, DeliveryDays: 4, PaymentTerms: "Net 30",
				Contact: "+1-415-555-0155", HistoryOrders: 28, OnTimeRate: 0.94,
			},
		},
		Products: []Product{
			{Supplier: "TechData Solutions", ItemName: "Laptop", Brand: "Dell", Model: "Latitude 5540", Spec: "Intel i7-1365U, 16GB RAM, 512GB SSD", UnitPrice: 1330, Stock: 50},
			{Supplier: "TechData Solutions", ItemName: "Laptop", Brand: "Dell", Model: "Latitude 5550", Spec: "Intel i7-1370P, 32GB RAM, 1TB SSD", UnitPrice: 1750, Stock: 30},
			{Supplier: "Synnex International", ItemName: "Laptop", Brand: "Lenovo", Model: "ThinkPad T14s", Spec: "Intel i7-1360P, 16GB RAM, 512GB SSD", UnitPrice: 1450, Stock: 40},
			{Supplier: "Synnex International", ItemName: "Laptop", Brand: "Lenovo", Model: "ThinkPad T14s", Spec: "Intel i7-1360P, 32GB RAM, 1TB SSD", UnitPrice: 1680, Stock: 25},
			{Supplier: "Apex Computing", ItemName: "Laptop", Brand: "HP", Model: "EliteBook 840 G10", Spec: "Intel i7-1365U, 16GB RAM, 512GB SSD", UnitPrice: 1390, Stock: 35},
			{Supplier: "OfficeHub Direct", ItemName: "Laptop", Brand: "ASUS", Model: "ExpertBook B5", Spec: "Intel i7-1360P, 16GB RAM, 512GB SSD", UnitPrice: 1225, Stock: 60},
			{Supplier: "TechData Solutions", ItemName: "Monitor", Brand: "Dell", Model: "U2723QE", Spec: "27-inch 4K IPS USB-C", UnitPrice: 575, Stock: 100},
			{Supplier: "Synnex International", ItemName: "Monitor", Brand: "Lenovo", Model: "ThinkVision T27p-30", Spec: "27-inch 4K IPS USB-C", UnitPrice: 560, Stock: 80},
			{Supplier: "OfficeHub Direct", ItemName: "Mechanical keyboard", Brand: "Logitech", Model: "MX Mechanical", Spec: "Tactile switches, wireless, backlit", UnitPrice: 135, Stock: 200},
		},
	}
}
