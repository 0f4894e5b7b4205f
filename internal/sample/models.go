// Package sample implements a small procurement backend used for local
// development and end-to-end testing of the bridge. It serves a JSON API,
// its own OpenAPI document at /openapi.json, and a Swagger UI page at
// /docs, so a bridge pointed at it exercises the full discovery, compile,
// and dispatch path.
package sample

// PurchaseRecord is one row of historical purchase data.
type PurchaseRecord struct {
	ID           string `json:"id" badgerhold:"key"`
	ItemName     string `json:"item_name"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Spec         string `json:"spec"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int    `json:"unit_price"`
	Supplier     string `json:"supplier"`
	PurchaseDate string `json:"purchase_date"`
	Department   string `json:"department"`
	Purpose      string `json:"purpose"`
}

// InventoryItem tracks warehouse stock for one item/brand/model combination.
type InventoryItem struct {
	Key       string `json:"-" badgerhold:"key"`
	ItemName  string `json:"item_name"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Available int    `json:"available"`
	Reserved  int    `json:"reserved"`
	Location  string `json:"location"`
}

// Supplier is a vendor record with delivery and rating metadata.
type Supplier struct {
	ID            string   `json:"id" badgerhold:"key"`
	Name          string   `json:"name"`
	Category      []string `json:"category"`
	Rating        float64  `json:"rating"`
	DeliveryDays  int      `json:"delivery_days"`
	PaymentTerms  string   `json:"payment_terms"`
	Contact       string   `json:"contact"`
	HistoryOrders int      `json:"history_orders"`
	OnTimeRate    float64  `json:"on_time_rate"`
}

// Product is one supplier's quote for an item, used for price comparison.
type Product struct {
	Key       string `json:"-" badgerhold:"key"`
	Supplier  string `json:"supplier"`
	ItemName  string `json:"item_name"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Spec      string `json:"spec"`
	UnitPrice int    `json:"unit_price"`
	Stock     int    `json:"stock"`
}

// Requisition is an issued stock withdrawal.
type Requisition struct {
	RequisitionID string `json:"requisition_id" badgerhold:"key"`
	ItemName      string `json:"item_name"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Quantity      int    `json:"quantity"`
	Location      string `json:"location"`
	Department    string `json:"department,omitempty"`
	Requester     string `json:"requester,omitempty"`
	Purpose       string `json:"purpose,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

// Purchase request lifecycle states. A request starts pending, moves to
// approved or rejected, and an approved request becomes converted once a
// purchase order references it.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusConverted = "converted"
	StatusOrdered   = "ordered"
	StatusIssued    = "issued"
)

// PurchaseRequest is a request to buy something, pending approval.
type PurchaseRequest struct {
	PRID            string `json:"pr_id" badgerhold:"key"`
	ItemName        string `json:"item_name"`
	Spec            string `json:"spec,omitempty"`
	Quantity        int    `json:"quantity"`
	Purpose         string `json:"purpose,omitempty"`
	Department      string `json:"department,omitempty"`
	Requester       string `json:"requester,omitempty"`
	ExpectedDate    string `json:"expected_date"`
	Budget          int    `json:"budget,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Status          string `json:"status"`
	ApprovedBy      string `json:"approved_by,omitempty"`
	ApprovedAt      string `json:"approved_at,omitempty"`
	ApprovalNotes   string `json:"approval_notes,omitempty"`
	RejectedBy      string `json:"rejected_by,omitempty"`
	RejectedAt      string `json:"rejected_at,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// PurchaseOrder is a confirmed order placed with a supplier.
type PurchaseOrder struct {
	POID         string `json:"po_id" badgerhold:"key"`
	PRID         string `json:"pr_id"`
	ItemName     string `json:"item_name"`
	Spec         string `json:"spec,omitempty"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int    `json:"unit_price"`
	TotalAmount  int    `json:"total_amount"`
	SupplierID   string `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	DeliveryDate string `json:"delivery_date"`
	PaymentTerms string `json:"payment_terms"`
	Department   string `json:"department,omitempty"`
	Requester    string `json:"requester,omitempty"`
	Purpose      string `json:"purpose,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// RequisitionCreate is the request body for issuing stock. At least one of
// ItemName, Brand, or Model must identify an inventory item.
type RequisitionCreate struct {
	ItemName   string `json:"item_name,omitempty"`
	Brand      string `json:"brand,omitempty"`
	Model      string `json:"model,omitempty"`
	Quantity   int    `json:"quantity,omitempty"`
	Department string `json:"department,omitempty"`
	Requester  string `json:"requester,omitempty"`
	Purpose    string `json:"purpose,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// PurchaseRequestCreate is the request body for creating a purchase request.
type PurchaseRequestCreate struct {
	ItemName     string `json:"item_name"`
	Spec         string `json:"spec,omitempty"`
	Quantity     int    `json:"quantity"`
	Purpose      string `json:"purpose,omitempty"`
	Department   string `json:"department,omitempty"`
	Requester    string `json:"requester,omitempty"`
	ExpectedDate string `json:"expected_date,omitempty"`
	Budget       int    `json:"budget,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ApprovalRequest is the optional body for approving a purchase request.
type ApprovalRequest struct {
	Approver string `json:"approver,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// RejectRequest is the body for rejecting a purchase request. Reason is
// required.
type RejectRequest struct {
	Approver string `json:"approver,omitempty"`
	Reason   string `json:"reason"`
}

// PurchaseOrderCreate is the request body for converting an approved
// purchase request into an order.
type PurchaseOrderCreate struct {
	PRID         string `json:"pr_id"`
	SupplierName string `json:"supplier_name"`
	UnitPrice    int    `json:"unit_price"`
	Quantity     int    `json:"quantity,omitempty"`
	DeliveryDate string `json:"delivery_date,omitempty"`
	PaymentTerms string `json:"payment_terms,omitempty"`
	Notes        string `json:"notes,omitempty"`
}
