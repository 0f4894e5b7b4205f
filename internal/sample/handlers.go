package sample

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/apibridge/apibridge/internal/common"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
	idStampLayout  = "20060102"

	defaultApprover = "system"
)

// API serves the procurement endpoints over HTTP.
type API struct {
	repo   Repository
	logger *common.Logger
	now    func() time.Time
	spec   []byte
}

// NewAPI creates the procurement API backed by the given repository.
func NewAPI(repo Repository, logger *common.Logger) *API {
	a := &API{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	a.spec = buildSpec()
	return a
}

// Routes returns the full route table, including the OpenAPI document and
// the Swagger UI page.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/purchase-history", a.handlePurchaseHistory)
	mux.HandleFunc("GET /api/inventory", a.handleInventory)
	mux.HandleFunc("POST /api/inventory/requisitions", a.handleCreateRequisition)
	mux.HandleFunc("GET /api/inventory/requisitions", a.handleRequisitions)
	mux.HandleFunc("GET /api/suppliers", a.handleSuppliers)
	mux.HandleFunc("GET /api/suppliers/{supplier_id}", a.handleSupplierDetail)
	mux.HandleFunc("GET /api/products", a.handleProducts)
	mux.HandleFunc("POST /api/purchase-requests", a.handleCreatePurchaseRequest)
	mux.HandleFunc("GET /api/purchase-requests", a.handlePurchaseRequests)
	mux.HandleFunc("GET /api/purchase-requests/{pr_id}", a.handlePurchaseRequestDetail)
	mux.HandleFunc("POST /api/purchase-requests/{pr_id}/approve", a.handleApprovePurchaseRequest)
	mux.HandleFunc("POST /api/purchase-requests/{pr_id}/reject", a.handleRejectPurchaseRequest)
	mux.HandleFunc("POST /api/purchase-orders", a.handleCreatePurchaseOrder)
	mux.HandleFunc("GET /api/purchase-orders", a.handlePurchaseOrders)

	mux.HandleFunc("GET /openapi.json", a.handleOpenAPI)
	mux.HandleFunc("GET /docs", a.handleDocs)

	return mux
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondList writes a successful list envelope with a count.
func respondList[T any](w http.ResponseWriter, data []T) {
	if data == nil {
		data = []T{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}

// respondData writes a successful single-object envelope with an optional
// message.
func respondData(w http.ResponseWriter, data any, message string) {
	body := map[string]any{
		"success": true,
		"data":    data,
	}
	if message != "" {
		body["message"] = message
	}
	writeJSON(w, http.StatusOK, body)
}

// respondDetail writes an error response with a detail message.
func respondDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]any{"detail": detail})
}

// respondStorageError logs a repository failure and returns a 500.
func (a *API) respondStorageError(w http.ResponseWriter, err error) {
	a.logger.Error().Str("error", err.Error()).Msg("storage failure")
	respondDetail(w, http.StatusInternalServerError, "storage failure")
}

// decodeBody parses a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondDetail(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (a *API) handlePurchaseHistory(w http.ResponseWriter, r *http.Request) {
	records, err := a.repo.PurchaseHistory()
	if err != nil {
		a.respondStorageError(w, err)
		return
	}

	q := r.URL.Query()
	keyword := q.Get("item_keyword")
	department := q.Get("department")
	dateFrom := q.Get("date_from")
	dateTo := q.Get("date_to")

	var results []PurchaseRecord
	for _, rec := range records {
		if keyword != "" && !containsFold(rec.ItemName, keyword) &&
			!containsFold(rec.Brand, keyword) && !containsFold(rec.Model, keyword) {
			continue
		}
		if department != "" && !strings.Contains(rec.Department, department) {
			continue
		}
		if dateFrom != "" && rec.PurchaseDate < dateFrom {
			continue
		}
		if dateTo != "" && rec.PurchaseDate > dateTo {
			continue
		}
		results = append(results, rec)
	}

	respondList(w, results)
}

func (a *API) handleInventory(w http.ResponseWriter, r *http.Request) {
	items, err := a.repo.Inventory()
	if err != nil {
		a.respondStorageError(w, err)
		return
	}

	q := r.URL.Query()
	keyword := q.Get("item_keyword")
	brand := q.Get("brand")
	availableOnly, _ := strconv.ParseBool(q.Get("available_only"))

	var results []InventoryItem
	for _, item := range items {
		if keyword != "" && !containsFold(item.ItemName, keyword) {
			continue
		}
		if brand != "" && !containsFold(item.Brand, brand) {
			continue
		}
		if availableOnly && item.Available <= 0 {
			continue
		}
		results = append(results, item)
	}

	respondList(w, results)
}

func (a *API) handleCreateRequisition(w http.ResponseWriter, r *http.Request) {
	var req RequisitionCreate
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	items, err := a.repo.Inventory()
	if err != nil {
		a.respondStorageError(w, err)
		return
	}

	// First item matching every provided selector wins.
	var target *InventoryItem
	for i := range items {
		item := &items[i]
		if req.ItemName != "" && !containsFold(item.ItemName, req.ItemName) {
			continue
		}
		if req.Brand != "" && !strings.EqualFold(item.Brand, req.Brand) {
			continue
		}
		if req.Model != "" && !strings.EqualFold(item.Model, req.Model) {
			continue
		}
		target = item
		break
	}

	if target == nil {
		respondDetail(w, http.StatusNotFound, "no matching inventory item")
		return
	}
	if target.Available < req.Quantity {
		respondDetail(w, http.StatusBadRequest,
			fmt.Sprintf("insufficient stock: %d available, %d requested", target.Available, req.Quantity))
		return
	}

	existing, err := a.repo.Requisitions()
	if err != nil {
		a.respondStorageError(w, err)
		return
	}

	now := a.now()
	requisition := Requisition{
		RequisitionID: fmt.Sprintf("IR%s%04d", now.Format(idStampLayout), len(existing)+1),
		ItemName:      target.ItemName,
		Brand:         target.Brand,
		Model:         target.Model,
		Quantity:      req.Quantity,
		Location:      target.Location,
		Department:    req.Department,
		Requester:     req.Requester,
		Purpose:       req.Purpose,
		Notes:         req.Notes,
		Status:        StatusIssued,
		CreatedAt:     now.Format(dateTimeLayout),
	}

	target.Available -= req.Quantity
	if err := a.repo.UpdateInventory(*target); err != nil {
		a.respondStorageError(w, err)
		return
	}
	if err := a.repo.AddRequisition(requisition); err != nil {
		a.respondStorageError(w, err)
		return
	}

	a.logger.Info().
		Str("requisition_id", requisition.RequisitionID).
		Int("quantity", req.Quantity).
		Msg("stock issued")

	respondData(w, requisition,
		fmt.Sprintf("issued %d x %s %s", req.Quantity, target.Brand, target.Model))
}

func (a *API) handleRequisitions(w http.ResponseWriter, r *http.Request) {
	requisitions, err := a.repo.Requisitions()
	if err != nil {
		a.respondStorageError(w, err)
		return
	}

	q := r.URL.Query()
	requisitionID := q.Get("requisition_id")
	department := q.Get("department")
	requester := q.Get("requester")

	var results []Requisition
	for _, req := range requisitions {
		if requisitionID != "" && req.RequisitionID != requisitionID {
			continue
		}
		if department != "" && !strings.Contains(req.Department, department) {
			continue
		}
		if requester != "" && !strings.Contains(req.Requester, requester) {
			continue
		}
		results = append(results, req)
	}

	respondList(w, results)
}

func (a *API) handleSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := a.repo.Suppliers()
	if err != nil {
		a.respondStorageError(w, err)
		return
	}

	q := r.URL.Query()
	category := q.Get("category")
	minRating, hasMinRating := 0.0, false
	if raw := q.Get("min_rating"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondDetail(w, http.StatusUnprocessableEntity, "min_rating must be a number")
			return
		}
		minRating, hasMinRating = parsed, true
	}

	var results []Supplier
	for _, s := range suppliers {
		if category != "" {
			found := false
			for _, c := range s.Category {
				if strings.Contains(c, category) {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if hasMinRating && s.Rating < minRating {
			continue
		}
		results = append(results, s)
	}

	// Highest rated first.
	sort.SliceStable(results, func(i, j int) bool { return results[i].Rating > results[j].Rating })

	respondList(w, results)
}

func (a *API) handleSupplierDetail(w http.ResponseWriter, r *http.Request) {
	supplierID := r.PathValue("supplier_id")

	suppliers, err := a.repo.Suppliers()
	if err != nil {
		a.respondStorageError(w, err)
		return
	}

	// Accepts either the supplier ID or a substring of the name.
	var supplier *Supplier
	for i := range suppliers {
		if suppliers[i].ID == supplierID || strings.Contains(suppliers[i].Name, supplierID) {
			supplier = &suppliers[i]
			break
		}
	}
	if supplier == nil {
		respondDetail(w, http.StatusNotFound, "supplier not found")
		return
	}

	records, err := a.repo.PurchaseHistory()
	if err != nil {
		a.respondStorageError(w, err)
		return
	}

	history := []PurchaseRecord{}
	total := 0
	for _, rec := range records {
		if strings.Contains(rec.Supplier, supplier.Name) {
			history = append(history, rec)
			total += rec.UnitPrice * rec.Quantity
		}
	}

	detail := map[string]any{
		"id":                    supplier.ID,
		"name":                  supplier.Name,
		"category":              supplier.Category,
		"rating":                supplier.Rating,
		"delivery_days":         supplier.DeliveryDays,
		"payment_terms":         supplier.PaymentTerms,
		"contact":               supplier.Contact,
		"history_orders":        supplier.HistoryOrders,
		"on_time_rate":          supplier.OnTimeRate,
		"purchase_history":      history,
		"total_purchase_amount": total,
	}

	respondData(w, detail, "")
}

func (a *API) handleProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.repo.Products()
	if err != nil {
		a.respondStorageError(w, err)
		return
	}

	q := r.URL.Query()
	keyword := q.Get("item_keyword")
	specRequirement := q.Get("spec_requirement")
	supplier := q.Get("supplier")

	results := products
	if keyword != "" {
		var filtered []Product
		for _, p := range results {
			if containsFold(p.ItemName, keyword) || containsFold(p.Brand, keyword) {
				filtered = append(filtered, p)
			}
		}
		results = filtered
	}

	// Space-separated spec keywords; any match keeps the product. When no
	// product matches, the spec filter is skipped rather than returning an
	// empty comparison.
	if specRequirement != "" {
		keywords := strings.Fields(strings.ToLower(specRequirement))
		var filtered []Product
		for _, p := range results {
			spec := strings.ToLower(p.Spec)
			for _, kw := range keywords {
				if strings.Contains(spec, kw) {
					filtered = append(filtered, p)
					break
				}
			}
		}
		if len(filtered) > 0 {
			results = filtered
		}
	}

	if supplier != "" {
		var filtered []Product
		for _, p := range results {
			if strings.Contains(p.Supplier, supplier) {
				filtered = append(filtered, p)
			}
		}
		results = filtered
	}

	// Cheapest first.
	sort.SliceStable(results, func(i, j int) bool { return results[i].UnitPrice < results[j].UnitPrice })

	respondList(w, results)
}

func (a *API) handleCreatePurchaseRequest(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequestCreate
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ItemName == "" {
		respondDetail(w, http.StatusUnprocessableEntity, "item_name is required")
		return
	}
	if req.Quantity < 1 {
		respondDetail(w, http.StatusUnprocessableEntity, "quantity must be at least 1")
		return
	}

	existing, err := a.repo.PurchaseRequests()
	if err != nil {
		a.respondStorageError(w, err)
		return
	}

	now := a.now()
	expected := req.ExpectedDate
	if expected == "" {
		expected = now.AddDate(0, 0, 14).Format(dateLayout)
	}

	pr := PurchaseRequest{
		PRID:         fmt.Sprintf("PR%s%04d", now.Format(idStampLayout), len(existing)+1),
		ItemName:     req.ItemName,
		Spec:         req.Spec,
		Quantity:     req.Quantity,
		Purpose:      req.Purpose,
		Department:   req.Department,
		Requester:    req.Requester,
		ExpectedDate: expected,
		Budget:       req.Budget,
		Notes:        req.Notes,
		Status:       StatusPending,
		CreatedAt:    now.Format(dateTimeLayout),
		UpdatedAt:    now.Format(dateTimeLayout),
	}

	if err := a.repo.AddPurchaseRequest(pr); err != nil {
		a.respondStorageError(w, err)
		return
	}

	a.logger.Info().Str("pr_id", pr.PRID).Str("item", pr.ItemName).Msg("purchase request created")
	respondData(w, pr, "")
}

func (a *API) handlePurchaseRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := a.repo.PurchaseRequests()
	if err != nil {
		a.respondStorageError(w, err)
		return
	}

	q := r.URL.Query()
	prID := q.Get("pr_id")
	department := q.Get("department")
	status := q.Get("status")

	var results []PurchaseRequest
	for _, pr := range requests {
		if prID != "" && pr.PRID != prID {
			continue
		}
		if department != "" && !strings.Contains(pr.Department, department) {
			continue
		}
		if status != "" && !strings.Contains(pr.Status, status) {
			continue
		}
		results = append(results, pr)
	}

	respondList(w, results)
}

func (a *API) handlePurchaseRequestDetail(w http.ResponseWriter, r *http.Request) {
	pr, found, err := a.repo.FindPurchaseRequest(r.PathValue("pr_id"))
	if err != nil {
		a.respondStorageError(w, err)
		return
	}
	if !found {
		respondDetail(w, http.StatusNotFound, "purchase request not found")
		return
	}
	respondData(w, pr, "")
}

func (a *API) handleApprovePurchaseRequest(w http.ResponseWriter, r *http.Request) {
	pr, found, err := a.repo.FindPurchaseRequest(r.PathValue("pr_id"))
	if err != nil {
		a.respondStorageError(w, err)
		return
	}
	if !found {
		respondDetail(w, http.StatusNotFound, "purchase request not found")
		return
	}
	if pr.Status != StatusPending {
		respondDetail(w, http.StatusBadRequest,
			fmt.Sprintf("purchase request is %s, only pending requests can be approved", pr.Status))
		return
	}

	// Body is optional for approvals.
	var approval ApprovalRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&approval)
	}
	if approval.Approver == "" {
		approval.Approver = defaultApprover
	}

	now := a.now().Format(dateTimeLayout)
	pr.Status = StatusApproved
	pr.ApprovedBy = approval.Approver
	pr.ApprovedAt = now
	pr.ApprovalNotes = approval.Notes
	pr.UpdatedAt = now

	if err := a.repo.UpdatePurchaseRequest(pr); err != nil {
		a.respondStorageError(w, err)
		return
	}

	a.logger.Info().Str("pr_id", pr.PRID).Str("approver", approval.Approver).Msg("purchase request approved")
	respondData(w, pr, "purchase request approved")
}

func (a *API) handleRejectPurchaseRequest(w http.ResponseWriter, r *http.Request) {
	var rejection RejectRequest
	if !decodeBody(w, r, &rejection) {
		return
	}
	if rejection.Reason == "" {
		respondDetail(w, http.StatusUnprocessableEntity, "reason is required")
		return
	}
	if rejection.Approver == "" {
		rejection.Approver = defaultApprover
	}

	pr, found, err := a.repo.FindPurchaseRequest(r.PathValue("pr_id"))
	if err != nil {
		a.respondStorageError(w, err)
		return
	}
	if !found {
		respondDetail(w, http.StatusNotFound, "purchase request not found")
		return
	}
	if pr.Status != StatusPending {
		respondDetail(w, http.StatusBadRequest,
			fmt.Sprintf("purchase request is %s, only pending requests can be rejected", pr.Status))
		return
	}

	now := a.now().Format(dateTimeLayout)
	pr.Status = StatusRejected
	pr.RejectedBy = rejection.Approver
	pr.RejectedAt = now
	pr.RejectionReason = rejection.Reason
	pr.UpdatedAt = now

	if err := a.repo.UpdatePurchaseRequest(pr); err != nil {
		a.respondStorageError(w, err)
		return
	}

	a.logger.Info().Str("pr_id", pr.PRID).Str("reason", rejection.Reason).Msg("purchase request rejected")
	respondData(w, pr, "purchase request rejected")
}

func (a *API) handleCreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var req PurchaseOrderCreate
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PRID == "" {
		respondDetail(w, http.StatusUnprocessableEntity, "pr_id is required")
		return
	}
	if req.SupplierName == "" {
		respondDetail(w, http.StatusUnprocessableEntity, "supplier_name is required")
		return
	}
	if req.UnitPrice <= 0 {
		respondDetail(w, http.StatusUnprocessableEntity, "unit_price is required")
		return
	}

	pr, found, err := a.repo.FindPurchaseRequest(req.PRID)
	if err != nil {
		a.respondStorageError(w, err)
		return
	}
	if !found {
		respondDetail(w, http.StatusNotFound, fmt.Sprintf("purchase request %s does not exist", req.PRID))
		return
	}

	suppliers, err := a.repo.Suppliers()
	if err != nil {
		a.respondStorageError(w, err)
		return
	}
	var supplier *Supplier
	for i := range suppliers {
		if strings.Contains(suppliers[i].Name, req.SupplierName) {
			supplier = &suppliers[i]
			break
		}
	}
	if supplier == nil {
		respondDetail(w, http.StatusNotFound, fmt.Sprintf("supplier %s does not exist", req.SupplierName))
		return
	}

	existing, err := a.repo.PurchaseOrders()
	if err != nil {
		a.respondStorageError(w, err)
		return
	}

	now := a.now()
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = pr.Quantity
	}
	deliveryDate := req.DeliveryDate
	if deliveryDate == "" {
		deliveryDate = now.AddDate(0, 0, supplier.DeliveryDays).Format(dateLayout)
	}
	paymentTerms := req.PaymentTerms
	if paymentTerms == "" {
		paymentTerms = supplier.PaymentTerms
	}

	po := PurchaseOrder{
		POID:         fmt.Sprintf("PO%s%04d", now.Format(idStampLayout), len(existing)+1),
		PRID:         req.PRID,
		ItemName:     pr.ItemName,
		Spec:         pr.Spec,
		Quantity:     quantity,
		UnitPrice:    req.UnitPrice,
		TotalAmount:  req.UnitPrice * quantity,
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		DeliveryDate: deliveryDate,
		PaymentTerms: paymentTerms,
		Department:   pr.Department,
		Requester:    pr.Requester,
		Purpose:      pr.Purpose,
		Notes:        req.Notes,
		Status:       StatusOrdered,
		CreatedAt:    now.Format(dateTimeLayout),
		UpdatedAt:    now.Format(dateTimeLayout),
	}

	if err := a.repo.AddPurchaseOrder(po); err != nil {
		a.respondStorageError(w, err)
		return
	}

	pr.Status = StatusConverted
	pr.UpdatedAt = now.Format(dateTimeLayout)
	if err := a.repo.UpdatePurchaseRequest(pr); err != nil {
		a.respondStorageError(w, err)
		return
	}

	a.logger.Info().
		Str("po_id", po.POID).
		Str("pr_id", po.PRID).
		Str("supplier", po.SupplierName).
		Int("total", po.TotalAmount).
		Msg("purchase order created")

	respondData(w, po, "")
}

func (a *API) handlePurchaseOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.repo.PurchaseOrders()
	if err != nil {
		a.respondStorageError(w, err)
		return
	}

	q := r.URL.Query()
	poID := q.Get("po_id")
	prID := q.Get("pr_id")
	department := q.Get("department")
	status := q.Get("status")

	var results []PurchaseOrder
	for _, po := range orders {
		if poID != "" && po.POID != poID {
			continue
		}
		if prID != "" && po.PRID != prID {
			continue
		}
		if department != "" && !strings.Contains(po.Department, department) {
			continue
		}
		if status != "" && !strings.Contains(po.Status, status) {
			continue
		}
		results = append(results, po)
	}

	respondList(w, results)
}

func (a *API) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(a.spec)
}

func (a *API) handleDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(docsPage))
}
