package sample

import "encoding/json"

// docsPage is a minimal Swagger UI shell pointing at the served document.
const docsPage = `<!DOCTYPE html>
<html>
<head>
    <title>Procurement API - Swagger UI</title>
    <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
    window.onload = () => {
        window.ui = SwaggerUIBundle({
            url: "/openapi.json",
            dom_id: "#swagger-ui",
        });
    };
    </script>
</body>
</html>
`

func strSchema(description string) map[string]any {
	s := map[string]any{"type": "string"}
	if description != "" {
		s["description"] = description
	}
	return s
}

func intSchema(description string) map[string]any {
	s := map[string]any{"type": "integer"}
	if description != "" {
		s["description"] = description
	}
	return s
}

func queryParam(name, typ, description string) map[string]any {
	return map[string]any{
		"name":        name,
		"in":          "query",
		"required":    false,
		"description": description,
		"schema":      map[string]any{"type": typ, "description": description},
	}
}

func pathParam(name, description string) map[string]any {
	return map[string]any{
		"name":        name,
		"in":          "path",
		"required":    true,
		"description": description,
		"schema":      strSchema(description),
	}
}

func jsonBody(ref string, required bool) map[string]any {
	return map[string]any{
		"required": required,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/" + ref},
			},
		},
	}
}

func envelopeResponse() map[string]any {
	return map[string]any{
		"200": map[string]any{
			"description": "Successful Response",
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": map[string]any{"$ref": "#/components/schemas/ApiResponse"},
				},
			},
		},
	}
}

func operation(id, tag, summary, description string, params []map[string]any, body map[string]any) map[string]any {
	op := map[string]any{
		"operationId": id,
		"tags":        []string{tag},
		"summary":     summary,
		"description": description,
		"responses":   envelopeResponse(),
	}
	if len(params) > 0 {
		op["parameters"] = params
	}
	if body != nil {
		op["requestBody"] = body
	}
	return op
}

// buildSpec assembles the OpenAPI 3.1 document for the procurement API.
// Operation IDs follow the handler_path_method convention so generated
// clients get stable names.
func buildSpec() []byte {
	doc := map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":       "Procurement API",
			"description": "Enterprise procurement backend: purchase history, inventory, suppliers, product catalog, purchase requests, and purchase orders.",
			"version":     "1.0.0",
		},
		"paths": map[string]any{
			"/api/purchase-history": map[string]any{
				"get": operation(
					"get_purchase_history_api_purchase_history_get",
					"purchase-history",
					"Search purchase history",
					"Search past purchase records, filtered by item keyword, department, or date range.",
					[]map[string]any{
						queryParam("item_keyword", "string", "Keyword matched against item name, brand, or model"),
						queryParam("department", "string", "Department name"),
						queryParam("date_from", "string", "Start date (YYYY-MM-DD)"),
						queryParam("date_to", "string", "End date (YYYY-MM-DD)"),
					}, nil),
			},
			"/api/inventory": map[string]any{
				"get": operation(
					"get_inventory_api_inventory_get",
					"inventory",
					"Query inventory",
					"Query current warehouse stock, filtered by item keyword or brand.",
					[]map[string]any{
						queryParam("item_keyword", "string", "Item name keyword"),
						queryParam("brand", "string", "Brand"),
						queryParam("available_only", "boolean", "Only show items with available stock"),
					}, nil),
			},
			"/api/inventory/requisitions": map[string]any{
				"post": operation(
					"create_inventory_requisition_api_inventory_requisitions_post",
					"inventory",
					"Issue stock",
					"Issue items from inventory. Stock is decremented automatically.",
					nil, jsonBody("RequisitionCreate", true)),
				"get": operation(
					"get_inventory_requisitions_api_inventory_requisitions_get",
					"inventory",
					"List stock requisitions",
					"List issued stock requisitions.",
					[]map[string]any{
						queryParam("requisition_id", "string", "Requisition ID"),
						queryParam("department", "string", "Department"),
						queryParam("requester", "string", "Requester"),
					}, nil),
			},
			"/api/suppliers": map[string]any{
				"get": operation(
					"get_suppliers_api_suppliers_get",
					"suppliers",
					"List suppliers",
					"List suppliers, filtered by product category or minimum rating. Sorted by rating, highest first.",
					[]map[string]any{
						queryParam("category", "string", "Product category (laptops, monitors, peripherals, ...)"),
						queryParam("min_rating", "number", "Minimum rating (0-5)"),
					}, nil),
			},
			"/api/suppliers/{supplier_id}": map[string]any{
				"get": operation(
					"get_supplier_detail_api_suppliers__supplier_id__get",
					"suppliers",
					"Get supplier detail",
					"Get one supplier with its purchase history and total purchase amount.",
					[]map[string]any{
						pathParam("supplier_id", "Supplier ID (e.g. SUP001) or a substring of the name"),
					}, nil),
			},
			"/api/products": map[string]any{
				"get": operation(
					"get_products_api_products_get",
					"products",
					"Search product catalog",
					"Search supplier quotes for price comparison. Sorted by unit price, lowest first.",
					[]map[string]any{
						queryParam("item_keyword", "string", "Keyword matched against item name or brand"),
						queryParam("spec_requirement", "string", "Spec keywords, space separated; any match keeps the product"),
						queryParam("supplier", "string", "Restrict to one supplier"),
					}, nil),
			},
			"/api/purchase-requests": map[string]any{
				"post": operation(
					"create_purchase_request_api_purchase_requests_post",
					"purchase-requests",
					"Create purchase request",
					"Create a new purchase request. New requests start pending.",
					nil, jsonBody("PurchaseRequestCreate", true)),
				"get": operation(
					"get_purchase_requests_api_purchase_requests_get",
					"purchase-requests",
					"List purchase requests",
					"List purchase requests, filtered by ID, department, or status.",
					[]map[string]any{
						queryParam("pr_id", "string", "Purchase request ID"),
						queryParam("department", "string", "Department"),
						queryParam("status", "string", "Status (pending, approved, rejected, converted)"),
					}, nil),
			},
			"/api/purchase-requests/{pr_id}": map[string]any{
				"get": operation(
					"get_purchase_request_detail_api_purchase_requests__pr_id__get",
					"purchase-requests",
					"Get purchase request",
					"Get one purchase request.",
					[]map[string]any{pathParam("pr_id", "Purchase request ID")}, nil),
			},
			"/api/purchase-requests/{pr_id}/approve": map[string]any{
				"post": operation(
					"approve_purchase_request_api_purchase_requests__pr_id__approve_post",
					"purchase-requests",
					"Approve purchase request",
					"Approve a pending purchase request. Approved requests can be converted to purchase orders.",
					[]map[string]any{pathParam("pr_id", "Purchase request ID")},
					jsonBody("ApprovalRequest", false)),
			},
			"/api/purchase-requests/{pr_id}/reject": map[string]any{
				"post": operation(
					"reject_purchase_request_api_purchase_requests__pr_id__reject_post",
					"purchase-requests",
					"Reject purchase request",
					"Reject a pending purchase request. A reason is required.",
					[]map[string]any{pathParam("pr_id", "Purchase request ID")},
					jsonBody("RejectRequest", true)),
			},
			"/api/purchase-orders": map[string]any{
				"post": operation(
					"create_purchase_order_api_purchase_orders_post",
					"purchase-orders",
					"Create purchase order",
					"Convert an approved purchase request into a purchase order with a supplier and unit price.",
					nil, jsonBody("PurchaseOrderCreate", true)),
				"get": operation(
					"get_purchase_orders_api_purchase_orders_get",
					"purchase-orders",
					"List purchase orders",
					"List purchase orders, filtered by ID, purchase request, department, or status.",
					[]map[string]any{
						queryParam("po_id", "string", "Purchase order ID"),
						queryParam("pr_id", "string", "Purchase request ID"),
						queryParam("department", "string", "Department"),
						queryParam("status", "string", "Status"),
					}, nil),
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"ApiResponse": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"success": map[string]any{"type": "boolean"},
						"data":    map[string]any{},
						"count":   intSchema(""),
						"message": strSchema(""),
						"error":   strSchema(""),
					},
					"required": []string{"success"},
				},
				"RequisitionCreate": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"item_name":  strSchema("Item name"),
						"brand":      strSchema("Brand"),
						"model":      strSchema("Model"),
						"quantity":   intSchema("Quantity to issue (default 1)"),
						"department": strSchema("Requesting department"),
						"requester":  strSchema("Requester"),
						"purpose":    strSchema("Purpose"),
						"notes":      strSchema("Notes"),
					},
				},
				"PurchaseRequestCreate": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"item_name":     strSchema("Item name"),
						"spec":          strSchema("Spec requirement"),
						"quantity":      intSchema("Quantity"),
						"purpose":       strSchema("Purpose"),
						"department":    strSchema("Requesting department"),
						"requester":     strSchema("Requester"),
						"expected_date": strSchema("Expected delivery date (YYYY-MM-DD)"),
						"budget":        intSchema("Budget amount"),
						"notes":         strSchema("Notes"),
					},
					"required": []string{"item_name", "quantity"},
				},
				"ApprovalRequest": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"approver": strSchema("Approver"),
						"notes":    strSchema("Approval notes"),
					},
				},
				"RejectRequest": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"approver": strSchema("Reviewer"),
						"reason":   strSchema("Rejection reason"),
					},
					"required": []string{"reason"},
				},
				"PurchaseOrderCreate": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"pr_id":         strSchema("Purchase request ID"),
						"supplier_name": strSchema("Supplier name"),
						"unit_price":    intSchema("Unit price"),
						"quantity":      intSchema("Quantity (defaults to the purchase request quantity)"),
						"delivery_date": strSchema("Delivery date"),
						"payment_terms": strSchema("Payment terms"),
						"notes":         strSchema("Notes"),
					},
					"required": []string{"pr_id", "supplier_name", "unit_price"},
				},
			},
		},
	}

	out, err := json.Marshal(doc)
	if err != nil {
		panic("sample: failed to marshal openapi document: " + err.Error())
	}
	return out
}
