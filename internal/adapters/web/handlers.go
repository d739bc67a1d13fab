package web

import (
	"net/http"
	"strconv"
	"time"

	"inventory-backend/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{svc: svc, jwtSecret: jwtSecret}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/logout", h.logout)
	})

	// ── Protected API ─────────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		r.Route("/api/inventory", func(r chi.Router) {
			r.Get("/", h.listItems)
			r.Post("/", h.createItem)
			r.Get("/categories", h.listCategories)
			r.Get("/sku/{sku}", h.getItemBySKU)
			r.Get("/{id}", h.getItem)
			r.Put("/{id}", h.updateItem)
			r.Delete("/{id}", h.deleteItem)
		})

		r.Route("/api/stock", func(r chi.Router) {
			r.Get("/movements", h.listMovements)
			r.Post("/movements", h.recordMovement)
			r.Get("/levels", h.stockLevelsReport)
		})

		r.Route("/api/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Post("/", h.createOrder)
			r.Get("/{id}", h.getOrder)
			r.Put("/{id}/status", h.updateOrderStatus)
			r.Post("/{id}/cancel", h.cancelOrder)
		})

		r.Route("/api/purchase-orders", func(r chi.Router) {
			r.Get("/", h.listPurchaseOrders)
			r.Post("/", h.createPurchaseOrder)
			r.Get("/{id}", h.getPurchaseOrder)
			r.Post("/{id}/receive", h.receivePurchaseOrder)
			r.Post("/{id}/cancel", h.cancelPurchaseOrder)
		})

		r.Route("/api/customers", func(r chi.Router) {
			r.Get("/", h.listCustomers)
			r.Post("/", h.createCustomer)
			r.Get("/{id}", h.getCustomer)
			r.Put("/{id}", h.updateCustomer)
			r.Delete("/{id}", h.deleteCustomer)
		})

		r.Route("/api/suppliers", func(r chi.Router) {
			r.Get("/", h.listSuppliers)
			r.Post("/", h.createSupplier)
			r.Get("/{id}", h.getSupplier)
			r.Put("/{id}", h.updateSupplier)
			r.Delete("/{id}", h.deleteSupplier)
		})

		r.Route("/api/reports", func(r chi.Router) {
			r.Get("/low-stock", h.lowStockReport)
			r.Get("/inventory-valuation", h.valuationReport)
			r.Get("/sales-summary", h.salesSummaryReport)
		})

		r.Get("/api/dashboard/summary", h.dashboard)
	})

	return r
}

// health handles GET /api/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ── Query/path helpers ────────────────────────────────────────────────────

// pathID parses the {id} path parameter; on failure it writes a 400 and
// returns false.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(key))
	return v
}

func queryIntPtr(r *http.Request, key string) *int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func queryBoolPtr(r *http.Request, key string) *bool {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &v
}

// queryTimePtr parses a query param as RFC 3339 or YYYY-MM-DD.
func queryTimePtr(r *http.Request, key string) *time.Time {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	return nil
}
