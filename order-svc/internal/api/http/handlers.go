package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"bakery-preorder/order-svc/internal/cart"
	"bakery-preorder/order-svc/internal/domain"
	"bakery-preorder/order-svc/internal/schedule"
	"bakery-preorder/order-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Catalog   service.CatalogServiceInterface
	Sessions  service.SessionServiceInterface
	Inquiries service.InquiryServiceInterface
	Content   service.ContentServiceInterface
	QR        service.QRGenerator

	Location *time.Location
	Now      func() time.Time
}

func NewHandler(catalog service.CatalogServiceInterface, sessions service.SessionServiceInterface, inquiries service.InquiryServiceInterface, content service.ContentServiceInterface, qr service.QRGenerator) *Handler {
	return &Handler{
		Catalog:   catalog,
		Sessions:  sessions,
		Inquiries: inquiries,
		Content:   content,
		QR:        qr,
		Location:  time.Local,
		Now:       time.Now,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/menu", h.listMenu).Methods("GET")
	r.HandleFunc("/api/menu/categories", h.listCategories).Methods("GET")
	r.HandleFunc("/api/menu/{id}", h.getMenuItem).Methods("GET")

	r.HandleFunc("/api/sessions", h.createSession).Methods("POST")
	r.HandleFunc("/api/sessions/{id}", h.getSession).Methods("GET")
	r.HandleFunc("/api/sessions/{id}", h.deleteSession).Methods("DELETE")
	r.HandleFunc("/api/sessions/{id}/items", h.addItem).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/items", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/sessions/{id}/items/{itemId}", h.setQuantity).Methods("PUT")
	r.HandleFunc("/api/sessions/{id}/items/{itemId}", h.removeItem).Methods("DELETE")
	r.HandleFunc("/api/sessions/{id}/pickup-windows", h.pickupWindows).Methods("GET")
	r.HandleFunc("/api/sessions/{id}/form", h.saveForm).Methods("PUT")
	r.HandleFunc("/api/sessions/{id}/order", h.submitOrder).Methods("POST")

	r.HandleFunc("/api/pickup/dates", h.pickupDates).Methods("GET")

	r.HandleFunc("/api/bulk-orders", h.submitBulkOrder).Methods("POST")
	r.HandleFunc("/api/contact", h.submitContact).Methods("POST")
	r.HandleFunc("/api/faq", h.getFAQ).Methods("GET")

	r.HandleFunc("/api/orders/{reference}/qrcode", h.getOrderQRCode).Methods("GET")
}

type cartResponse struct {
	Cart   *domain.CartView `json:"cart"`
	Notice *domain.Notice   `json:"notice,omitempty"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Notice *domain.Notice    `json:"notice,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Cart   *domain.CartView  `json:"cart,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to status codes. Provider details never
// reach the client.
func writeError(w http.ResponseWriter, err error, notice *domain.Notice, view *domain.CartView) {
	resp := errorResponse{Error: err.Error(), Notice: notice, Cart: view}
	if notice != nil && notice.Level == "" {
		resp.Notice = nil
	}

	var verr *service.ValidationError
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrItemNotFound), errors.Is(err, cart.ErrNotInCart):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrEmptyCart):
		code = http.StatusUnprocessableEntity
	case errors.As(err, &verr):
		code = http.StatusUnprocessableEntity
		resp.Error = "validation failed"
		resp.Fields = verr.Fields
	case errors.Is(err, cart.ErrStockLimit), errors.Is(err, cart.ErrOutOfStock), errors.Is(err, cart.ErrUnavailable):
		code = http.StatusConflict
	case errors.Is(err, service.ErrSubmissionInProgress):
		code = http.StatusConflict
	case service.IsConfigError(err):
		code = http.StatusServiceUnavailable
		resp.Error = "notification service is not configured"
	case errors.Is(err, service.ErrDispatchFailed):
		code = http.StatusBadGateway
		resp.Error = service.GenericFailureMessage
	default:
		log.Printf("[order-svc] unexpected error: %v", err)
		resp.Error = "internal error"
	}

	writeJSON(w, code, resp)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	filter := service.CatalogFilter{
		Category:           r.URL.Query().Get("category"),
		Vegan:              queryBool(r, "vegan"),
		GlutenFree:         queryBool(r, "glutenFree"),
		DairyFree:          queryBool(r, "dairyFree"),
		NutFree:            queryBool(r, "nutFree"),
		IncludeUnavailable: queryBool(r, "includeUnavailable"),
	}
	writeJSON(w, http.StatusOK, h.Catalog.List(filter))
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Categories())
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Catalog.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, nil, nil)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	view, notice, err := h.Sessions.Create(r.Context(), r.URL.Query().Get("item"))
	if err != nil {
		writeError(w, err, nil, nil)
		return
	}
	writeJSON(w, http.StatusCreated, cartResponse{Cart: view, Notice: notice})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.Sessions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, nil, nil)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: view})
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err, nil, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, notice, err := h.Sessions.AddItem(r.Context(), mux.Vars(r)["id"], body.ItemID)
	if err != nil {
		writeError(w, err, &notice, view)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: view, Notice: &notice})
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var body struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if body.Quantity == nil {
		http.Error(w, "quantity is required", http.StatusBadRequest)
		return
	}

	view, notice, err := h.Sessions.SetQuantity(r.Context(), vars["id"], vars["itemId"], *body.Quantity)
	if err != nil {
		writeError(w, err, &notice, view)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: view})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view, err := h.Sessions.RemoveItem(r.Context(), vars["id"], vars["itemId"])
	if err != nil {
		writeError(w, err, nil, nil)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: view})
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.Sessions.Clear(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, nil, nil)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: view})
}

func (h *Handler) pickupWindows(w http.ResponseWriter, r *http.Request) {
	windows, err := h.Sessions.PickupWindows(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, nil, nil)
		return
	}
	writeJSON(w, http.StatusOK, windows)
}

func (h *Handler) saveForm(w http.ResponseWriter, r *http.Request) {
	var form domain.OrderForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	view, err := h.Sessions.SaveForm(r.Context(), mux.Vars(r)["id"], form)
	if err != nil {
		writeError(w, err, nil, nil)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: view})
}

func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	var form *domain.OrderForm
	var body domain.OrderForm
	switch err := json.NewDecoder(r.Body).Decode(&body); {
	case err == nil:
		form = &body
	case errors.Is(err, io.EOF):
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.Sessions.Submit(r.Context(), mux.Vars(r)["id"], form)
	if err != nil {
		var notice *domain.Notice
		if result != nil {
			notice = &result.Notice
		}
		writeError(w, err, notice, nil)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) pickupDates(w http.ResponseWriter, r *http.Request) {
	mode := domain.FulfillmentMode(r.URL.Query().Get("mode"))
	if !mode.Valid() {
		http.Error(w, "mode must be in_stock or made_to_order", http.StatusBadRequest)
		return
	}

	days := schedule.DefaultHorizonDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 90 {
			http.Error(w, "days must be between 1 and 90", http.StatusBadRequest)
			return
		}
		days = n
	}

	now := h.Now().In(h.Location)
	dates := []string{}
	for _, d := range schedule.AvailableDates(mode, now, days) {
		dates = append(dates, d.Format(schedule.DateLayout))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mode":     mode,
		"dates":    dates,
		"times":    schedule.Slots(mode),
		"deadline": schedule.NextOrderDeadline(now),
	})
}

func (h *Handler) submitBulkOrder(w http.ResponseWriter, r *http.Request) {
	var inquiry domain.BulkOrderInquiry
	if err := json.NewDecoder(r.Body).Decode(&inquiry); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	notice, err := h.Inquiries.SubmitBulkOrder(r.Context(), inquiry)
	if err != nil {
		writeInquiryError(w, err, notice)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notice": notice})
}

func (h *Handler) submitContact(w http.ResponseWriter, r *http.Request) {
	var msg domain.ContactMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	notice, err := h.Inquiries.SubmitContact(r.Context(), msg)
	if err != nil {
		writeInquiryError(w, err, notice)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notice": notice})
}

// writeInquiryError reports dispatch failures with the inquiry's own
// wording rather than the order failure message.
func writeInquiryError(w http.ResponseWriter, err error, notice domain.Notice) {
	if errors.Is(err, service.ErrDispatchFailed) && !service.IsConfigError(err) {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: notice.Message, Notice: &notice})
		return
	}
	writeError(w, err, &notice, nil)
}

func (h *Handler) getFAQ(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Content.FAQ())
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]
	if !service.ValidReference(reference) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	qrCode, err := h.QR.Generate(reference)
	if err != nil {
		log.Printf("[order-svc] qr code for %s: %v", reference, err)
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}
