package httpapi

import (
	"encoding/json"
	"errors"
	"expvar"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tablepos/orderflow/internal/effects"
	"tablepos/orderflow/internal/models"
	"tablepos/orderflow/internal/store"
	"tablepos/orderflow/internal/timing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handler struct {
	store              store.OrderStore
	dispatcher         *effects.Dispatcher
	defaultPrepMinutes int
}

type Options struct {
	DefaultPrepMinutes int
}

func NewHandler(store store.OrderStore, dispatcher *effects.Dispatcher, options Options) *Handler {
	prep := options.DefaultPrepMinutes
	if prep <= 0 {
		prep = timing.DefaultPrepMinutes
	}
	return &Handler{store: store, dispatcher: dispatcher, defaultPrepMinutes: prep}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.Handle("/metrics", expvar.Handler())
	mux.HandleFunc("/api/orders", h.handleCreateOrder)
	mux.HandleFunc("/api/orders/", h.handleOrderSubtree)
	mux.HandleFunc("/api/kitchen/orders", h.handleKitchenBatch)
	mux.HandleFunc("/api/kitchen/queue", h.handleKitchenQueue)
	mux.HandleFunc("/api/stations", h.handleStations)
	mux.HandleFunc("/api/events", h.handleEvents)
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type createOrderItemRequest struct {
	MenuItemName         string   `json:"menu_item_name"`
	Quantity             int      `json:"quantity"`
	UnitPrice            string   `json:"unit_price"`
	PrepMinutes          int      `json:"prep_minutes"`
	StationID            string   `json:"station_id"`
	SpecialInstructions  string   `json:"special_instructions"`
	DietaryModifications []string `json:"dietary_modifications"`
}

type createOrderRequest struct {
	RestaurantID        string                   `json:"restaurant_id"`
	BookingID           string                   `json:"booking_id"`
	TableID             string                   `json:"table_id"`
	OrderType           string                   `json:"order_type"`
	CourseType          string                   `json:"course_type"`
	Priority            int                      `json:"priority"`
	SpecialInstructions string                   `json:"special_instructions"`
	DietaryTags         []string                 `json:"dietary_tags"`
	Items               []createOrderItemRequest `json:"items"`
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req createOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	req.RestaurantID = strings.TrimSpace(req.RestaurantID)
	req.BookingID = strings.TrimSpace(req.BookingID)
	req.TableID = strings.TrimSpace(req.TableID)
	req.OrderType = strings.TrimSpace(req.OrderType)

	if req.RestaurantID == "" || req.BookingID == "" || req.OrderType == "" {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "restaurant_id, booking_id, and order_type are required")
		return
	}
	if !isValidUUID(req.RestaurantID) || !isValidUUID(req.BookingID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "restaurant_id and booking_id must be UUIDs")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "at least one item is required")
		return
	}
	if !requireRestaurant(w, r, req.RestaurantID) {
		return
	}

	input := store.CreateOrderInput{
		RestaurantID:        req.RestaurantID,
		BookingID:           req.BookingID,
		TableID:             req.TableID,
		OrderType:           req.OrderType,
		CourseType:          strings.TrimSpace(req.CourseType),
		Priority:            req.Priority,
		SpecialInstructions: req.SpecialInstructions,
		DietaryTags:         req.DietaryTags,
		ActorID:             actorFromContext(r),
		CreatedAt:           time.Now().UTC(),
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "item quantity must be positive")
			return
		}
		price, err := decimal.NewFromString(strings.TrimSpace(item.UnitPrice))
		if err != nil {
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "item unit_price must be a decimal string")
			return
		}
		input.Items = append(input.Items, store.CreateOrderItemInput{
			MenuItemName:         strings.TrimSpace(item.MenuItemName),
			Quantity:             item.Quantity,
			UnitPrice:            price,
			PrepMinutes:          item.PrepMinutes,
			StationID:            strings.TrimSpace(item.StationID),
			SpecialInstructions:  item.SpecialInstructions,
			DietaryModifications: item.DietaryModifications,
		})
	}

	order, err := h.store.CreateOrder(r.Context(), input)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) handleOrderSubtree(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		h.handleGetOrder(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "status":
		switch r.Method {
		case http.MethodPatch:
			h.handleUpdateStatus(w, r, parts[0])
		case http.MethodGet:
			h.handleOrderStatus(w, r, parts[0])
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request, orderID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	if !isValidUUID(orderID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "order id must be a UUID")
		return
	}

	order, err := h.store.GetOrder(r.Context(), restaurantID, orderID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	StationID string `json:"station_id"`
}

type transitionResponse struct {
	Order    models.Order `json:"order"`
	Warnings []string     `json:"warnings,omitempty"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request, orderID string) {
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	if !isValidUUID(orderID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "order id must be a UUID")
		return
	}

	var req updateStatusRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.Status = strings.TrimSpace(req.Status)
	req.StationID = strings.TrimSpace(req.StationID)
	if req.Status == "" {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "status is required")
		return
	}
	if !store.KnownStatus(req.Status) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_status", "status is not a recognized value")
		return
	}
	if req.StationID != "" && !isValidUUID(req.StationID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "station_id must be a UUID when provided")
		return
	}

	oldStatus, order, err := h.applyTransition(r, store.TransitionInput{
		RestaurantID: restaurantID,
		OrderID:      orderID,
		Status:       req.Status,
		ActorID:      actorFromContext(r),
		StationID:    req.StationID,
		Notes:        req.Notes,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}

	warnings := h.runEffects(r, order, oldStatus, req.Status)
	writeJSON(w, http.StatusOK, transitionResponse{Order: order, Warnings: warnings})
}

func (h *Handler) applyTransition(r *http.Request, input store.TransitionInput) (string, models.Order, error) {
	// The store revalidates the transition under lock; this pre-read only
	// feeds old_status into the side-effect pipeline and events response.
	current, err := h.store.GetOrder(r.Context(), input.RestaurantID, input.OrderID)
	if err != nil {
		return "", models.Order{}, err
	}
	order, err := h.store.UpdateOrderStatus(r.Context(), input)
	if err != nil {
		return "", models.Order{}, err
	}
	return current.Status, order, nil
}

func (h *Handler) runEffects(r *http.Request, order models.Order, oldStatus, newStatus string) []string {
	if h.dispatcher == nil {
		return nil
	}
	return h.dispatcher.Run(r.Context(), effects.Transition{
		Order:     order,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ActorID:   actorFromContext(r),
	})
}

type orderStatusResponse struct {
	Order   models.Order         `json:"order"`
	History []store.HistoryEntry `json:"history"`
}

func (h *Handler) handleOrderStatus(w http.ResponseWriter, r *http.Request, orderID string) {
	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	if !isValidUUID(orderID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "order id must be a UUID")
		return
	}

	order, err := h.store.GetOrder(r.Context(), restaurantID, orderID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	history, err := h.store.ListStatusHistory(r.Context(), restaurantID, orderID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, orderStatusResponse{Order: order, History: history})
}

type batchUpdate struct {
	OrderID     string `json:"order_id"`
	OrderItemID string `json:"order_item_id"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

type batchRequest struct {
	RestaurantID string        `json:"restaurant_id"`
	Updates      []batchUpdate `json:"updates"`
}

type batchResult struct {
	OrderID     string `json:"order_id"`
	OrderItemID string `json:"order_item_id,omitempty"`
	OK          bool   `json:"ok"`
	Error       string `json:"error,omitempty"`
}

func (h *Handler) handleKitchenBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req batchRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.RestaurantID = strings.TrimSpace(req.RestaurantID)
	if req.RestaurantID == "" || !isValidUUID(req.RestaurantID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "restaurant_id must be a UUID")
		return
	}
	if len(req.Updates) == 0 {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "updates are required")
		return
	}
	if !requireRestaurant(w, r, req.RestaurantID) {
		return
	}

	actorID := actorFromContext(r)
	results := make([]batchResult, 0, len(req.Updates))
	for _, update := range req.Updates {
		result := batchResult{OrderID: update.OrderID, OrderItemID: update.OrderItemID}
		err := h.applyBatchUpdate(r, req.RestaurantID, actorID, update)
		if err != nil {
			_, code, _ := mapError(err)
			result.Error = code
		} else {
			result.OK = true
		}
		results = append(results, result)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (h *Handler) applyBatchUpdate(r *http.Request, restaurantID, actorID string, update batchUpdate) error {
	status := strings.TrimSpace(update.Status)
	if !store.KnownStatus(status) {
		return store.ErrUnknownStatus
	}
	if !isValidUUID(update.OrderID) {
		return store.ErrOrderNotFound
	}

	if update.OrderItemID != "" {
		_, err := h.store.UpdateItemStatus(r.Context(), store.ItemTransitionInput{
			RestaurantID: restaurantID,
			OrderID:      update.OrderID,
			ItemID:       update.OrderItemID,
			Status:       status,
			ActorID:      actorID,
			Notes:        update.Notes,
			OccurredAt:   time.Now().UTC(),
		})
		return err
	}

	oldStatus, order, err := h.applyTransition(r, store.TransitionInput{
		RestaurantID: restaurantID,
		OrderID:      update.OrderID,
		Status:       status,
		ActorID:      actorID,
		Notes:        update.Notes,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	h.runEffects(r, order, oldStatus, status)
	return nil
}

type queueEntry struct {
	models.Order
	Timing timing.Derived `json:"timing"`
}

func (h *Handler) handleKitchenQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	restaurantID := strings.TrimSpace(r.URL.Query().Get("restaurant_id"))
	stationID := strings.TrimSpace(r.URL.Query().Get("station_id"))
	if restaurantID == "" || !isValidUUID(restaurantID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "restaurant_id must be a UUID")
		return
	}
	if stationID != "" && !isValidUUID(stationID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "station_id must be a UUID when provided")
		return
	}
	if !requireRestaurant(w, r, restaurantID) {
		return
	}

	orders, err := h.store.ListKitchenQueue(r.Context(), restaurantID, stationID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}

	now := time.Now().UTC()
	entries := make([]queueEntry, 0, len(orders))
	for _, order := range orders {
		entries = append(entries, queueEntry{Order: order, Timing: timing.Derive(now, order, h.defaultPrepMinutes)})
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleStations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	restaurantID := strings.TrimSpace(r.URL.Query().Get("restaurant_id"))
	if restaurantID == "" || !isValidUUID(restaurantID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "restaurant_id must be a UUID")
		return
	}
	if !requireRestaurant(w, r, restaurantID) {
		return
	}

	stations, err := h.store.ListStations(r.Context(), restaurantID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, stations)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	restaurantID := strings.TrimSpace(r.URL.Query().Get("restaurant_id"))
	if restaurantID == "" || !isValidUUID(restaurantID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "restaurant_id must be a UUID")
		return
	}
	if !requireRestaurant(w, r, restaurantID) {
		return
	}

	afterRaw := strings.TrimSpace(r.URL.Query().Get("after"))
	var after time.Time
	if afterRaw != "" {
		parsed, err := time.Parse(time.RFC3339, afterRaw)
		if err != nil {
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "after must be RFC3339 timestamp")
			return
		}
		after = parsed
	}

	limit := 100
	if limitRaw := strings.TrimSpace(r.URL.Query().Get("limit")); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil || parsed <= 0 {
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	events, err := h.store.ListOutboxEvents(r.Context(), restaurantID, after, limit)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func restaurantScope(w http.ResponseWriter, r *http.Request) (string, bool) {
	restaurantID := strings.TrimSpace(r.URL.Query().Get("restaurant_id"))
	if restaurantID == "" || !isValidUUID(restaurantID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "restaurant_id must be a UUID")
		return "", false
	}
	if !requireRestaurant(w, r, restaurantID) {
		return "", false
	}
	return restaurantID, true
}

func isValidUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, store.ErrUnknownStatus):
		return http.StatusBadRequest, "invalid_status", "status is not a recognized value"
	case errors.Is(err, store.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition", "order state does not allow this transition"
	case errors.Is(err, store.ErrOrderNotFound):
		return http.StatusNotFound, "order_not_found", "order not found"
	case errors.Is(err, store.ErrItemNotFound):
		return http.StatusNotFound, "item_not_found", "order item not found"
	case errors.Is(err, store.ErrBookingNotFound):
		return http.StatusNotFound, "booking_not_found", "booking not found"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

type errorResponse struct {
	RequestID string        `json:"request_id"`
	Error     responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, requestID string, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		RequestID: requestID,
		Error: responseError{
			Code:    code,
			Message: message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
