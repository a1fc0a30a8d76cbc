package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"tablepos/orderflow/internal/models"
	"tablepos/orderflow/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const orderNumberPad = 3

const orderColumns = `order_id, order_number, restaurant_id, booking_id, table_id, status, order_type, course_type, priority,
		special_instructions, dietary_tags, subtotal::text, tax::text, total::text,
		created_at, confirmed_at, started_preparing_at, ready_at, served_at, completed_at, actual_prep_minutes`

const itemColumns = `item_id, order_id, menu_item_name, quantity, unit_price::text, line_total::text, status, prep_minutes,
		station_id, special_instructions, dietary_modifications`

type Store struct {
	pool    *pgxpool.Pool
	taxRate decimal.Decimal
}

type Options struct {
	// TaxRate is applied to the item subtotal at order creation, e.g. 0.10.
	TaxRate decimal.Decimal
}

func NewStore(pool *pgxpool.Pool, options Options) *Store {
	return &Store{pool: pool, taxRate: options.TaxRate}
}

func (s *Store) CreateOrder(ctx context.Context, input store.CreateOrderInput) (models.Order, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Order{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = ensureBookingExists(ctx, tx, input.RestaurantID, input.BookingID); err != nil {
		return models.Order{}, err
	}

	seq, err := nextOrderNumber(ctx, tx, input.RestaurantID)
	if err != nil {
		return models.Order{}, err
	}
	formattedNumber := fmt.Sprintf("ORD-%0*d", orderNumberPad, seq)

	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	subtotal := decimal.Zero
	for _, item := range input.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	tax := subtotal.Mul(s.taxRate).Round(2)
	total := subtotal.Add(tax)

	orderID := uuid.NewString()
	priority := input.Priority
	if priority < 1 {
		priority = 1
	}
	if priority > 5 {
		priority = 5
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO orders (
			order_id, order_number, restaurant_id, booking_id, table_id, status, order_type, course_type, priority,
			special_instructions, dietary_tags, subtotal, tax, total, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING `+orderColumns+`
	`, orderID, formattedNumber, input.RestaurantID, input.BookingID, nullIfEmpty(input.TableID), models.StatusPending,
		input.OrderType, nullIfEmpty(input.CourseType), priority, input.SpecialInstructions, emptyIfNil(input.DietaryTags),
		subtotal.String(), tax.String(), total.String(), createdAt)

	var order models.Order
	if order, err = scanOrder(row); err != nil {
		return models.Order{}, err
	}

	for _, item := range input.Items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		itemRow := tx.QueryRow(ctx, `
			INSERT INTO order_items (
				item_id, order_id, menu_item_name, quantity, unit_price, line_total, status, prep_minutes,
				station_id, special_instructions, dietary_modifications
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			RETURNING `+itemColumns+`
		`, uuid.NewString(), orderID, item.MenuItemName, item.Quantity, item.UnitPrice.String(), lineTotal.String(),
			models.StatusPending, item.PrepMinutes, nullIfEmpty(item.StationID), item.SpecialInstructions, emptyIfNil(item.DietaryModifications))
		var inserted models.OrderItem
		if inserted, err = scanItem(itemRow); err != nil {
			return models.Order{}, err
		}
		order.Items = append(order.Items, inserted)
	}

	if err = insertOutboxEvent(ctx, tx, input.RestaurantID, "order.created", orderEventPayload(order, "", models.StatusPending, "")); err != nil {
		return models.Order{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Order{}, err
	}

	s.appendHistory(ctx, store.HistoryEntry{
		OrderID:   orderID,
		NewStatus: models.StatusPending,
		ActorID:   input.ActorID,
		Notes:     "Order created",
		CreatedAt: createdAt,
	})

	return order, nil
}

func (s *Store) GetOrder(ctx context.Context, restaurantID, orderID string) (models.Order, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE order_id = $1 AND restaurant_id = $2
	`, orderID, restaurantID)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, store.ErrOrderNotFound
		}
		return models.Order{}, err
	}
	order.Items, err = s.listItems(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, input store.TransitionInput) (models.Order, error) {
	if !store.KnownStatus(input.Status) {
		return models.Order{}, store.ErrUnknownStatus
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Order{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	current, err := getOrderForUpdate(ctx, tx, input.RestaurantID, input.OrderID)
	if err != nil {
		return models.Order{}, err
	}
	if !store.CanTransition(current.Status, input.Status) {
		return models.Order{}, store.ErrInvalidTransition
	}
	oldStatus := current.Status

	updateQuery := `UPDATE orders SET status = $1`
	args := []interface{}{input.Status}
	argPos := 2

	// Timestamp columns are set at most once; a jump transition that skips a
	// status simply leaves its column null.
	if column := store.TimestampColumn(input.Status); column != "" {
		updateQuery += fmt.Sprintf(", %s = COALESCE(%s, $%d)", column, column, argPos)
		args = append(args, occurredAt)
		argPos++
	}
	if input.Status == models.StatusCompleted && current.StartedPreparingAt != nil {
		prepMinutes := int(occurredAt.Sub(*current.StartedPreparingAt) / time.Minute)
		updateQuery += fmt.Sprintf(", actual_prep_minutes = $%d", argPos)
		args = append(args, prepMinutes)
		argPos++
	}

	updateQuery += fmt.Sprintf(" WHERE order_id = $%d AND restaurant_id = $%d RETURNING ", argPos, argPos+1) + orderColumns
	args = append(args, input.OrderID, input.RestaurantID)

	row := tx.QueryRow(ctx, updateQuery, args...)
	var order models.Order
	if order, err = scanOrder(row); err != nil {
		return models.Order{}, err
	}

	// Cancelling the order drags every still-live item down with it.
	if input.Status == models.StatusCancelled {
		if _, err = tx.Exec(ctx, `
			UPDATE order_items SET status = $1
			WHERE order_id = $2 AND status NOT IN ($3, $4)
		`, models.StatusCancelled, input.OrderID, models.StatusCompleted, models.StatusCancelled); err != nil {
			return models.Order{}, err
		}
	}

	if err = insertOutboxEvent(ctx, tx, input.RestaurantID, store.EventType(input.Status), orderEventPayload(order, oldStatus, input.Status, input.StationID)); err != nil {
		return models.Order{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Order{}, err
	}

	notes := input.Notes
	if notes == "" {
		notes = store.DefaultNote(input.Status)
	}
	s.appendHistory(ctx, store.HistoryEntry{
		OrderID:   input.OrderID,
		OldStatus: oldStatus,
		NewStatus: input.Status,
		ActorID:   input.ActorID,
		StationID: input.StationID,
		Notes:     notes,
		CreatedAt: occurredAt,
	})

	if order.Items, err = s.listItems(ctx, input.OrderID); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *Store) UpdateItemStatus(ctx context.Context, input store.ItemTransitionInput) (models.OrderItem, error) {
	if !store.KnownStatus(input.Status) {
		return models.OrderItem{}, store.ErrUnknownStatus
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.OrderItem{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var currentStatus string
	row := tx.QueryRow(ctx, `
		SELECT i.status
		FROM order_items i
		JOIN orders o ON o.order_id = i.order_id
		WHERE i.item_id = $1 AND i.order_id = $2 AND o.restaurant_id = $3
		FOR UPDATE OF i
	`, input.ItemID, input.OrderID, input.RestaurantID)
	if err = row.Scan(&currentStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = itemLookupError(ctx, tx, input.RestaurantID, input.OrderID)
			return models.OrderItem{}, err
		}
		return models.OrderItem{}, err
	}
	if !store.CanTransition(currentStatus, input.Status) {
		err = store.ErrInvalidTransition
		return models.OrderItem{}, err
	}

	row = tx.QueryRow(ctx, `
		UPDATE order_items SET status = $1
		WHERE item_id = $2
		RETURNING `+itemColumns+`
	`, input.Status, input.ItemID)
	var item models.OrderItem
	if item, err = scanItem(row); err != nil {
		return models.OrderItem{}, err
	}

	payload := map[string]interface{}{
		"order_id":   input.OrderID,
		"item_id":    input.ItemID,
		"old_status": currentStatus,
		"new_status": input.Status,
		"timestamp":  occurredAt,
		"topic":      "kitchen_update",
	}
	if err = insertOutboxEvent(ctx, tx, input.RestaurantID, "order.item_status_changed", payload); err != nil {
		return models.OrderItem{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.OrderItem{}, err
	}

	notes := input.Notes
	if notes == "" {
		notes = store.DefaultNote(input.Status)
	}
	s.appendHistory(ctx, store.HistoryEntry{
		OrderID:   input.OrderID,
		ItemID:    input.ItemID,
		OldStatus: currentStatus,
		NewStatus: input.Status,
		ActorID:   input.ActorID,
		Notes:     notes,
		CreatedAt: occurredAt,
	})

	return item, nil
}

func (s *Store) ListKitchenQueue(ctx context.Context, restaurantID, stationID string) ([]models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE restaurant_id = $1 AND status IN ('pending','confirmed','preparing','ready')
	`
	args := []interface{}{restaurantID}
	if stationID != "" {
		query += ` AND EXISTS (
			SELECT 1 FROM order_items i
			WHERE i.order_id = orders.order_id AND i.station_id = $2
		)`
		args = append(args, stationID)
	}
	query += " ORDER BY priority DESC, created_at ASC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.listItems(ctx, orders[i].OrderID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (s *Store) ListStatusHistory(ctx context.Context, restaurantID, orderID string) ([]store.HistoryEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT h.order_id, h.seq, h.old_status, h.new_status, h.actor_id, h.station_id, h.item_id, h.notes, h.created_at, h.prev_hash, h.hash
		FROM order_status_history h
		JOIN orders o ON o.order_id = h.order_id
		WHERE h.order_id = $1 AND o.restaurant_id = $2
		ORDER BY h.seq ASC
	`, orderID, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []store.HistoryEntry
	for rows.Next() {
		var entry store.HistoryEntry
		var oldStatusNull, stationIDNull, itemIDNull, notesNull sql.NullString
		if err := rows.Scan(&entry.OrderID, &entry.Seq, &oldStatusNull, &entry.NewStatus, &entry.ActorID, &stationIDNull, &itemIDNull, &notesNull, &entry.CreatedAt, &entry.PrevHash, &entry.Hash); err != nil {
			return nil, err
		}
		entry.OldStatus = oldStatusNull.String
		entry.StationID = stationIDNull.String
		entry.ItemID = itemIDNull.String
		entry.Notes = notesNull.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) ListStations(ctx context.Context, restaurantID string) ([]models.Station, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT station_id, restaurant_id, name, station_type
		FROM stations
		WHERE restaurant_id = $1
		ORDER BY name ASC
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var station models.Station
		if err := rows.Scan(&station.StationID, &station.RestaurantID, &station.Name, &station.StationType); err != nil {
			return nil, err
		}
		stations = append(stations, station)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

func (s *Store) ListOutboxEvents(ctx context.Context, restaurantID string, after time.Time, limit int) ([]store.OutboxEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT event_id, restaurant_id, type, payload_json, created_at
		FROM outbox_events
		WHERE restaurant_id = $1 AND created_at > $2
		ORDER BY created_at ASC
		LIMIT $3
	`, restaurantID, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []store.OutboxEvent
	for rows.Next() {
		var event store.OutboxEvent
		if err := rows.Scan(&event.EventID, &event.RestaurantID, &event.Type, &event.Payload, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Store) AdvanceBooking(ctx context.Context, restaurantID, bookingID, fromStatus, toStatus string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE bookings SET status = $1
		WHERE booking_id = $2 AND restaurant_id = $3 AND status = $4
	`, toStatus, bookingID, restaurantID, fromStatus)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	row := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM bookings WHERE booking_id = $1 AND restaurant_id = $2)
	`, bookingID, restaurantID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, store.ErrBookingNotFound
	}
	return false, nil
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (store.Session, error) {
	var session store.Session
	row := s.pool.QueryRow(ctx, `
		SELECT session_id, user_id, restaurant_id, role, expires_at
		FROM sessions
		WHERE session_id = $1 AND expires_at > now()
	`, sessionID)
	if err := row.Scan(&session.SessionID, &session.UserID, &session.RestaurantID, &session.Role, &session.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Session{}, store.ErrSessionNotFound
		}
		return store.Session{}, err
	}
	return session, nil
}

// appendHistory records a transition in the append-only log. The log is
// auxiliary audit data: a write failure is logged and never surfaced as a
// failure of the transition that already committed.
func (s *Store) appendHistory(ctx context.Context, entry store.HistoryEntry) {
	if err := s.insertHistoryEntry(ctx, entry); err != nil {
		log.Printf("history append error order=%s: %v", entry.OrderID, err)
	}
}

func (s *Store) insertHistoryEntry(ctx context.Context, entry store.HistoryEntry) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, entry.OrderID); err != nil {
		return err
	}

	var lastSeq int
	var prevHash sql.NullString
	row := tx.QueryRow(ctx, `
		SELECT seq, hash
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY seq DESC
		LIMIT 1
	`, entry.OrderID)
	if err = row.Scan(&lastSeq, &prevHash); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	err = nil

	entry.Seq = lastSeq + 1
	entry.PrevHash = prevHash.String
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	// timestamptz keeps microseconds; hash what the column will actually hold
	// so the chain verifies after a round trip.
	entry.CreatedAt = entry.CreatedAt.Truncate(time.Microsecond)
	entry.Hash = store.ComputeHistoryHash(entry.PrevHash, entry)

	if _, err = tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, seq, old_status, new_status, actor_id, station_id, item_id, notes, created_at, prev_hash, hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, entry.OrderID, entry.Seq, nullIfEmpty(entry.OldStatus), entry.NewStatus, entry.ActorID, nullIfEmpty(entry.StationID),
		nullIfEmpty(entry.ItemID), nullIfEmpty(entry.Notes), entry.CreatedAt, entry.PrevHash, entry.Hash); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) listItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM order_items
		WHERE order_id = $1
		ORDER BY item_id ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func getOrderForUpdate(ctx context.Context, tx pgx.Tx, restaurantID, orderID string) (models.Order, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE order_id = $1 AND restaurant_id = $2
		FOR UPDATE
	`, orderID, restaurantID)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, store.ErrOrderNotFound
		}
		return models.Order{}, err
	}
	return order, nil
}

func itemLookupError(ctx context.Context, tx pgx.Tx, restaurantID, orderID string) error {
	var exists bool
	row := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM orders WHERE order_id = $1 AND restaurant_id = $2)
	`, orderID, restaurantID)
	if err := row.Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return store.ErrOrderNotFound
	}
	return store.ErrItemNotFound
}

func ensureBookingExists(ctx context.Context, tx pgx.Tx, restaurantID, bookingID string) error {
	var exists bool
	row := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM bookings WHERE booking_id = $1 AND restaurant_id = $2)
	`, bookingID, restaurantID)
	if err := row.Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return store.ErrBookingNotFound
	}
	return nil
}

func nextOrderNumber(ctx context.Context, tx pgx.Tx, restaurantID string) (int64, error) {
	var seq int64
	row := tx.QueryRow(ctx, `
		INSERT INTO order_counters (restaurant_id, seq)
		VALUES ($1, 1)
		ON CONFLICT (restaurant_id) DO UPDATE SET seq = order_counters.seq + 1
		RETURNING seq
	`, restaurantID)
	if err := row.Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}

func orderEventPayload(order models.Order, oldStatus, newStatus, stationID string) map[string]interface{} {
	payload := map[string]interface{}{
		"order_id":     order.OrderID,
		"order_number": order.OrderNumber,
		"old_status":   oldStatus,
		"new_status":   newStatus,
		"timestamp":    time.Now().UTC(),
		"topic":        "kitchen_update",
	}
	if stationID != "" {
		payload["station_id"] = stationID
	}
	return payload
}

func insertOutboxEvent(ctx context.Context, tx pgx.Tx, restaurantID, eventType string, payload map[string]interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO outbox_events (event_id, restaurant_id, type, payload_json, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), restaurantID, eventType, payloadJSON, time.Now().UTC())
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (models.Order, error) {
	var order models.Order
	var tableIDNull, courseTypeNull sql.NullString
	var subtotalRaw, taxRaw, totalRaw string
	var confirmedNull, preparingNull, readyNull, servedNull, completedNull sql.NullTime
	var prepMinutesNull sql.NullInt64

	if err := row.Scan(&order.OrderID, &order.OrderNumber, &order.RestaurantID, &order.BookingID, &tableIDNull,
		&order.Status, &order.OrderType, &courseTypeNull, &order.Priority, &order.SpecialInstructions, &order.DietaryTags,
		&subtotalRaw, &taxRaw, &totalRaw, &order.CreatedAt, &confirmedNull, &preparingNull, &readyNull, &servedNull,
		&completedNull, &prepMinutesNull); err != nil {
		return models.Order{}, err
	}

	order.TableID = nullStringPtr(tableIDNull)
	order.CourseType = courseTypeNull.String
	order.ConfirmedAt = nullTimePtr(confirmedNull)
	order.StartedPreparingAt = nullTimePtr(preparingNull)
	order.ReadyAt = nullTimePtr(readyNull)
	order.ServedAt = nullTimePtr(servedNull)
	order.CompletedAt = nullTimePtr(completedNull)
	if prepMinutesNull.Valid {
		minutes := int(prepMinutesNull.Int64)
		order.ActualPrepMinutes = &minutes
	}

	var err error
	if order.Subtotal, err = decimal.NewFromString(subtotalRaw); err != nil {
		return models.Order{}, err
	}
	if order.Tax, err = decimal.NewFromString(taxRaw); err != nil {
		return models.Order{}, err
	}
	if order.Total, err = decimal.NewFromString(totalRaw); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func scanItem(row rowScanner) (models.OrderItem, error) {
	var item models.OrderItem
	var unitPriceRaw, lineTotalRaw string
	var stationIDNull sql.NullString

	if err := row.Scan(&item.ItemID, &item.OrderID, &item.MenuItemName, &item.Quantity, &unitPriceRaw, &lineTotalRaw,
		&item.Status, &item.PrepMinutes, &stationIDNull, &item.SpecialInstructions, &item.DietaryModifications); err != nil {
		return models.OrderItem{}, err
	}
	item.StationID = nullStringPtr(stationIDNull)

	var err error
	if item.UnitPrice, err = decimal.NewFromString(unitPriceRaw); err != nil {
		return models.OrderItem{}, err
	}
	if item.LineTotal, err = decimal.NewFromString(lineTotalRaw); err != nil {
		return models.OrderItem{}, err
	}
	return item, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func nullTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time
	return &t
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
