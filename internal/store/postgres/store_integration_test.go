package postgres

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"tablepos/orderflow/internal/models"
	"tablepos/orderflow/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func TestOrderLifecycle(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	restaurantID := uuid.NewString()
	bookingID := uuid.NewString()
	seedBooking(t, ctx, pool, restaurantID, bookingID)

	order := createOrder(t, ctx, st, restaurantID, bookingID)
	if order.Status != models.StatusPending {
		t.Fatalf("new order status=%q, want pending", order.Status)
	}
	if order.OrderNumber != "ORD-001" {
		t.Fatalf("order number=%q, want ORD-001", order.OrderNumber)
	}
	if !order.Total.Equal(order.Subtotal.Add(order.Tax)) {
		t.Fatalf("total %s != subtotal %s + tax %s", order.Total, order.Subtotal, order.Tax)
	}

	confirmedAt := time.Now().UTC()
	order = transition(t, ctx, st, restaurantID, order.OrderID, models.StatusConfirmed, confirmedAt)
	if order.ConfirmedAt == nil {
		t.Fatal("confirmed_at not set")
	}
	firstConfirmed := *order.ConfirmedAt

	order = transition(t, ctx, st, restaurantID, order.OrderID, models.StatusPreparing, confirmedAt.Add(time.Minute))
	if order.StartedPreparingAt == nil {
		t.Fatal("started_preparing_at not set")
	}

	order = transition(t, ctx, st, restaurantID, order.OrderID, models.StatusCompleted, confirmedAt.Add(11*time.Minute))
	if order.CompletedAt == nil {
		t.Fatal("completed_at not set")
	}
	if order.ActualPrepMinutes == nil || *order.ActualPrepMinutes != 10 {
		t.Fatalf("actual_prep_minutes=%v, want 10", order.ActualPrepMinutes)
	}
	if !order.ConfirmedAt.Equal(firstConfirmed) {
		t.Fatal("confirmed_at changed after later transitions")
	}

	if _, err := st.UpdateOrderStatus(ctx, store.TransitionInput{
		RestaurantID: restaurantID,
		OrderID:      order.OrderID,
		Status:       models.StatusPreparing,
	}); err != store.ErrInvalidTransition {
		t.Fatalf("transition out of completed returned %v, want ErrInvalidTransition", err)
	}

	history, err := st.ListStatusHistory(ctx, restaurantID, order.OrderID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("history length=%d, want 4", len(history))
	}
	if _, ok := store.VerifyChain(history); !ok {
		t.Fatal("history chain does not verify")
	}

	events, err := st.ListOutboxEvents(ctx, restaurantID, time.Unix(0, 0).UTC(), 100)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("outbox events=%d, want 4", len(events))
	}
	if events[0].Type != "order.created" || events[3].Type != "order.completed" {
		t.Fatalf("unexpected event order: %s .. %s", events[0].Type, events[3].Type)
	}
}

func TestCancelCascadesToItems(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	restaurantID := uuid.NewString()
	bookingID := uuid.NewString()
	seedBooking(t, ctx, pool, restaurantID, bookingID)

	order := createOrder(t, ctx, st, restaurantID, bookingID)

	completed, err := st.UpdateItemStatus(ctx, store.ItemTransitionInput{
		RestaurantID: restaurantID,
		OrderID:      order.OrderID,
		ItemID:       order.Items[0].ItemID,
		Status:       models.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("complete item: %v", err)
	}
	if completed.Status != models.StatusCompleted {
		t.Fatalf("item status=%q, want completed", completed.Status)
	}

	completedID := completed.ItemID
	order = transition(t, ctx, st, restaurantID, order.OrderID, models.StatusCancelled, time.Now().UTC())
	for _, item := range order.Items {
		if item.ItemID == completedID {
			if item.Status != models.StatusCompleted {
				t.Fatal("completed item should survive the cancel")
			}
			continue
		}
		if item.Status != models.StatusCancelled {
			t.Fatalf("live item status=%q, want cancelled", item.Status)
		}
	}
}

func TestAdvanceBookingIsConditional(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	restaurantID := uuid.NewString()
	bookingID := uuid.NewString()
	seedBooking(t, ctx, pool, restaurantID, bookingID)

	advanced, err := st.AdvanceBooking(ctx, restaurantID, bookingID, models.BookingStatusSeated, models.BookingStatusOrdered)
	if err != nil {
		t.Fatalf("advance booking: %v", err)
	}
	if !advanced {
		t.Fatal("seated booking should advance")
	}

	advanced, err = st.AdvanceBooking(ctx, restaurantID, bookingID, models.BookingStatusSeated, models.BookingStatusOrdered)
	if err != nil {
		t.Fatalf("second advance: %v", err)
	}
	if advanced {
		t.Fatal("already-ordered booking advanced again")
	}

	if _, err = st.AdvanceBooking(ctx, restaurantID, uuid.NewString(), models.BookingStatusSeated, models.BookingStatusOrdered); err != store.ErrBookingNotFound {
		t.Fatalf("missing booking returned %v, want ErrBookingNotFound", err)
	}
}

func createOrder(t *testing.T, ctx context.Context, st *Store, restaurantID, bookingID string) models.Order {
	t.Helper()
	order, err := st.CreateOrder(ctx, store.CreateOrderInput{
		RestaurantID: restaurantID,
		BookingID:    bookingID,
		OrderType:    models.OrderTypeDineIn,
		Priority:     2,
		Items: []store.CreateOrderItemInput{
			{MenuItemName: "Soup", Quantity: 1, UnitPrice: decimal.RequireFromString("4.50"), PrepMinutes: 10},
			{MenuItemName: "Steak", Quantity: 2, UnitPrice: decimal.RequireFromString("19.00"), PrepMinutes: 25},
		},
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items=%d, want 2", len(order.Items))
	}
	return order
}

func transition(t *testing.T, ctx context.Context, st *Store, restaurantID, orderID, status string, at time.Time) models.Order {
	t.Helper()
	order, err := st.UpdateOrderStatus(ctx, store.TransitionInput{
		RestaurantID: restaurantID,
		OrderID:      orderID,
		Status:       status,
		OccurredAt:   at,
	})
	if err != nil {
		t.Fatalf("transition to %s: %v", status, err)
	}
	return order
}

func seedBooking(t *testing.T, ctx context.Context, pool *pgxpool.Pool, restaurantID, bookingID string) {
	t.Helper()
	if _, err := pool.Exec(ctx, `
		INSERT INTO bookings (booking_id, restaurant_id, status, party_size) VALUES ($1, $2, 'seated', 2)
	`, bookingID, restaurantID); err != nil {
		t.Fatalf("insert booking: %v", err)
	}
}

func setupTestStore(t *testing.T, ctx context.Context) (*Store, *pgxpool.Pool, func()) {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = os.Getenv("DB_DSN")
	}
	if dsn == "" {
		t.Skip("TEST_DB_DSN or DB_DSN is required for integration tests")
	}

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := createSchema(ctx, dsn, schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	pool, err := newPoolWithSchema(ctx, dsn, schema)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("apply migrations: %v", err)
	}

	st := NewStore(pool, Options{TaxRate: decimal.RequireFromString("0.10")})
	cleanup := func() {
		pool.Close()
		_ = dropSchema(context.Background(), dsn, schema)
	}
	return st, pool, cleanup
}

func createSchema(ctx context.Context, dsn, schema string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	_, err = conn.Exec(ctx, "CREATE SCHEMA "+schema)
	return err
}

func dropSchema(ctx context.Context, dsn, schema string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	_, err = conn.Exec(ctx, "DROP SCHEMA "+schema+" CASCADE")
	return err
}

func newPoolWithSchema(ctx context.Context, dsn, schema string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	return pgxpool.NewWithConfig(ctx, cfg)
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	dir := filepath.Join("..", "..", "..", "migrations")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(content)) == "" {
			continue
		}
		if _, err := pool.Exec(ctx, string(content)); err != nil {
			return err
		}
	}
	return nil
}
