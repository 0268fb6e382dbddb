package services

import (
	"database/sql"
	"errors"
	"fmt"

	"bawabati-api/internal/models"

	"github.com/rs/zerolog"
)

var ErrOrderNotFound = errors.New("order not found")

// taxRate is the flat VAT applied to the item subtotal.
const taxRate = 0.15

type OrderService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewOrderService(db *sql.DB, logger zerolog.Logger) *OrderService {
	return &OrderService{
		db:     db,
		logger: logger,
	}
}

// CreateOrder inserts an order with its line items in one transaction,
// computing subtotal, tax and total server-side.
func (s *OrderService) CreateOrder(customerID int, req *models.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}
	if req.VendorID == 0 {
		return nil, errors.New("vendor_id is required")
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = "SAR"
	}

	var subtotal float64
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity %d for %q", item.Quantity, item.ProductName)
		}
		if item.UnitPrice < 0 {
			return nil, fmt.Errorf("negative unit price for %q", item.ProductName)
		}
		subtotal += float64(item.Quantity) * item.UnitPrice
	}

	tax := subtotal * taxRate
	total := subtotal + req.DeliveryFee + tax - req.Discount
	if total < 0 {
		total = 0
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting order transaction")
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var orderID int
	err = tx.QueryRow(
		`INSERT INTO orders (customer_id, vendor_id, currency_code, subtotal, delivery_fee, tax, discount, total, status, delivery_address)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', $9)
		 RETURNING id`,
		customerID, req.VendorID, currency, subtotal, req.DeliveryFee, tax, req.Discount, total, req.DeliveryAddress,
	).Scan(&orderID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range req.Items {
		_, err := tx.Exec(
			"INSERT INTO order_items (order_id, product_name, quantity, unit_price, total) VALUES ($1, $2, $3, $4, $5)",
			orderID, item.ProductName, item.Quantity, item.UnitPrice, float64(item.Quantity)*item.UnitPrice,
		)
		if err != nil {
			s.logger.Error().Err(err).Int("order_id", orderID).Msg("Error creating order item")
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing order")
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	s.logger.Info().
		Int("order_id", orderID).
		Int("customer_id", customerID).
		Int("vendor_id", req.VendorID).
		Float64("total", total).
		Msg("Order created")

	return s.GetOrder(orderID)
}

func (s *OrderService) GetOrder(orderID int) (*models.Order, error) {
	var order models.Order
	var driverID sql.NullInt64

	err := s.db.QueryRow(
		`SELECT id, customer_id, vendor_id, driver_id, currency_code, subtotal, delivery_fee, tax, discount, total, status, COALESCE(delivery_address, ''), created_at
		 FROM orders WHERE id = $1`,
		orderID,
	).Scan(&order.ID, &order.CustomerID, &order.VendorID, &driverID, &order.CurrencyCode,
		&order.Subtotal, &order.DeliveryFee, &order.Tax, &order.Discount, &order.Total,
		&order.Status, &order.DeliveryAddress, &order.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int("order_id", orderID).Msg("Error fetching order")
		return nil, fmt.Errorf("database error: %w", err)
	}

	if driverID.Valid {
		val := int(driverID.Int64)
		order.DriverID = &val
	}

	return &order, nil
}

func (s *OrderService) GetOrderItems(orderID int) ([]models.OrderItem, error) {
	rows, err := s.db.Query(
		"SELECT id, order_id, product_name, quantity, unit_price, total FROM order_items WHERE order_id = $1 ORDER BY id",
		orderID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("order_id", orderID).Msg("Error fetching order items")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.Total); err != nil {
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (s *OrderService) ListOrders(userID int, role string, limit, offset int) ([]*models.Order, error) {
	var column string
	switch role {
	case string(models.RoleAdmin):
		column = ""
	case string(models.RoleVendor), string(models.RoleRestaurant):
		column = "vendor_id"
	case string(models.RoleDriver):
		column = "driver_id"
	default:
		column = "customer_id"
	}

	query := `SELECT id, customer_id, vendor_id, driver_id, currency_code, subtotal, delivery_fee, tax, discount, total, status, COALESCE(delivery_address, ''), created_at
		 FROM orders`
	args := []interface{}{}
	if column != "" {
		query += fmt.Sprintf(" WHERE %s = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3", column)
		args = append(args, userID, limit, offset)
	} else {
		query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing orders")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		var order models.Order
		var driverID sql.NullInt64
		err := rows.Scan(&order.ID, &order.CustomerID, &order.VendorID, &driverID, &order.CurrencyCode,
			&order.Subtotal, &order.DeliveryFee, &order.Tax, &order.Discount, &order.Total,
			&order.Status, &order.DeliveryAddress, &order.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning order: %w", err)
		}
		if driverID.Valid {
			val := int(driverID.Int64)
			order.DriverID = &val
		}
		orders = append(orders, &order)
	}

	return orders, rows.Err()
}

// GetInvoiceData assembles everything the printable invoice needs: the
// order, its line items, and the parties involved.
func (s *OrderService) GetInvoiceData(orderID int) (*models.InvoiceData, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	items, err := s.GetOrderItems(orderID)
	if err != nil {
		return nil, err
	}

	data := models.InvoiceData{
		Order: *order,
		Items: items,
	}

	if err := s.loadParty(order.CustomerID, &data.Customer); err != nil {
		return nil, err
	}
	if err := s.loadParty(order.VendorID, &data.Vendor); err != nil {
		return nil, err
	}
	if order.DriverID != nil {
		var driver models.InvoiceParty
		if err := s.loadParty(*order.DriverID, &driver); err != nil {
			return nil, err
		}
		data.Driver = &driver
	}

	return &data, nil
}

func (s *OrderService) loadParty(userID int, party *models.InvoiceParty) error {
	err := s.db.QueryRow("SELECT full_name, email FROM users WHERE id = $1", userID).
		Scan(&party.FullName, &party.Email)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching invoice party")
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}
