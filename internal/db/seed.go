package db

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"example.com/backstage/services/routedelivery/internal/model"
	"example.com/backstage/services/routedelivery/internal/security"
)

// Demo driver credentials
const (
	SeedDriverUsername = "1"
	SeedDriverPassword = "1"
)

// Seed inserts demo data when the users table is empty.
// Orders are scheduled on the current day in loc.
func Seed(ctx context.Context, db *gorm.DB, loc *time.Location, log *logrus.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		log.Info("Database already seeded, skipping")
		return nil
	}

	hashed, err := security.HashPassword(SeedDriverPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		driver := &model.User{
			Username:     SeedDriverUsername,
			Email:        "driver@deliveryroute.com",
			Name:         "Juan Pérez",
			Role:         model.DriverRole,
			IsActive:     true,
			PasswordHash: hashed,
		}
		if err := tx.Create(driver).Error; err != nil {
			return fmt.Errorf("failed to create driver: %w", err)
		}

		customers := seedCustomers()
		if err := tx.Create(&customers).Error; err != nil {
			return fmt.Errorf("failed to create customers: %w", err)
		}

		products := seedProducts()
		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("failed to create products: %w", err)
		}

		now := time.Now().In(loc)
		inventory := make([]model.Inventory, len(products))
		for i, p := range products {
			inventory[i] = model.Inventory{
				ProductID:        p.ID,
				DriverID:         driver.ID,
				Quantity:         10 + 10*i,
				ReservedQuantity: i,
				LastUpdated:      now,
			}
		}
		if err := tx.Create(&inventory).Error; err != nil {
			return fmt.Errorf("failed to create inventory: %w", err)
		}

		orders := seedOrders(driver.ID, customers, products, now)
		for i := range orders {
			if err := tx.Create(&orders[i]).Error; err != nil {
				return fmt.Errorf("failed to create order %s: %w", orders[i].OrderNumber, err)
			}
		}

		routes := seedRoutes(driver.ID, orders, now)
		if err := tx.Create(&routes).Error; err != nil {
			return fmt.Errorf("failed to create routes: %w", err)
		}

		session := &model.RouteSession{
			RouteID:       routes[0].ID,
			DriverID:      driver.ID,
			AssistantName: "María González",
			StartMileage:  decimal.RequireFromString("12450.5"),
			StartedAt:     now,
			Status:        model.ActiveRouteStatus,
		}
		if err := tx.Create(session).Error; err != nil {
			return fmt.Errorf("failed to create route session: %w", err)
		}

		log.WithFields(logrus.Fields{
			"customers": len(customers),
			"products":  len(products),
			"orders":    len(orders),
			"routes":    len(routes),
			"driver":    driver.Name,
		}).Info("Database seeded successfully")

		return nil
	})
}

func seedCustomers() []model.Customer {
	coord := decimal.RequireFromString
	ptr := func(d decimal.Decimal) *decimal.Decimal { return &d }

	return []model.Customer{
		{
			Name:          "Tienda El Progreso",
			Contact:       "María González",
			Phone:         "+57 300 123 4567",
			Email:         "maria@elprogreso.com",
			Address:       "Calle 45 #23-67, Barrio San Pedro",
			Latitude:      ptr(coord("4.6097102")),
			Longitude:     ptr(coord("-74.0817500")),
			Schedule:      "8:00 AM - 12:00 PM",
			CreditDays:    30,
			IsActive:      true,
			WeeklyPattern: model.WeeklyPattern{true, false, true, false, true, false, false},
		},
		{
			Name:          "Supermercado La Esquina",
			Contact:       "Carlos Rodríguez",
			Phone:         "+57 300 234 5678",
			Email:         "carlos@laesquina.com",
			Address:       "Carrera 15 #34-89, Centro",
			Latitude:      ptr(coord("4.6112745")),
			Longitude:     ptr(coord("-74.0807398")),
			Schedule:      "9:00 AM - 1:00 PM",
			CreditDays:    15,
			IsActive:      true,
			WeeklyPattern: model.WeeklyPattern{false, true, false, true, false, true, false},
		},
		{
			Name:          "Distribuidora Norte",
			Contact:       "Ana López",
			Phone:         "+57 300 345 6789",
			Email:         "ana@norte.com",
			Address:       "Avenida 68 #12-34, Zona Industrial",
			Latitude:      ptr(coord("4.6127846")),
			Longitude:     ptr(coord("-74.0798765")),
			Schedule:      "7:00 AM - 11:00 AM",
			CreditDays:    45,
			IsActive:      true,
			WeeklyPattern: model.WeeklyPattern{true, true, false, true, true, false, false},
		},
	}
}

func seedProducts() []model.Product {
	price := decimal.RequireFromString
	return []model.Product{
		{Code: "ACE001", WMSProductCode: "WMS-ACE-001", Name: "Aceite de Cocina Premium 1L", Description: "Aceite de girasol refinado de alta calidad", Category: "aceites", Price: price("8500.00"), Unit: "litros", IsActive: true},
		{Code: "ARR002", WMSProductCode: "WMS-ARR-002", Name: "Arroz Diana 500g", Description: "Arroz blanco de grano largo", Category: "granos", Price: price("3200.00"), Unit: "kilogramos", IsActive: true},
		{Code: "SAL003", WMSProductCode: "WMS-SAL-003", Name: "Sal Refisal 500g", Description: "Sal de mesa refinada yodada", Category: "condimentos", Price: price("1800.00"), Unit: "kilogramos", IsActive: true},
		{Code: "AZU004", WMSProductCode: "WMS-AZU-004", Name: "Azúcar Manuelita 1kg", Description: "Azúcar blanca refinada", Category: "condimentos", Price: price("4500.00"), Unit: "kilogramos", IsActive: true},
		{Code: "FRI005", WMSProductCode: "WMS-FRI-005", Name: "Fríjol Rojo 500g", Description: "Fríjol rojo seco de primera calidad", Category: "granos", Price: price("6200.00"), Unit: "kilogramos", IsActive: true},
	}
}

// seedOrders builds ORD-001..ORD-005: two pending, two delivered, one not delivered.
func seedOrders(driverID uint, customers []model.Customer, products []model.Product, now time.Time) []model.Order {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	statuses := []model.OrderStatus{
		model.PendingOrderStatus,
		model.PendingOrderStatus,
		model.DeliveredOrderStatus,
		model.DeliveredOrderStatus,
		model.NotDeliveredOrderStatus,
	}

	orders := make([]model.Order, len(statuses))
	for i, status := range statuses {
		id := driverID
		order := model.Order{
			OrderNumber:   fmt.Sprintf("ORD-%03d", i+1),
			WMSOrderCode:  fmt.Sprintf("WMS-ORD-%03d", i+1),
			CustomerID:    customers[i%len(customers)].ID,
			DriverID:      &id,
			Status:        status,
			ScheduledDate: startOfDay.Add(time.Duration(8+2*i) * time.Hour),
		}

		numItems := 2 + i%3
		total := decimal.Zero
		for j := 0; j < numItems; j++ {
			product := products[j%len(products)]
			item := model.OrderItem{
				ProductID: product.ID,
				Quantity:  1 + (i+j)%5,
				Price:     product.Price,
			}
			item.TotalAmount = item.LineTotal()
			if status == model.NotDeliveredOrderStatus {
				item.DeliveredQuantity = 0
			} else {
				item.DeliveredQuantity = item.Quantity
			}
			total = total.Add(item.TotalAmount)
			order.Items = append(order.Items, item)
		}

		order.TotalAmount = total
		order.DeliveredAmount = decimal.Zero
		switch status {
		case model.DeliveredOrderStatus:
			deliveredAt := now
			order.DeliveredAt = &deliveredAt
			order.DeliveredAmount = total
		case model.NotDeliveredOrderStatus:
			order.NonDeliveryReason = "Cliente cerrado"
		}

		orders[i] = order
	}

	return orders
}

func seedRoutes(driverID uint, orders []model.Order, now time.Time) []model.Route {
	orderRef := func(i int) *uint {
		id := orders[i].ID
		return &id
	}
	northDistance := decimal.RequireFromString("12.5")
	southDistance := decimal.RequireFromString("18.3")
	northEstimate, southEstimate, southActual := 240, 300, 285

	return []model.Route{
		{
			DriverID:      driverID,
			Name:          "Ruta Norte - Zona Comercial",
			Date:          now,
			Status:        model.ActiveRouteStatus,
			TotalDistance: &northDistance,
			EstimatedTime: &northEstimate,
			Waypoints: []model.Waypoint{
				{Lat: 4.6097102, Lng: -74.0817500, OrderID: orderRef(0)},
				{Lat: 4.6112745, Lng: -74.0807398, OrderID: orderRef(1)},
				{Lat: 4.6127846, Lng: -74.0798765, OrderID: orderRef(2)},
			},
		},
		{
			DriverID:      driverID,
			Name:          "Ruta Sur - Zona Industrial",
			Date:          now.Add(24 * time.Hour),
			Status:        model.CompletedRouteStatus,
			TotalDistance: &southDistance,
			EstimatedTime: &southEstimate,
			ActualTime:    &southActual,
			Waypoints: []model.Waypoint{
				{Lat: 4.5897102, Lng: -74.0917500},
				{Lat: 4.5812745, Lng: -74.0907398},
			},
		},
	}
}
