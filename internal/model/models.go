package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Base model fields shared by all models
type Base struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Role defines the role of a user
type Role string

const (
	// DriverRole represents a route driver
	DriverRole Role = "driver"
	// AdminRole represents a back-office user
	AdminRole Role = "admin"
)

// User represents a driver or back-office account
type User struct {
	Base
	Username     string `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email        string `json:"email" gorm:"size:100;uniqueIndex;not null"`
	Name         string `json:"name" gorm:"size:100;not null"`
	Role         Role   `json:"role" gorm:"size:20;not null;default:driver"`
	IsActive     bool   `json:"isActive" gorm:"not null;default:true"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
}

// WeeklyPattern marks the visit days of a customer, Monday first
type WeeklyPattern = datatypes.JSONSlice[bool]

// Customer represents a delivery destination
type Customer struct {
	Base
	Name          string           `json:"name" gorm:"size:200;not null"`
	Contact       string           `json:"contact,omitempty" gorm:"size:100"`
	Phone         string           `json:"phone,omitempty" gorm:"size:20"`
	Email         string           `json:"email,omitempty" gorm:"size:100"`
	Address       string           `json:"address" gorm:"type:text;not null"`
	Latitude      *decimal.Decimal `json:"latitude" gorm:"type:numeric(10,8)"`
	Longitude     *decimal.Decimal `json:"longitude" gorm:"type:numeric(11,8)"`
	Schedule      string           `json:"schedule,omitempty" gorm:"size:100"`
	CreditDays    int              `json:"creditDays" gorm:"not null;default:0"`
	LastVisit     *time.Time       `json:"lastVisit"`
	IsActive      bool             `json:"isActive" gorm:"not null;default:true"`
	WeeklyPattern WeeklyPattern    `json:"weeklyPattern"`
}

// Product represents a catalog entry
type Product struct {
	Base
	Code           string          `json:"code" gorm:"size:50;uniqueIndex;not null"`
	WMSProductCode string          `json:"wmsProductCode,omitempty" gorm:"column:wms_product_code;size:50"`
	Name           string          `json:"name" gorm:"size:200;not null"`
	Description    string          `json:"description,omitempty" gorm:"type:text"`
	Category       string          `json:"category,omitempty" gorm:"size:100"`
	Price          decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Unit           string          `json:"unit" gorm:"size:20;not null;default:units"`
	IsActive       bool            `json:"isActive" gorm:"not null;default:true"`
}

// OrderStatus defines the delivery status of an order
type OrderStatus string

const (
	// PendingOrderStatus represents an order waiting for delivery
	PendingOrderStatus OrderStatus = "pending"
	// InProgressOrderStatus represents an order being delivered
	InProgressOrderStatus OrderStatus = "in_progress"
	// DeliveredOrderStatus represents a delivered order
	DeliveredOrderStatus OrderStatus = "delivered"
	// NotDeliveredOrderStatus represents an order that could not be delivered
	NotDeliveredOrderStatus OrderStatus = "not_delivered"
)

// OrderStatuses lists every order status
var OrderStatuses = []OrderStatus{
	PendingOrderStatus,
	InProgressOrderStatus,
	DeliveredOrderStatus,
	NotDeliveredOrderStatus,
}

// String returns the string representation of the status
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no transition leaves the status
func (s OrderStatus) IsTerminal() bool {
	return s == DeliveredOrderStatus || s == NotDeliveredOrderStatus
}

// OrderStatusFromString parses an order status
func OrderStatusFromString(s string) (OrderStatus, bool) {
	for _, status := range OrderStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// Order represents one delivery obligation for a customer
type Order struct {
	Base
	OrderNumber       string           `json:"orderNumber" gorm:"size:50;uniqueIndex;not null"`
	WMSOrderCode      string           `json:"wmsOrderCode,omitempty" gorm:"column:wms_order_code;size:50"`
	CustomerID        uint             `json:"customerId" gorm:"not null;index"`
	Customer          *Customer        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	DriverID          *uint            `json:"driverId" gorm:"index"`
	Status            OrderStatus      `json:"status" gorm:"size:20;not null;default:pending;index"`
	TotalAmount       decimal.Decimal  `json:"totalAmount" gorm:"type:numeric(12,2);not null"`
	DeliveredAmount   decimal.Decimal  `json:"deliveredAmount" gorm:"type:numeric(12,2);not null;default:0"`
	ScheduledDate     time.Time        `json:"scheduledDate" gorm:"not null;index"`
	DeliveredAt       *time.Time       `json:"deliveredAt"`
	Notes             string           `json:"notes,omitempty" gorm:"type:text"`
	NonDeliveryReason string           `json:"nonDeliveryReason,omitempty" gorm:"size:200"`
	SignatureData     string           `json:"signatureData,omitempty" gorm:"type:text"`
	PhotoURL          string           `json:"photoUrl,omitempty" gorm:"column:photo_url;size:500"`
	GPSLatitude       *decimal.Decimal `json:"gpsLatitude" gorm:"column:gps_latitude;type:numeric(10,8)"`
	GPSLongitude      *decimal.Decimal `json:"gpsLongitude" gorm:"column:gps_longitude;type:numeric(11,8)"`
	Items             []OrderItem      `json:"items" gorm:"foreignKey:OrderID"`
}

// OrderItem represents one product line of an order
type OrderItem struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	OrderID           uint            `json:"orderId" gorm:"not null;index"`
	ProductID         uint            `json:"productId" gorm:"not null;index"`
	Product           *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity          int             `json:"quantity" gorm:"not null"`
	DeliveredQuantity int             `json:"deliveredQuantity" gorm:"not null;default:0"`
	Price             decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	TotalAmount       decimal.Decimal `json:"totalAmount" gorm:"type:numeric(12,2);not null"`
	PartialReason     string          `json:"partialReason,omitempty" gorm:"size:200"`
}

// LineTotal returns price times quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// DeliveredTotal returns price times delivered quantity
func (i OrderItem) DeliveredTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.DeliveredQuantity)))
}

// Inventory tracks the stock of one product on one driver's vehicle
type Inventory struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ProductID        uint      `json:"productId" gorm:"not null;uniqueIndex:idx_inventory_product_driver"`
	Product          *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	DriverID         uint      `json:"driverId" gorm:"not null;uniqueIndex:idx_inventory_product_driver;index"`
	Quantity         int       `json:"quantity" gorm:"not null;default:0"`
	ReservedQuantity int       `json:"reservedQuantity" gorm:"not null;default:0"`
	LastUpdated      time.Time `json:"lastUpdated" gorm:"not null"`
}

// TableName keeps the inventory table singular
func (Inventory) TableName() string {
	return "inventory"
}

// RouteStatus defines the status of a route or route session
type RouteStatus string

const (
	// ActiveRouteStatus represents a route or session in progress
	ActiveRouteStatus RouteStatus = "active"
	// CompletedRouteStatus represents a finished route or session
	CompletedRouteStatus RouteStatus = "completed"
)

// String returns the string representation of the status
func (s RouteStatus) String() string {
	return string(s)
}

// Waypoint is one stop of a route
type Waypoint struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	OrderID *uint   `json:"orderId,omitempty"`
}

// Route represents a named, dated set of waypoints assigned to a driver
type Route struct {
	Base
	DriverID      uint                         `json:"driverId" gorm:"not null;index"`
	Name          string                       `json:"name" gorm:"size:100;not null"`
	Date          time.Time                    `json:"date" gorm:"not null"`
	Status        RouteStatus                  `json:"status" gorm:"size:20;not null;default:active"`
	TotalDistance *decimal.Decimal             `json:"totalDistance" gorm:"type:numeric(8,2)"`
	EstimatedTime *int                         `json:"estimatedTime"`
	ActualTime    *int                         `json:"actualTime"`
	Waypoints     datatypes.JSONSlice[Waypoint] `json:"waypoints"`
}

// RouteSession represents one working day of a driver on a route
type RouteSession struct {
	Base
	RouteID       uint             `json:"routeId" gorm:"not null;index"`
	DriverID      uint             `json:"driverId" gorm:"not null;index;uniqueIndex:idx_route_sessions_active_driver,where:status = 'active'"`
	AssistantName string           `json:"assistantName,omitempty" gorm:"size:100"`
	StartMileage  decimal.Decimal  `json:"startMileage" gorm:"type:numeric(10,1);not null"`
	EndMileage    *decimal.Decimal `json:"endMileage" gorm:"type:numeric(10,1)"`
	StartedAt     time.Time        `json:"startedAt" gorm:"not null"`
	CompletedAt   *time.Time       `json:"completedAt"`
	Status        RouteStatus      `json:"status" gorm:"size:20;not null;default:active;index"`
}

// ReturnChannel defines where returned inventory goes
type ReturnChannel string

const (
	// WarehouseReturnChannel returns goods to the local warehouse
	WarehouseReturnChannel ReturnChannel = "warehouse"
	// WMSReturnChannel returns goods through the warehouse management system
	WMSReturnChannel ReturnChannel = "wms"
)

// ReturnedItem is one line of inventory returned at the end of the day
type ReturnedItem struct {
	ProductID uint          `json:"productId"`
	Quantity  int           `json:"quantity"`
	Reason    string        `json:"reason,omitempty"`
	WMSCode   string        `json:"wmsCode,omitempty"`
	Channel   ReturnChannel `json:"channel"`
}

// DailyReport is the Z-closeout produced when a route session ends
type DailyReport struct {
	Base
	SessionID         uint                              `json:"sessionId" gorm:"not null;uniqueIndex"`
	DriverID          uint                              `json:"driverId" gorm:"not null;index"`
	Date              time.Time                         `json:"date" gorm:"not null;index"`
	Observations      string                            `json:"observations,omitempty" gorm:"type:text"`
	TotalDelivered    int                               `json:"totalDelivered" gorm:"not null;default:0"`
	TotalNotDelivered int                               `json:"totalNotDelivered" gorm:"not null;default:0"`
	TotalCollected    decimal.Decimal                   `json:"totalCollected" gorm:"type:numeric(12,2);not null;default:0"`
	InventoryReturned datatypes.JSONSlice[ReturnedItem] `json:"inventoryReturned"`
	PublishedAt       *time.Time                        `json:"publishedAt" gorm:"index"`
}
