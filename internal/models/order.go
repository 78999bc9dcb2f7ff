// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is a buyer's purchase of a gig. Price and CommissionFee are
// snapshotted at creation and never recomputed.
type Order struct {
	BaseModel
	GigID         uuid.UUID   `json:"gigId" gorm:"type:uuid;not null;index"`
	BuyerID       uuid.UUID   `json:"buyerId" gorm:"type:uuid;not null;index"`
	Price         int64       `json:"price" gorm:"not null"`
	CommissionFee int64       `json:"commissionFee" gorm:"not null;default:0"`
	Status        OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Requirements  string      `json:"requirements,omitempty" gorm:"type:text"`

	Gig   *Gig  `json:"-" gorm:"foreignKey:GigID"`
	Buyer *User `json:"-" gorm:"foreignKey:BuyerID"`
}

type Message struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID   uuid.UUID `json:"orderId" gorm:"type:uuid;not null;index:idx_messages_order_created,priority:1"`
	SenderID  uuid.UUID `json:"senderId" gorm:"type:uuid;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_messages_order_created,priority:2"`

	Order  *Order `json:"-" gorm:"foreignKey:OrderID"`
	Sender *User  `json:"-" gorm:"foreignKey:SenderID"`
}

// RoleOf reports how userID relates to the order, given the seller of the
// order's gig.
func (o *Order) RoleOf(userID, sellerID uuid.UUID) Role {
	switch userID {
	case o.BuyerID:
		return RoleBuyer
	case sellerID:
		return RoleSeller
	default:
		return RoleNone
	}
}

type transition struct {
	from OrderStatus
	to   OrderStatus
}

// orderTransitions maps each allowed (from, to) pair to the roles that may
// request it. Anything absent is rejected.
var orderTransitions = map[transition][]Role{
	{OrderStatusPending, OrderStatusInProgress}:   {RoleSeller},
	{OrderStatusPending, OrderStatusCancelled}:    {RoleBuyer, RoleSeller},
	{OrderStatusInProgress, OrderStatusDelivered}: {RoleSeller},
	{OrderStatusInProgress, OrderStatusCancelled}: {RoleBuyer, RoleSeller},
	{OrderStatusDelivered, OrderStatusCompleted}:  {RoleBuyer},
	{OrderStatusDelivered, OrderStatusInProgress}: {RoleBuyer},
}

// CanTransition reports whether a caller with the given role may move an
// order from one status to another.
func CanTransition(from, to OrderStatus, role Role) bool {
	if role == RoleNone {
		return false
	}
	for _, allowed := range orderTransitions[transition{from, to}] {
		if allowed == role {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions leave the status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}
