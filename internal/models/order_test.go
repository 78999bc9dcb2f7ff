package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		role Role
		want bool
	}{
		{"seller starts work", OrderStatusPending, OrderStatusInProgress, RoleSeller, true},
		{"buyer cannot start work", OrderStatusPending, OrderStatusInProgress, RoleBuyer, false},
		{"buyer cancels pending", OrderStatusPending, OrderStatusCancelled, RoleBuyer, true},
		{"seller cancels pending", OrderStatusPending, OrderStatusCancelled, RoleSeller, true},
		{"seller delivers", OrderStatusInProgress, OrderStatusDelivered, RoleSeller, true},
		{"buyer cannot deliver", OrderStatusInProgress, OrderStatusDelivered, RoleBuyer, false},
		{"buyer completes delivery", OrderStatusDelivered, OrderStatusCompleted, RoleBuyer, true},
		{"seller cannot complete", OrderStatusDelivered, OrderStatusCompleted, RoleSeller, false},
		{"buyer requests revision", OrderStatusDelivered, OrderStatusInProgress, RoleBuyer, true},
		{"seller skips to completed", OrderStatusPending, OrderStatusCompleted, RoleSeller, false},
		{"buyer skips to completed", OrderStatusPending, OrderStatusCompleted, RoleBuyer, false},
		{"completed is terminal", OrderStatusCompleted, OrderStatusPending, RoleSeller, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusInProgress, RoleSeller, false},
		{"same status", OrderStatusPending, OrderStatusPending, RoleSeller, false},
		{"stranger", OrderStatusPending, OrderStatusCancelled, RoleNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to, tt.role))
		})
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, from := range OrderStatuses {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range OrderStatuses {
			for _, role := range []Role{RoleBuyer, RoleSeller} {
				assert.False(t, CanTransition(from, to, role), "%s -> %s by %s", from, to, role)
			}
		}
	}
}

func TestOrderStatusIsValid(t *testing.T) {
	assert.True(t, OrderStatusInProgress.IsValid())
	assert.False(t, OrderStatus("shipped").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderRoleOf(t *testing.T) {
	buyer, seller, stranger := uuid.New(), uuid.New(), uuid.New()
	order := &Order{BuyerID: buyer}

	assert.Equal(t, RoleBuyer, order.RoleOf(buyer, seller))
	assert.Equal(t, RoleSeller, order.RoleOf(seller, seller))
	assert.Equal(t, RoleNone, order.RoleOf(stranger, seller))
}
