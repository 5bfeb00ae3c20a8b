package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/foodcourt-app/models"
	"github.com/yeremiapane/foodcourt-app/services"
)

func TestPermissionResolver_Can(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		actor      services.Actor
		foodcourt  uint
		capability services.Capability
		want       bool
	}{
		{"admin on any foodcourt", actorOf(f.admin), f.fcA.ID, services.CapabilityUpdateOrders, true},
		{"admin manage owners", actorOf(f.admin), f.fcB.ID, services.CapabilityManageOwners, true},
		{"direct owner without permission row", actorOf(f.ownerA), f.fcA.ID, services.CapabilityUpdateOrders, true},
		{"direct owner edit menu", actorOf(f.ownerA), f.fcA.ID, services.CapabilityEditMenu, true},
		{"owner with granted row", actorOf(f.ownerB), f.fcB.ID, services.CapabilityViewOrders, true},
		{"staff granted view", actorOf(f.staff), f.fcA.ID, services.CapabilityViewOrders, true},
		{"staff denied update", actorOf(f.staff), f.fcA.ID, services.CapabilityUpdateOrders, false},
		{"staff denied edit menu", actorOf(f.staff), f.fcA.ID, services.CapabilityEditMenu, false},
		{"outsider without row", actorOf(f.outsider), f.fcA.ID, services.CapabilityViewOrders, false},
		{"owner of another foodcourt", actorOf(f.ownerB), f.fcA.ID, services.CapabilityViewOrders, false},
		{"anonymous", services.Actor{}, f.fcA.ID, services.CapabilityViewOrders, false},
		{"manage owners is never granted by a row", actorOf(f.ownerB), f.fcB.ID, services.CapabilityManageOwners, false},
		{"direct owner cannot manage owners", actorOf(f.ownerA), f.fcA.ID, services.CapabilityManageOwners, false},
		{"unknown capability", actorOf(f.ownerA), f.fcA.ID, services.Capability("delete_everything"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.resolver.Can(ctx, tt.actor, tt.foodcourt, tt.capability)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPermissionResolver_UserIDMatchingForeignFoodcourtID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// ownerA's user id equals fcB's id; ids from different tables must never be compared
	require.Equal(t, f.ownerA.ID, f.fcB.ID)

	ok, err := f.resolver.Can(ctx, actorOf(f.ownerA), f.fcB.ID, services.CapabilityViewOrders)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPermissionResolver_MissingFoodcourt(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolver.Can(context.Background(), actorOf(f.admin), 999, services.CapabilityViewOrders)
	assert.ErrorIs(t, err, services.ErrFoodcourtNotFound)
}

func TestPermissionResolver_RequireReturnsForbidden(t *testing.T) {
	f := newFixture(t)

	err := f.resolver.Require(context.Background(), actorOf(f.staff), f.fcA.ID, services.CapabilityUpdateOrders)
	require.Error(t, err)

	var forbidden *services.ForbiddenError
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, services.CapabilityUpdateOrders, forbidden.Capability)
	assert.Equal(t, "You don't have permission to update orders for this foodcourt", err.Error())
}

func TestPermissionResolver_NeverWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before := f.count(t, &models.OwnerPermission{}, "")
	for i := 0; i < 3; i++ {
		_ = f.resolver.Require(ctx, actorOf(f.outsider), f.fcA.ID, services.CapabilityEditMenu)
	}
	assert.Equal(t, before, f.count(t, &models.OwnerPermission{}, ""))
	assert.Zero(t, f.count(t, &models.PermissionHistory{}, ""))
}
