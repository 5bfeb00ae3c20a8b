package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	itemTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodcourt_order_item_transitions_total",
		Help: "Order item status transitions by new status.",
	}, []string{"status"})

	orderConvergences = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodcourt_order_convergences_total",
		Help: "Order status changes caused by all items converging.",
	}, []string{"status"})

	permissionDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodcourt_permission_denials_total",
		Help: "Capability checks that were denied.",
	}, []string{"capability"})

	ordersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodcourt_orders_placed_total",
		Help: "Orders placed by customers.",
	})
)
