package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	NotificationsCreated prometheus.Counter
	NotificationsAged    prometheus.Counter
	NotificationsDeleted prometheus.Counter
	HistoryEntries       prometheus.Counter
	EmployeesTerminated  prometheus.Counter
	LeaseConflicts       prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		NotificationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kadry_notifications_created_total",
			Help: "Expiry notifications created by reconciliation",
		}),
		NotificationsAged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kadry_notifications_aged_total",
			Help: "Notifications whose days_left was decremented by the daily aging job",
		}),
		NotificationsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kadry_notifications_deleted_total",
			Help: "Notifications deleted (aged out, renewed, out of window or employee terminated)",
		}),
		HistoryEntries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kadry_history_entries_total",
			Help: "Field-level change ledger entries appended",
		}),
		EmployeesTerminated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kadry_employees_terminated_total",
			Help: "Employees flipped to terminated by the daily status sweep",
		}),
		LeaseConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kadry_edit_lease_conflicts_total",
			Help: "Edit lease acquisitions rejected because another editor holds the lock",
		}),
	}
}
