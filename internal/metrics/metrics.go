package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuizzesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mockquiz_quizzes_created_total",
		Help: "Number of mock quizzes committed successfully.",
	})

	QuotaRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mockquiz_quota_rejections_total",
		Help: "Number of quiz creation attempts rejected by the usage quota.",
	})

	EnrollmentRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mockquiz_enrollment_rejections_total",
		Help: "Number of quiz creation attempts rejected for missing enrollment.",
	})

	SelectionShortfalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mockquiz_selection_shortfalls_total",
		Help: "Number of quizzes built with fewer questions than requested.",
	})

	CommitConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mockquiz_commit_conflicts_total",
		Help: "Number of quiz commit transactions aborted by write conflicts.",
	})
)
