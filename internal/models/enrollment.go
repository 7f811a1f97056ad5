package models

import "time"

const (
	EnrollmentActive   = "active"
	EnrollmentPaid     = "paid"
	EnrollmentEnrolled = "enrolled"
)

// Enrollment links a student to a test series. Established by the external
// enrollment/payment flow; this service only reads them.
type Enrollment struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	StudentID  string    `bson:"student_id" json:"student_id"`
	SeriesID   string    `bson:"series_id" json:"series_id"`
	Status     string    `bson:"status" json:"status"`
	EnrolledAt time.Time `bson:"enrolled_at" json:"enrolled_at"`
}

// CountsAsEnrolled reports whether this enrollment qualifies the student
// for access rules governing its series.
func (e *Enrollment) CountsAsEnrolled() bool {
	switch e.Status {
	case EnrollmentActive, EnrollmentPaid, EnrollmentEnrolled:
		return true
	}
	return false
}
