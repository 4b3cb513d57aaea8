package jobs

import (
	"context"
	"log"
	"time"

	"github.com/hsinyu-lin/classroom_booking/store"
)

const DefaultRetentionDays = 180

// SweepExpiredReservations returns a cron-callable that bulk-deletes
// reservations dated further in the past than the retention window. This is
// the only path that ever removes reservations outside of test housekeeping.
func SweepExpiredReservations(st store.Store, retentionDays int) func() {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return func() {
		log.Println("Running job: SweepExpiredReservations...")

		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		deleted, err := st.DeleteReservationsBefore(context.Background(), cutoff)
		if err != nil {
			log.Printf("Error sweeping expired reservations: %v", err)
			return
		}
		if deleted == 0 {
			log.Println("No expired reservations found.")
			return
		}
		log.Printf("Deleted %d expired reservation(s).", deleted)
	}
}
