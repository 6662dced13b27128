package jobs

import (
	"log"

	"github.com/anjiri1684/neighborhood_hub/database"
	"github.com/anjiri1684/neighborhood_hub/metrics"
	"github.com/anjiri1684/neighborhood_hub/services"
)

func ReconcileRatings() {
	log.Println("Running job: ReconcileRatings...")
	err := services.ReconcileRatings(database.DB)
	metrics.RecordJobRun("rating_reconcile", err == nil)
	if err != nil {
		log.Printf("Error reconciling ratings: %v", err)
	}
}
