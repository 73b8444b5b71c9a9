package jobs

import (
	"context"
	"fmt"
	"time"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/logger"
)

// NotifyOverdueRequests notifies borrowers whose approved requests are
// past their expected return date. Each request is marked late before
// its notice goes out, so the next run skips it. The job never raises
// penalties by itself: lateness fines are the inspecting admin's call
// at return time.
func (jr *JobRunner) NotifyOverdueRequests() {
	jr.runWithRecovery("NotifyOverdueRequests", func() {
		ctx := context.Background()
		requests := jr.store.Repos().Requests

		overdue, err := requests.ListOverdue(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to list overdue requests", "error", err)
			return
		}

		notified := 0
		for _, request := range overdue {
			marked, err := requests.MarkLate(ctx, request.ID)
			if err != nil {
				logger.Error("Failed to mark request late", "request_id", request.ID, "error", err)
				continue
			}
			if !marked {
				continue
			}

			requestID := request.ID
			jr.services.Notifier.Dispatch(ctx, request.RequestedBy,
				domain.NotificationKindReturnOverdue,
				"Equipment return overdue",
				fmt.Sprintf("Your borrow request #%d was due back on %s. Please return the equipment as soon as possible.",
					request.ID, request.ExpectReturnDate.Format("2006-01-02")),
				&requestID)
			notified++
		}

		logger.Info("Notified overdue requests", "count", notified)
	})
}

// PurgeExpiredEvidence removes evidence image records that were never
// confirmed before their upload window expired.
func (jr *JobRunner) PurgeExpiredEvidence() {
	jr.runWithRecovery("PurgeExpiredEvidence", func() {
		ctx := context.Background()

		deleted, err := jr.store.Repos().Evidence.DeleteExpiredPending(ctx)
		if err != nil {
			logger.Error("Failed to purge expired evidence", "error", err)
			return
		}
		logger.Info("Purged expired evidence records", "count", deleted)
	})
}
