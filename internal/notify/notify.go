// Package notify delivers in-app notifications to user inboxes.
//
// Dispatch is best-effort and strictly post-commit: engines call it only
// after their primary transaction has committed, and a failed insert is
// logged, never surfaced. A lost notification must not roll back or fail a
// moderation transition that has already happened.
package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Standard notification titles.
const (
	TitleReportOutcome  = "Outcome of your report"
	TitleSuspendWarning = "Your restaurant has been temporarily suspended"
	TitleEditApproved   = "Your request has been approved"
	TitleEditRejected   = "Your request has been rejected"
)

// InboxWriter is the persistence surface the dispatcher needs.
type InboxWriter interface {
	InsertNotification(ctx context.Context, userID uuid.UUID, title, message string) error
}

// Dispatcher writes notifications to user inboxes.
type Dispatcher struct {
	db InboxWriter
}

// NewDispatcher creates a notification dispatcher.
func NewDispatcher(db InboxWriter) *Dispatcher {
	return &Dispatcher{db: db}
}

// Send inserts one notification row. At-most-once: on failure it logs and
// returns, leaving the caller's result untouched.
func (n *Dispatcher) Send(ctx context.Context, userID uuid.UUID, title, message string) {
	if err := n.db.InsertNotification(ctx, userID, title, message); err != nil {
		slog.Error("failed to send notification", "user_id", userID, "title", title, "error", err)
	}
}

// NotifyReporter tells a reporter the outcome of their complaint.
// A nil reporter (anonymous complaint) is a no-op.
func (n *Dispatcher) NotifyReporter(ctx context.Context, reporterID *uuid.UUID, message string) {
	if reporterID == nil {
		return
	}
	n.Send(ctx, *reporterID, TitleReportOutcome, message)
}

// WarnOwner warns a restaurant owner about a suspension. Both the owner and
// the warning text are optional: ownerless restaurants and empty warnings
// produce no notification.
func (n *Dispatcher) WarnOwner(ctx context.Context, ownerID *uuid.UUID, warning string) {
	if ownerID == nil || warning == "" {
		return
	}
	n.Send(ctx, *ownerID, TitleSuspendWarning, warning)
}

// NotifyEditApproved tells a submitter their edit request was approved.
func (n *Dispatcher) NotifyEditApproved(ctx context.Context, submitterID uuid.UUID, requestTitle string) {
	n.Send(ctx, submitterID, TitleEditApproved, requestTitle+" was approved.")
}

// NotifyEditRejected tells a submitter their edit request was rejected,
// including the reviewer's reason.
func (n *Dispatcher) NotifyEditRejected(ctx context.Context, submitterID uuid.UUID, requestTitle, reason string) {
	n.Send(ctx, submitterID, TitleEditRejected, requestTitle+" was rejected: "+reason)
}
