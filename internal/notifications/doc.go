// Package notifications renders per-recipient meeting emails and dispatches
// them through a pluggable Mailer.
//
// DispatchAll walks a delivery plan in order, sending one message per bundle
// and recording every outcome. A failed send never stops the loop, so the
// report always accounts for each bundle exactly once.
//
// NewMailer picks the transport named by mail.transport: Gmail, SMTP, or the
// on-disk outbox. The "none" transport disables sending entirely.
package notifications
