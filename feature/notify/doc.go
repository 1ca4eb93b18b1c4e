// Package notify turns detected changes into outbound notifications.
//
// The monitor hands each unit's changes to Record inside the same transaction
// that persists the new unit state, so a stored state change and its
// notification row commit or roll back together. The message text is rendered
// at that moment and stored; later delivery attempts send the stored text
// verbatim.
//
// Delivery is decoupled and at-least-once: DeliverPending posts pending rows
// to the configured webhook and stamps delivered_at only after the channel
// accepts the message. With no webhook configured, rows simply accumulate as
// an auditable change log.
package notify
