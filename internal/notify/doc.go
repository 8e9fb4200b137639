// Package notify delivers operator and manager notifications.
//
// Delivery is fire-and-forget: a Sink fans a message out to every configured sender and
// only logs failures, so a broken mail relay never fails a sync pass.
package notify
