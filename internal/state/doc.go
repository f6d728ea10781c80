// Package state holds the latest poll of the library API.
//
// The poller is the only writer; the UI reads copies through Snapshot on its
// own tick. A failed poll keeps the previous data and records the error, so
// the screen never goes blank during an outage. Two failures in a row mark
// the snapshot offline.
//
// MarkSessionExpired drops the user and everything personal (loans,
// notifications, unread count) while leaving the catalog and announcements
// in place. The flag clears on the next poll that identifies a user.
//
// The zero Store is ready to use.
package state
