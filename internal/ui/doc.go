// Package ui provides the Bubble Tea terminal interface for shelf.
//
// # Views
//
//   - Catalog: the first page of books with availability, filterable by
//     title, author, ISBN or category
//   - My Loans: active and returned loans with due dates and renewals
//   - Notifications: messages for the signed-in reader, unread first
//   - Announcements: the latest library announcements, pinned ones marked
//
// Wide terminals show a detail pane next to the list. Below
// LayoutCompactWidth only the list is drawn.
//
// # Data Flow
//
//  1. app.Poller writes snapshots into state.Store
//  2. A tick every PollTick copies the latest snapshot into the Model
//  3. Key presses run Actions off the event loop and report back with
//     actionResultMsg
//  4. A successful action calls Refresh so the poller fetches again at once
//
// # Covers
//
// The selected book's cover is probed with CoverProbe. A cover that is
// missing or fails to load is swapped for the configured placeholder through
// libcommon.Placeholders.HandleImgError, once per book.
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:   ctx,
//		Store:     store,
//		Actions:   libraryClient,
//		Refresh:   wake.Notify,
//		ThemeName: prefs.Theme,
//	})
package ui
