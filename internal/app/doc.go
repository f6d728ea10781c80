// Package app is the composition root for shelf.
//
// # Overview
//
// Open loads config.toml and prefs.toml, opens the log file and the bbolt
// credential store, builds the localizer and wires one libcommon.Client with
// a library.Client on top. Every subcommand works through the resulting Env:
//
//   - Login / Logout: write or clear the token and user-info slots
//   - WhoAmI: inspect the stored JWT and confirm it with /auth/me
//   - Upload: send a file to /files/upload
//   - RunUI: start the Poller and block in the TUI
//
// # Data Flow
//
//	┌──────────────┐
//	│   Open()     │ config, prefs, log, credentials, l10n
//	└──────┬───────┘
//	       │
//	       ├─────> libcommon.NewHTTPClient()  Navigator = reload signal
//	       ├─────> library.NewClient()
//	       └─────> RunUI()
//	                 ├─> Poller.Start()       background refresh
//	                 └─> ui.Run()             blocks until quit
//
//	Poller loop:
//	┌──────────────────────────────────────────────┐
//	│ wait for timer, Wake or Reloads              │
//	│  ├─> books + announcements        always     │
//	│  ├─> user, loans, notifications   with token │
//	│  └─> store.Update()                          │
//	└──────────────────────────────────────────────┘
//
// # Session Expiry
//
// When any request comes back 401 the client clears both credential slots
// and calls the Navigator, which fires the reload signal. The poller then
// marks the store's session as expired and refreshes again without a token,
// so the catalog stays visible while personal views ask for a new login.
//
// # Polling Behavior
//
// The default interval is five seconds. Consecutive failures double the
// wait up to 30 seconds; the next success resets it. A 401 during a poll is
// not counted as a failure. The UI's Refresh hook wakes the poller at once
// after a borrow, renewal or mark-read.
//
// # Usage Example
//
//	env, err := app.Open(app.Options{Language: "zh-Hans"})
//	if err != nil {
//		return err
//	}
//	defer env.Close()
//
//	user, err := env.Login(ctx, "reader", password)
package app
