package types

// Client -> Server
// OpenSettings: {}
//
// SaveSettings (sent on every toggle of the settings screen):
//   config: { boxCount: 3|4|6|9|12, selectedLetters: string[], letterCase: "uppercase"|"lowercase" }
//
// CancelSettings: {}
//
// StartGame:
//   config?: same shape as SaveSettings, only read on the settings screen
//
// SelectBox:
//   box_id: number
//
// NextBox: {}
//
// PlayAgain: {}
//
// GoHome: {}

// Server -> Client
// StateSnapshot: see snapshot.go
//
// Error (bad json, unknown type, or a command the session refused;
// only the sender receives it):
//   error: string
