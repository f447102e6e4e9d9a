package model

// Package model defines domain data structures used across the app: the
// download task, the remux task, and status enums. Structures carry explicit
// state transitions and are rendered directly by the terminal UI.
