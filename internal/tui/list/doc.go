// Package listview provides a scrolling list component for Bubble Tea.
//
// Only the rows inside the viewport are rendered, and the viewport follows the
// cursor with the smallest scroll that keeps it visible. Navigation keys are
// configurable through KeyMap.
package listview
