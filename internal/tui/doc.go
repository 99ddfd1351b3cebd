// Package tui implements the interactive course browser.
//
// CourseModel is a Bubble Tea model that renders the snapshots published by a
// view controller and translates key presses into controller events: filter
// edits, page changes and the initial load. It never talks to the API itself.
package tui
