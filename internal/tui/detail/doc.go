// Package detail renders the detail pane of the interactive course browser.
//
// The pane lists every field of the selected course as a name/value line in a
// scrolling listview, so records with many fields stay navigable on small
// terminals. It is read-only: the record comes from the last published page
// and nothing is fetched when the pane opens.
package detail
