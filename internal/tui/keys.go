package tui

// ViewState is the screen the interactive model is showing.
type ViewState int

const (
	// ViewStateLoading is shown until the first load completes.
	ViewStateLoading ViewState = iota
	// ViewStateList shows the course table.
	ViewStateList
	// ViewStateDetail shows every field of one course.
	ViewStateDetail
	// ViewStateQuitting is entered just before the program exits.
	ViewStateQuitting
)

// Key names as reported by tea.KeyMsg.String().
const (
	keyQuit      = "q"
	keyCtrlC     = "ctrl+c"
	keyEnter     = "enter"
	keyEsc       = "esc"
	keyBackspace = "backspace"
	keySlash     = "/"
	keyCategory  = "c"
	keyStatus    = "s"
	keyNext      = "n"
	keyPrev      = "p"
	keyPgDown    = "pgdown"
	keyPgUp      = "pgup"
	keyFirst     = "g"
	keyLast      = "G"
	keyTab       = "tab"
)

// Layout defaults used before the first tea.WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 24

	// chromeHeight is the number of lines around the table: header, filter
	// bar, status line, help line and spacing.
	chromeHeight = 8

	maxColumnWidth = 40
	minTableHeight = 3
)
