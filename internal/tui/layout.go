package tui

// Screen geometry. The card is drawn at a computed offset instead of being
// centered by lipgloss so that mouse hit-testing uses the exact same numbers.
const (
	maxCardWidth = 56
	minCardWidth = 32
	buttonGap    = 2

	// Row heights in the full layout.
	titleRows   = 2 // title and subtitle
	buttonRows  = 3 // bordered button
	clockPad    = 1
	spacerRows  = 1
	shortHelpHt = 1
)

// rect is a screen region in cells.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// screenLayout positions every part of the card on screen.
type screenLayout struct {
	compact bool

	left, top     int
	width, height int

	titleHeight  int
	buttonHeight int
	clockHeight  int
	helpHeight   int

	focusButton  rect
	restButton   rect
	clockBox     rect
	progressRow  int
	toggleButton rect
	helpRow      int
}

// cardHeight returns the total rows for the given section heights:
// title, spacer, buttons, spacer, clock, spacer, progress, spacer,
// toggle, spacer, help.
func cardHeight(title, button, clock, help int) int {
	return title + spacerRows + button + spacerRows + clock + spacerRows + 1 + spacerRows + button + spacerRows + help
}

// computeLayout places the card for a width x height terminal. It prefers
// the full layout with block digits and bordered buttons, falls back to a
// compact one, and reports false when not even that fits.
func computeLayout(width, height int, fullHelp bool) (screenLayout, bool) {
	if width < minCardWidth {
		return screenLayout{}, false
	}

	helpHeight := shortHelpHt
	if fullHelp {
		helpHeight = fullHelpHeight
	}

	l := screenLayout{
		width:        min(maxCardWidth, width),
		titleHeight:  titleRows,
		buttonHeight: buttonRows,
		clockHeight:  fontHeight + 2*clockPad,
		helpHeight:   helpHeight,
	}
	l.height = cardHeight(l.titleHeight, l.buttonHeight, l.clockHeight, l.helpHeight)

	if l.height > height {
		l.compact = true
		l.titleHeight = 1
		l.buttonHeight = 1
		l.clockHeight = 1 + 2*clockPad
		l.height = cardHeight(l.titleHeight, l.buttonHeight, l.clockHeight, l.helpHeight)
		if l.height > height {
			return screenLayout{}, false
		}
	}

	l.left = (width - l.width) / 2
	l.top = (height - l.height) / 2

	y := l.top + l.titleHeight + spacerRows
	half := (l.width - buttonGap) / 2
	l.focusButton = rect{x: l.left, y: y, w: half, h: l.buttonHeight}
	l.restButton = rect{x: l.left + l.width - half, y: y, w: half, h: l.buttonHeight}

	y += l.buttonHeight + spacerRows
	l.clockBox = rect{x: l.left, y: y, w: l.width, h: l.clockHeight}

	y += l.clockHeight + spacerRows
	l.progressRow = y

	y += 1 + spacerRows
	l.toggleButton = rect{x: l.left, y: y, w: l.width, h: l.buttonHeight}

	y += l.buttonHeight + spacerRows
	l.helpRow = y

	return l, true
}
