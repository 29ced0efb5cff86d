package board

// Kings reports which kings are still on the board.
func Kings(b *Board) (white, black bool) {
	for y := range b {
		for _, p := range b[y] {
			switch p {
			case WhiteKing:
				white = true
			case BlackKing:
				black = true
			}
			if white && black {
				return
			}
		}
	}
	return
}

// Winner returns the side whose opponent has lost its king. ok is false while
// both kings are present; there are no draws.
func Winner(b *Board) (c Color, ok bool) {
	white, black := Kings(b)
	switch {
	case !black:
		return White, true
	case !white:
		return Black, true
	default:
		return White, false
	}
}
