package engine

// ClampPaddleY keeps a paddle position inside the field.
func ClampPaddleY(y float64) float64 {
	return max(0, min(MaxPaddleY, y))
}

// ProposePaddleY computes the paddle position a client proposes for a key press.
// It starts from the player's last known position in state and moves it by
// PaddleStep, clamped to the field. The result is only an intent; the next
// state from the server decides where the paddle actually is.
// ok is false for keys that do not move the paddle.
func ProposePaddleY(state *GameState, player PlayerID, key Key) (y float64, ok bool) {
	if state == nil {
		return 0, false
	}

	y = state.PaddleY(player)
	switch key {
	case KeyArrowUp:
		return max(0, y-PaddleStep), true
	case KeyArrowDown:
		return min(MaxPaddleY, y+PaddleStep), true
	default:
		return 0, false
	}
}
