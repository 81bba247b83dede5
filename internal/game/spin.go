package game

// Rotate turns a shape a quarter turn. The result has width and height
// swapped. Clockwise maps (col, row) -> (H-1-row, col); counter-clockwise
// maps (col, row) -> (row, W-1-col).
func Rotate(s Shape, clockwise bool) Shape {
	out := Shape{W: s.H, H: s.W}
	for row := 0; row < s.H; row++ {
		for col := 0; col < s.W; col++ {
			if !s.Cells[row][col] {
				continue
			}
			if clockwise {
				out.Cells[col][s.H-1-row] = true
			} else {
				out.Cells[s.W-1-col][row] = true
			}
		}
	}
	return out
}

// spin rotates the active piece in place. There is no wall kick: if the
// rotated shape collides at the current anchor the piece is left untouched.
func (m *Machine) spin(clockwise bool) bool {
	p := m.sess.Piece
	rotated := Rotate(p.Shape(), clockwise)
	if WouldCollide(&m.sess.Grid, rotated, p.X, p.Y) {
		return false
	}
	if clockwise {
		p.Rotation = (p.Rotation + 1) % 4
	} else {
		p.Rotation = (p.Rotation + 3) % 4
	}
	m.sess.Piece = p
	return true
}
