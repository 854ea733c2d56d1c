package qrcode

import "strings"

// HalfBlocks renders the symbol as text, two module rows per line, using
// the upper/lower half block characters for dark modules. Light modules
// and the border are spaces, so the text is meant for a light background.
func (qr *QRCode) HalfBlocks(border int) (string, error) {
	side, err := checkBorder(qr, border)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow((side + 1) / 2 * (side*3 + 1))
	for y := -border; y < qr.size+border; y += 2 {
		for x := -border; x < qr.size+border; x++ {
			top := qr.Module(x, y)
			bottom := y+1 < qr.size+border && qr.Module(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
