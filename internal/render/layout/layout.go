// Package layout has the rectangle arithmetic used to place a frame and
// its info panel on the presenter canvas.
package layout

import "image"

// Inset shrinks rect by paddingPx on all sides. An over-large inset
// collapses to the center instead of inverting.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	return Normalize(rect).Inset(paddingPx)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	return rect.Canon()
}

func clamp(v, hi int) int {
	return max(0, min(v, hi))
}

// SplitVertical cuts rect into a left column leftWidthPx wide and the rest.
func SplitVertical(rect image.Rectangle, leftWidthPx int) (left, right image.Rectangle) {
	rect = rect.Canon()
	x := rect.Min.X + clamp(leftWidthPx, rect.Dx())
	left, right = rect, rect
	left.Max.X, right.Min.X = x, x
	return left, right
}

// SplitHorizontal cuts rect into a top row topHeightPx high and the rest.
func SplitHorizontal(rect image.Rectangle, topHeightPx int) (top, bottom image.Rectangle) {
	rect = rect.Canon()
	y := rect.Min.Y + clamp(topHeightPx, rect.Dy())
	top, bottom = rect, rect
	top.Max.Y, bottom.Min.Y = y, y
	return top, bottom
}

// AnchorTopLeft places a widthPx x heightPx box in the top-left corner of
// rect, shrunk to fit.
func AnchorTopLeft(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = rect.Canon()
	size := image.Pt(clamp(widthPx, rect.Dx()), clamp(heightPx, rect.Dy()))
	return image.Rectangle{Min: rect.Min, Max: rect.Min.Add(size)}
}

// CenterSquare returns the largest square that fits into rect, centered in it.
func CenterSquare(rect image.Rectangle) image.Rectangle {
	rect = rect.Canon()
	size := min(rect.Dx(), rect.Dy())
	origin := rect.Min.Add(image.Pt((rect.Dx()-size)/2, (rect.Dy()-size)/2))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(size, size))}
}
