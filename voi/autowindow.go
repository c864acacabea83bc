package voi

// AutoWindow derives a window covering the full observed sample range. It is
// used when an image carries no Window Center/Width attributes: the window
// spans [minValue, maxValue] with its center between them.
func AutoWindow(minValue, maxValue int) Window {
	if maxValue < minValue {
		minValue, maxValue = maxValue, minValue
	}
	return Window{
		Center: float64(minValue+maxValue+1) / 2,
		Width:  float64(maxValue - minValue + 1),
	}
}
