package fixed

func Mean(points []Point) Point {
	if len(points) == 0 {
		return Zero
	}
	sum := Zero
	for _, point := range points {
		sum = sum.Add(point)
	}
	return sum.DivInt(len(points))
}

// MaxDrawdown returns the largest peak-to-trough decline of the series.
func MaxDrawdown(points []Point) Point {
	if len(points) == 0 {
		return Zero
	}
	peak := points[0]
	drawdown := Zero
	for _, point := range points[1:] {
		peak = peak.Max(point)
		drawdown = drawdown.Max(peak.Sub(point))
	}
	return drawdown
}
