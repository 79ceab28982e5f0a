package projector

// ProjectedPoint is one sample's value for one series in plot coordinates.
type ProjectedPoint struct {
	SampleIndex int     `json:"sampleIndex"`
	Value       float64 `json:"value"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// Point returns the point's coordinates.
func (p ProjectedPoint) Point() Point {
	return Point{X: p.X, Y: p.Y}
}

// Project maps every sample's value for def into plot coordinates.
func Project(samples []Sample, def SeriesDef, scale Scale, geom PlotGeometry) []ProjectedPoint {
	points := make([]ProjectedPoint, len(samples))
	for i, sample := range samples {
		v := sample.Value(def.Key)
		points[i] = ProjectedPoint{
			SampleIndex: i,
			Value:       v,
			X:           geom.X(i, len(samples)),
			Y:           geom.Y(v, scale),
		}
	}
	return points
}

// Points strips projected points down to their coordinates.
func Points(projected []ProjectedPoint) []Point {
	out := make([]Point, len(projected))
	for i, p := range projected {
		out[i] = p.Point()
	}
	return out
}
