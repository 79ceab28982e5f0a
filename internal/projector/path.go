package projector

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrBadPath is returned when path data cannot be parsed.
var ErrBadPath = errors.New("malformed path data")

// Point is a 2-D coordinate in plot space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Op is a path drawing command.
type Op int

const (
	MoveTo Op = iota
	LineTo
	CurveTo
	Close
)

// Segment is one drawing command. C1 and C2 are only meaningful for CurveTo.
type Segment struct {
	Op Op
	C1 Point
	C2 Point
	To Point
}

// Path is an ordered list of drawing commands.
type Path []Segment

// Empty reports whether the path draws nothing.
func (p Path) Empty() bool {
	return len(p) == 0
}

// String renders the path as SVG path data.
func (p Path) String() string {
	return p.Format(FormatNumber)
}

// Format renders the path as SVG path data, formatting x coordinates with
// fx, e.g. FormatPercent for percentage x units ("12.5%").
func (p Path) Format(fx func(float64) string) string {
	var b strings.Builder
	for i, seg := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch seg.Op {
		case MoveTo:
			b.WriteString("M ")
			writePoint(&b, seg.To, fx)
		case LineTo:
			b.WriteString("L ")
			writePoint(&b, seg.To, fx)
		case CurveTo:
			b.WriteString("C ")
			writePoint(&b, seg.C1, fx)
			b.WriteByte(' ')
			writePoint(&b, seg.C2, fx)
			b.WriteByte(' ')
			writePoint(&b, seg.To, fx)
		case Close:
			b.WriteByte('Z')
		}
	}
	return b.String()
}

func writePoint(b *strings.Builder, pt Point, fx func(float64) string) {
	b.WriteString(fx(pt.X))
	b.WriteByte(' ')
	b.WriteString(FormatNumber(pt.Y))
}

// MapX returns a copy of the path with every x coordinate passed through f.
func (p Path) MapX(f func(float64) float64) Path {
	out := make(Path, len(p))
	for i, seg := range p {
		seg.C1.X = f(seg.C1.X)
		seg.C2.X = f(seg.C2.X)
		seg.To.X = f(seg.To.X)
		out[i] = seg
	}
	return out
}

// FormatNumber prints v rounded to two decimals without trailing zeros.
func FormatNumber(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// FormatPercent prints v as a percentage coordinate.
func FormatPercent(v float64) string {
	return FormatNumber(v) + "%"
}

// Control point coefficients of the smoothing curve.
const (
	edgeTension  = 0.3
	entryTension = 0.3
	exitTension  = 0.1
)

// SmoothPath draws a smooth curve through points using one cubic segment per
// pair of neighbours. The first and last segments pull their control points
// horizontally by 30% of the segment span; interior segments leave along 30%
// of the incoming delta and arrive against 10% of the delta spanning the
// next point. Fewer than two points draw nothing.
func SmoothPath(points []Point) Path {
	if len(points) < 2 {
		return nil
	}

	path := make(Path, 0, len(points))
	path = append(path, Segment{Op: MoveTo, To: points[0]})

	last := len(points) - 1
	for i := 1; i <= last; i++ {
		prev, curr := points[i-1], points[i]

		var c1, c2 Point
		if i == 1 || i == last {
			dx := (curr.X - prev.X) * edgeTension
			c1 = Point{X: prev.X + dx, Y: prev.Y}
			c2 = Point{X: curr.X - dx, Y: curr.Y}
		} else {
			next := points[i+1]
			c1 = Point{
				X: prev.X + (curr.X-prev.X)*entryTension,
				Y: prev.Y + (curr.Y-prev.Y)*entryTension,
			}
			c2 = Point{
				X: curr.X - (next.X-prev.X)*exitTension,
				Y: curr.Y - (next.Y-prev.Y)*exitTension,
			}
		}
		path = append(path, Segment{Op: CurveTo, C1: c1, C2: c2, To: curr})
	}
	return path
}

// AreaPath closes a curve into a fillable region: down from the curve's
// start to baselineY, along the curve, back down to the baseline below its
// end, and closed.
func AreaPath(curve Path, first, last Point, baselineY float64) Path {
	if curve.Empty() {
		return nil
	}

	area := make(Path, 0, len(curve)+3)
	area = append(area,
		Segment{Op: MoveTo, To: Point{X: first.X, Y: baselineY}},
		Segment{Op: LineTo, To: first},
	)
	for _, seg := range curve {
		if seg.Op == MoveTo {
			continue
		}
		area = append(area, seg)
	}
	area = append(area,
		Segment{Op: LineTo, To: Point{X: last.X, Y: baselineY}},
		Segment{Op: Close},
	)
	return area
}

// MarshalText encodes the path as SVG path data.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes SVG path data written by MarshalText.
func (p *Path) UnmarshalText(text []byte) error {
	parsed, err := ParsePath(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePath reads the M, L, C and Z commands with absolute pixel
// coordinates. Percentage coordinates are not accepted.
func ParsePath(s string) (Path, error) {
	fields := strings.Fields(s)
	path := Path{}
	for i := 0; i < len(fields); {
		cmd := fields[i]
		i++

		var op Op
		var n int
		switch cmd {
		case "M":
			op, n = MoveTo, 1
		case "L":
			op, n = LineTo, 1
		case "C":
			op, n = CurveTo, 3
		case "Z":
			path = append(path, Segment{Op: Close})
			continue
		default:
			return nil, fmt.Errorf("%w: unknown command %q", ErrBadPath, cmd)
		}

		if i+2*n > len(fields) {
			return nil, fmt.Errorf("%w: %s needs %d coordinates", ErrBadPath, cmd, 2*n)
		}
		pts := make([]Point, n)
		for j := range pts {
			x, errX := strconv.ParseFloat(fields[i], 64)
			y, errY := strconv.ParseFloat(fields[i+1], 64)
			if errX != nil || errY != nil {
				return nil, fmt.Errorf("%w: bad coordinate %q %q", ErrBadPath, fields[i], fields[i+1])
			}
			pts[j] = Point{X: x, Y: y}
			i += 2
		}

		seg := Segment{Op: op, To: pts[n-1]}
		if op == CurveTo {
			seg.C1, seg.C2 = pts[0], pts[1]
		}
		path = append(path, seg)
	}
	return path, nil
}
