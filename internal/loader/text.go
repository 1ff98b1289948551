package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cspace-planner/internal/geometry"
)

// Robot is the start position and clearance radius of the agent
type Robot struct {
	Start  geometry.Point `json:"start"`
	Radius float64        `json:"radius"`
}

// ParseObstacles reads one obstacle per line as space separated "x,y" vertices.
// Blank lines and lines starting with '#' are skipped.
func ParseObstacles(r io.Reader, name string) ([]geometry.Polygon, error) {
	var obstacles []geometry.Polygon

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		vertices := make([]geometry.Point, 0, len(fields))
		for _, field := range fields {
			p, err := parsePoint(field)
			if err != nil {
				return nil, &ParseError{File: name, Line: line, Msg: "bad vertex", Err: err}
			}
			vertices = append(vertices, p)
		}

		poly, err := geometry.NewPolygon(vertices)
		if err != nil {
			return nil, &ParseError{File: name, Line: line, Msg: "bad obstacle", Err: geometry.WithIndex(err, len(obstacles))}
		}
		obstacles = append(obstacles, poly)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return obstacles, nil
}

// ParseRobot reads "x,y r" from the first non-blank line
func ParseRobot(r io.Reader, name string) (Robot, error) {
	text, line, err := firstLine(r, name)
	if err != nil {
		return Robot{}, err
	}

	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Robot{}, &ParseError{File: name, Line: line, Msg: fmt.Sprintf("expected \"x,y r\", got %q", text)}
	}

	start, err := parsePoint(fields[0])
	if err != nil {
		return Robot{}, &ParseError{File: name, Line: line, Msg: "bad start", Err: err}
	}
	radius, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Robot{}, &ParseError{File: name, Line: line, Msg: "bad radius", Err: err}
	}
	if radius < 0 {
		return Robot{}, &ParseError{File: name, Line: line, Msg: "radius must not be negative"}
	}

	return Robot{Start: start, Radius: radius}, nil
}

// ParseQuery reads the goal "x,y" from the first non-blank line
func ParseQuery(r io.Reader, name string) (geometry.Point, error) {
	text, line, err := firstLine(r, name)
	if err != nil {
		return geometry.Point{}, err
	}

	goal, err := parsePoint(text)
	if err != nil {
		return geometry.Point{}, &ParseError{File: name, Line: line, Msg: "bad goal", Err: err}
	}
	return goal, nil
}

func firstLine(r io.Reader, name string) (string, int, error) {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if text := strings.TrimSpace(scanner.Text()); text != "" {
			return text, line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", 0, fmt.Errorf("read %s: %w", name, err)
	}
	return "", 0, &ParseError{File: name, Msg: "empty input"}
}

func parsePoint(s string) (geometry.Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return geometry.Point{}, fmt.Errorf("expected \"x,y\", got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geometry.Point{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.Point{X: x, Y: y}, nil
}

// LoadRobot reads a robot file
func LoadRobot(path string) (Robot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Robot{}, fmt.Errorf("open robot file: %w", err)
	}
	defer f.Close()
	return ParseRobot(f, path)
}

// LoadQuery reads a query file
func LoadQuery(path string) (geometry.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("open query file: %w", err)
	}
	defer f.Close()
	return ParseQuery(f, path)
}

// WriteObstacles writes polygons in the obstacle file format
func WriteObstacles(w io.Writer, polygons []geometry.Polygon) error {
	bw := bufio.NewWriter(w)
	for _, poly := range polygons {
		for i, v := range poly.Vertices {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(formatPoint(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func formatPoint(p geometry.Point) string {
	return strconv.FormatFloat(p.X, 'g', -1, 64) + "," + strconv.FormatFloat(p.Y, 'g', -1, 64)
}
