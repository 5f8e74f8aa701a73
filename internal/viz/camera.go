package viz

import (
	"math"

	"github.com/san-kum/ljsim/internal/dynamo"
)

// Camera projects points of a cube centred on the origin with half-edge 1.
type Camera struct {
	RotX, RotY float64
	Zoom       float64
	Distance   float64
}

func NewCamera() *Camera {
	return &Camera{RotX: 0.4, RotY: 0.6, Zoom: 1, Distance: 5}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotate(p dynamo.Vec3) dynamo.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p[1], p[2] = p[1]*cx-p[2]*sx, p[1]*sx+p[2]*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p[0], p[2] = p[0]*cy+p[2]*sy, -p[0]*sy+p[2]*cy
	return p
}

// Project maps p onto a sw x sh pixel plane. ok is false when the point is
// behind the camera or off screen.
func (c *Camera) Project(p dynamo.Vec3, sw, sh int) (x, y int, ok bool) {
	r := c.rotate(p)
	if r[2] >= c.Distance {
		return 0, 0, false
	}
	persp := c.Distance / (c.Distance - r[2])
	unit := float64(min(sw, sh)) / 3 * c.Zoom
	x = int(r[0]*persp*unit) + sw/2
	y = int(-r[1]*persp*unit) + sh/2
	return x, y, x >= 0 && x < sw && y >= 0 && y < sh
}

var cubeEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

var cubeCorners = [8]dynamo.Vec3{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

// RenderBox draws the edges of a periodic box of edge l and the particles of
// cfg inside it. Each particle is a 2x2 pixel dot.
func RenderBox(cv *Canvas, cam *Camera, cfg dynamo.Configuration, l float64) {
	sw, sh := cv.Pixels()
	for _, e := range cubeEdges {
		x0, y0, ok0 := cam.Project(cubeCorners[e[0]], sw, sh)
		x1, y1, ok1 := cam.Project(cubeCorners[e[1]], sw, sh)
		if ok0 || ok1 {
			cv.DrawLine(x0, y0, x1, y1)
		}
	}
	if l <= 0 {
		return
	}
	half := l / 2
	for _, p := range cfg {
		n := dynamo.Vec3{(p[0] - half) / half, (p[1] - half) / half, (p[2] - half) / half}
		x, y, ok := cam.Project(n, sw, sh)
		if !ok {
			continue
		}
		cv.Set(x, y)
		cv.Set(x+1, y)
		cv.Set(x, y+1)
		cv.Set(x+1, y+1)
	}
}
