package calendar

import (
	"math"
	"time"
)

type Geometry struct {
	HourHeight  float64 // пикселей на час
	MinHeight   float64 // минимальная видимая высота
	SnapMinutes int
}

func DefaultGeometry() Geometry {
	return Geometry{
		HourHeight:  64,
		MinHeight:   20,
		SnapMinutes: 5,
	}
}

func (g Geometry) PixelsPerMinute() float64 {
	return g.HourHeight / 60
}

// Height высота линейна по длительности, но не меньше MinHeight.
// Хранимая длительность при этом не меняется.
func (g Geometry) Height(d time.Duration) float64 {
	h := d.Minutes() * g.PixelsPerMinute()
	if h < g.MinHeight {
		return g.MinHeight
	}
	return h
}

func (g Geometry) MinutesForHeight(h float64) float64 {
	return h / g.PixelsPerMinute()
}

// Snap округляет до ближайшей границы SnapMinutes
func (g Geometry) Snap(minutes float64) time.Duration {
	step := float64(g.SnapMinutes)
	return time.Duration(math.Round(minutes/step)*step) * time.Minute
}

// MinDuration минимальная высота в минутах, округлённая вверх до шага привязки
func (g Geometry) MinDuration() time.Duration {
	step := float64(g.SnapMinutes)
	minutes := math.Ceil(g.MinutesForHeight(g.MinHeight)/step) * step
	return time.Duration(minutes) * time.Minute
}

func (g Geometry) ResizeDuration(h float64) time.Duration {
	if h < g.MinHeight {
		h = g.MinHeight
	}
	d := g.Snap(g.MinutesForHeight(h))
	if floor := g.MinDuration(); d < floor {
		return floor
	}
	return d
}
