//go:build ignore

// Generates stamp.png (white four-point sparkle on transparent).
// Invoked by: go generate ./internal/assets
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/gogpu/gg"
)

const (
	size        = 128
	outerRatio  = 0.46
	innerRatio  = 0.14
	pointsCount = 4
)

func main() {
	dc := gg.NewContext(size, size)
	defer dc.Close()

	c := float64(size) / 2
	for i := 0; i < pointsCount*2; i++ {
		r := outerRatio * size
		if i%2 == 1 {
			r = innerRatio * size
		}
		a := -math.Pi/2 + float64(i)*math.Pi/pointsCount
		x, y := c+r*math.Cos(a), c+r*math.Sin(a)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	dc.SetFillBrush(gg.Solid(gg.White))
	if err := dc.Fill(); err != nil {
		fmt.Fprintf(os.Stderr, "fill: %v\n", err)
		os.Exit(1)
	}
	if err := dc.SavePNG("stamp.png"); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("wrote stamp.png")
}
