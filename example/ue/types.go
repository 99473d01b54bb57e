package main

import "math"

//go:generate go run memlayout/cmd/layoutc generate --config layoutc.yaml

// FVector is the engine's single precision vector, embedded by value in components
type FVector struct {
	X, Y, Z float32
}

func (v FVector) Sub(o FVector) FVector {
	return FVector{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v FVector) Len() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}
