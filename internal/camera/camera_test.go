package camera

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOrbitCameraPosition(t *testing.T) {
	c := New(rl.Vector3{Y: 1}, 4)
	c.Yaw = 0
	c.Pitch = 0

	got := c.Position()
	if rl.Vector3Distance(got, rl.Vector3{Y: 1, Z: 4}) > 1e-5 {
		t.Errorf("Expected (0,1,4), got %v", got)
	}

	c.Yaw = 90
	got = c.Position()
	if rl.Vector3Distance(got, rl.Vector3{X: 4, Y: 1}) > 1e-4 {
		t.Errorf("Expected (4,1,0), got %v", got)
	}
}

func TestOrbitCameraKeepsDistance(t *testing.T) {
	c := New(rl.Vector3{X: 1, Y: 2, Z: 3}, 5)
	for _, step := range []float32{10, 45, 200, -300} {
		c.Orbit(step, step/3)
		if d := rl.Vector3Distance(c.Position(), c.Target); d < 4.999 || d > 5.001 {
			t.Errorf("Expected distance 5 after orbit %f, got %f", step, d)
		}
	}
}

func TestOrbitCameraPitchClamped(t *testing.T) {
	c := New(rl.Vector3{}, 5)
	c.Orbit(0, 500)
	if c.Pitch != 89 {
		t.Errorf("Expected pitch 89, got %f", c.Pitch)
	}
	c.Orbit(0, -500)
	if c.Pitch != -89 {
		t.Errorf("Expected pitch -89, got %f", c.Pitch)
	}
}

func TestOrbitCameraZoomClamped(t *testing.T) {
	c := New(rl.Vector3{}, 5)
	c.Zoom(1)
	if c.Distance >= 5 {
		t.Errorf("Expected zoom in to shorten distance, got %f", c.Distance)
	}
	for range 100 {
		c.Zoom(5)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("Expected distance clamped to %f, got %f", c.MinDistance, c.Distance)
	}
	for range 100 {
		c.Zoom(-5)
	}
	if c.Distance != c.MaxDistance {
		t.Errorf("Expected distance clamped to %f, got %f", c.MaxDistance, c.Distance)
	}
}

func TestOrbitCameraGroundAxesFaceTarget(t *testing.T) {
	c := New(rl.Vector3{}, 5)
	forward, right := c.groundAxes()
	toTarget := rl.Vector3Normalize(rl.Vector3Subtract(c.Target, c.Position()))
	toTarget.Y = 0
	if rl.Vector3DotProduct(forward, rl.Vector3Normalize(toTarget)) < 0.999 {
		t.Errorf("Expected forward %v to point at the target, got %v", toTarget, forward)
	}
	if d := rl.Vector3DotProduct(forward, right); d > 1e-6 || d < -1e-6 {
		t.Errorf("Expected right to be perpendicular to forward, got dot %f", d)
	}
}
