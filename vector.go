package srzone

import "fmt"

// Vector3 is a position in world space.
type Vector3 struct {
	X, Y, Z float32
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Quaternion is an orientation.
type Quaternion struct {
	X, Y, Z, W float32
}

func (q Quaternion) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", q.X, q.Y, q.Z, q.W)
}
