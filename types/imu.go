package types

// ------------------------
// IMU samples
// ------------------------

// Quaternion is an orientation sample as delivered by the IMU. No
// normalisation is applied; the producer owns unit-length validity.
type Quaternion struct {
	W float32 `json:"w"`
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// IsZero reports whether every component is exactly zero.
func (q Quaternion) IsZero() bool {
	return q.W == 0 && q.X == 0 && q.Y == 0 && q.Z == 0
}

// Vec3 is a three-axis sample (acceleration in m/s², angular rate, ...).
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// DistSq returns the squared Euclidean distance between v and o.
func (v Vec3) DistSq(o Vec3) float32 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	dz := v.Z - o.Z
	return dx*dx + dy*dy + dz*dz
}

// IMUSample is one full fused read from the IMU.
type IMUSample struct {
	Accel       Vec3       `json:"accel"`        // m/s²
	Gyro        Vec3       `json:"gyro"`         // dps
	LinearAccel Vec3       `json:"linear_accel"` // m/s², gravity removed
	Gravity     Vec3       `json:"gravity"`      // m/s²
	Quat        Quaternion `json:"quat"`
}
