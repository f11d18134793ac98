package billiards

// Ray-marching parameters shared by every table. Collision detection samples
// the forward ray at TimeStep for t in [0, HorizonFactor*Tmax).
const (
	TimeStep      = 1e-3
	HorizonFactor = 1.1

	// QuadratureOrder is the number of Gauss-Legendre nodes used for the
	// ellipse arc length integral.
	QuadratureOrder = 64

	MinReflections = 1
)
