package types

import "github.com/chazu/planvm/vm"

// Point2d is a point in 2D space.
type Point2d struct {
	X float64
	Y float64
}

// IntoParts implements vm.CompositeValue.
func (p Point2d) IntoParts() []vm.Value {
	return []vm.Value{vm.FromFloat(p.X), vm.FromFloat(p.Y)}
}

// FromParts implements vm.CompositeValue.
func (p *Point2d) FromParts(cells []*vm.Value) (int, error) {
	total := 0
	x, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	p.X = x
	total += n
	y, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	p.Y = y
	total += n
	return total, nil
}

// Point3d is a point in 3D space.
type Point3d struct {
	X float64
	Y float64
	Z float64
}

// IntoParts implements vm.CompositeValue.
func (p Point3d) IntoParts() []vm.Value {
	return []vm.Value{vm.FromFloat(p.X), vm.FromFloat(p.Y), vm.FromFloat(p.Z)}
}

// FromParts implements vm.CompositeValue.
func (p *Point3d) FromParts(cells []*vm.Value) (int, error) {
	total := 0
	x, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	p.X = x
	total += n
	y, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	p.Y = y
	total += n
	z, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	p.Z = z
	total += n
	return total, nil
}

// Point4d is a point in homogeneous coordinates.
type Point4d struct {
	X float64
	Y float64
	Z float64
	W float64
}

// IntoParts implements vm.CompositeValue.
func (p Point4d) IntoParts() []vm.Value {
	return []vm.Value{vm.FromFloat(p.X), vm.FromFloat(p.Y), vm.FromFloat(p.Z), vm.FromFloat(p.W)}
}

// FromParts implements vm.CompositeValue.
func (p *Point4d) FromParts(cells []*vm.Value) (int, error) {
	total := 0
	x, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	p.X = x
	total += n
	y, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	p.Y = y
	total += n
	z, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	p.Z = z
	total += n
	w, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	p.W = w
	total += n
	return total, nil
}

// Angle is an angle in degrees.
type Angle struct {
	Degrees float64
}

// IntoParts implements vm.CompositeValue.
func (a Angle) IntoParts() []vm.Value {
	return []vm.Value{vm.FromFloat(a.Degrees)}
}

// FromParts implements vm.CompositeValue.
func (a *Angle) FromParts(cells []*vm.Value) (int, error) {
	deg, n, err := vm.DecodeFloat(cells)
	if err != nil {
		return 0, err
	}
	a.Degrees = deg
	return n, nil
}

// Color is an RGBA color, each channel in [0, 1].
type Color struct {
	R float64
	G float64
	B float64
	A float64
}

// IntoParts implements vm.CompositeValue.
func (c Color) IntoParts() []vm.Value {
	return []vm.Value{vm.FromFloat(c.R), vm.FromFloat(c.G), vm.FromFloat(c.B), vm.FromFloat(c.A)}
}

// FromParts implements vm.CompositeValue.
func (c *Color) FromParts(cells []*vm.Value) (int, error) {
	total := 0
	r, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	c.R = r
	total += n
	g, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	c.G = g
	total += n
	b, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	c.B = b
	total += n
	a, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	c.A = a
	total += n
	return total, nil
}

// LinearTransform transforms each solid replicated in a repeating
// pattern: a translation, a per-axis scale, and whether to replicate
// the original at all.
type LinearTransform struct {
	Translate Point3d
	Scale     Point3d
	Replicate bool
}

// IntoParts implements vm.CompositeValue.
func (t LinearTransform) IntoParts() []vm.Value {
	parts := t.Translate.IntoParts()
	parts = append(parts, t.Scale.IntoParts()...)
	return append(parts, vm.FromBool(t.Replicate))
}

// FromParts implements vm.CompositeValue.
func (t *LinearTransform) FromParts(cells []*vm.Value) (int, error) {
	total := 0
	n, err := vm.DecodeComposite(cells[total:], &t.Translate)
	if err != nil {
		return 0, err
	}
	total += n
	n, err = vm.DecodeComposite(cells[total:], &t.Scale)
	if err != nil {
		return 0, err
	}
	total += n
	replicate, n, err := vm.DecodeBool(cells[total:])
	if err != nil {
		return 0, err
	}
	t.Replicate = replicate
	total += n
	return total, nil
}
