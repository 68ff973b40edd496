package types

import "github.com/chazu/planvm/vm"

// PerspectiveCameraParameters are the intrinsics of a perspective
// projection.
type PerspectiveCameraParameters struct {
	FovY  float64
	ZNear float64
	ZFar  float64
}

// IntoParts implements vm.CompositeValue.
func (p PerspectiveCameraParameters) IntoParts() []vm.Value {
	return []vm.Value{vm.FromFloat(p.FovY), vm.FromFloat(p.ZNear), vm.FromFloat(p.ZFar)}
}

// FromParts implements vm.CompositeValue.
func (p *PerspectiveCameraParameters) FromParts(cells []*vm.Value) (int, error) {
	total := 0
	fovy, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	p.FovY = fovy
	total += n
	znear, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	p.ZNear = znear
	total += n
	zfar, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	p.ZFar = zfar
	total += n
	return total, nil
}

// CameraSettings is the full pose and projection of a scene camera.
type CameraSettings struct {
	Position    Point3d
	Center      Point3d
	Up          Point3d
	Orientation Point4d
	FovY        float64
	Ortho       bool
}

// IntoParts implements vm.CompositeValue.
func (c CameraSettings) IntoParts() []vm.Value {
	parts := c.Position.IntoParts()
	parts = append(parts, c.Center.IntoParts()...)
	parts = append(parts, c.Up.IntoParts()...)
	parts = append(parts, c.Orientation.IntoParts()...)
	parts = append(parts, vm.FromFloat(c.FovY), vm.FromBool(c.Ortho))
	return parts
}

// FromParts implements vm.CompositeValue.
func (c *CameraSettings) FromParts(cells []*vm.Value) (int, error) {
	total := 0
	n, err := vm.DecodeComposite(cells[total:], &c.Position)
	if err != nil {
		return 0, err
	}
	total += n
	n, err = vm.DecodeComposite(cells[total:], &c.Center)
	if err != nil {
		return 0, err
	}
	total += n
	n, err = vm.DecodeComposite(cells[total:], &c.Up)
	if err != nil {
		return 0, err
	}
	total += n
	n, err = vm.DecodeComposite(cells[total:], &c.Orientation)
	if err != nil {
		return 0, err
	}
	total += n
	fovy, n, err := vm.DecodeFloat(cells[total:])
	if err != nil {
		return 0, err
	}
	c.FovY = fovy
	total += n
	ortho, n, err := vm.DecodeBool(cells[total:])
	if err != nil {
		return 0, err
	}
	c.Ortho = ortho
	total += n
	return total, nil
}
