package accel

// Space identifies a memory space an object or buffer can reside in.
type Space uint8

const (
	SpaceNone Space = iota
	SpaceHost
	SpaceDevice
)

func (s Space) String() string {
	switch s {
	case SpaceHost:
		return "host"
	case SpaceDevice:
		return "device"
	default:
		return "none"
	}
}
