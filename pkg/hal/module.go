package hal

// Haptic defines set of methods that are needed to drive a haptic controller
type Haptic interface {
	SetMode(mode uint8) error
	SelectMotor(feedback uint8) error
	SetLibrary(library uint8) error
	SetWaveform(slot uint8, waveform uint8) error
	GetStatus() (uint8, error)
	Go() error
	Stop() error
}
