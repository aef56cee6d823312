package servos

type Lifecycle string

const (

	// Nothing is powered.
	Idle Lifecycle = "idle"

	// Channels are being powered up, one at a time.
	Enabling Lifecycle = "enabling"

	// Every channel is powered, and the legs are being driven.
	Default Lifecycle = "default"
)

// Sequencer powers the servos up one channel per step, lowest first, so the
// supply isn't asked to move every servo to the fold pose at once.
type Sequencer struct {
	state   Lifecycle
	enabled [NumChannels]bool
}

func NewSequencer() *Sequencer {
	return &Sequencer{
		state: Idle,
	}
}

func (s *Sequencer) State() Lifecycle {
	return s.state
}

// Enabled returns the mask of powered channels.
func (s *Sequencer) Enabled() [NumChannels]bool {
	return s.enabled
}

// Reset disables every channel and starts enabling them again. It does nothing
// if the channels are already being enabled, so calling it repeatedly can't
// keep the sequence from finishing. Returns true if the sequence was started.
func (s *Sequencer) Reset() bool {
	if s.state == Enabling {
		log.Debug("already enabling; ignoring reset")
		return false
	}

	s.enabled = [NumChannels]bool{}
	s.setState(Enabling)
	return true
}

// Step enables the lowest disabled channel, and returns it. Once the last
// channel is enabled, the sequencer moves to Default. Returns -1 without doing
// anything if the channels aren't being enabled.
func (s *Sequencer) Step() int {
	if s.state != Enabling {
		return -1
	}

	ch := -1
	for i := 0; i < NumChannels; i++ {
		if !s.enabled[i] {
			ch = i
			break
		}
	}

	if ch == -1 {
		s.setState(Default)
		return -1
	}

	s.enabled[ch] = true
	log.Debugf("enabled channel %d", ch)

	if ch == NumChannels-1 {
		s.setState(Default)
	}

	return ch
}

// Stop disables every channel, and returns to Idle.
func (s *Sequencer) Stop() {
	s.enabled = [NumChannels]bool{}
	s.setState(Idle)
}

func (s *Sequencer) setState(l Lifecycle) {
	if s.state != l {
		log.Infof("state=%v", l)
	}

	s.state = l
}
