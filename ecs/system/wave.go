package system

import (
	"github.com/dream-sky2020/DivineBloom-WorldTest-sub003/ecs"
)

// WaveSystem raises a wave signal every Interval seconds of simulated time.
type WaveSystem struct {
	Interval float64
	// MaxWaves stops the timer after that many waves; zero means endless.
	MaxWaves int

	signals *ecs.SignalQueue
	accum   float64
	elapsed float64
	wave    int
}

func NewWaveSystem(signals *ecs.SignalQueue, interval float64, maxWaves int) *WaveSystem {
	return &WaveSystem{Interval: interval, MaxWaves: maxWaves, signals: signals}
}

func (s *WaveSystem) Update(_ *ecs.World, dt float64) {
	s.elapsed += dt
	if s.signals == nil || s.Interval <= 0 || (s.MaxWaves > 0 && s.wave >= s.MaxWaves) {
		return
	}
	s.accum += dt
	for s.accum >= s.Interval {
		s.accum -= s.Interval
		s.wave++
		s.signals.Push(ecs.Signal{Kind: ecs.SignalWave, Wave: s.wave, Time: s.elapsed})
		if s.MaxWaves > 0 && s.wave >= s.MaxWaves {
			return
		}
	}
}

// Wave returns the number of waves raised so far.
func (s *WaveSystem) Wave() int {
	return s.wave
}

// Reset restarts the wave count, e.g. on scene change.
func (s *WaveSystem) Reset() {
	s.accum = 0
	s.wave = 0
}
