package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// Output format shared by every chime
const (
	SampleRate = 44100
	Channels   = 2

	bytesPerFrame = Channels * 2 // signed 16-bit little endian
	chimeGap      = 400 * time.Millisecond
	fadeDuration  = 15 * time.Millisecond
	amplitude     = 0.35
)

// Note is one tone of a chime. Zero frequency is a rest.
type Note struct {
	Freq     float64
	Duration time.Duration
}

var (
	// ReminderChime is played for alarms ahead of an event
	ReminderChime = []Note{{Freq: 880, Duration: 160 * time.Millisecond}, {Duration: 60 * time.Millisecond}, {Freq: 1174.66, Duration: 240 * time.Millisecond}}
	// EventChime is played when imsak or iftar arrives
	EventChime = []Note{{Freq: 659.25, Duration: 220 * time.Millisecond}, {Freq: 783.99, Duration: 220 * time.Millisecond}, {Freq: 1046.5, Duration: 420 * time.Millisecond}}
)

// Render synthesizes notes into PCM in the player's output format.
// Each note fades in and out to avoid clicks.
func Render(notes []Note) []byte {
	total := 0
	for _, n := range notes {
		total += frames(n.Duration)
	}
	pcm := make([]byte, 0, total*bytesPerFrame)

	fade := frames(fadeDuration)
	frame := make([]byte, bytesPerFrame)
	for _, n := range notes {
		count := frames(n.Duration)
		for i := 0; i < count; i++ {
			var v float64
			if n.Freq > 0 {
				v = amplitude * math.Sin(2*math.Pi*n.Freq*float64(i)/SampleRate)
				v *= envelope(i, count, fade)
			}
			sample := uint16(int16(v * math.MaxInt16))
			for c := 0; c < Channels; c++ {
				binary.LittleEndian.PutUint16(frame[c*2:], sample)
			}
			pcm = append(pcm, frame...)
		}
	}
	return pcm
}

func frames(d time.Duration) int {
	return int(d.Seconds() * SampleRate)
}

func envelope(i, count, fade int) float64 {
	if fade <= 0 {
		return 1
	}
	switch {
	case i < fade:
		return float64(i) / float64(fade)
	case i >= count-fade:
		return float64(count-i) / float64(fade)
	}
	return 1
}
