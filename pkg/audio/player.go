package audio

import (
	"bytes"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Global audio context singleton
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	audioCtxReady      bool
)

// Player plays a chime a fixed number of times and can be stopped early
type Player struct {
	stopChan chan struct{}
	player   *oto.Player
	stopped  bool
	mu       sync.Mutex
}

// InitAudioContext initializes the global audio context once
func InitAudioContext() {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		audioCtxReady = true
		log.Println("Audio context initialized successfully")
	})
}

// Play plays pcm, as produced by Render, repeats times in the background
func Play(pcm []byte, repeats int) *Player {
	InitAudioContext()

	if !audioCtxReady || globalAudioCtx == nil {
		log.Printf("Audio context not ready")
		return nil
	}

	p := &Player{
		stopChan: make(chan struct{}),
	}
	go p.playLoop(pcm, repeats)
	return p
}

func (p *Player) playLoop(pcm []byte, repeats int) {
	for i := 0; i < repeats; i++ {
		player := globalAudioCtx.NewPlayer(bytes.NewReader(pcm))
		p.mu.Lock()
		p.player = player
		p.mu.Unlock()

		player.Play()

		for player.IsPlaying() {
			select {
			case <-p.stopChan:
				player.Pause()
				player.Close()
				return
			case <-time.After(10 * time.Millisecond):
			}
		}

		if err := player.Close(); err != nil {
			log.Printf("Failed to close audio player: %v", err)
		}

		select {
		case <-p.stopChan:
			return
		case <-time.After(chimeGap):
		}
	}
}

// Stop stops the audio playback
func (p *Player) Stop() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.stopped {
		p.stopped = true
		close(p.stopChan)

		if p.player != nil {
			p.player.Pause()
		}
	}
}
