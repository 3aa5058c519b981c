// Package sound plays the short audio cues that accompany timer transitions
package sound

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/maruel/natural"

	"github.com/ayoisaiah/focusflow/internal/pathutil"
)

// Cue identifies the transition a sound belongs to.
type Cue string

const (
	FocusStart Cue = "focus_start"
	FocusEnd   Cue = "focus_end"
	BreakStart Cue = "break_start"
	BreakEnd   Cue = "break_end"
)

// Cues lists every cue in playback-menu order.
var Cues = []Cue{FocusStart, FocusEnd, BreakStart, BreakEnd}

const (
	sampleRate   beep.SampleRate = 44100
	toneDuration                 = 300 * time.Millisecond
	bufferSize                   = 10
)

var frequencies = map[Cue]float64{
	FocusStart: 800,
	FocusEnd:   600,
	BreakStart: 400,
	BreakEnd:   500,
}

var (
	errInvalidSoundFormat = errors.New(
		"invalid sound file format: only MP3, OGG, FLAC, and WAV files are supported",
	)
	errUnknownCue = errors.New("unknown sound cue")
)

// Frequency returns the tone frequency of the cue in Hz.
func Frequency(c Cue) (float64, bool) {
	f, ok := frequencies[c]
	return f, ok
}

// Player plays cues through the system speaker. Each cue is either a
// generated sine tone or a custom sound file.
type Player struct {
	files   map[Cue]string
	initErr error
	// volume is a linear factor in [0, 1].
	volume   float64
	mu       sync.Mutex
	initOnce sync.Once
}

// NewPlayer returns a player with the given master volume in percent.
// Cues with a file in files play that file instead of a tone.
func NewPlayer(volume int, files map[Cue]string) *Player {
	return &Player{
		volume: float64(min(max(volume, 0), 100)) / 100,
		files:  files,
	}
}

// Play blocks until the cue has finished playing.
func (p *Player) Play(c Cue) error {
	if p.volume == 0 {
		return nil
	}

	p.initOnce.Do(func() {
		p.initErr = speaker.Init(
			sampleRate,
			sampleRate.N(time.Duration(int(time.Second)/bufferSize)),
		)
	})

	if p.initErr != nil {
		return p.initErr
	}

	// one cue at a time
	p.mu.Lock()
	defer p.mu.Unlock()

	stream, closer, err := p.stream(c)
	if err != nil {
		return err
	}

	if closer != nil {
		defer closer.Close()
	}

	done := make(chan struct{})

	speaker.Play(beep.Seq(
		p.withVolume(stream),
		beep.Callback(func() {
			close(done)
		}),
	))

	<-done

	return nil
}

func (p *Player) withVolume(s beep.Streamer) beep.Streamer {
	return &effects.Gain{
		Streamer: s,
		Gain:     p.volume - 1,
	}
}

func (p *Player) stream(c Cue) (beep.Streamer, io.Closer, error) {
	if path := p.files[c]; path != "" {
		return decodeFile(path)
	}

	tone, err := Tone(c)

	return tone, nil, err
}

// Tone returns the generated tone for a cue.
func Tone(c Cue) (beep.Streamer, error) {
	freq, ok := frequencies[c]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownCue, c)
	}

	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}

	return beep.Take(sampleRate.N(toneDuration), sine), nil
}

// decodeFile opens a sound file and resamples it to the speaker rate. The
// returned closer releases the file once playback has finished.
func decodeFile(path string) (beep.Streamer, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		err = errInvalidSoundFormat
	}

	if err != nil {
		f.Close()
		return nil, nil, err
	}

	return beep.Resample(4, format.SampleRate, sampleRate, stream), f, nil
}

// List returns the playable sound files in dir, ordered naturally so that
// "chime2" sorts before "chime10". A missing directory yields no sounds.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".ogg", ".mp3", ".flac", ".wav":
			names = append(names, e.Name())
		}
	}

	sort.Sort(natural.StringSlice(names))

	return names, nil
}

// Resolve maps a configured sound name to a file path. Bare names are looked
// up in dir; "" and "tone" select the generated tone.
func Resolve(dir, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "tone") {
		return "", nil
	}

	if filepath.IsAbs(name) {
		return name, nil
	}

	available, err := List(dir)
	if err != nil {
		return "", err
	}

	for _, f := range available {
		if f == name || pathutil.StripExtension(f) == name {
			return filepath.Join(dir, f), nil
		}
	}

	return "", fmt.Errorf("sound %q not found in %s", name, dir)
}
