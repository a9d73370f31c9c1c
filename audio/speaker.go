package audio

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Replaced in tests
var (
	openSpeaker  = openBeepSpeaker
	closeSpeaker = speaker.Close
)

// openBeepSpeaker plays PCM read from r through the in-process speaker
func openBeepSpeaker(r io.Reader) error {
	if err := speaker.Init(beepRate, beepRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(newPCMStreamer(r))
	return nil
}

// pcmStreamer decodes s16le stereo frames into beep samples
// The mixer writes in real time, so reads block until the next buffer
type pcmStreamer struct {
	r   io.Reader
	buf []byte
	err error
}

var _ beep.Streamer = (*pcmStreamer)(nil)

func newPCMStreamer(r io.Reader) *pcmStreamer {
	return &pcmStreamer{r: r}
}

func (p *pcmStreamer) Stream(samples [][2]float64) (int, bool) {
	if p.err != nil {
		return 0, false
	}

	need := len(samples) * BytesPerFrame
	if cap(p.buf) < need {
		p.buf = make([]byte, need)
	}
	buf := p.buf[:need]

	n, err := io.ReadFull(p.r, buf)
	frames := n / BytesPerFrame
	for i := 0; i < frames; i++ {
		off := i * BytesPerFrame
		samples[i][0] = float64(int16(binary.LittleEndian.Uint16(buf[off:]))) / 32768
		samples[i][1] = float64(int16(binary.LittleEndian.Uint16(buf[off+2:]))) / 32768
	}
	if err != nil {
		p.err = err
		return frames, frames > 0
	}
	return frames, true
}

func (p *pcmStreamer) Err() error {
	if p.err == io.EOF || p.err == io.ErrUnexpectedEOF || p.err == io.ErrClosedPipe {
		return nil
	}
	return p.err
}
