package audio

import (
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

// Replaced in tests
var (
	lookPath = exec.LookPath
	statPath = os.Stat
)

var rate = strconv.Itoa(SampleRate)

// pipeCandidates are CLI players accepting raw s16le stereo on stdin, in priority order
var pipeCandidates = []BackendConfig{
	{Type: BackendPulse, Name: "pacat", Args: []string{
		"--raw", "--format=s16le", "--rate=" + rate, "--channels=2", "--latency-msec=50", "--playback",
	}},
	{Type: BackendPipeWire, Name: "pw-cat", Args: []string{
		"--playback", "--format=s16", "--rate=" + rate, "--channels=2", "--latency=50ms", "-",
	}},
	{Type: BackendALSA, Name: "aplay", Args: []string{
		"-t", "raw", "-f", "S16_LE", "-r", rate, "-c", "2", "-q",
	}},
	{Type: BackendSoX, Name: "play", Args: []string{
		"-t", "raw", "-e", "signed", "-b", "16", "-c", "2", "-r", rate, "-", "-d", "-q",
	}},
	{Type: BackendFFplay, Name: "ffplay", Args: []string{
		"-nodisp", "-autoexit", "-f", "s16le", "-ac", "2", "-ar", rate,
		"-probesize", "32", "-analyzeduration", "0", "-i", "pipe:0", "-loglevel", "quiet",
	}},
}

// DetectBackend searches for an available pipe backend
// Priority: pacat > pw-cat > aplay > play (sox) > ffplay > OSS
func DetectBackend() (*BackendConfig, error) {
	for _, c := range pipeCandidates {
		path, err := lookPath(c.Name)
		if err != nil {
			continue
		}
		bc := c
		bc.Path = path
		bc.Args = append([]string(nil), c.Args...)
		return &bc, nil
	}

	// FreeBSD OSS, written directly without exec
	if runtime.GOOS == "freebsd" {
		if _, err := statPath("/dev/dsp"); err == nil {
			return &BackendConfig{Type: BackendOSS, Name: "oss", Path: "/dev/dsp"}, nil
		}
	}

	return nil, ErrNoAudioBackend
}
