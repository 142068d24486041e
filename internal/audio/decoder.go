package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/austinkregel/stemsep/internal/errs"
)

// ErrResource is returned when an input file is missing or its codec is
// unsupported; callers should treat this as fatal to the current call.
var ErrResource = errs.Resource

// FFmpegDecoder reads an arbitrary audio file by shelling out to ffmpeg,
// asking it to produce raw interleaved float32 stereo at TargetSampleRate.
// This keeps codec support (mp3/flac/aac/ogg/...) entirely out of the
// separator core.
type FFmpegDecoder struct {
	ffmpegPath  string
	ffprobePath string

	cmd    *exec.Cmd
	stdout io.ReadCloser
	info   *StreamInfo

	retries int // consecutive transient read failures on the current stream
}

// NewFFmpegDecoder locates ffmpeg/ffprobe on PATH.
func NewFFmpegDecoder() (*FFmpegDecoder, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg not found in PATH: %v", ErrResource, err)
	}

	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("%w: ffprobe not found in PATH: %v", ErrResource, err)
	}

	return &FFmpegDecoder{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}, nil
}

// Open starts decoding path into float32 little-endian stereo at 44100 Hz
// and returns the stream's duration/channel metadata.
func (d *FFmpegDecoder) Open(path string) (*StreamInfo, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrResource, path, err)
	}

	duration, channels, err := d.probe(path)
	if err != nil {
		return nil, fmt.Errorf("%w: probing %s: %v", ErrResource, path, err)
	}

	args := []string{
		"-v", "error",
		"-i", path,
		"-f", "f32le",
		"-acodec", "pcm_f32le",
		"-ac", strconv.Itoa(TargetChannels),
		"-ar", strconv.Itoa(TargetSampleRate),
		"-",
	}

	cmd := exec.Command(d.ffmpegPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %v", ErrResource, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting ffmpeg: %v", ErrResource, err)
	}

	d.cmd = cmd
	d.stdout = stdout
	d.info = &StreamInfo{Duration: duration, Channels: channels}

	return d.info, nil
}

// ReadFrames fills buf with interleaved float32 samples read from ffmpeg's
// stdout. A short read at end of stream returns the samples it got with
// eof=true and ok=true. Any other read failure returns ok=false (not an
// error) so the caller can retry; the fourth consecutive failure is
// returned as an error.
func (d *FFmpegDecoder) ReadFrames(buf []float32) (n int, eof bool, ok bool, err error) {
	byteBuf := make([]byte, len(buf)*4)
	read, readErr := io.ReadFull(d.stdout, byteBuf)

	if readErr == io.EOF && read == 0 {
		return 0, true, true, nil
	}

	// A short read at end of stream still carries usable samples.
	if readErr == io.ErrUnexpectedEOF || readErr == io.EOF {
		n := read / 4
		decodeFloat32LE(byteBuf[:n*4], buf[:n])
		return n, true, true, nil
	}

	if readErr != nil {
		d.retries++
		if d.retries > 3 {
			return 0, false, false, fmt.Errorf("decoder read failed after retries: %w", readErr)
		}
		return 0, false, false, nil
	}

	d.retries = 0
	n = read / 4
	decodeFloat32LE(byteBuf[:n*4], buf[:n])
	return n, false, true, nil
}

func decodeFloat32LE(b []byte, out []float32) {
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i : 4*i+4]))
	}
}

// Close stops the underlying ffmpeg process and reaps it.
func (d *FFmpegDecoder) Close() error {
	if d.cmd == nil || d.cmd.Process == nil {
		return nil
	}
	d.cmd.Process.Kill()
	return d.cmd.Wait()
}

// probe uses ffprobe to read duration and channel count without decoding.
func (d *FFmpegDecoder) probe(path string) (duration float64, channels int, err error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration:stream=channels",
		"-select_streams", "a:0",
		"-of", "default=noprint_wrappers=1",
		path,
	}

	cmd := exec.Command(d.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	channels = TargetChannels
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "duration":
			if v, perr := strconv.ParseFloat(kv[1], 64); perr == nil {
				duration = v
			}
		case "channels":
			if v, perr := strconv.Atoi(kv[1]); perr == nil {
				channels = v
			}
		}
	}

	return duration, channels, nil
}
