package audio

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// CheckFreeSpace returns an error if the filesystem backing dir has less
// than requiredBytes free. Separation jobs call this before writing WAV
// output, since a mid-write ENOSPC leaves a truncated, unusable file.
func CheckFreeSpace(dir string, requiredBytes uint64) error {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return fmt.Errorf("statfs %s: %w", dir, err)
	}

	available := stat.Bavail * uint64(stat.Bsize)
	if available < requiredBytes {
		return fmt.Errorf("%w: insufficient disk space in %s: need %d bytes, have %d", ErrResource, dir, requiredBytes, available)
	}
	return nil
}

// EstimateWAVBytes returns the on-disk size of a 16-bit PCM WAV holding
// numFrames frames of numChannels channels, plus the 44-byte header.
func EstimateWAVBytes(numFrames, numChannels int) uint64 {
	return uint64(numFrames*numChannels*2) + 44
}
