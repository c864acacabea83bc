package pipeline

import (
	"fmt"

	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"
)

// testPixelData is a simple in-memory implementation of
// imagetypes.PixelData for tests
type testPixelData struct {
	frames    [][]byte
	frameInfo *imagetypes.FrameInfo
}

func newTestPixelData(frameInfo *imagetypes.FrameInfo) *testPixelData {
	return &testPixelData{
		frames:    make([][]byte, 0),
		frameInfo: frameInfo,
	}
}

// GetFrame returns the pixel data for the specified frame (0-indexed)
func (p *testPixelData) GetFrame(frameIndex int) ([]byte, error) {
	if frameIndex < 0 || frameIndex >= len(p.frames) {
		return nil, fmt.Errorf("frame index %d out of range", frameIndex)
	}
	return p.frames[frameIndex], nil
}

// AddFrame appends a new frame to the pixel data
func (p *testPixelData) AddFrame(frameData []byte) error {
	p.frames = append(p.frames, frameData)
	return nil
}

// FrameCount returns the number of frames in the pixel data
func (p *testPixelData) FrameCount() int {
	return len(p.frames)
}

// GetFrameInfo returns frame metadata
func (p *testPixelData) GetFrameInfo() *imagetypes.FrameInfo {
	return p.frameInfo
}

// IsEncapsulated returns true if pixel data is encapsulated (compressed)
func (p *testPixelData) IsEncapsulated() bool {
	return false
}
