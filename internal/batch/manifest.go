package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"cloud-carousel/internal/carousel"
)

// Manifest describes a rendered frame sequence.
type Manifest struct {
	FrameIntervalMs int64           `json:"frame_interval_ms"`
	Frames          []ManifestFrame `json:"frames"`
	Items           []ManifestItem  `json:"items"`
}

// ManifestFrame represents one encoded frame.
type ManifestFrame struct {
	Frame int    `json:"frame"`
	Image string `json:"image"`
}

// ManifestItem represents one carousel image.
type ManifestItem struct {
	Index  int    `json:"index"`
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// WriteManifest writes manifest.json listing the successful frames and
// the items they show.
func WriteManifest(path string, results []Result, items []*carousel.Item, interval time.Duration) error {
	m := Manifest{
		FrameIntervalMs: interval.Milliseconds(),
		Frames:          []ManifestFrame{},
		Items:           make([]ManifestItem, len(items)),
	}
	for _, r := range results {
		if r.Success {
			m.Frames = append(m.Frames, ManifestFrame{Frame: r.Frame, Image: filepath.ToSlash(r.Name)})
		}
	}
	for i, it := range items {
		m.Items[i] = ManifestItem{
			Index:  it.Index,
			Src:    it.Src,
			Alt:    it.Alt,
			Title:  it.Title,
			Width:  it.Width,
			Height: it.Height,
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
