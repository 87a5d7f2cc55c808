package ir

import (
	"fmt"
	"os"
	"path/filepath"
)

// ImageBlock represents a picture and the embedded data it references.
type ImageBlock struct {
	ID       string `json:"id"`                  // BinData 이름 또는 HWPX binItem ID
	Path     string `json:"path,omitempty"`      // 저장된 파일 경로
	OrigName string `json:"orig_name,omitempty"` // 원본 스트림/파일 이름
	Alt      string `json:"alt,omitempty"`
	Width    int    `json:"width,omitempty"`  // 96 dpi 픽셀
	Height   int    `json:"height,omitempty"` // 96 dpi 픽셀
	Format   string `json:"format,omitempty"` // png, jpg, bmp ...
	Size     int    `json:"size,omitempty"`   // 데이터 바이트 수
	Data     []byte `json:"-"`
}

// NewImage creates a new image block with the given ID.
func NewImage(id string) *ImageBlock {
	return &ImageBlock{ID: id}
}

// SetData attaches the payload and records its size.
func (img *ImageBlock) SetData(data []byte) {
	img.Data = data
	img.Size = len(data)
}

// SetDimensions records the display size in pixels.
func (img *ImageBlock) SetDimensions(width, height int) {
	img.Width = width
	img.Height = height
}

// HasData returns true if the image has raw data loaded.
func (img *ImageBlock) HasData() bool {
	return len(img.Data) > 0
}

// Save writes the payload to dir/name and records the path.
func (img *ImageBlock) Save(dir, name string) error {
	if !img.HasData() {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("이미지 디렉토리 생성 실패: %w", err)
	}
	out := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(out, img.Data, 0644); err != nil {
		return fmt.Errorf("이미지 저장 실패: %w", err)
	}
	img.Path = out
	return nil
}
