package render

import (
	"bufio"
	"fmt"
	"os"
)

// ExportFileName is the suggested name for downloaded images.
const ExportFileName = "ring-pfp.png"

// WriteFile encodes the surface as PNG into path.
func (s *Surface) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := s.EncodePNG(w); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	return f.Close()
}
