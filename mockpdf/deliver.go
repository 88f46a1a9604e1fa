package mockpdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/slabforge/stonemock"
)

// DefaultReleaseAfter bounds how long a transient document file stays
// on disk after mobile delivery.
const DefaultReleaseAfter = 10 * time.Second

// Delivery hands a finished document to the host platform. The
// exporter stays platform agnostic; the caller picks the strategy,
// usually through PlatformDelivery.
type Delivery interface {
	Deliver(filename string, pdf []byte) error
}

// PlatformDelivery selects the strategy for a caller-supplied platform
// hint: mobile hosts get the open-or-download flow, desktop hosts the
// direct save. The core never detects the platform itself.
func PlatformDelivery(mobile bool, dir string) Delivery {
	if mobile {
		return &MobileOpenOrDownload{Dir: dir}
	}
	return DesktopSave{Dir: dir}
}

// DesktopSave writes the document straight into Dir under its derived
// filename, the desktop save action.
type DesktopSave struct {
	Dir string
}

func (d DesktopSave) Deliver(filename string, pdf []byte) error {
	path := filepath.Join(d.Dir, filename)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("mockpdf: saving document: %w", err)
	}
	stonemock.Logger().Debug("document saved", "path", path)
	return nil
}

// MobileOpenOrDownload materializes the document as a transient file,
// asks Opener to show it in a viewing context, and falls back to
// copying it into Dir (the synthesized download) when opening is
// blocked or no opener is wired.
//
// The transient file is released after ReleaseAfter no matter which
// path was taken. A failed release is a leak, logged as a defect,
// never an error of the delivery itself. Release forces the cleanup
// early.
type MobileOpenOrDownload struct {
	Dir          string
	Opener       func(path string) error
	ReleaseAfter time.Duration

	mu     sync.Mutex
	tmpDir string
	timer  *time.Timer
}

func (m *MobileOpenOrDownload) Deliver(filename string, pdf []byte) error {
	tmpDir, err := os.MkdirTemp("", "stonemock-")
	if err != nil {
		return fmt.Errorf("mockpdf: creating transient file: %w", err)
	}
	tmpPath := filepath.Join(tmpDir, filename)
	if err := os.WriteFile(tmpPath, pdf, 0o644); err != nil {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			stonemock.Logger().Warn("transient directory not released", "dir", tmpDir, "err", rmErr)
		}
		return fmt.Errorf("mockpdf: creating transient file: %w", err)
	}

	after := m.ReleaseAfter
	if after <= 0 {
		after = DefaultReleaseAfter
	}
	m.mu.Lock()
	m.tmpDir = tmpDir
	m.timer = time.AfterFunc(after, func() { m.release(tmpDir) })
	m.mu.Unlock()

	if m.Opener != nil {
		err := m.Opener(tmpPath)
		if err == nil {
			stonemock.Logger().Debug("document opened in viewer", "path", tmpPath)
			return nil
		}
		stonemock.Logger().Warn("viewer blocked, falling back to download", "path", tmpPath, "err", err)
	}

	dst := filepath.Join(m.Dir, filename)
	if err := os.WriteFile(dst, pdf, 0o644); err != nil {
		return fmt.Errorf("mockpdf: downloading document: %w", err)
	}
	stonemock.Logger().Debug("document downloaded", "path", dst)
	return nil
}

// Release removes the transient file now instead of waiting out the
// timer. Safe to call repeatedly and after the timer has fired.
func (m *MobileOpenOrDownload) Release() {
	m.mu.Lock()
	dir := m.tmpDir
	timer := m.timer
	m.tmpDir = ""
	m.timer = nil
	m.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if dir != "" {
		m.release(dir)
	}
}

func (m *MobileOpenOrDownload) release(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		stonemock.Logger().Warn("transient directory not released", "dir", dir, "err", err)
	}
}
