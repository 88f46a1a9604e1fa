// Command stonemock renders the pieces of a stone project file and
// exports them as a paginated PDF document.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/slabforge/stonemock"
	"github.com/slabforge/stonemock/mockpdf"
	"github.com/slabforge/stonemock/mockraster"
	"github.com/slabforge/stonemock/project"
)

func main() {
	var (
		projectPath = flag.String("project", "project.yaml", "project file to render")
		outDir      = flag.String("out", ".", "output directory")
		writePNG    = flag.Bool("png", false, "also write each mockup as a PNG")
		mobile      = flag.Bool("mobile", false, "deliver through the mobile open-or-download flow")
		verbose     = flag.Bool("v", false, "debug logging to stderr")
	)
	flag.Parse()

	if *verbose {
		stonemock.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	proj, err := project.LoadFile(*projectPath)
	if err != nil {
		log.Fatalf("Loading project: %v", err)
	}

	pieces := proj.Pieces()
	opts := proj.Options()
	cache := mockraster.NewPatternCache(mockraster.DefaultCacheSize)

	artifacts := make([]*mockraster.Artifact, len(pieces))
	for i, piece := range pieces {
		art, err := mockraster.RenderPiece(piece, opts, cache)
		if err != nil {
			log.Fatalf("Rendering piece %d: %v", i+1, err)
		}
		artifacts[i] = art

		if *writePNG {
			name := fmt.Sprintf("piece-%02d.png", i+1)
			if err := writeArtifactPNG(art, filepath.Join(*outDir, name)); err != nil {
				log.Fatalf("Writing %s: %v", name, err)
			}
		}
	}

	delivery := mockpdf.PlatformDelivery(*mobile, *outDir)
	if m, ok := delivery.(*mockpdf.MobileOpenOrDownload); ok {
		defer m.Release()
	}

	exporter := mockpdf.NewExporter()
	var filename string
	if len(pieces) == 1 {
		filename, err = exporter.ExportPiece(artifacts[0], delivery)
	} else {
		filename, err = exporter.ExportProject(proj.Name, pieces, artifacts, delivery)
	}
	if err != nil {
		log.Fatalf("Exporting: %v", err)
	}

	log.Printf("Exported %d piece(s) to %s", len(pieces), filename)
}

func writeArtifactPNG(art *mockraster.Artifact, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := art.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
