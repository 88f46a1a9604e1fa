package mockpdf

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slabforge/stonemock/mockraster"
	"github.com/slabforge/stonemock/stone"
)

func testPiece(notes string) stone.Piece {
	return stone.NewPiece(stone.Spec{
		Width:         24,
		Height:        4,
		PolishedEdges: stone.NewEdgeSet(stone.EdgeTop, stone.EdgeBottom),
		Material:      "quartz",
		Thickness:     "2cm",
		Quantity:      1,
	}, notes)
}

// testArtifact fabricates a tiny rendered artifact; composition only
// needs an encodable image, not a faithful mockup.
func testArtifact(piece stone.Piece) *mockraster.Artifact {
	return &mockraster.Artifact{Piece: piece, Image: image.NewRGBA(image.Rect(0, 0, 8, 6))}
}

func phaseRecorder(phases *[]Phase) Option {
	return WithProgress(func(p Phase) { *phases = append(*phases, p) })
}

func TestComposeSinglePage(t *testing.T) {
	var phases []Phase
	e := NewExporter(phaseRecorder(&phases))

	doc, err := e.Compose(testArtifact(testPiece("")))
	require.NoError(t, err)

	assert.Equal(t, `Stone Mockup: 24" × 4"`, doc.Title)
	assert.Equal(t, "stone-mockup-24x4.pdf", doc.Filename)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, []Phase{PhaseValidating, PhaseRendering}, phases)

	page := doc.Pages[0]
	require.Len(t, page.Texts, 5)
	assert.Equal(t, Text{Value: `Stone Mockup: 24" × 4"`, Size: titleFontSize, Bold: true, Offset: 0}, page.Texts[0])
	assert.Equal(t, Text{Value: "Material: Quartz", Size: bodyFontSize, Offset: 10}, page.Texts[1])
	assert.Equal(t, Text{Value: "Thickness: 2cm", Size: bodyFontSize, Offset: 15}, page.Texts[2])
	assert.Equal(t, Text{Value: "Quantity: 1", Size: bodyFontSize, Offset: 20}, page.Texts[3])
	assert.Equal(t, Text{Value: "Polished Edges: top, bottom", Size: bodyFontSize, Offset: 25}, page.Texts[4])

	require.NotNil(t, page.Image)
	assert.Nil(t, page.Placeholder)
	assert.True(t, bytes.HasPrefix(page.Image.PNG, []byte("\x89PNG")), "image slot should hold encoded PNG bytes")
	assert.Equal(t, 34.0, page.Image.Offset)
}

func TestComposeFractionalDimensions(t *testing.T) {
	piece := testPiece("")
	piece.Spec.Width = 24.5
	piece.Spec.Height = 4.25

	doc, err := NewExporter().Compose(testArtifact(piece))
	require.NoError(t, err)
	assert.Equal(t, `Stone Mockup: 24-1/2" × 4-1/4"`, doc.Title)
	assert.Equal(t, "stone-mockup-24-1_2x4-1_4.pdf", doc.Filename)
}

func TestComposeNoEdgesLine(t *testing.T) {
	piece := testPiece("")
	piece.Spec.PolishedEdges = stone.NewEdgeSet()

	doc, err := NewExporter().Compose(testArtifact(piece))
	require.NoError(t, err)
	assert.Equal(t, "Polished Edges: None", doc.Pages[0].Texts[4].Value)
}

func TestComposeRejectsMissingArtifact(t *testing.T) {
	for name, art := range map[string]*mockraster.Artifact{
		"nil artifact":      nil,
		"nil image":         {Piece: testPiece("")},
		"unencodable image": {Piece: testPiece(""), Image: image.NewRGBA(image.Rect(0, 0, 0, 0))},
	} {
		t.Run(name, func(t *testing.T) {
			var phases []Phase
			doc, err := NewExporter(phaseRecorder(&phases)).Compose(art)
			assert.Nil(t, doc)
			require.ErrorIs(t, err, ErrNothingToExport)
			assert.Equal(t, []Phase{PhaseValidating, PhaseFailed}, phases)
		})
	}
}

func TestComposeNotesShiftImageSlot(t *testing.T) {
	cases := []struct {
		name       string
		notes      string
		wantExtra  int
		wantOffset float64
	}{
		{"no notes", "", 0, 34},
		{"one line", "install against north wall", 1, 39},
		// one unbreakable 300-char run wraps to "Notes:" plus three
		// full columns plus the 15-char tail
		{"capped shift", strings.Repeat("x", 300), 5, 44},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc, err := NewExporter().Compose(testArtifact(testPiece(c.notes)))
			require.NoError(t, err)
			page := doc.Pages[0]
			assert.Len(t, page.Texts, 5+c.wantExtra)
			require.NotNil(t, page.Image)
			assert.Equal(t, c.wantOffset, page.Image.Offset)
			if c.wantExtra > 0 {
				assert.True(t, strings.HasPrefix(page.Texts[5].Value, "Notes:"))
				assert.Equal(t, 30.0, page.Texts[5].Offset)
			}
		})
	}
}

func TestComposeProjectPagination(t *testing.T) {
	pieces := make([]stone.Piece, 5)
	artifacts := make([]*mockraster.Artifact, 5)
	for i := range pieces {
		pieces[i] = testPiece("")
		pieces[i].Spec.Width = float64(10 + i)
		artifacts[i] = testArtifact(pieces[i])
	}

	e := NewExporter(WithNow(func() time.Time {
		return time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	}))
	doc, err := e.ComposeProject("Kitchen Remodel", pieces, artifacts)
	require.NoError(t, err)

	assert.Equal(t, "Kitchen Remodel", doc.Title)
	assert.Equal(t, "kitchen-remodel-stone-project.pdf", doc.Filename)
	require.Len(t, doc.Pages, 5)

	first := doc.Pages[0]
	require.True(t, len(first.Texts) >= 4)
	assert.Equal(t, Text{Value: "Kitchen Remodel", Size: titleFontSize, Bold: true, Offset: 0}, first.Texts[0])
	assert.Equal(t, Text{Value: "Generated: June 1, 2026", Size: bodyFontSize, Offset: 10}, first.Texts[1])
	assert.Equal(t, Text{Value: "Total pieces: 5", Size: bodyFontSize, Offset: 15}, first.Texts[2])
	assert.Equal(t, Text{Value: `Piece 1: 10" × 4"`, Size: titleFontSize, Bold: true, Offset: headerHeight}, first.Texts[3])

	for i := 1; i < 5; i++ {
		page := doc.Pages[i]
		require.NotEmpty(t, page.Texts)
		wantTitle := fmt.Sprintf(`Piece %d: %d" × 4"`, i+1, 10+i)
		assert.Equal(t, Text{Value: wantTitle, Size: titleFontSize, Bold: true, Offset: 0}, page.Texts[0])
		require.NotNil(t, page.Image)
	}
}

func TestComposeProjectYieldsBetweenBatches(t *testing.T) {
	cases := []struct {
		pieces     int
		batchSize  int
		wantYields int
	}{
		{5, 2, 2},
		{4, 2, 1},
		{2, 2, 0},
		{3, 1, 2},
	}
	for _, c := range cases {
		pieces := make([]stone.Piece, c.pieces)
		artifacts := make([]*mockraster.Artifact, c.pieces)
		for i := range pieces {
			pieces[i] = testPiece("")
			artifacts[i] = testArtifact(pieces[i])
		}

		yields := 0
		e := NewExporter(WithBatchSize(c.batchSize), WithYield(func() { yields++ }))
		_, err := e.ComposeProject("p", pieces, artifacts)
		require.NoError(t, err)
		assert.Equal(t, c.wantYields, yields, "%d pieces in batches of %d", c.pieces, c.batchSize)
	}
}

func TestComposeProjectRejectsEmptyInput(t *testing.T) {
	piece := testPiece("")

	var phases []Phase
	_, err := NewExporter(phaseRecorder(&phases)).ComposeProject("p", nil, nil)
	require.ErrorIs(t, err, ErrNothingToExport)
	assert.Contains(t, err.Error(), "empty piece list")
	assert.Equal(t, []Phase{PhaseValidating, PhaseFailed}, phases)

	_, err = NewExporter().ComposeProject("p", []stone.Piece{piece}, nil)
	require.ErrorIs(t, err, ErrNothingToExport)
	assert.Contains(t, err.Error(), "no rendered artifacts")
}

func TestComposeProjectPlaceholderForMissingArtifact(t *testing.T) {
	pieces := []stone.Piece{testPiece(""), testPiece(""), testPiece("")}
	artifacts := []*mockraster.Artifact{testArtifact(pieces[0]), nil, testArtifact(pieces[2])}

	doc, err := NewExporter().ComposeProject("p", pieces, artifacts)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 3)

	assert.NotNil(t, doc.Pages[0].Image)
	assert.NotNil(t, doc.Pages[2].Image)

	broken := doc.Pages[1]
	assert.Nil(t, broken.Image)
	require.NotNil(t, broken.Placeholder)
	assert.Equal(t, "Mockup image unavailable for this piece", broken.Placeholder.Message)
	assert.Equal(t, 34.0, broken.Placeholder.Offset)
}

func TestComposeProjectShortArtifactList(t *testing.T) {
	pieces := []stone.Piece{testPiece(""), testPiece("")}
	artifacts := []*mockraster.Artifact{testArtifact(pieces[0])}

	doc, err := NewExporter().ComposeProject("p", pieces, artifacts)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)
	assert.NotNil(t, doc.Pages[0].Image)
	assert.NotNil(t, doc.Pages[1].Placeholder)
}

func TestComposeProjectDefaultName(t *testing.T) {
	pieces := []stone.Piece{testPiece("")}
	artifacts := []*mockraster.Artifact{testArtifact(pieces[0])}

	doc, err := NewExporter().ComposeProject("", pieces, artifacts)
	require.NoError(t, err)
	assert.Equal(t, "Stone Project", doc.Title)
	assert.Equal(t, "untitled-stone-project.pdf", doc.Filename)
	assert.Equal(t, "Stone Project", doc.Pages[0].Texts[0].Value)
}

func TestSingleFilename(t *testing.T) {
	cases := []struct {
		w, h float64
		want string
	}{
		{24, 4, "stone-mockup-24x4.pdf"},
		{24.5, 4.25, "stone-mockup-24-1_2x4-1_4.pdf"},
		{0.75, 0.5, "stone-mockup-3_4x1_2.pdf"},
	}
	for _, c := range cases {
		got := SingleFilename(stone.Spec{Width: c.w, Height: c.h})
		assert.Equal(t, c.want, got)
	}
}

func TestProjectFilename(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Kitchen Remodel", "kitchen-remodel-stone-project.pdf"},
		{"A--B", "a-b-stone-project.pdf"},
		{"  Smith / Jones #2  ", "smith-jones-2-stone-project.pdf"},
		{"", "untitled-stone-project.pdf"},
		{"!!!", "untitled-stone-project.pdf"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ProjectFilename(c.name), "name %q", c.name)
	}
}

func TestWrapText(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{"empty", "", 10, nil},
		{"blank", "   ", 10, nil},
		{"fits", "hello", 10, []string{"hello"}},
		{"greedy", "one two three", 9, []string{"one two", "three"}},
		{"long word", "abcdefghijkl", 5, []string{"abcde", "fghij", "kl"}},
		{"long multibyte word", strings.Repeat("é", 7), 5, []string{"ééééé", "éé"}},
		{"paragraphs", "a\n\nb", 10, []string{"a", "", "b"}},
		{"collapses spaces", "a   b", 10, []string{"a b"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, wrapText(c.in, c.width))
		})
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "validating", PhaseValidating.String())
	assert.Equal(t, "rendering", PhaseRendering.String())
	assert.Equal(t, "finalizing", PhaseFinalizing.String())
	assert.Equal(t, "delivered", PhaseDelivered.String())
	assert.Equal(t, "failed", PhaseFailed.String())
	assert.Equal(t, "<unknown phase>", Phase(42).String())
}
