package mockpdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slabforge/stonemock/mockraster"
	"github.com/slabforge/stonemock/stone"
)

func TestWritePDFSinglePiece(t *testing.T) {
	doc, err := NewExporter().Compose(testArtifact(testPiece("sealed twice")))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(doc, &buf))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-1.")), "output should start with a PDF header")
	assert.True(t, bytes.Contains(out, []byte("%%EOF")), "output should carry the PDF trailer")
	assert.True(t, bytes.Contains(out, []byte("/Count 1")))
}

func TestWritePDFPageCount(t *testing.T) {
	pieces := make([]stone.Piece, 5)
	artifacts := make([]*mockraster.Artifact, 5)
	for i := range pieces {
		pieces[i] = testPiece("")
		artifacts[i] = testArtifact(pieces[i])
	}
	doc, err := NewExporter().ComposeProject("Lobby", pieces, artifacts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(doc, &buf))
	assert.True(t, bytes.Contains(buf.Bytes(), []byte("/Count 5")))
}

func TestWritePDFPlaceholderPage(t *testing.T) {
	pieces := []stone.Piece{testPiece(""), testPiece("")}
	artifacts := []*mockraster.Artifact{testArtifact(pieces[0]), nil}
	doc, err := NewExporter().ComposeProject("p", pieces, artifacts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(doc, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-1.")))
}

func TestWritePDFRejectsEmptyDocument(t *testing.T) {
	var buf bytes.Buffer

	err := WritePDF(nil, &buf)
	require.ErrorIs(t, err, ErrNothingToExport)

	err = WritePDF(&Document{Title: "empty"}, &buf)
	require.ErrorIs(t, err, ErrNothingToExport)
	assert.Zero(t, buf.Len(), "nothing should be written on validation failure")
}
