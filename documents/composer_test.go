package documents

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPazYSalvoFields() PazYSalvoFields {
	return PazYSalvoFields{
		PlayerName:    "Juan Pérez",
		SchoolName:    "Atlético Ocaña",
		CoachName:     "Carlos Gómez",
		PresidentName: "María Quintero",
		Date:          "15/03/2026",
	}
}

func validTransferFields() TransferFields {
	return TransferFields{
		PlayerName:    "Juan Pérez",
		FromSchool:    "Atlético Ocaña",
		ToInstitution: "Real Ocaña",
		Date:          "15/03/2026",
	}
}

func TestComposePazYSalvoRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PazYSalvoFields)
	}{
		{"empty player name", func(f *PazYSalvoFields) { f.PlayerName = "" }},
		{"whitespace player name", func(f *PazYSalvoFields) { f.PlayerName = "   " }},
		{"empty school name", func(f *PazYSalvoFields) { f.SchoolName = "" }},
		{"empty coach name", func(f *PazYSalvoFields) { f.CoachName = "" }},
		{"empty president name", func(f *PazYSalvoFields) { f.PresidentName = "" }},
		{"empty date", func(f *PazYSalvoFields) { f.Date = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validPazYSalvoFields()
			tt.mutate(&fields)

			doc, err := ComposePazYSalvo(fields, LogoOptions{})
			assert.Nil(t, doc, "no document should be produced on validation failure")
			assert.ErrorIs(t, err, ErrFieldRequired)
		})
	}
}

func TestComposePazYSalvoOptionalFields(t *testing.T) {
	fields := validPazYSalvoFields()
	fields.Observaciones = "Entrega pendiente de carné"
	fields.Motivo = "Cambio de ciudad"

	doc, err := ComposePazYSalvo(fields, LogoOptions{})
	require.NoError(t, err)
	require.NotNil(t, doc)

	// Sin opcionales también compone.
	doc, err = ComposePazYSalvo(validPazYSalvoFields(), LogoOptions{})
	require.NoError(t, err)
	require.NotNil(t, doc)
}

func TestComposeTransferenciaRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TransferFields)
	}{
		{"empty player name", func(f *TransferFields) { f.PlayerName = "" }},
		{"empty origin school", func(f *TransferFields) { f.FromSchool = "" }},
		{"empty destination", func(f *TransferFields) { f.ToInstitution = "" }},
		{"whitespace destination", func(f *TransferFields) { f.ToInstitution = "  \t " }},
		{"empty date", func(f *TransferFields) { f.Date = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validTransferFields()
			tt.mutate(&fields)

			doc, err := ComposeTransferencia(fields, LogoOptions{})
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, ErrFieldRequired)
		})
	}
}

func TestComposeTransferenciaFreeAgent(t *testing.T) {
	fields := validTransferFields()
	fields.ToInstitution = FreeAgent

	doc, err := ComposeTransferencia(fields, LogoOptions{})
	require.NoError(t, err)
	require.NotNil(t, doc)
}

// Un logo pedido pero sin URL ni bytes debe producir exactamente el mismo
// documento que no pedirlo.
func TestComposeLogoWithoutDataIsNoOp(t *testing.T) {
	fixed := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	withLogo, err := ComposePazYSalvo(validPazYSalvoFields(), LogoOptions{
		Include:  true,
		URL:      nil,
		Position: PositionHeader,
	})
	require.NoError(t, err)

	withoutLogo, err := ComposePazYSalvo(validPazYSalvoFields(), LogoOptions{Include: false})
	require.NoError(t, err)

	assert.Equal(t, renderWithDate(t, withLogo, fixed), renderWithDate(t, withoutLogo, fixed),
		"logo include without data must not change the output")
}

// Una imagen cuyo encabezado es válido pero cuyos datos están truncados
// pasa la validación previa y falla al registrarse en el renderizador. El
// certificado debe componerse igual, sin logo.
func TestComposeSurvivesTruncatedLogoImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encodeTestPNG(&buf))
	truncated := buf.Bytes()[:40]

	url := "https://cdn.test/logos/atletico.png"
	doc, err := ComposePazYSalvo(validPazYSalvoFields(), LogoOptions{
		Include:     true,
		URL:         &url,
		Data:        truncated,
		ContentType: "image/png",
		Position:    PositionHeader,
	})
	require.NoError(t, err)
	require.NotNil(t, doc)

	var out bytes.Buffer
	require.NoError(t, doc.Output(&out), "a broken logo must not poison the document")
}

func encodeTestPNG(w io.Writer) error {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return png.Encode(w, img)
}

func renderWithDate(t *testing.T, doc *gofpdf.Fpdf, at time.Time) []byte {
	t.Helper()
	doc.SetCreationDate(at)
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}
