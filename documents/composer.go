// Package documents compone los certificados imprimibles de la corporación:
// el paz y salvo que expide una escuela y el certificado de transferencia
// que expide la corporación.
package documents

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jung-kurt/gofpdf"
)

type Kind string

const (
	KindPazYSalvo     Kind = "paz-y-salvo"
	KindTransferencia Kind = "transferencia"
)

var ErrFieldRequired = errors.New("required field missing")

// FreeAgent es el destino literal que significa "sin institución destino".
const FreeAgent = "Libre"

var validate = validator.New()

// PazYSalvoFields son los campos del paz y salvo de entrenador.
// Observaciones y Motivo son opcionales; vacíos, su párrafo se omite.
type PazYSalvoFields struct {
	PlayerName    string `validate:"required"`
	SchoolName    string `validate:"required"`
	CoachName     string `validate:"required"`
	PresidentName string `validate:"required"`
	Date          string `validate:"required"`
	City          string
	Observaciones string
	Motivo        string
}

// TransferFields son los campos del certificado de transferencia. El
// destino puede ser el literal "Libre".
type TransferFields struct {
	PlayerName    string `validate:"required"`
	FromSchool    string `validate:"required"`
	ToInstitution string `validate:"required"`
	Date          string `validate:"required"`
}

const (
	bodyLeft    = 20.0
	bodyWidth   = 170.0
	lineHeight  = 6.0
	pageBreakAt = 270.0
)

// newDoc crea un documento A4 vertical con el traductor cp1252 para los
// acentos del texto legal en español.
func newDoc() (*gofpdf.Fpdf, func(string) string) {
	doc := gofpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()
	return doc, tr
}

// ComposePazYSalvo valida los campos y arma el paz y salvo. La validación
// ocurre antes de cualquier dibujo; un campo requerido vacío o en blanco
// no deja nada a medio renderizar.
func ComposePazYSalvo(fields PazYSalvoFields, logo LogoOptions) (*gofpdf.Fpdf, error) {
	if err := validateFields(&fields); err != nil {
		return nil, err
	}

	doc, tr := newDoc()

	if logo.Position == PositionWatermark {
		addLogo(doc, logo) // debajo del texto
	}

	doc.SetFont("Helvetica", "B", 14)
	doc.SetXY(bodyLeft, 40)
	doc.CellFormat(bodyWidth, 8, tr("ESCUELA / CLUB DE FÚTBOL "+strings.ToUpper(fields.SchoolName)), "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "B", 12)
	doc.SetX(bodyLeft)
	doc.CellFormat(bodyWidth, 8, tr("PAZ Y SALVO DE JUGADOR"), "", 1, "C", false, 0, "")

	city := strings.TrimSpace(fields.City)
	if city == "" {
		city = "Ocaña"
	}

	paragraphs := []string{
		fmt.Sprintf("La presente certifica que el jugador %s, quien pertenece o perteneció a la Escuela/Club %s, se encuentra paz y salvo por todo concepto deportivo, administrativo y disciplinario dentro de nuestra institución.",
			fields.PlayerName, fields.SchoolName),
		"Después de revisar los registros internos y confirmar que no existe pendiente alguna que impida su retiro o traslado, la escuela otorga plena autorización para que el mencionado jugador pueda retirarse de la institución y continuar su proceso formativo en cualquier otra escuela, club o entidad deportiva de su elección.",
		"Este paz y salvo se expide a solicitud del jugador, con el fin de ser presentado ante la Corporación de Fútbol Ocañero, entidad encargada de validar y formalizar su traslado conforme a los lineamientos establecidos.",
	}
	if motivo := strings.TrimSpace(fields.Motivo); motivo != "" {
		paragraphs = append(paragraphs, fmt.Sprintf("Motivo del retiro: %s.", motivo))
	}
	if obs := strings.TrimSpace(fields.Observaciones); obs != "" {
		paragraphs = append(paragraphs, fmt.Sprintf("Observaciones: %s", obs))
	}
	paragraphs = append(paragraphs,
		fmt.Sprintf("Se firma para constancia en la ciudad de %s, a los %s.", city, fields.Date))

	writeBody(doc, tr, 70, paragraphs)
	writeSignatures(doc, tr, [2]signature{
		{name: fields.CoachName, role: "Entrenador / Director Técnico", org: "Escuela " + fields.SchoolName},
		{name: fields.PresidentName, role: "Presidente / Representante Legal", org: "Escuela " + fields.SchoolName},
	})

	if logo.Position != PositionWatermark {
		addLogo(doc, logo)
	}

	if doc.Err() {
		return nil, fmt.Errorf("failed to compose paz y salvo: %w", doc.Error())
	}
	return doc, nil
}

// ComposeTransferencia arma el certificado de transferencia expedido por la
// corporación.
func ComposeTransferencia(fields TransferFields, logo LogoOptions) (*gofpdf.Fpdf, error) {
	if err := validateFields(&fields); err != nil {
		return nil, err
	}

	doc, tr := newDoc()

	if logo.Position == PositionWatermark {
		addLogo(doc, logo)
	}

	doc.SetFont("Helvetica", "B", 14)
	doc.SetXY(bodyLeft, 30)
	doc.CellFormat(bodyWidth, 8, tr("CORPORACIÓN DE FÚTBOL OCAÑERO"), "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "B", 12)
	doc.SetX(bodyLeft)
	doc.CellFormat(bodyWidth, 8, tr("CERTIFICADO DE TRANSFERENCIA DE JUGADOR"), "", 1, "C", false, 0, "")

	paragraphs := []string{
		fmt.Sprintf("La Corporación de Fútbol Ocañero certifica que el jugador %s, identificado en nuestros registros deportivos, se encuentra paz y salvo con esta institución y no presenta obligaciones pendientes que restrinjan su movilidad entre escuelas o clubes formativos.",
			fields.PlayerName),
		fmt.Sprintf("En consecuencia, la Corporación autoriza de manera oficial la transferencia del jugador desde la escuela o club %s hacia la institución deportiva %s, garantizando así la continuidad de su proceso formativo y deportivo.",
			fields.FromSchool, fields.ToInstitution),
		"Este certificado se expide a solicitud de la parte interesada para los fines que estime convenientes.",
		fmt.Sprintf("Dado en Ocaña, a los %s.", fields.Date),
	}

	writeBody(doc, tr, 60, paragraphs)
	writeSignatures(doc, tr, [2]signature{
		{name: "__________________________________", role: "Corporación de Fútbol Ocañero", org: "Dirección Administrativa"},
	})

	if logo.Position != PositionWatermark {
		addLogo(doc, logo)
	}

	if doc.Err() {
		return nil, fmt.Errorf("failed to compose transferencia: %w", doc.Error())
	}
	return doc, nil
}

// validateFields recorta espacios en los campos string del struct y aplica
// las etiquetas de validación; un campo sólo de espacios cuenta como vacío.
func validateFields(fields interface{}) error {
	trimStringFields(fields)
	if err := validate.Struct(fields); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", ErrFieldRequired, verrs[0].Field())
		}
		return err
	}
	return nil
}

func writeBody(doc *gofpdf.Fpdf, tr func(string) string, startY float64, paragraphs []string) {
	doc.SetFont("Helvetica", "", 10)
	doc.SetXY(bodyLeft, startY)

	for _, paragraph := range paragraphs {
		if doc.GetY() > pageBreakAt {
			doc.AddPage()
			doc.SetY(20)
		}
		doc.SetX(bodyLeft)
		doc.MultiCell(bodyWidth, lineHeight, tr(paragraph), "", "J", false)
		doc.Ln(lineHeight)
	}
}

type signature struct {
	name string
	role string
	org  string
}

// writeSignatures dibuja el bloque de firmas completo en una sola página:
// si no cabe en la actual, pasa entero a la siguiente.
func writeSignatures(doc *gofpdf.Fpdf, tr func(string) string, sigs [2]signature) {
	const blockHeight = 25.0

	y := doc.GetY() + 10
	if y+blockHeight > pageBreakAt {
		doc.AddPage()
		y = 30
	}

	columns := []float64{50, 140}
	for i, sig := range sigs {
		if sig.name == "" {
			continue
		}
		x := columns[i]
		doc.SetFont("Helvetica", "B", 10)
		doc.Text(x, y, tr(sig.name))
		doc.SetFont("Helvetica", "", 8)
		doc.Text(x, y+5, tr(sig.role))
		doc.Text(x, y+10, tr(sig.org))
	}
	doc.SetY(y + blockHeight)
}
