package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/corfutbolocanero/roster-service/documents"
	"github.com/corfutbolocanero/roster-service/driveurl"
	"github.com/corfutbolocanero/roster-service/models"
)

const logoFetchTimeout = 10 * time.Second

type CertificateService interface {
	GeneratePazYSalvo(ctx context.Context, actorID string, input PazYSalvoInput) (*Certificate, error)
	GenerateTransferencia(ctx context.Context, actorID string, input TransferInput) (*Certificate, error)
}

type PazYSalvoInput struct {
	PlayerID      string                 `json:"player_id"`
	CoachName     string                 `json:"coach_name"`
	PresidentName string                 `json:"president_name"`
	City          string                 `json:"city"`
	Observaciones string                 `json:"observaciones"`
	Motivo        string                 `json:"motivo"`
	IncludeLogo   bool                   `json:"include_logo"`
	LogoPosition  documents.LogoPosition `json:"logo_position"`
}

type TransferInput struct {
	PlayerID      string `json:"player_id"`
	ToInstitution string `json:"to_institution"`
	IncludeLogo   bool   `json:"include_logo"`
}

// Certificate es un documento listo para descargar.
type Certificate struct {
	Data     []byte
	Filename string
}

type certificateService struct {
	playerService PlayerService
	logoResolver  *LogoResolver
	fetcher       *driveurl.Fetcher
	logger        *slog.Logger
	now           func() time.Time
}

func NewCertificateService(
	playerService PlayerService,
	logoResolver *LogoResolver,
	logger *slog.Logger,
) CertificateService {
	return &certificateService{
		playerService: playerService,
		logoResolver:  logoResolver,
		fetcher:       driveurl.NewFetcher(logoFetchTimeout),
		logger:        logger,
		now:           time.Now,
	}
}

// GeneratePazYSalvo expide el paz y salvo de un jugador con el escudo de su
// escuela. El acceso al jugador ya aplica el alcance por rol.
func (s *certificateService) GeneratePazYSalvo(ctx context.Context, actorID string, input PazYSalvoInput) (*Certificate, error) {
	player, err := s.playerService.GetPlayerByID(ctx, actorID, input.PlayerID)
	if err != nil {
		return nil, err
	}

	schoolName := ""
	if player.Escuela != nil {
		schoolName = player.Escuela.Nombre
	}

	fields := documents.PazYSalvoFields{
		PlayerName:    playerFullName(player),
		SchoolName:    schoolName,
		CoachName:     input.CoachName,
		PresidentName: input.PresidentName,
		Date:          s.now().Format("02/01/2006"),
		City:          input.City,
		Observaciones: input.Observaciones,
		Motivo:        input.Motivo,
	}

	logoURL := s.logoResolver.ResolveSchoolLogo(player.Escuela)
	logo := s.buildLogo(ctx, input.IncludeLogo, logoURL, input.LogoPosition)

	doc, err := documents.ComposePazYSalvo(fields, logo)
	if err != nil {
		return nil, s.mapComposeError(err)
	}
	return s.render(doc, documents.KindPazYSalvo, player)
}

// GenerateTransferencia expide el certificado de transferencia con el logo
// de la corporación como marca de agua. El destino puede ser "Libre".
func (s *certificateService) GenerateTransferencia(ctx context.Context, actorID string, input TransferInput) (*Certificate, error) {
	player, err := s.playerService.GetPlayerByID(ctx, actorID, input.PlayerID)
	if err != nil {
		return nil, err
	}

	fromSchool := ""
	if player.Escuela != nil {
		fromSchool = player.Escuela.Nombre
	}
	toInstitution := strings.TrimSpace(input.ToInstitution)
	if toInstitution == "" {
		toInstitution = documents.FreeAgent
	}

	fields := documents.TransferFields{
		PlayerName:    playerFullName(player),
		FromSchool:    fromSchool,
		ToInstitution: toInstitution,
		Date:          s.now().Format("02/01/2006"),
	}

	corpURL := s.logoResolver.CorporationLogoURL()
	logo := s.buildLogo(ctx, input.IncludeLogo, &corpURL, documents.PositionWatermark)

	doc, err := documents.ComposeTransferencia(fields, logo)
	if err != nil {
		return nil, s.mapComposeError(err)
	}
	return s.render(doc, documents.KindTransferencia, player)
}

// buildLogo descarga los bytes del logo. Cualquier fallo de red o de formato
// degrada a un documento sin logo en lugar de fallar la expedición.
func (s *certificateService) buildLogo(ctx context.Context, include bool, url *string, position documents.LogoPosition) documents.LogoOptions {
	opts := documents.LogoOptions{Include: include, URL: url, Position: position}
	if !include || url == nil || strings.TrimSpace(*url) == "" {
		return opts
	}

	data, contentType, err := s.fetcher.Fetch(ctx, *url)
	if err != nil {
		s.logger.Warn("logo fetch failed, issuing certificate without logo", "url", *url, "error", err)
		return opts
	}
	opts.Data = data
	opts.ContentType = contentType
	return opts
}

func (s *certificateService) mapComposeError(err error) error {
	if errors.Is(err, documents.ErrFieldRequired) {
		return fmt.Errorf("%w: %v", ErrCertificateFieldEmpty, err)
	}
	return fmt.Errorf("failed to compose certificate: %w", err)
}

func (s *certificateService) render(doc *gofpdf.Fpdf, kind documents.Kind, player *models.Player) (*Certificate, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}
	return &Certificate{
		Data:     buf.Bytes(),
		Filename: documents.Filename(kind, player.Nombre, player.Apellido, s.now()),
	}, nil
}

func playerFullName(player *models.Player) string {
	return strings.TrimSpace(player.Nombre + " " + player.Apellido)
}
