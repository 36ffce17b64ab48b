package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/corfutbolocanero/roster-service/models"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

var (
	ErrPlayerNotFound          = errors.New("player not found")
	ErrPlayerDocumentoConflict = errors.New("player documento conflict")
	ErrPlayerReferenceInvalid  = errors.New("player category or school reference invalid")
	ErrPlayerStillPresent      = errors.New("player row still present after delete")
)

// pageSize es el tope de filas por consulta del almacén; los listados
// completos se arman con lecturas por rango.
const pageSize = 1000

// maxConcurrentPages acota las consultas de página en vuelo.
const maxConcurrentPages = 4

type PlayerFilter struct {
	// EscuelaID restringe a una escuela; vacío significa todas.
	EscuelaID string
	// Activo nil incluye activos e inactivos.
	Activo *bool
}

func (f PlayerFilter) whereClause(alias string) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	if f.Activo != nil {
		args = append(args, *f.Activo)
		conditions = append(conditions, fmt.Sprintf("%s.activo = $%d", alias, len(args)))
	}
	if f.EscuelaID != "" {
		args = append(args, f.EscuelaID)
		conditions = append(conditions, fmt.Sprintf("%s.escuela_id = $%d", alias, len(args)))
	}
	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id string) (*models.Player, error)
	GetByDocumento(ctx context.Context, documento string) (*models.Player, error)
	List(ctx context.Context, filter PlayerFilter) ([]models.Player, error)
	Count(ctx context.Context, filter PlayerFilter) (int, error)
	Update(ctx context.Context, player *models.Player) error
	// UpdateFileURL persiste la URL de un solo campo de archivo
	// inmediatamente después de su subida.
	UpdateFileURL(ctx context.Context, id string, field models.PlayerFileField, url string) error
	SetActive(ctx context.Context, id string, active bool) error
	DeletePermanently(ctx context.Context, id string) (*models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `
	j.id, j.documento, j.nombre, j.apellido, j.fecha_nacimiento,
	j.categoria_id, j.escuela_id,
	j.pais, j.departamento, j.ciudad, j.pais_id, j.departamento_id, j.ciudad_id,
	j.eps, j.tipo_eps,
	j.foto_perfil_url, j.documento_pdf_url, j.registro_civil_url,
	j.activo, j.created_at, j.updated_at,
	c.id, c.nombre, c.created_at,
	e.id, e.nombre, e.logo_url, e.logo_file_type, e.created_at`

const playerJoins = `
	FROM jugadores j
	JOIN categorias c ON j.categoria_id = c.id
	JOIN escuelas e ON j.escuela_id = e.id`

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO jugadores (
			documento, nombre, apellido, fecha_nacimiento, categoria_id, escuela_id,
			pais, departamento, ciudad, pais_id, departamento_id, ciudad_id,
			eps, tipo_eps, foto_perfil_url, documento_pdf_url, registro_civil_url, activo
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		player.Documento,
		player.Nombre,
		player.Apellido,
		player.FechaNacimiento,
		player.CategoriaID,
		player.EscuelaID,
		player.Pais,
		player.Departamento,
		player.Ciudad,
		player.PaisID,
		player.DepartamentoID,
		player.CiudadID,
		player.EPS,
		player.TipoEPS,
		player.FotoPerfilURL,
		player.DocumentoPDFURL,
		player.RegistroCivilURL,
		player.Activo,
	).Scan(&player.ID, &player.CreatedAt, &player.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "jugadores_documento_key" {
					return ErrPlayerDocumentoConflict
				}
			case "23503": // foreign_key_violation
				return ErrPlayerReferenceInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	query := `SELECT` + playerColumns + playerJoins + ` WHERE j.id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *postgresPlayerRepository) GetByDocumento(ctx context.Context, documento string) (*models.Player, error) {
	query := `SELECT` + playerColumns + playerJoins + ` WHERE j.documento = $1`
	return r.scanOne(ctx, query, documento)
}

func (r *postgresPlayerRepository) Count(ctx context.Context, filter PlayerFilter) (int, error) {
	where, args := filter.whereClause("j")
	query := `SELECT COUNT(*) FROM jugadores j` + where

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

// List carga el roster completo que corresponde al filtro. El almacén limita
// cada consulta a pageSize filas, así que el total se arma con páginas por
// rango; las páginas se piden con concurrencia acotada y se ensamblan en
// orden.
func (r *postgresPlayerRepository) List(ctx context.Context, filter PlayerFilter) ([]models.Player, error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return []models.Player{}, nil
	}

	totalPages := (total + pageSize - 1) / pageSize
	pages := make([][]models.Player, totalPages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPages)
	for page := 0; page < totalPages; page++ {
		page := page
		g.Go(func() error {
			rows, err := r.listPage(gctx, filter, page*pageSize)
			if err != nil {
				return fmt.Errorf("failed to list players page %d: %w", page+1, err)
			}
			pages[page] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	players := make([]models.Player, 0, total)
	for _, page := range pages {
		players = append(players, page...)
	}
	return players, nil
}

func (r *postgresPlayerRepository) listPage(ctx context.Context, filter PlayerFilter, offset int) ([]models.Player, error) {
	where, args := filter.whereClause("j")
	query := `SELECT` + playerColumns + playerJoins + where +
		fmt.Sprintf(` ORDER BY j.apellido ASC, j.id ASC LIMIT %d OFFSET %d`, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		player, err := scanPlayerRow(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *player)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE jugadores SET
			documento = $1,
			nombre = $2,
			apellido = $3,
			fecha_nacimiento = $4,
			categoria_id = $5,
			escuela_id = $6,
			pais = $7,
			departamento = $8,
			ciudad = $9,
			pais_id = $10,
			departamento_id = $11,
			ciudad_id = $12,
			eps = $13,
			tipo_eps = $14,
			updated_at = now()
		WHERE id = $15`

	result, err := r.db.ExecContext(ctx, query,
		player.Documento,
		player.Nombre,
		player.Apellido,
		player.FechaNacimiento,
		player.CategoriaID,
		player.EscuelaID,
		player.Pais,
		player.Departamento,
		player.Ciudad,
		player.PaisID,
		player.DepartamentoID,
		player.CiudadID,
		player.EPS,
		player.TipoEPS,
		player.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "jugadores_documento_key" {
					return ErrPlayerDocumentoConflict
				}
			case "23503":
				return ErrPlayerReferenceInvalid
			}
		}
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdateFileURL(ctx context.Context, id string, field models.PlayerFileField, url string) error {
	var column string
	switch field {
	case models.FileFotoPerfil:
		column = "foto_perfil_url"
	case models.FileDocumentoPDF:
		column = "documento_pdf_url"
	case models.FileRegistroCivil:
		column = "registro_civil_url"
	default:
		return fmt.Errorf("unknown player file field: %q", field)
	}

	query := fmt.Sprintf(`UPDATE jugadores SET %s = $1, updated_at = now() WHERE id = $2`, column)
	result, err := r.db.ExecContext(ctx, query, url, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE jugadores SET activo = $1, updated_at = now() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

// DeletePermanently verifica que el jugador exista, lo elimina y confirma
// que la fila ya no está. Devuelve los datos que tenía antes de borrarse.
func (r *postgresPlayerRepository) DeletePermanently(ctx context.Context, id string) (*models.Player, error) {
	player, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM jugadores WHERE id = $1`, id); err != nil {
		return nil, err
	}

	var stillThere string
	err = r.db.QueryRowContext(ctx, `SELECT id FROM jugadores WHERE id = $1`, id).Scan(&stillThere)
	if err == nil {
		return nil, ErrPlayerStillPresent
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return player, nil
}

func (r *postgresPlayerRepository) scanOne(ctx context.Context, query string, arg interface{}) (*models.Player, error) {
	player, err := scanPlayerRow(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func scanPlayerRow(row rowScanner) (*models.Player, error) {
	var player models.Player
	var categoria models.Category
	var escuela models.School

	err := row.Scan(
		&player.ID,
		&player.Documento,
		&player.Nombre,
		&player.Apellido,
		&player.FechaNacimiento,
		&player.CategoriaID,
		&player.EscuelaID,
		&player.Pais,
		&player.Departamento,
		&player.Ciudad,
		&player.PaisID,
		&player.DepartamentoID,
		&player.CiudadID,
		&player.EPS,
		&player.TipoEPS,
		&player.FotoPerfilURL,
		&player.DocumentoPDFURL,
		&player.RegistroCivilURL,
		&player.Activo,
		&player.CreatedAt,
		&player.UpdatedAt,
		&categoria.ID,
		&categoria.Nombre,
		&categoria.CreatedAt,
		&escuela.ID,
		&escuela.Nombre,
		&escuela.LogoURL,
		&escuela.LogoFileType,
		&escuela.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	player.Categoria = &categoria
	player.Escuela = &escuela
	return &player, nil
}
