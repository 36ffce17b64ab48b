package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/corfutbolocanero/roster-service/models"
	"github.com/corfutbolocanero/roster-service/repositories"
	"github.com/corfutbolocanero/roster-service/storage"
)

type fakeUserRepo struct {
	users             map[string]*models.User
	hasSystemPassword bool
	schemaChecks      int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Activo = active
	return nil
}

func (r *fakeUserRepo) SupportsSystemPassword(ctx context.Context) (bool, error) {
	r.schemaChecks++
	return r.hasSystemPassword, nil
}

type fakePlayerRepo struct {
	players       map[string]*models.Player
	fileURLs      map[string]map[models.PlayerFileField]string
	failFileField models.PlayerFileField
	nextID        int
}

func newFakePlayerRepo(players ...*models.Player) *fakePlayerRepo {
	r := &fakePlayerRepo{
		players:  make(map[string]*models.Player),
		fileURLs: make(map[string]map[models.PlayerFileField]string),
	}
	for _, p := range players {
		r.players[p.ID] = p
	}
	return r
}

func (r *fakePlayerRepo) Create(ctx context.Context, player *models.Player) error {
	for _, existing := range r.players {
		if existing.Documento == player.Documento {
			return repositories.ErrPlayerDocumentoConflict
		}
	}
	r.nextID++
	player.ID = fmt.Sprintf("player-%d", r.nextID)
	r.players[player.ID] = player
	return nil
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, id string) (*models.Player, error) {
	player, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (r *fakePlayerRepo) GetByDocumento(ctx context.Context, documento string) (*models.Player, error) {
	for _, player := range r.players {
		if player.Documento == documento {
			copied := *player
			return &copied, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) List(ctx context.Context, filter repositories.PlayerFilter) ([]models.Player, error) {
	out := make([]models.Player, 0, len(r.players))
	for _, player := range r.players {
		if filter.EscuelaID != "" && player.EscuelaID != filter.EscuelaID {
			continue
		}
		if filter.Activo != nil && player.Activo != *filter.Activo {
			continue
		}
		out = append(out, *player)
	}
	return out, nil
}

func (r *fakePlayerRepo) Count(ctx context.Context, filter repositories.PlayerFilter) (int, error) {
	players, err := r.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(players), nil
}

func (r *fakePlayerRepo) Update(ctx context.Context, player *models.Player) error {
	if _, ok := r.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	r.players[player.ID] = player
	return nil
}

func (r *fakePlayerRepo) UpdateFileURL(ctx context.Context, id string, field models.PlayerFileField, url string) error {
	if field == r.failFileField && r.failFileField != "" {
		return errors.New("forced persist failure")
	}
	if _, ok := r.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	if r.fileURLs[id] == nil {
		r.fileURLs[id] = make(map[models.PlayerFileField]string)
	}
	r.fileURLs[id][field] = url
	return nil
}

func (r *fakePlayerRepo) SetActive(ctx context.Context, id string, active bool) error {
	player, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.Activo = active
	return nil
}

func (r *fakePlayerRepo) DeletePermanently(ctx context.Context, id string) (*models.Player, error) {
	player, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	delete(r.players, id)
	return player, nil
}

type fakeSchoolRepo struct {
	schools map[string]*models.School
}

func newFakeSchoolRepo(schools ...*models.School) *fakeSchoolRepo {
	r := &fakeSchoolRepo{schools: make(map[string]*models.School)}
	for _, s := range schools {
		r.schools[s.ID] = s
	}
	return r
}

func (r *fakeSchoolRepo) Create(ctx context.Context, school *models.School) error {
	if school.ID == "" {
		school.ID = fmt.Sprintf("school-%d", len(r.schools)+1)
	}
	r.schools[school.ID] = school
	return nil
}

func (r *fakeSchoolRepo) GetByID(ctx context.Context, id string) (*models.School, error) {
	school, ok := r.schools[id]
	if !ok {
		return nil, repositories.ErrSchoolNotFound
	}
	copied := *school
	return &copied, nil
}

func (r *fakeSchoolRepo) GetAll(ctx context.Context) ([]models.School, error) {
	out := make([]models.School, 0, len(r.schools))
	for _, school := range r.schools {
		out = append(out, *school)
	}
	return out, nil
}

func (r *fakeSchoolRepo) Update(ctx context.Context, school *models.School) error {
	if _, ok := r.schools[school.ID]; !ok {
		return repositories.ErrSchoolNotFound
	}
	r.schools[school.ID] = school
	return nil
}

func (r *fakeSchoolRepo) SetLogo(ctx context.Context, id, logoURL, fileType string) error {
	school, ok := r.schools[id]
	if !ok {
		return repositories.ErrSchoolNotFound
	}
	school.LogoURL = &logoURL
	school.LogoFileType = &fileType
	return nil
}

func (r *fakeSchoolRepo) ClearLogo(ctx context.Context, id string) error {
	school, ok := r.schools[id]
	if !ok {
		return repositories.ErrSchoolNotFound
	}
	school.LogoURL = nil
	school.LogoFileType = nil
	return nil
}

func (r *fakeSchoolRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.schools[id]; !ok {
		return repositories.ErrSchoolNotFound
	}
	delete(r.schools, id)
	return nil
}

type fakeCategoryRepo struct {
	categories []models.Category
}

func (r *fakeCategoryRepo) GetAll(ctx context.Context) ([]models.Category, error) {
	return r.categories, nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			copied := c
			return &copied, nil
		}
	}
	return nil, repositories.ErrCategoryNotFound
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	category.ID = fmt.Sprintf("cat-%d", len(r.categories)+1)
	r.categories = append(r.categories, *category)
	return nil
}

func playerFilterAll() repositories.PlayerFilter {
	return repositories.PlayerFilter{}
}

type fakeUploader struct {
	uploads   []string
	deletes   []string
	failOnKey string
	baseURL   string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{baseURL: "https://cdn.test/bucket"}
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.failOnKey != "" && strings.Contains(key, u.failOnKey) {
		return nil, errors.New("forced upload failure")
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return nil, err
	}
	u.uploads = append(u.uploads, key)
	return &storage.UploadResult{
		Key:      key,
		Location: u.GetPublicURL(key),
		ETag:     "etag",
	}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.deletes = append(u.deletes, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return u.baseURL + "/" + key
}

func (u *fakeUploader) KeyFromPublicURL(rawURL string) (string, bool) {
	prefix := u.baseURL + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(rawURL, prefix)
	return key, key != ""
}
