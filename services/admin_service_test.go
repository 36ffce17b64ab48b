package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corfutbolocanero/roster-service/models"
)

func validCoachInput(email string) CreateUserInput {
	escuela := schoolAID()
	return CreateUserInput{
		Email:     email,
		Password:  "entrenador123",
		Nombre:    "Pedro",
		Apellido:  "Santos",
		EscuelaID: &escuela,
	}
}

func TestCreateUserPersistsPlaintextMirrorWhenColumnExists(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepo()
	svc := NewAdminService(userRepo, newFakeSchoolRepo(), newFakePlayerRepo(), true)

	created, err := svc.CreateCoach(ctx, validCoachInput("coach@corp.test"))
	require.NoError(t, err)

	stored := userRepo.users[created.ID]
	require.NotNil(t, stored.SystemPassword)
	assert.Equal(t, "entrenador123", *stored.SystemPassword)

	// La respuesta nunca expone credenciales.
	assert.Nil(t, created.SystemPassword)
	assert.Empty(t, created.PasswordHash)
}

func TestCreateUserSkipsMirrorWhenColumnAbsent(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepo()
	svc := NewAdminService(userRepo, newFakeSchoolRepo(), newFakePlayerRepo(), false)

	created, err := svc.CreateCoach(ctx, validCoachInput("coach@corp.test"))
	require.NoError(t, err)

	assert.Nil(t, userRepo.users[created.ID].SystemPassword)
}

// El esquema se consulta en el arranque; las altas no repiten la consulta.
func TestCreateUserDoesNotRequerySchema(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepo()
	userRepo.hasSystemPassword = true
	svc := NewAdminService(userRepo, newFakeSchoolRepo(), newFakePlayerRepo(), true)

	for _, email := range []string{"a@corp.test", "b@corp.test", "c@corp.test"} {
		_, err := svc.CreateCoach(ctx, validCoachInput(email))
		require.NoError(t, err)
	}

	assert.Zero(t, userRepo.schemaChecks)
}

func TestCreateCoachRequiresSchool(t *testing.T) {
	svc := NewAdminService(newFakeUserRepo(), newFakeSchoolRepo(), newFakePlayerRepo(), false)

	input := validCoachInput("coach@corp.test")
	input.EscuelaID = nil
	_, err := svc.CreateCoach(context.Background(), input)
	assert.ErrorIs(t, err, ErrCoachSchoolRequired)
}

func TestCreateAdminRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewAdminService(newFakeUserRepo(&models.User{ID: "u1", Email: "admin@corp.test"}), newFakeSchoolRepo(), newFakePlayerRepo(), false)

	input := validCoachInput("admin@corp.test")
	input.EscuelaID = nil
	_, err := svc.CreateAdmin(ctx, input)
	assert.ErrorIs(t, err, ErrUserEmailConflict)
}
