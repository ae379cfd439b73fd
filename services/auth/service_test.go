package auth

import (
	"testing"

	"github.com/institutsaintjean/evalhub/services/token"
	"github.com/institutsaintjean/evalhub/services/user"
	"github.com/institutsaintjean/evalhub/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *user.Service) {
	t.Helper()
	db := testutils.SetupTestDB(t, &user.User{}, &token.Session{})
	cfg := testutils.GetTestConfig()

	users := user.NewService(db, nil)
	tokens := token.NewService(db, cfg, token.NewHS256Signer(cfg.JWT.SecretKey, cfg.JWT.Issuer), nil)
	tokens.SetUserResolver(users)

	return NewService(cfg, users, tokens, nil), users
}

func registerStudent(t *testing.T, svc *Service, email string) *LoginResult {
	t.Helper()
	result, err := svc.Register(RegisterInput{
		Matricule: "20" + email[:5],
		Email:     email,
		Password:  "motdepasse123",
		FirstName: "Jean",
		LastName:  "Mbarga",
	}, token.DeviceInfo{})
	require.NoError(t, err)
	return result
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService(t)

	result := registerStudent(t, svc, "jean.mbarga@institutsaintjean.org")

	assert.Equal(t, "jean.mbarga@institutsaintjean.org", result.User.Email)
	assert.Equal(t, user.RoleStudent, result.User.Role)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
}

func TestRegister_RejectsForeignDomain(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(RegisterInput{
		Email:     "jean@gmail.com",
		Password:  "motdepasse123",
		FirstName: "Jean",
		LastName:  "Mbarga",
	}, token.DeviceInfo{})
	assert.ErrorIs(t, err, ErrEmailDomainNotAllowed)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	registerStudent(t, svc, "jean.mbarga@institutsaintjean.org")

	_, err := svc.Register(RegisterInput{
		Email:     "jean.mbarga@institutsaintjean.org",
		Password:  "motdepasse123",
		FirstName: "Jean",
		LastName:  "Mbarga",
	}, token.DeviceInfo{})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegister_WeakPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(RegisterInput{
		Email:     "jean.mbarga@institutsaintjean.org",
		Password:  "court",
		FirstName: "Jean",
		LastName:  "Mbarga",
	}, token.DeviceInfo{})
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	registerStudent(t, svc, "jean.mbarga@institutsaintjean.org")

	t.Run("by email", func(t *testing.T) {
		result, err := svc.Login("jean.mbarga@institutsaintjean.org", "motdepasse123", token.DeviceInfo{})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Tokens.AccessToken)
	})

	t.Run("by matricule", func(t *testing.T) {
		result, err := svc.Login("20jean.", "motdepasse123", token.DeviceInfo{})
		require.NoError(t, err)
		assert.Equal(t, "jean.mbarga@institutsaintjean.org", result.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("jean.mbarga@institutsaintjean.org", "mauvaispass1", token.DeviceInfo{})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown identifier is indistinguishable", func(t *testing.T) {
		_, err := svc.Login("inconnu@institutsaintjean.org", "motdepasse123", token.DeviceInfo{})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestCreateAdmin(t *testing.T) {
	svc, users := newTestService(t)

	admin, err := svc.CreateAdmin("directeur@institutsaintjean.org", "motdepasse123", "Paul", "Essomba")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, admin.Role)
	assert.True(t, admin.IsAdmin())

	// The stored password is hashed, never plaintext.
	stored, err := users.FindByID(admin.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "motdepasse123", stored.Password)
	assert.NoError(t, svc.VerifyPassword(stored.Password, "motdepasse123"))
}

func TestCreateStudent(t *testing.T) {
	svc, users := newTestService(t)

	classID := uint(1)
	student, err := svc.CreateStudent(StudentInput{
		Matricule: "2024001",
		Email:     "marie.ngo@institutsaintjean.org",
		FirstName: "Marie",
		LastName:  "Ngo",
		ClassID:   &classID,
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleStudent, student.Role)

	// The default password is applied and hashed.
	stored, err := users.FindByID(student.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.Password)
	assert.NoError(t, svc.VerifyPassword(stored.Password, "password123"))

	t.Run("duplicate matricule", func(t *testing.T) {
		_, err := svc.CreateStudent(StudentInput{
			Matricule: "2024001",
			Email:     "autre@institutsaintjean.org",
			FirstName: "Autre",
			LastName:  "Ngo",
		})
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("foreign domain", func(t *testing.T) {
		_, err := svc.CreateStudent(StudentInput{
			Email:     "x@gmail.com",
			FirstName: "X",
			LastName:  "Y",
		})
		assert.ErrorIs(t, err, ErrEmailDomainNotAllowed)
	})
}

func TestResetStudentPassword(t *testing.T) {
	svc, _ := newTestService(t)
	result := registerStudent(t, svc, "jean.mbarga@institutsaintjean.org")

	require.NoError(t, svc.ResetStudentPassword(result.User.ID, ""))

	// Old password rejected, default accepted.
	_, err := svc.Login("jean.mbarga@institutsaintjean.org", "motdepasse123", token.DeviceInfo{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("jean.mbarga@institutsaintjean.org", "password123", token.DeviceInfo{})
	assert.NoError(t, err)

	// The registration session was revoked along with the password.
	_, err = svc.tokens.RefreshAccessToken(result.Tokens.RefreshToken, token.DeviceInfo{})
	assert.ErrorIs(t, err, token.ErrInvalidRefreshToken)

	t.Run("unknown student", func(t *testing.T) {
		assert.ErrorIs(t, svc.ResetStudentPassword(999, ""), user.ErrUserNotFound)
	})
}

func TestValidatePassword(t *testing.T) {
	svc, _ := newTestService(t)

	t.Run("too short", func(t *testing.T) {
		assert.Error(t, svc.ValidatePassword("abc1"))
	})

	t.Run("missing number", func(t *testing.T) {
		assert.Error(t, svc.ValidatePassword("motdepasse"))
	})

	t.Run("acceptable", func(t *testing.T) {
		assert.NoError(t, svc.ValidatePassword("motdepasse123"))
	})
}

func TestCheckEmailDomain(t *testing.T) {
	svc, _ := newTestService(t)

	assert.NoError(t, svc.CheckEmailDomain("x@institutsaintjean.org"))
	assert.ErrorIs(t, svc.CheckEmailDomain("x@gmail.com"), ErrEmailDomainNotAllowed)
	assert.ErrorIs(t, svc.CheckEmailDomain("x@evil-institutsaintjean.org.example.com"), ErrEmailDomainNotAllowed)
}
