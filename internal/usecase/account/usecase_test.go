package account

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap/zaptest"

	domain "user-account-service/internal/domain/user"
	apperrors "user-account-service/pkg/errors"
	"user-account-service/pkg/security"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) SearchByName(ctx context.Context, fragment string) ([]domain.User, error) {
	args := m.Called(ctx, fragment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenIssuer is a mock implementation of the TokenIssuer interface
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(subjectID, subjectName string) (string, error) {
	args := m.Called(subjectID, subjectName)
	return args.String(0), args.Error(1)
}

// MockImageStore is a mock implementation of the ImageStore interface
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(payload string) (string, error) {
	args := m.Called(payload)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Remove(imageURL string) {
	m.Called(imageURL)
}

func (m *MockImageStore) URL(scheme, host, filename string) string {
	args := m.Called(scheme, host, filename)
	return args.String(0)
}

func setupTestService(t *testing.T) (*Service, *MockRepository, *MockTokenIssuer, *MockImageStore) {
	mockRepo := new(MockRepository)
	mockTokens := new(MockTokenIssuer)
	mockImages := new(MockImageStore)
	logger := zaptest.NewLogger(t)
	svc := New(mockRepo, mockTokens, mockImages, logger)
	return svc, mockRepo, mockTokens, mockImages
}

func mustObjectID(t *testing.T, hex string) bson.ObjectID {
	t.Helper()
	id, err := bson.ObjectIDFromHex(hex)
	require.NoError(t, err)
	return id
}

func storedUser(t *testing.T) *domain.User {
	t.Helper()
	hash, err := security.HashPassword("correct-password")
	require.NoError(t, err)
	return &domain.User{
		ID:           mustObjectID(t, "64f1c2b8a1b2c3d4e5f60718"),
		Name:         "John Doe",
		Email:        "john@example.com",
		Age:          30,
		Gender:       domain.GenderMale,
		PasswordHash: hash,
	}
}

// ==================== REGISTER TESTS ====================

func TestRegister_Success(t *testing.T) {
	svc, mockRepo, mockTokens, _ := setupTestService(t)
	ctx := context.Background()

	req := RegisterRequest{
		Name:     "John Doe",
		Email:    "john@example.com",
		Age:      30,
		Gender:   "male",
		Password: "s3cret",
	}

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("GetByName", ctx, req.Name).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == req.Name &&
			u.Email == req.Email &&
			u.Age == req.Age &&
			u.Gender == domain.GenderMale &&
			security.VerifyPassword(req.Password, u.PasswordHash)
	})).Return(storedUser(t), nil)
	mockTokens.On("Issue", "64f1c2b8a1b2c3d4e5f60718", "John Doe").Return("signed-token", nil)

	resp, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, "64f1c2b8a1b2c3d4e5f60718", resp.User.ID)
	assert.Equal(t, "John Doe", resp.User.Name)

	mockRepo.AssertExpectations(t)
	mockTokens.AssertExpectations(t)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _, _, _ := setupTestService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:  "John Doe",
		Email: "john@example.com",
	})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	assert.EqualError(t, err, "Name, email, age, gender, and password are required")
}

func TestRegister_InvalidEmail(t *testing.T) {
	svc, _, _, _ := setupTestService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "John Doe",
		Email:    "not-an-email",
		Age:      30,
		Gender:   "male",
		Password: "s3cret",
	})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestRegister_InvalidGender(t *testing.T) {
	svc, _, _, _ := setupTestService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "John Doe",
		Email:    "john@example.com",
		Age:      30,
		Gender:   "unknown",
		Password: "s3cret",
	})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "john@example.com").Return(storedUser(t), nil)

	resp, err := svc.Register(ctx, RegisterRequest{
		Name:     "Someone Else",
		Email:    "john@example.com",
		Age:      25,
		Gender:   "female",
		Password: "s3cret",
	})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	assert.EqualError(t, err, "Email already exists")

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateName(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "new@example.com").Return(nil, nil)
	mockRepo.On("GetByName", ctx, "John Doe").Return(storedUser(t), nil)

	resp, err := svc.Register(ctx, RegisterRequest{
		Name:     "John Doe",
		Email:    "new@example.com",
		Age:      25,
		Gender:   "male",
		Password: "s3cret",
	})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	assert.EqualError(t, err, "Name already exists")

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// ==================== LOGIN TESTS ====================

func TestLogin_Success(t *testing.T) {
	svc, mockRepo, mockTokens, _ := setupTestService(t)
	ctx := context.Background()

	u := storedUser(t)
	mockRepo.On("GetByEmail", ctx, u.Email).Return(u, nil)
	mockTokens.On("Issue", u.ID.Hex(), u.Name).Return("signed-token", nil)

	resp, err := svc.Login(ctx, LoginRequest{Email: u.Email, Password: "correct-password"})
	require.NoError(t, err)
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, u.Email, resp.User.Email)
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _, _, _ := setupTestService(t)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "john@example.com"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.EqualError(t, err, "Email and password are required")
}

func TestLogin_UnknownEmailAndWrongPassword_SameError(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	u := storedUser(t)
	mockRepo.On("GetByEmail", ctx, "missing@example.com").Return(nil, nil)
	mockRepo.On("GetByEmail", ctx, u.Email).Return(u, nil)

	_, errUnknown := svc.Login(ctx, LoginRequest{Email: "missing@example.com", Password: "whatever"})
	_, errWrongPw := svc.Login(ctx, LoginRequest{Email: u.Email, Password: "wrong-password"})

	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)

	// Neither outcome may reveal which part of the credentials was wrong
	assert.EqualError(t, errUnknown, "Invalid credentials")
	assert.EqualError(t, errWrongPw, "Invalid credentials")
	assert.True(t, apperrors.IsCode(errUnknown, apperrors.CodeInvalidCredentials))
	assert.True(t, apperrors.IsCode(errWrongPw, apperrors.CodeInvalidCredentials))
}

func TestLogin_MalformedEmail_UndifferentiatedError(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	// No email-format validation on login: a malformed email is just
	// an unknown email
	mockRepo.On("GetByEmail", ctx, "not-an-email").Return(nil, nil)

	resp, err := svc.Login(ctx, LoginRequest{Email: "not-an-email", Password: "whatever"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidCredentials))
	assert.EqualError(t, err, "Invalid credentials")
}

// ==================== LIST / GET / SEARCH TESTS ====================

func TestListAll_Success(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	u := storedUser(t)
	mockRepo.On("List", ctx).Return([]domain.User{*u}, nil)

	users, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, u.ID.Hex(), users[0].ID)
	assert.Equal(t, u.Name, users[0].Name)
}

func TestListAll_Empty(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{}, nil)

	users, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestGetByID_Success(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	u := storedUser(t)
	mockRepo.On("GetByID", ctx, u.ID.Hex()).Return(u, nil)

	view, err := svc.GetByID(ctx, GetUserRequest{ID: u.ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), view.ID)
	assert.Equal(t, u.Email, view.Email)
}

func TestGetByID_MissingID(t *testing.T) {
	svc, _, _, _ := setupTestService(t)

	view, err := svc.GetByID(context.Background(), GetUserRequest{})
	require.Error(t, err)
	assert.Nil(t, view)
	assert.EqualError(t, err, "User ID is required")
}

func TestGetByID_NotFound(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "64f1c2b8a1b2c3d4e5f60799").Return(nil, nil)

	view, err := svc.GetByID(ctx, GetUserRequest{ID: "64f1c2b8a1b2c3d4e5f60799"})
	require.Error(t, err)
	assert.Nil(t, view)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.EqualError(t, err, "User Not Found")
}

func TestSearchByName_Success(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	u := storedUser(t)
	mockRepo.On("SearchByName", ctx, "john").Return([]domain.User{*u}, nil)

	users, err := svc.SearchByName(ctx, SearchByNameRequest{Name: "john"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, u.Name, users[0].Name)
}

func TestSearchByName_MissingName(t *testing.T) {
	svc, _, _, _ := setupTestService(t)

	users, err := svc.SearchByName(context.Background(), SearchByNameRequest{})
	require.Error(t, err)
	assert.Nil(t, users)
	assert.EqualError(t, err, "Name is required")
}

func TestSearchByName_NoMatches(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("SearchByName", ctx, "nobody").Return([]domain.User{}, nil)

	users, err := svc.SearchByName(ctx, SearchByNameRequest{Name: "nobody"})
	require.Error(t, err)
	assert.Nil(t, users)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.EqualError(t, err, "No users matched")
}

// ==================== EDIT PROFILE TESTS ====================

func TestEditProfile_AgeOnly(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	u := storedUser(t)
	originalName := u.Name
	originalHash := u.PasswordHash

	mockRepo.On("GetByID", ctx, u.ID.Hex()).Return(u, nil)
	mockRepo.On("Save", ctx, mock.MatchedBy(func(saved *domain.User) bool {
		return saved.Age == 42 &&
			saved.Name == originalName &&
			saved.PasswordHash == originalHash
	})).Return(u, nil)

	age := 42
	view, err := svc.EditProfile(ctx, EditProfileRequest{ID: u.ID.Hex(), Age: &age})
	require.NoError(t, err)
	require.NotNil(t, view)

	mockRepo.AssertExpectations(t)
}

func TestEditProfile_InvalidAge(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	u := storedUser(t)
	mockRepo.On("GetByID", ctx, u.ID.Hex()).Return(u, nil)

	age := -1
	view, err := svc.EditProfile(ctx, EditProfileRequest{ID: u.ID.Hex(), Age: &age})
	require.Error(t, err)
	assert.Nil(t, view)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestEditProfile_InvalidGender(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	u := storedUser(t)
	mockRepo.On("GetByID", ctx, u.ID.Hex()).Return(u, nil)

	gender := "unknown"
	view, err := svc.EditProfile(ctx, EditProfileRequest{ID: u.ID.Hex(), Gender: &gender})
	require.Error(t, err)
	assert.Nil(t, view)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestEditProfile_RehashesPassword(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	u := storedUser(t)
	mockRepo.On("GetByID", ctx, u.ID.Hex()).Return(u, nil)
	mockRepo.On("Save", ctx, mock.MatchedBy(func(saved *domain.User) bool {
		return security.VerifyPassword("new-password", saved.PasswordHash)
	})).Return(u, nil)

	pw := "new-password"
	_, err := svc.EditProfile(ctx, EditProfileRequest{ID: u.ID.Hex(), Password: &pw})
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestEditProfile_ReplacesImage(t *testing.T) {
	svc, mockRepo, _, mockImages := setupTestService(t)
	ctx := context.Background()

	u := storedUser(t)
	u.ProfileImageURL = "http://localhost:3000/uploads/profile_old.png"

	mockRepo.On("GetByID", ctx, u.ID.Hex()).Return(u, nil)
	mockImages.On("Save", "base64-payload").Return("profile_new.png", nil)
	mockImages.On("Remove", "http://localhost:3000/uploads/profile_old.png").Return()
	mockImages.On("URL", "http", "localhost:3000", "profile_new.png").
		Return("http://localhost:3000/uploads/profile_new.png")
	mockRepo.On("Save", ctx, mock.MatchedBy(func(saved *domain.User) bool {
		return saved.ProfileImageURL == "http://localhost:3000/uploads/profile_new.png"
	})).Return(u, nil)

	payload := "base64-payload"
	_, err := svc.EditProfile(ctx, EditProfileRequest{
		ID:      u.ID.Hex(),
		Profile: &payload,
		Scheme:  "http",
		Host:    "localhost:3000",
	})
	require.NoError(t, err)

	mockImages.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestEditProfile_InvalidImage(t *testing.T) {
	svc, mockRepo, _, mockImages := setupTestService(t)
	ctx := context.Background()

	u := storedUser(t)
	mockRepo.On("GetByID", ctx, u.ID.Hex()).Return(u, nil)
	mockImages.On("Save", "bad-payload").Return("", apperrors.NewInvalidImageError("Invalid image format"))

	payload := "bad-payload"
	view, err := svc.EditProfile(ctx, EditProfileRequest{ID: u.ID.Hex(), Profile: &payload})
	require.Error(t, err)
	assert.Nil(t, view)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidImage))

	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestEditProfile_NotFound(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "64f1c2b8a1b2c3d4e5f60799").Return(nil, nil)

	name := "New Name"
	view, err := svc.EditProfile(ctx, EditProfileRequest{ID: "64f1c2b8a1b2c3d4e5f60799", Name: &name})
	require.Error(t, err)
	assert.Nil(t, view)
	assert.EqualError(t, err, "User Not Found")
}

// ==================== DELETE ACCOUNT TESTS ====================

func TestDeleteAccount_Success(t *testing.T) {
	svc, mockRepo, _, mockImages := setupTestService(t)
	ctx := context.Background()

	u := storedUser(t)
	u.ProfileImageURL = "http://localhost:3000/uploads/profile_1.png"

	mockRepo.On("GetByID", ctx, u.ID.Hex()).Return(u, nil)
	mockImages.On("Remove", u.ProfileImageURL).Return()
	mockRepo.On("Delete", ctx, u.ID.Hex()).Return(nil)

	err := svc.DeleteAccount(ctx, DeleteAccountRequest{ID: u.ID.Hex()})
	require.NoError(t, err)

	mockImages.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestDeleteAccount_NoImage(t *testing.T) {
	svc, mockRepo, _, mockImages := setupTestService(t)
	ctx := context.Background()

	u := storedUser(t)
	mockRepo.On("GetByID", ctx, u.ID.Hex()).Return(u, nil)
	mockRepo.On("Delete", ctx, u.ID.Hex()).Return(nil)

	err := svc.DeleteAccount(ctx, DeleteAccountRequest{ID: u.ID.Hex()})
	require.NoError(t, err)

	mockImages.AssertNotCalled(t, "Remove", mock.Anything)
}

func TestDeleteAccount_NotFound(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "64f1c2b8a1b2c3d4e5f60799").Return(nil, nil)

	err := svc.DeleteAccount(ctx, DeleteAccountRequest{ID: "64f1c2b8a1b2c3d4e5f60799"})
	require.Error(t, err)
	assert.EqualError(t, err, "User Not Found")
}

func TestDeleteAccount_RepoError(t *testing.T) {
	svc, mockRepo, _, _ := setupTestService(t)
	ctx := context.Background()

	u := storedUser(t)
	mockRepo.On("GetByID", ctx, u.ID.Hex()).Return(u, nil)
	mockRepo.On("Delete", ctx, u.ID.Hex()).Return(errors.New("write failed"))

	err := svc.DeleteAccount(ctx, DeleteAccountRequest{ID: u.ID.Hex()})
	require.Error(t, err)
}
