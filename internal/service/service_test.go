package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cbonilla3189/happyfans/internal/model"
	"github.com/cbonilla3189/happyfans/internal/repository"
	"github.com/cbonilla3189/happyfans/internal/session"
	"github.com/cbonilla3189/happyfans/internal/storage"
	"github.com/cbonilla3189/happyfans/pkg/database"
)

func setupStore(t *testing.T) *database.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return database.FromDB(db, &model.User{}, &model.Fan{})
}

func setupAuth(t *testing.T) (AuthService, *database.Store) {
	t.Helper()
	store := setupStore(t)
	mgr := session.NewManager("service_test_secret_0123456789abcdef", time.Hour, nil)
	svc, err := NewAuthService(repository.NewUserRepository(store), mgr, WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	return svc, store
}

func validRegister() RegisterInput {
	return RegisterInput{Email: "Fan@Example.com", Name: "Fan", Password: "supersecret", Confirm: "supersecret"}
}

func TestRegister_HashesPassword(t *testing.T) {
	svc, store := setupAuth(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)
	assert.Equal(t, "fan@example.com", u.Email)
	assert.NotEqual(t, "supersecret", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("supersecret")))

	db, err := store.DB(ctx)
	require.NoError(t, err)
	var stored model.User
	require.NoError(t, db.First(&stored).Error)
	assert.NotContains(t, stored.PasswordHash, "supersecret")
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := setupAuth(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		edit  func(*RegisterInput)
		field string
	}{
		{"malformed email", func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"missing email", func(in *RegisterInput) { in.Email = "  " }, "email"},
		{"long email", func(in *RegisterInput) { in.Email = strings.Repeat("a", 140) + "@example.com" }, "email"},
		{"short password", func(in *RegisterInput) { in.Password, in.Confirm = "short", "short" }, "password"},
		{"confirm mismatch", func(in *RegisterInput) { in.Confirm = "different1" }, "confirm"},
		{"long name", func(in *RegisterInput) { in.Name = strings.Repeat("n", 101) }, "name"},
		{"password over 72 bytes", func(in *RegisterInput) {
			p := strings.Repeat("p", 73)
			in.Password, in.Confirm = p, p
		}, "password"},
		{"multibyte password over 72 bytes", func(in *RegisterInput) {
			p := strings.Repeat("ñ", 40)
			in.Password, in.Confirm = p, p
		}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validRegister()
			tc.edit(&in)
			_, err := svc.Register(ctx, in)
			ve, ok := IsValidation(err)
			require.True(t, ok, "got %v", err)
			assert.Contains(t, ve.Fields, tc.field)
		})
	}
}

func TestRegister_MultibytePasswordAtLimit(t *testing.T) {
	svc, _ := setupAuth(t)
	ctx := context.Background()

	in := validRegister()
	in.Password = strings.Repeat("ñ", 36)
	in.Confirm = in.Password
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	sess, err := svc.Login(ctx, LoginInput{Email: in.Email, Password: in.Password})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	svc, store := setupAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	again := validRegister()
	again.Email = "FAN@example.COM"
	again.Password, again.Confirm = "otherpassword", "otherpassword"
	_, err = svc.Register(ctx, again)
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	db, err := store.DB(ctx)
	require.NoError(t, err)
	var cnt int64
	require.NoError(t, db.Model(&model.User{}).Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)
}

func TestLogin_GenericFailure(t *testing.T) {
	svc, _ := setupAuth(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, LoginInput{Email: "fan@example.com", Password: "wrongpassword"})
	_, unknownEmail := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "supersecret"})
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_CurrentUser_Logout(t *testing.T) {
	svc, _ := setupAuth(t)
	ctx := context.Background()
	registered, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	sess, err := svc.Login(ctx, LoginInput{Email: " FAN@example.com ", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, registered.ID, sess.User.ID)

	u := svc.CurrentUser(ctx, sess.Token)
	require.NotNil(t, u)
	assert.Equal(t, registered.ID, u.ID)

	require.NoError(t, svc.Logout(ctx, sess.Token))
	assert.Nil(t, svc.CurrentUser(ctx, sess.Token))

	// 无会话登出是空操作
	assert.NoError(t, svc.Logout(ctx, ""))
	assert.NoError(t, svc.Logout(ctx, sess.Token))
}

func TestCurrentUser_Invalid(t *testing.T) {
	svc, _ := setupAuth(t)
	ctx := context.Background()
	assert.Nil(t, svc.CurrentUser(ctx, ""))
	assert.Nil(t, svc.CurrentUser(ctx, "not-a-token"))

	// 签名有效但用户不存在
	mgr := session.NewManager("service_test_secret_0123456789abcdef", time.Hour, nil)
	token, _, err := mgr.Issue(404)
	require.NoError(t, err)
	assert.Nil(t, svc.CurrentUser(ctx, token))
}

func photoHeader(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["photo"][0]
}

func setupFans(t *testing.T) (FanService, *storage.Uploads) {
	t.Helper()
	uploads := storage.NewUploads(filepath.Join(t.TempDir(), "uploads"))
	return NewFanService(repository.NewFanRepository(setupStore(t)), uploads), uploads
}

func TestSubmit_TrimsAndStores(t *testing.T) {
	svc, _ := setupFans(t)
	ctx := context.Background()

	f, err := svc.Submit(ctx, SubmitInput{Name: "  Ana ", Message: " ¡Hola! "})
	require.NoError(t, err)
	assert.Equal(t, "Ana", f.Name)
	assert.Equal(t, "¡Hola!", f.Message)
	assert.Nil(t, f.Photo)
	assert.Nil(t, f.UserID)
}

func TestSubmit_RequiresNameAndMessage(t *testing.T) {
	svc, _ := setupFans(t)
	ctx := context.Background()

	for _, in := range []SubmitInput{
		{Name: "", Message: "x"},
		{Name: "x", Message: "   "},
		{Name: "\t\n", Message: ""},
	} {
		_, err := svc.Submit(ctx, in)
		_, ok := IsValidation(err)
		assert.True(t, ok, "%+v", in)
	}
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSubmit_MessageLength(t *testing.T) {
	svc, _ := setupFans(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitInput{Name: "a", Message: strings.Repeat("ñ", 200)})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, SubmitInput{Name: "a", Message: strings.Repeat("m", 201)})
	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "message")
}

func TestSubmit_PhotoAllowList(t *testing.T) {
	svc, uploads := setupFans(t)
	ctx := context.Background()
	owner := uint(5)

	_, err := svc.Submit(ctx, SubmitInput{Name: "a", Message: "b", Photo: photoHeader(t, "evil.svg")})
	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "photo")
	names, err := uploads.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	f, err := svc.Submit(ctx, SubmitInput{Name: "a", Message: "b", Photo: photoHeader(t, "../Me Smiling.PNG"), OwnerID: &owner})
	require.NoError(t, err)
	require.NotNil(t, f.Photo)
	assert.Equal(t, "Me_Smiling.PNG", *f.Photo)
	require.NotNil(t, f.UserID)
	assert.Equal(t, owner, *f.UserID)
	_, err = os.Stat(filepath.Join(uploads.Dir(), "Me_Smiling.PNG"))
	assert.NoError(t, err)
}

func TestSubmit_EmptyFilenameIsNoPhoto(t *testing.T) {
	svc, _ := setupFans(t)
	fh := photoHeader(t, "x.png")
	fh.Filename = ""
	f, err := svc.Submit(context.Background(), SubmitInput{Name: "a", Message: "b", Photo: fh})
	require.NoError(t, err)
	assert.Nil(t, f.Photo)
}

func TestSubmit_StorageFailureCreatesNothing(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	store := setupStore(t)
	svc := NewFanService(repository.NewFanRepository(store), storage.NewUploads(blocker))
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitInput{Name: "a", Message: "b", Photo: photoHeader(t, "p.png")})
	assert.ErrorIs(t, err, storage.ErrStorage)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
