package media

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfoliocms/internal/database/dbtest"
)

var fixedNow = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	svc := NewService(NewRepository(dbtest.New(t, &Asset{})), Options{BaseDir: dir, URLPrefix: "/uploads"}, nil, nil).
		WithClock(func() time.Time { return fixedNow })
	return svc, dir
}

func countDir(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestUpload_AcceptsUpperCaseExtension(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	a, err := svc.Upload(ctx, "photo.JPG", bytes.NewReader([]byte("jpeg-bytes")))
	require.NoError(t, err)

	assert.Equal(t, "photo_20240501_103000.JPG", a.Filename)
	assert.Equal(t, "photo.JPG", a.OriginalName)
	assert.Equal(t, ".jpg", a.FileType)
	assert.Equal(t, int64(10), a.FileSize)
	assert.Equal(t, "/uploads/photo_20240501_103000.JPG", a.URL)

	data, err := os.ReadFile(filepath.Join(dir, a.Filename))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
}

func TestUpload_RejectsDisallowedType(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "payload.exe", strings.NewReader("MZ"))
	require.ErrorIs(t, err, ErrFileTypeNotAllowed)

	assert.Equal(t, 0, countDir(t, dir))
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpload_Validation(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "a.png", nil)
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = svc.Upload(ctx, "  ", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrEmptyFilename)

	_, err = svc.Upload(ctx, "noext", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)

	_, err = svc.Upload(ctx, "empty.png", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	assert.Equal(t, 0, countDir(t, dir))
}

func TestUpload_TooLarge(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(NewRepository(dbtest.New(t, &Asset{})), Options{BaseDir: dir, MaxFileSize: 4}, nil, nil)

	_, err := svc.Upload(context.Background(), "big.png", strings.NewReader("12345"))
	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, 0, countDir(t, dir))

	a, err := svc.Upload(context.Background(), "ok.png", strings.NewReader("1234"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), a.FileSize)
}

func TestUpload_SanitizesName(t *testing.T) {
	svc, _ := newTestService(t)

	a, err := svc.Upload(context.Background(), "../../etc/my photo (1).png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "my_photo__1_20240501_103000.png", a.Filename)
	assert.Equal(t, filepath.Base(a.Filename), a.Filename)
}

func TestUpload_SameSecondCollision(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	first, err := svc.Upload(ctx, "logo.png", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := svc.Upload(ctx, "logo.png", strings.NewReader("two"))
	require.NoError(t, err)

	assert.Equal(t, "logo_20240501_103000.png", first.Filename)
	assert.Equal(t, "logo_20240501_103000_2.png", second.Filename)
	assert.Equal(t, 2, countDir(t, dir))

	data, err := os.ReadFile(filepath.Join(dir, first.Filename))
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestDelete_RemovesBlobAndRecord(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	a, err := svc.Upload(ctx, "doc.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID))

	_, err = os.Stat(filepath.Join(dir, a.Filename))
	assert.True(t, os.IsNotExist(err))
	_, err = svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrMediaNotFound)
}

func TestDelete_MissingBlobStillDeletesRecord(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	a, err := svc.Upload(ctx, "clip.mp4", strings.NewReader("video"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, a.Filename)))

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrMediaNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.Delete(context.Background(), 42), ErrMediaNotFound)
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, a *Asset) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id uint) (*Asset, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*Asset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) List(ctx context.Context) ([]*Asset, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*Asset), args.Error(1)
}

func (m *mockRepository) Stats(ctx context.Context) (*Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(*Stats), args.Error(1)
}

func TestUpload_RecordFailureRemovesBlob(t *testing.T) {
	dir := t.TempDir()
	repo := new(mockRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*media.Asset")).Return(errors.New("disk full"))

	svc := NewService(repo, Options{BaseDir: dir}, nil, nil)
	_, err := svc.Upload(context.Background(), "photo.png", strings.NewReader("png"))
	require.Error(t, err)

	assert.Equal(t, 0, countDir(t, dir))
	repo.AssertExpectations(t)
}

func TestDelete_UnsafeStoredName(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetByID", mock.Anything, uint(7)).Return(&Asset{ID: 7, Filename: "../secret.db"}, nil)

	svc := NewService(repo, Options{BaseDir: t.TempDir()}, nil, nil)
	err := svc.Delete(context.Background(), 7)
	require.ErrorIs(t, err, ErrUnsafeFilename)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.Count)
	assert.Equal(t, int64(0), st.TotalSize)

	_, err = svc.Upload(ctx, "a.png", strings.NewReader("abc"))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, "b.gif", strings.NewReader("de"))
	require.NoError(t, err)

	st, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.Count)
	assert.Equal(t, int64(5), st.TotalSize)
}

func TestReconcile(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	kept, err := svc.Upload(ctx, "kept.png", strings.NewReader("k"))
	require.NoError(t, err)
	gone, err := svc.Upload(ctx, "gone.png", strings.NewReader("g"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, gone.Filename)))

	orphan := filepath.Join(dir, "stray.png")
	require.NoError(t, os.WriteFile(orphan, []byte("s"), 0o644))
	old := fixedNow.Add(-time.Hour)
	require.NoError(t, os.Chtimes(orphan, old, old))

	rep, err := svc.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"stray.png"}, rep.OrphanBlobs)
	require.Len(t, rep.DanglingRecords, 1)
	assert.Equal(t, gone.ID, rep.DanglingRecords[0].ID)
	assert.Equal(t, 0, rep.Removed)

	rep, err = svc.Reconcile(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Removed)

	_, err = os.Stat(orphan)
	assert.True(t, os.IsNotExist(err))
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)
}

func TestSplitSafeName(t *testing.T) {
	cases := []struct {
		in, base, ext string
	}{
		{"photo.JPG", "photo", ".JPG"},
		{`C:\Users\me\cv.pdf`, "cv", ".pdf"},
		{"...png", "file", ".png"},
		{"résumé.pdf", "r_sum", ".pdf"},
	}
	for _, tc := range cases {
		base, ext := splitSafeName(tc.in)
		assert.Equal(t, tc.base, base, tc.in)
		assert.Equal(t, tc.ext, ext, tc.in)
	}
}
