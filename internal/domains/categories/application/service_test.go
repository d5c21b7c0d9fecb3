package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finprodb/shop-api/internal/domains/categories/adapters/memory"
	"github.com/finprodb/shop-api/internal/domains/categories/domain"
	"github.com/finprodb/shop-api/internal/domains/categories/ports"
	"github.com/finprodb/shop-api/internal/platform/storage"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

type recordingImageStore struct {
	saved []int64
}

func (r *recordingImageStore) Save(_ context.Context, kind storage.Kind, ownerID int64, upload *storage.Upload) (string, error) {
	if err := upload.Validate(); err != nil {
		return "", err
	}
	r.saved = append(r.saved, ownerID)
	return "/uploads/" + kind.Folder + "/" + kind.Prefix + "-1-1.png", nil
}

func newService() (*Service, *recordingImageStore) {
	images := &recordingImageStore{}
	return NewService(memory.NewRepository(), images), images
}

func TestCreateUpdateDelete(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, ports.CategoryInput{Name: " Shoes ", Description: "Footwear"})
	require.NoError(t, err)
	require.Equal(t, "Shoes", created.Name)

	updated, err := svc.Update(ctx, created.ID, ports.CategoryInput{Name: "Sneakers"})
	require.NoError(t, err)
	require.Equal(t, "Sneakers", updated.Name)
	require.Empty(t, updated.Description)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ports.ErrNotFound)

	_, err = svc.Update(ctx, created.ID, ports.CategoryInput{Name: "Again"})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestCreateRequiresName(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Create(context.Background(), ports.CategoryInput{Name: "  "})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNameRequired)
}

func TestListsSkipDeletedAndOrder(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	first, _ := svc.Create(ctx, ports.CategoryInput{Name: "A"})
	_, _ = svc.Create(ctx, ports.CategoryInput{Name: "B"})
	_, _ = svc.Create(ctx, ports.CategoryInput{Name: "C"})
	require.NoError(t, svc.Delete(ctx, first.ID))

	public, err := svc.ListPublic(ctx, pagination.Request{Page: 0, Size: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), public.TotalElements)
	require.Equal(t, "B", public.Content[0].Name)

	admin, err := svc.ListAdmin(ctx, pagination.Request{Page: 0, Size: 0})
	require.NoError(t, err)
	require.Equal(t, 1, admin.Size)
	require.Equal(t, "C", admin.Content[0].Name)
}

func TestUploadImageValidatesBeforeLookup(t *testing.T) {
	svc, images := newService()
	ctx := context.Background()

	_, err := svc.UploadImage(ctx, 999, nil)
	require.ErrorIs(t, err, storage.ErrFileRequired)

	_, err = svc.UploadImage(ctx, 999, &storage.Upload{Content: strings.NewReader("x"), Size: 1, ContentType: "text/plain"})
	require.ErrorIs(t, err, storage.ErrNotAnImage)

	png := &storage.Upload{Filename: "a.png", Content: strings.NewReader("x"), Size: 1, ContentType: "image/png"}
	_, err = svc.UploadImage(ctx, 999, png)
	require.ErrorIs(t, err, ports.ErrNotFound)

	created, _ := svc.Create(ctx, ports.CategoryInput{Name: "Shoes"})
	withImage, err := svc.UploadImage(ctx, created.ID, png)
	require.NoError(t, err)
	require.Equal(t, "/uploads/categories/category-1-1.png", withImage.ImagePath)
	require.Equal(t, []int64{created.ID}, images.saved)
}
