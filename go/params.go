package shopserver

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"github.com/finprodb/shop-api/internal/platform/storage"
	apierrors "github.com/finprodb/shop-api/internal/shared/errors"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

// parseIDParam binds an int64 path parameter, answering 400 on failure.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		respondProblem(c, apierrors.NewValidationProblem(name, "must be a number", nil))
		return 0, false
	}
	return id, true
}

// parsePageParams reads ?page&size; normalisation happens in the services.
func parsePageParams(c *gin.Context) (pagination.Request, bool) {
	page := pagination.Request{Page: 0, Size: pagination.DefaultSize}
	query := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", query, &page.Page); err != nil {
		respondProblem(c, apierrors.NewValidationProblem("page", "must be a number", nil))
		return page, false
	}
	if err := runtime.BindQueryParameter("form", true, false, "size", query, &page.Size); err != nil {
		respondProblem(c, apierrors.NewValidationProblem("size", "must be a number", nil))
		return page, false
	}
	return page, true
}

// bindOptionalInt64Query binds an optional integer query parameter.
func bindOptionalInt64Query(c *gin.Context, name string) (*int64, bool) {
	var value *int64
	if err := runtime.BindQueryParameter("form", true, false, name, c.Request.URL.Query(), &value); err != nil {
		respondProblem(c, apierrors.NewValidationProblem(name, "must be a number", nil))
		return nil, false
	}
	return value, true
}

// formUpload reads the multipart "file" field. A missing field yields an
// empty upload so the service reports "File is required".
func formUpload(c *gin.Context) (*storage.Upload, func(), bool) {
	header, err := c.FormFile("file")
	if err != nil {
		return &storage.Upload{}, func() {}, true
	}
	file, err := header.Open()
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("File could not be read"))
		return nil, func() {}, false
	}
	upload := &storage.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     io.Reader(file),
	}
	return upload, func() { _ = file.Close() }, true
}

// bindOptionalJSON binds a body that may be absent; present is false when
// the request carried no body at all.
func bindOptionalJSON(c *gin.Context, dest any) (present bool, ok bool) {
	err := c.ShouldBindJSON(dest)
	switch {
	case errors.Is(err, io.EOF):
		return false, true
	case err != nil:
		respondBindError(c, err)
		return false, false
	}
	return true, true
}
