package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	categorymapper "github.com/finprodb/shop-api/internal/domains/categories/adapters/http/mapper"
	categorydomain "github.com/finprodb/shop-api/internal/domains/categories/domain"
	categoryports "github.com/finprodb/shop-api/internal/domains/categories/ports"
	productmapper "github.com/finprodb/shop-api/internal/domains/products/adapters/http/mapper"
	productdomain "github.com/finprodb/shop-api/internal/domains/products/domain"
	productports "github.com/finprodb/shop-api/internal/domains/products/ports"
	"github.com/finprodb/shop-api/internal/shared/pagination"
)

// CategoryAPI serves the public and admin category endpoints.
type CategoryAPI struct {
	service categoryports.Service
}

// NewCategoryAPI creates a CategoryAPI backed by the category service.
func NewCategoryAPI(service categoryports.Service) CategoryAPI {
	return CategoryAPI{service: service}
}

// Get /api/categories
// Paged list of active categories
func (api *CategoryAPI) ListCategories(c *gin.Context) {
	page, ok := parsePageParams(c)
	if !ok {
		return
	}
	result, err := api.service.ListPublic(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Map(result, categorymapper.FromDomain))
}

// Get /api/categories/:id
func (api *CategoryAPI) GetCategory(c *gin.Context) {
	api.get(c)
}

// Get /api/admin/categories
// Paged list of categories, newest first
func (api *CategoryAPI) AdminListCategories(c *gin.Context) {
	page, ok := parsePageParams(c)
	if !ok {
		return
	}
	result, err := api.service.ListAdmin(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Map(result, categorymapper.FromDomain))
}

// Get /api/admin/categories/:id
func (api *CategoryAPI) AdminGetCategory(c *gin.Context) {
	api.get(c)
}

func (api *CategoryAPI) get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	category, err := api.service.Get(c.Request.Context(), id)
	if err != nil {
		respondLookupError(c, err, "category", categoryports.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, categorymapper.FromDomain(category))
}

// Post /api/admin/categories
func (api *CategoryAPI) CreateCategory(c *gin.Context) {
	var payload categorymapper.CategoryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	category, err := api.service.Create(c.Request.Context(), categorymapper.ToInput(payload))
	api.write(c, category, err)
}

// Put /api/admin/categories/:id
func (api *CategoryAPI) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload categorymapper.CategoryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	category, err := api.service.Update(c.Request.Context(), id, categorymapper.ToInput(payload))
	api.write(c, category, err)
}

// Post /api/admin/categories/:id/image
// Upload a category image as multipart field "file"
func (api *CategoryAPI) UploadCategoryImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	upload, release, ok := formUpload(c)
	if !ok {
		return
	}
	defer release()
	category, err := api.service.UploadImage(c.Request.Context(), id, upload)
	api.write(c, category, err)
}

// Delete /api/admin/categories/:id
// Soft-deletes the category
func (api *CategoryAPI) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondLookupError(c, err, "category", categoryports.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *CategoryAPI) write(c *gin.Context, category *categorydomain.Category, err error) {
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categorymapper.FromDomain(category))
}

// ProductAPI serves the public and admin product endpoints.
type ProductAPI struct {
	service productports.Service
}

// NewProductAPI creates a ProductAPI backed by the product service.
func NewProductAPI(service productports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Get /api/products
// Search active products by name and category
func (api *ProductAPI) ListProducts(c *gin.Context) {
	page, ok := parsePageParams(c)
	if !ok {
		return
	}
	categoryID, ok := bindOptionalInt64Query(c, "categoryId")
	if !ok {
		return
	}
	filter := productports.ListFilter{Page: page, Query: c.Query("q"), CategoryID: categoryID}
	result, err := api.service.ListPublic(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Map(result, productmapper.FromDomain))
}

// Get /api/products/:id
// Active product by id
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := api.service.GetPublic(c.Request.Context(), id)
	if err != nil {
		respondLookupError(c, err, "product", productports.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomain(product))
}

// Get /api/admin/products
func (api *ProductAPI) AdminListProducts(c *gin.Context) {
	page, ok := parsePageParams(c)
	if !ok {
		return
	}
	result, err := api.service.ListAdmin(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Map(result, productmapper.FromDomain))
}

// Get /api/admin/products/:id
// Any non-deleted product, active or not
func (api *ProductAPI) AdminGetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := api.service.Get(c.Request.Context(), id)
	if err != nil {
		respondLookupError(c, err, "product", productports.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomain(product))
}

// Post /api/admin/products
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload productmapper.ProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := api.service.Create(c.Request.Context(), productmapper.ToDetails(payload))
	api.write(c, product, err)
}

// Put /api/admin/products/:id
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload productmapper.ProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := api.service.Update(c.Request.Context(), id, productmapper.ToDetails(payload))
	api.write(c, product, err)
}

// Post /api/admin/products/:id/image
// Upload a product image as multipart field "file"
func (api *ProductAPI) UploadProductImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	upload, release, ok := formUpload(c)
	if !ok {
		return
	}
	defer release()
	product, err := api.service.UploadImage(c.Request.Context(), id, upload)
	api.write(c, product, err)
}

// Delete /api/admin/products/:id
// Soft-deletes the product
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondLookupError(c, err, "product", productports.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *ProductAPI) write(c *gin.Context, product *productdomain.Product, err error) {
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomain(product))
}
