package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"laily-api/internal/export"
	"laily-api/internal/models"
	"laily-api/internal/responses"
	"laily-api/internal/service"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// ProductListResponse es la respuesta de GET /api/products.
// Page, PageSize y Total solo aparecen cuando se pidió una página.
type ProductListResponse struct {
	Message  string           `json:"message"`
	Count    int              `json:"count"`
	Products []models.Product `json:"products"`
	Total    *int64           `json:"total,omitempty"`
	Page     int              `json:"page,omitempty"`
	PageSize int              `json:"page_size,omitempty"`
}

// POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.Error(c, responses.BindError(err))
		return
	}

	product, err := h.products.Create(c.Request.Context(), in)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusCreated, "product created successfully", gin.H{"product": product})
}

// GET /api/products?category=&status=&page=&page_size=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := models.ProductFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
	}
	filter.Page, filter.PageSize = getPaginationParams(c)

	products, total, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		responses.Error(c, err)
		return
	}

	resp := ProductListResponse{
		Message:  "products retrieved successfully",
		Count:    len(products),
		Products: products,
	}
	if filter.Paginated() {
		resp.Total = &total
		resp.Page = filter.Page
		resp.PageSize = filter.PageSize
	}
	c.JSON(http.StatusOK, resp)
}

// getPaginationParams devuelve 0, 0 si no se pidió paginación.
// Valores fuera de rango vuelven a los valores por defecto.
func getPaginationParams(c *gin.Context) (page, pageSize int) {
	rawPage, hasPage := c.GetQuery("page")
	rawSize, hasSize := c.GetQuery("page_size")
	if !hasPage && !hasSize {
		return 0, 0
	}

	page, _ = strconv.Atoi(rawPage)
	pageSize, _ = strconv.Atoi(rawSize)
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return page, pageSize
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, "product retrieved successfully", gin.H{"product": product})
}

// GET /api/products/sku/:sku
func (h *ProductHandler) GetProductBySKU(c *gin.Context) {
	product, err := h.products.GetBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, "product retrieved successfully", gin.H{"product": product})
}

// PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		responses.Error(c, responses.BindError(err))
		return
	}

	product, err := h.products.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, "product updated successfully", gin.H{"product": product})
}

// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	deleted, err := h.products.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, "product deleted successfully", gin.H{"product": deleted})
}

// GET /api/products/:id/variants?color=&size=
func (h *ProductHandler) FindVariant(c *gin.Context) {
	variant, err := h.products.FindVariant(c.Request.Context(), c.Param("id"), c.Query("color"), c.Query("size"))
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, "variant retrieved successfully", gin.H{"variant": variant})
}

// POST /api/products/:id/variants
func (h *ProductHandler) AddVariant(c *gin.Context) {
	var in models.VariantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.Error(c, responses.BindError(err))
		return
	}

	product, err := h.products.AddVariant(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusCreated, "variant added successfully", gin.H{"product": product})
}

// DELETE /api/products/:id/variants/:variantId
func (h *ProductHandler) RemoveVariant(c *gin.Context) {
	product, err := h.products.RemoveVariant(c.Request.Context(), c.Param("id"), c.Param("variantId"))
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, "variant deleted successfully", gin.H{"product": product})
}

// PUT /api/products/:id/variants/:variantId/stock
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	var in models.StockUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		responses.Error(c, responses.BindError(err))
		return
	}

	product, err := h.products.UpdateStock(c.Request.Context(), c.Param("id"), c.Param("variantId"), in.Stock)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, "stock updated successfully", gin.H{"product": product})
}

// GET /api/products/export
func (h *ProductHandler) ExportProducts(c *gin.Context) {
	products, _, err := h.products.List(c.Request.Context(), models.ProductFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
	})
	if err != nil {
		responses.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Header("Content-Type", export.ContentType)
	c.Status(http.StatusOK)
	if err := export.Write(c.Writer, products); err != nil {
		// las cabeceras ya se enviaron; solo queda registrar el error
		_ = c.Error(err)
	}
}
