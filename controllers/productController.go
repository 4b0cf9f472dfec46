package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pos-api/models"
	"pos-api/store"
	"pos-api/utils"
)

type ProductController struct {
	repo store.Repository
}

func NewProductController(repo store.Repository) *ProductController {
	return &ProductController{repo: repo}
}

func (pc *ProductController) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := store.ProductFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Page:     page,
		PageSize: pageSize,
	}

	products, total, err := pc.repo.ListProducts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       utils.FilterProductsForRole(products, c.GetString("role")),
		"page":       filter.Page,
		"page_size":  filter.PageSize,
		"total":      total,
		"totalPages": (total + int64(filter.PageSize) - 1) / int64(filter.PageSize),
	})
}

func (pc *ProductController) GetProductByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	product, err := pc.repo.GetProduct(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.FilterProductForRole(*product, c.GetString("role")))
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var input models.Product
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := pc.repo.CreateProduct(c.Request.Context(), &input); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, input)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	existing, err := pc.repo.GetProduct(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.Product
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input.ID = existing.ID
	if err := pc.repo.UpdateProduct(c.Request.Context(), &input); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, input)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	if err := pc.repo.DeleteProduct(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func (pc *ProductController) GetCategories(c *gin.Context) {
	categories, err := pc.repo.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (pc *ProductController) GetLowStock(c *gin.Context) {
	products, err := pc.repo.LowStockProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products, "count": len(products)})
}
