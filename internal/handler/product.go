package handler

import (
	"strconv"
	"time"

	"license-gateway/internal/database"
	"license-gateway/internal/model"

	"github.com/gofiber/fiber/v2"
)

// HandleGetProducts lists the registry for the admin console, including
// seller keys. Only reachable behind the admin middleware.
func HandleGetProducts(c *fiber.Ctx) error {
	var products []model.Product
	if err := database.DB.Order("id ASC").Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load products",
		})
	}

	out := make([]fiber.Map, 0, len(products))
	for _, p := range products {
		out = append(out, fiber.Map{
			"id":           p.ID,
			"name":         p.Name,
			"seller_key":   p.SellerKey,
			"download_url": p.DownloadURL,
			"created_at":   p.CreatedAt,
			"updated_at":   p.UpdatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"products": out,
	})
}

func HandleCreateProduct(c *fiber.Ctx) error {
	input := new(model.ProductInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input data",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name and seller_key are required",
		})
	}

	product := &model.Product{
		Name:        input.Name,
		SellerKey:   input.SellerKey,
		DownloadURL: input.DownloadURL,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := database.DB.Create(product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create product",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

func HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid product id",
		})
	}

	input := new(model.ProductInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input data",
		})
	}

	var product model.Product
	result := database.DB.First(&product, id)
	if result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "product not found",
		})
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.SellerKey != "" {
		product.SellerKey = input.SellerKey
	}
	if input.DownloadURL != "" {
		product.DownloadURL = input.DownloadURL
	}
	product.UpdatedAt = time.Now()

	if err := database.DB.Save(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update product",
		})
	}

	return c.JSON(fiber.Map{
		"message": "product updated",
		"product": product,
	})
}

func HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid product id",
		})
	}

	var product model.Product
	result := database.DB.First(&product, id)
	if result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "product not found",
		})
	}

	if err := database.DB.Delete(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete product",
		})
	}

	return c.JSON(fiber.Map{
		"message": "product deleted",
	})
}
