package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/brandlens/models"
	"github.com/use-agent/brandlens/scraper"
)

// Palette returns a handler for POST /api/v1/palette: fetch one image URL
// and return its dominant-color palette without a browser run.
func Palette(sc *scraper.Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PaletteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.PaletteResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		pal, dl, err := sc.PaletteForURL(c.Request.Context(), req.URL)
		if err != nil {
			extractErr, ok := err.(*models.ExtractError)
			if !ok {
				extractErr = models.NewExtractError(models.ErrCodeInternal, err.Error(), err)
			}
			c.JSON(mapErrorToStatus(extractErr), models.PaletteResponse{
				Success:  false,
				Download: dl,
				Error:    extractErr.ToDetail(),
			})
			return
		}

		c.JSON(http.StatusOK, models.PaletteResponse{
			Success:  true,
			Palette:  pal,
			Download: dl,
		})
	}
}
