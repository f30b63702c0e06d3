package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/stickerwalk/module/core/domain"
)

type progressReader interface {
	Progress() []domain.AreaProgress
	Area(area string) (domain.AreaProgress, bool)
	IsCollected(area string, index int) bool
}

type spriteResolver interface {
	Sprite(area string, index int) (string, bool)
}

type progressResponse struct {
	Area      string `json:"area"`
	Collected int    `json:"collected"`
	Total     int    `json:"total"`
	Label     string `json:"label"`
	Indices   []int  `json:"indices"`
}

type stickerResponse struct {
	Area      string `json:"area"`
	Index     int    `json:"index"`
	Collected bool   `json:"collected"`
	Image     string `json:"image,omitempty"`
}

type ProgressHandler struct {
	progress progressReader
	sprites  spriteResolver
}

func NewProgressHandler(progress progressReader, sprites spriteResolver) *ProgressHandler {
	return &ProgressHandler{progress: progress, sprites: sprites}
}

func (h *ProgressHandler) Register(r *gin.RouterGroup) {
	r.GET("/progress", h.GetProgress)
	r.GET("/progress/:area", h.GetAreaProgress)
	r.GET("/areas/:area/stickers/:index", h.GetSticker)
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	rows := h.progress.Progress()
	results := make([]progressResponse, len(rows))
	for i, row := range rows {
		results[i] = toProgressResponse(row)
	}
	c.JSON(http.StatusOK, results)
}

func (h *ProgressHandler) GetAreaProgress(c *gin.Context) {
	row, ok := h.progress.Area(c.Param("area"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "area not found"})
		return
	}
	c.JSON(http.StatusOK, toProgressResponse(row))
}

// GetSticker reports whether a sticker was collected. The sprite is only
// revealed once it has been.
func (h *ProgressHandler) GetSticker(c *gin.Context) {
	area := c.Param("area")
	if _, ok := h.progress.Area(area); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "area not found"})
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sticker index"})
		return
	}

	resp := stickerResponse{
		Area:      area,
		Index:     index,
		Collected: h.progress.IsCollected(area, index),
	}
	if resp.Collected {
		if image, ok := h.sprites.Sprite(area, index); ok {
			resp.Image = image
		}
	}
	c.JSON(http.StatusOK, resp)
}

func toProgressResponse(row domain.AreaProgress) progressResponse {
	return progressResponse{
		Area:      row.Area,
		Collected: row.Collected,
		Total:     row.Total,
		Label:     fmt.Sprintf("%d de %d", row.Collected, row.Total),
		Indices:   row.Indices,
	}
}
