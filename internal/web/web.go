package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed index.html.tmpl
var content embed.FS

// PageData parameterizes the live page: the decoder column is rendered
// only when a decoder is configured, and the refresh hint mirrors the
// recompute interval.
type PageData struct {
	HasDecoder          bool
	RecomputeIntervalMS int64
}

type Handler struct {
	data PageData
}

func NewHandler(hasDecoder bool, recomputeIntervalMS int64) *Handler {
	return &Handler{
		data: PageData{
			HasDecoder:          hasDecoder,
			RecomputeIntervalMS: recomputeIntervalMS,
		},
	}
}

// Template parses the embedded page. Split out so the app can install it
// on the router once at startup.
func Template() (*template.Template, error) {
	return template.ParseFS(content, "index.html.tmpl")
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Index)
}

func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html.tmpl", h.data)
}
