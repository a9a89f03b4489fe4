package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"tubegate/internal/core/domain"
	"tubegate/internal/core/ports"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPHandler struct {
	service ports.VideoService
	log     *zap.Logger
	version string
}

func NewHTTPHandler(service ports.VideoService, log *zap.Logger, version string) *HTTPHandler {
	return &HTTPHandler{service: service, log: log, version: version}
}

func (h *HTTPHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.handleHealth)
	r.POST("/download/:resolution", h.handleDownload)
	r.POST("/video_info", h.handleVideoInfo)
	r.POST("/available_resolutions", h.handleAvailableResolutions)
}

func (h *HTTPHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

func (h *HTTPHandler) handleDownload(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	resolution := c.Param("resolution")

	if err := h.service.Download(c.Request.Context(), req, resolution); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Video with resolution %s downloaded successfully.", resolution),
	})
}

func (h *HTTPHandler) handleVideoInfo(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	info, err := h.service.VideoInfo(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *HTTPHandler) handleAvailableResolutions(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	set, err := h.service.AvailableResolutions(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// bind decodes the JSON body. A body that cannot be decoded is reported the
// same way as a missing url.
func (h *HTTPHandler) bind(c *gin.Context) (domain.VideoRequest, bool) {
	var req domain.VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingURL.Error()})
		return req, false
	}
	return req, true
}

// writeError maps the error taxonomy onto status codes. Validation failures
// are 400; session, not-found, and download failures are 500 with the
// underlying message verbatim.
func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrMissingURL) || errors.Is(err, domain.ErrInvalidURL) {
		status = http.StatusBadRequest
	} else {
		h.log.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
