package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"printshop/internal/domain"
)

// attachmentHandler streams a stored file as a download. Names that are
// missing or would leave the directory get a 404.
func attachmentHandler(dir fileDir) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := dir.Stat(c.Param("filename"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.String(http.StatusNotFound, "not found")
				return
			}
			_ = c.Error(err)
			c.String(http.StatusInternalServerError, "internal error")
			return
		}
		c.FileAttachment(f.Path, f.Name)
	}
}
